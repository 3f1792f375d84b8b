package request

import (
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Request 全局HTTP客户端, 单次请求不做重试, 上游失败直接暴露给调用方
var Request = resty.New().SetTransport(&http.Transport{
	Proxy: http.ProxyFromEnvironment, // 通用适配环境变量
}).SetTimeout(15 * time.Second)
