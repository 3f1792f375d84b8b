package models

import "time"

// CoinMetrics 单个币种的市场指标
type CoinMetrics struct {
	Symbol         string  `json:"symbol"`
	Price          float64 `json:"price"`
	PriceChange24h float64 `json:"price_change_24h"` // 24小时涨跌幅(%)
	Volume24h      float64 `json:"volume_24h"`
	MarketCap      float64 `json:"market_cap"`
	LiquidityScore float64 `json:"liquidity_score"` // volume/marketCap*100
	RiskLevel      string  `json:"risk_level"`
}

// TrendRecord 热度数据记录, 上游所有字段均为可选
type TrendRecord struct {
	Time       string  `json:"time,omitempty"`
	TimePeriod string  `json:"time_period,omitempty"`
	Trend      float64 `json:"trend,omitempty"`
	Volume     float64 `json:"volume,omitempty"`
}

// ActionRequest 代理发起的一次操作调用, 响应后即丢弃
type ActionRequest struct {
	Name       string         `json:"name"`
	Parameters map[string]any `json:"parameters"`
}

// ActionResponse 操作执行结果
type ActionResponse struct {
	Data      any       `json:"data,omitempty"`
	Message   string    `json:"message"`
	Category  string    `json:"category,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
