package wallet

import (
	"context"

	"github.com/shopspring/decimal"
)

// Provider defines the custody operations the agent relies on.
// The core never interprets the wallet's internal format.
type Provider interface {
	// GetBalance retrieves the spendable balance in the wallet's base asset
	GetBalance(ctx context.Context) (decimal.Decimal, error)

	// ExportWallet serializes wallet state into an opaque credential blob
	ExportWallet(ctx context.Context) ([]byte, error)

	// Swap executes a token swap and returns the resulting transaction
	Swap(ctx context.Context, req *SwapRequest) (*SwapResult, error)
}

// CredentialStore 钱包凭证的持久化边界, 内容视为不透明字节
type CredentialStore interface {
	// Load returns the stored blob, or nil when none has been saved yet
	Load() ([]byte, error)

	// Save overwrites the stored blob
	Save(data []byte) error
}

// SwapRequest 一次兑换请求
type SwapRequest struct {
	TokenAddress string          // 目标代币合约地址
	Amount       decimal.Decimal // 以基础资产计的数量
	SlippagePct  decimal.Decimal // 允许滑点(%)
	ClientRef    string          // 调用方生成的幂等键
}

// SwapResult 兑换结果
type SwapResult struct {
	TransactionID string
	Status        string
}
