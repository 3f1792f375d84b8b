package exchange

import (
	"context"
	"fmt"
	"strconv"

	"github.com/adshao/go-binance/v2"
	"github.com/shopspring/decimal"

	"github.com/songzhibin97/coinsage/internal/wallet"
)

// Provider implements wallet.Provider on top of a plain exchange account.
// Useful in development: no custody service required, swaps become market
// orders on the configured quote asset.
type Provider struct {
	client    *binance.Client
	baseAsset string // 余额按此资产计, 例如 USDT
	apiKey    string
	secretKey string
}

// NewProvider creates an exchange-backed wallet. debug routes to the testnet.
func NewProvider(apiKey, secretKey, baseAsset string, debug ...bool) *Provider {
	debug = append(debug, false)
	if debug[0] {
		binance.UseTestnet = true
	}

	if baseAsset == "" {
		baseAsset = "USDT"
	}

	return &Provider{
		client:    binance.NewClient(apiKey, secretKey),
		baseAsset: baseAsset,
		apiKey:    apiKey,
		secretKey: secretKey,
	}
}

// GetBalance implements wallet.Provider.
func (p *Provider) GetBalance(ctx context.Context) (decimal.Decimal, error) {
	account, err := p.client.NewGetAccountService().Do(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get account info: %w", err)
	}

	for _, balance := range account.Balances {
		if balance.Asset == p.baseAsset {
			free, err := decimal.NewFromString(balance.Free)
			if err != nil {
				return decimal.Zero, fmt.Errorf("failed to parse balance: %w", err)
			}
			return free, nil
		}
	}

	return decimal.Zero, fmt.Errorf("balance not found for asset: %s", p.baseAsset)
}

// ExportWallet implements wallet.Provider. Exchange custody has no portable
// credential blob, so there is nothing to persist.
func (p *Provider) ExportWallet(ctx context.Context) ([]byte, error) {
	return nil, fmt.Errorf("exchange-backed wallet does not support export")
}

// Swap implements wallet.Provider as a market buy of the token's trading
// pair against the base asset. ClientRef is forwarded as the client order
// id, which the exchange deduplicates.
func (p *Provider) Swap(ctx context.Context, req *wallet.SwapRequest) (*wallet.SwapResult, error) {
	if req.ClientRef == "" {
		return nil, fmt.Errorf("swap request requires a client reference")
	}

	// 交易所场景下 TokenAddress 携带交易对符号
	symbol := req.TokenAddress + p.baseAsset

	result, err := p.client.NewCreateOrderService().
		Symbol(symbol).
		Side(binance.SideTypeBuy).
		Type(binance.OrderTypeMarket).
		QuoteOrderQty(req.Amount.String()).
		NewClientOrderID(req.ClientRef).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to place swap order: %w", err)
	}

	return &wallet.SwapResult{
		TransactionID: strconv.FormatInt(result.OrderID, 10),
		Status:        string(result.Status),
	}, nil
}
