package cdp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/songzhibin97/coinsage/internal/utils/request"
	"github.com/songzhibin97/coinsage/internal/wallet"
)

const defaultBaseURL = "https://api.cdp.coinbase.com/platform/v1"

// Config 连接托管钱包服务所需的全部凭证
type Config struct {
	APIKeyName       string
	APIKeyPrivateKey string
	WalletData       []byte // 可选, 已有钱包的导出数据
	NetworkID        string // 例如 base-sepolia
}

// Provider implements wallet.Provider against a CDP-style custody REST API.
// The wallet's internal representation stays on the server side; this client
// only moves opaque blobs and decimal amounts.
type Provider struct {
	baseURL    string
	cfg        Config
	httpClient *resty.Client
}

func NewProvider(cfg Config) (*Provider, error) {
	if cfg.APIKeyName == "" || cfg.APIKeyPrivateKey == "" {
		return nil, fmt.Errorf("wallet api key name and private key are required")
	}
	if cfg.NetworkID == "" {
		cfg.NetworkID = "base-sepolia"
	}

	return &Provider{
		baseURL:    defaultBaseURL,
		cfg:        cfg,
		httpClient: request.Request,
	}, nil
}

func (p *Provider) newRequest(ctx context.Context) *resty.Request {
	return p.httpClient.R().
		SetContext(ctx).
		SetHeader("X-Api-Key-Name", p.cfg.APIKeyName).
		SetHeader("X-Api-Key-Secret", p.cfg.APIKeyPrivateKey).
		SetQueryParam("network_id", p.cfg.NetworkID)
}

// GetBalance implements wallet.Provider.
func (p *Provider) GetBalance(ctx context.Context) (decimal.Decimal, error) {
	resp, err := p.newRequest(ctx).Get(p.baseURL + "/wallet/balance")
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to query wallet balance: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return decimal.Zero, fmt.Errorf("wallet balance query rejected with status %d", resp.StatusCode())
	}

	var body struct {
		Amount string `json:"amount"`
		Asset  string `json:"asset"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return decimal.Zero, fmt.Errorf("failed to decode balance response: %w", err)
	}

	amount, err := decimal.NewFromString(body.Amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse balance amount %q: %w", body.Amount, err)
	}
	return amount, nil
}

// ExportWallet implements wallet.Provider. The returned blob is stored
// verbatim by the credential store, never parsed here.
func (p *Provider) ExportWallet(ctx context.Context) ([]byte, error) {
	resp, err := p.newRequest(ctx).Get(p.baseURL + "/wallet/export")
	if err != nil {
		return nil, fmt.Errorf("failed to export wallet: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("wallet export rejected with status %d", resp.StatusCode())
	}
	return resp.Body(), nil
}

// Swap implements wallet.Provider. The caller-supplied ClientRef is passed
// through as the dedupe key, so resubmitting the same request cannot double
// spend.
func (p *Provider) Swap(ctx context.Context, req *wallet.SwapRequest) (*wallet.SwapResult, error) {
	if req.ClientRef == "" {
		return nil, fmt.Errorf("swap request requires a client reference")
	}

	resp, err := p.newRequest(ctx).
		SetBody(map[string]string{
			"token_address": req.TokenAddress,
			"amount":        req.Amount.String(),
			"slippage_pct":  req.SlippagePct.String(),
			"client_ref":    req.ClientRef,
			"wallet_data":   string(p.cfg.WalletData),
		}).
		Post(p.baseURL + "/wallet/swap")
	if err != nil {
		return nil, fmt.Errorf("failed to execute swap: %w", err)
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
		return nil, fmt.Errorf("swap rejected with status %d", resp.StatusCode())
	}

	var body struct {
		TransactionID string `json:"transaction_id"`
		Status        string `json:"status"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("failed to decode swap response: %w", err)
	}

	return &wallet.SwapResult{
		TransactionID: body.TransactionID,
		Status:        body.Status,
	}, nil
}
