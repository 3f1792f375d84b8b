package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/songzhibin97/coinsage/internal/models"
	"github.com/songzhibin97/coinsage/internal/risk"
	"github.com/songzhibin97/coinsage/internal/utils/request"
)

const defaultBaseURL = "https://api.coingecko.com/api/v3"

// ErrRateLimited 上游限流 (HTTP 429)
var ErrRateLimited = errors.New("market data provider rate limit exceeded")

// CoinGeckoFetcher implements data.MarketFetcher backed by the CoinGecko
// /coins/markets endpoint. One GET per call, single page, no retries.
type CoinGeckoFetcher struct {
	baseURL    string
	apiKey     string
	httpClient *resty.Client
	logger     *slog.Logger
}

func NewCoinGeckoFetcher(apiKey string, logger *slog.Logger) *CoinGeckoFetcher {
	return &CoinGeckoFetcher{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		httpClient: request.Request,
		logger:     logger,
	}
}

// FetchCategory implements data.MarketFetcher. limit is a hard cap, not a
// target: the provider may return fewer records and the result is truncated
// if it returns more.
func (f *CoinGeckoFetcher) FetchCategory(ctx context.Context, category string, limit int) ([]models.CoinMetrics, error) {
	req := f.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"vs_currency": "usd",
			"category":    category,
			"order":       "volume_desc",
			"per_page":    strconv.Itoa(limit),
			"sparkline":   "false",
		})
	if f.apiKey != "" {
		req.SetHeader("x-cg-demo-api-key", f.apiKey)
	}

	resp, err := req.Get(f.baseURL + "/coins/markets")
	if err != nil {
		f.logger.Error("market data request failed", "category", category, "err", err)
		return nil, fmt.Errorf("failed to fetch market data for %s: %w", category, err)
	}

	if resp.StatusCode() != http.StatusOK {
		f.logger.Error("market data request rejected",
			"category", category, "status", resp.StatusCode())
		if resp.StatusCode() == http.StatusTooManyRequests {
			return nil, ErrRateLimited
		}
		return nil, fmt.Errorf("unexpected status code %d for category %s", resp.StatusCode(), category)
	}

	var raw []struct {
		Symbol                  string  `json:"symbol"`
		CurrentPrice            float64 `json:"current_price"`
		PriceChangePercentage24 float64 `json:"price_change_percentage_24h"`
		TotalVolume             float64 `json:"total_volume"`
		MarketCap               float64 `json:"market_cap"`
	}
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		return nil, fmt.Errorf("failed to decode market data response: %w", err)
	}

	if len(raw) > limit {
		raw = raw[:limit]
	}

	// 保持上游按成交量降序的顺序
	result := make([]models.CoinMetrics, 0, len(raw))
	for _, r := range raw {
		m := models.CoinMetrics{
			Symbol:         strings.ToUpper(r.Symbol),
			Price:          r.CurrentPrice,
			PriceChange24h: r.PriceChangePercentage24,
			Volume24h:      r.TotalVolume,
			MarketCap:      r.MarketCap,
			RiskLevel:      string(risk.Classify(r.TotalVolume, r.MarketCap, r.PriceChangePercentage24)),
		}
		if r.MarketCap > 0 {
			m.LiquidityScore = r.TotalVolume / r.MarketCap * 100
		}
		result = append(result, m)
	}

	return result, nil
}
