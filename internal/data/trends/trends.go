package trends

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/songzhibin97/coinsage/internal/models"
	"github.com/songzhibin97/coinsage/internal/utils/request"
)

const defaultBaseURL = "https://api.santiment.net/datasets/keyword_trends"

// SantimentFetcher implements data.TrendFetcher against a fixed dataset
// endpoint keyed by query parameter.
type SantimentFetcher struct {
	baseURL    string
	apiKey     string
	httpClient *resty.Client
	logger     *slog.Logger
}

func NewSantimentFetcher(apiKey string, logger *slog.Logger) *SantimentFetcher {
	return &SantimentFetcher{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		httpClient: request.Request,
		logger:     logger,
	}
}

// FetchKeyword implements data.TrendFetcher.
func (f *SantimentFetcher) FetchKeyword(ctx context.Context, platform string) ([]models.TrendRecord, error) {
	resp, err := f.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"platform": platform,
			"api_key":  f.apiKey,
		}).
		Get(f.baseURL)
	if err != nil {
		f.logger.Error("trend data request failed", "platform", platform, "err", err)
		return nil, fmt.Errorf("failed to fetch trend data for %s: %w", platform, err)
	}

	if resp.StatusCode() != http.StatusOK {
		f.logger.Error("trend data request rejected",
			"platform", platform, "status", resp.StatusCode())
		return nil, fmt.Errorf("unexpected status code %d for platform %s", resp.StatusCode(), platform)
	}

	var records []models.TrendRecord
	if err := json.Unmarshal(resp.Body(), &records); err != nil {
		return nil, fmt.Errorf("failed to decode trend data response: %w", err)
	}

	return records, nil
}

// FormatRecords renders trend records as multi-line text blocks,
// one block per record, omitting fields the upstream left empty.
func FormatRecords(records []models.TrendRecord) string {
	if len(records) == 0 {
		return "no trend data available"
	}

	var sb strings.Builder
	for i, r := range records {
		if i > 0 {
			sb.WriteString("\n")
		}
		if r.Time != "" {
			fmt.Fprintf(&sb, "Time: %s\n", r.Time)
		}
		if r.TimePeriod != "" {
			fmt.Fprintf(&sb, "Period: %s\n", r.TimePeriod)
		}
		fmt.Fprintf(&sb, "Trend: %.2f\n", r.Trend)
		fmt.Fprintf(&sb, "Volume: %.2f\n", r.Volume)
	}
	return sb.String()
}
