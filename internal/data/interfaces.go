package data

import (
	"context"

	"github.com/songzhibin97/coinsage/internal/models"
)

// MarketFetcher 负责从行情源获取分类市场数据
type MarketFetcher interface {
	// FetchCategory retrieves up to limit coins for a category,
	// ordered by descending 24h trading volume
	FetchCategory(ctx context.Context, category string, limit int) ([]models.CoinMetrics, error)
}

// TrendFetcher 负责获取社交平台热度数据
type TrendFetcher interface {
	// FetchKeyword retrieves keyword trend records for a platform
	FetchKeyword(ctx context.Context, platform string) ([]models.TrendRecord, error)
}
