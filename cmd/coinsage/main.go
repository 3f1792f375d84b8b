package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/songzhibin97/coinsage/internal/actions"
	agentopenai "github.com/songzhibin97/coinsage/internal/agent/openai"
	"github.com/songzhibin97/coinsage/internal/chat"
	"github.com/songzhibin97/coinsage/internal/configs"
	"github.com/songzhibin97/coinsage/internal/data/market"
	"github.com/songzhibin97/coinsage/internal/data/trends"
	"github.com/songzhibin97/coinsage/internal/wallet"
	"github.com/songzhibin97/coinsage/internal/wallet/cdp"
	"github.com/songzhibin97/coinsage/internal/wallet/exchange"
)

// 注册analyze操作的币种分类
var analyzeCategories = []string{"meme-token", "ai-agents", "decentralized-finance-defi"}

var (
	flagMode     string
	flagInterval time.Duration

	log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
)

func init() {
	flag.StringVar(&flagMode, "mode", "chat", "run mode: chat or auto")
	flag.DurationVar(&flagInterval, "interval", 10*time.Second, "cycle interval in auto mode")
}

func main() {
	flag.Parse()

	// 加载配置, 缺少必填项直接退出
	config, err := configs.Load(log)
	if err != nil {
		log.Error("configuration error", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()

	provider, err := buildWallet(ctx, config)
	if err != nil {
		log.Error("failed to initialize wallet", "err", err)
		os.Exit(1)
	}

	log.Debug("init wallet", "backend", config.WalletBackend, "network", config.NetworkID)

	registry := actions.NewRegistry(log)

	marketFetcher := market.NewCoinGeckoFetcher(config.CoinGeckoAPIKey, log)
	for _, category := range analyzeCategories {
		if err := registry.Register(actions.NewAnalyzeAction(category, marketFetcher)); err != nil {
			log.Error("failed to register action", "category", category, "err", err)
			os.Exit(1)
		}
	}

	trendFetcher := trends.NewSantimentFetcher(config.SantimentAPIKey, log)
	if err := registry.Register(actions.NewKeywordAction(trendFetcher)); err != nil {
		log.Error("failed to register action", "err", err)
		os.Exit(1)
	}

	if err := registry.Register(actions.NewInvestAction(provider)); err != nil {
		log.Error("failed to register action", "err", err)
		os.Exit(1)
	}

	log.Debug("init registry", "actions", len(registry.List()))

	runtime := agentopenai.NewRuntime(config.OpenAIAPIKey, config.Model, registry, log)

	log.Debug("init runtime", "model", config.Model)

	loop := chat.NewLoop(runtime, os.Stdin, os.Stdout, log)

	switch flagMode {
	case "chat":
		err = loop.RunInteractive(ctx)
	case "auto":
		err = loop.RunAutonomous(ctx, flagInterval)
	default:
		log.Error("unknown mode", "mode", flagMode)
		os.Exit(1)
	}

	if err != nil {
		log.Error("conversation loop error", "err", err)
		os.Exit(1)
	}
}

// buildWallet selects the custody backend and runs the credential bootstrap:
// restore the exported blob if one exists, then re-export and save it so the
// next run reuses the same wallet.
func buildWallet(ctx context.Context, config *configs.Config) (wallet.Provider, error) {
	if config.WalletBackend == "exchange" {
		return exchange.NewProvider(config.ExchangeAPIKey, config.ExchangeSecretKey, "", false), nil
	}

	store := wallet.NewFileCredentialStore(config.WalletDataFile)

	blob, err := store.Load()
	if err != nil {
		return nil, err
	}

	provider, err := cdp.NewProvider(cdp.Config{
		APIKeyName:       config.CDPAPIKeyName,
		APIKeyPrivateKey: config.CDPAPIKeyPrivateKey,
		WalletData:       blob,
		NetworkID:        config.NetworkID,
	})
	if err != nil {
		return nil, err
	}

	// 初始化结束后重新导出并保存一次
	exported, err := provider.ExportWallet(ctx)
	if err != nil {
		log.Warn("wallet export failed, credentials not persisted", "err", err)
		return provider, nil
	}
	if err := store.Save(exported); err != nil {
		log.Warn("failed to persist wallet credentials", "err", err)
	}

	return provider, nil
}
