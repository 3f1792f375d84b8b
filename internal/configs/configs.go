package configs

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const defaultNetworkID = "base-sepolia"

// Config 进程启动时构建一次, 之后按引用传给需要它的组件
type Config struct {
	// LLM
	OpenAIAPIKey string
	Model        string // 可选, 空则用运行时默认

	// 托管钱包凭证
	CDPAPIKeyName       string
	CDPAPIKeyPrivateKey string
	NetworkID           string
	WalletDataFile      string // 钱包导出blob的存放路径

	// 可选的数据源密钥
	CoinGeckoAPIKey string
	SantimentAPIKey string

	// 钱包后端: cdp 或 exchange
	WalletBackend     string
	ExchangeAPIKey    string
	ExchangeSecretKey string
}

// Load reads configuration from the environment (a .env file is honored if
// present). All missing required variables are reported in one error.
func Load(logger *slog.Logger) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		OpenAIAPIKey:        os.Getenv("OPENAI_API_KEY"),
		Model:               os.Getenv("OPENAI_MODEL"),
		CDPAPIKeyName:       os.Getenv("CDP_API_KEY_NAME"),
		CDPAPIKeyPrivateKey: os.Getenv("CDP_API_KEY_PRIVATE_KEY"),
		NetworkID:           os.Getenv("NETWORK_ID"),
		WalletDataFile:      os.Getenv("WALLET_DATA_FILE"),
		CoinGeckoAPIKey:     os.Getenv("COINGECKO_API_KEY"),
		SantimentAPIKey:     os.Getenv("SANTIMENT_API_KEY"),
		WalletBackend:       os.Getenv("WALLET_BACKEND"),
		ExchangeAPIKey:      os.Getenv("BINANCE_API_KEY"),
		ExchangeSecretKey:   os.Getenv("BINANCE_SECRET_KEY"),
	}

	var missing []string
	if cfg.OpenAIAPIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if cfg.CDPAPIKeyName == "" {
		missing = append(missing, "CDP_API_KEY_NAME")
	}
	if cfg.CDPAPIKeyPrivateKey == "" {
		missing = append(missing, "CDP_API_KEY_PRIVATE_KEY")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	if cfg.NetworkID == "" {
		cfg.NetworkID = defaultNetworkID
		logger.Warn("NETWORK_ID not set, defaulting", "network_id", defaultNetworkID)
	}
	if cfg.WalletDataFile == "" {
		cfg.WalletDataFile = "wallet_data.json"
	}
	if cfg.WalletBackend == "" {
		cfg.WalletBackend = "cdp"
	}

	return cfg, nil
}
