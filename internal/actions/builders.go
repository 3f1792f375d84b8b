package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/songzhibin97/coinsage/internal/data"
	"github.com/songzhibin97/coinsage/internal/data/trends"
	"github.com/songzhibin97/coinsage/internal/models"
	"github.com/songzhibin97/coinsage/internal/wallet"
)

const defaultAnalyzeLimit = 10.0

// NewAnalyzeAction builds an analyze_<category> action over the market
// fetcher. Upstream failures are folded into the response message: the
// conversation keeps going after a bad page or a 429.
func NewAnalyzeAction(category string, fetcher data.MarketFetcher) Action {
	name := "analyze_" + strings.ReplaceAll(category, "-", "_")

	return Action{
		Name:        name,
		Description: fmt.Sprintf("Analyze the top %s coins by 24h trading volume, with liquidity score and risk tier per coin", category),
		Params: []Param{
			{Name: "limit", Type: TypeNumber, Default: defaultAnalyzeLimit,
				Description: "Maximum number of coins to return (default 10)"},
		},
		Handler: func(ctx context.Context, params map[string]any) (*models.ActionResponse, error) {
			limit := int(params["limit"].(float64))

			coins, err := fetcher.FetchCategory(ctx, category, limit)
			if err != nil {
				return newResponse(nil,
					fmt.Sprintf("failed to analyze %s: %v", category, err), category), nil
			}

			return newResponse(coins,
				fmt.Sprintf("top %d %s coins by 24h volume", len(coins), category), category), nil
		},
	}
}

// NewInvestAction builds the invest_in_coin action. The balance check and
// the swap are the only stateful path in the registry; every swap carries a
// fresh uuid as its dedupe key, so a retried tool call cannot double spend.
func NewInvestAction(provider wallet.Provider) Action {
	return Action{
		Name:        "invest_in_coin",
		Description: "Swap wallet funds into a token after checking the available balance",
		Params: []Param{
			{Name: "token_address", Type: TypeString, Required: true,
				Description: "Contract address of the token to buy"},
			{Name: "amount", Type: TypeNumber, Required: true,
				Description: "Amount of the base asset to spend"},
			{Name: "slippage", Type: TypeNumber, Default: 2.0,
				Description: "Allowed slippage in percent (default 2)"},
			{Name: "category", Type: TypeString, Required: true,
				Description: "Category the token belongs to"},
		},
		Handler: func(ctx context.Context, params map[string]any) (*models.ActionResponse, error) {
			tokenAddress := params["token_address"].(string)
			category := params["category"].(string)
			amount := decimal.NewFromFloat(params["amount"].(float64))
			slippage := decimal.NewFromFloat(params["slippage"].(float64))

			balance, err := provider.GetBalance(ctx)
			if err != nil {
				return newResponse(nil,
					fmt.Sprintf("failed to query wallet balance: %v", err), category), nil
			}

			// 余额不足: 不产生任何副作用
			if balance.LessThan(amount) {
				return newResponse(nil,
					fmt.Sprintf("insufficient balance: wallet holds %s but %s is required",
						balance.String(), amount.String()), category), nil
			}

			result, err := provider.Swap(ctx, &wallet.SwapRequest{
				TokenAddress: tokenAddress,
				Amount:       amount,
				SlippagePct:  slippage,
				ClientRef:    uuid.NewString(),
			})
			if err != nil {
				return newResponse(nil,
					fmt.Sprintf("swap failed: %v", err), category), nil
			}

			return newResponse(result,
				fmt.Sprintf("swapped %s into %s with %s%% slippage, transaction %s",
					amount.String(), tokenAddress, slippage.String(), result.TransactionID),
				category), nil
		},
	}
}

// NewKeywordAction builds the fetch_keyword action over the trend fetcher.
func NewKeywordAction(fetcher data.TrendFetcher) Action {
	return Action{
		Name:        "fetch_keyword",
		Description: "Fetch keyword trend data for a social platform",
		Params: []Param{
			{Name: "platform", Type: TypeString, Required: true,
				Description: "Platform to query, e.g. telegram or twitter"},
		},
		Handler: func(ctx context.Context, params map[string]any) (*models.ActionResponse, error) {
			platform := params["platform"].(string)

			records, err := fetcher.FetchKeyword(ctx, platform)
			if err != nil {
				return newResponse(nil,
					fmt.Sprintf("failed to fetch keyword trends: %v", err), ""), nil
			}

			return newResponse(records, trends.FormatRecords(records), ""), nil
		},
	}
}
