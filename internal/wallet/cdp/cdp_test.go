package cdp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/songzhibin97/coinsage/internal/wallet"
)

func setupTestProvider(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Provider) {
	server := httptest.NewServer(handler)

	provider, err := NewProvider(Config{
		APIKeyName:       "key-name",
		APIKeyPrivateKey: "key-secret",
		NetworkID:        "base-sepolia",
	})
	require.NoError(t, err)
	provider.baseURL = server.URL
	provider.httpClient = resty.NewWithClient(server.Client())

	return server, provider
}

func TestNewProvider_Validation(t *testing.T) {
	_, err := NewProvider(Config{APIKeyName: "only-name"})
	assert.Error(t, err)

	p, err := NewProvider(Config{APIKeyName: "n", APIKeyPrivateKey: "s"})
	require.NoError(t, err)
	assert.Equal(t, "base-sepolia", p.cfg.NetworkID) // 默认网络
}

func TestProvider_GetBalance(t *testing.T) {
	server, provider := setupTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wallet/balance", r.URL.Path)
		assert.Equal(t, "key-name", r.Header.Get("X-Api-Key-Name"))
		assert.Equal(t, "base-sepolia", r.URL.Query().Get("network_id"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"amount":"12.5","asset":"eth"}`))
	})
	defer server.Close()

	balance, err := provider.GetBalance(context.Background())
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromFloat(12.5)))
}

func TestProvider_Swap(t *testing.T) {
	var got map[string]string
	server, provider := setupTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wallet/swap", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"transaction_id":"0xabc123","status":"complete"}`))
	})
	defer server.Close()

	result, err := provider.Swap(context.Background(), &wallet.SwapRequest{
		TokenAddress: "0xdeadbeef",
		Amount:       decimal.NewFromInt(1),
		SlippagePct:  decimal.NewFromInt(2),
		ClientRef:    "ref-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "0xabc123", result.TransactionID)
	assert.Equal(t, "complete", result.Status)
	assert.Equal(t, "0xdeadbeef", got["token_address"])
	assert.Equal(t, "1", got["amount"])
	assert.Equal(t, "2", got["slippage_pct"])
	assert.Equal(t, "ref-1", got["client_ref"])
}

func TestProvider_Swap_RequiresClientRef(t *testing.T) {
	provider, err := NewProvider(Config{APIKeyName: "n", APIKeyPrivateKey: "s"})
	require.NoError(t, err)

	_, err = provider.Swap(context.Background(), &wallet.SwapRequest{
		TokenAddress: "0xdeadbeef",
		Amount:       decimal.NewFromInt(1),
	})
	assert.Error(t, err)
}

func TestProvider_ExportWallet(t *testing.T) {
	blob := []byte(`{"wallet_id":"w1","seed":"opaque"}`)
	server, provider := setupTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wallet/export", r.URL.Path)
		_, _ = w.Write(blob)
	})
	defer server.Close()

	data, err := provider.ExportWallet(context.Background())
	require.NoError(t, err)
	assert.Equal(t, blob, data)
}

func TestProvider_UpstreamError(t *testing.T) {
	server, provider := setupTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	defer server.Close()

	_, err := provider.GetBalance(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
