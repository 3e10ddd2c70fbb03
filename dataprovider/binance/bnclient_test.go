package binance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	utils "Coinpulse/utilities"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(&utils.BinanceConfig{
		BaseURL:         server.URL,
		RateLimitPerSec: 1000,
		RateLimitBurst:  1000,
	}, utils.NewLogger(utils.Error))
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresConfig(t *testing.T) {
	t.Parallel()

	_, err := NewClient(nil, utils.NewLogger(utils.Error))
	require.Error(t, err)

	_, err = NewClient(&utils.BinanceConfig{}, utils.NewLogger(utils.Error))
	require.Error(t, err)
}

func TestFormatSymbol(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	require.Equal(t, "BTCUSDT", client.formatSymbol("btc"))
	require.Equal(t, "BTCUSDT", client.formatSymbol(" BTC "))
	require.Equal(t, "ETHUSDT", client.formatSymbol("ethusdt"))
	require.Equal(t, "SOLUSDT", client.formatSymbol("SOL"))
}

func TestGetPriceMapsTicker(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v3/ticker/24hr", r.URL.Path)
		require.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"))
		w.Write([]byte(`{"symbol":"BTCUSDT","lastPrice":"65000.00","priceChangePercent":"2.50","quoteVolume":"12345678.9"}`))
	}))

	quote, ok := client.GetPrice(context.Background(), "btc")

	require.True(t, ok)
	require.Equal(t, "BTC", quote.Symbol)
	require.Equal(t, 65000.0, quote.PriceUSD)
	require.Equal(t, 2.5, *quote.PriceChange24h)
	require.Equal(t, 12345678.9, *quote.Volume24h)
	require.Equal(t, "binance", quote.Source)
	// Binance never supplies these; the orchestrator backfills the name.
	require.Nil(t, quote.Name)
	require.Nil(t, quote.MarketCap)
	require.NotNil(t, quote.LastUpdated)
}

func TestGetPriceUnknownPairIsAbsence(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":-1121,"msg":"Invalid symbol."}`, http.StatusBadRequest)
	}))

	_, ok := client.GetPrice(context.Background(), "doesnotexist")
	require.False(t, ok)
}

func TestGetPriceUnparseablePriceIsAbsence(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"symbol":"BTCUSDT","lastPrice":"","priceChangePercent":"","quoteVolume":""}`))
	}))

	_, ok := client.GetPrice(context.Background(), "btc")
	require.False(t, ok)
}
