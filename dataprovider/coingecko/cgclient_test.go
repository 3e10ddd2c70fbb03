package coingecko

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

	client, err := NewClient(&utils.CoingeckoConfig{
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

	_, err = NewClient(&utils.CoingeckoConfig{}, utils.NewLogger(utils.Error))
	require.Error(t, err)
}

func TestClampOHLCDays(t *testing.T) {
	t.Parallel()

	cases := []struct {
		requested int
		want      int
	}{
		{1, 1},
		{7, 7},
		{8, 14},
		{10, 14},
		{30, 30},
		{91, 180},
		{365, 365},
		{366, 365},
		{400, 365},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, clampOHLCDays(tc.requested), "requested=%d", tc.requested)
	}
}

func TestGetHistoricalOHLCSendsLadderMappedDays(t *testing.T) {
	t.Parallel()

	var gotDays string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/coins/bitcoin/ohlc", r.URL.Path)
		gotDays = r.URL.Query().Get("days")
		w.Write([]byte(`[[1715300000000, 1.0, 2.0, 0.5, 1.5]]`))
	}))

	bars := client.GetHistoricalOHLC(context.Background(), "bitcoin", 10)

	require.Equal(t, "14", gotDays)
	require.Len(t, bars, 1)
	require.Equal(t, int64(1715300000000), bars[0].TimestampMs)
	require.Equal(t, 1.0, bars[0].Open)
	require.Equal(t, 1.5, bars[0].Close)
}

func TestGetHistoricalOHLCErrorObjectIsAbsence(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"invalid days"}`))
	}))

	require.Empty(t, client.GetHistoricalOHLC(context.Background(), "bitcoin", 30))
}

func TestSearchCoinIDReturnsFirstMatch(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "btc", r.URL.Query().Get("query"))
		w.Write([]byte(`{"coins":[{"id":"bitcoin"},{"id":"bitcoin-cash"}]}`))
	}))

	id, ok := client.SearchCoinID(context.Background(), "btc")

	require.True(t, ok)
	require.Equal(t, "bitcoin", id)
}

func TestSearchCoinIDEmptyResultIsAbsence(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"coins":[]}`))
	}))

	_, ok := client.SearchCoinID(context.Background(), "nope")
	require.False(t, ok)
}

func TestGetPriceMapsCoinDetail(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/coins/bitcoin", r.URL.Path)
		require.Equal(t, "false", r.URL.Query().Get("localization"))
		w.Write([]byte(`{
			"symbol": "btc",
			"name": "Bitcoin",
			"last_updated": "2024-05-10T12:00:00Z",
			"market_data": {
				"current_price": {"usd": 65000.0},
				"price_change_percentage_24h": 2.5,
				"market_cap": {"usd": 1280000000000.0},
				"total_volume": {"usd": 30000000000.0}
			}
		}`))
	}))

	quote, ok := client.GetPrice(context.Background(), "bitcoin")

	require.True(t, ok)
	require.Equal(t, "BTC", quote.Symbol)
	require.Equal(t, "Bitcoin", *quote.Name)
	require.Equal(t, 65000.0, quote.PriceUSD)
	require.Equal(t, 2.5, *quote.PriceChange24h)
	require.Equal(t, "coingecko", quote.Source)
	require.NotNil(t, quote.LastUpdated)
}

func TestGetPriceWithoutUSDPriceIsAbsence(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"symbol":"btc","name":"Bitcoin","market_data":{"current_price":{}}}`))
	}))

	_, ok := client.GetPrice(context.Background(), "bitcoin")
	require.False(t, ok)
}

func TestGetPriceUpstreamFailureIsAbsence(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))

	_, ok := client.GetPrice(context.Background(), "doesnotexist")
	require.False(t, ok)
}

func TestGetTopCoins(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/coins/markets", r.URL.Path)
		require.Equal(t, "usd", r.URL.Query().Get("vs_currency"))
		require.Equal(t, "2", r.URL.Query().Get("per_page"))
		w.Write([]byte(`[
			{"symbol":"btc","name":"Bitcoin","current_price":65000,"market_cap":1280000000000,"market_cap_rank":1,"price_change_percentage_24h":2.5},
			{"symbol":"eth","name":"Ethereum","current_price":3200,"market_cap":380000000000,"market_cap_rank":2,"price_change_percentage_24h":-1.2}
		]`))
	}))

	coins := client.GetTopCoins(context.Background(), 2)

	require.Len(t, coins, 2)
	require.Equal(t, 1, coins[0].Rank)
	require.Equal(t, "BTC", coins[0].Symbol)
	require.Equal(t, "ETH", coins[1].Symbol)
	require.Equal(t, -1.2, *coins[1].PriceChange24h)
}

func TestGetTrending(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search/trending", r.URL.Path)
		w.Write([]byte(`{"coins":[{"item":{"symbol":"pepe","name":"Pepe","market_cap_rank":40,"price_btc":0.0000001}}]}`))
	}))

	coins := client.GetTrending(context.Background())

	require.Len(t, coins, 1)
	require.Equal(t, "PEPE", coins[0].Symbol)
	require.Equal(t, 40, *coins[0].MarketCapRank)
}

func TestGetExchangeDetailAbsentOn404(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))

	_, ok := client.GetExchangeDetail(context.Background(), "doesnotexist")
	require.False(t, ok)
}
