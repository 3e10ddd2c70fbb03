package blockchaininfo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	utils "Coinpulse/utilities"

	"github.com/stretchr/testify/require"
)

const mempoolPayload = `{"txs":[
	{"hash":"big1","time":1715300000,
	 "inputs":[{"prev_out":{"addr":"1Sender"}}],
	 "out":[{"value":2500000000,"addr":"1Receiver"},{"value":500000000,"addr":"1Change"}]},
	{"hash":"small","time":1715300001,
	 "inputs":[{"prev_out":{"addr":"1Other"}}],
	 "out":[{"value":100000,"addr":"1Tiny"}]},
	{"hash":"big2","time":1715300002,
	 "inputs":[],
	 "out":[{"value":10000000000,"addr":""}]}
]}`

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(&utils.BlockchainConfig{BaseURL: server.URL}, utils.NewLogger(utils.Error))
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresConfig(t *testing.T) {
	t.Parallel()

	_, err := NewClient(nil, utils.NewLogger(utils.Error))
	require.Error(t, err)

	_, err = NewClient(&utils.BlockchainConfig{}, utils.NewLogger(utils.Error))
	require.Error(t, err)
}

func TestGetWhaleTransactionsFiltersByUSDValue(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/unconfirmed-transactions", r.URL.Path)
		require.Equal(t, "json", r.URL.Query().Get("format"))
		w.Write([]byte(mempoolPayload))
	}))

	// big1 sums to 30 BTC, small to 0.001 BTC, big2 to 100 BTC.
	txs := client.GetWhaleTransactions(context.Background(), 10, 1_000_000, 65000)

	require.Len(t, txs, 2)

	require.Equal(t, "big1", txs[0].Hash)
	require.Equal(t, "bitcoin", txs[0].Blockchain)
	require.Equal(t, "BTC", txs[0].Symbol)
	require.Equal(t, 30.0, txs[0].Amount)
	require.Equal(t, 1950000.0, txs[0].AmountUSD)
	require.Equal(t, "1Sender", txs[0].FromAddress)
	require.Equal(t, "1Receiver", txs[0].ToAddress)

	require.Equal(t, "big2", txs[1].Hash)
	require.Equal(t, "Unknown", txs[1].FromAddress)
	require.Equal(t, "Unknown", txs[1].ToAddress)
}

func TestGetWhaleTransactionsHonorsLimit(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(mempoolPayload))
	}))

	txs := client.GetWhaleTransactions(context.Background(), 1, 1_000_000, 65000)

	require.Len(t, txs, 1)
	require.Equal(t, "big1", txs[0].Hash)
}

func TestGetWhaleTransactionsFeedDownIsEmpty(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))

	require.Empty(t, client.GetWhaleTransactions(context.Background(), 10, 1_000_000, 65000))
}
