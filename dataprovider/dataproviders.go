package dataprovider

import (
	"context"
	"time"
)

// Provider clients translate every transport, parse, or non-success upstream
// outcome into absence: a false ok flag or an empty slice. Nothing upstream
// of a client ever sees a raised error from a lookup; the suppressed cause is
// logged inside the client and nowhere else.

// SpotPriceProvider serves real-time ticker prices keyed by exchange symbol.
type SpotPriceProvider interface {
	GetPrice(ctx context.Context, symbol string) (PriceQuote, bool)
}

// MarketDataProvider serves coin lookups keyed by a canonical coin identifier
// (e.g. "bitcoin"), plus market-wide listings.
type MarketDataProvider interface {
	GetPrice(ctx context.Context, coinID string) (PriceQuote, bool)
	SearchCoinID(ctx context.Context, query string) (string, bool)
	GetTopCoins(ctx context.Context, limit int) []RankedCoin
	GetTrending(ctx context.Context) []TrendingCoin
	GetHistoricalOHLC(ctx context.Context, coinID string, days int) []OHLCBar
}

// HistoricalProvider is the fallback source for daily OHLC series, keyed by
// symbol with an optional name for disambiguation. Records come back already
// day-granular.
type HistoricalProvider interface {
	GetHistoricalDaily(ctx context.Context, symbol string, days int, coinName string) []HistoricalPoint
}

// FearGreedProvider serves the market sentiment index.
type FearGreedProvider interface {
	GetIndex(ctx context.Context) (FearGreedIndex, bool)
}

// PriceQuote is the normalized spot price record. A quote only exists when
// the source could supply a price; optional fields are nil when the source
// does not carry them. Source always names the provider that answered.
type PriceQuote struct {
	Symbol         string     `json:"symbol"`
	Name           *string    `json:"name"`
	PriceUSD       float64    `json:"price_usd"`
	PriceChange24h *float64   `json:"price_change_24h"`
	MarketCap      *float64   `json:"market_cap"`
	Volume24h      *float64   `json:"volume_24h"`
	LastUpdated    *time.Time `json:"last_updated"`
	Source         string     `json:"source"`
}

// OHLCBar is a raw candle as upstreams deliver it, before day bucketing.
type OHLCBar struct {
	TimestampMs int64
	Open        float64
	High        float64
	Low         float64
	Close       float64
}

// HistoricalPoint is one calendar day of OHLC data. Open/High/Low/Close are
// always numeric; missing upstream values coerce to 0.0 rather than failing.
type HistoricalPoint struct {
	Date      string   `json:"date"`
	Open      float64  `json:"open"`
	High      float64  `json:"high"`
	Low       float64  `json:"low"`
	Close     float64  `json:"close"`
	Volume    *float64 `json:"volume"`
	MarketCap *float64 `json:"market_cap"`
}

// RankedCoin is one row of a market-cap ranking.
type RankedCoin struct {
	Rank           int      `json:"rank"`
	Symbol         string   `json:"symbol"`
	Name           string   `json:"name"`
	PriceUSD       float64  `json:"price_usd"`
	MarketCap      *float64 `json:"market_cap"`
	PriceChange24h *float64 `json:"price_change_24h"`
}

// TrendingCoin is a coin currently trending in provider search data.
type TrendingCoin struct {
	Symbol        string   `json:"symbol"`
	Name          string   `json:"name"`
	MarketCapRank *int     `json:"market_cap_rank"`
	PriceBTC      *float64 `json:"price_btc"`
}

// FearGreedIndex represents the market sentiment index.
// Data typically sourced from alternative.me
type FearGreedIndex struct {
	Value          int       `json:"value"`
	Classification string    `json:"classification"`
	Timestamp      time.Time `json:"timestamp"`
}

// Exchange is one row of the exchange ranking listing.
type Exchange struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Country         *string  `json:"country"`
	TrustScore      *int     `json:"trust_score"`
	TrustRank       *int     `json:"trust_rank"`
	Volume24hBTC    *float64 `json:"volume_24h_btc"`
	YearEstablished *int     `json:"year_established"`
	URL             string   `json:"url"`
	Image           string   `json:"image"`
}

// WhaleTransaction is a large on-chain transfer observed in the mempool.
type WhaleTransaction struct {
	Hash        string  `json:"hash"`
	Blockchain  string  `json:"blockchain"`
	Symbol      string  `json:"symbol"`
	Amount      float64 `json:"amount"`
	AmountUSD   float64 `json:"amount_usd"`
	Timestamp   int64   `json:"timestamp"`
	FromAddress string  `json:"from_address"`
	ToAddress   string  `json:"to_address"`
}
