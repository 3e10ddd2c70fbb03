package binance

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"Coinpulse/dataprovider"
	utils "Coinpulse/utilities"

	"golang.org/x/time/rate"
)

const sourceName = "binance"

// Client talks to the Binance public REST API. It is the primary spot price
// source: fast and real-time, but it knows nothing about coin names or
// market caps.
type Client struct {
	BaseURL     string
	HTTPClient  *http.Client
	limiter     *rate.Limiter
	logger      *utils.Logger
	quoteSuffix string
}

// bnTicker24h models /api/v3/ticker/24hr. Binance sends numbers as strings.
type bnTicker24h struct {
	Symbol             string `json:"symbol"`
	LastPrice          string `json:"lastPrice"`
	PriceChangePercent string `json:"priceChangePercent"`
	QuoteVolume        string `json:"quoteVolume"`
}

func NewClient(cfg *utils.BinanceConfig, logger *utils.Logger) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("binance client: BinanceConfig cannot be nil")
	}
	if logger == nil {
		logger = utils.NewLogger(utils.Info)
		logger.LogWarn("Binance Client: Logger not provided, using default logger.")
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("binance client: BaseURL is required in BinanceConfig")
	}
	if cfg.RequestTimeoutSec <= 0 {
		cfg.RequestTimeoutSec = 10
		logger.LogWarn("Binance Client: Invalid RequestTimeoutSec, defaulting to 10 seconds")
	}
	if cfg.RateLimitPerSec <= 0 {
		cfg.RateLimitPerSec = 5
	}
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = 5
	}
	suffix := cfg.QuoteSuffix
	if suffix == "" {
		suffix = "USDT"
	}

	return &Client{
		BaseURL:     cfg.BaseURL,
		HTTPClient:  &http.Client{Timeout: time.Duration(cfg.RequestTimeoutSec) * time.Second},
		limiter:     rate.NewLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst),
		logger:      logger,
		quoteSuffix: suffix,
	}, nil
}

// formatSymbol converts user input to Binance pair format, e.g. "btc" -> "BTCUSDT".
func (c *Client) formatSymbol(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if !strings.HasSuffix(s, c.quoteSuffix) {
		s += c.quoteSuffix
	}
	return s
}

// GetPrice implements dataprovider.SpotPriceProvider. Any upstream failure,
// including an unknown pair, reports absence rather than an error.
func (c *Client) GetPrice(ctx context.Context, symbol string) (dataprovider.PriceQuote, bool) {
	if err := c.limiter.Wait(ctx); err != nil {
		c.logger.LogWarn("Binance GetPrice: rate limiter wait aborted for %q: %v", symbol, err)
		return dataprovider.PriceQuote{}, false
	}

	params := url.Values{}
	params.Set("symbol", c.formatSymbol(symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/v3/ticker/24hr?"+params.Encode(), nil)
	if err != nil {
		c.logger.LogWarn("Binance GetPrice: create request failed for %q: %v", symbol, err)
		return dataprovider.PriceQuote{}, false
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Coinpulse/1.0")

	var ticker bnTicker24h
	if err := utils.DoJSONRequest(c.HTTPClient, req, 0, 0, &ticker); err != nil {
		c.logger.LogDebug("Binance GetPrice: %q unavailable: %v", symbol, err)
		return dataprovider.PriceQuote{}, false
	}

	price, err := strconv.ParseFloat(ticker.LastPrice, 64)
	if err != nil {
		c.logger.LogWarn("Binance GetPrice: unparseable lastPrice %q for %q", ticker.LastPrice, symbol)
		return dataprovider.PriceQuote{}, false
	}

	quote := dataprovider.PriceQuote{
		Symbol:   strings.ToUpper(strings.TrimSpace(symbol)),
		PriceUSD: price,
		Source:   sourceName,
	}
	if change, err := strconv.ParseFloat(ticker.PriceChangePercent, 64); err == nil {
		quote.PriceChange24h = &change
	}
	if vol, err := strconv.ParseFloat(ticker.QuoteVolume, 64); err == nil {
		quote.Volume24h = &vol
	}
	now := time.Now().UTC()
	quote.LastUpdated = &now

	return quote, true
}
