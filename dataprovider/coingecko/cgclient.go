package coingecko

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"Coinpulse/dataprovider"
	utils "Coinpulse/utilities"

	"golang.org/x/time/rate"
)

const sourceName = "coingecko"

// validOHLCDays is the enumerated set of day windows the /ohlc endpoint
// accepts. Arbitrary values are rejected upstream, so requests must be
// mapped onto this ladder before calling out.
var validOHLCDays = []int{1, 7, 14, 30, 90, 180, 365}

// Client talks to the CoinGecko REST API. It is the general market-data
// source: coin lookups by canonical ID, search, rankings, trending, OHLC
// history, and exchange listings.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	limiter    *rate.Limiter
	logger     *utils.Logger
	cfg        *utils.CoingeckoConfig
}

// --- Internal structs for CoinGecko API responses ---

type cgCoinDetail struct {
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	LastUpdated string `json:"last_updated"`
	MarketData  *struct {
		CurrentPrice             map[string]float64 `json:"current_price"`
		PriceChangePercentage24h *float64           `json:"price_change_percentage_24h"`
		MarketCap                map[string]float64 `json:"market_cap"`
		TotalVolume              map[string]float64 `json:"total_volume"`
	} `json:"market_data"`
}

type cgMarketRow struct {
	Symbol                   string   `json:"symbol"`
	Name                     string   `json:"name"`
	CurrentPrice             float64  `json:"current_price"`
	MarketCap                *float64 `json:"market_cap"`
	MarketCapRank            int      `json:"market_cap_rank"`
	PriceChangePercentage24h *float64 `json:"price_change_percentage_24h"`
}

type cgSearchResponse struct {
	Coins []struct {
		ID string `json:"id"`
	} `json:"coins"`
}

type cgTrendingResponse struct {
	Coins []struct {
		Item struct {
			Symbol        string   `json:"symbol"`
			Name          string   `json:"name"`
			MarketCapRank *int     `json:"market_cap_rank"`
			PriceBTC      *float64 `json:"price_btc"`
		} `json:"item"`
	} `json:"coins"`
}

type cgExchangeRow struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Country           *string  `json:"country"`
	TrustScore        *int     `json:"trust_score"`
	TrustScoreRank    *int     `json:"trust_score_rank"`
	TradeVolume24hBTC *float64 `json:"trade_volume_24h_btc"`
	YearEstablished   *int     `json:"year_established"`
	URL               string   `json:"url"`
	Image             string   `json:"image"`
}

func NewClient(cfg *utils.CoingeckoConfig, logger *utils.Logger) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("coingecko client: CoingeckoConfig cannot be nil")
	}
	if logger == nil {
		logger = utils.NewLogger(utils.Info)
		logger.LogWarn("CoinGecko Client: Logger not provided, using default logger.")
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("coingecko client: BaseURL is required in CoingeckoConfig")
	}
	if cfg.RateLimitPerSec <= 0 {
		cfg.RateLimitPerSec = 1
		logger.LogWarn("CoinGecko Client: Invalid RateLimitPerSec, defaulting to 1")
	}
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = 1
		logger.LogWarn("CoinGecko Client: Invalid RateLimitBurst, defaulting to 1")
	}
	if cfg.RequestTimeoutSec <= 0 {
		cfg.RequestTimeoutSec = 30
		logger.LogWarn("CoinGecko Client: Invalid RequestTimeoutSec, defaulting to 30 seconds")
	}

	client := &Client{
		BaseURL:    cfg.BaseURL,
		APIKey:     cfg.APIKey,
		HTTPClient: &http.Client{Timeout: time.Duration(cfg.RequestTimeoutSec) * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst),
		logger:     logger,
		cfg:        cfg,
	}

	logger.LogInfo("CoinGecko client initialized with URL: %s, RateLimit: %d req/sec", client.BaseURL, cfg.RateLimitPerSec)
	return client, nil
}

// request handles rate limiting, the API key, and JSON decoding for one call.
func (c *Client) request(ctx context.Context, endpoint string, queryParams url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error for endpoint %s: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request for %s: %w", endpoint, err)
	}

	if queryParams == nil {
		queryParams = url.Values{}
	}
	if c.APIKey != "" {
		queryParams.Set("x_cg_pro_api_key", c.APIKey)
	}
	if len(queryParams) > 0 {
		req.URL.RawQuery = queryParams.Encode()
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Coinpulse/1.0")
	c.logger.LogDebug("CoinGecko Request: %s %s", req.Method, req.URL.String())

	maxRetries := c.cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	retryDelay := 2 * time.Second
	if c.cfg.RetryDelaySec > 0 {
		retryDelay = time.Duration(c.cfg.RetryDelaySec) * time.Second
	}

	return utils.DoJSONRequest(c.HTTPClient, req, maxRetries, retryDelay, result)
}

// GetPrice implements dataprovider.MarketDataProvider. The coinID must be a
// canonical CoinGecko identifier such as "bitcoin"; a quote without a USD
// price is reported as absent, never as a partial record.
func (c *Client) GetPrice(ctx context.Context, coinID string) (dataprovider.PriceQuote, bool) {
	var detail cgCoinDetail
	params := url.Values{}
	params.Set("localization", "false")
	params.Set("tickers", "false")
	params.Set("community_data", "false")
	params.Set("developer_data", "false")

	if err := c.request(ctx, "/coins/"+url.PathEscape(coinID), params, &detail); err != nil {
		c.logger.LogDebug("CoinGecko GetPrice: %q unavailable: %v", coinID, err)
		return dataprovider.PriceQuote{}, false
	}
	if detail.MarketData == nil {
		return dataprovider.PriceQuote{}, false
	}
	priceUSD, ok := detail.MarketData.CurrentPrice["usd"]
	if !ok {
		return dataprovider.PriceQuote{}, false
	}

	name := detail.Name
	quote := dataprovider.PriceQuote{
		Symbol:         strings.ToUpper(detail.Symbol),
		Name:           &name,
		PriceUSD:       priceUSD,
		PriceChange24h: detail.MarketData.PriceChangePercentage24h,
		Source:         sourceName,
	}
	if mcap, ok := detail.MarketData.MarketCap["usd"]; ok {
		quote.MarketCap = &mcap
	}
	if vol, ok := detail.MarketData.TotalVolume["usd"]; ok {
		quote.Volume24h = &vol
	}
	if ts, err := time.Parse(time.RFC3339, detail.LastUpdated); err == nil {
		quote.LastUpdated = &ts
	}
	return quote, true
}

// SearchCoinID resolves a free-form query to the first matching CoinGecko ID.
func (c *Client) SearchCoinID(ctx context.Context, query string) (string, bool) {
	var resp cgSearchResponse
	params := url.Values{}
	params.Set("query", query)

	if err := c.request(ctx, "/search", params, &resp); err != nil {
		c.logger.LogDebug("CoinGecko SearchCoinID: search for %q failed: %v", query, err)
		return "", false
	}
	if len(resp.Coins) == 0 {
		return "", false
	}
	// First match only; disambiguation is the caller's problem.
	return resp.Coins[0].ID, true
}

// GetTopCoins returns the top coins by market cap, best effort.
func (c *Client) GetTopCoins(ctx context.Context, limit int) []dataprovider.RankedCoin {
	var rows []cgMarketRow
	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("order", "market_cap_desc")
	params.Set("per_page", strconv.Itoa(limit))
	params.Set("page", "1")
	params.Set("sparkline", "false")

	if err := c.request(ctx, "/coins/markets", params, &rows); err != nil {
		c.logger.LogWarn("CoinGecko GetTopCoins: request failed: %v", err)
		return nil
	}

	coins := make([]dataprovider.RankedCoin, 0, len(rows))
	for _, row := range rows {
		coins = append(coins, dataprovider.RankedCoin{
			Rank:           row.MarketCapRank,
			Symbol:         strings.ToUpper(row.Symbol),
			Name:           row.Name,
			PriceUSD:       row.CurrentPrice,
			MarketCap:      row.MarketCap,
			PriceChange24h: row.PriceChangePercentage24h,
		})
	}
	return coins
}

// GetTrending returns coins currently trending in CoinGecko search data.
func (c *Client) GetTrending(ctx context.Context) []dataprovider.TrendingCoin {
	var resp cgTrendingResponse
	if err := c.request(ctx, "/search/trending", nil, &resp); err != nil {
		c.logger.LogWarn("CoinGecko GetTrending: request failed: %v", err)
		return nil
	}

	coins := make([]dataprovider.TrendingCoin, 0, len(resp.Coins))
	for _, wrapper := range resp.Coins {
		item := wrapper.Item
		coins = append(coins, dataprovider.TrendingCoin{
			Symbol:        strings.ToUpper(item.Symbol),
			Name:          item.Name,
			MarketCapRank: item.MarketCapRank,
			PriceBTC:      item.PriceBTC,
		})
	}
	return coins
}

// clampOHLCDays maps a requested day count onto the smallest enumerated
// window that covers it, or 365 when the request exceeds them all.
func clampOHLCDays(days int) int {
	for _, valid := range validOHLCDays {
		if days <= valid {
			return valid
		}
	}
	return 365
}

// GetHistoricalOHLC fetches raw OHLC candles for a coin. The window sent
// upstream is the ladder-mapped value, so the result usually covers more
// days than requested; callers truncate after day bucketing.
func (c *Client) GetHistoricalOHLC(ctx context.Context, coinID string, days int) []dataprovider.OHLCBar {
	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("days", strconv.Itoa(clampOHLCDays(days)))

	// The payload is an array of [timestamp_ms, open, high, low, close]
	// rows; on errors CoinGecko sends a JSON object instead, which fails
	// the decode and lands in the absence path below.
	var raw [][5]float64
	if err := c.request(ctx, "/coins/"+url.PathEscape(coinID)+"/ohlc", params, &raw); err != nil {
		c.logger.LogDebug("CoinGecko GetHistoricalOHLC: %q unavailable: %v", coinID, err)
		return nil
	}

	bars := make([]dataprovider.OHLCBar, 0, len(raw))
	for _, row := range raw {
		bars = append(bars, dataprovider.OHLCBar{
			TimestampMs: int64(row[0]),
			Open:        row[1],
			High:        row[2],
			Low:         row[3],
			Close:       row[4],
		})
	}
	return bars
}

// GetExchanges returns exchanges ranked by trust score and volume.
func (c *Client) GetExchanges(ctx context.Context, limit int) []dataprovider.Exchange {
	var rows []cgExchangeRow
	params := url.Values{}
	params.Set("per_page", strconv.Itoa(limit))

	if err := c.request(ctx, "/exchanges", params, &rows); err != nil {
		c.logger.LogWarn("CoinGecko GetExchanges: request failed: %v", err)
		return nil
	}

	exchanges := make([]dataprovider.Exchange, 0, len(rows))
	for _, row := range rows {
		exchanges = append(exchanges, dataprovider.Exchange{
			ID:              row.ID,
			Name:            row.Name,
			Country:         row.Country,
			TrustScore:      row.TrustScore,
			TrustRank:       row.TrustScoreRank,
			Volume24hBTC:    row.TradeVolume24hBTC,
			YearEstablished: row.YearEstablished,
			URL:             row.URL,
			Image:           row.Image,
		})
	}
	return exchanges
}

// GetExchangeDetail returns one exchange by its CoinGecko ID.
func (c *Client) GetExchangeDetail(ctx context.Context, exchangeID string) (dataprovider.Exchange, bool) {
	var row cgExchangeRow
	if err := c.request(ctx, "/exchanges/"+url.PathEscape(exchangeID), nil, &row); err != nil {
		c.logger.LogDebug("CoinGecko GetExchangeDetail: %q unavailable: %v", exchangeID, err)
		return dataprovider.Exchange{}, false
	}
	return dataprovider.Exchange{
		ID:              exchangeID,
		Name:            row.Name,
		Country:         row.Country,
		TrustScore:      row.TrustScore,
		TrustRank:       row.TrustScoreRank,
		Volume24hBTC:    row.TradeVolume24hBTC,
		YearEstablished: row.YearEstablished,
		URL:             row.URL,
		Image:           row.Image,
	}, true
}
