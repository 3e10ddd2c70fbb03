package coinmarketcap

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
)

// usdConvertID is CoinMarketCap's internal currency ID for USD.
const usdConvertID = "2781"

// Client scrapes daily OHLC history from CoinMarketCap's public data API,
// the same surface their historical-data web pages are built on. It is only
// used as a fallback when the market-data provider has nothing, so every
// failure mode collapses to an empty series.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	logger     *utils.Logger
}

type cmHistoricalResponse struct {
	Data struct {
		Quotes []struct {
			Quote struct {
				Open      *float64 `json:"open"`
				High      *float64 `json:"high"`
				Low       *float64 `json:"low"`
				Close     *float64 `json:"close"`
				Volume    *float64 `json:"volume"`
				MarketCap *float64 `json:"marketCap"`
				Timestamp string   `json:"timestamp"`
			} `json:"quote"`
		} `json:"quotes"`
	} `json:"data"`
}

func NewClient(cfg *utils.CoinmarketcapConfig, logger *utils.Logger) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("coinmarketcap client: CoinmarketcapConfig cannot be nil")
	}
	if logger == nil {
		logger = utils.NewLogger(utils.Info)
		logger.LogWarn("CoinMarketCap Client: Logger not provided, using default logger.")
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("coinmarketcap client: BaseURL is required in CoinmarketcapConfig")
	}
	if cfg.RequestTimeoutSec <= 0 {
		cfg.RequestTimeoutSec = 30
		logger.LogWarn("CoinMarketCap Client: Invalid RequestTimeoutSec, defaulting to 30 seconds")
	}

	return &Client{
		BaseURL:    cfg.BaseURL,
		HTTPClient: &http.Client{Timeout: time.Duration(cfg.RequestTimeoutSec) * time.Second},
		logger:     logger,
	}, nil
}

// GetHistoricalDaily implements dataprovider.HistoricalProvider. The coin is
// addressed by slug: the lower-cased coinName when the caller supplied one
// for disambiguation, otherwise the lower-cased symbol.
func (c *Client) GetHistoricalDaily(ctx context.Context, symbol string, days int, coinName string) []dataprovider.HistoricalPoint {
	slug := strings.ToLower(strings.TrimSpace(symbol))
	if coinName != "" {
		slug = strings.ToLower(strings.TrimSpace(coinName))
	}

	end := time.Now()
	start := end.AddDate(0, 0, -days)

	params := url.Values{}
	params.Set("slug", slug)
	params.Set("convertId", usdConvertID)
	params.Set("timeStart", strconv.FormatInt(start.Unix(), 10))
	params.Set("timeEnd", strconv.FormatInt(end.Unix(), 10))
	params.Set("interval", "1d")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/data-api/v3.1/cryptocurrency/historical?"+params.Encode(), nil)
	if err != nil {
		c.logger.LogWarn("CoinMarketCap GetHistoricalDaily: create request failed for %q: %v", slug, err)
		return nil
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Coinpulse/1.0")

	var resp cmHistoricalResponse
	if err := utils.DoJSONRequest(c.HTTPClient, req, 0, 0, &resp); err != nil {
		c.logger.LogWarn("CoinMarketCap GetHistoricalDaily: %q unavailable: %v", slug, err)
		return nil
	}
	if len(resp.Data.Quotes) == 0 {
		return nil
	}

	points := make([]dataprovider.HistoricalPoint, 0, len(resp.Data.Quotes))
	for _, row := range resp.Data.Quotes {
		q := row.Quote
		ts, err := time.Parse(time.RFC3339, q.Timestamp)
		if err != nil {
			c.logger.LogDebug("CoinMarketCap GetHistoricalDaily: skipping quote with bad timestamp %q", q.Timestamp)
			continue
		}
		points = append(points, dataprovider.HistoricalPoint{
			Date:      ts.Format("2006-01-02"),
			Open:      floatOrZero(q.Open),
			High:      floatOrZero(q.High),
			Low:       floatOrZero(q.Low),
			Close:     floatOrZero(q.Close),
			Volume:    q.Volume,
			MarketCap: q.MarketCap,
		})
	}
	return points
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
