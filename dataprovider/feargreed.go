// File: dataprovider/feargreed.go

package dataprovider

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"Coinpulse/utilities"
)

// altFearGreedDataPoint models a single data point from alternative.me
type altFearGreedDataPoint struct {
	Value               string `json:"value"`
	ValueClassification string `json:"value_classification"`
	Timestamp           string `json:"timestamp"`
}

// altFearGreedResponse is the full API payload
type altFearGreedResponse struct {
	Name     string                  `json:"name"`
	Data     []altFearGreedDataPoint `json:"data"`
	Metadata struct {
		Error *string `json:"error,omitempty"`
	} `json:"metadata"`
}

// FearGreedClient fetches the Fear & Greed Index from alternative.me.
type FearGreedClient struct {
	HTTPClient *http.Client
	logger     *utilities.Logger
	apiURL     string
}

// NewFearGreedClient creates a new FearGreedProvider-compatible client.
func NewFearGreedClient(cfg *utilities.FearGreedConfig, logger *utilities.Logger) (*FearGreedClient, error) {
	if cfg == nil {
		return nil, errors.New("FearGreedClient: FearGreedConfig cannot be nil")
	}
	if logger == nil {
		logger = utilities.NewLogger(utilities.Info)
		logger.LogWarn("FearGreedClient: Logger not provided, using default.")
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("FearGreedClient: BaseURL is required in FearGreedConfig")
	}
	timeout := 30
	if cfg.RequestTimeoutSec > 0 {
		timeout = cfg.RequestTimeoutSec
	}
	return &FearGreedClient{
		HTTPClient: &http.Client{Timeout: time.Duration(timeout) * time.Second},
		logger:     logger,
		apiURL:     cfg.BaseURL + "/fng/?limit=1&format=json",
	}, nil
}

// GetIndex implements FearGreedProvider. Any failure to fetch or parse the
// index reports absence; the boundary maps that to a 503.
func (c *FearGreedClient) GetIndex(ctx context.Context) (FearGreedIndex, bool) {
	c.logger.LogDebug("Fetching Fear & Greed Index from %s", c.apiURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL, nil)
	if err != nil {
		c.logger.LogWarn("F&G: create request failed: %v", err)
		return FearGreedIndex{}, false
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Coinpulse/1.0")

	var raw altFearGreedResponse
	// one retry, short backoff
	if err := utilities.DoJSONRequest(c.HTTPClient, req, 1, 2*time.Second, &raw); err != nil {
		c.logger.LogWarn("F&G: request/decoding failed: %v", err)
		return FearGreedIndex{}, false
	}

	if raw.Metadata.Error != nil {
		c.logger.LogWarn("F&G API error: %s", *raw.Metadata.Error)
		return FearGreedIndex{}, false
	}
	if len(raw.Data) == 0 {
		c.logger.LogWarn("F&G: no data returned")
		return FearGreedIndex{}, false
	}

	dp := raw.Data[0]
	value, err := strconv.Atoi(dp.Value)
	if err != nil {
		c.logger.LogWarn("F&G: invalid value %q: %v", dp.Value, err)
		return FearGreedIndex{}, false
	}
	ts, err := strconv.ParseInt(dp.Timestamp, 10, 64)
	if err != nil {
		c.logger.LogWarn("F&G: invalid timestamp %q: %v", dp.Timestamp, err)
		return FearGreedIndex{}, false
	}

	return FearGreedIndex{
		Value:          value,
		Classification: dp.ValueClassification,
		Timestamp:      time.Unix(ts, 0).UTC(),
	}, true
}
