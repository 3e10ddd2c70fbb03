package blockchaininfo

import (
	"context"
	"errors"
	"math"
	"net/http"
	"time"

	"Coinpulse/dataprovider"
	utils "Coinpulse/utilities"
)

const satoshisPerBTC = 100_000_000

// Client reads the blockchain.info mempool feed to surface whale-sized BTC
// transfers. A best-effort source: any failure yields an empty list.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	logger     *utils.Logger
}

type bcUnconfirmedResponse struct {
	Txs []struct {
		Hash   string `json:"hash"`
		Time   int64  `json:"time"`
		Inputs []struct {
			PrevOut struct {
				Addr string `json:"addr"`
			} `json:"prev_out"`
		} `json:"inputs"`
		Out []struct {
			Value int64  `json:"value"`
			Addr  string `json:"addr"`
		} `json:"out"`
	} `json:"txs"`
}

func NewClient(cfg *utils.BlockchainConfig, logger *utils.Logger) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("blockchaininfo client: BlockchainConfig cannot be nil")
	}
	if logger == nil {
		logger = utils.NewLogger(utils.Info)
		logger.LogWarn("Blockchain Client: Logger not provided, using default logger.")
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("blockchaininfo client: BaseURL is required in BlockchainConfig")
	}
	if cfg.RequestTimeoutSec <= 0 {
		cfg.RequestTimeoutSec = 15
	}

	return &Client{
		BaseURL:    cfg.BaseURL,
		HTTPClient: &http.Client{Timeout: time.Duration(cfg.RequestTimeoutSec) * time.Second},
		logger:     logger,
	}, nil
}

// GetWhaleTransactions scans unconfirmed transactions and keeps those whose
// total output value, priced at btcPriceUSD, meets minValueUSD. At most
// limit transactions are returned, in mempool order.
func (c *Client) GetWhaleTransactions(ctx context.Context, limit int, minValueUSD float64, btcPriceUSD float64) []dataprovider.WhaleTransaction {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/unconfirmed-transactions?format=json", nil)
	if err != nil {
		c.logger.LogWarn("Blockchain GetWhaleTransactions: create request failed: %v", err)
		return nil
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Coinpulse/1.0")

	var resp bcUnconfirmedResponse
	if err := utils.DoJSONRequest(c.HTTPClient, req, 0, 0, &resp); err != nil {
		c.logger.LogWarn("Blockchain GetWhaleTransactions: feed unavailable: %v", err)
		return nil
	}

	var whales []dataprovider.WhaleTransaction
	for _, tx := range resp.Txs {
		var totalSat int64
		for _, out := range tx.Out {
			totalSat += out.Value
		}
		totalBTC := float64(totalSat) / satoshisPerBTC
		totalUSD := totalBTC * btcPriceUSD
		if totalUSD < minValueUSD {
			continue
		}

		fromAddr := "Unknown"
		if len(tx.Inputs) > 0 && tx.Inputs[0].PrevOut.Addr != "" {
			fromAddr = tx.Inputs[0].PrevOut.Addr
		}
		toAddr := "Unknown"
		if len(tx.Out) > 0 && tx.Out[0].Addr != "" {
			toAddr = tx.Out[0].Addr
		}

		whales = append(whales, dataprovider.WhaleTransaction{
			Hash:        tx.Hash,
			Blockchain:  "bitcoin",
			Symbol:      "BTC",
			Amount:      roundTo(totalBTC, 4),
			AmountUSD:   roundTo(totalUSD, 2),
			Timestamp:   tx.Time,
			FromAddress: fromAddr,
			ToAddress:   toAddr,
		})
		if len(whales) >= limit {
			break
		}
	}
	return whales
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
