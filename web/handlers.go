package web

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"Coinpulse/dataprovider"
	"Coinpulse/pkg/market"
	"Coinpulse/pkg/news"
	utils "Coinpulse/utilities"

	"github.com/gin-gonic/gin"
)

// fallbackBTCPriceUSD is used to value whale transactions when the spot
// lookup itself is down.
const fallbackBTCPriceUSD = 50000.0

// ExchangeLister is the slice of the market-data client the exchange
// endpoints need.
type ExchangeLister interface {
	GetExchanges(ctx context.Context, limit int) []dataprovider.Exchange
	GetExchangeDetail(ctx context.Context, exchangeID string) (dataprovider.Exchange, bool)
}

// WhaleFeed serves large on-chain transactions.
type WhaleFeed interface {
	GetWhaleTransactions(ctx context.Context, limit int, minValueUSD, btcPriceUSD float64) []dataprovider.WhaleTransaction
}

// API bundles everything the handlers depend on.
type API struct {
	AppName      string
	Version      string
	Orchestrator *market.Orchestrator
	MarketData   dataprovider.MarketDataProvider
	Exchanges    ExchangeLister
	FearGreed    dataprovider.FearGreedProvider
	Whales       WhaleFeed
	News         *news.Fetcher
	Logger       *utils.Logger
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(api *API, debug bool) *gin.Engine {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/", api.rootHandler)
	router.GET("/health", api.healthHandler)
	router.GET("/price/:symbol", api.priceHandler)
	router.GET("/history/:symbol", api.historyHandler)
	router.GET("/prices/top100", api.topCoinsHandler)
	router.GET("/trending", api.trendingHandler)
	router.GET("/fear-greed", api.fearGreedHandler)
	router.GET("/news", api.newsHandler)
	router.GET("/exchanges/list", api.exchangesHandler)
	router.GET("/exchanges/:id", api.exchangeDetailHandler)
	router.GET("/whales/transactions", api.whalesHandler)

	return router
}

func (api *API) rootHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"name":    api.AppName,
		"version": api.Version,
	})
}

func (api *API) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (api *API) priceHandler(c *gin.Context) {
	symbol := c.Param("symbol")

	quote, ok := api.Orchestrator.GetPrice(c.Request.Context(), symbol)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": fmt.Sprintf("Coin '%s' not found", symbol)})
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (api *API) historyHandler(c *gin.Context) {
	symbol := c.Param("symbol")
	coinName := c.Query("coin_name")

	days, err := intQuery(c, "days", 30)
	if err != nil || days < 1 || days > 365 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "days must be an integer between 1 and 365"})
		return
	}

	points, ok := api.Orchestrator.GetHistory(c.Request.Context(), symbol, days, coinName)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": fmt.Sprintf("Historical data for '%s' not found or unavailable", symbol)})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"symbol": strings.ToUpper(symbol),
		"days":   days,
		"data":   points,
	})
}

func (api *API) topCoinsHandler(c *gin.Context) {
	limit, err := intQuery(c, "limit", 100)
	if err != nil || limit < 1 || limit > 250 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "limit must be an integer between 1 and 250"})
		return
	}

	coins := api.MarketData.GetTopCoins(c.Request.Context(), limit)
	if coins == nil {
		coins = []dataprovider.RankedCoin{}
	}
	c.JSON(http.StatusOK, gin.H{"coins": coins})
}

func (api *API) trendingHandler(c *gin.Context) {
	coins := api.MarketData.GetTrending(c.Request.Context())
	if coins == nil {
		coins = []dataprovider.TrendingCoin{}
	}
	c.JSON(http.StatusOK, gin.H{"coins": coins})
}

func (api *API) fearGreedHandler(c *gin.Context) {
	index, ok := api.FearGreed.GetIndex(c.Request.Context())
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "Fear & Greed Index temporarily unavailable"})
		return
	}
	c.JSON(http.StatusOK, index)
}

func (api *API) newsHandler(c *gin.Context) {
	source := c.Query("source")
	if source != "" && !api.News.HasSource(source) {
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": fmt.Sprintf("Unknown source '%s'; available: %s", source, strings.Join(api.News.Sources(), ", ")),
		})
		return
	}

	limit, err := intQuery(c, "limit", 10)
	if err != nil || limit < 1 || limit > 50 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "limit must be an integer between 1 and 50"})
		return
	}

	articles := api.News.Fetch(c.Request.Context(), source, limit)
	if articles == nil {
		articles = []news.Article{}
	}
	c.JSON(http.StatusOK, gin.H{
		"count":    len(articles),
		"sources":  api.News.Sources(),
		"articles": articles,
	})
}

func (api *API) exchangesHandler(c *gin.Context) {
	limit, err := intQuery(c, "limit", 20)
	if err != nil || limit < 1 || limit > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "limit must be an integer between 1 and 100"})
		return
	}

	exchanges := api.Exchanges.GetExchanges(c.Request.Context(), limit)
	if len(exchanges) == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "Exchange data unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":     len(exchanges),
		"exchanges": exchanges,
	})
}

func (api *API) exchangeDetailHandler(c *gin.Context) {
	id := c.Param("id")

	exchange, ok := api.Exchanges.GetExchangeDetail(c.Request.Context(), id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": fmt.Sprintf("Exchange '%s' not found", id)})
		return
	}
	c.JSON(http.StatusOK, exchange)
}

func (api *API) whalesHandler(c *gin.Context) {
	limit, err := intQuery(c, "limit", 10)
	if err != nil || limit < 1 || limit > 50 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "limit must be an integer between 1 and 50"})
		return
	}
	minValue, err := intQuery(c, "min_value_usd", 1000000)
	if err != nil || minValue < 100000 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "min_value_usd must be an integer >= 100000"})
		return
	}

	btcPrice := fallbackBTCPriceUSD
	if quote, ok := api.MarketData.GetPrice(c.Request.Context(), "bitcoin"); ok {
		btcPrice = quote.PriceUSD
	}

	txs := api.Whales.GetWhaleTransactions(c.Request.Context(), limit, float64(minValue), btcPrice)
	if txs == nil {
		txs = []dataprovider.WhaleTransaction{}
	}
	c.JSON(http.StatusOK, gin.H{
		"count":        len(txs),
		"transactions": txs,
	})
}

func intQuery(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
