package market

import (
	"context"
	"strings"

	"Coinpulse/dataprovider"
	utils "Coinpulse/utilities"
)

// Orchestrator sequences provider lookups in a fixed priority order,
// stopping at the first success. There is no health- or latency-based
// reordering and each provider gets exactly one attempt per request; the
// chain is strictly sequential because each step only runs if the previous
// one came up empty.
type Orchestrator struct {
	spot       dataprovider.SpotPriceProvider
	marketData dataprovider.MarketDataProvider
	historical dataprovider.HistoricalProvider
	resolver   *Resolver
	logger     *utils.Logger
}

func NewOrchestrator(
	spot dataprovider.SpotPriceProvider,
	marketData dataprovider.MarketDataProvider,
	historical dataprovider.HistoricalProvider,
	logger *utils.Logger,
) *Orchestrator {
	return &Orchestrator{
		spot:       spot,
		marketData: marketData,
		historical: historical,
		resolver:   NewResolver(marketData, logger),
		logger:     logger,
	}
}

// GetPrice runs the price fallback chain: spot provider first, then the
// market-data provider with the symbol taken as an ID, then a resolve-and-
// retry. A spot quote missing the coin name gets the name backfilled from
// the market-data provider; backfill failure is not an error.
func (o *Orchestrator) GetPrice(ctx context.Context, symbol string) (dataprovider.PriceQuote, bool) {
	if quote, ok := o.spot.GetPrice(ctx, symbol); ok {
		if quote.Name == nil {
			if id, ok := o.resolver.Resolve(ctx, symbol); ok {
				if named, ok := o.marketData.GetPrice(ctx, id); ok && named.Name != nil {
					// Name only; every other field stays from the spot source.
					quote.Name = named.Name
				}
			}
		}
		return quote, true
	}

	if quote, ok := o.marketData.GetPrice(ctx, strings.ToLower(symbol)); ok {
		return quote, true
	}

	if id, ok := o.resolver.Resolve(ctx, symbol); ok {
		if quote, ok := o.marketData.GetPrice(ctx, id); ok {
			return quote, true
		}
	}

	o.logger.LogDebug("Orchestrator: no provider produced a price for %q", symbol)
	return dataprovider.PriceQuote{}, false
}

// GetHistory runs the historical fallback chain: market-data OHLC (with
// symbol resolution for short inputs) normalized to daily points, then the
// secondary historical provider, whose records are already day-granular and
// returned as-is.
func (o *Orchestrator) GetHistory(ctx context.Context, symbol string, days int, coinName string) ([]dataprovider.HistoricalPoint, bool) {
	coinID := strings.ToLower(symbol)
	if needsResolution(symbol) {
		if id, ok := o.resolver.Resolve(ctx, symbol); ok {
			coinID = id
		}
	}

	if bars := o.marketData.GetHistoricalOHLC(ctx, coinID, days); len(bars) > 0 {
		if points := NormalizeDaily(bars, days); len(points) > 0 {
			return points, true
		}
	}

	if points := o.historical.GetHistoricalDaily(ctx, symbol, days, coinName); len(points) > 0 {
		return points, true
	}

	o.logger.LogDebug("Orchestrator: no provider produced history for %q (days=%d)", symbol, days)
	return nil, false
}
