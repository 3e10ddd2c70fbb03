package market

import (
	"context"

	"Coinpulse/dataprovider"
	utils "Coinpulse/utilities"
)

// shortSymbolMax is the cutoff below which user input is treated as a ticker
// that needs resolving rather than an already-canonical coin ID. The
// heuristic misfires both ways: 5-letter IDs get resolved, 6-letter tickers
// do not. Resolution is best effort, so both misses degrade to absence.
const shortSymbolMax = 5

// Resolver maps user-supplied tickers and names to canonical coin IDs via
// the market-data provider's search endpoint. Resolution is best effort and
// first match; nothing is cached between calls.
type Resolver struct {
	provider dataprovider.MarketDataProvider
	logger   *utils.Logger
}

func NewResolver(provider dataprovider.MarketDataProvider, logger *utils.Logger) *Resolver {
	return &Resolver{provider: provider, logger: logger}
}

// Resolve returns the first coin ID the provider's search yields for query.
// An empty result set and a failed search look the same to callers: absent.
func (r *Resolver) Resolve(ctx context.Context, query string) (string, bool) {
	id, ok := r.provider.SearchCoinID(ctx, query)
	if !ok {
		r.logger.LogDebug("Resolver: no coin ID found for %q", query)
		return "", false
	}
	return id, true
}

// needsResolution reports whether a symbol is short enough to be taken for a
// ticker. Longer inputs are assumed to already be canonical IDs.
func needsResolution(symbol string) bool {
	return len(symbol) <= shortSymbolMax
}
