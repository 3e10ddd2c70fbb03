package market

import (
	"time"

	"Coinpulse/dataprovider"
)

// NormalizeDaily buckets raw OHLC candles to one point per calendar day and
// truncates the result to the trailing requestedDays entries.
//
// Day boundaries use the process-local time zone; whatever zone the service
// runs in, the bucketing stays internally consistent. Within a day the
// FIRST candle encountered wins. Upstream delivers ascending timestamps,
// so this keeps the earliest bar of each day.
//
// Missing or zero OHLC values stay 0.0: a deliberate lossy choice so partial
// upstream data degrades instead of failing the whole series.
func NormalizeDaily(raw []dataprovider.OHLCBar, requestedDays int) []dataprovider.HistoricalPoint {
	if len(raw) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(raw))
	points := make([]dataprovider.HistoricalPoint, 0, len(raw))

	for _, bar := range raw {
		date := time.UnixMilli(bar.TimestampMs).Format("2006-01-02")
		if _, dup := seen[date]; dup {
			continue
		}
		seen[date] = struct{}{}
		points = append(points, dataprovider.HistoricalPoint{
			Date:  date,
			Open:  bar.Open,
			High:  bar.High,
			Low:   bar.Low,
			Close: bar.Close,
		})
	}

	if len(points) > requestedDays {
		points = points[len(points)-requestedDays:]
	}
	return points
}
