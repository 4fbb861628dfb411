package marketdata

import (
	"math/rand"
	"time"

	"stock_tracker_backend/models"
)

// Base prices for synthetic data, keyed by symbol. Unknown symbols fall back
// to defaultBasePrice. The table keeps fallback data recognizable: AAPL looks
// like AAPL even when the provider is down.
var syntheticBasePrices = map[string]float64{
	"AAPL":  175,
	"GOOGL": 140,
	"MSFT":  380,
	"AMZN":  155,
	"TSLA":  250,
	"META":  480,
	"NVDA":  700,
	"NFLX":  550,
	"SPY":   450,
	"QQQ":   390,
}

const defaultBasePrice = 100.0

const seriesPointLabelLayout = "15:04:05"

// formatPointLabel renders a chart label for a unix-millisecond timestamp.
func formatPointLabel(tsMillis int64) string {
	return time.UnixMilli(tsMillis).Format(seriesPointLabelLayout)
}

// syntheticBasePrice returns the base price for symbol.
func syntheticBasePrice(symbol string) float64 {
	if base, ok := syntheticBasePrices[symbol]; ok {
		return base
	}
	return defaultBasePrice
}

// syntheticQuote generates a quote with a price drawn uniformly within ±2% of
// the symbol's base price. Each call is an independent draw.
func syntheticQuote(symbol string) models.Quote {
	base := syntheticBasePrice(symbol)
	price := base * (1 + (rand.Float64()-0.5)*0.04)
	changePct := (rand.Float64() - 0.5) * 4

	return models.Quote{
		Symbol:          symbol,
		Price:           price,
		TimestampMillis: time.Now().UnixMilli(),
		Volume:          int64(1_000_000 + rand.Intn(9_000_000)),
		ChangePercent:   changePct,
		High:            price * 1.01,
		Low:             price * 0.99,
		Open:            base,
	}
}

// syntheticSeries generates a random walk of pointCount+1 actual points around
// the symbol's base price, spaced one minute apart and ending at now.
func syntheticSeries(symbol string, pointCount int) []models.SeriesPoint {
	base := syntheticBasePrice(symbol)
	now := time.Now()

	points := make([]models.SeriesPoint, 0, pointCount+1)
	price := base
	for i := pointCount; i >= 0; i-- {
		price += (rand.Float64() - 0.5) * base * 0.01
		if price <= 0 {
			price = base
		}
		ts := now.Add(-time.Duration(i) * time.Minute)
		points = append(points, models.SeriesPoint{
			TimestampMillis: ts.UnixMilli(),
			Label:           ts.Format(seriesPointLabelLayout),
			Actual:          models.Float64Ptr(price),
		})
	}
	return points
}
