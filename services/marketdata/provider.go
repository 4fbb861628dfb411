package marketdata

import (
	"context"

	"stock_tracker_backend/models"
)

// Provider fetches quote and intraday data for one symbol from an external
// market data API. Providers are interchangeable: the service tries each one
// in order and falls back to synthetic data when all of them fail.
type Provider interface {
	Name() string
	FetchQuote(ctx context.Context, symbol string) (models.Quote, error)
	// FetchIntraday returns recent per-bar close prices in ascending time
	// order. Implementations may return more bars than the caller needs;
	// the service trims to the requested window.
	FetchIntraday(ctx context.Context, symbol string) ([]intradayBar, error)
}

// intradayBar is a single close-price observation from a provider's intraday
// series endpoint.
type intradayBar struct {
	TimestampMillis int64
	Close           float64
}
