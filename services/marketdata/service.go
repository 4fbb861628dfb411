package marketdata

import (
	"context"
	"fmt"
	"log"

	"stock_tracker_backend/models"
)

// Cache key prefixes per operation kind.
const (
	quoteCacheKeyFormat  = "quote:%s"
	seriesCacheKeyFormat = "series:%s:%d"
)

// Service is the market data source. It consults the quote cache before
// issuing a network call, tries each configured provider in order, and falls
// back to synthetic data when the providers are unreachable, disabled, or
// return malformed payloads. Neither fetch operation fails outward: the error
// return exists for the DataSource interface the tracker consumes and is
// always nil from this implementation.
type Service struct {
	providers []Provider
	cache     *QuoteCache
	useMock   bool
}

// NewService creates a market data service. When useMock is true the network
// is never touched and every fetch returns synthetic data.
func NewService(cache *QuoteCache, useMock bool, providers ...Provider) *Service {
	if cache == nil {
		cache = NewQuoteCache(DefaultCacheTTL)
	}
	return &Service{
		providers: providers,
		cache:     cache,
		useMock:   useMock,
	}
}

// FetchQuote returns the current quote for symbol. Provider errors are logged
// and recovered with a synthetic quote; the returned error is always nil.
func (s *Service) FetchQuote(ctx context.Context, symbol string) (models.Quote, error) {
	if s.useMock {
		return syntheticQuote(symbol), nil
	}

	cacheKey := fmt.Sprintf(quoteCacheKeyFormat, symbol)
	if cached, ok := s.cache.Get(cacheKey); ok {
		if quote, ok := cached.(models.Quote); ok {
			return quote, nil
		}
	}

	for _, provider := range s.providers {
		quote, err := provider.FetchQuote(ctx, symbol)
		if err != nil {
			log.Printf("Quote fetch for %s via %s failed: %v", symbol, provider.Name(), err)
			continue
		}
		s.cache.Put(cacheKey, quote)
		return quote, nil
	}

	log.Printf("All providers failed for %s quote, using synthetic data", symbol)
	return syntheticQuote(symbol), nil
}

// FetchSeries returns exactly pointCount+1 actual points for symbol in
// strictly ascending time order. Provider errors are logged and recovered
// with a synthetic random walk; the returned error is always nil.
func (s *Service) FetchSeries(ctx context.Context, symbol string, pointCount int) ([]models.SeriesPoint, error) {
	if pointCount < 0 {
		pointCount = 0
	}
	if s.useMock {
		return syntheticSeries(symbol, pointCount), nil
	}

	cacheKey := fmt.Sprintf(seriesCacheKeyFormat, symbol, pointCount)
	if cached, ok := s.cache.Get(cacheKey); ok {
		if series, ok := cached.([]models.SeriesPoint); ok {
			return series, nil
		}
	}

	for _, provider := range s.providers {
		bars, err := provider.FetchIntraday(ctx, symbol)
		if err != nil {
			log.Printf("Series fetch for %s via %s failed: %v", symbol, provider.Name(), err)
			continue
		}
		if len(bars) < pointCount+1 {
			log.Printf("Series fetch for %s via %s returned %d bars, need %d", symbol, provider.Name(), len(bars), pointCount+1)
			continue
		}
		series := barsToSeries(bars[len(bars)-(pointCount+1):])
		s.cache.Put(cacheKey, series)
		return series, nil
	}

	log.Printf("All providers failed for %s series, using synthetic data", symbol)
	return syntheticSeries(symbol, pointCount), nil
}

// Forget drops any cached payloads for symbol. Called when a symbol leaves
// the tracked set.
func (s *Service) Forget(symbol string, pointCount int) {
	s.cache.Delete(fmt.Sprintf(quoteCacheKeyFormat, symbol))
	s.cache.Delete(fmt.Sprintf(seriesCacheKeyFormat, symbol, pointCount))
}

// barsToSeries converts ascending intraday bars into actual series points.
func barsToSeries(bars []intradayBar) []models.SeriesPoint {
	points := make([]models.SeriesPoint, 0, len(bars))
	for _, bar := range bars {
		points = append(points, models.SeriesPoint{
			TimestampMillis: bar.TimestampMillis,
			Label:           formatPointLabel(bar.TimestampMillis),
			Actual:          models.Float64Ptr(bar.Close),
		})
	}
	return points
}
