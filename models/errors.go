package models

import "errors"

// Error taxonomy for the pipeline. ErrProviderUnavailable and
// ErrMalformedPayload never survive past the market data source: it recovers
// them internally by falling back to synthetic data. ErrDuplicateSymbol is the
// only error the tracker surfaces to callers; removing an untracked symbol is
// a silent no-op rather than an error.
var (
	ErrProviderUnavailable = errors.New("market data provider unavailable")
	ErrMalformedPayload    = errors.New("malformed provider payload")
	ErrDuplicateSymbol     = errors.New("symbol is already tracked or invalid")
)
