package models

// Trend direction labels derived from recent price deltas
const (
	TrendUp      = "up"
	TrendDown    = "down"
	TrendNeutral = "neutral"
)

// SeriesPoint is one observation in a symbol's price series. Exactly one of
// Actual/Predicted is set by the stage that produced the point; a merged series
// interleaves both kinds ordered ascending by TimestampMillis. Consumers may
// rely on that ordering.
type SeriesPoint struct {
	TimestampMillis int64    `json:"timestamp"`
	Label           string   `json:"label"`
	Actual          *float64 `json:"actual,omitempty"`
	Predicted       *float64 `json:"predicted,omitempty"`
}

// Prediction is the output of the trend predictor: a short extrapolated
// continuation of the series plus a directional label and confidence score.
type Prediction struct {
	Points     []SeriesPoint `json:"points"`
	Trend      string        `json:"trend"`
	Confidence float64       `json:"confidence"`
}

// Float64Ptr returns a pointer to v. Helper for building series points.
func Float64Ptr(v float64) *float64 {
	return &v
}
