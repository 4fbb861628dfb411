// Package predictor derives a short-horizon trend extrapolation from a
// symbol's historical price series. This is a linear-extrapolation heuristic
// with bounded jitter, not a statistical model; no predictive accuracy is
// claimed.
package predictor

import (
	"math"
	"math/rand"
	"time"

	"stock_tracker_backend/models"
)

const (
	// lookbackPoints is how many trailing points feed the average change.
	lookbackPoints = 5
	// forwardPoints is how many extrapolated points are generated.
	forwardPoints = 5
	// stepInterval is the series' sampling interval.
	stepInterval = time.Minute
	// maxConfidence caps the confidence score.
	maxConfidence = 0.95
)

const pointLabelLayout = "15:04:05"

// Predictor produces trend predictions from historical series.
type Predictor struct{}

// New creates a Predictor.
func New() *Predictor {
	return &Predictor{}
}

// Predict extrapolates the series forward. An empty series yields a neutral
// prediction with zero confidence. Otherwise the mean first-difference over
// the last five points sets the direction and slope, and each of the five
// forward points jitters that slope independently within [0.8, 1.2].
func (p *Predictor) Predict(symbol string, series []models.SeriesPoint) models.Prediction {
	if len(series) == 0 {
		return models.Prediction{
			Points:     []models.SeriesPoint{},
			Trend:      models.TrendNeutral,
			Confidence: 0,
		}
	}

	last := series[len(series)-1]
	lastPrice := pointValue(last)
	avgChange := averageChange(series)

	trend := models.TrendNeutral
	switch {
	case avgChange > 0:
		trend = models.TrendUp
	case avgChange < 0:
		trend = models.TrendDown
	}

	momentum := 0.0
	if lastPrice != 0 {
		momentum = math.Abs(avgChange) / lastPrice
	}

	points := make([]models.SeriesPoint, 0, forwardPoints)
	for i := 1; i <= forwardPoints; i++ {
		jitter := 0.8 + rand.Float64()*0.4
		predicted := lastPrice + avgChange*float64(i)*jitter
		ts := last.TimestampMillis + int64(i)*stepInterval.Milliseconds()
		points = append(points, models.SeriesPoint{
			TimestampMillis: ts,
			Label:           time.UnixMilli(ts).Format(pointLabelLayout),
			Predicted:       models.Float64Ptr(predicted),
		})
	}

	return models.Prediction{
		Points:     points,
		Trend:      trend,
		Confidence: math.Min(maxConfidence, 0.5+momentum*10),
	}
}

// averageChange computes the mean first-difference over the trailing lookback
// window. Fewer than two points yield zero.
func averageChange(series []models.SeriesPoint) float64 {
	window := series
	if len(window) > lookbackPoints {
		window = window[len(window)-lookbackPoints:]
	}
	if len(window) < 2 {
		return 0
	}

	sum := 0.0
	for i := 1; i < len(window); i++ {
		sum += pointValue(window[i]) - pointValue(window[i-1])
	}
	return sum / float64(len(window)-1)
}

// pointValue returns the price carried by a series point, preferring the
// actual observation over a prediction.
func pointValue(p models.SeriesPoint) float64 {
	if p.Actual != nil {
		return *p.Actual
	}
	if p.Predicted != nil {
		return *p.Predicted
	}
	return 0
}
