package models

// Tracked symbol lifecycle states. A symbol loops Fetching -> Fresh/Degraded on
// every refresh tick until it is removed from tracking.
const (
	StatusAdded    = "added"
	StatusFetching = "fetching"
	StatusFresh    = "fresh"
	StatusDegraded = "degraded"
)

// TrackedSymbol is the unit the tracking scheduler owns: the latest quote, the
// merged actual+predicted series, and the most recent prediction for one symbol.
// On a failed refresh only Degraded flips; all other fields keep the
// last-known-good data so the symbol stays visible to consumers.
type TrackedSymbol struct {
	Symbol           string        `json:"symbol"`
	LatestQuote      *Quote        `json:"latest_quote,omitempty"`
	Series           []SeriesPoint `json:"series"`
	Prediction       *Prediction   `json:"prediction,omitempty"`
	LastUpdateMillis int64         `json:"last_update"`
	Degraded         bool          `json:"degraded"`
	Status           string        `json:"status"`
}
