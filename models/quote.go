package models

// Quote represents a single realtime quote for a symbol.
// A quote is produced fresh on every fetch and replaced, never mutated.
type Quote struct {
	Symbol          string  `json:"symbol"`
	Price           float64 `json:"price"`
	TimestampMillis int64   `json:"timestamp"`
	Volume          int64   `json:"volume"`
	ChangePercent   float64 `json:"change_percent"`
	High            float64 `json:"high,omitempty"`
	Low             float64 `json:"low,omitempty"`
	Open            float64 `json:"open,omitempty"`
}
