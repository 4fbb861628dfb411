package tracker

import (
	"context"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"stock_tracker_backend/models"

	"github.com/go-co-op/gocron"
)

// Defaults for the refresh loop.
const (
	DefaultRefreshInterval = 5 * time.Second
	DefaultSeriesPoints    = 30
)

// DataSource fetches current and historical price data for one symbol. The
// production implementation (services/marketdata) never returns an error; the
// error return models the degradation path a failing fetch triggers.
type DataSource interface {
	FetchQuote(ctx context.Context, symbol string) (models.Quote, error)
	FetchSeries(ctx context.Context, symbol string, pointCount int) ([]models.SeriesPoint, error)
}

// Predictor extrapolates a historical series forward.
type Predictor interface {
	Predict(symbol string, series []models.SeriesPoint) models.Prediction
}

// cacheForgetter is implemented by data sources that cache per-symbol
// payloads; the tracker drops those on symbol removal.
type cacheForgetter interface {
	Forget(symbol string, pointCount int)
}

// Config holds tracker tuning knobs.
type Config struct {
	RefreshInterval    time.Duration
	SeriesPoints       int
	PredictionsEnabled bool
	// OnRefresh, if set, is called with the full ordered snapshot list
	// after every completed refresh cycle.
	OnRefresh func([]models.TrackedSymbol)
}

// trackedEntry is the tracker's exclusively owned state for one symbol. The
// generation counter invalidates in-flight refreshes when the symbol is
// removed (or removed and re-added) mid-fetch, so a late completion can never
// resurrect a dropped entry.
type trackedEntry struct {
	generation int
	status     string
	state      models.TrackedSymbol
}

// Service owns the set of tracked symbols and keeps their data fresh. All
// tracked-symbol state is guarded by mu; every refresh applies its result as
// one atomic replace, so readers observe either the previous or the next
// complete snapshot, never a mix. The refresh interval runs only while the
// tracked set is non-empty.
type Service struct {
	source    DataSource
	predictor Predictor

	mu                 sync.RWMutex
	symbols            map[string]*trackedEntry
	order              []string
	predictionsEnabled bool
	nextGeneration     int
	cron               *gocron.Scheduler

	interval     time.Duration
	seriesPoints int
	onRefresh    func([]models.TrackedSymbol)
}

// NewService creates a tracker over the given data source and predictor.
func NewService(source DataSource, predictor Predictor, cfg Config) *Service {
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = DefaultRefreshInterval
	}
	if cfg.SeriesPoints <= 0 {
		cfg.SeriesPoints = DefaultSeriesPoints
	}
	return &Service{
		source:             source,
		predictor:          predictor,
		symbols:            make(map[string]*trackedEntry),
		predictionsEnabled: cfg.PredictionsEnabled,
		interval:           cfg.RefreshInterval,
		seriesPoints:       cfg.SeriesPoints,
		onRefresh:          cfg.OnRefresh,
	}
}

// AddSymbol starts tracking a symbol and triggers one immediate refresh.
// Returns models.ErrDuplicateSymbol when the symbol is already tracked; an
// empty symbol folds into the same error.
func (s *Service) AddSymbol(symbol string) error {
	symbol = normalizeSymbol(symbol)
	if symbol == "" {
		return models.ErrDuplicateSymbol
	}

	s.mu.Lock()
	if _, ok := s.symbols[symbol]; ok {
		s.mu.Unlock()
		return models.ErrDuplicateSymbol
	}
	s.nextGeneration++
	s.symbols[symbol] = &trackedEntry{
		generation: s.nextGeneration,
		status:     models.StatusAdded,
		state: models.TrackedSymbol{
			Symbol: symbol,
			Series: []models.SeriesPoint{},
		},
	}
	s.order = append(s.order, symbol)
	if len(s.symbols) == 1 {
		s.startSchedulerLocked()
	}
	s.mu.Unlock()

	go s.RefreshOne(symbol)
	return nil
}

// RemoveSymbol stops tracking a symbol and drops its cached data. Removing an
// untracked symbol is a no-op.
func (s *Service) RemoveSymbol(symbol string) {
	symbol = normalizeSymbol(symbol)

	var cron *gocron.Scheduler
	s.mu.Lock()
	if _, ok := s.symbols[symbol]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.symbols, symbol)
	for i, sym := range s.order {
		if sym == symbol {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if len(s.symbols) == 0 {
		cron = s.cron
		s.cron = nil
	}
	s.mu.Unlock()

	// Stop in the background: gocron's Stop waits for running jobs, and a
	// tick may be mid-fetch. The entry is already gone and the generation
	// check turns any late completion into a no-op, so removal never has to
	// wait for the interval to drain.
	if cron != nil {
		go stopScheduler(cron)
	}

	if forgetter, ok := s.source.(cacheForgetter); ok {
		forgetter.Forget(symbol, s.seriesPoints)
	}
}

// RefreshOne fetches quote and series for one symbol concurrently, runs the
// predictor when enabled, and applies the result as a single atomic replace.
// Any fetch failure only flips the Degraded flag; last-known-good data stays
// untouched. A symbol removed while the fetch was in flight is left absent.
func (s *Service) RefreshOne(symbol string) {
	symbol = normalizeSymbol(symbol)

	s.mu.Lock()
	entry, ok := s.symbols[symbol]
	if !ok {
		s.mu.Unlock()
		return
	}
	generation := entry.generation
	entry.status = models.StatusFetching
	enabled := s.predictionsEnabled
	pointCount := s.seriesPoints
	s.mu.Unlock()

	ctx := context.Background()
	var (
		quote     models.Quote
		series    []models.SeriesPoint
		quoteErr  error
		seriesErr error
		wg        sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		quote, quoteErr = s.source.FetchQuote(ctx, symbol)
	}()
	go func() {
		defer wg.Done()
		series, seriesErr = s.source.FetchSeries(ctx, symbol, pointCount)
	}()
	wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok = s.symbols[symbol]
	if !ok || entry.generation != generation {
		return // removed mid-flight; do not resurrect
	}

	if quoteErr != nil || seriesErr != nil {
		if quoteErr != nil {
			log.Printf("Refresh failed for %s: %v", symbol, quoteErr)
		}
		if seriesErr != nil {
			log.Printf("Refresh failed for %s: %v", symbol, seriesErr)
		}
		entry.state.Degraded = true
		entry.status = models.StatusDegraded
		return
	}

	var prediction *models.Prediction
	var predicted []models.SeriesPoint
	if enabled {
		p := s.predictor.Predict(symbol, series)
		prediction = &p
		predicted = p.Points
	}

	entry.state.LatestQuote = &quote
	entry.state.Series = mergeSeries(entry.state.Series, series, predicted)
	entry.state.Prediction = prediction
	entry.state.LastUpdateMillis = time.Now().UnixMilli()
	entry.state.Degraded = false
	entry.status = models.StatusFresh
}

// RefreshAll refreshes every tracked symbol concurrently. A no-op when
// nothing is tracked; one symbol's failure never blocks or fails another's
// refresh.
func (s *Service) RefreshAll() {
	s.mu.RLock()
	symbols := make([]string, len(s.order))
	copy(symbols, s.order)
	s.mu.RUnlock()

	if len(symbols) == 0 {
		return
	}

	var wg sync.WaitGroup
	for _, symbol := range symbols {
		wg.Add(1)
		go func(sym string) {
			defer wg.Done()
			s.RefreshOne(sym)
		}(symbol)
	}
	wg.Wait()

	if s.onRefresh != nil {
		s.onRefresh(s.Snapshots())
	}
}

// SetPredictionsEnabled toggles predictions and refreshes all tracked symbols
// immediately so visible data reflects the new setting without waiting for
// the next tick.
func (s *Service) SetPredictionsEnabled(enabled bool) {
	s.mu.Lock()
	changed := s.predictionsEnabled != enabled
	s.predictionsEnabled = enabled
	s.mu.Unlock()

	if changed {
		s.RefreshAll()
	}
}

// PredictionsEnabled reports the current setting.
func (s *Service) PredictionsEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.predictionsEnabled
}

// Snapshots returns deep copies of all tracked symbols in insertion order.
func (s *Service) Snapshots() []models.TrackedSymbol {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.TrackedSymbol, 0, len(s.order))
	for _, symbol := range s.order {
		if entry, ok := s.symbols[symbol]; ok {
			out = append(out, copySnapshot(entry))
		}
	}
	return out
}

// Snapshot returns a deep copy of one tracked symbol.
func (s *Service) Snapshot(symbol string) (models.TrackedSymbol, bool) {
	symbol = normalizeSymbol(symbol)

	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.symbols[symbol]
	if !ok {
		return models.TrackedSymbol{}, false
	}
	return copySnapshot(entry), true
}

// IsPolling reports whether the refresh interval is currently running.
func (s *Service) IsPolling() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cron != nil
}

// Stop halts the refresh interval. Tracked state stays readable.
func (s *Service) Stop() {
	s.mu.Lock()
	cron := s.cron
	s.cron = nil
	s.mu.Unlock()

	stopScheduler(cron)
}

// startSchedulerLocked establishes the refresh interval. Caller holds mu.
func (s *Service) startSchedulerLocked() {
	// WaitForSchedule defers the first tick by one interval; AddSymbol has
	// already kicked off the initial refresh for the symbol that started
	// the interval, so an immediate tick would double-fetch it.
	cron := gocron.NewScheduler(time.UTC)
	if _, err := cron.Every(s.interval).WaitForSchedule().Do(s.RefreshAll); err != nil {
		log.Printf("Error scheduling refresh job: %v", err)
		return
	}
	cron.StartAsync()
	s.cron = cron
	log.Printf("Refresh interval started (every %v)", s.interval)
}

// stopScheduler cancels a refresh interval. Must not be called with mu held.
func stopScheduler(cron *gocron.Scheduler) {
	if cron == nil {
		return
	}
	cron.Stop()
	log.Println("Refresh interval stopped")
}

// copySnapshot deep-copies an entry's state so callers can never reach into
// tracker-owned memory.
func copySnapshot(entry *trackedEntry) models.TrackedSymbol {
	snap := entry.state
	snap.Status = entry.status

	snap.Series = cloneSeriesPoints(entry.state.Series)

	if entry.state.LatestQuote != nil {
		quote := *entry.state.LatestQuote
		snap.LatestQuote = &quote
	}
	if entry.state.Prediction != nil {
		pred := *entry.state.Prediction
		pred.Points = cloneSeriesPoints(entry.state.Prediction.Points)
		snap.Prediction = &pred
	}
	return snap
}

// cloneSeriesPoints copies a series including the pointed-to values, so a
// caller writing through a point's Actual or Predicted pointer cannot touch
// tracker-owned memory.
func cloneSeriesPoints(points []models.SeriesPoint) []models.SeriesPoint {
	out := make([]models.SeriesPoint, len(points))
	for i, p := range points {
		if p.Actual != nil {
			v := *p.Actual
			p.Actual = &v
		}
		if p.Predicted != nil {
			v := *p.Predicted
			p.Predicted = &v
		}
		out[i] = p
	}
	return out
}

// mergeSeries merges freshly fetched actual points into the existing series
// and appends the new predicted segment. Confirmed actual points are never
// dropped, so the series only grows until the symbol is removed; the old
// predicted tail is replaced wholesale.
func mergeSeries(existing, actuals, predicted []models.SeriesPoint) []models.SeriesPoint {
	byTS := make(map[int64]models.SeriesPoint, len(existing)+len(actuals))
	for _, p := range existing {
		if p.Actual != nil {
			byTS[p.TimestampMillis] = p
		}
	}
	for _, p := range actuals {
		byTS[p.TimestampMillis] = p
	}

	merged := make([]models.SeriesPoint, 0, len(byTS)+len(predicted))
	for _, p := range byTS {
		merged = append(merged, p)
	}
	merged = append(merged, predicted...)

	sort.Slice(merged, func(i, j int) bool {
		return merged[i].TimestampMillis < merged[j].TimestampMillis
	})
	return merged
}

// normalizeSymbol canonicalizes user-supplied symbols.
func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
