// Package analyzer composes loading, extraction and classification into one
// analysis run over a content source.
package analyzer

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/mukul54/where-do-i-publish/internal/extract"
	"github.com/mukul54/where-do-i-publish/internal/loader"
	"github.com/mukul54/where-do-i-publish/internal/metrics"
	"github.com/mukul54/where-do-i-publish/internal/model"
	"github.com/mukul54/where-do-i-publish/internal/source"
	"github.com/mukul54/where-do-i-publish/internal/venue"
)

// Typed failures surfaced to the caller. None of them is retried.
var (
	// ErrNotListingPage: the content source is not a publication listing.
	ErrNotListingPage = errors.New("not a publication listing page")
	// ErrNoRecords: zero records visible before any loading attempt.
	ErrNoRecords = errors.New("no publication records found on page")
	// ErrAlreadyRunning: a run is active; the new request is rejected, not
	// queued. Only one analysis is ever meaningful per page state.
	ErrAlreadyRunning = errors.New("Analysis already in progress - please wait")
	// ErrNoVenues: loading and extraction completed but nothing classified.
	// Content-derived, not mechanical: an unsupported layout or total
	// classification failure.
	ErrNoVenues = errors.New("no venues could be extracted")
)

// Analyzer runs venue analyses. A single process-wide reentrancy flag guards
// against overlapping runs: set when a run starts, cleared on every exit
// path, and resettable on page teardown so a stale run cannot block future
// ones.
type Analyzer struct {
	loader  *loader.Loader
	logger  *zap.Logger
	metrics *metrics.Metrics
	running atomic.Bool
}

// New builds an Analyzer. logger and m may be nil.
func New(l *loader.Loader, logger *zap.Logger, m *metrics.Metrics) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.NewNop()
	}
	return &Analyzer{loader: l, logger: logger.Named("analyzer"), metrics: m}
}

// IsRunning reports whether a run is currently active.
func (a *Analyzer) IsRunning() bool { return a.running.Load() }

// Reset force-clears the reentrancy flag. Call when the page under analysis
// is torn down.
func (a *Analyzer) Reset() { a.running.Store(false) }

// Run validates preconditions, loads the listing to exhaustion, classifies
// every record's venue and returns the sorted aggregate.
func (a *Analyzer) Run(ctx context.Context, src source.Source) (*model.AnalysisResult, error) {
	if !a.running.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRunning
	}
	defer a.running.Store(false)

	start := time.Now()
	res, err := a.run(ctx, src)
	a.metrics.RunDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		a.metrics.RunsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	a.metrics.RunsTotal.WithLabelValues("success").Inc()
	return res, nil
}

func (a *Analyzer) run(ctx context.Context, src source.Source) (*model.AnalysisResult, error) {
	if !src.IsListingView() {
		return nil, ErrNotListingPage
	}
	initial := src.CountVisible()
	if initial == 0 {
		return nil, ErrNoRecords
	}

	a.logger.Info("starting analysis", zap.Int("initial_records", initial))

	loaded, err := a.loader.LoadAll(ctx, src)
	if err != nil {
		// LoadAll degrades gracefully; an error here is unexpected but the
		// records loaded so far are still usable.
		a.logger.Warn("loading ended with error, analyzing partial listing", zap.Error(err))
	}

	records := src.Records()
	final := len(records)
	if final != loaded {
		a.logger.Warn("record count mismatch after load",
			zap.Int("loader_count", loaded), zap.Int("visible_count", final))
	}

	counts := make(map[string]int)
	var order []string // first-encounter order, used to break count ties
	processed, skipped := 0, 0

	for _, rec := range records {
		raw := extract.RawVenue(rec)
		label, ok := venue.Normalize(raw)
		if !ok {
			skipped++
			continue
		}
		if counts[label] == 0 {
			order = append(order, label)
		}
		counts[label]++
		processed++
	}

	a.metrics.RecordsProcessed.Add(float64(processed))
	a.metrics.RecordsSkipped.Add(float64(skipped))

	if len(counts) == 0 {
		return nil, ErrNoVenues
	}

	venues := make([]model.VenueCount, 0, len(order))
	for _, label := range order {
		venues = append(venues, model.VenueCount{Venue: label, Count: counts[label]})
	}
	sort.SliceStable(venues, func(i, j int) bool {
		return venues[i].Count > venues[j].Count
	})

	a.logger.Info("analysis complete",
		zap.Int("total_found", final),
		zap.Int("processed", processed),
		zap.Int("skipped", skipped),
		zap.Int("distinct_venues", len(venues)))

	return &model.AnalysisResult{
		Success:        true,
		Venues:         venues,
		TotalFound:     final,
		TotalProcessed: processed,
		TotalSkipped:   skipped,
	}, nil
}
