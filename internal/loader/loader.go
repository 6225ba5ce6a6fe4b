// Package loader drives a content source until its listing is fully
// materialized: it repeatedly invokes the "reveal more" affordance and
// polls for record growth until the source converges or a budget runs out.
package loader

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mukul54/where-do-i-publish/internal/source"
)

// State is the loader's position in its load-to-exhaustion cycle.
type State int

const (
	StateIdle State = iota
	// StateProbing: discovering and validating the reveal affordance.
	StateProbing
	// StateWaiting: affordance invoked, polling for record growth.
	StateWaiting
	// StateDone: the source converged (no usable affordance remained).
	StateDone
	// StateTimedOut: the affordance produced no growth within the budget.
	StateTimedOut
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateProbing:
		return "probing"
	case StateWaiting:
		return "waiting"
	case StateDone:
		return "done"
	case StateTimedOut:
		return "timed-out"
	default:
		return "unknown"
	}
}

// Polling tiers: fast first checks, then two slower tiers the longer no
// growth is observed.
const (
	pollFast   = 50 * time.Millisecond
	pollMedium = 250 * time.Millisecond
	pollSlow   = 500 * time.Millisecond

	fastWindow   = 500 * time.Millisecond
	mediumWindow = 2 * time.Second
)

// Options bound one load-to-exhaustion call.
type Options struct {
	// MaxAttempts is the safety ceiling on reveal invocations against
	// runaway pages. Defaults to 200.
	MaxAttempts int
	// GrowthTimeout is how long a single invocation may go without growth
	// before the listing is treated as exhausted. Defaults to 8s.
	GrowthTimeout time.Duration
	// SettleDelay is the fixed pause between growth iterations and after
	// the loop, letting straggling updates land. Defaults to 300ms.
	SettleDelay time.Duration

	Clock  Clock
	Logger *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 200
	}
	if o.GrowthTimeout <= 0 {
		o.GrowthTimeout = 8 * time.Second
	}
	if o.SettleDelay <= 0 {
		o.SettleDelay = 300 * time.Millisecond
	}
	if o.Clock == nil {
		o.Clock = realClock{}
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Loader loads a listing to exhaustion. A Loader is stateless between calls
// and safe to reuse; State reports the terminal state of the last call.
type Loader struct {
	opts  Options
	state State
}

// New returns a Loader with the given options filled to their defaults.
func New(opts Options) *Loader {
	return &Loader{opts: opts.withDefaults(), state: StateIdle}
}

// State returns the terminal state of the most recent LoadAll call.
func (l *Loader) State() State { return l.state }

// LoadAll reveals records until the source converges, an invocation stops
// producing growth, or MaxAttempts is reached. "No more content" is the
// normal terminal condition, never an error; unexpected content-source
// errors stop the loop early and the count reached so far is returned, so a
// partial load still yields a usable analysis.
func (l *Loader) LoadAll(ctx context.Context, src source.Source) (int, error) {
	log := l.opts.Logger
	count := src.CountVisible()
	l.state = StateProbing

	for attempt := 1; attempt <= l.opts.MaxAttempts; attempt++ {
		l.state = StateProbing

		aff := src.FindRevealAffordance()
		if aff == nil || !src.Actionable(aff) {
			// Normal terminal state: the listing is fully loaded.
			l.state = StateDone
			break
		}

		if err := src.Invoke(ctx, aff); err != nil {
			log.Warn("reveal invocation failed, stopping load",
				zap.String("affordance", aff.Describe()),
				zap.Int("attempt", attempt),
				zap.Error(err))
			l.state = StateDone
			break
		}

		l.state = StateWaiting
		grew, newCount, err := l.waitForGrowth(ctx, src, count)
		if err != nil {
			l.state = StateDone
			break
		}
		count = newCount
		if !grew {
			// The affordance exists but produced nothing; same terminal
			// condition as no affordance at all.
			log.Debug("no growth before timeout, treating listing as exhausted",
				zap.Int("count", count), zap.Int("attempt", attempt))
			l.state = StateTimedOut
			break
		}

		log.Debug("listing grew", zap.Int("count", count), zap.Int("attempt", attempt))

		if err := l.opts.Clock.Sleep(ctx, l.opts.SettleDelay); err != nil {
			break
		}
	}

	// The attempt ceiling can run out mid-cycle, leaving the loop in a
	// non-terminal state.
	if l.state != StateDone && l.state != StateTimedOut {
		log.Warn("attempt ceiling reached before the listing converged",
			zap.Int("max_attempts", l.opts.MaxAttempts), zap.Int("count", count))
		l.state = StateDone
	}

	// One more settle pass to dodge races with straggling updates.
	_ = l.opts.Clock.Sleep(ctx, l.opts.SettleDelay)
	return src.CountVisible(), nil
}

// waitForGrowth polls the visible-record count with adaptive intervals until
// it exceeds prev or GrowthTimeout elapses.
func (l *Loader) waitForGrowth(ctx context.Context, src source.Source, prev int) (bool, int, error) {
	start := l.opts.Clock.Now()
	deadline := start.Add(l.opts.GrowthTimeout)

	for {
		if n := src.CountVisible(); n > prev {
			return true, n, nil
		}
		now := l.opts.Clock.Now()
		if !now.Before(deadline) {
			return false, src.CountVisible(), nil
		}
		if err := l.opts.Clock.Sleep(ctx, pollInterval(now.Sub(start))); err != nil {
			return false, src.CountVisible(), err
		}
	}
}

// pollInterval picks the polling tier for the time spent waiting so far.
func pollInterval(elapsed time.Duration) time.Duration {
	switch {
	case elapsed < fastWindow:
		return pollFast
	case elapsed < mediumWindow:
		return pollMedium
	default:
		return pollSlow
	}
}
