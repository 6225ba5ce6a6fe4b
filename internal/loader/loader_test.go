package loader

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mukul54/where-do-i-publish/internal/source"
)

// fakeClock advances instantly on Sleep so timeout paths run without delay.
type fakeClock struct {
	now    time.Time
	sleeps int
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.now = c.now.Add(d)
	c.sleeps++
	return ctx.Err()
}

func newTestLoader(clock Clock, opts Options) *Loader {
	opts.Clock = clock
	return New(opts)
}

func scriptedRecords(n int) []source.ScriptedRecord {
	recs := make([]source.ScriptedRecord, n)
	for i := range recs {
		recs[i] = source.ScriptedRecord{Secondary: []string{"A Author", "arXiv preprint arXiv:2001.00001"}}
	}
	return recs
}

func TestLoadAllRevealsEverything(t *testing.T) {
	src := &source.ScriptedSource{
		Recs:   scriptedRecords(30),
		Script: []int{10, 20, 30},
	}
	l := newTestLoader(&fakeClock{}, Options{})

	count, err := l.LoadAll(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 30, count)
	assert.Equal(t, 2, src.Invocations())
	assert.Equal(t, StateDone, l.State())
}

func TestLoadAllNoAffordanceReturnsImmediately(t *testing.T) {
	src := &source.ScriptedSource{
		Recs:   scriptedRecords(4),
		Script: []int{4},
	}
	l := newTestLoader(&fakeClock{}, Options{})

	count, err := l.LoadAll(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
	assert.Equal(t, 0, src.Invocations())
	assert.Equal(t, StateDone, l.State())
}

func TestLoadAllInertAffordanceTimesOut(t *testing.T) {
	// Affordance always discoverable, invocation never grows the listing:
	// the no-growth timeout must end the loop, not MaxAttempts and not an
	// infinite spin.
	src := &source.ScriptedSource{
		Recs:   scriptedRecords(5),
		Script: []int{5},
		Inert:  true,
	}
	clock := &fakeClock{}
	l := newTestLoader(clock, Options{GrowthTimeout: 2 * time.Second})

	count, err := l.LoadAll(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
	assert.Equal(t, 1, src.Invocations())
	assert.Equal(t, StateTimedOut, l.State())
	assert.Greater(t, clock.sleeps, 1, "should have polled more than once before giving up")
}

func TestLoadAllBoundedByMaxAttempts(t *testing.T) {
	// A pathological listing that grows forever: the attempt ceiling must
	// stop the loop.
	script := make([]int, 500)
	for i := range script {
		script[i] = i + 1
	}
	src := &source.ScriptedSource{
		Recs:   scriptedRecords(500),
		Script: script,
	}
	l := newTestLoader(&fakeClock{}, Options{MaxAttempts: 10})

	count, err := l.LoadAll(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 10, src.Invocations())
	assert.Equal(t, 11, count) // initial 1 + one step per invocation
	assert.Equal(t, StateDone, l.State(), "exhausting the ceiling must still land in a terminal state")
}

func TestLoadAllInvokeErrorDegradesGracefully(t *testing.T) {
	src := &source.ScriptedSource{
		Recs:      scriptedRecords(10),
		Script:    []int{2, 10},
		InvokeErr: assert.AnError,
	}
	l := newTestLoader(&fakeClock{}, Options{})

	count, err := l.LoadAll(context.Background(), src)
	require.NoError(t, err, "content-source errors must not fail the load")
	assert.Equal(t, 2, count)
	assert.Equal(t, StateDone, l.State())
}

func TestPollIntervalTiers(t *testing.T) {
	assert.Equal(t, pollFast, pollInterval(0))
	assert.Equal(t, pollFast, pollInterval(400*time.Millisecond))
	assert.Equal(t, pollMedium, pollInterval(600*time.Millisecond))
	assert.Equal(t, pollSlow, pollInterval(3*time.Second))
}
