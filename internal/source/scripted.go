package source

import (
	"context"
	"sync"
)

// ScriptedRecord is a fully in-memory Record used by the scripted source.
type ScriptedRecord struct {
	Secondary []string
	Venue     string
}

func (r ScriptedRecord) SecondaryText() []string { return r.Secondary }
func (r ScriptedRecord) VenueField() string      { return r.Venue }

type scriptedAffordance struct{}

func (scriptedAffordance) Describe() string { return "scripted reveal control" }

// ScriptedSource is a deterministic in-memory Source. It reveals its records
// according to a predefined script of visible counts, one step per Invoke,
// which lets loader and orchestrator behavior be tested without a page and
// without real delays.
type ScriptedSource struct {
	// NotListing makes IsListingView report false.
	NotListing bool
	// Recs is the full backing record set; Script controls how many are
	// visible at a time.
	Recs []ScriptedRecord
	// Script holds the visible counts revealed by successive invocations.
	// Script[0] is the initial count. When the script is exhausted the
	// affordance disappears unless Inert is set.
	Script []int
	// Inert keeps the affordance discoverable and actionable forever while
	// invocations reveal nothing, simulating a permanently dead control.
	Inert bool
	// InvokeErr is returned by every Invoke call when set.
	InvokeErr error

	mu      sync.Mutex
	step    int
	invokes int
}

func (s *ScriptedSource) IsListingView() bool { return !s.NotListing }

func (s *ScriptedSource) CountVisible() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visibleLocked()
}

func (s *ScriptedSource) visibleLocked() int {
	if len(s.Script) == 0 {
		return len(s.Recs)
	}
	n := s.Script[s.step]
	if n > len(s.Recs) {
		n = len(s.Recs)
	}
	return n
}

func (s *ScriptedSource) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.visibleLocked()
	out := make([]Record, 0, n)
	for _, r := range s.Recs[:n] {
		out = append(out, r)
	}
	return out
}

func (s *ScriptedSource) FindRevealAffordance() Affordance {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Inert {
		return scriptedAffordance{}
	}
	if s.step < len(s.Script)-1 {
		return scriptedAffordance{}
	}
	return nil
}

func (s *ScriptedSource) Actionable(a Affordance) bool {
	_, ok := a.(scriptedAffordance)
	return ok
}

func (s *ScriptedSource) Invoke(ctx context.Context, a Affordance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invokes++
	if s.InvokeErr != nil {
		return s.InvokeErr
	}
	if s.step < len(s.Script)-1 {
		s.step++
	}
	return nil
}

// Invocations reports how many times Invoke was called.
func (s *ScriptedSource) Invocations() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.invokes
}
