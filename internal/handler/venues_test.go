package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mukul54/where-do-i-publish/internal/analyzer"
	"github.com/mukul54/where-do-i-publish/internal/loader"
	"github.com/mukul54/where-do-i-publish/internal/model"
	"github.com/mukul54/where-do-i-publish/internal/source"
)

type instantClock struct{ now time.Time }

func (c *instantClock) Now() time.Time { return c.now }

func (c *instantClock) Sleep(ctx context.Context, d time.Duration) error {
	c.now = c.now.Add(d)
	return ctx.Err()
}

func newTestRouter(factory SourceFactory) (chi.Router, *analyzer.Analyzer) {
	a := analyzer.New(loader.New(loader.Options{Clock: &instantClock{}}), nil, nil)
	r := chi.NewRouter()
	NewVenueHandler(a, factory, nil).Register(r)
	return r, a
}

func scriptedFactory(src source.Source) SourceFactory {
	return func(ctx context.Context, user string) (source.Source, error) {
		return src, nil
	}
}

func postAnalyze(t *testing.T, r chi.Router, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze/venues", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeReturnsAggregatedVenues(t *testing.T) {
	src := &source.ScriptedSource{
		Recs: []source.ScriptedRecord{
			{Secondary: []string{"A Author", "arXiv preprint arXiv:2001.00001"}},
			{Secondary: []string{"B Author", "arXiv preprint arXiv:2001.00002"}},
			{Secondary: []string{"C Author", "International Conference on Learning Representations"}},
		},
	}
	r, _ := newTestRouter(scriptedFactory(src))

	rec := postAnalyze(t, r, `{"action":"analyzeVenues","user":"AbCdEf123456"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var res model.AnalysisResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.True(t, res.Success)
	assert.Equal(t, 3, res.TotalFound)
	require.Len(t, res.Venues, 2)
	assert.Equal(t, model.VenueCount{Venue: "arXiv", Count: 2}, res.Venues[0])
	assert.Equal(t, model.VenueCount{Venue: "ICLR", Count: 1}, res.Venues[1])
}

func TestAnalyzeRejectsBadRequests(t *testing.T) {
	r, _ := newTestRouter(scriptedFactory(&source.ScriptedSource{}))

	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"action":`},
		{"unsupported action", `{"action":"analyzeAuthors","user":"AbCdEf123456"}`},
		{"missing user", `{"action":"analyzeVenues"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postAnalyze(t, r, tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var res model.FailureResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
			assert.False(t, res.Success)
			assert.NotEmpty(t, res.Error)
		})
	}
}

func TestAnalyzeReportsContentFailuresAsPayload(t *testing.T) {
	// Content-derived failures ride the normal 200 channel with success=false.
	src := &source.ScriptedSource{NotListing: true, Recs: []source.ScriptedRecord{
		{Secondary: []string{"A Author", "arXiv preprint arXiv:1"}},
	}}
	r, _ := newTestRouter(scriptedFactory(src))

	rec := postAnalyze(t, r, `{"action":"analyzeVenues","user":"AbCdEf123456"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var res model.FailureResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.False(t, res.Success)
	assert.Equal(t, "not a publication listing page", res.Error)
}

// gatedSource parks inside Records until released so a run can be held open.
type gatedSource struct {
	source.ScriptedSource
	entered chan struct{}
	release chan struct{}
}

func (g *gatedSource) Records() []source.Record {
	close(g.entered)
	<-g.release
	return g.ScriptedSource.Records()
}

func TestAnalyzeBusyGetsConflict(t *testing.T) {
	gate := &gatedSource{
		ScriptedSource: source.ScriptedSource{
			Recs: []source.ScriptedRecord{{Secondary: []string{"A Author", "arXiv preprint arXiv:1"}}},
		},
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	r, _ := newTestRouter(scriptedFactory(gate))

	firstDone := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		firstDone <- postAnalyze(t, r, `{"action":"analyzeVenues","user":"AbCdEf123456"}`)
	}()
	<-gate.entered

	rec := postAnalyze(t, r, `{"action":"analyzeVenues","user":"AbCdEf123456"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// The busy payload carries the exact message and no success field at all.
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Analysis already in progress - please wait", body["error"])
	_, hasSuccess := body["success"]
	assert.False(t, hasSuccess)

	close(gate.release)
	first := <-firstDone
	assert.Equal(t, http.StatusOK, first.Code)
}
