// Package handler exposes the analysis over HTTP. Every request gets a
// response: successes and content-derived failures alike come back through
// the same JSON channel.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mukul54/where-do-i-publish/internal/analyzer"
	"github.com/mukul54/where-do-i-publish/internal/model"
	"github.com/mukul54/where-do-i-publish/internal/source"
)

// SourceFactory builds a content source for the profile named in a request.
type SourceFactory func(ctx context.Context, user string) (source.Source, error)

// VenueHandler handles venue-analysis requests.
type VenueHandler struct {
	analyzer  *analyzer.Analyzer
	newSource SourceFactory
	logger    *zap.Logger
}

// NewVenueHandler creates the handler.
func NewVenueHandler(a *analyzer.Analyzer, factory SourceFactory, logger *zap.Logger) *VenueHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VenueHandler{analyzer: a, newSource: factory, logger: logger.Named("http")}
}

// Register mounts the handler's routes.
func (h *VenueHandler) Register(r chi.Router) {
	r.Post("/api/analyze/venues", h.Analyze)
	r.Get("/health", h.Health)
}

// Analyze runs one analysis.
// POST /api/analyze/venues
// Body: {"action": "analyzeVenues", "user": "<scholar id or profile URL>"}
func (h *VenueHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req model.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.FailureResponse{Error: "invalid request body"})
		return
	}
	if req.Action != model.ActionAnalyzeVenues {
		writeJSON(w, http.StatusBadRequest, model.FailureResponse{Error: "unsupported action: " + req.Action})
		return
	}
	if req.User == "" {
		writeJSON(w, http.StatusBadRequest, model.FailureResponse{Error: "user is required"})
		return
	}

	// Reject before doing any work when a run is active; requests are not
	// queued behind an in-flight analysis.
	if h.analyzer.IsRunning() {
		writeJSON(w, http.StatusConflict, model.BusyResponse{Error: analyzer.ErrAlreadyRunning.Error()})
		return
	}

	src, err := h.newSource(r.Context(), req.User)
	if err != nil {
		h.logger.Warn("failed to open content source", zap.String("user", req.User), zap.Error(err))
		writeJSON(w, http.StatusOK, model.FailureResponse{Error: err.Error()})
		return
	}

	h.logger.Info("starting venue analysis", zap.String("user", req.User))

	result, err := h.analyzer.Run(r.Context(), src)
	switch {
	case errors.Is(err, analyzer.ErrAlreadyRunning):
		writeJSON(w, http.StatusConflict, model.BusyResponse{Error: err.Error()})
	case err != nil:
		h.logger.Warn("analysis failed", zap.String("user", req.User), zap.Error(err))
		writeJSON(w, http.StatusOK, model.FailureResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusOK, result)
	}
}

// Health is the liveness check.
func (h *VenueHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
