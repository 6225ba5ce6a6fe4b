// Package model holds the wire-level types of the analysis API.
package model

// VenueCount is one aggregated venue with its occurrence count.
type VenueCount struct {
	Venue string `json:"venue"`
	Count int    `json:"count"`
}

// AnalysisResult is the final output of one analysis run. Venues are sorted
// by count descending; venues with equal counts keep the order in which they
// were first encountered (an implementation convenience, not a contract).
// Invariants: the counts sum to TotalProcessed, and
// TotalProcessed + TotalSkipped == TotalFound.
type AnalysisResult struct {
	Success        bool         `json:"success"`
	Venues         []VenueCount `json:"venues"`
	TotalFound     int          `json:"totalFound"`
	TotalProcessed int          `json:"totalProcessed"`
	TotalSkipped   int          `json:"totalSkipped"`
}

// AnalyzeRequest is the message that triggers an analysis.
type AnalyzeRequest struct {
	Action string `json:"action"`
	// User is the scholar profile to analyze: a bare ID or a citations URL.
	User string `json:"user"`
}

// ActionAnalyzeVenues is the only action the analysis channel accepts.
const ActionAnalyzeVenues = "analyzeVenues"

// FailureResponse is returned for every failed run.
type FailureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// BusyResponse is returned when a request arrives during an in-flight run.
// Success is deliberately omitted from the payload.
type BusyResponse struct {
	Error string `json:"error"`
}
