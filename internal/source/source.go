// Package source defines the boundary between the analysis core and the
// page being analyzed. The core consumes only these capabilities; it never
// depends on any specific page-markup technology.
package source

import "context"

// Record is an opaque handle to one visible publication entry. Records are
// read-only during extraction.
type Record interface {
	// SecondaryText returns the record's secondary metadata fragments in
	// document order. The listing markup reuses one "secondary text" style
	// for both the author list and the venue/year line, so position, not
	// style, tells them apart.
	SecondaryText() []string

	// VenueField returns the dedicated venue field, if the markup has one.
	// Empty when absent.
	VenueField() string
}

// Affordance is an opaque handle to a "reveal more" control discovered on
// the page.
type Affordance interface {
	// Describe returns a short human-readable description for logging.
	Describe() string
}

// Source provides the visible records and the reveal affordance of one
// listing page.
type Source interface {
	// IsListingView reports whether the source is a recognized publication
	// listing view. Analysis must not start on anything else.
	IsListingView() bool

	// CountVisible returns the number of currently visible records.
	CountVisible() int

	// Records returns the currently visible records in listing order.
	Records() []Record

	// FindRevealAffordance locates the control that reveals additional
	// records. Returns nil when no candidate exists, which is the normal
	// fully-loaded state.
	FindRevealAffordance() Affordance

	// Actionable reports whether the affordance can currently be invoked:
	// laid out, not disabled, and not a per-item navigation link.
	Actionable(a Affordance) bool

	// Invoke triggers the affordance without replacing the current listing.
	// Growth is observed afterwards through CountVisible polling; Invoke
	// itself must not block on the new content arriving.
	Invoke(ctx context.Context, a Affordance) error
}
