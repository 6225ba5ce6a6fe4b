// Package extract locates the venue citation inside a publication record.
package extract

import (
	"strings"

	"github.com/mukul54/where-do-i-publish/internal/source"
)

// RawVenue returns the trimmed text fragment most likely to be the record's
// venue citation, or "" when the record has none.
//
// The listing markup styles both the author line and the venue line with the
// same secondary-text class, so only position disambiguates them: when two
// fragments exist the venue is the second one (it follows the author list).
// A single fragment is taken as-is, and a dedicated venue field is the last
// resort for markup variants that have one.
func RawVenue(rec source.Record) string {
	sec := rec.SecondaryText()
	switch {
	case len(sec) >= 2:
		return strings.TrimSpace(sec[1])
	case len(sec) == 1:
		return strings.TrimSpace(sec[0])
	}
	return strings.TrimSpace(rec.VenueField())
}
