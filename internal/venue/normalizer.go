// Package venue turns raw, inconsistently formatted venue citations into
// canonical venue labels. Classification is a pure function of its input:
// the same citation always yields the same label, and feeding a returned
// label back in yields that label unchanged.
package venue

import (
	"regexp"
	"strings"
)

var (
	// Embedded year tokens: a 4-digit run as its own comma-delimited
	// segment, or anchoring the start or end of the string.
	leadYearRe = regexp.MustCompile(`^\s*(?:19|20)\d{2}\s+`)
	tailYearRe = regexp.MustCompile(`[\s,]+(?:19|20)\d{2}\s*$`)
	midYearRe  = regexp.MustCompile(`,\s*(?:19|20)\d{2}\s*,`)

	// Volume/issue and page-range fragments: ", 123(4)" and ", pp. 12-34".
	volumeRe = regexp.MustCompile(`,\s*\d+\s*\(\d+\)[^,]*`)
	pagesRe  = regexp.MustCompile(`,\s*pp?\.\s*\d+\s*[-–—]\s*\d+`)

	proceedingsPrefixRe = regexp.MustCompile(`(?i)^(?:proceedings of the |proceedings of |proceedings )`)
	whitespaceRe        = regexp.MustCompile(`\s+`)

	// The word "workshop" (any inflection) or a standalone "ws" token.
	workshopRe = regexp.MustCompile(`(?i)\bworkshops?\b|\bws\b`)

	fallbackLeadRe  = regexp.MustCompile(`(?i)^(?:proceedings of the |proceedings of |proceedings |proc\.?\s+|the )`)
	fallbackTrailRe = regexp.MustCompile(`(?i)\s+(?:proceedings|proc\.?)$`)
	trailNumberRe   = regexp.MustCompile(`(?:^|\s)\d+$`)
)

// stopWords are fallback labels too generic to count as a venue.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "in": {}, "on": {},
	"of": {}, "and": {}, "for": {}, "with": {},
}

// Normalize classifies a raw venue citation into a canonical venue label.
// ok is false when no usable venue can be determined; such records are
// skipped, not aggregated.
func Normalize(raw string) (label string, ok bool) {
	cleaned := clean(raw)
	if cleaned == "" {
		return "", false
	}
	isWorkshop := workshopRe.MatchString(cleaned)

	// Primary pass: first matching rule wins.
	for _, r := range rules {
		if !r.re.MatchString(cleaned) {
			continue
		}
		if r.exclude != nil && r.exclude.MatchString(cleaned) {
			continue
		}
		if isWorkshop && r.workshopVariant {
			return r.base + " Workshop", true
		}
		return r.base, true
	}

	lower := strings.ToLower(cleaned)

	// Workshop citations get a narrower acronym pass before falling back to
	// the generic label.
	if isWorkshop {
		for _, wa := range workshopAcronyms {
			if strings.Contains(lower, wa.needle) {
				return wa.base + " Workshop", true
			}
		}
		return "Workshop", true
	}

	// Relaxed co-occurrence confirmation for the highest-volume CV venues.
	for _, rr := range relaxedRules {
		if matchesRelaxed(lower, rr) {
			return rr.base, true
		}
	}

	return fallbackLabel(cleaned)
}

// clean runs the reproducible string transforms every citation goes through
// before classification.
func clean(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	// Trailing truncation mark from an elided citation.
	s = strings.TrimSuffix(s, "…")
	s = strings.TrimSuffix(s, "...")
	s = strings.TrimSpace(s)

	s = volumeRe.ReplaceAllString(s, "")
	s = pagesRe.ReplaceAllString(s, "")
	s = midYearRe.ReplaceAllString(s, ",")
	s = leadYearRe.ReplaceAllString(s, "")
	s = tailYearRe.ReplaceAllString(s, "")

	s = proceedingsPrefixRe.ReplaceAllString(s, "")

	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func matchesRelaxed(lower string, rr relaxedRule) bool {
	for _, kw := range rr.topical {
		if !strings.Contains(lower, kw) {
			return false
		}
	}
	for _, kw := range rr.structural {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// fallbackLabel derives an open-ended label from a citation no rule
// recognized: the text up to the first delimiter, shorn of boilerplate.
func fallbackLabel(cleaned string) (string, bool) {
	s := cleaned
	if i := strings.IndexAny(s, ",.("); i >= 0 {
		s = s[:i]
	}
	for {
		trimmed := fallbackLeadRe.ReplaceAllString(s, "")
		if trimmed == s {
			break
		}
		s = trimmed
	}
	s = fallbackTrailRe.ReplaceAllString(s, "")
	s = trailNumberRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)

	if len(s) < 3 {
		return "", false
	}
	if _, stop := stopWords[strings.ToLower(s)]; stop {
		return "", false
	}
	return s, true
}
