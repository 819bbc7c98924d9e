// Package season resolves natural-language operational season descriptors
// into concrete weekend dates and generates the candidate duty slots for a
// scheduling window.
package season

import (
	"strconv"
	"strings"
	"time"

	"github.com/ridgeline-soaring/duty-roster/internal/domain"
)

var ordinals = map[string]domain.Ordinal{
	"first":  domain.OrdinalFirst,
	"second": domain.OrdinalSecond,
	"third":  domain.OrdinalThird,
	"fourth": domain.OrdinalFourth,
	"last":   domain.OrdinalLast,
}

var months = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "jun": time.June, "jul": time.July,
	"aug": time.August, "sep": time.September, "oct": time.October,
	"nov": time.November, "dec": time.December,
}

// filler words the grammar tolerates between ordinal and month
var filler = map[string]bool{"weekend": true, "of": true, "the": true, "in": true, "month": true}

// ParseDescriptor parses text like "First weekend of May" or
// "last weekend of October 2027" into a structured descriptor. A blank
// string means "no seasonal restriction" and parses to nil.
func ParseDescriptor(text string) (*domain.SeasonDescriptor, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, nil
	}

	var words []string
	for _, w := range strings.Fields(strings.ToLower(trimmed)) {
		if !filler[w] {
			words = append(words, w)
		}
	}

	if len(words) < 2 || len(words) > 3 {
		return nil, &domain.ConfigurationError{
			Subject: text,
			Reason:  "expected '<ordinal> weekend of <month> [year]'",
		}
	}

	ordinal, ok := ordinals[words[0]]
	if !ok {
		return nil, &domain.ConfigurationError{
			Subject: text,
			Reason:  "unknown ordinal " + strconv.Quote(words[0]),
		}
	}

	month, ok := months[words[1]]
	if !ok {
		return nil, &domain.ConfigurationError{
			Subject: text,
			Reason:  "unknown month " + strconv.Quote(words[1]),
		}
	}

	desc := &domain.SeasonDescriptor{Ordinal: ordinal, Month: month}
	if len(words) == 3 {
		year, err := strconv.Atoi(words[2])
		if err != nil || year < 1 {
			return nil, &domain.ConfigurationError{
				Subject: text,
				Reason:  "invalid year " + strconv.Quote(words[2]),
			}
		}
		desc.Year = year
	}

	return desc, nil
}

// ParseSeason parses the start and end descriptors of an operational season.
// Both blank means no seasonal restriction; exactly one blank is rejected so
// that a half-configured season never passes silently.
func ParseSeason(startText, endText string) (*domain.OperationalSeason, error) {
	start, err := ParseDescriptor(startText)
	if err != nil {
		return nil, err
	}
	end, err := ParseDescriptor(endText)
	if err != nil {
		return nil, err
	}

	switch {
	case start == nil && end == nil:
		return nil, nil
	case start == nil || end == nil:
		return nil, &domain.ConfigurationError{
			Subject: "operational season",
			Reason:  "season start and end must both be set or both be blank",
		}
	}

	return &domain.OperationalSeason{Start: *start, End: *end}, nil
}
