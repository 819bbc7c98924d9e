package season

import (
	"fmt"
	"time"

	"github.com/ridgeline-soaring/duty-roster/internal/domain"
)

// Weekend is one concrete Saturday/Sunday pair.
type Weekend struct {
	Saturday time.Time
	Sunday   time.Time
}

// monthWeekends lists the weekends belonging to a month, in order. A weekend
// whose Sunday is the 1st counts as that month's first weekend even though
// its Saturday falls in the prior month.
func monthWeekends(year int, month time.Month) []Weekend {
	first := domain.Date(year, month, 1)

	var weekends []Weekend
	if first.Weekday() == time.Sunday {
		weekends = append(weekends, Weekend{Saturday: first.AddDate(0, 0, -1), Sunday: first})
	}
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday {
			weekends = append(weekends, Weekend{Saturday: d, Sunday: d.AddDate(0, 0, 1)})
		}
	}
	return weekends
}

// ResolveWeekend resolves a descriptor to its concrete weekend in the target
// year. A year carried by the descriptor itself takes precedence.
func ResolveWeekend(desc domain.SeasonDescriptor, year int) (Weekend, error) {
	if desc.Year != 0 {
		year = desc.Year
	}

	weekends := monthWeekends(year, desc.Month)

	var index int
	switch desc.Ordinal {
	case domain.OrdinalFirst:
		index = 0
	case domain.OrdinalSecond:
		index = 1
	case domain.OrdinalThird:
		index = 2
	case domain.OrdinalFourth:
		index = 3
	case domain.OrdinalLast:
		index = len(weekends) - 1
	default:
		return Weekend{}, &domain.ConfigurationError{
			Subject: desc.String(),
			Reason:  fmt.Sprintf("unknown ordinal %q", desc.Ordinal),
		}
	}

	if index < 0 || index >= len(weekends) {
		return Weekend{}, &domain.ConfigurationError{
			Subject: desc.String(),
			Reason:  fmt.Sprintf("%s %d has only %d weekends", desc.Month, year, len(weekends)),
		}
	}

	return weekends[index], nil
}

// ResolveSeason resolves a season into the concrete inclusive date interval
// [start weekend's Saturday, end weekend's Sunday] for the target year.
// A nil season resolves to nil, meaning the entire period is eligible.
func ResolveSeason(s *domain.OperationalSeason, year int) (*domain.DateInterval, error) {
	if s == nil {
		return nil, nil
	}

	start, err := ResolveWeekend(s.Start, year)
	if err != nil {
		return nil, err
	}
	end, err := ResolveWeekend(s.End, year)
	if err != nil {
		return nil, err
	}

	if end.Sunday.Before(start.Saturday) {
		return nil, &domain.ConfigurationError{
			Subject: s.String(),
			Reason:  "season end precedes season start",
		}
	}

	return &domain.DateInterval{Start: start.Saturday, End: end.Sunday}, nil
}
