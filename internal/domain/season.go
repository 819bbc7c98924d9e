package domain

import (
	"fmt"
	"time"
)

type Ordinal string

const (
	OrdinalFirst  Ordinal = "first"
	OrdinalSecond Ordinal = "second"
	OrdinalThird  Ordinal = "third"
	OrdinalFourth Ordinal = "fourth"
	OrdinalLast   Ordinal = "last"
)

// SeasonDescriptor is the structured form of a phrase like
// "First weekend of May". Year is optional; zero means "the target year".
type SeasonDescriptor struct {
	Ordinal Ordinal    `json:"ordinal"`
	Month   time.Month `json:"month"`
	Year    int        `json:"year,omitempty"`
}

func (d SeasonDescriptor) String() string {
	if d.Year != 0 {
		return fmt.Sprintf("%s weekend of %s %d", d.Ordinal, d.Month, d.Year)
	}
	return fmt.Sprintf("%s weekend of %s", d.Ordinal, d.Month)
}

// OperationalSeason bounds the dates for which duty slots may be generated.
// A nil season means no seasonal restriction.
type OperationalSeason struct {
	Start SeasonDescriptor `json:"start"`
	End   SeasonDescriptor `json:"end"`
}

func (s *OperationalSeason) String() string {
	if s == nil {
		return "unrestricted"
	}
	return s.Start.String() + " through " + s.End.String()
}
