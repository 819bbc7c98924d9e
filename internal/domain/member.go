package domain

import (
	"sort"

	"github.com/goccy/go-json"
)

type RoleTag string

const (
	RoleDutyOfficer          RoleTag = "duty_officer"
	RoleAssistantDutyOfficer RoleTag = "assistant_duty_officer"
	RoleInstructor           RoleTag = "instructor"
	RoleTowPilot             RoleTag = "tow_pilot"
	RoleAirportManager       RoleTag = "airport_manager"
)

// DefaultRoles is the set of duty roles generated for each operating date
// when the caller does not configure its own list. The order is fixed because
// slot ordering (and therefore consecutive-run checks) depends on it.
var DefaultRoles = []RoleTag{
	RoleDutyOfficer,
	RoleAssistantDutyOfficer,
	RoleInstructor,
	RoleTowPilot,
	RoleAirportManager,
}

// CapabilitySet holds the duty roles a member is qualified for.
type CapabilitySet map[RoleTag]struct{}

func NewCapabilitySet(roles ...RoleTag) CapabilitySet {
	s := make(CapabilitySet, len(roles))
	for _, role := range roles {
		s.Add(role)
	}
	return s
}

func (s CapabilitySet) Add(role RoleTag) {
	s[role] = struct{}{}
}

func (s CapabilitySet) Has(role RoleTag) bool {
	_, ok := s[role]
	return ok
}

// MarshalJSON renders the set as a sorted list of role tags.
func (s CapabilitySet) MarshalJSON() ([]byte, error) {
	roles := make([]string, 0, len(s))
	for role := range s {
		roles = append(roles, string(role))
	}
	sort.Strings(roles)
	return json.Marshal(roles)
}

func (s *CapabilitySet) UnmarshalJSON(data []byte) error {
	var roles []RoleTag
	if err := json.Unmarshal(data, &roles); err != nil {
		return err
	}
	*s = NewCapabilitySet(roles...)
	return nil
}

// Member is immutable for the duration of one scheduling run.
// HistoricalDutyCount is the fairness baseline carried over from past rosters.
type Member struct {
	ID                  int64         `json:"id"`
	FullName            string        `json:"fullName"`
	Capabilities        CapabilitySet `json:"capabilities"`
	HistoricalDutyCount int           `json:"historicalDutyCount"`
}
