package reservation

import "fmt"

type SeatingType string

const (
	SeatingIndoor  SeatingType = "indoor"
	SeatingBalcony SeatingType = "balcony"
)

func (s SeatingType) String() string {
	return string(s)
}

func (s SeatingType) IsValid() bool {
	switch s {
	case SeatingIndoor, SeatingBalcony:
		return true
	default:
		return false
	}
}

func SeatingTypes() []SeatingType {
	return []SeatingType{SeatingIndoor, SeatingBalcony}
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusSeated    Status = "seated"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no-show"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// Occupying statuses count against slot capacity.
func (s Status) IsOccupying() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusSeated:
		return true
	default:
		return false
	}
}

// Terminal statuses have no outbound transitions.
func (s Status) IsTerminal() bool {
	return s.IsValid() && len(statusTransitions[s]) == 0
}

func OccupyingStatuses() []Status {
	return []Status{StatusPending, StatusConfirmed, StatusSeated}
}

// statusTransitions is the single source of truth for the reservation
// lifecycle. A status maps to the set of statuses it may move to.
var statusTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusSeated, StatusCancelled, StatusNoShow},
	StatusSeated:    {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
	StatusNoShow:    {},
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AllowedTransitions exposes the adjacency table for auditing and tests.
func AllowedTransitions(s Status) []Status {
	allowed := statusTransitions[s]
	out := make([]Status, len(allowed))
	copy(out, allowed)
	return out
}

type IllegalTransitionError struct {
	From Status
	To   Status
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal status transition from %q to %q", e.From, e.To)
}
