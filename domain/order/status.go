package order

import "strings"

// Status Order status enum
type Status string

const (
	StatusCreated           Status = "created"            // Placed, awaiting payment
	StatusPaid              Status = "paid"               // Payment captured
	StatusFulfilled         Status = "fulfilled"          // Shipped out
	StatusPartiallyReturned Status = "partially_returned" // Some items came back
	StatusRefunded          Status = "refunded"           // Terminal
	StatusCancelled         Status = "cancelled"          // Terminal
)

// transitions is the complete legal transition table. Pairs not listed are rejected.
var transitions = map[Status][]Status{
	StatusCreated:           {StatusPaid, StatusCancelled},
	StatusPaid:              {StatusFulfilled, StatusRefunded, StatusCancelled},
	StatusFulfilled:         {StatusPartiallyReturned, StatusRefunded},
	StatusPartiallyReturned: {StatusRefunded},
	StatusRefunded:          {},
	StatusCancelled:         {},
}

// AllStatuses returns every status in lifecycle order.
func AllStatuses() []Status {
	return []Status{
		StatusCreated,
		StatusPaid,
		StatusFulfilled,
		StatusPartiallyReturned,
		StatusRefunded,
		StatusCancelled,
	}
}

// ParseStatus converts raw input into a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", NewValidationError("status", "unknown order status: "+raw)
	}
	return s, nil
}

func (s Status) String() string { return string(s) }

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransitionTo reports whether target is reachable from s in one step.
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s.IsValid() && len(transitions[s]) == 0
}

// IsEditable reports whether items and address may change.
func (s Status) IsEditable() bool {
	return s == StatusCreated
}
