package lifecycle

import "github.com/BruksfildServices01/scoop-dispatch/internal/httperr"

// ===============================
// Service Status
// ===============================

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusScheduled  Status = "SCHEDULED"
	StatusClaimed    Status = "CLAIMED"
	StatusArrived    Status = "ARRIVED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
	StatusExpired    Status = "EXPIRED"
)

var transitions = map[Status][]Status{
	StatusPending:    {StatusScheduled, StatusCancelled},
	StatusScheduled:  {StatusClaimed, StatusCancelled, StatusExpired},
	StatusClaimed:    {StatusArrived, StatusCancelled, StatusExpired},
	StatusArrived:    {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  nil,
	StatusCancelled:  nil,
	StatusExpired:    nil,
}

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func CanTransition(current, next Status) bool {
	for _, allowed := range transitions[current] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Validate returns invalid_transition when next is not reachable from
// current in one step.
func Validate(current, next Status) error {
	if !CanTransition(current, next) {
		return httperr.InvalidTransition(string(current), string(next))
	}
	return nil
}

func IsTerminal(s Status) bool {
	return s.Valid() && len(transitions[s]) == 0
}

func InitialStatus() Status {
	return StatusPending
}

// PoolStatuses are the states a Service can be claimed from. PENDING is
// promoted through SCHEDULED in the same write.
func PoolStatuses() []Status {
	return []Status{StatusPending, StatusScheduled}
}

// HeldStatuses are the states in which a Service has an owner.
func HeldStatuses() []Status {
	return []Status{StatusClaimed, StatusArrived, StatusInProgress}
}

func NonTerminal() []Status {
	out := make([]Status, 0, len(transitions))
	for _, s := range []Status{
		StatusPending, StatusScheduled, StatusClaimed, StatusArrived, StatusInProgress,
	} {
		if !IsTerminal(s) {
			out = append(out, s)
		}
	}
	return out
}

func Contains(set []Status, s Status) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func Strings(set []Status) []string {
	out := make([]string, len(set))
	for i, s := range set {
		out[i] = string(s)
	}
	return out
}

// ===============================
// Claim attempt outcomes
// ===============================

const (
	OutcomeActive    = "ACTIVE"
	OutcomeArrived   = "ARRIVED"
	OutcomeCompleted = "COMPLETED"
	OutcomeExpired   = "EXPIRED"
	OutcomeCancelled = "CANCELLED"
)
