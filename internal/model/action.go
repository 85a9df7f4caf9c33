package model

import (
	"fmt"
	"time"
)

// ActionStatus tracks the lifecycle of a scheduled action.
type ActionStatus string

const (
	ActionPending   ActionStatus = "pending"
	ActionRunning   ActionStatus = "running"
	ActionCompleted ActionStatus = "completed"
	ActionFailed    ActionStatus = "failed"
)

var terminalActionStatuses = map[ActionStatus]bool{
	ActionCompleted: true,
	ActionFailed:    true,
}

// Action lifecycle: pending → running → completed|failed. Terminal states
// are never left.
var validActionTransitions = map[ActionStatus]map[ActionStatus]bool{
	ActionPending: {
		ActionRunning: true,
	},
	ActionRunning: {
		ActionCompleted: true,
		ActionFailed:    true,
	},
}

// IsActionTerminal reports whether s is a terminal action status.
func IsActionTerminal(s ActionStatus) bool {
	return terminalActionStatuses[s]
}

// ValidateActionTransition checks a lifecycle transition against the
// one-way table above.
func ValidateActionTransition(from, to ActionStatus) error {
	if IsActionTerminal(from) {
		return fmt.Errorf("cannot transition from terminal status %q", from)
	}
	allowed, ok := validActionTransitions[from]
	if !ok {
		return fmt.Errorf("unknown action status %q", from)
	}
	if !allowed[to] {
		return fmt.Errorf("invalid action transition: %q → %q", from, to)
	}
	return nil
}

// Priority orders candidate actions within a round.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank gives the sort key for a priority: high < medium < low. Unknown
// values rank as medium.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityLow:
		return 2
	default:
		return 1
	}
}

// ParsePriority normalizes a planner-supplied priority string.
func ParsePriority(s string) Priority {
	switch s {
	case "high":
		return PriorityHigh
	case "low":
		return PriorityLow
	default:
		return PriorityMedium
	}
}

// ActionRecord is one entry in the scheduler's action ledger.
type ActionRecord struct {
	ID        string
	Task      Task
	Status    ActionStatus
	Priority  Priority
	Reason    string
	StartTime *time.Time
	EndTime   *time.Time
	Result    *ActionResult
	Error     string
}

// ActionResult carries the outcome of a completed action.
type ActionResult struct {
	MathText string
	Summary  string
	Verified bool
}

// ActionSummary holds the per-status counts exposed at checkpoints.
type ActionSummary struct {
	Running   int
	Pending   int
	Completed int
	Failed    int
}

func (s ActionSummary) String() string {
	return fmt.Sprintf("Running: %d | Pending: %d | Completed: %d | Failed: %d",
		s.Running, s.Pending, s.Completed, s.Failed)
}
