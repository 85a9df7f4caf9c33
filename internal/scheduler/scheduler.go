// Package scheduler maintains the action ledger: the authoritative queue
// and history of tasks, the admission rules that keep concurrent work
// safe, and the planner that proposes each round's batch.
package scheduler

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/xyzmtx/math-explorer-agent/internal/model"
)

// Admission failure reasons.
var (
	ErrConcurrencyLimit = errors.New("concurrency limit reached")
	ErrConflict         = errors.New("conflicting action in flight")
)

// Candidate is one planner suggestion before admission.
type Candidate struct {
	Task     model.Task
	Priority model.Priority
	Reason   string
}

// Scheduler owns the action records. All methods are safe for
// concurrent use.
type Scheduler struct {
	mu          sync.Mutex
	maxParallel int
	counter     int
	records     []*model.ActionRecord
	byID        map[string]*model.ActionRecord
	logger      *log.Logger

	// now is replaceable in tests.
	now func() time.Time
}

// New builds an empty scheduler with the given in-flight bound.
func New(maxParallel int, logger *log.Logger) *Scheduler {
	if maxParallel <= 0 {
		maxParallel = 1
	}
	return &Scheduler{
		maxParallel: maxParallel,
		byID:        make(map[string]*model.ActionRecord),
		logger:      logger,
		now:         time.Now,
	}
}

// Rank orders candidates high before medium before low, preserving
// planner order among equal priorities.
func Rank(candidates []Candidate) []Candidate {
	ranked := make([]Candidate, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Priority.Rank() < ranked[j].Priority.Rank()
	})
	return ranked
}

// Admit checks a candidate against the in-flight bound and the conflict
// rules, and on success records it as a pending action. Pending records
// count as in flight: an admitted action will run this round.
func (s *Scheduler) Admit(c Candidate) (*model.ActionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inflight := 0
	for _, r := range s.records {
		if r.Status == model.ActionPending || r.Status == model.ActionRunning {
			inflight++
			if c.Task.ConflictsWith(r.Task) {
				return nil, fmt.Errorf("%w: %s vs %s", ErrConflict, c.Task.Describe(), r.ID)
			}
		}
	}
	if inflight >= s.maxParallel {
		return nil, ErrConcurrencyLimit
	}

	reason := c.Reason
	if reason == "" {
		reason = c.Task.Describe()
	}
	s.counter++
	rec := &model.ActionRecord{
		ID:       fmt.Sprintf("action_%04d", s.counter),
		Task:     c.Task,
		Status:   model.ActionPending,
		Priority: c.Priority,
		Reason:   reason,
	}
	s.records = append(s.records, rec)
	s.byID[rec.ID] = rec
	s.logf("action_admitted id=%s kind=%s priority=%s", rec.ID, rec.Task.Kind(), rec.Priority)
	return rec, nil
}

// Start moves an action to running. Unknown ids are a no-op.
func (s *Scheduler) Start(id string) error {
	return s.transition(id, model.ActionRunning, nil, "")
}

// Complete moves an action to completed with its result. Unknown ids
// are a no-op.
func (s *Scheduler) Complete(id string, result *model.ActionResult) error {
	return s.transition(id, model.ActionCompleted, result, "")
}

// Fail moves an action to failed with its error text. Unknown ids are a
// no-op.
func (s *Scheduler) Fail(id string, errText string) error {
	return s.transition(id, model.ActionFailed, nil, errText)
}

func (s *Scheduler) transition(id string, to model.ActionStatus, result *model.ActionResult, errText string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[id]
	if !ok {
		return nil
	}
	if err := model.ValidateActionTransition(rec.Status, to); err != nil {
		return fmt.Errorf("action %s: %w", id, err)
	}

	rec.Status = to
	now := s.now()
	switch to {
	case model.ActionRunning:
		rec.StartTime = &now
	case model.ActionCompleted:
		rec.EndTime = &now
		rec.Result = result
	case model.ActionFailed:
		rec.EndTime = &now
		rec.Error = errText
	}
	s.logf("action_transition id=%s status=%s", id, to)
	return nil
}

// Summary returns per-status counts.
func (s *Scheduler) Summary() model.ActionSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sum model.ActionSummary
	for _, r := range s.records {
		switch r.Status {
		case model.ActionRunning:
			sum.Running++
		case model.ActionPending:
			sum.Pending++
		case model.ActionCompleted:
			sum.Completed++
		case model.ActionFailed:
			sum.Failed++
		}
	}
	return sum
}

// RunningCount reports the number of running actions.
func (s *Scheduler) RunningCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, r := range s.records {
		if r.Status == model.ActionRunning {
			n++
		}
	}
	return n
}

// Records returns a snapshot of all action records in creation order.
func (s *Scheduler) Records() []*model.ActionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*model.ActionRecord, len(s.records))
	copy(out, s.records)
	return out
}

// HistoryDisplay renders running, pending, and recently completed
// actions for the planner prompt and checkpoint output.
func (s *Scheduler) HistoryDisplay() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var lines []string

	var running, pending, done []*model.ActionRecord
	for _, r := range s.records {
		switch r.Status {
		case model.ActionRunning:
			running = append(running, r)
		case model.ActionPending:
			pending = append(pending, r)
		case model.ActionCompleted, model.ActionFailed:
			done = append(done, r)
		}
	}

	if len(running) > 0 {
		lines = append(lines, "## Running Actions")
		for _, r := range running {
			lines = append(lines, fmt.Sprintf("- [%s] %s - %s", r.ID, r.Task.Describe(), r.Reason))
		}
		lines = append(lines, "")
	}
	if len(pending) > 0 {
		lines = append(lines, "## Pending Actions")
		for _, r := range pending {
			lines = append(lines, fmt.Sprintf("- [%s] %s - Priority: %s", r.ID, r.Task.Describe(), r.Priority))
		}
		lines = append(lines, "")
	}
	if len(done) > 0 {
		lines = append(lines, "## Recently Finished Actions")
		start := len(done) - 5
		if start < 0 {
			start = 0
		}
		for _, r := range done[start:] {
			mark := "OK"
			if r.Status == model.ActionFailed {
				mark = "FAILED"
			}
			lines = append(lines, fmt.Sprintf("- [%s] %s [%s]", mark, r.ID, r.Task.Describe()))
		}
		lines = append(lines, "")
	}

	if len(lines) == 0 {
		return "No action records"
	}
	return strings.Join(lines, "\n")
}

func (s *Scheduler) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
