// Package orchestrator drives the round loop: plan, admit, dispatch,
// barrier, checkpoint, until a stop condition ends the run.
package orchestrator

import (
	"context"
	"log"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/xyzmtx/math-explorer-agent/internal/actions"
	"github.com/xyzmtx/math-explorer-agent/internal/events"
	"github.com/xyzmtx/math-explorer-agent/internal/ledger"
	"github.com/xyzmtx/math-explorer-agent/internal/model"
	"github.com/xyzmtx/math-explorer-agent/internal/scheduler"
)

const defaultPollInterval = 500 * time.Millisecond

// Orchestrator owns one exploration run. All collaborators are injected
// so tests can substitute stubs.
type Orchestrator struct {
	cfg      model.ExplorerConfig
	led      *ledger.Ledger
	sched    *scheduler.Scheduler
	planner  *scheduler.Planner
	executor *actions.Executor
	merger   *actions.Merger
	queue    *events.Queue
	logger   *log.Logger

	// decisions carries checkpoint answers: "stop", "", "continue", or a
	// positive integer raising the round ceiling.
	decisions <-chan string

	// seedFirstRound plans round 1 from ledger heuristics instead of the
	// oracle, for freshly initialized workspaces.
	seedFirstRound bool

	stopRequested atomic.Bool
	pollInterval  time.Duration
}

// New wires an orchestrator.
func New(cfg model.ExplorerConfig, led *ledger.Ledger, sched *scheduler.Scheduler, planner *scheduler.Planner,
	executor *actions.Executor, merger *actions.Merger, queue *events.Queue,
	decisions <-chan string, seedFirstRound bool, logger *log.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:            cfg,
		led:            led,
		sched:          sched,
		planner:        planner,
		executor:       executor,
		merger:         merger,
		queue:          queue,
		logger:         logger,
		decisions:      decisions,
		seedFirstRound: seedFirstRound,
		pollInterval:   defaultPollInterval,
	}
}

// RequestStop asks the run to end. The request is observed at round
// boundaries and checkpoint waits; in-flight actions finish normally.
func (o *Orchestrator) RequestStop() {
	o.stopRequested.Store(true)
}

// Run executes rounds until the ceiling, an empty round, or a stop
// request. The ledger is persisted exactly once on every exit path.
func (o *Orchestrator) Run(ctx context.Context) error {
	ceiling := o.cfg.MaxRounds
	round := 0

	for round < ceiling {
		if o.stopRequested.Load() || ctx.Err() != nil {
			o.publish(events.EventStatus, map[string]any{"message": "stop requested"})
			break
		}
		round++
		o.publish(events.EventRoundStarted, map[string]any{"round": round, "ceiling": ceiling})
		o.logf("round_started round=%d ceiling=%d", round, ceiling)

		admitted := o.planRound(ctx, round)
		if len(admitted) == 0 {
			o.publish(events.EventStatus, map[string]any{"message": "no actions to run, exploration complete"})
			o.logf("round_empty round=%d", round)
			break
		}

		o.dispatch(ctx, admitted)

		summary := o.sched.Summary()
		o.publish(events.EventRoundCompleted, map[string]any{
			"round":   round,
			"actions": len(admitted),
			"status":  summary.String(),
		})
		o.logf("round_completed round=%d actions=%d %s", round, len(admitted), summary)

		// The checkpoint also runs when it coincides with the final round,
		// so the operator can still extend the run there.
		if o.cfg.RoundsPerCheckpoint > 0 && round%o.cfg.RoundsPerCheckpoint == 0 {
			ceiling = o.checkpoint(ctx, round, ceiling)
			if ceiling <= round {
				break
			}
		}
	}

	if err := o.merger.Save("final"); err != nil {
		o.logf("final_save_failed error=%v", err)
		return err
	}
	o.publish(events.EventStatus, map[string]any{"message": "run finished", "version": o.led.Version()})
	return nil
}

// planRound collects candidates, ranks them, and admits what passes the
// conflict and concurrency checks.
func (o *Orchestrator) planRound(ctx context.Context, round int) []*model.ActionRecord {
	var candidates []scheduler.Candidate
	if round == 1 && o.seedFirstRound {
		candidates = scheduler.InitialCandidates(o.led)
	} else {
		candidates = o.planner.Plan(ctx, o.led.DisplayString(), o.sched.HistoryDisplay())
	}

	var admitted []*model.ActionRecord
	for _, c := range scheduler.Rank(candidates) {
		rec, err := o.sched.Admit(c)
		if err != nil {
			o.publish(events.EventAdmissionRejected, map[string]any{
				"task":   c.Task.Describe(),
				"reason": err.Error(),
			})
			continue
		}
		admitted = append(admitted, rec)
	}
	return admitted
}

// dispatch runs all admitted actions concurrently and blocks until every
// one finishes. A failed action never aborts its siblings.
func (o *Orchestrator) dispatch(ctx context.Context, admitted []*model.ActionRecord) {
	g := new(errgroup.Group)
	for _, rec := range admitted {
		rec := rec
		o.sched.Start(rec.ID)
		o.publish(events.EventActionStarted, map[string]any{"id": rec.ID, "task": rec.Task.Describe()})

		g.Go(func() error {
			result, err := o.executor.Execute(ctx, rec.Task)
			if err != nil {
				o.sched.Fail(rec.ID, err.Error())
				o.publish(events.EventActionFailed, map[string]any{"id": rec.ID, "error": err.Error()})
				o.logf("action_failed id=%s error=%v", rec.ID, err)
				return nil
			}
			o.sched.Complete(rec.ID, result)
			o.publish(events.EventActionCompleted, map[string]any{"id": rec.ID, "summary": result.Summary})
			return nil
		})
	}
	g.Wait()
}

// checkpoint suspends the loop, exposes status, and polls for a human
// decision. The returned value is the new round ceiling; a value at or
// below the current round means stop.
func (o *Orchestrator) checkpoint(ctx context.Context, round, ceiling int) int {
	o.publish(events.EventCheckpointReached, map[string]any{
		"round":          round,
		"ceiling":        ceiling,
		"ledger_summary": o.led.Summary(),
		"action_summary": o.sched.Summary().String(),
	})
	o.logf("checkpoint_reached round=%d ceiling=%d", round, ceiling)

	decision := o.awaitDecision(ctx)
	switch {
	case decision == "stop" || decision == "0":
		o.logf("checkpoint_decision decision=stop")
		return round
	case decision == "" || decision == "continue":
		o.logf("checkpoint_decision decision=continue")
		return ceiling
	default:
		if n, err := strconv.Atoi(decision); err == nil && n > 0 {
			o.logf("checkpoint_decision decision=extend rounds=%d", n)
			return round + n
		}
		o.logf("checkpoint_decision decision=%q treated_as=continue", decision)
		return ceiling
	}
}

// awaitDecision polls for a decision so an asynchronous stop request is
// still honored while waiting.
func (o *Orchestrator) awaitDecision(ctx context.Context) string {
	ticker := time.NewTicker(o.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case d, ok := <-o.decisions:
			if !ok {
				return "stop"
			}
			return strings.ToLower(strings.TrimSpace(d))
		case <-ctx.Done():
			return "stop"
		case <-ticker.C:
			if o.stopRequested.Load() {
				return "stop"
			}
		}
	}
}

func (o *Orchestrator) publish(t events.EventType, data map[string]any) {
	if o.queue != nil {
		o.queue.Publish(t, data)
	}
}

func (o *Orchestrator) logf(format string, args ...any) {
	if o.logger != nil {
		o.logger.Printf(format, args...)
	}
}
