// Package actions executes scheduled tasks: each one calls the oracle,
// then routes its artifact through the single-writer merge path or the
// verification machine.
package actions

import (
	"context"
	"fmt"
	"log"

	"github.com/xyzmtx/math-explorer-agent/internal/model"
	"github.com/xyzmtx/math-explorer-agent/internal/oracle"
	"github.com/xyzmtx/math-explorer-agent/internal/prompts"
	"github.com/xyzmtx/math-explorer-agent/internal/verify"
)

// Per-kind temperatures. Creative proposals run hotter than retrieval
// and proof attempts.
const (
	retrievalTemperature = 0.5
	proposeTemperature   = 0.7
	exploreTemperature   = 0.6
	solveTemperature     = 0.5
)

// Executor runs one admitted action to completion. Executions run
// concurrently, so every ledger read goes through the merger's locked
// accessors rather than the ledger itself.
type Executor struct {
	oracle   oracle.Client
	verifier *verify.Verifier
	merger   *Merger
	logger   *log.Logger
}

// NewExecutor wires an executor to its collaborators.
func NewExecutor(client oracle.Client, verifier *verify.Verifier, merger *Merger, logger *log.Logger) *Executor {
	return &Executor{oracle: client, verifier: verifier, merger: merger, logger: logger}
}

// Execute dispatches on the task's kind. The returned error marks the
// action failed; a lookup miss is a failure, not a panic.
func (e *Executor) Execute(ctx context.Context, task model.Task) (*model.ActionResult, error) {
	switch t := task.(type) {
	case model.RetrievalTask:
		return e.textAction(ctx, prompts.RetrievalSystem(), prompts.RetrievalUser(e.merger.LedgerDisplay()),
			retrievalTemperature, "retrieval")
	case model.ProposeObjectsTask:
		return e.textAction(ctx, prompts.ProposeObjectsSystem(), prompts.ProposeObjectsUser(e.merger.LedgerDisplay()),
			proposeTemperature, "propose_objects")
	case model.ProposeDirectionsTask:
		return e.textAction(ctx, prompts.ProposeDirectionsSystem(), prompts.ProposeDirectionsUser(e.merger.LedgerDisplay()),
			proposeTemperature, "propose_directions")
	case model.ExploreTask:
		return e.explore(ctx, t)
	case model.SolveTask:
		return e.solve(ctx, t)
	case model.VerifyTask:
		return e.verifyProof(ctx, t)
	}
	return nil, fmt.Errorf("unknown task kind %q", task.Kind())
}

// textAction is the shared shape of retrieval and the propose tasks: one
// completion, merged as-is.
func (e *Executor) textAction(ctx context.Context, systemPrompt, userPrompt string, temperature float32, tag string) (*model.ActionResult, error) {
	text, err := e.oracle.Complete(ctx, systemPrompt, userPrompt, temperature)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", tag, err)
	}
	merged, err := e.merger.MergeText(ctx, text, tag)
	if err != nil {
		return nil, err
	}
	return &model.ActionResult{
		MathText: text,
		Summary:  fmt.Sprintf("%s produced %d ledger updates", tag, len(merged)),
	}, nil
}

func (e *Executor) explore(ctx context.Context, t model.ExploreTask) (*model.ActionResult, error) {
	dir, ok := e.merger.Direction(t.DirectionID)
	if !ok {
		return nil, fmt.Errorf("direction not found: %s", t.DirectionID)
	}
	text, err := e.oracle.Complete(ctx, prompts.ExploreSystem(),
		prompts.ExploreUser(e.merger.LedgerDisplay(), dir.ID, dir.Description), exploreTemperature)
	if err != nil {
		return nil, fmt.Errorf("explore %s: %w", t.DirectionID, err)
	}
	merged, err := e.merger.MergeText(ctx, text, "explore_direction")
	if err != nil {
		return nil, err
	}
	return &model.ActionResult{
		MathText: text,
		Summary:  fmt.Sprintf("explored %s, %d ledger updates", t.DirectionID, len(merged)),
	}, nil
}

// solve runs the full attempt chain: one proof attempt, outcome parse,
// and on a claimed completion the verification machine before anything
// reaches the ledger.
func (e *Executor) solve(ctx context.Context, t model.SolveTask) (*model.ActionResult, error) {
	conj, ok := e.merger.Conjecture(t.ConjectureID)
	if !ok {
		return nil, fmt.Errorf("conjecture not found: %s", t.ConjectureID)
	}
	statement, comment := conj.Statement, conj.Comment

	text, err := e.oracle.Complete(ctx, prompts.SolveSystem(),
		prompts.SolveUser(e.merger.LedgerDisplay(), t.ConjectureID, statement, comment), solveTemperature)
	if err != nil {
		return nil, fmt.Errorf("solve %s: %w", t.ConjectureID, err)
	}

	outcome, body := ParseSolveOutcome(text)
	e.logf("solve_outcome conjecture=%s outcome=%s", t.ConjectureID, outcome)

	if outcome == model.OutcomeUnsolved {
		merged, err := e.merger.MergeText(ctx, text, "solve_partial")
		if err != nil {
			return nil, err
		}
		return &model.ActionResult{
			MathText: text,
			Summary:  fmt.Sprintf("partial progress on %s, %d ledger updates", t.ConjectureID, len(merged)),
		}, nil
	}

	return e.runVerification(ctx, t.ConjectureID, statement, body, comment)
}

// verifyProof handles an explicitly queued verification of a candidate
// proof. An empty statement is filled from the ledger.
func (e *Executor) verifyProof(ctx context.Context, t model.VerifyTask) (*model.ActionResult, error) {
	statement, comment := t.Statement, ""
	if conj, ok := e.merger.Conjecture(t.ConjectureID); ok {
		if statement == "" {
			statement = conj.Statement
		}
		comment = conj.Comment
	} else if statement == "" {
		return nil, fmt.Errorf("conjecture not found: %s", t.ConjectureID)
	}
	return e.runVerification(ctx, t.ConjectureID, statement, t.Proof, comment)
}

func (e *Executor) runVerification(ctx context.Context, conjectureID, statement, proof, priorComment string) (*model.ActionResult, error) {
	res := e.verifier.Run(ctx, e.merger.LedgerDisplay(), conjectureID, statement, proof, priorComment)

	if res.Verified {
		mergeText := verify.VerifiedMergeText(conjectureID, statement, res.FinalProof)
		if _, err := e.merger.MergeText(ctx, mergeText, "verify_passed"); err != nil {
			return nil, err
		}
		return &model.ActionResult{
			MathText: res.FinalProof,
			Summary:  fmt.Sprintf("conjecture %s verified after %d repair rounds", conjectureID, res.Rounds),
			Verified: true,
		}, nil
	}

	mergeText := verify.FailedMergeText(conjectureID, res.UpdatedComment)
	if _, err := e.merger.MergeText(ctx, mergeText, "verify_failed"); err != nil {
		return nil, err
	}
	return &model.ActionResult{
		MathText: res.UpdatedComment,
		Summary:  fmt.Sprintf("conjecture %s unverified after %d attempts", conjectureID, len(res.Attempts)),
	}, nil
}

func (e *Executor) logf(format string, args ...any) {
	if e.logger != nil {
		e.logger.Printf(format, args...)
	}
}
