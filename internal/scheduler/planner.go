package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/xyzmtx/math-explorer-agent/internal/ledger"
	"github.com/xyzmtx/math-explorer-agent/internal/model"
	"github.com/xyzmtx/math-explorer-agent/internal/oracle"
	"github.com/xyzmtx/math-explorer-agent/internal/prompts"
)

// Planner asks the oracle for the next round's candidate actions.
type Planner struct {
	oracle      oracle.Client
	temperature float32
	logger      *log.Logger
}

// NewPlanner wires a planner to its oracle.
func NewPlanner(client oracle.Client, temperature float32, logger *log.Logger) *Planner {
	return &Planner{oracle: client, temperature: temperature, logger: logger}
}

type rawCandidate struct {
	ActionType string            `json:"action_type"`
	Params     map[string]string `json:"params"`
	Priority   string            `json:"priority"`
	Reason     string            `json:"reason"`
}

type planResponse struct {
	NewActions []rawCandidate `json:"new_actions"`
}

// Plan returns the round's candidates in planner order. Planner output
// has no guaranteed validity: malformed candidates are dropped, and a
// failed or unparseable call yields an empty batch, never an error.
func (p *Planner) Plan(ctx context.Context, ledgerDisplay, history string) []Candidate {
	resp := oracle.Structured(ctx, p.oracle,
		prompts.CoordinatorSystem(), prompts.CoordinatorUser(ledgerDisplay, history),
		planResponse{}, p.temperature)

	var out []Candidate
	for _, rc := range resp.NewActions {
		task, ok := decodeTask(rc)
		if !ok {
			p.logf("planner_candidate_dropped action_type=%q", rc.ActionType)
			continue
		}
		out = append(out, Candidate{
			Task:     task,
			Priority: model.ParsePriority(rc.Priority),
			Reason:   rc.Reason,
		})
	}
	p.logf("planner_round candidates=%d", len(out))
	return out
}

func decodeTask(rc rawCandidate) (model.Task, bool) {
	switch model.ActionKind(rc.ActionType) {
	case model.KindRetrieval:
		return model.RetrievalTask{}, true
	case model.KindProposeObjects:
		return model.ProposeObjectsTask{}, true
	case model.KindProposeDirections:
		return model.ProposeDirectionsTask{}, true
	case model.KindExploreDirection:
		id := rc.Params["direction_id"]
		if id == "" {
			return nil, false
		}
		return model.ExploreTask{DirectionID: id}, true
	case model.KindSolveConjecture:
		id := rc.Params["conjecture_id"]
		if id == "" {
			return nil, false
		}
		return model.SolveTask{ConjectureID: id}, true
	}
	return nil, false
}

func (p *Planner) logf(format string, args ...any) {
	if p.logger != nil {
		p.logger.Printf(format, args...)
	}
}

// InitialCandidates seeds the first round from the freshly parsed ledger
// without an oracle call: retrieval plus the first direction when any
// direction exists, the first High-confidence conjecture, and an object
// proposal while the ledger is still sparse.
func InitialCandidates(led *ledger.Ledger) []Candidate {
	var out []Candidate

	if len(led.Directions) > 0 {
		out = append(out, Candidate{
			Task:     model.RetrievalTask{},
			Priority: model.PriorityHigh,
			Reason:   "Retrieve related mathematical theories, establish knowledge base",
		})
		first := led.Directions[0]
		out = append(out, Candidate{
			Task:     model.ExploreTask{DirectionID: first.ID},
			Priority: model.PriorityHigh,
			Reason:   fmt.Sprintf("Explore main direction: %s", truncate(first.Description, 50)),
		})
	}

	for _, c := range led.Conjectures {
		if c.Confidence == model.ConfidenceHigh && !c.Solved {
			out = append(out, Candidate{
				Task:     model.SolveTask{ConjectureID: c.ID},
				Priority: model.PriorityHigh,
				Reason:   fmt.Sprintf("Attempt to prove high confidence conjecture: %s", truncate(c.Statement, 50)),
			})
			break
		}
	}

	if len(led.Objects) < 5 && len(led.Concepts) < 3 {
		out = append(out, Candidate{
			Task:     model.ProposeObjectsTask{},
			Priority: model.PriorityMedium,
			Reason:   "Explore possible new mathematical objects and concepts",
		})
	}

	return out
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
