package actions

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/xyzmtx/math-explorer-agent/internal/ledger"
	"github.com/xyzmtx/math-explorer-agent/internal/model"
	"github.com/xyzmtx/math-explorer-agent/internal/verify"
)

// roleOracle answers by the role named in the system prompt, so one stub
// can serve a whole action chain.
type roleOracle struct {
	solve   string
	verdict string
	update  string
}

func (r *roleOracle) Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float32) (string, error) {
	switch {
	case strings.Contains(systemPrompt, "attempting to settle"):
		return r.solve, nil
	// The repair prompt mentions the reviewer's error list, so it must be
	// matched before the reviewer role.
	case strings.Contains(systemPrompt, "repairing"):
		return `{"modified_proof": "still broken"}`, nil
	case strings.Contains(systemPrompt, "reviewer"):
		if r.verdict != "" {
			return r.verdict, nil
		}
		return `{"is_correct": true, "errors": []}`, nil
	case strings.Contains(systemPrompt, "ledger maintainer"):
		if r.update != "" {
			return r.update, nil
		}
		return `{"updates": [], "summary": "no updates"}`, nil
	case strings.Contains(systemPrompt, "archivist"):
		return `{"updated_comment": "lessons learned"}`, nil
	case strings.Contains(systemPrompt, "intake analyst"):
		return r.update, nil
	}
	return "plain mathematical text", nil
}

func newExecutor(t *testing.T, client *roleOracle, led *ledger.Ledger) *Executor {
	t.Helper()
	merger := NewMerger(led, nil, client, nil, false, nil)
	verifier := verify.New(client, 3, 6, nil)
	return NewExecutor(client, verifier, merger, nil)
}

func TestParseSolveOutcome(t *testing.T) {
	tests := []struct {
		text     string
		outcome  model.SolveOutcome
		wantBody string
	}{
		{"【Proof Complete】\nStep 1.\nStep 2.", model.OutcomeProved, "Step 1.\nStep 2."},
		{"  【证明完成】\nStep 1.", model.OutcomeProved, "Step 1."},
		{"【Disproof Complete】\nCounterexample: n=2.", model.OutcomeDisproved, "Counterexample: n=2."},
		{"【证伪完成】refuted", model.OutcomeDisproved, "refuted"},
		{"Partial progress: reduced to a lemma.", model.OutcomeUnsolved, "Partial progress: reduced to a lemma."},
		{"The 【Proof Complete】 marker mid-text does not count.", model.OutcomeUnsolved, "The 【Proof Complete】 marker mid-text does not count."},
	}
	for _, tt := range tests {
		outcome, body := ParseSolveOutcome(tt.text)
		if outcome != tt.outcome {
			t.Errorf("ParseSolveOutcome(%q) outcome = %v, want %v", tt.text, outcome, tt.outcome)
		}
		if body != tt.wantBody {
			t.Errorf("ParseSolveOutcome(%q) body = %q, want %q", tt.text, body, tt.wantBody)
		}
	}
}

func TestSolveUnknownConjectureFails(t *testing.T) {
	e := newExecutor(t, &roleOracle{}, ledger.New())
	if _, err := e.Execute(context.Background(), model.SolveTask{ConjectureID: "conj_404"}); err == nil {
		t.Fatal("want error for unknown conjecture")
	}
}

func TestExploreUnknownDirectionFails(t *testing.T) {
	e := newExecutor(t, &roleOracle{}, ledger.New())
	if _, err := e.Execute(context.Background(), model.ExploreTask{DirectionID: "dir_404"}); err == nil {
		t.Fatal("want error for unknown direction")
	}
}

func TestSolvePartialProgressMergesByProducts(t *testing.T) {
	led := ledger.New()
	led.AddConjecture("Prove that a_n is increasing", model.ConfidenceHigh, "")

	client := &roleOracle{
		solve:  "Partial progress only: the claim reduces to boundedness.",
		update: `{"updates": [{"operation": "add", "entity_type": "lemma", "data": {"statement": "a_n is bounded", "proof": "Conditional assumption"}, "reason": "reduction"}], "summary": "one lemma"}`,
	}
	e := newExecutor(t, client, led)

	res, err := e.Execute(context.Background(), model.SolveTask{ConjectureID: "conj_001"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Verified {
		t.Error("partial progress must not be verified")
	}
	if len(led.Lemmas) != 1 {
		t.Fatalf("lemmas = %d, want 1 from merge", len(led.Lemmas))
	}
	if led.ConjectureByID("conj_001").Solved {
		t.Error("conjecture must stay unsolved on partial progress")
	}
}

func TestSolveProvedRunsVerificationThenMerges(t *testing.T) {
	led := ledger.New()
	led.AddConjecture("Prove that a_n converges", model.ConfidenceHigh, "")

	client := &roleOracle{
		solve:  "【Proof Complete】\nStep 1: monotone.\nStep 2: bounded.\nStep 3: converges.",
		update: `{"updates": [{"operation": "mark_solved", "entity_type": "conjecture", "entity_id": "conj_001", "reason": "proven"}, {"operation": "add", "entity_type": "lemma", "data": {"statement": "a_n converges", "proof": "Step 1: monotone."}, "reason": "proven"}], "summary": "solved"}`,
	}
	e := newExecutor(t, client, led)

	res, err := e.Execute(context.Background(), model.SolveTask{ConjectureID: "conj_001"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !res.Verified {
		t.Error("clean verification must mark the result verified")
	}
	if !strings.Contains(res.MathText, "Step 1: monotone.") {
		t.Errorf("result proof = %q", res.MathText)
	}
	if !led.ConjectureByID("conj_001").Solved {
		t.Error("merge must mark the conjecture solved")
	}
	if len(led.Lemmas) != 1 {
		t.Errorf("lemmas = %d, want 1", len(led.Lemmas))
	}
}

func TestSolveProofRejectedAccumulatesComment(t *testing.T) {
	led := ledger.New()
	led.AddConjecture("Prove that a_n converges", model.ConfidenceMedium, "first thoughts")

	client := &roleOracle{
		solve:   "【Proof Complete】\nStep 1: wrong.",
		verdict: `{"is_correct": false, "errors": [{"description": "step 1 is false"}]}`,
		update:  `{"updates": [{"operation": "modify", "entity_type": "conjecture", "entity_id": "conj_001", "data": {"comment": "lessons learned"}, "reason": "failed attempts"}], "summary": "comment updated"}`,
	}
	e := newExecutor(t, client, led)

	res, err := e.Execute(context.Background(), model.SolveTask{ConjectureID: "conj_001"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Verified {
		t.Error("rejected proof must not be verified")
	}
	conj := led.ConjectureByID("conj_001")
	if conj.Solved {
		t.Error("conjecture must stay unsolved after exhaustion")
	}
	if conj.Comment != "lessons learned" {
		t.Errorf("comment = %q, want accumulated comment", conj.Comment)
	}
}

func TestVerifyTaskUsesLedgerStatement(t *testing.T) {
	led := ledger.New()
	led.AddConjecture("Prove that a_n converges", model.ConfidenceHigh, "")

	client := &roleOracle{}
	e := newExecutor(t, client, led)

	res, err := e.Execute(context.Background(), model.VerifyTask{
		ConjectureID: "conj_001",
		Proof:        "Step 1.\nStep 2.",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !res.Verified {
		t.Error("clean proof must verify")
	}
}

func TestConcurrentExecutionsShareMergeLock(t *testing.T) {
	led := ledger.New()
	led.AddDirection("growth of a_n", "")
	client := &roleOracle{
		update: `{"updates": [{"operation": "add", "entity_type": "object", "data": {"name": "x", "definition": "aux"}, "reason": "new"}], "summary": "one add"}`,
	}
	e := newExecutor(t, client, led)

	// A fan-out of executions, each reading the ledger display while the
	// others merge into it. Reads and mutations must interleave only at
	// merge-call boundaries.
	tasks := []model.Task{
		model.RetrievalTask{},
		model.ProposeObjectsTask{},
		model.ProposeDirectionsTask{},
		model.ExploreTask{DirectionID: "dir_001"},
		model.RetrievalTask{},
		model.ProposeDirectionsTask{},
	}
	errs := make([]error, len(tasks))
	var wg sync.WaitGroup
	for i, task := range tasks {
		wg.Add(1)
		go func(i int, task model.Task) {
			defer wg.Done()
			_, errs[i] = e.Execute(context.Background(), task)
		}(i, task)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("execution %d: %v", i, err)
		}
	}
	if len(led.Objects) != len(tasks) {
		t.Errorf("objects = %d, want %d (one merge per execution)", len(led.Objects), len(tasks))
	}
}

func TestMergerAppliesUpdatesAndBumpsVersion(t *testing.T) {
	led := ledger.New()
	client := &roleOracle{
		update: `{"updates": [
			{"operation": "add", "entity_type": "object", "data": {"name": "a_n", "definition": "sequence"}, "reason": "new"},
			{"operation": "add", "entity_type": "direction", "data": {"description": "growth rate"}, "reason": "new"}
		], "summary": "two adds"}`,
	}
	m := NewMerger(led, nil, client, nil, false, nil)

	before := led.Version()
	results, err := m.MergeText(context.Background(), "some math text", "retrieval")
	if err != nil {
		t.Fatalf("MergeText: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d lines, want 2", len(results))
	}
	if led.Version() != before+2 {
		t.Errorf("version = %d, want %d", led.Version(), before+2)
	}
}

func TestMergerSavesSnapshotWhenAutoSave(t *testing.T) {
	dir := t.TempDir()
	store := ledger.NewStore(dir)
	client := &roleOracle{
		update: `{"updates": [{"operation": "add", "entity_type": "object", "data": {"name": "x"}, "reason": "new"}], "summary": "one add"}`,
	}
	m := NewMerger(store.Ledger, store, client, nil, true, nil)

	if _, err := m.MergeText(context.Background(), "text", "retrieval"); err != nil {
		t.Fatalf("MergeText: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read snapshot dir: %v", err)
	}
	if len(entries) != 1 || !strings.HasPrefix(entries[0].Name(), "ledger_retrieval_") {
		t.Errorf("snapshot dir contents = %v", entries)
	}
}

func TestInitializeLedger(t *testing.T) {
	led := ledger.New()
	client := &roleOracle{
		update: `{
			"objects": [{"name": "a_n", "definition": "a recursive sequence", "comment": ""}],
			"concepts": [],
			"directions": [{"description": "asymptotics of a_n", "comment": ""}],
			"conjectures": [{"statement": "Prove that a_n ~ n log n", "confidence": "High", "comment": ""}],
			"lemmas": [{"statement": "a_1 = 1", "proof": "Conditional assumption"}]
		}`,
	}

	summary := InitializeLedger(context.Background(), client, led, "raw problem text", nil)
	if !strings.Contains(summary, "1 objects") || !strings.Contains(summary, "1 conjectures") {
		t.Errorf("summary = %q", summary)
	}
	if led.ObjectByID("obj_001") == nil || led.DirectionByID("dir_001") == nil {
		t.Error("parsed entries missing expected ids")
	}
	if got := led.ConjectureByID("conj_001").Confidence; got != model.ConfidenceHigh {
		t.Errorf("confidence = %q", got)
	}
}
