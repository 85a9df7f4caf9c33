package model

import (
	"strings"
	"testing"
)

func TestParseConfidence(t *testing.T) {
	tests := []struct {
		in   string
		want Confidence
	}{
		{"High", ConfidenceHigh},
		{"high", ConfidenceHigh},
		{"高", ConfidenceHigh},
		{"Low", ConfidenceLow},
		{"低", ConfidenceLow},
		{"Medium", ConfidenceMedium},
		{"", ConfidenceMedium},
		{"garbage", ConfidenceMedium},
	}
	for _, tt := range tests {
		if got := ParseConfidence(tt.in); got != tt.want {
			t.Errorf("ParseConfidence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestActionTransitionTable(t *testing.T) {
	valid := [][2]ActionStatus{
		{ActionPending, ActionRunning},
		{ActionRunning, ActionCompleted},
		{ActionRunning, ActionFailed},
	}
	for _, v := range valid {
		if err := ValidateActionTransition(v[0], v[1]); err != nil {
			t.Errorf("transition %s -> %s: %v", v[0], v[1], err)
		}
	}

	invalid := [][2]ActionStatus{
		{ActionPending, ActionCompleted},
		{ActionPending, ActionFailed},
		{ActionCompleted, ActionRunning},
		{ActionFailed, ActionPending},
		{ActionCompleted, ActionFailed},
	}
	for _, v := range invalid {
		if err := ValidateActionTransition(v[0], v[1]); err == nil {
			t.Errorf("transition %s -> %s: want error", v[0], v[1])
		}
	}
}

func TestPriorityRankOrder(t *testing.T) {
	if !(PriorityHigh.Rank() < PriorityMedium.Rank() && PriorityMedium.Rank() < PriorityLow.Rank()) {
		t.Errorf("rank order broken: high=%d medium=%d low=%d",
			PriorityHigh.Rank(), PriorityMedium.Rank(), PriorityLow.Rank())
	}
	if Priority("whatever").Rank() != PriorityMedium.Rank() {
		t.Error("unknown priority must rank as medium")
	}
	if ParsePriority("urgent") != PriorityMedium {
		t.Error("unknown priority string must parse as medium")
	}
}

func TestTaskConflicts(t *testing.T) {
	tests := []struct {
		name string
		a, b Task
		want bool
	}{
		{"identical retrieval", RetrievalTask{}, RetrievalTask{}, true},
		{"retrieval vs propose", RetrievalTask{}, ProposeObjectsTask{}, false},
		{"same direction", ExploreTask{DirectionID: "dir_001"}, ExploreTask{DirectionID: "dir_001"}, true},
		{"different directions", ExploreTask{DirectionID: "dir_001"}, ExploreTask{DirectionID: "dir_002"}, false},
		{"same conjecture solves", SolveTask{ConjectureID: "conj_001"}, SolveTask{ConjectureID: "conj_001"}, true},
		{"different conjectures", SolveTask{ConjectureID: "conj_001"}, SolveTask{ConjectureID: "conj_002"}, false},
		{"solve vs verify same target", SolveTask{ConjectureID: "conj_001"}, VerifyTask{ConjectureID: "conj_001"}, true},
		{"solve vs explore", SolveTask{ConjectureID: "conj_001"}, ExploreTask{DirectionID: "conj_001"}, false},
	}
	for _, tt := range tests {
		if got := tt.a.ConflictsWith(tt.b); got != tt.want {
			t.Errorf("%s: ConflictsWith = %v, want %v", tt.name, got, tt.want)
		}
		// Conflict is symmetric.
		if got := tt.b.ConflictsWith(tt.a); got != tt.want {
			t.Errorf("%s (reversed): ConflictsWith = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDisplayStrings(t *testing.T) {
	obj := MathObject{ID: "obj_001", Name: "a_n", Definition: "a sequence", Comment: "c"}
	if got := obj.DisplayString(); !strings.Contains(got, "[Mathematical Object obj_001]") {
		t.Errorf("object display = %q", got)
	}

	dir := Direction{ID: "dir_001", Description: "d", Solved: true}
	if got := dir.DisplayString(); !strings.Contains(got, "[COMPLETELY SOLVED]") {
		t.Errorf("solved direction display = %q", got)
	}

	conj := Conjecture{ID: "conj_001", Statement: "P", Confidence: ConfidenceHigh}
	got := conj.DisplayString()
	if strings.Contains(got, "[COMPLETELY SOLVED]") {
		t.Errorf("unsolved conjecture display = %q", got)
	}
	if !strings.Contains(got, "Confidence: High") {
		t.Errorf("conjecture display = %q", got)
	}
}

func TestFormatErrorList(t *testing.T) {
	if got := FormatErrorList(nil); got != "No specific errors found" {
		t.Errorf("empty list = %q", got)
	}

	got := FormatErrorList([]ErrorRecord{
		{SegmentInfo: "Line 7 to Line 12", Location: "step 8", ErrorType: "Logical Jump", Description: "gap", Suggestion: "fill it"},
		{},
	})
	if !strings.Contains(got, "## Error 1") || !strings.Contains(got, "## Error 2") {
		t.Errorf("numbering missing:\n%s", got)
	}
	if !strings.Contains(got, "Line 7 to Line 12 - step 8") {
		t.Errorf("location missing:\n%s", got)
	}
	// Empty fields fall back to placeholders.
	if !strings.Contains(got, "unknown") || !strings.Contains(got, "none") {
		t.Errorf("placeholders missing:\n%s", got)
	}
}

func TestFormatAttempts(t *testing.T) {
	got := FormatAttempts([]Attempt{
		{Round: 0, Proof: "first try", Errors: []ErrorRecord{{}}},
		{Round: 1, Proof: "second try", Errors: []ErrorRecord{{}, {}}},
	})
	if !strings.Contains(got, "## Round 1 Attempt") || !strings.Contains(got, "## Round 2 Attempt") {
		t.Errorf("round headers missing:\n%s", got)
	}
	if !strings.Contains(got, "Number of errors found: 2") {
		t.Errorf("error counts missing:\n%s", got)
	}
}

func TestActionSummaryString(t *testing.T) {
	s := ActionSummary{Running: 2, Pending: 1, Completed: 7, Failed: 3}
	if got := s.String(); got != "Running: 2 | Pending: 1 | Completed: 7 | Failed: 3" {
		t.Errorf("summary = %q", got)
	}
}

func TestSolveOutcomeString(t *testing.T) {
	if OutcomeProved.String() != "proved" || OutcomeDisproved.String() != "disproved" || OutcomeUnsolved.String() != "unsolved" {
		t.Error("outcome strings wrong")
	}
}
