package model

import "fmt"

// ActionKind identifies a task family.
type ActionKind string

const (
	KindRetrieval         ActionKind = "retrieval"
	KindProposeObjects    ActionKind = "propose_objects"
	KindProposeDirections ActionKind = "propose_directions"
	KindExploreDirection  ActionKind = "explore_direction"
	KindSolveConjecture   ActionKind = "solve_conjecture"
	KindVerify            ActionKind = "verify"
)

// Task is one schedulable unit of work. Each kind carries its own typed
// fields; the scheduler's admit/rank logic stays generic over this
// interface.
type Task interface {
	Kind() ActionKind
	// ConflictsWith reports whether two tasks may not be in flight at the
	// same time. At most one attempt per target entity: two solves on the
	// same conjecture conflict, two explores on the same direction
	// conflict, and identical tasks always conflict.
	ConflictsWith(other Task) bool
	Describe() string
}

// RetrievalTask asks the oracle for related established theory.
type RetrievalTask struct{}

func (RetrievalTask) Kind() ActionKind { return KindRetrieval }
func (RetrievalTask) ConflictsWith(other Task) bool {
	_, ok := other.(RetrievalTask)
	return ok
}
func (RetrievalTask) Describe() string { return "Retrieve related mathematical theories" }

// ProposeObjectsTask asks for new mathematical objects and concepts.
type ProposeObjectsTask struct{}

func (ProposeObjectsTask) Kind() ActionKind { return KindProposeObjects }
func (ProposeObjectsTask) ConflictsWith(other Task) bool {
	_, ok := other.(ProposeObjectsTask)
	return ok
}
func (ProposeObjectsTask) Describe() string { return "Propose new mathematical objects and concepts" }

// ProposeDirectionsTask asks for new exploration directions.
type ProposeDirectionsTask struct{}

func (ProposeDirectionsTask) Kind() ActionKind { return KindProposeDirections }
func (ProposeDirectionsTask) ConflictsWith(other Task) bool {
	_, ok := other.(ProposeDirectionsTask)
	return ok
}
func (ProposeDirectionsTask) Describe() string { return "Propose new exploration directions" }

// ExploreTask explores one direction in depth.
type ExploreTask struct {
	DirectionID string
}

func (ExploreTask) Kind() ActionKind { return KindExploreDirection }

// Two explores of the same direction conflict even if other fields were to
// differ.
func (t ExploreTask) ConflictsWith(other Task) bool {
	o, ok := other.(ExploreTask)
	return ok && o.DirectionID == t.DirectionID
}

func (t ExploreTask) Describe() string {
	return fmt.Sprintf("Explore direction %s", t.DirectionID)
}

// SolveTask attempts to prove or disprove one conjecture.
type SolveTask struct {
	ConjectureID string
}

func (SolveTask) Kind() ActionKind { return KindSolveConjecture }

// A solve conflicts with any solve or verify targeting the same
// conjecture; verify is the tail of a solve chain, not an independent
// attempt.
func (t SolveTask) ConflictsWith(other Task) bool {
	switch o := other.(type) {
	case SolveTask:
		return o.ConjectureID == t.ConjectureID
	case VerifyTask:
		return o.ConjectureID == t.ConjectureID
	}
	return false
}

func (t SolveTask) Describe() string {
	return fmt.Sprintf("Attempt to solve conjecture %s", t.ConjectureID)
}

// VerifyTask runs the verification-and-repair machine on a candidate
// proof, typically queued manually.
type VerifyTask struct {
	ConjectureID string
	Statement    string
	Proof        string
}

func (VerifyTask) Kind() ActionKind { return KindVerify }

func (t VerifyTask) ConflictsWith(other Task) bool {
	switch o := other.(type) {
	case SolveTask:
		return o.ConjectureID == t.ConjectureID
	case VerifyTask:
		return o.ConjectureID == t.ConjectureID
	}
	return false
}

func (t VerifyTask) Describe() string {
	return fmt.Sprintf("Verify candidate proof for conjecture %s", t.ConjectureID)
}
