package model

import (
	"fmt"
	"strings"
)

// ErrorRecord is one defect the oracle reported in a proof segment.
type ErrorRecord struct {
	SegmentInfo string `json:"segment_info"`
	Location    string `json:"location"`
	ErrorType   string `json:"error_type"`
	Description string `json:"description"`
	Suggestion  string `json:"suggestion"`
}

// Attempt records one verification round of the repair loop.
type Attempt struct {
	Round  int
	Proof  string
	Errors []ErrorRecord
}

// FormatErrorList renders errors as the numbered list fed back to the
// repair prompt.
func FormatErrorList(errs []ErrorRecord) string {
	if len(errs) == 0 {
		return "No specific errors found"
	}
	var b strings.Builder
	for i, e := range errs {
		fmt.Fprintf(&b, "## Error %d\n", i+1)
		fmt.Fprintf(&b, "- **Location**: %s - %s\n", orUnknown(e.SegmentInfo), orUnknown(e.Location))
		fmt.Fprintf(&b, "- **Type**: %s\n", orUnknown(e.ErrorType))
		fmt.Fprintf(&b, "- **Description**: %s\n", orNone(e.Description))
		fmt.Fprintf(&b, "- **Suggestion**: %s\n\n", orNone(e.Suggestion))
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatAttempts renders the attempt history for the accumulate prompt.
func FormatAttempts(attempts []Attempt) string {
	var b strings.Builder
	for _, a := range attempts {
		fmt.Fprintf(&b, "## Round %d Attempt\n### Proof:\n```\n%s\n```\n### Number of errors found: %d\n\n",
			a.Round+1, a.Proof, len(a.Errors))
	}
	return strings.TrimRight(b.String(), "\n")
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

// SolveOutcome is the tri-state result of a solve attempt, produced by a
// dedicated parse step at the oracle boundary so downstream code never
// pattern-matches on raw text.
type SolveOutcome int

const (
	OutcomeUnsolved SolveOutcome = iota
	OutcomeProved
	OutcomeDisproved
)

func (o SolveOutcome) String() string {
	switch o {
	case OutcomeProved:
		return "proved"
	case OutcomeDisproved:
		return "disproved"
	default:
		return "unsolved"
	}
}
