// Package verify implements the verification-and-repair state machine:
// a candidate proof is checked segment by segment, repaired on failure,
// and after the repair budget is spent the attempt history is folded
// into the claim's comment.
package verify

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/xyzmtx/math-explorer-agent/internal/model"
	"github.com/xyzmtx/math-explorer-agent/internal/oracle"
	"github.com/xyzmtx/math-explorer-agent/internal/prompts"
)

// Per-call temperatures: checking wants strictness, repair wants some
// freedom.
const (
	verifyTemperature     = 0.3
	repairTemperature     = 0.5
	accumulateTemperature = 0.5
)

// Segment is one fixed-size slice of a proof's lines.
type Segment struct {
	Content string
	Info    string
}

// SplitSegments partitions a proof into consecutive chunks of at most
// chunkLines lines. Surrounding whitespace is trimmed first; every
// remaining line belongs to exactly one segment, and each segment
// carries its 1-based inclusive line range.
func SplitSegments(proof string, chunkLines int) []Segment {
	if chunkLines <= 0 {
		chunkLines = 1
	}
	lines := strings.Split(strings.TrimSpace(proof), "\n")

	var segments []Segment
	for start := 0; start < len(lines); start += chunkLines {
		end := start + chunkLines
		if end > len(lines) {
			end = len(lines)
		}
		segments = append(segments, Segment{
			Content: strings.Join(lines[start:end], "\n"),
			Info:    fmt.Sprintf("Line %d to Line %d", start+1, end),
		})
	}
	return segments
}

// Result is the machine's terminal verdict.
type Result struct {
	ConjectureID string
	Verified     bool

	// FinalProof and Rounds are set on acceptance.
	FinalProof string
	Rounds     int

	// Attempts, Errors, and UpdatedComment are set on exhaustion.
	Attempts       []model.Attempt
	Errors         []model.ErrorRecord
	UpdatedComment string
}

// Verifier runs the machine against an oracle.
type Verifier struct {
	oracle     oracle.Client
	maxRounds  int
	chunkLines int
	logger     *log.Logger
}

// New builds a verifier. maxRounds bounds repair attempts; chunkLines is
// the segment size.
func New(client oracle.Client, maxRounds, chunkLines int, logger *log.Logger) *Verifier {
	if maxRounds < 0 {
		maxRounds = 0
	}
	if chunkLines <= 0 {
		chunkLines = 6
	}
	return &Verifier{oracle: client, maxRounds: maxRounds, chunkLines: chunkLines, logger: logger}
}

type segmentVerdict struct {
	IsCorrect bool                `json:"is_correct"`
	Errors    []model.ErrorRecord `json:"errors"`
}

type repairResponse struct {
	ModifiedProof string `json:"modified_proof"`
}

type accumulateResponse struct {
	UpdatedComment string `json:"updated_comment"`
}

// Run drives the machine to a terminal verdict. Round r verifies the
// current candidate; on errors it repairs and re-enters with round r+1,
// until either a clean round (accepted) or maxRounds repairs are spent
// (exhausted, attempt history of length maxRounds+1).
func (v *Verifier) Run(ctx context.Context, ledgerDisplay, conjectureID, statement, proof, priorComment string) Result {
	current := proof
	var attempts []model.Attempt
	var allErrors []model.ErrorRecord

	for round := 0; round <= v.maxRounds; round++ {
		errs := v.verifySegments(ctx, ledgerDisplay, statement, current)
		v.logf("verify_round conjecture=%s round=%d errors=%d", conjectureID, round, len(errs))

		if len(errs) == 0 {
			return Result{
				ConjectureID: conjectureID,
				Verified:     true,
				FinalProof:   current,
				Rounds:       round,
			}
		}

		attempts = append(attempts, model.Attempt{Round: round, Proof: current, Errors: errs})
		allErrors = append(allErrors, errs...)

		if round < v.maxRounds {
			current = v.repair(ctx, ledgerDisplay, statement, current, errs)
		}
	}

	updated := v.accumulate(ctx, ledgerDisplay, conjectureID, statement, priorComment, attempts, allErrors)
	return Result{
		ConjectureID:   conjectureID,
		Verified:       false,
		Rounds:         v.maxRounds,
		Attempts:       attempts,
		Errors:         allErrors,
		UpdatedComment: updated,
	}
}

// verifySegments checks every segment of the candidate and returns the
// union of reported errors, each tagged with its segment's line range.
// A segment whose check cannot be completed passes by default.
func (v *Verifier) verifySegments(ctx context.Context, ledgerDisplay, statement, proof string) []model.ErrorRecord {
	var all []model.ErrorRecord
	for _, seg := range SplitSegments(proof, v.chunkLines) {
		verdict := oracle.Structured(ctx, v.oracle,
			prompts.VerifySystem(),
			prompts.VerifyUser(ledgerDisplay, statement, proof, seg.Content, seg.Info),
			segmentVerdict{IsCorrect: true}, verifyTemperature)
		if verdict.IsCorrect {
			continue
		}
		for _, e := range verdict.Errors {
			e.SegmentInfo = seg.Info
			all = append(all, e)
		}
	}
	return all
}

// repair asks for a full replacement proof; the prior candidate is kept
// when the oracle yields nothing usable.
func (v *Verifier) repair(ctx context.Context, ledgerDisplay, statement, proof string, errs []model.ErrorRecord) string {
	resp := oracle.Structured(ctx, v.oracle,
		prompts.RepairSystem(),
		prompts.RepairUser(ledgerDisplay, statement, proof, model.FormatErrorList(errs)),
		repairResponse{ModifiedProof: proof}, repairTemperature)
	if strings.TrimSpace(resp.ModifiedProof) == "" {
		return proof
	}
	return resp.ModifiedProof
}

// accumulate folds the failed attempts into an updated comment for the
// conjecture; on oracle failure the prior comment survives unchanged.
func (v *Verifier) accumulate(ctx context.Context, ledgerDisplay, conjectureID, statement, priorComment string, attempts []model.Attempt, errs []model.ErrorRecord) string {
	resp := oracle.Structured(ctx, v.oracle,
		prompts.AccumulateSystem(),
		prompts.AccumulateUser(ledgerDisplay, conjectureID, statement, priorComment,
			model.FormatAttempts(attempts), model.FormatErrorList(errs)),
		accumulateResponse{UpdatedComment: priorComment}, accumulateTemperature)
	return resp.UpdatedComment
}

// VerifiedMergeText builds the text handed to the ledger merge path when
// a proof is accepted.
func VerifiedMergeText(conjectureID, statement, finalProof string) string {
	return fmt.Sprintf(`【Proof Complete】

Conjecture %s has been completely proven.

Statement: %s

Complete proof:
%s

Please update the ledger:
1. Mark conjecture %s as completely solved
2. Add a conclusion (lemma) with the above statement and the above complete proof
`, conjectureID, statement, finalProof, conjectureID)
}

// FailedMergeText builds the merge text when the repair budget is spent:
// the only lasting artifact is the updated comment.
func FailedMergeText(conjectureID, updatedComment string) string {
	return fmt.Sprintf(`【Proof Attempt Record】

Conjecture %s still could not be proven after multiple rounds of attempts.

Please update the ledger:
Modify conjecture %s's comment to:
%s
`, conjectureID, conjectureID, updatedComment)
}

func (v *Verifier) logf(format string, args ...any) {
	if v.logger != nil {
		v.logger.Printf(format, args...)
	}
}
