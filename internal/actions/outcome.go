package actions

import (
	"strings"

	"github.com/xyzmtx/math-explorer-agent/internal/model"
)

// Completion markers the solve prompt instructs the oracle to lead with.
// Chinese variants appear with some models regardless of prompt language.
var (
	provedMarkers    = []string{"【Proof Complete】", "【证明完成】"}
	disprovedMarkers = []string{"【Disproof Complete】", "【证伪完成】"}
)

// ParseSolveOutcome classifies a solve response at the oracle boundary.
// On a complete proof or disproof the returned text is the body with the
// marker stripped; otherwise the full text comes back unchanged as
// partial progress.
func ParseSolveOutcome(text string) (model.SolveOutcome, string) {
	stripped := strings.TrimSpace(text)
	for _, m := range provedMarkers {
		if strings.HasPrefix(stripped, m) {
			return model.OutcomeProved, strings.TrimSpace(strings.TrimPrefix(stripped, m))
		}
	}
	for _, m := range disprovedMarkers {
		if strings.HasPrefix(stripped, m) {
			return model.OutcomeDisproved, strings.TrimSpace(strings.TrimPrefix(stripped, m))
		}
	}
	return model.OutcomeUnsolved, text
}
