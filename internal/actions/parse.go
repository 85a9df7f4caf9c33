package actions

import (
	"context"
	"fmt"
	"log"

	"github.com/xyzmtx/math-explorer-agent/internal/ledger"
	"github.com/xyzmtx/math-explorer-agent/internal/model"
	"github.com/xyzmtx/math-explorer-agent/internal/oracle"
	"github.com/xyzmtx/math-explorer-agent/internal/prompts"
)

const parseTemperature = 0.3

type parsedEntry struct {
	Name        string `json:"name"`
	Definition  string `json:"definition"`
	Description string `json:"description"`
	Statement   string `json:"statement"`
	Confidence  string `json:"confidence"`
	Proof       string `json:"proof"`
	Comment     string `json:"comment"`
}

type parseResponse struct {
	Objects     []parsedEntry `json:"objects"`
	Concepts    []parsedEntry `json:"concepts"`
	Directions  []parsedEntry `json:"directions"`
	Conjectures []parsedEntry `json:"conjectures"`
	Lemmas      []parsedEntry `json:"lemmas"`
}

// InitializeLedger parses raw mathematical input into the ledger's
// initial entries. An empty parse result leaves the ledger empty; the
// run can still proceed through proposal actions.
func InitializeLedger(ctx context.Context, client oracle.Client, led *ledger.Ledger, rawInput string, logger *log.Logger) string {
	resp := oracle.Structured(ctx, client,
		prompts.ParseSystem(), prompts.ParseUser(rawInput),
		parseResponse{}, parseTemperature)

	for _, o := range resp.Objects {
		led.AddObject(o.Name, o.Definition, o.Comment)
	}
	for _, c := range resp.Concepts {
		led.AddConcept(c.Name, c.Definition, c.Comment)
	}
	for _, d := range resp.Directions {
		led.AddDirection(d.Description, d.Comment)
	}
	for _, c := range resp.Conjectures {
		led.AddConjecture(c.Statement, model.ParseConfidence(c.Confidence), c.Comment)
	}
	for _, l := range resp.Lemmas {
		led.AddLemma(l.Statement, l.Proof)
	}

	summary := fmt.Sprintf("parsed input: %d objects, %d concepts, %d directions, %d conjectures, %d lemmas",
		len(resp.Objects), len(resp.Concepts), len(resp.Directions), len(resp.Conjectures), len(resp.Lemmas))
	if logger != nil {
		logger.Printf("ledger_initialized %s version=%d", summary, led.Version())
	}
	return summary
}
