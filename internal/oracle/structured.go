package oracle

import (
	"context"
	"encoding/json"
)

const strengthenReminder = "\n\n[IMPORTANT] Respond with a single complete, well-formed JSON object and nothing else. Do not truncate the output."

// Structured performs a completion expected to yield JSON matching T. It
// never fails: transport errors and unparseable output degrade to def
// after one strengthening re-prompt, so callers' rounds always complete.
func Structured[T any](ctx context.Context, c Client, systemPrompt, userPrompt string, def T, temperature float32) T {
	prompt := userPrompt
	for attempt := 0; attempt < 2; attempt++ {
		raw, err := c.Complete(ctx, systemPrompt, prompt, temperature)
		if err != nil {
			return def
		}

		snippet, err := ExtractJSON(raw)
		if err == nil {
			var out T
			if json.Unmarshal(snippet, &out) == nil {
				return out
			}
		}

		prompt = userPrompt + strengthenReminder
	}
	return def
}
