package oracle

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type sequenceClient struct {
	responses []string
	err       error
	prompts   []string
}

func (s *sequenceClient) Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float32) (string, error) {
	s.prompts = append(s.prompts, userPrompt)
	if s.err != nil {
		return "", s.err
	}
	i := len(s.prompts) - 1
	if i >= len(s.responses) {
		i = len(s.responses) - 1
	}
	return s.responses[i], nil
}

type payload struct {
	Value string `json:"value"`
}

func TestStructuredParsesFirstTry(t *testing.T) {
	c := &sequenceClient{responses: []string{`{"value": "ok"}`}}
	got := Structured(context.Background(), c, "sys", "user", payload{Value: "default"}, 0.3)
	assert.Equal(t, "ok", got.Value)
	assert.Len(t, c.prompts, 1)
}

func TestStructuredStrengthensThenParses(t *testing.T) {
	c := &sequenceClient{responses: []string{
		"I will not produce JSON this time.",
		`{"value": "second try"}`,
	}}
	got := Structured(context.Background(), c, "sys", "user", payload{Value: "default"}, 0.3)
	assert.Equal(t, "second try", got.Value)
	assert.Len(t, c.prompts, 2)
	// The retry carries the strengthening reminder; the first does not.
	assert.NotContains(t, c.prompts[0], "[IMPORTANT]")
	assert.Contains(t, c.prompts[1], "[IMPORTANT]")
}

func TestStructuredDefaultOnPersistentGarbage(t *testing.T) {
	c := &sequenceClient{responses: []string{"nope", "still nope"}}
	got := Structured(context.Background(), c, "sys", "user", payload{Value: "default"}, 0.3)
	assert.Equal(t, "default", got.Value)
	assert.Len(t, c.prompts, 2)
}

func TestStructuredDefaultOnTransportError(t *testing.T) {
	c := &sequenceClient{err: errors.New("transport down")}
	got := Structured(context.Background(), c, "sys", "user", payload{Value: "default"}, 0.3)
	assert.Equal(t, "default", got.Value)
	// Transport failures already exhausted their retries inside Complete;
	// no strengthening re-prompt follows.
	assert.Len(t, c.prompts, 1)
}

func TestStructuredPartialUnmarshalMismatch(t *testing.T) {
	// Valid JSON that cannot fit the target shape falls back to default.
	c := &sequenceClient{responses: []string{`{"value": 42}`, `{"value": 7}`}}
	got := Structured(context.Background(), c, "sys", "user", payload{Value: "default"}, 0.3)
	assert.Equal(t, "default", got.Value)
}
