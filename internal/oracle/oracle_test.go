package oracle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xyzmtx/math-explorer-agent/internal/model"
)

func TestNewOpenAIClientAppliesTimeout(t *testing.T) {
	c := NewOpenAIClient(model.LLMConfig{
		BaseURL:    "http://127.0.0.1:1/v1",
		Model:      "test-model",
		TimeoutSec: 5,
		MaxRetries: 2,
		MaxTokens:  256,
	}, "test-key", nil)
	require.NotNil(t, c)
	assert.Equal(t, "test-model", c.model)
	assert.Equal(t, 2, c.maxRetries)
}

func TestCompleteExhaustsRetriesOnTransportFailure(t *testing.T) {
	// Port 1 refuses connections, so every attempt fails at transport
	// level and the retry budget is what ends the call.
	c := NewOpenAIClient(model.LLMConfig{
		BaseURL:    "http://127.0.0.1:1/v1",
		Model:      "test-model",
		TimeoutSec: 1,
		MaxRetries: 2,
	}, "test-key", nil)
	var slept []time.Duration
	c.sleep = func(d time.Duration) { slept = append(slept, d) }

	_, err := c.Complete(context.Background(), "sys", "user", 0.3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
	assert.Len(t, slept, 1)
}
