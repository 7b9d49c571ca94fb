// Package tokencount estimates LLM token usage for encoded blocks.
package tokencount

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultModel is the tokenizer used when none is configured.
const DefaultModel = "gpt-4o"

// padFactor widens exact counts; emitted counts are budgets, not totals.
const padFactor = 1.5

// Counter counts tokens with a model-specific tokenizer.
type Counter struct {
	encoding *tiktoken.Tiktoken
}

// New acquires the tokenizer for model. Empty model selects DefaultModel.
func New(model string) (*Counter, error) {
	if model == "" {
		model = DefaultModel
	}
	encoding, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("failed to get tokenizer for model %q: %w", model, err)
	}
	return &Counter{encoding: encoding}, nil
}

// Count returns the exact token count of text.
func (c *Counter) Count(text string) int {
	return len(c.encoding.Encode(text, nil, nil))
}

// Estimate returns the padded token count of text.
func (c *Counter) Estimate(text string) int {
	return Pad(c.Count(text))
}

// Pad applies the safety padding to an exact count.
func Pad(n int) int {
	return int(float64(n) * padFactor)
}
