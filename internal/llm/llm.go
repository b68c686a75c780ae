// Package llm is the generation client: it sends prompts to an oracle
// (OpenAI, Gemini or Anthropic) and turns the raw text into either trimmed
// markdown or a decoded JSON value.
package llm

import (
	"context"
	"errors"
)

// Mode selects how the oracle response is interpreted.
type Mode string

const (
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
)

// Request is one oracle call.
type Request struct {
	Task   string
	Prompt string
	Mode   Mode
}

// Oracle is a text-completion provider. Implementations make exactly one
// upstream call per Complete and never retry.
type Oracle interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// ErrNotImplemented is returned by the placeholder oracle.
var ErrNotImplemented = errors.New("LLM not configured")

// PlaceholderOracle is used when no provider is configured.
type PlaceholderOracle struct{}

// Complete returns ErrNotImplemented.
func (PlaceholderOracle) Complete(ctx context.Context, req Request) (string, error) {
	_ = ctx
	_ = req
	return "", ErrNotImplemented
}

// OracleFunc adapts a function to Oracle.
type OracleFunc func(ctx context.Context, req Request) (string, error)

// Complete calls f.
func (f OracleFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}
