package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"sensai-backend/internal/shared/apperr"
	"sensai-backend/internal/shared/metrics"
	"sensai-backend/internal/shared/telemetry"
)

// Client wraps an Oracle with response post-processing. Every failure it
// returns wraps apperr.ErrGenerationFailure.
type Client struct {
	Oracle   Oracle
	Provider string
	Model    string
}

// NewClient builds a generation client. A nil oracle becomes the placeholder.
func NewClient(oracle Oracle, provider, model string) *Client {
	if oracle == nil {
		oracle = PlaceholderOracle{}
	}
	if provider == "" {
		provider = "none"
	}
	return &Client{Oracle: oracle, Provider: provider, Model: model}
}

// Text runs a markdown-mode generation and returns the trimmed response.
func (c *Client) Text(ctx context.Context, task, prompt string) (string, error) {
	raw, err := c.call(ctx, Request{Task: task, Prompt: prompt, Mode: ModeMarkdown})
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", c.fail(ctx, task, prompt, errors.New("empty response"))
	}
	return text, nil
}

// JSON runs a json-mode generation and decodes the extracted object into out.
func (c *Client) JSON(ctx context.Context, task, prompt string, out any) error {
	raw, err := c.call(ctx, Request{Task: task, Prompt: prompt, Mode: ModeJSON})
	if err != nil {
		return err
	}
	body, err := ExtractJSON(raw)
	if err != nil {
		return c.fail(ctx, task, prompt, err)
	}
	if err := json.Unmarshal([]byte(body), out); err != nil {
		return c.fail(ctx, task, prompt, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func (c *Client) call(ctx context.Context, req Request) (string, error) {
	if c == nil || c.Oracle == nil {
		return "", apperr.Generation(req.Task, ErrNotImplemented)
	}
	metrics.IncGeneration(c.Provider, req.Task)

	start := time.Now()
	raw, err := c.Oracle.Complete(ctx, req)
	elapsed := time.Since(start)
	metrics.ObserveGenerationMs(float64(elapsed.Milliseconds()))

	if err != nil {
		return "", c.fail(ctx, req.Task, req.Prompt, err)
	}
	telemetry.Info("llm.generate", map[string]any{
		"request_id":  telemetry.RequestID(ctx),
		"provider":    c.Provider,
		"model":       c.Model,
		"task":        req.Task,
		"mode":        string(req.Mode),
		"latency_ms":  elapsed.Milliseconds(),
		"prompt_hash": HashPrompt(req.Prompt),
		"resp_chars":  len(raw),
	})
	return raw, nil
}

func (c *Client) fail(ctx context.Context, task, prompt string, err error) error {
	metrics.IncGenerationFailure(c.Provider, task)
	telemetry.Error("llm.generate.failed", map[string]any{
		"request_id":  telemetry.RequestID(ctx),
		"provider":    c.Provider,
		"model":       c.Model,
		"task":        task,
		"prompt_hash": HashPrompt(prompt),
		"err":         err.Error(),
	})
	return apperr.Generation(task, err)
}

// HashPrompt returns a hex sha256 of the prompt for log correlation.
func HashPrompt(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}
