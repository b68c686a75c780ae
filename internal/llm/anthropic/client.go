// Package anthropic is an llm.Oracle backed by the Anthropic Messages API.
package anthropic

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/pkg/errors"

	"sensai-backend/internal/llm"
)

// DefaultModel is used when LLM_MODEL is empty.
const DefaultModel = "claude-3-7-sonnet-latest"

const maxTokens = 8192

const jsonInstruction = "Respond with a single JSON object only. Do not wrap it in markdown."

// Client implements llm.Oracle using Claude.
type Client struct {
	model  string
	client anthropic.Client
}

// NewClient constructs a Claude client. The SDK's automatic retries are
// disabled; each Complete is one attempt.
func NewClient(apiKey, model string, opts ...option.RequestOption) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("ANTHROPIC_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	base := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	return &Client{
		model:  model,
		client: anthropic.NewClient(append(base, opts...)...),
	}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

// Complete sends one Messages.New call and concatenates the text blocks.
func (c *Client) Complete(ctx context.Context, req llm.Request) (text string, err error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(1),
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: req.Prompt},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	}
	if req.Mode == llm.ModeJSON {
		params.System = []anthropic.TextBlockParam{{Text: jsonInstruction}}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		err = errors.Wrap(err, "claude messages request failed")
		return text, err
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type != "text" {
			continue
		}
		b.WriteString(block.AsText().Text)
	}
	text = strings.TrimSpace(b.String())
	if text == "" {
		err = errors.New("claude response had no text content")
		return text, err
	}
	return text, err
}

var _ llm.Oracle = (*Client)(nil)
