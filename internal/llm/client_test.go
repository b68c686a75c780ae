package llm

import (
	"context"
	"errors"
	"testing"

	"sensai-backend/internal/shared/apperr"
)

func staticOracle(out string, err error) Oracle {
	return OracleFunc(func(ctx context.Context, req Request) (string, error) {
		return out, err
	})
}

func TestExtractJSONToleratesFencesAndProse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "bare", raw: `{"a":1}`, want: `{"a":1}`},
		{name: "fenced", raw: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "fenced with prose", raw: "Sure! Here you go:\n```json {\"a\":{\"b\":2}} ```\nHope that helps.", want: `{"a":{"b":2}}`},
		{name: "prose only around", raw: "result: {\"x\": [1,2]} done", want: `{"x": [1,2]}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.raw)
			if err != nil {
				t.Fatalf("ExtractJSON: %v", err)
			}
			if got != tt.want {
				t.Fatalf("ExtractJSON = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractJSONRejects(t *testing.T) {
	for _, raw := range []string{"", "no braces", "} backwards {", "{not json}"} {
		if _, err := ExtractJSON(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestClientJSONDecodes(t *testing.T) {
	c := NewClient(staticOracle("```json\n{\"score\": 82, \"feedback\": \"ok\"}\n```", nil), "test", "m")

	var out struct {
		Score    int    `json:"score"`
		Feedback string `json:"feedback"`
	}
	if err := c.JSON(context.Background(), "ats_feedback", "prompt", &out); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if out.Score != 82 || out.Feedback != "ok" {
		t.Fatalf("unexpected decode: %#v", out)
	}
}

func TestClientFailuresWrapGenerationFailure(t *testing.T) {
	upstream := errors.New("upstream 500")
	tests := []struct {
		name   string
		oracle Oracle
		json   bool
	}{
		{name: "oracle error text", oracle: staticOracle("", upstream)},
		{name: "oracle error json", oracle: staticOracle("", upstream), json: true},
		{name: "empty text", oracle: staticOracle("   \n", nil)},
		{name: "unparsable json", oracle: staticOracle("I cannot help with that.", nil), json: true},
		{name: "placeholder", oracle: PlaceholderOracle{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(tt.oracle, "test", "m")
			var err error
			if tt.json {
				var out map[string]any
				err = c.JSON(context.Background(), "task", "p", &out)
			} else {
				_, err = c.Text(context.Background(), "task", "p")
			}
			if !errors.Is(err, apperr.ErrGenerationFailure) {
				t.Fatalf("expected generation failure, got %v", err)
			}
		})
	}
}

func TestClientTextTrims(t *testing.T) {
	c := NewClient(staticOracle("\n  Dear Hiring Manager,\n\n", nil), "test", "m")
	got, err := c.Text(context.Background(), "cover_letter", "p")
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if got != "Dear Hiring Manager," {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestClientPassesMode(t *testing.T) {
	var seen Mode
	c := NewClient(OracleFunc(func(ctx context.Context, req Request) (string, error) {
		seen = req.Mode
		return "{}", nil
	}), "test", "m")

	var out map[string]any
	if err := c.JSON(context.Background(), "t", "p", &out); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if seen != ModeJSON {
		t.Fatalf("expected json mode, got %q", seen)
	}
}
