package llm

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

var (
	errNoJSONObject = errors.New("no JSON object in response")
	codeFenceRe     = regexp.MustCompile("```(?:[A-Za-z0-9_-]+)?[ \t]*\n?")
)

// StripCodeFences removes every ``` fence marker, including a language tag
// such as ```json, and trims the result.
func StripCodeFences(raw string) string {
	return strings.TrimSpace(codeFenceRe.ReplaceAllString(raw, ""))
}

// ExtractJSON returns the span from the first '{' to the last '}' of raw
// once fences are removed, and checks that it is valid JSON.
func ExtractJSON(raw string) (string, error) {
	cleaned := StripCodeFences(raw)
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return "", errNoJSONObject
	}
	candidate := cleaned[start : end+1]
	if !json.Valid([]byte(candidate)) {
		return "", errors.New("invalid JSON in response")
	}
	return candidate, nil
}
