package health

import (
	"context"
	"errors"
	"testing"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestStatus(t *testing.T) {
	tests := []struct {
		name        string
		db          Pinger
		wantOK      bool
		wantStorage string
	}{
		{name: "memory", db: nil, wantOK: true, wantStorage: "memory"},
		{name: "postgres up", db: pingFunc(func(ctx context.Context) error { return nil }), wantOK: true, wantStorage: "postgres"},
		{name: "postgres down", db: pingFunc(func(ctx context.Context) error { return errors.New("refused") }), wantOK: false, wantStorage: "postgres:unreachable"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := NewService(tt.db, "gemini").Status(context.Background())
			if got.OK != tt.wantOK || got.Storage != tt.wantStorage || got.LLMProvider != "gemini" {
				t.Fatalf("unexpected status: %#v", got)
			}
		})
	}
}
