package health

import (
	"context"
	"time"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Service reports whether the API can reach its backing store.
type Service struct {
	DB          Pinger
	LLMProvider string
	Timeout     time.Duration
}

// NewService builds the health service. db may be nil when the API runs on
// in-memory repositories.
func NewService(db Pinger, llmProvider string) *Service {
	return &Service{DB: db, LLMProvider: llmProvider, Timeout: 2 * time.Second}
}

type Status struct {
	OK          bool   `json:"ok"`
	Storage     string `json:"storage"`
	LLMProvider string `json:"llmProvider"`
}

// Status pings the database, if any.
func (s *Service) Status(ctx context.Context) Status {
	st := Status{OK: true, Storage: "memory", LLMProvider: s.LLMProvider}
	if s.DB == nil {
		return st
	}
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()
	if err := s.DB.PingContext(ctx); err != nil {
		st.OK = false
		st.Storage = "postgres:unreachable"
		return st
	}
	st.Storage = "postgres"
	return st
}
