package bootstrap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sensai-backend/internal/shared/config"
	"sensai-backend/internal/users"
)

func devConfig(t *testing.T) config.Config {
	return config.Config{
		Env:             "dev",
		JWTIssuer:       "sensai",
		JWTTTL:          time.Hour,
		LLMProvider:     "none",
		ObjectStoreType: "local",
		LocalStoreDir:   t.TempDir(),
		MaxUploadBytes:  1 << 20,
		InsightTTL:      time.Hour,
		CORSAllowOrigin: []string{"http://localhost:3000"},
	}
}

func TestBuildInMemoryServesAuthenticatedRoutes(t *testing.T) {
	ctx := context.Background()
	app, err := Build(ctx, devConfig(t))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })

	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), `"storage":"memory"`) {
		t.Fatalf("unexpected health: %d %s", resp.Code, resp.Body.String())
	}

	resp = httptest.NewRecorder()
	app.Router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/me", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.Code)
	}

	user, err := app.Users.Provision(ctx, users.Identity{ExternalID: "google:42", Email: "a@example.com", FullName: "Ada"})
	if err != nil {
		t.Fatalf("Provision: %v", err)
	}
	token, err := app.Signer.Sign("google:42", user.Email, user.FullName, "")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp = httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d: %s", resp.Code, resp.Body.String())
	}
	var me struct {
		User        users.User `json:"user"`
		IsOnboarded bool       `json:"isOnboarded"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &me); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if me.User.ID != user.ID || me.IsOnboarded {
		t.Fatalf("unexpected /me payload: %s", resp.Body.String())
	}

	resp = httptest.NewRecorder()
	app.Router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/courses", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected public course list, got %d", resp.Code)
	}
}

func TestBuildLLMRequiresKeyOutsideDev(t *testing.T) {
	cfg := devConfig(t)
	cfg.Env = "staging"
	cfg.LLMProvider = "openai"
	if _, err := BuildLLM(context.Background(), cfg); err == nil {
		t.Fatalf("expected error without api key")
	}
	cfg.Env = "dev"
	client, err := BuildLLM(context.Background(), cfg)
	if err != nil {
		t.Fatalf("BuildLLM: %v", err)
	}
	if client.Provider != "none" {
		t.Fatalf("expected placeholder provider, got %q", client.Provider)
	}
}
