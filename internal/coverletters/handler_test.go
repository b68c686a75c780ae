package coverletters

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"sensai-backend/internal/access"
	"sensai-backend/internal/llm"
)

func TestHandlerLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, _, _ := newService(t, func(ctx context.Context, req llm.Request) (string, error) {
		return "Dear team,", nil
	})
	router := gin.New()
	rg := router.Group("/api/v1", func(c *gin.Context) {
		access.SetUser(c, testUser)
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(rg)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cover-letters", strings.NewReader(`{"jobTitle":"SRE","companyName":"Initech","jobDescription":"pager"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created CoverLetter
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cover-letters/"+created.ID, nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodDelete, "/api/v1/cover-letters/"+created.ID, nil))
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cover-letters/"+created.ID, nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.Code)
	}
}
