package insights

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"sensai-backend/internal/access"
	"sensai-backend/internal/users"
)

func TestHandlerInsights(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name     string
		user     users.User
		wantCode int
		wantBody string
	}{
		{name: "onboarded", user: onboarded, wantCode: http.StatusOK, wantBody: `"industry":"tech-data"`},
		{name: "not onboarded", user: users.User{ID: "user-2"}, wantCode: http.StatusBadRequest, wantBody: "onboarding"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			svc, _ := newTestService(&calls, false)
			router := gin.New()
			rg := router.Group("/api/v1", func(c *gin.Context) {
				access.SetUser(c, tt.user)
				c.Next()
			})
			NewHandler(svc).RegisterRoutes(rg)

			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/insights", nil))
			if resp.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d: %s", tt.wantCode, resp.Code, resp.Body.String())
			}
			if !strings.Contains(resp.Body.String(), tt.wantBody) {
				t.Fatalf("expected body to contain %q, got %s", tt.wantBody, resp.Body.String())
			}
		})
	}
}
