package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"sensai-backend/internal/shared/apperr"
)

func TestFromErrorMapsTaxonomy(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{name: "unauthorized", err: apperr.ErrUnauthorized, wantStatus: http.StatusUnauthorized, wantCode: "unauthorized", wantMsg: "unauthorized"},
		{name: "not found", err: fmt.Errorf("load: %w", apperr.NotFound("course")), wantStatus: http.StatusNotFound, wantCode: "not_found", wantMsg: "course not found"},
		{name: "invalid", err: apperr.Invalid("level must be Beginner"), wantStatus: http.StatusBadRequest, wantCode: "invalid_request", wantMsg: "level must be Beginner"},
		{name: "generation", err: apperr.Generation("course_layout", errors.New("boom")), wantStatus: http.StatusBadGateway, wantCode: "generation_failed", wantMsg: "fallback"},
		{name: "persistence", err: apperr.Persistence("insert", errors.New("conn reset")), wantStatus: http.StatusInternalServerError, wantCode: "internal_error", wantMsg: "fallback"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

			FromError(c, tt.err, "fallback")

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			var body ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Code != tt.wantCode || body.Error != tt.wantMsg {
				t.Fatalf("unexpected body: %#v", body)
			}
		})
	}
}
