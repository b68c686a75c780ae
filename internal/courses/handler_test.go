package courses

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"sensai-backend/internal/access"
	"sensai-backend/internal/users"
)

func newRouter(svc *Service, caller *users.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	setUser := func(c *gin.Context) {
		if caller != nil {
			access.SetUser(c, *caller)
		}
		c.Next()
	}
	h := NewHandler(svc)
	h.RegisterPublicRoutes(router.Group("/api/v1", setUser))
	h.RegisterRoutes(router.Group("/api/v1", setUser))
	return router
}

func do(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestHandlerCourseLifecycle(t *testing.T) {
	svc := newTestService(oracle(nil), nil)
	owner := &users.User{ID: "owner"}
	ownerRouter := newRouter(svc, owner)
	anonRouter := newRouter(svc, nil)

	resp := do(ownerRouter, http.MethodPost, "/api/v1/courses/layout",
		`{"category":"Programming","topic":"Go","level":"Beginner","duration":"2 hours","noOfChapters":"2","includeVideo":"No"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var course Course
	if err := json.Unmarshal(resp.Body.Bytes(), &course); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if course.IncludeVideo || len(course.Chapters) != 2 {
		t.Fatalf("unexpected course: %#v", course)
	}

	if resp := do(anonRouter, http.MethodGet, "/api/v1/courses/"+course.ID, ""); resp.Code != http.StatusNotFound {
		t.Fatalf("expected draft hidden from anonymous caller, got %d", resp.Code)
	}
	if resp := do(ownerRouter, http.MethodGet, "/api/v1/courses/mine", ""); resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), course.ID) {
		t.Fatalf("expected course in mine, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = do(ownerRouter, http.MethodPost, "/api/v1/courses/"+course.ID+"/chapters",
		`{"chapters":[{"content":{"chapter":"A"}},{"content":{"chapter":"B"},"videoId":"v2"},{"content":{"chapter":"C"}}]}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var reconciled struct {
		Course Course          `json:"course"`
		Result ReconcileResult `json:"result"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &reconciled); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if reconciled.Result.Created != 1 || reconciled.Result.Updated != 2 || !reconciled.Course.Publish {
		t.Fatalf("unexpected reconcile response: %#v", reconciled)
	}

	resp = do(anonRouter, http.MethodGet, "/api/v1/courses/"+course.ID+"/chapters/2", "")
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), `"videoId":"v2"`) {
		t.Fatalf("expected chapter 2, got %d: %s", resp.Code, resp.Body.String())
	}
	if resp := do(anonRouter, http.MethodGet, "/api/v1/courses/"+course.ID+"/chapters/zero", ""); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad position, got %d", resp.Code)
	}
	if resp := do(anonRouter, http.MethodGet, "/api/v1/courses", ""); resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), course.ID) {
		t.Fatalf("expected published course in list, got %d", resp.Code)
	}

	intruder := newRouter(svc, &users.User{ID: "intruder"})
	if resp := do(intruder, http.MethodDelete, "/api/v1/courses/"+course.ID, ""); resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner delete, got %d", resp.Code)
	}
	if resp := do(ownerRouter, http.MethodDelete, "/api/v1/courses/"+course.ID, ""); resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
}

func TestHandlerCreateRejectsBadLayout(t *testing.T) {
	router := newRouter(newTestService(oracle(nil), nil), &users.User{ID: "owner"})
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed", body: `{"name":`},
		{name: "bad include video", body: `{"name":"x","level":"Beginner","includeVideo":"maybe","courseOutput":{"chapters":[{"chapterName":"a"}]}}`},
		{name: "no chapters", body: `{"name":"x","level":"Beginner","courseOutput":{"chapters":[]}}`},
		{name: "bad level", body: `{"name":"x","level":"Guru","courseOutput":{"chapters":[{"chapterName":"a"}]}}`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if resp := do(router, http.MethodPost, "/api/v1/courses", tt.body); resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", resp.Code, resp.Body.String())
			}
		})
	}
}
