package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gradely/gradebook-backend/internal/model"
	"github.com/stretchr/testify/assert"
)

// guardTestRouter mounts a guard on a single route, injecting the given
// credentials before it (nil credentials simulate a missing auth middleware).
func guardTestRouter(creds *model.Credentials, guard gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/r/:id", func(c *gin.Context) {
		if creds != nil {
			c.Set(ContextKeyCredentials, creds)
		}
		c.Next()
	}, guard, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func getPath(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestGuardMiddleware_NoCredentials(t *testing.T) {
	router := guardTestRouter(nil, RequireAdmin())
	w := getPath(router, "/r/1")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_REQUIRED")
}

func TestGuardMiddleware_AdminAllowDeny(t *testing.T) {
	w := getPath(guardTestRouter(&model.Credentials{UserID: 1, IsAdmin: true}, RequireAdmin()), "/r/1")
	assert.Equal(t, http.StatusOK, w.Code)

	w = getPath(guardTestRouter(&model.Credentials{UserID: 1}, RequireAdmin()), "/r/1")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")
}

func TestGuardMiddleware_SelfOrAdmin(t *testing.T) {
	creds := &model.Credentials{UserID: 5}

	assert.Equal(t, http.StatusOK, getPath(guardTestRouter(creds, RequireSelfOrAdmin("id")), "/r/5").Code)
	assert.Equal(t, http.StatusForbidden, getPath(guardTestRouter(creds, RequireSelfOrAdmin("id")), "/r/6").Code)
}

func TestGuardMiddleware_InvalidID(t *testing.T) {
	creds := &model.Credentials{UserID: 5, IsAdmin: true}
	w := getPath(guardTestRouter(creds, RequireSelfOrAdmin("id")), "/r/abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_ID")
}

func TestGuardMiddleware_CourseTeacher(t *testing.T) {
	creds := &model.Credentials{UserID: 5, TeacherOf: []int{9}}

	assert.Equal(t, http.StatusOK, getPath(guardTestRouter(creds, RequireCourseTeacherOrAdmin("id")), "/r/9").Code)
	assert.Equal(t, http.StatusForbidden, getPath(guardTestRouter(creds, RequireCourseTeacherOrAdmin("id")), "/r/8").Code)
}

func TestGuardMiddleware_TestTeacherLookup(t *testing.T) {
	creds := &model.Credentials{UserID: 5, TeacherOf: []int{9}}

	owned := func(ctx context.Context, testID int) (int, bool, error) { return 9, true, nil }
	missing := func(ctx context.Context, testID int) (int, bool, error) { return 0, false, nil }
	failing := func(ctx context.Context, testID int) (int, bool, error) { return 0, false, errors.New("connection refused") }

	assert.Equal(t, http.StatusOK, getPath(guardTestRouter(creds, RequireTestTeacherOrAdmin("id", owned)), "/r/1").Code)

	// A test that does not exist answers the same 403 as one the caller
	// does not own.
	w := getPath(guardTestRouter(creds, RequireTestTeacherOrAdmin("id", missing)), "/r/1")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")

	w = getPath(guardTestRouter(creds, RequireTestTeacherOrAdmin("id", failing)), "/r/1")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGuardMiddleware_ResultGraderLookup(t *testing.T) {
	creds := &model.Credentials{UserID: 5}

	mine := func(ctx context.Context, id int) (int, bool, error) { return 5, true, nil }
	theirs := func(ctx context.Context, id int) (int, bool, error) { return 6, true, nil }
	missing := func(ctx context.Context, id int) (int, bool, error) { return 0, false, nil }

	assert.Equal(t, http.StatusOK, getPath(guardTestRouter(creds, RequireTestResultGraderOrAdmin("id", mine)), "/r/1").Code)
	assert.Equal(t, http.StatusForbidden, getPath(guardTestRouter(creds, RequireTestResultGraderOrAdmin("id", theirs)), "/r/1").Code)
	assert.Equal(t, http.StatusForbidden, getPath(guardTestRouter(creds, RequireTestResultGraderOrAdmin("id", missing)), "/r/1").Code)
}
