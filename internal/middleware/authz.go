package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gradely/gradebook-backend/internal/authz"
	"github.com/gradely/gradebook-backend/internal/response"
)

// Guard adapters: each wraps a pure authz predicate, feeding it the derived
// credentials and the path-addressed resource ID. Denials answer a generic
// 403 — including when the resource does not exist, so existence never leaks.

// RequireAdmin allows only admins through.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		creds := GetCredentials(c)
		if creds == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}
		if authz.RequireAdmin(creds) != authz.Allow {
			response.AbortFail(c, http.StatusForbidden, response.ErrForbidden)
			return
		}
		c.Next()
	}
}

// RequireSelfOrAdmin allows the user addressed by the path param, or an admin.
func RequireSelfOrAdmin(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		creds := GetCredentials(c)
		if creds == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}
		requestedID, ok := intParam(c, param)
		if !ok {
			return
		}
		if authz.RequireSelfOrAdmin(creds, requestedID) != authz.Allow {
			response.AbortFail(c, http.StatusForbidden, response.ErrForbidden)
			return
		}
		c.Next()
	}
}

// RequireCourseTeacherOrAdmin allows a teacher of the addressed course, or an
// admin.
func RequireCourseTeacherOrAdmin(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		creds := GetCredentials(c)
		if creds == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}
		courseID, ok := intParam(c, param)
		if !ok {
			return
		}
		if authz.RequireCourseTeacherOrAdmin(creds, courseID) != authz.Allow {
			response.AbortFail(c, http.StatusForbidden, response.ErrForbidden)
			return
		}
		c.Next()
	}
}

// RequireTestTeacherOrAdmin allows a teacher of the addressed test's course,
// or an admin.
func RequireTestTeacherOrAdmin(param string, lookup authz.CourseIDLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		creds := GetCredentials(c)
		if creds == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}
		testID, ok := intParam(c, param)
		if !ok {
			return
		}
		decision, err := authz.RequireTestTeacherOrAdmin(c.Request.Context(), creds, testID, lookup)
		if err != nil {
			response.AbortFail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}
		if decision != authz.Allow {
			response.AbortFail(c, http.StatusForbidden, response.ErrForbidden)
			return
		}
		c.Next()
	}
}

// RequireTestResultGraderOrAdmin allows the grader of the addressed result,
// or an admin.
func RequireTestResultGraderOrAdmin(param string, lookup authz.GraderIDLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		creds := GetCredentials(c)
		if creds == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}
		resultID, ok := intParam(c, param)
		if !ok {
			return
		}
		decision, err := authz.RequireTestResultGraderOrAdmin(c.Request.Context(), creds, resultID, lookup)
		if err != nil {
			response.AbortFail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}
		if decision != authz.Allow {
			response.AbortFail(c, http.StatusForbidden, response.ErrForbidden)
			return
		}
		c.Next()
	}
}

// intParam parses a positive integer path parameter, aborting with 400 on
// malformed input.
func intParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		response.AbortFail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}
