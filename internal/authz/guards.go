// Package authz holds the resource-ownership guards evaluated before
// mutating operations. Guards are pure predicates over the caller's derived
// credentials and a request-addressed resource reference: they read, never
// write, and a missing resource is indistinguishable from a forbidden one so
// existence never leaks to unauthorized callers.
package authz

import (
	"context"

	"github.com/gradely/gradebook-backend/internal/model"
)

// Decision is a guard outcome.
type Decision int

const (
	Deny Decision = iota
	Allow
)

// CourseIDLookup resolves the course a test belongs to. found is false when
// the test does not exist.
type CourseIDLookup func(ctx context.Context, testID int) (courseID int, found bool, err error)

// GraderIDLookup resolves who graded a test result. found is false when the
// result does not exist.
type GraderIDLookup func(ctx context.Context, testResultID int) (graderID int, found bool, err error)

// RequireAdmin allows only admins.
func RequireAdmin(creds *model.Credentials) Decision {
	if creds.IsAdmin {
		return Allow
	}
	return Deny
}

// RequireSelfOrAdmin allows the addressed user themselves, or an admin.
func RequireSelfOrAdmin(creds *model.Credentials, requestedUserID int) Decision {
	if creds.IsAdmin || creds.UserID == requestedUserID {
		return Allow
	}
	return Deny
}

// RequireCourseTeacherOrAdmin allows a teacher of the course, or an admin.
func RequireCourseTeacherOrAdmin(creds *model.Credentials, courseID int) Decision {
	if creds.IsAdmin || creds.TeachesCourse(courseID) {
		return Allow
	}
	return Deny
}

// RequireTestTeacherOrAdmin resolves the test's owning course and delegates
// to RequireCourseTeacherOrAdmin. A missing test evaluates membership against
// no course and denies.
func RequireTestTeacherOrAdmin(ctx context.Context, creds *model.Credentials, testID int, lookup CourseIDLookup) (Decision, error) {
	if creds.IsAdmin {
		return Allow, nil
	}

	courseID, found, err := lookup(ctx, testID)
	if err != nil {
		return Deny, err
	}
	if found && creds.TeachesCourse(courseID) {
		return Allow, nil
	}
	return Deny, nil
}

// RequireTestResultGraderOrAdmin allows the grader who recorded the result,
// or an admin. A missing result denies.
func RequireTestResultGraderOrAdmin(ctx context.Context, creds *model.Credentials, testResultID int, lookup GraderIDLookup) (Decision, error) {
	if creds.IsAdmin {
		return Allow, nil
	}

	graderID, found, err := lookup(ctx, testResultID)
	if err != nil {
		return Deny, err
	}
	if found && creds.UserID == graderID {
		return Allow, nil
	}
	return Deny, nil
}
