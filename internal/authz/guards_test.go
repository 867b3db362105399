package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/gradely/gradebook-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func admin() *model.Credentials {
	return &model.Credentials{UserID: 1, IsAdmin: true}
}

func teacherOf(courseIDs ...int) *model.Credentials {
	return &model.Credentials{UserID: 2, TeacherOf: courseIDs}
}

func student() *model.Credentials {
	return &model.Credentials{UserID: 3}
}

func staticCourseLookup(courseID int, found bool) CourseIDLookup {
	return func(ctx context.Context, testID int) (int, bool, error) {
		return courseID, found, nil
	}
}

func staticGraderLookup(graderID int, found bool) GraderIDLookup {
	return func(ctx context.Context, testResultID int) (int, bool, error) {
		return graderID, found, nil
	}
}

func TestRequireAdmin(t *testing.T) {
	assert.Equal(t, Allow, RequireAdmin(admin()))
	assert.Equal(t, Deny, RequireAdmin(teacherOf(1)))
	assert.Equal(t, Deny, RequireAdmin(student()))
}

func TestRequireSelfOrAdmin(t *testing.T) {
	tests := []struct {
		name        string
		creds       *model.Credentials
		requestedID int
		want        Decision
	}{
		{"self", student(), 3, Allow},
		{"other user", student(), 4, Deny},
		{"admin for anyone", admin(), 99, Allow},
		{"teacher role grants nothing here", teacherOf(1), 99, Deny},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RequireSelfOrAdmin(tt.creds, tt.requestedID))
		})
	}
}

func TestRequireCourseTeacherOrAdmin(t *testing.T) {
	tests := []struct {
		name     string
		creds    *model.Credentials
		courseID int
		want     Decision
	}{
		{"teacher of the course", teacherOf(10, 20), 10, Allow},
		{"teacher of a different course", teacherOf(10, 20), 30, Deny},
		{"student", student(), 10, Deny},
		{"admin", admin(), 10, Allow},
		{"no roles at all", &model.Credentials{UserID: 5}, 10, Deny},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RequireCourseTeacherOrAdmin(tt.creds, tt.courseID))
		})
	}
}

func TestRequireTestTeacherOrAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("teacher of the owning course", func(t *testing.T) {
		d, err := RequireTestTeacherOrAdmin(ctx, teacherOf(10), 1, staticCourseLookup(10, true))
		require.NoError(t, err)
		assert.Equal(t, Allow, d)
	})

	t.Run("teacher of another course", func(t *testing.T) {
		d, err := RequireTestTeacherOrAdmin(ctx, teacherOf(20), 1, staticCourseLookup(10, true))
		require.NoError(t, err)
		assert.Equal(t, Deny, d)
	})

	t.Run("missing test denies like an ownership miss", func(t *testing.T) {
		d, err := RequireTestTeacherOrAdmin(ctx, teacherOf(10), 1, staticCourseLookup(0, false))
		require.NoError(t, err)
		assert.Equal(t, Deny, d)
	})

	t.Run("admin skips the lookup", func(t *testing.T) {
		lookup := func(ctx context.Context, testID int) (int, bool, error) {
			t.Fatal("lookup must not run for admins")
			return 0, false, nil
		}
		d, err := RequireTestTeacherOrAdmin(ctx, admin(), 1, lookup)
		require.NoError(t, err)
		assert.Equal(t, Allow, d)
	})

	t.Run("lookup failure denies and surfaces the error", func(t *testing.T) {
		boom := errors.New("connection refused")
		lookup := func(ctx context.Context, testID int) (int, bool, error) {
			return 0, false, boom
		}
		d, err := RequireTestTeacherOrAdmin(ctx, teacherOf(10), 1, lookup)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, Deny, d)
	})
}

func TestRequireTestResultGraderOrAdmin(t *testing.T) {
	ctx := context.Background()
	grader := &model.Credentials{UserID: 8}

	t.Run("grader of the result", func(t *testing.T) {
		d, err := RequireTestResultGraderOrAdmin(ctx, grader, 1, staticGraderLookup(8, true))
		require.NoError(t, err)
		assert.Equal(t, Allow, d)
	})

	t.Run("someone else", func(t *testing.T) {
		d, err := RequireTestResultGraderOrAdmin(ctx, student(), 1, staticGraderLookup(8, true))
		require.NoError(t, err)
		assert.Equal(t, Deny, d)
	})

	t.Run("missing result denies like an ownership miss", func(t *testing.T) {
		d, err := RequireTestResultGraderOrAdmin(ctx, grader, 1, staticGraderLookup(0, false))
		require.NoError(t, err)
		assert.Equal(t, Deny, d)
	})

	t.Run("admin skips the lookup", func(t *testing.T) {
		lookup := func(ctx context.Context, testResultID int) (int, bool, error) {
			t.Fatal("lookup must not run for admins")
			return 0, false, nil
		}
		d, err := RequireTestResultGraderOrAdmin(ctx, admin(), 1, lookup)
		require.NoError(t, err)
		assert.Equal(t, Allow, d)
	})

	t.Run("lookup failure denies and surfaces the error", func(t *testing.T) {
		boom := errors.New("connection refused")
		lookup := func(ctx context.Context, testResultID int) (int, bool, error) {
			return 0, false, boom
		}
		d, err := RequireTestResultGraderOrAdmin(ctx, grader, 1, lookup)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, Deny, d)
	})
}
