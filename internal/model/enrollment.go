package model

import "time"

// CourseRole is a user's role within one course. Roles are per-course, not
// global: the same user may teach one course and attend another.
type CourseRole string

const (
	CourseRoleTeacher CourseRole = "TEACHER"
	CourseRoleStudent CourseRole = "STUDENT"
)

// CourseEnrollment associates a user with a course under a role. At most one
// enrollment exists per (user, course) pair.
type CourseEnrollment struct {
	UserID    int        `json:"user_id"`
	CourseID  int        `json:"course_id"`
	Role      CourseRole `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
}

// CreateEnrollmentRequest is the payload for enrolling a user in a course.
type CreateEnrollmentRequest struct {
	CourseID int        `json:"course_id" binding:"required,min=1"`
	Role     CourseRole `json:"role" binding:"required,oneof=TEACHER STUDENT"`
}
