package model

import "time"

// Course groups tests and enrolled members.
type Course struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	CourseDetails string    `json:"course_details"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CourseWithTests is a course joined with its tests for detail views.
type CourseWithTests struct {
	Course
	Tests []Test `json:"tests"`
}

// CreateCourseRequest is the payload for creating a new course.
type CreateCourseRequest struct {
	Name          string `json:"name" binding:"required,max=255"`
	CourseDetails string `json:"course_details" binding:"required"`
}

// UpdateCourseRequest is the payload for updating an existing course.
type UpdateCourseRequest struct {
	Name          string `json:"name" binding:"omitempty,max=255"`
	CourseDetails string `json:"course_details" binding:"omitempty"`
}
