package model

import "time"

// Test is a graded assessment belonging to a course.
type Test struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Date      time.Time `json:"date"`
	CourseID  int       `json:"course_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateTestRequest is the payload for creating a test under a course.
type CreateTestRequest struct {
	Name string    `json:"name" binding:"required,max=255"`
	Date time.Time `json:"date" binding:"required"`
}

// UpdateTestRequest is the payload for updating a test.
type UpdateTestRequest struct {
	Name string     `json:"name" binding:"omitempty,max=255"`
	Date *time.Time `json:"date" binding:"omitempty"`
}
