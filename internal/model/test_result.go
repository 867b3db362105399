package model

import "time"

// TestResult records a graded outcome for one student on one test. The
// student and grader are fixed at creation; only the result value may change.
type TestResult struct {
	ID        int       `json:"id"`
	Result    int       `json:"result"`
	StudentID int       `json:"student_id"`
	GraderID  int       `json:"grader_id"`
	TestID    int       `json:"test_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateTestResultRequest is the payload for recording a test result.
type CreateTestResultRequest struct {
	Result    int `json:"result" binding:"required,min=1,max=1000"`
	StudentID int `json:"student_id" binding:"required,min=1"`
	GraderID  int `json:"grader_id" binding:"required,min=1"`
}

// UpdateTestResultRequest is the payload for re-grading a test result.
type UpdateTestResultRequest struct {
	Result int `json:"result" binding:"required,min=1,max=1000"`
}
