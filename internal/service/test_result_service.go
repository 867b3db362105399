package service

import (
	"context"

	"github.com/gradely/gradebook-backend/internal/model"
	"github.com/gradely/gradebook-backend/internal/repository"
)

// TestResultService handles graded result operations.
type TestResultService struct {
	results *repository.TestResultRepository
}

// NewTestResultService creates a new TestResultService.
func NewTestResultService(results *repository.TestResultRepository) *TestResultService {
	return &TestResultService{results: results}
}

// ListByTest retrieves all results for a test.
func (s *TestResultService) ListByTest(ctx context.Context, testID int) ([]model.TestResult, error) {
	return s.results.ListByTest(ctx, testID)
}

// ListByStudent retrieves all results belonging to a student.
func (s *TestResultService) ListByStudent(ctx context.Context, studentID int) ([]model.TestResult, error) {
	return s.results.ListByStudent(ctx, studentID)
}

// GraderIDOf resolves a result's grader for the grader guard.
func (s *TestResultService) GraderIDOf(ctx context.Context, id int) (int, bool, error) {
	return s.results.GetGraderID(ctx, id)
}

// Create records a result for a student on a test.
func (s *TestResultService) Create(ctx context.Context, testID int, req *model.CreateTestResultRequest) (*model.TestResult, error) {
	tr := &model.TestResult{
		Result:    req.Result,
		StudentID: req.StudentID,
		GraderID:  req.GraderID,
		TestID:    testID,
	}
	if err := s.results.Create(ctx, tr); err != nil {
		return nil, err
	}
	return tr, nil
}

// Update re-grades a result. Only the value changes.
func (s *TestResultService) Update(ctx context.Context, id int, req *model.UpdateTestResultRequest) (*model.TestResult, error) {
	return s.results.UpdateResult(ctx, id, req.Result)
}

// Delete removes a result.
func (s *TestResultService) Delete(ctx context.Context, id int) error {
	return s.results.Delete(ctx, id)
}
