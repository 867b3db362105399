package service

import (
	"context"

	"github.com/gradely/gradebook-backend/internal/model"
	"github.com/gradely/gradebook-backend/internal/repository"
)

// TestService handles test operations.
type TestService struct {
	tests *repository.TestRepository
}

// NewTestService creates a new TestService.
func NewTestService(tests *repository.TestRepository) *TestService {
	return &TestService{tests: tests}
}

// GetByID retrieves a test.
func (s *TestService) GetByID(ctx context.Context, id int) (*model.Test, error) {
	return s.tests.GetByID(ctx, id)
}

// CourseIDOf resolves a test's owning course for the teacher guard.
func (s *TestService) CourseIDOf(ctx context.Context, testID int) (int, bool, error) {
	return s.tests.GetCourseID(ctx, testID)
}

// Create inserts a test under a course.
func (s *TestService) Create(ctx context.Context, courseID int, req *model.CreateTestRequest) (*model.Test, error) {
	t := &model.Test{
		Name:     req.Name,
		Date:     req.Date,
		CourseID: courseID,
	}
	if err := s.tests.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Update modifies a test.
func (s *TestService) Update(ctx context.Context, id int, req *model.UpdateTestRequest) (*model.Test, error) {
	return s.tests.Update(ctx, id, req.Name, req.Date)
}

// Delete removes a test and its results.
func (s *TestService) Delete(ctx context.Context, id int) error {
	return s.tests.Delete(ctx, id)
}
