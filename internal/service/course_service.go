package service

import (
	"context"

	"github.com/gradely/gradebook-backend/internal/model"
	"github.com/gradely/gradebook-backend/internal/repository"
)

// CourseService handles course operations.
type CourseService struct {
	courses *repository.CourseRepository
}

// NewCourseService creates a new CourseService.
func NewCourseService(courses *repository.CourseRepository) *CourseService {
	return &CourseService{courses: courses}
}

// GetByID retrieves a course with its tests.
func (s *CourseService) GetByID(ctx context.Context, id int) (*model.CourseWithTests, error) {
	return s.courses.GetByID(ctx, id)
}

// List retrieves all courses.
func (s *CourseService) List(ctx context.Context) ([]model.Course, error) {
	return s.courses.List(ctx)
}

// Create inserts a course. The creator becomes its first TEACHER so they can
// manage what they just made.
func (s *CourseService) Create(ctx context.Context, req *model.CreateCourseRequest, creatorID int) (*model.Course, error) {
	c := &model.Course{
		Name:          req.Name,
		CourseDetails: req.CourseDetails,
	}
	if err := s.courses.Create(ctx, c, creatorID); err != nil {
		return nil, err
	}
	return c, nil
}

// Update modifies a course.
func (s *CourseService) Update(ctx context.Context, id int, req *model.UpdateCourseRequest) (*model.Course, error) {
	return s.courses.Update(ctx, id, req.Name, req.CourseDetails)
}

// Delete removes a course and everything under it.
func (s *CourseService) Delete(ctx context.Context, id int) error {
	return s.courses.Delete(ctx, id)
}
