package service

import (
	"context"

	"github.com/gradely/gradebook-backend/internal/model"
	"github.com/gradely/gradebook-backend/internal/repository"
)

// EnrollmentService handles course membership operations.
type EnrollmentService struct {
	enrollments *repository.EnrollmentRepository
}

// NewEnrollmentService creates a new EnrollmentService.
func NewEnrollmentService(enrollments *repository.EnrollmentRepository) *EnrollmentService {
	return &EnrollmentService{enrollments: enrollments}
}

// ListCoursesByUser retrieves the courses a user is enrolled in.
func (s *EnrollmentService) ListCoursesByUser(ctx context.Context, userID int) ([]model.Course, error) {
	return s.enrollments.ListCoursesByUser(ctx, userID)
}

// Enroll adds a user to a course under a role.
func (s *EnrollmentService) Enroll(ctx context.Context, userID int, req *model.CreateEnrollmentRequest) (*model.CourseEnrollment, error) {
	e := &model.CourseEnrollment{
		UserID:   userID,
		CourseID: req.CourseID,
		Role:     req.Role,
	}
	if err := s.enrollments.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Withdraw removes a user's enrollment in a course.
func (s *EnrollmentService) Withdraw(ctx context.Context, userID, courseID int) error {
	return s.enrollments.Delete(ctx, userID, courseID)
}
