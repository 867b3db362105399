package repository

import (
	"context"
	"errors"

	"github.com/gradely/gradebook-backend/internal/model"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrAlreadyEnrolled    = errors.New("user already enrolled in this course")
)

// EnrollmentRepository handles course enrollment data access.
type EnrollmentRepository struct {
	pool *pgxpool.Pool
}

// NewEnrollmentRepository creates a new EnrollmentRepository.
func NewEnrollmentRepository(pool *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{pool: pool}
}

// ListTeacherCourseIDs returns the IDs of every course the user teaches.
// Queried on each authenticated request by the credential resolver so role
// changes take effect immediately.
func (r *EnrollmentRepository) ListTeacherCourseIDs(ctx context.Context, userID int) ([]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT course_id FROM course_enrollments WHERE user_id = $1 AND role = $2`,
		userID, model.CourseRoleTeacher)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListCoursesByUser retrieves all courses a user is enrolled in, any role.
func (r *EnrollmentRepository) ListCoursesByUser(ctx context.Context, userID int) ([]model.Course, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT c.id, c.name, c.course_details, c.created_at, c.updated_at
		 FROM courses c
		 JOIN course_enrollments e ON e.course_id = c.id
		 WHERE e.user_id = $1
		 ORDER BY c.name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := []model.Course{}
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Name, &c.CourseDetails, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// Create enrolls a user in a course under a role.
func (r *EnrollmentRepository) Create(ctx context.Context, e *model.CourseEnrollment) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO course_enrollments (user_id, course_id, role)
		 VALUES ($1, $2, $3)
		 RETURNING created_at`,
		e.UserID, e.CourseID, e.Role,
	).Scan(&e.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAlreadyEnrolled
		}
		return err
	}
	return nil
}

// Delete removes a user's enrollment in a course.
func (r *EnrollmentRepository) Delete(ctx context.Context, userID, courseID int) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM course_enrollments WHERE user_id = $1 AND course_id = $2`,
		userID, courseID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEnrollmentNotFound
	}
	return nil
}
