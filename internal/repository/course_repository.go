package repository

import (
	"context"
	"errors"

	"github.com/gradely/gradebook-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrCourseNotFound = errors.New("course not found")

// CourseRepository handles course data access.
type CourseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

// GetByID retrieves a course by ID together with its tests.
func (r *CourseRepository) GetByID(ctx context.Context, id int) (*model.CourseWithTests, error) {
	c := &model.CourseWithTests{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, course_details, created_at, updated_at
		 FROM courses WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.CourseDetails, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	tests, err := r.listTests(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Tests = tests
	return c, nil
}

// List retrieves all courses.
func (r *CourseRepository) List(ctx context.Context) ([]model.Course, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, course_details, created_at, updated_at
		 FROM courses ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Name, &c.CourseDetails, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// Create inserts a course and enrolls the creator as its TEACHER in the same
// transaction.
func (r *CourseRepository) Create(ctx context.Context, c *model.Course, creatorID int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO courses (name, course_details)
		 VALUES ($1, $2)
		 RETURNING id, created_at, updated_at`,
		c.Name, c.CourseDetails,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO course_enrollments (user_id, course_id, role)
		 VALUES ($1, $2, $3)`,
		creatorID, c.ID, model.CourseRoleTeacher,
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Update modifies a course. Empty fields are left unchanged.
func (r *CourseRepository) Update(ctx context.Context, id int, name, details string) (*model.Course, error) {
	c := &model.Course{}
	err := r.pool.QueryRow(ctx,
		`UPDATE courses
		 SET name           = COALESCE(NULLIF($1, ''), name),
		     course_details = COALESCE(NULLIF($2, ''), course_details),
		     updated_at     = CURRENT_TIMESTAMP
		 WHERE id = $3
		 RETURNING id, name, course_details, created_at, updated_at`,
		name, details, id,
	).Scan(&c.ID, &c.Name, &c.CourseDetails, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return c, nil
}

// Delete removes a course and its enrollments, tests, and results in one
// transaction.
func (r *CourseRepository) Delete(ctx context.Context, id int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM course_enrollments WHERE course_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`DELETE FROM test_results WHERE test_id IN (SELECT id FROM tests WHERE course_id = $1)`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM tests WHERE course_id = $1`, id); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCourseNotFound
	}

	return tx.Commit(ctx)
}

func (r *CourseRepository) listTests(ctx context.Context, courseID int) ([]model.Test, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, date, course_id, created_at, updated_at
		 FROM tests WHERE course_id = $1 ORDER BY date`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tests := []model.Test{}
	for rows.Next() {
		var t model.Test
		if err := rows.Scan(&t.ID, &t.Name, &t.Date, &t.CourseID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tests = append(tests, t)
	}
	return tests, rows.Err()
}
