package repository

import (
	"context"
	"errors"
	"time"

	"github.com/gradely/gradebook-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrTestNotFound = errors.New("test not found")

// TestRepository handles test data access.
type TestRepository struct {
	pool *pgxpool.Pool
}

// NewTestRepository creates a new TestRepository.
func NewTestRepository(pool *pgxpool.Pool) *TestRepository {
	return &TestRepository{pool: pool}
}

// GetByID retrieves a test by ID.
func (r *TestRepository) GetByID(ctx context.Context, id int) (*model.Test, error) {
	t := &model.Test{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, date, course_id, created_at, updated_at
		 FROM tests WHERE id = $1`, id,
	).Scan(&t.ID, &t.Name, &t.Date, &t.CourseID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTestNotFound
		}
		return nil, err
	}
	return t, nil
}

// GetCourseID resolves the course a test belongs to. The second return is
// false when the test does not exist.
func (r *TestRepository) GetCourseID(ctx context.Context, testID int) (int, bool, error) {
	var courseID int
	err := r.pool.QueryRow(ctx, `SELECT course_id FROM tests WHERE id = $1`, testID).Scan(&courseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return courseID, true, nil
}

// Create inserts a test under a course.
func (r *TestRepository) Create(ctx context.Context, t *model.Test) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO tests (name, date, course_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		t.Name, t.Date, t.CourseID,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

// Update modifies a test's name and/or date.
func (r *TestRepository) Update(ctx context.Context, id int, name string, date *time.Time) (*model.Test, error) {
	t := &model.Test{}
	err := r.pool.QueryRow(ctx,
		`UPDATE tests
		 SET name       = COALESCE(NULLIF($1, ''), name),
		     date       = COALESCE($2, date),
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = $3
		 RETURNING id, name, date, course_id, created_at, updated_at`,
		name, date, id,
	).Scan(&t.ID, &t.Name, &t.Date, &t.CourseID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTestNotFound
		}
		return nil, err
	}
	return t, nil
}

// Delete removes a test and its results in one transaction.
func (r *TestRepository) Delete(ctx context.Context, id int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM test_results WHERE test_id = $1`, id); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM tests WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTestNotFound
	}

	return tx.Commit(ctx)
}
