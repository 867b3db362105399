package repository

import (
	"context"
	"errors"

	"github.com/gradely/gradebook-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrTestResultNotFound = errors.New("test result not found")

// TestResultRepository handles test result data access.
type TestResultRepository struct {
	pool *pgxpool.Pool
}

// NewTestResultRepository creates a new TestResultRepository.
func NewTestResultRepository(pool *pgxpool.Pool) *TestResultRepository {
	return &TestResultRepository{pool: pool}
}

// ListByTest retrieves all results recorded for a test.
func (r *TestResultRepository) ListByTest(ctx context.Context, testID int) ([]model.TestResult, error) {
	return r.list(ctx,
		`SELECT id, result, student_id, grader_id, test_id, created_at, updated_at
		 FROM test_results WHERE test_id = $1 ORDER BY id`, testID)
}

// ListByStudent retrieves all results belonging to a student.
func (r *TestResultRepository) ListByStudent(ctx context.Context, studentID int) ([]model.TestResult, error) {
	return r.list(ctx,
		`SELECT id, result, student_id, grader_id, test_id, created_at, updated_at
		 FROM test_results WHERE student_id = $1 ORDER BY id`, studentID)
}

// GetGraderID resolves who graded a result. The second return is false when
// the result does not exist.
func (r *TestResultRepository) GetGraderID(ctx context.Context, id int) (int, bool, error) {
	var graderID int
	err := r.pool.QueryRow(ctx, `SELECT grader_id FROM test_results WHERE id = $1`, id).Scan(&graderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return graderID, true, nil
}

// Create records a result for a student on a test.
func (r *TestResultRepository) Create(ctx context.Context, tr *model.TestResult) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO test_results (result, student_id, grader_id, test_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		tr.Result, tr.StudentID, tr.GraderID, tr.TestID,
	).Scan(&tr.ID, &tr.CreatedAt, &tr.UpdatedAt)
}

// UpdateResult changes the graded value. Student, grader, and test are fixed
// at creation.
func (r *TestResultRepository) UpdateResult(ctx context.Context, id, result int) (*model.TestResult, error) {
	tr := &model.TestResult{}
	err := r.pool.QueryRow(ctx,
		`UPDATE test_results SET result = $1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $2
		 RETURNING id, result, student_id, grader_id, test_id, created_at, updated_at`,
		result, id,
	).Scan(&tr.ID, &tr.Result, &tr.StudentID, &tr.GraderID, &tr.TestID, &tr.CreatedAt, &tr.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTestResultNotFound
		}
		return nil, err
	}
	return tr, nil
}

// Delete removes a test result.
func (r *TestResultRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM test_results WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTestResultNotFound
	}
	return nil
}

func (r *TestResultRepository) list(ctx context.Context, query string, arg any) ([]model.TestResult, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []model.TestResult{}
	for rows.Next() {
		var tr model.TestResult
		if err := rows.Scan(&tr.ID, &tr.Result, &tr.StudentID, &tr.GraderID, &tr.TestID, &tr.CreatedAt, &tr.UpdatedAt); err != nil {
			return nil, err
		}
		results = append(results, tr)
	}
	return results, rows.Err()
}
