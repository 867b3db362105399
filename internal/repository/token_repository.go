package repository

import (
	"context"
	"errors"
	"time"

	"github.com/gradely/gradebook-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Sentinel errors surfaced by the token store.
var (
	ErrTokenNotFound = errors.New("token not found")
	// ErrTokenAlreadyRedeemed means the conditional invalidation matched no
	// row: another redemption won the race or the token was already spent.
	ErrTokenAlreadyRedeemed = errors.New("token already redeemed")
)

// TokenRepository handles token persistence.
type TokenRepository struct {
	pool *pgxpool.Pool
}

// NewTokenRepository creates a new TokenRepository.
func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{pool: pool}
}

// CreateEmailToken persists a short-lived EMAIL token bound to the user with
// the given email, creating the user first if unknown. The upsert keeps the
// operation idempotent with respect to user creation: an existing user is
// reused, matched by email.
func (r *TokenRepository) CreateEmailToken(ctx context.Context, email, secret string, expiration time.Time) (*model.Token, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var userID int
	err = tx.QueryRow(ctx,
		`INSERT INTO users (email) VALUES ($1)
		 ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
		 RETURNING id`, email,
	).Scan(&userID)
	if err != nil {
		return nil, err
	}

	t := &model.Token{Kind: model.TokenKindEmail, Secret: secret, UserID: userID, Valid: true, Expiration: expiration}
	err = tx.QueryRow(ctx,
		`INSERT INTO tokens (kind, secret, user_id, valid, expiration)
		 VALUES ($1, $2, $3, TRUE, $4)
		 RETURNING id, created_at`,
		model.TokenKindEmail, secret, userID, expiration,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

// GetEmailTokenBySecret retrieves an EMAIL token by its secret value, joined
// with its owning user.
func (r *TokenRepository) GetEmailTokenBySecret(ctx context.Context, secret string) (*model.TokenWithUser, error) {
	t := &model.TokenWithUser{}
	err := r.pool.QueryRow(ctx,
		`SELECT t.id, t.kind, t.secret, t.user_id, t.valid, t.expiration, t.created_at,
		        u.id, u.email, u.first_name, u.last_name, u.is_admin, u.created_at, u.updated_at
		 FROM tokens t
		 JOIN users u ON u.id = t.user_id
		 WHERE t.kind = $1 AND t.secret = $2`,
		model.TokenKindEmail, secret,
	).Scan(
		&t.ID, &t.Kind, &t.Secret, &t.UserID, &t.Valid, &t.Expiration, &t.CreatedAt,
		&t.User.ID, &t.User.Email, &t.User.FirstName, &t.User.LastName, &t.User.IsAdmin, &t.User.CreatedAt, &t.User.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return t, nil
}

// GetByID retrieves a token by ID joined with its owning user. Used by the
// credential resolver on every authenticated request.
func (r *TokenRepository) GetByID(ctx context.Context, id int) (*model.TokenWithUser, error) {
	t := &model.TokenWithUser{}
	var secret *string
	err := r.pool.QueryRow(ctx,
		`SELECT t.id, t.kind, t.secret, t.user_id, t.valid, t.expiration, t.created_at,
		        u.id, u.email, u.first_name, u.last_name, u.is_admin, u.created_at, u.updated_at
		 FROM tokens t
		 JOIN users u ON u.id = t.user_id
		 WHERE t.id = $1`, id,
	).Scan(
		&t.ID, &t.Kind, &secret, &t.UserID, &t.Valid, &t.Expiration, &t.CreatedAt,
		&t.User.ID, &t.User.Email, &t.User.FirstName, &t.User.LastName, &t.User.IsAdmin, &t.User.CreatedAt, &t.User.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	if secret != nil {
		t.Secret = *secret
	}
	return t, nil
}

// Redeem atomically spends an EMAIL token and issues the API token row in a
// single transaction. The invalidation is conditional on the token still
// being valid, so of N concurrent redemptions of the same token exactly one
// commits an API token; the rest fail with ErrTokenAlreadyRedeemed and the
// insert rolls back.
func (r *TokenRepository) Redeem(ctx context.Context, emailTokenID, userID int, expiration time.Time) (*model.Token, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE tokens SET valid = FALSE WHERE id = $1 AND valid`, emailTokenID)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrTokenAlreadyRedeemed
	}

	t := &model.Token{Kind: model.TokenKindAPI, UserID: userID, Valid: true, Expiration: expiration}
	err = tx.QueryRow(ctx,
		`INSERT INTO tokens (kind, user_id, valid, expiration)
		 VALUES ($1, $2, TRUE, $3)
		 RETURNING id, created_at`,
		model.TokenKindAPI, userID, expiration,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

// Invalidate revokes a single token. Safe to repeat.
func (r *TokenRepository) Invalidate(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `UPDATE tokens SET valid = FALSE WHERE id = $1`, id)
	return err
}

// InvalidateAllForUser revokes every token owned by a user. Called when a
// user is deleted so presented API tokens die with the account.
func (r *TokenRepository) InvalidateAllForUser(ctx context.Context, userID int) error {
	_, err := r.pool.Exec(ctx, `UPDATE tokens SET valid = FALSE WHERE user_id = $1`, userID)
	return err
}

// DeleteExpiredBefore removes token rows whose expiration predates the
// cutoff. Validation checks expiry itself, so this is hygiene only.
func (r *TokenRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tokens WHERE expiration < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
