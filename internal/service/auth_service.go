package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gradely/gradebook-backend/internal/config"
	"github.com/gradely/gradebook-backend/internal/mailer"
	"github.com/gradely/gradebook-backend/internal/model"
	"github.com/gradely/gradebook-backend/internal/repository"
	"github.com/rs/zerolog"
)

// Validation outcomes surfaced by the credential resolver and the
// login/authenticate flow. The HTTP layer maps all of them to the same
// unauthorized response; the distinction exists for logs and tests.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenMissing = errors.New("token not found")
	// ErrDependency wraps store or mail failures. Never treated as success.
	ErrDependency = errors.New("dependency error")
)

// TokenStore is the persistence surface the auth flow needs. Implemented by
// repository.TokenRepository; faked in tests.
type TokenStore interface {
	CreateEmailToken(ctx context.Context, email, secret string, expiration time.Time) (*model.Token, error)
	GetEmailTokenBySecret(ctx context.Context, secret string) (*model.TokenWithUser, error)
	GetByID(ctx context.Context, id int) (*model.TokenWithUser, error)
	Redeem(ctx context.Context, emailTokenID, userID int, expiration time.Time) (*model.Token, error)
	Invalidate(ctx context.Context, id int) error
}

// TeacherDirectory resolves the set of courses a user teaches. Implemented by
// repository.EnrollmentRepository.
type TeacherDirectory interface {
	ListTeacherCourseIDs(ctx context.Context, userID int) ([]int, error)
}

// apiTokenClaims is the signed envelope for an API token. It references the
// store row by ID only: identity, admin flag, and roles are re-resolved from
// the store on every request, so revocation and demotion are immediate. The
// envelope intentionally carries no expiry claim — the store is the single
// authority on token lifetime.
type apiTokenClaims struct {
	jwt.RegisteredClaims
	TokenID int `json:"token_id"`
}

// AuthService implements the passwordless login flow: a short-lived emailed
// code is exchanged for a long-lived, revocable, signed API token.
//
// A new login does not invalidate earlier unredeemed email codes; each code
// lives out its own TTL. Known product behavior, kept as-is.
type AuthService struct {
	tokens   TokenStore
	teachers TeacherDirectory
	mail     mailer.Mailer
	secret   []byte

	emailTokenTTL time.Duration
	apiTokenTTL   time.Duration

	log zerolog.Logger
}

// NewAuthService creates a new AuthService. The signing secret and TTLs come
// from config and are immutable afterwards.
func NewAuthService(cfg *config.Config, tokens TokenStore, teachers TeacherDirectory, mail mailer.Mailer, log zerolog.Logger) *AuthService {
	return &AuthService{
		tokens:        tokens,
		teachers:      teachers,
		mail:          mail,
		secret:        []byte(cfg.JWTSecret),
		emailTokenTTL: cfg.EmailTokenTTL,
		apiTokenTTL:   cfg.APITokenTTL,
		log:           log.With().Str("component", "auth").Logger(),
	}
}

// Login issues an email token for the address and hands it to the mailer.
// The user is created on first login; an existing user is reused, matched by
// email. Callers respond identically either way so account existence never
// leaks.
func (s *AuthService) Login(ctx context.Context, email string) error {
	secret, err := generateEmailTokenSecret()
	if err != nil {
		return fmt.Errorf("%w: generate secret: %w", ErrDependency, err)
	}

	token, err := s.tokens.CreateEmailToken(ctx, email, secret, time.Now().Add(s.emailTokenTTL))
	if err != nil {
		return fmt.Errorf("%w: create email token: %w", ErrDependency, err)
	}

	if err := s.mail.SendLoginCode(ctx, email, secret); err != nil {
		return fmt.Errorf("%w: send login code: %w", ErrDependency, err)
	}

	s.log.Debug().Int("token_id", token.ID).Msg("Email token issued")
	return nil
}

// Authenticate redeems an emailed code for a signed API token. The email
// must match the code's owner exactly (case-sensitive) so a leaked code
// cannot be redeemed against another identity claim. The redemption is
// store-atomic: of N concurrent attempts on the same code, one wins.
func (s *AuthService) Authenticate(ctx context.Context, email, emailToken string) (string, error) {
	fetched, err := s.tokens.GetEmailTokenBySecret(ctx, emailToken)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return "", ErrUnauthorized
		}
		return "", fmt.Errorf("%w: fetch email token: %w", ErrDependency, err)
	}

	if !fetched.Valid {
		return "", ErrUnauthorized
	}
	if fetched.Expiration.Before(time.Now()) {
		s.log.Debug().Int("token_id", fetched.ID).Msg("Email token expired")
		return "", ErrUnauthorized
	}
	if fetched.User.Email != email {
		return "", ErrUnauthorized
	}

	apiToken, err := s.tokens.Redeem(ctx, fetched.ID, fetched.UserID, time.Now().Add(s.apiTokenTTL))
	if err != nil {
		if errors.Is(err, repository.ErrTokenAlreadyRedeemed) {
			return "", ErrUnauthorized
		}
		return "", fmt.Errorf("%w: redeem email token: %w", ErrDependency, err)
	}

	signed, err := s.signAPIToken(apiToken.ID)
	if err != nil {
		return "", fmt.Errorf("%w: sign token: %w", ErrDependency, err)
	}
	return signed, nil
}

// ValidateAPIToken verifies a presented token and derives the caller's
// credentials. Runs on every authenticated request: signature check, claim
// schema check, store lookup joined with the owning user, then a fresh
// teacher-role query. No result is cached.
func (s *AuthService) ValidateAPIToken(ctx context.Context, tokenStr string) (*model.Credentials, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &apiTokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*apiTokenClaims)
	if !ok || !token.Valid || claims.TokenID <= 0 {
		return nil, ErrInvalidToken
	}

	fetched, err := s.tokens.GetByID(ctx, claims.TokenID)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return nil, ErrTokenMissing
		}
		return nil, fmt.Errorf("%w: fetch token: %w", ErrDependency, err)
	}

	if !fetched.Valid {
		return nil, ErrInvalidToken
	}
	if fetched.Expiration.Before(time.Now()) {
		return nil, ErrTokenExpired
	}

	teacherOf, err := s.teachers.ListTeacherCourseIDs(ctx, fetched.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: list teacher courses: %w", ErrDependency, err)
	}

	return &model.Credentials{
		UserID:    fetched.UserID,
		TokenID:   fetched.ID,
		IsAdmin:   fetched.User.IsAdmin,
		TeacherOf: teacherOf,
	}, nil
}

// Logout revokes the presented API token. Repeatable without effect.
func (s *AuthService) Logout(ctx context.Context, tokenID int) error {
	if err := s.tokens.Invalidate(ctx, tokenID); err != nil {
		return fmt.Errorf("%w: invalidate token: %w", ErrDependency, err)
	}
	return nil
}

func (s *AuthService) signAPIToken(tokenID int) (string, error) {
	claims := apiTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
		TokenID: tokenID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// generateEmailTokenSecret returns a random 8-digit numeric code. Collisions
// across outstanding codes are possible and accepted; the secret is paired
// with the email claim on redemption.
func generateEmailTokenSecret() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(90000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%08d", n.Int64()+10000000), nil
}
