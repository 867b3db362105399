package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gradely/gradebook-backend/internal/config"
	"github.com/gradely/gradebook-backend/internal/model"
	"github.com/gradely/gradebook-backend/internal/repository"
	"github.com/gradely/gradebook-backend/internal/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTokenStore serves a single API token row.
type stubTokenStore struct {
	token *model.TokenWithUser
	err   error
}

func (s *stubTokenStore) CreateEmailToken(ctx context.Context, email, secret string, expiration time.Time) (*model.Token, error) {
	return nil, repository.ErrTokenNotFound
}

func (s *stubTokenStore) GetEmailTokenBySecret(ctx context.Context, secret string) (*model.TokenWithUser, error) {
	return nil, repository.ErrTokenNotFound
}

func (s *stubTokenStore) GetByID(ctx context.Context, id int) (*model.TokenWithUser, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.token == nil || s.token.ID != id {
		return nil, repository.ErrTokenNotFound
	}
	return s.token, nil
}

func (s *stubTokenStore) Redeem(ctx context.Context, emailTokenID, userID int, expiration time.Time) (*model.Token, error) {
	return nil, repository.ErrTokenNotFound
}

func (s *stubTokenStore) Invalidate(ctx context.Context, id int) error { return nil }

type stubTeacherDirectory struct{ courses []int }

func (s *stubTeacherDirectory) ListTeacherCourseIDs(ctx context.Context, userID int) ([]int, error) {
	return s.courses, nil
}

type noopMailer struct{}

func (noopMailer) SendLoginCode(ctx context.Context, email, code string) error { return nil }

func newStubAuthService(store *stubTokenStore) *service.AuthService {
	cfg := &config.Config{
		JWTSecret:     "test-secret",
		EmailTokenTTL: 10 * time.Minute,
		APITokenTTL:   12 * time.Hour,
	}
	return service.NewAuthService(cfg, store, &stubTeacherDirectory{courses: []int{4}}, noopMailer{}, zerolog.Nop())
}

func authTestRouter(authService *service.AuthService) (*gin.Engine, *model.Credentials) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	var captured model.Credentials
	router.GET("/protected", RequireAPIToken(authService, zerolog.Nop()), func(c *gin.Context) {
		if creds := GetCredentials(c); creds != nil {
			captured = *creds
		}
		c.Status(http.StatusOK)
	})
	return router, &captured
}

// issueToken signs an envelope whose token_id points at the store row,
// going through the real authenticate flow so the test never reimplements
// signing.
func issueToken(t *testing.T, store *stubTokenStore) string {
	t.Helper()

	redeemed := store.token.Token
	full := &redeemStubStore{api: store.token, redeemedToken: &redeemed}
	svc := service.NewAuthService(&config.Config{
		JWTSecret:     "test-secret",
		EmailTokenTTL: 10 * time.Minute,
		APITokenTTL:   12 * time.Hour,
	}, full, &stubTeacherDirectory{}, noopMailer{}, zerolog.Nop())

	signed, err := svc.Authenticate(context.Background(), store.token.User.Email, "12345678")
	require.NoError(t, err)
	return signed
}

// redeemStubStore lets Authenticate mint a real signed envelope whose
// token_id points at the API row under test.
type redeemStubStore struct {
	api           *model.TokenWithUser
	redeemedToken *model.Token
}

func (s *redeemStubStore) CreateEmailToken(ctx context.Context, email, secret string, expiration time.Time) (*model.Token, error) {
	return nil, repository.ErrTokenNotFound
}

func (s *redeemStubStore) GetEmailTokenBySecret(ctx context.Context, secret string) (*model.TokenWithUser, error) {
	return &model.TokenWithUser{
		Token: model.Token{
			ID:         999,
			Kind:       model.TokenKindEmail,
			Secret:     secret,
			UserID:     s.api.UserID,
			Valid:      true,
			Expiration: time.Now().Add(time.Minute),
		},
		User: s.api.User,
	}, nil
}

func (s *redeemStubStore) GetByID(ctx context.Context, id int) (*model.TokenWithUser, error) {
	return s.api, nil
}

func (s *redeemStubStore) Redeem(ctx context.Context, emailTokenID, userID int, expiration time.Time) (*model.Token, error) {
	return s.redeemedToken, nil
}

func (s *redeemStubStore) Invalidate(ctx context.Context, id int) error { return nil }

func validAPIRow() *model.TokenWithUser {
	return &model.TokenWithUser{
		Token: model.Token{
			ID:         42,
			Kind:       model.TokenKindAPI,
			UserID:     7,
			Valid:      true,
			Expiration: time.Now().Add(time.Hour),
		},
		User: model.User{ID: 7, Email: "rita@gradely.io", IsAdmin: false},
	}
}

func TestRequireAPIToken_MissingHeader(t *testing.T) {
	store := &stubTokenStore{token: validAPIRow()}
	router, _ := authTestRouter(newStubAuthService(store))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_REQUIRED")
}

func TestRequireAPIToken_GarbageToken(t *testing.T) {
	store := &stubTokenStore{token: validAPIRow()}
	router, _ := authTestRouter(newStubAuthService(store))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestRequireAPIToken_ValidToken(t *testing.T) {
	store := &stubTokenStore{token: validAPIRow()}
	authService := newStubAuthService(store)
	router, captured := authTestRouter(authService)

	signed := issueToken(t, store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 7, captured.UserID)
	assert.Equal(t, 42, captured.TokenID)
	assert.Equal(t, []int{4}, captured.TeacherOf)
}

func TestRequireAPIToken_RawHeaderAccepted(t *testing.T) {
	store := &stubTokenStore{token: validAPIRow()}
	authService := newStubAuthService(store)
	router, captured := authTestRouter(authService)

	signed := issueToken(t, store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", signed)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 7, captured.UserID)
}

func TestRequireAPIToken_RevokedToken(t *testing.T) {
	row := validAPIRow()
	store := &stubTokenStore{token: row}
	authService := newStubAuthService(store)
	router, _ := authTestRouter(authService)

	signed := issueToken(t, store)
	row.Valid = false

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAPIToken_StoreFailureAnswers401(t *testing.T) {
	store := &stubTokenStore{token: validAPIRow()}
	authService := newStubAuthService(store)
	router, _ := authTestRouter(authService)

	signed := issueToken(t, store)
	store.err = context.DeadlineExceeded

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetCredentials_AbsentIsNil(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, GetCredentials(c))
}
