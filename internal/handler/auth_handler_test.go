package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gradely/gradebook-backend/internal/config"
	"github.com/gradely/gradebook-backend/internal/model"
	"github.com/gradely/gradebook-backend/internal/repository"
	"github.com/gradely/gradebook-backend/internal/service"
	"github.com/gradely/gradebook-backend/internal/validator"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validator.Setup()
	m.Run()
}

// memTokenStore backs the auth flow for handler tests.
type memTokenStore struct {
	emailTokens map[string]*model.TokenWithUser
	nextID      int
}

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{emailTokens: make(map[string]*model.TokenWithUser), nextID: 1}
}

func (m *memTokenStore) CreateEmailToken(ctx context.Context, email, secret string, expiration time.Time) (*model.Token, error) {
	t := &model.TokenWithUser{
		Token: model.Token{
			ID:         m.nextID,
			Kind:       model.TokenKindEmail,
			Secret:     secret,
			UserID:     1,
			Valid:      true,
			Expiration: expiration,
		},
		User: model.User{ID: 1, Email: email},
	}
	m.nextID++
	m.emailTokens[secret] = t
	return &t.Token, nil
}

func (m *memTokenStore) GetEmailTokenBySecret(ctx context.Context, secret string) (*model.TokenWithUser, error) {
	t, ok := m.emailTokens[secret]
	if !ok {
		return nil, repository.ErrTokenNotFound
	}
	return t, nil
}

func (m *memTokenStore) GetByID(ctx context.Context, id int) (*model.TokenWithUser, error) {
	return nil, repository.ErrTokenNotFound
}

func (m *memTokenStore) Redeem(ctx context.Context, emailTokenID, userID int, expiration time.Time) (*model.Token, error) {
	for _, t := range m.emailTokens {
		if t.ID == emailTokenID {
			if !t.Valid {
				return nil, repository.ErrTokenAlreadyRedeemed
			}
			t.Valid = false
			api := &model.Token{
				ID:         m.nextID,
				Kind:       model.TokenKindAPI,
				UserID:     userID,
				Valid:      true,
				Expiration: expiration,
			}
			m.nextID++
			return api, nil
		}
	}
	return nil, repository.ErrTokenNotFound
}

func (m *memTokenStore) Invalidate(ctx context.Context, id int) error { return nil }

type memTeacherDirectory struct{}

func (memTeacherDirectory) ListTeacherCourseIDs(ctx context.Context, userID int) ([]int, error) {
	return nil, nil
}

type captureMailer struct{ codes []string }

func (c *captureMailer) SendLoginCode(ctx context.Context, email, code string) error {
	c.codes = append(c.codes, code)
	return nil
}

func newAuthTestHandler() (*AuthHandler, *captureMailer, *memTokenStore) {
	store := newMemTokenStore()
	mail := &captureMailer{}
	cfg := &config.Config{
		JWTSecret:     "test-secret",
		EmailTokenTTL: 10 * time.Minute,
		APITokenTTL:   12 * time.Hour,
	}
	authService := service.NewAuthService(cfg, store, memTeacherDirectory{}, mail, zerolog.Nop())
	return NewAuthHandler(authService, nil), mail, store
}

func postJSON(handler gin.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	router := gin.New()
	router.POST(path, handler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestLogin_OKForAnyAddress(t *testing.T) {
	h, mail, _ := newAuthTestHandler()

	w := postJSON(h.Login, "/login", `{"email":"new.person@example.com"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, mail.codes, 1)
	assert.Len(t, mail.codes[0], 8)
}

func TestLogin_RejectsMalformedEmail(t *testing.T) {
	h, mail, _ := newAuthTestHandler()

	w := postJSON(h.Login, "/login", `{"email":"not-an-email"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	assert.Empty(t, mail.codes)
}

func TestAuthenticate_ReturnsTokenInHeaderAndBody(t *testing.T) {
	h, mail, _ := newAuthTestHandler()

	w := postJSON(h.Login, "/login", `{"email":"ada@example.com"}`)
	require.Equal(t, http.StatusOK, w.Code)
	code := mail.codes[0]

	w = postJSON(h.Authenticate, "/authenticate",
		`{"email":"ada@example.com","email_token":"`+code+`"}`)

	require.Equal(t, http.StatusOK, w.Code)
	token := w.Header().Get("Authorization")
	assert.NotEmpty(t, token)
	assert.Contains(t, w.Body.String(), token)
}

func TestAuthenticate_RejectsMalformedCode(t *testing.T) {
	h, _, _ := newAuthTestHandler()

	for _, code := range []string{"1234", "abcdefgh", ""} {
		w := postJSON(h.Authenticate, "/authenticate",
			`{"email":"ada@example.com","email_token":"`+code+`"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code, "code %q", code)
	}
}

func TestAuthenticate_WrongCodeIs401(t *testing.T) {
	h, _, _ := newAuthTestHandler()

	w := postJSON(h.Authenticate, "/authenticate",
		`{"email":"ada@example.com","email_token":"99999999"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestAuthenticate_CodeIsSingleUse(t *testing.T) {
	h, mail, _ := newAuthTestHandler()

	postJSON(h.Login, "/login", `{"email":"ada@example.com"}`)
	code := mail.codes[0]
	body := `{"email":"ada@example.com","email_token":"` + code + `"}`

	require.Equal(t, http.StatusOK, postJSON(h.Authenticate, "/authenticate", body).Code)
	assert.Equal(t, http.StatusUnauthorized, postJSON(h.Authenticate, "/authenticate", body).Code)
}
