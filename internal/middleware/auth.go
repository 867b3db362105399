package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gradely/gradebook-backend/internal/model"
	"github.com/gradely/gradebook-backend/internal/response"
	"github.com/gradely/gradebook-backend/internal/service"
	"github.com/rs/zerolog"
)

const (
	// ContextKeyCredentials is the Gin context key for derived credentials.
	ContextKeyCredentials = "credentials"
)

// RequireAPIToken validates the bearer token from the Authorization header
// and attaches the derived credentials to the request context. Credentials
// are recomputed from the store on every request; downstream handlers must
// read identity from them and never from request parameters.
func RequireAPIToken(authService *service.AuthService, log zerolog.Logger) gin.HandlerFunc {
	authLog := log.With().Str("component", "auth_middleware").Logger()

	return func(c *gin.Context) {
		tokenStr := extractBearerToken(c)
		if tokenStr == "" {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		creds, err := authService.ValidateAPIToken(c.Request.Context(), tokenStr)
		if err != nil {
			// Store failures are logged as errors but still answer 401:
			// a broken dependency must never authorize a request.
			evt := authLog.Debug()
			if errors.Is(err, service.ErrDependency) {
				evt = authLog.Error()
			}
			evt.Err(err).Str("request_id", c.GetString(response.ContextKeyRequestID)).Msg("API token rejected")

			response.AbortFail(c, http.StatusUnauthorized, response.ErrUnauthorized)
			return
		}

		c.Set(ContextKeyCredentials, creds)
		c.Next()
	}
}

// GetCredentials retrieves the derived credentials from the Gin context.
func GetCredentials(c *gin.Context) *model.Credentials {
	val, exists := c.Get(ContextKeyCredentials)
	if !exists {
		return nil
	}
	creds, ok := val.(*model.Credentials)
	if !ok {
		return nil
	}
	return creds
}

func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	// Accept a raw token value too; the authenticate endpoint returns the
	// signed envelope without a scheme prefix.
	return authHeader
}
