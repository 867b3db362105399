package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gradely/gradebook-backend/internal/middleware"
	"github.com/gradely/gradebook-backend/internal/model"
	"github.com/gradely/gradebook-backend/internal/response"
	"github.com/gradely/gradebook-backend/internal/service"
	"github.com/gradely/gradebook-backend/internal/validator"
)

// AuthHandler handles the passwordless login endpoints.
type AuthHandler struct {
	authService *service.AuthService
	userService *service.UserService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, userService *service.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

// Login godoc
// POST /login
// Issues an emailed login code. Responds 200 with an empty body whether or
// not the account existed before, so the endpoint cannot be used to probe
// for registered addresses.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.authService.Login(c.Request.Context(), req.Email); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// Authenticate godoc
// POST /authenticate
// Redeems an emailed code for a signed API token. The token is returned in
// the Authorization response header and the body. All failure modes answer
// the same 401.
func (h *AuthHandler) Authenticate(c *gin.Context) {
	var req model.AuthenticateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	token, err := h.authService.Authenticate(c.Request.Context(), req.Email, req.EmailToken)
	if err != nil {
		if errors.Is(err, service.ErrDependency) {
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}
		response.Fail(c, http.StatusUnauthorized, response.ErrUnauthorized)
		return
	}

	c.Header("Authorization", token)
	response.Success(c, http.StatusOK, gin.H{"token": token})
}

// GetProfile godoc
// GET /profile
// Returns the profile of the currently authenticated user.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	creds := middleware.GetCredentials(c)
	if creds == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), creds.UserID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user":       user,
		"is_admin":   creds.IsAdmin,
		"teacher_of": creds.TeacherOf,
	})
}

// Logout godoc
// POST /logout
// Revokes the API token used on this request.
func (h *AuthHandler) Logout(c *gin.Context) {
	creds := middleware.GetCredentials(c)
	if creds == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.authService.Logout(c.Request.Context(), creds.TokenID); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}
