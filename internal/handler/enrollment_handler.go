package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gradely/gradebook-backend/internal/model"
	"github.com/gradely/gradebook-backend/internal/repository"
	"github.com/gradely/gradebook-backend/internal/response"
	"github.com/gradely/gradebook-backend/internal/service"
	"github.com/gradely/gradebook-backend/internal/validator"
)

// EnrollmentHandler handles course membership endpoints.
type EnrollmentHandler struct {
	enrollmentService *service.EnrollmentService
}

// NewEnrollmentHandler creates a new EnrollmentHandler.
func NewEnrollmentHandler(enrollmentService *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentService: enrollmentService}
}

// ListUserCourses godoc
// GET /users/:user_id/courses (self or admin)
func (h *EnrollmentHandler) ListUserCourses(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}

	courses, err := h.enrollmentService.ListCoursesByUser(c.Request.Context(), userID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"courses": courses})
}

// EnrollUser godoc
// POST /users/:user_id/courses (self or admin)
func (h *EnrollmentHandler) EnrollUser(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}

	var req model.CreateEnrollmentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	enrollment, err := h.enrollmentService.Enroll(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyEnrolled) {
			response.Fail(c, http.StatusConflict, response.ErrConflict)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"enrollment": enrollment})
}

// WithdrawUser godoc
// DELETE /users/:user_id/courses/:course_id (self or admin)
func (h *EnrollmentHandler) WithdrawUser(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	courseID, ok := pathID(c, "course_id")
	if !ok {
		return
	}

	if err := h.enrollmentService.Withdraw(c.Request.Context(), userID, courseID); err != nil {
		if errors.Is(err, repository.ErrEnrollmentNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}
