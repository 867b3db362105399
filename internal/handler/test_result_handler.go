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

// TestResultHandler handles graded result endpoints.
type TestResultHandler struct {
	resultService *service.TestResultService
}

// NewTestResultHandler creates a new TestResultHandler.
func NewTestResultHandler(resultService *service.TestResultService) *TestResultHandler {
	return &TestResultHandler{resultService: resultService}
}

// ListTestResults godoc
// GET /courses/tests/:test_id/test-results (test's course teacher or admin)
func (h *TestResultHandler) ListTestResults(c *gin.Context) {
	testID, ok := pathID(c, "test_id")
	if !ok {
		return
	}

	results, err := h.resultService.ListByTest(c.Request.Context(), testID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"test_results": results})
}

// ListUserTestResults godoc
// GET /users/:user_id/test-results (self or admin)
func (h *TestResultHandler) ListUserTestResults(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}

	results, err := h.resultService.ListByStudent(c.Request.Context(), userID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"test_results": results})
}

// CreateTestResult godoc
// POST /courses/tests/:test_id/test-results (test's course teacher or admin)
func (h *TestResultHandler) CreateTestResult(c *gin.Context) {
	testID, ok := pathID(c, "test_id")
	if !ok {
		return
	}

	var req model.CreateTestResultRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.resultService.Create(c.Request.Context(), testID, &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"test_result": result})
}

// UpdateTestResult godoc
// PUT /courses/tests/test-results/:test_result_id (grader or admin)
// Only the result value may change; student and grader are fixed.
func (h *TestResultHandler) UpdateTestResult(c *gin.Context) {
	id, ok := pathID(c, "test_result_id")
	if !ok {
		return
	}

	var req model.UpdateTestResultRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.resultService.Update(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, repository.ErrTestResultNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"test_result": result})
}

// DeleteTestResult godoc
// DELETE /courses/tests/test-results/:test_result_id (grader or admin)
func (h *TestResultHandler) DeleteTestResult(c *gin.Context) {
	id, ok := pathID(c, "test_result_id")
	if !ok {
		return
	}

	if err := h.resultService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrTestResultNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}
