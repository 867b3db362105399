package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, handler gin.HandlerFunc) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/", handler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestSuccessEnvelope(t *testing.T) {
	w, resp := serve(t, func(c *gin.Context) {
		Success(c, http.StatusOK, gin.H{"hello": "world"})
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, resp.Error)
	assert.NotEmpty(t, resp.Metadata.RequestID)
	assert.NotEmpty(t, resp.Metadata.Timestamp)
	assert.Equal(t, "world", resp.Data.(map[string]interface{})["hello"])
}

func TestFailEnvelope(t *testing.T) {
	w, resp := serve(t, func(c *gin.Context) {
		Fail(c, http.StatusForbidden, ErrForbidden)
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrForbidden, resp.Error.Code)
	assert.Equal(t, GetMessage(ErrForbidden), resp.Error.Message)
	assert.Empty(t, resp.Error.Fields)
}

func TestFailWithFields(t *testing.T) {
	_, resp := serve(t, func(c *gin.Context) {
		FailWithFields(c, http.StatusBadRequest, ErrValidation, map[string]string{
			"email": "email must be a valid email address",
		})
	})

	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrValidation, resp.Error.Code)
	assert.Contains(t, resp.Error.Fields, "email")
}

func TestRequestIDHeaderPropagates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/", func(c *gin.Context) { Success(c, http.StatusOK, nil) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "client-supplied-id")
	router.ServeHTTP(w, req)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "client-supplied-id", resp.Metadata.RequestID)
	assert.Equal(t, "client-supplied-id", w.Header().Get("X-Request-ID"))
}
