package errors

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found wrapped", fmt.Errorf("get product 7: %w", ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"bad credentials", ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"bad token", fmt.Errorf("verify: %w", ErrInvalidToken), http.StatusUnauthorized, "INVALID_TOKEN"},
		{"upload rejected", fmt.Errorf("%w: only pdf allowed", ErrUploadRejected), http.StatusBadRequest, "UPLOAD_REJECTED"},
		{"traversal", ErrPathOutsideCategory, http.StatusBadRequest, "INVALID_PATH"},
		{"conflict", ErrVersionConflict, http.StatusConflict, "VERSION_CONFLICT"},
		{"unclassified", errors.New("disk full"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantCode, httpErr.Code)
		})
	}
}

func TestMapErrorToHTTP_CredentialMessageIsGeneric(t *testing.T) {
	httpErr := MapErrorToHTTP(fmt.Errorf("lookup admin: %w", ErrInvalidCredentials))
	assert.Equal(t, ErrInvalidCredentials.Error(), httpErr.Message)
}

func TestRender_DevelopmentIncludesCause(t *testing.T) {
	err := errors.New("connection refused")

	prod := Render(err, false)
	assert.Equal(t, http.StatusInternalServerError, prod.Code)
	assert.Equal(t, "internal server error", prod.Message)
	assert.Equal(t, "INTERNAL_ERROR", prod.Error)

	dev := Render(&PanicError{Err: err, Stack: []byte("goroutine 1")}, true)
	assert.Equal(t, "panic: connection refused", dev.Error)
	assert.Equal(t, "goroutine 1", dev.Stack)
}

func TestRender_EchoHTTPError(t *testing.T) {
	resp := Render(echo.NewHTTPError(http.StatusBadRequest, "invalid id"), false)
	assert.Equal(t, ErrorResponse{Code: http.StatusBadRequest, Message: "invalid id"}, resp)

	resp = Render(echo.NewHTTPError(http.StatusUnauthorized, ErrorResponse{Message: "missing token"}), false)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "missing token", resp.Message)
}

func TestHandler_WritesEnvelope(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = Handler(false, zap.NewNop())
	e.GET("/boom", func(c echo.Context) error {
		return fmt.Errorf("load: %w", ErrNotFound)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"code":404,"message":"load: record not found","error":"NOT_FOUND"}`, rec.Body.String())
}
