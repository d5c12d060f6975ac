package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// PanicError carries a recovered panic and the goroutine stack at the time.
type PanicError struct {
	Err   error
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Err)
}

func (e *PanicError) Unwrap() error {
	return e.Err
}

// Recover converts panics into PanicError so the error handler can render them.
func Recover() echo.MiddlewareFunc {
	return middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisablePrintStack: true,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			return &PanicError{Err: err, Stack: stack}
		},
	})
}

// Handler renders every error returned by a handler or middleware as the API
// envelope. In development, 500 responses also carry the cause and, for
// panics, the stack.
func Handler(development bool, logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		resp := Render(err, development)
		if resp.Code >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Error(err))
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(resp.Code)
			return
		}
		_ = c.JSON(resp.Code, resp)
	}
}

// Render converts err into the envelope returned to clients.
func Render(err error, development bool) ErrorResponse {
	var (
		he     *echo.HTTPError
		appErr *HTTPError
		pe     *PanicError
	)

	var resp ErrorResponse
	switch {
	case errors.As(err, &he):
		resp.Code = he.Code
		switch m := he.Message.(type) {
		case ErrorResponse:
			resp = m
			resp.Code = he.Code
		case string:
			resp.Message = m
		case error:
			resp.Message = m.Error()
		default:
			resp.Message = http.StatusText(he.Code)
		}
		if development && he.Internal != nil {
			resp.Error = he.Internal.Error()
		}
	case errors.As(err, &appErr):
		resp = appErr.ToErrorResponse()
	default:
		resp = MapErrorToHTTP(err).ToErrorResponse()
	}

	if resp.Code >= http.StatusInternalServerError && development {
		resp.Error = err.Error()
		if errors.As(err, &pe) {
			resp.Stack = string(pe.Stack)
		}
	}
	return resp
}
