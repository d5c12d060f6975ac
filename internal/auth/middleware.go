package auth

import (
	"errors"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "sitecms/internal/errors"
)

// ContextUserKey is where the verified *Claims are stored on the echo context.
const ContextUserKey = "user"

// Middleware rejects requests without a valid bearer token and attaches the
// decoded claims to the context. Revoked tokens are rejected when a store is
// given.
func Middleware(jwtService *JWTService, store TokenStoreInterface) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  ContextUserKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			claims, err := jwtService.VerifyToken(auth)
			if err != nil {
				return nil, err
			}
			if store != nil && store.IsRevoked(c.Request().Context(), claims.ID) {
				return nil, apperrors.ErrInvalidToken
			}
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			message := "authorization token is required"
			if errors.Is(err, apperrors.ErrInvalidToken) {
				message = apperrors.ErrInvalidToken.Error()
			}
			return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
				Code:    http.StatusUnauthorized,
				Message: message,
				Error:   "UNAUTHORIZED",
			}).SetInternal(err)
		},
	})
}

// ClaimsFromContext returns the claims stored by Middleware.
func ClaimsFromContext(c echo.Context) (*Claims, bool) {
	claims, ok := c.Get(ContextUserKey).(*Claims)
	return claims, ok && claims != nil
}
