package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "sitecms/internal/errors"
)

func TestJWTService_GenerateAndVerify(t *testing.T) {
	svc := NewJWTService("test-secret", 0)
	assert.Equal(t, DefaultTokenExpiry, svc.Expiry())

	token, err := svc.GenerateToken("admin")
	require.NoError(t, err)

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	issued := time.Now()
	svc.now = func() time.Time { return issued }

	token, err := svc.GenerateToken("admin")
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(59 * time.Minute) }
	_, err = svc.VerifyToken(token)
	assert.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(61 * time.Minute) }
	_, err = svc.VerifyToken(token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestJWTService_RejectsForeignSignature(t *testing.T) {
	token, err := NewJWTService("other-secret", 0).GenerateToken("admin")
	require.NoError(t, err)

	_, err = NewJWTService("test-secret", 0).VerifyToken(token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	_, err = NewJWTService("test-secret", 0).VerifyToken("not-a-jwt")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("admin123")
	require.NoError(t, err)
	assert.False(t, IsLegacyHash(hash))
	assert.True(t, CheckPassword(hash, "admin123"))
	assert.False(t, CheckPassword(hash, "admin124"))

	sum := sha256.Sum256([]byte("admin123"))
	legacy := hex.EncodeToString(sum[:])
	assert.True(t, IsLegacyHash(legacy))
	assert.True(t, CheckPassword(legacy, "admin123"))
	assert.False(t, CheckPassword(legacy, "wrong"))
}

type revokeAll struct{}

func (revokeAll) Revoke(context.Context, string, time.Duration) error { return nil }
func (revokeAll) IsRevoked(context.Context, string) bool              { return true }

func TestMiddleware(t *testing.T) {
	svc := NewJWTService("test-secret", 0)
	token, err := svc.GenerateToken("admin")
	require.NoError(t, err)

	newEcho := func(store TokenStoreInterface) *echo.Echo {
		e := echo.New()
		e.HTTPErrorHandler = apperrors.Handler(false, zap.NewNop())
		e.GET("/secure", func(c echo.Context) error {
			claims, ok := ClaimsFromContext(c)
			if !ok {
				return echo.NewHTTPError(http.StatusInternalServerError, "no claims")
			}
			return c.String(http.StatusOK, claims.Username)
		}, Middleware(svc, store))
		return e
	}

	tests := []struct {
		name       string
		header     string
		store      TokenStoreInterface
		wantStatus int
		wantBody   string
	}{
		{"valid token", "Bearer " + token, nil, http.StatusOK, "admin"},
		{"missing header", "", nil, http.StatusUnauthorized, "authorization token is required"},
		{"wrong scheme", "Basic abc", nil, http.StatusUnauthorized, "authorization token is required"},
		{"garbage token", "Bearer abc.def.ghi", nil, http.StatusUnauthorized, "invalid or expired token"},
		{"revoked token", "Bearer " + token, revokeAll{}, http.StatusUnauthorized, "invalid or expired token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/secure", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			newEcho(tt.store).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}
