package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"sitecms/internal/auth"
	apperrors "sitecms/internal/errors"
	"sitecms/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	args := m.Called(ctx, id, hash)
	return args.Error(0)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsRevoked(ctx context.Context, tokenID string) bool {
	args := m.Called(ctx, tokenID)
	return args.Bool(0)
}

var errDatabaseDown = errors.New("dial tcp 127.0.0.1:3306: connect: connection refused")

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return hash
}

func TestAuthService_Login(t *testing.T) {
	adminHash := mustHash(t, "admin123")

	tests := []struct {
		name          string
		username      string
		password      string
		opts          []AuthOption
		setupMock     func(*MockUserRepository)
		expectedError error
		wantDegraded  bool
	}{
		{
			name:     "successful login",
			username: "admin",
			password: "admin123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "admin").Return(&model.User{ID: 1, Username: "admin", Password: adminHash}, nil)
			},
		},
		{
			name:     "wrong password",
			username: "admin",
			password: "wrong",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "admin").Return(&model.User{ID: 1, Username: "admin", Password: adminHash}, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "unknown user",
			username: "ghost",
			password: "admin123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:          "empty password",
			username:      "admin",
			password:      "",
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "database down without fallback",
			username: "admin",
			password: "admin123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "admin").Return(nil, errDatabaseDown)
			},
			expectedError: errDatabaseDown,
		},
		{
			name:     "database down with fallback",
			username: "admin",
			password: "admin123",
			opts:     []AuthOption{WithFallbackCredential("admin", "admin123")},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "admin").Return(nil, errDatabaseDown)
			},
			wantDegraded: true,
		},
		{
			name:     "fallback never covers a missing user",
			username: "admin",
			password: "admin123",
			opts:     []AuthOption{WithFallbackCredential("admin", "admin123")},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "admin").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			jwtService := auth.NewJWTService("test-secret", time.Hour)
			service := NewAuthService(mockRepo, jwtService, new(MockTokenStore), zap.NewNop(), tt.opts...)

			token, user, err := service.Login(context.Background(), tt.username, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, token)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.username, user.Username)
				claims, err := jwtService.VerifyToken(token)
				require.NoError(t, err)
				assert.Equal(t, tt.username, claims.Username)
			}
			assert.Equal(t, tt.wantDegraded, service.Degraded())

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_DegradedClearsOnRecovery(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByUsername", mock.Anything, "admin").Return(nil, errDatabaseDown).Once()
	mockRepo.On("FindByUsername", mock.Anything, "admin").Return(&model.User{ID: 1, Username: "admin", Password: mustHash(t, "admin123")}, nil).Once()

	service := NewAuthService(mockRepo, auth.NewJWTService("s", 0), new(MockTokenStore), zap.NewNop(),
		WithFallbackCredential("admin", "admin123"))

	_, err := service.ValidateCredentials(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	assert.True(t, service.Degraded())

	_, err = service.ValidateCredentials(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	assert.False(t, service.Degraded())
}

func TestAuthService_UpgradesLegacyHash(t *testing.T) {
	sum := sha256.Sum256([]byte("admin123"))
	legacy := hex.EncodeToString(sum[:])

	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByUsername", mock.Anything, "admin").Return(&model.User{ID: 7, Username: "admin", Password: legacy}, nil)
	mockRepo.On("UpdatePassword", mock.Anything, uint(7), mock.MatchedBy(func(hash string) bool {
		return !auth.IsLegacyHash(hash) && auth.CheckPassword(hash, "admin123")
	})).Return(nil)

	service := NewAuthService(mockRepo, auth.NewJWTService("s", 0), new(MockTokenStore), zap.NewNop())
	user, err := service.ValidateCredentials(context.Background(), "admin", "admin123")

	require.NoError(t, err)
	assert.False(t, auth.IsLegacyHash(user.Password))
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ChangePassword(t *testing.T) {
	oldHash := mustHash(t, "admin123")

	tests := []struct {
		name          string
		oldPassword   string
		newPassword   string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:        "success",
			oldPassword: "admin123",
			newPassword: "s3cret-pass",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "admin").Return(&model.User{ID: 1, Username: "admin", Password: oldHash}, nil)
				m.On("UpdatePassword", mock.Anything, uint(1), mock.MatchedBy(func(hash string) bool {
					return auth.CheckPassword(hash, "s3cret-pass")
				})).Return(nil)
			},
		},
		{
			name:        "wrong current password",
			oldPassword: "nope",
			newPassword: "s3cret-pass",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "admin").Return(&model.User{ID: 1, Username: "admin", Password: oldHash}, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:          "new password too short",
			oldPassword:   "admin123",
			newPassword:   "abc",
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			service := NewAuthService(mockRepo, auth.NewJWTService("s", 0), new(MockTokenStore), zap.NewNop())
			err := service.ChangePassword(context.Background(), "admin", tt.oldPassword, tt.newPassword)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	mockStore := new(MockTokenStore)
	mockStore.On("Revoke", mock.Anything, "token-id", mock.MatchedBy(func(ttl time.Duration) bool {
		return ttl > 50*time.Minute && ttl <= time.Hour
	})).Return(nil)

	service := NewAuthService(new(MockUserRepository), auth.NewJWTService("s", 0), mockStore, zap.NewNop())
	err := service.Logout(context.Background(), &auth.Claims{
		Username: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "token-id",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	require.NoError(t, err)
	mockStore.AssertExpectations(t)

	assert.ErrorIs(t, service.Logout(context.Background(), nil), apperrors.ErrInvalidToken)
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	t.Run("creates missing admin", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByUsername", mock.Anything, "admin").Return(nil, gorm.ErrRecordNotFound)
		mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.Username == "admin" && auth.CheckPassword(u.Password, "admin123")
		})).Return(nil)

		service := NewAuthService(mockRepo, auth.NewJWTService("s", 0), new(MockTokenStore), zap.NewNop())
		created, err := service.EnsureAdmin(context.Background(), "admin", "admin123")

		require.NoError(t, err)
		assert.True(t, created)
		mockRepo.AssertExpectations(t)
	})

	t.Run("keeps existing admin", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByUsername", mock.Anything, "admin").Return(&model.User{ID: 1, Username: "admin"}, nil)

		service := NewAuthService(mockRepo, auth.NewJWTService("s", 0), new(MockTokenStore), zap.NewNop())
		created, err := service.EnsureAdmin(context.Background(), "admin", "other")

		require.NoError(t, err)
		assert.False(t, created)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("database error", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByUsername", mock.Anything, "admin").Return(nil, errDatabaseDown)

		service := NewAuthService(mockRepo, auth.NewJWTService("s", 0), new(MockTokenStore), zap.NewNop())
		_, err := service.EnsureAdmin(context.Background(), "admin", "admin123")

		assert.ErrorIs(t, err, errDatabaseDown)
	})
}
