package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"sitecms/internal/auth"
	apperrors "sitecms/internal/errors"
	"sitecms/internal/model"
	"sitecms/internal/repository"
)

// MinPasswordLength is the shortest accepted new password.
const MinPasswordLength = 6

// AuthService handles authentication operations.
type AuthService interface {
	ValidateCredentials(ctx context.Context, username, password string) (*model.User, error)
	Login(ctx context.Context, username, password string) (token string, user *model.User, err error)
	ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error
	Logout(ctx context.Context, claims *auth.Claims) error
	// EnsureAdmin creates the user when it does not exist yet and reports
	// whether it did. An existing password is never overwritten.
	EnsureAdmin(ctx context.Context, username, password string) (bool, error)
	// Degraded reports whether the last login had to use the fallback
	// credential because the database was unreachable.
	Degraded() bool
}

// AuthOption configures optional AuthService behaviour.
type AuthOption func(*authService)

// WithFallbackCredential keeps one credential in memory that is accepted
// only when the user lookup fails with a database error.
func WithFallbackCredential(username, password string) AuthOption {
	return func(s *authService) {
		hash, err := auth.HashPassword(password)
		if err != nil {
			s.logger.Warn("fallback credential disabled", zap.Error(err))
			return
		}
		s.fallback = map[string]string{username: hash}
	}
}

type authService struct {
	users      repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	logger     *zap.Logger

	mu       sync.RWMutex
	fallback map[string]string
	degraded atomic.Bool
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface, logger *zap.Logger, opts ...AuthOption) AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &authService{
		users:      users,
		jwtService: jwtService,
		tokenStore: tokenStore,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidateCredentials returns the user when password matches. Unknown users
// and wrong passwords both yield ErrInvalidCredentials.
func (s *authService) ValidateCredentials(ctx context.Context, username, password string) (*model.User, error) {
	if username == "" || password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return s.checkFallback(username, password, err)
	}
	if s.degraded.Swap(false) {
		s.logger.Info("auth recovered from degraded mode")
	}

	if !auth.CheckPassword(user.Password, password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if auth.IsLegacyHash(user.Password) {
		s.upgradeHash(ctx, user, password)
	}
	return user, nil
}

func (s *authService) checkFallback(username, password string, lookupErr error) (*model.User, error) {
	s.mu.RLock()
	hash, ok := s.fallback[username]
	enabled := s.fallback != nil
	s.mu.RUnlock()

	if !enabled {
		return nil, fmt.Errorf("find user: %w", lookupErr)
	}
	s.degraded.Store(true)
	s.logger.Warn("user lookup failed, using fallback credential",
		zap.String("username", username),
		zap.Error(lookupErr))
	if !ok || !auth.CheckPassword(hash, password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return &model.User{Username: username}, nil
}

func (s *authService) upgradeHash(ctx context.Context, user *model.User, password string) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		s.logger.Warn("rehash legacy password", zap.Error(err))
		return
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		s.logger.Warn("store upgraded password hash", zap.String("username", user.Username), zap.Error(err))
		return
	}
	user.Password = hash
	s.logger.Info("upgraded legacy password hash", zap.String("username", user.Username))
}

// Login validates credentials and issues a session token.
func (s *authService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	user, err := s.ValidateCredentials(ctx, username, password)
	if err != nil {
		return "", nil, err
	}
	token, err := s.jwtService.GenerateToken(user.Username)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}
	return token, user, nil
}

// ChangePassword verifies the current password, then stores the new hash.
// It is the only code path that writes passwords.
func (s *authService) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return fmt.Errorf("%w: new password must be at least %d characters", apperrors.ErrInvalidInput, MinPasswordLength)
	}
	user, err := s.ValidateCredentials(ctx, username, oldPassword)
	if err != nil {
		return err
	}
	if user.ID == 0 {
		return errors.New("change password: database unavailable")
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", translate(err))
	}

	s.mu.Lock()
	if _, ok := s.fallback[username]; ok {
		s.fallback[username] = hash
	}
	s.mu.Unlock()

	s.logger.Info("password changed", zap.String("username", username))
	return nil
}

// Logout revokes the token until it would have expired anyway.
func (s *authService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return apperrors.ErrInvalidToken
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.tokenStore.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *authService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	_, err := s.users.FindByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("check admin user: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, err
	}
	if err := s.users.Create(ctx, &model.User{Username: username, Password: hash}); err != nil {
		return false, fmt.Errorf("create admin user: %w", err)
	}
	s.logger.Info("admin user created", zap.String("username", username))
	return true, nil
}

func (s *authService) Degraded() bool {
	return s.degraded.Load()
}
