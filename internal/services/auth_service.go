package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/swapitcampus/swapit/internal/auth"
	"github.com/swapitcampus/swapit/internal/models"
	pkgauth "github.com/swapitcampus/swapit/pkg/auth"
	pkglogger "github.com/swapitcampus/swapit/pkg/logger"
)

// TokenRevocationRepository defines the interface for token revocation operations
type TokenRevocationRepository interface {
	RevokeToken(ctx context.Context, jti, userID, tokenType string, expiresAt time.Time, reason string) error
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

// LoginRateLimiter is the brute-force guard consulted before every
// credential check and told about every outcome
type LoginRateLimiter interface {
	Check(ctx context.Context, id Identifier) (*CheckResult, error)
	RecordFailure(ctx context.Context, id Identifier, userAgent string) error
	RecordSuccess(ctx context.Context, id Identifier, userAgent string) error
}

// AuthService handles authentication business logic
type AuthService struct {
	repo        UserRepository
	revokeRepo  TokenRevocationRepository
	limiter     LoginRateLimiter
	tm          *auth.TokenManager
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

// NewAuthService creates a new AuthService
func NewAuthService(repo UserRepository, tm *auth.TokenManager, revokeRepo TokenRevocationRepository, limiter LoginRateLimiter, logger *slog.Logger, auditLogger *pkglogger.AuditLogger) *AuthService {
	return &AuthService{
		repo:        repo,
		revokeRepo:  revokeRepo,
		limiter:     limiter,
		tm:          tm,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

// UserResponse represents a user in the HTTP response
type UserResponse struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Dorm          string `json:"dorm,omitempty"`
	EmailVerified bool   `json:"email_verified"`
	Role          string `json:"role"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// AuthResponse represents the response from auth operations
type AuthResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	User         *UserResponse `json:"user"`
}

// Login authenticates a user and returns tokens.
//
// The rate limiter is consulted before the credential check and told the
// outcome afterwards: failures are recorded, successes append a success
// record that restores the identifier's budget. A storage error from the
// limiter denies the login (fail closed); a database outage must not
// become a brute-force window.
func (s *AuthService) Login(ctx context.Context, email, password, ipAddress, userAgent string) (*AuthResponse, error) {
	if email = strings.ToLower(strings.TrimSpace(email)); email == "" {
		s.logger.Warn("login attempt with empty email")
		return nil, models.ErrUnauthorized
	}

	id := Identifier{Email: email, IP: ipAddress}

	check, err := s.limiter.Check(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrInvalidIdentifier) {
			return nil, models.ErrUnauthorized
		}
		s.logger.Error("rate limit check failed, denying login", slog.Any("error", err))
		return nil, models.ErrStorageUnavailable
	}

	if !check.Allowed {
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "login_blocked",
			IPAddress:     ipAddress,
			UserAgent:     userAgent,
			FailureReason: "rate_limited",
			Success:       false,
		})
		return nil, &models.LockoutError{
			Message:    check.Message,
			RetryAfter: check.RetryAfter,
		}
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			// unknown accounts burn the same budget as wrong passwords,
			// otherwise probing emails is free
			s.recordFailure(ctx, id, userAgent)
			s.logger.Info("login failed: invalid credentials")
			s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
				EventType:     "login_failed",
				IPAddress:     ipAddress,
				FailureReason: "invalid_credentials",
				Success:       false,
			})
			return nil, models.ErrUnauthorized
		}
		s.logger.Error("failed to get user by email", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if err := validateAccountState(user); err != nil {
		s.logger.Info("login blocked due to account state",
			slog.String("user_id", user.ID),
			slog.String("status", user.Status))
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "login_failed",
			UserID:        user.ID,
			IPAddress:     ipAddress,
			FailureReason: "account_blocked",
			Success:       false,
		})
		return nil, err
	}

	if err := pkgauth.ComparePassword(user.PasswordHash, password); err != nil {
		s.recordFailure(ctx, id, userAgent)
		s.logger.Info("login failed: invalid credentials")
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "login_failed",
			UserID:        user.ID,
			IPAddress:     ipAddress,
			FailureReason: "invalid_credentials",
			Success:       false,
		})
		return nil, models.ErrUnauthorized
	}

	if err := s.limiter.RecordSuccess(ctx, id, userAgent); err != nil {
		// the user proved their identity; a bookkeeping failure only
		// delays the budget reset
		s.logger.Error("failed to record login success", slog.Any("error", err))
	}

	accessToken, err := s.tm.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		s.logger.Error("failed to generate access token", slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	refreshToken, err := s.tm.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		s.logger.Error("failed to generate refresh token", slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user logged in", slog.String("user_id", user.ID))
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "login_success",
		UserID:    user.ID,
		IPAddress: ipAddress,
		Success:   true,
	})

	return &AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         userModelToResponse(user),
	}, nil
}

func (s *AuthService) recordFailure(ctx context.Context, id Identifier, userAgent string) {
	if err := s.limiter.RecordFailure(ctx, id, userAgent); err != nil {
		// the login is denied either way; losing the record only makes
		// the lockout land late
		s.logger.Error("failed to record login failure", slog.Any("error", err))
	}
}

// Register creates a new account and returns tokens
func (s *AuthService) Register(ctx context.Context, email, password, name, dorm string) (*AuthResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || name == "" {
		return nil, models.ErrBadRequest
	}

	if err := pkgauth.ValidatePassword(password); err != nil {
		return nil, models.ErrBadRequest
	}

	hashedPassword, err := pkgauth.HashPassword(password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hashedPassword,
		Name:         name,
		Dorm:         dorm,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, models.ErrConflict
		}
		s.logger.Error("failed to create user", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	accessToken, err := s.tm.GenerateAccessToken(created.ID, created.Email)
	if err != nil {
		return nil, models.ErrInternalServer
	}
	refreshToken, err := s.tm.GenerateRefreshToken(created.ID, created.Email)
	if err != nil {
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user registered", slog.String("user_id", created.ID))
	s.auditLogger.LogAccountAction("user_registered", created.ID, "", nil)

	return &AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         userModelToResponse(created),
	}, nil
}

// RefreshToken generates a new token pair from a refresh token
func (s *AuthService) RefreshToken(ctx context.Context, refreshTokenString string) (*AuthResponse, error) {
	if refreshTokenString = strings.TrimSpace(refreshTokenString); refreshTokenString == "" {
		return nil, models.ErrUnauthorized
	}

	claims, err := s.tm.ValidateToken(refreshTokenString)
	if err != nil {
		s.logger.Info("refresh token validation failed", slog.Any("error", err))
		return nil, models.ErrUnauthorized
	}

	if claims.Type != "refresh" {
		s.logger.Warn("refresh attempt with non-refresh token", slog.String("user_id", claims.UserID))
		return nil, models.ErrUnauthorized
	}

	if claims.ID != "" {
		revoked, err := s.revokeRepo.IsTokenRevoked(ctx, claims.ID)
		if err != nil {
			s.logger.Error("failed to check token revocation", slog.Any("error", err))
			return nil, models.ErrInternalServer
		}
		if revoked {
			return nil, models.ErrUnauthorized
		}
	}

	user, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrUnauthorized
		}
		s.logger.Error("failed to get user for token refresh", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if err := validateAccountState(user); err != nil {
		return nil, models.ErrUnauthorized
	}

	// Rotate: revoke the used refresh token, issue a fresh pair
	if claims.ID != "" && claims.ExpiresAt != nil {
		if err := s.revokeRepo.RevokeToken(ctx, claims.ID, user.ID, "refresh", claims.ExpiresAt.Time, "rotated"); err != nil {
			s.logger.Error("failed to revoke rotated refresh token", slog.Any("error", err))
		}
	}

	accessToken, err := s.tm.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, models.ErrInternalServer
	}
	newRefreshToken, err := s.tm.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, models.ErrInternalServer
	}

	return &AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		User:         userModelToResponse(user),
	}, nil
}

// Logout revokes the presented access token
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.tm.ValidateToken(accessToken)
	if err != nil {
		return models.ErrUnauthorized
	}

	if claims.ID == "" || claims.ExpiresAt == nil {
		return models.ErrUnauthorized
	}

	if err := s.revokeRepo.RevokeToken(ctx, claims.ID, claims.UserID, claims.Type, claims.ExpiresAt.Time, "logout"); err != nil {
		s.logger.Error("failed to revoke token on logout", slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.auditLogger.LogAccountAction("logout", claims.UserID, "", nil)
	return nil
}

func validateAccountState(user *models.User) error {
	switch user.Status {
	case "disabled":
		return models.ErrAccountDisabled
	case "suspended":
		return models.ErrAccountSuspended
	}
	return nil
}

func userModelToResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:            user.ID,
		Email:         user.Email,
		Name:          user.Name,
		Dorm:          user.Dorm,
		EmailVerified: user.EmailVerified,
		Role:          user.Role,
		CreatedAt:     user.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     user.UpdatedAt.Format(time.RFC3339),
	}
}
