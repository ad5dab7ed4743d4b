package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/swapitcampus/swapit/internal/models"
)

// Identifier is the composite rate-limiting key: the credential being
// attacked and the network origin of the attempt. Both dimensions are
// throttled together so a single IP cannot burn through one account and
// a botnet cannot share one identifier's budget.
type Identifier struct {
	Email string
	IP    string
}

// Validate reports whether the identifier can be used as a rate-limiting
// key. An empty component is a caller programming error.
func (id Identifier) Validate() error {
	if strings.TrimSpace(id.Email) == "" || strings.TrimSpace(id.IP) == "" {
		return models.ErrInvalidIdentifier
	}
	return nil
}

// Hash returns the storage key for the identifier: hex SHA-256 of the
// canonical serialization. The newline delimiter keeps the encoding
// prefix-free, so ("ab","c") and ("a","bc") hash differently.
func (id Identifier) Hash() string {
	canonical := strings.ToLower(strings.TrimSpace(id.Email)) + "\n" + strings.TrimSpace(id.IP)
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}

func (id Identifier) normalizedEmail() string {
	return strings.ToLower(strings.TrimSpace(id.Email))
}

// CheckResult is the outcome of a pre-authentication rate limit check.
type CheckResult struct {
	Allowed    bool
	Locked     bool
	Remaining  int           // failures left before lockout, 0 when locked
	RetryAfter time.Duration // time until the lockout expires, 0 when not locked
	Message    string        // user-facing text, set only when locked
}

// LoginAttemptRepository defines the persistence operations the rate
// limiter needs
type LoginAttemptRepository interface {
	RecordAttempt(ctx context.Context, attempt *models.LoginAttempt) error
	CountFailuresSince(ctx context.Context, identifierHash string, since time.Time) (int, error)
	GetLastSuccessTime(ctx context.Context, identifierHash string) (*time.Time, error)
	GetLatestLockout(ctx context.Context, identifierHash string) (*time.Time, error)
	DeleteByIdentifier(ctx context.Context, identifierHash string) (int64, error)
}

// LockoutNotifier is told when an identifier trips the lockout threshold.
// Notification is best effort and must not block or fail the login path.
type LockoutNotifier interface {
	NotifyLockout(ctx context.Context, email string, lockedUntil time.Time)
}

// RateLimitPolicy holds the brute-force protection policy
type RateLimitPolicy struct {
	MaxFailedAttempts int           // lockout threshold N
	LockoutDuration   time.Duration // lockout length once N is reached
}

// RateLimitService is the login brute-force guard. All state lives in the
// durable attempt log, so one instance is safe to share across request
// handlers without in-process synchronization.
//
// Failure semantics are deliberately fail-closed: storage errors are
// returned to the caller, which must treat them as a denial. A database
// outage must not become a rate-limit bypass.
type RateLimitService struct {
	repo     LoginAttemptRepository
	policy   RateLimitPolicy
	notifier LockoutNotifier // optional
	logger   *slog.Logger
}

// NewRateLimitService creates a new RateLimitService. notifier may be nil.
func NewRateLimitService(repo LoginAttemptRepository, policy RateLimitPolicy, notifier LockoutNotifier, logger *slog.Logger) *RateLimitService {
	return &RateLimitService{
		repo:     repo,
		policy:   policy,
		notifier: notifier,
		logger:   logger,
	}
}

// Check reports whether an authentication attempt for the identifier may
// proceed. It is a pure read: no state changes, no matter the outcome.
//
// Failures accumulate since the most recent success (or the most recent
// elapsed lockout, whichever is later); there is no sliding time window.
// Once the count reaches the threshold the identifier stays locked until
// the locked_until instant stored on the triggering failure.
func (s *RateLimitService) Check(ctx context.Context, id Identifier) (*CheckResult, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	hash := id.Hash()
	now := time.Now()

	lockedUntil, err := s.repo.GetLatestLockout(ctx, hash)
	if err != nil {
		s.logger.Error("failed to query lockout state", slog.Any("error", err))
		return nil, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}

	if lockedUntil != nil && now.Before(*lockedUntil) {
		wait := lockedUntil.Sub(now)
		s.logger.Warn("identifier locked out",
			slog.String("identifier_hash", hash),
			slog.Time("locked_until", *lockedUntil))
		return &CheckResult{
			Allowed:    false,
			Locked:     true,
			Remaining:  0,
			RetryAfter: wait,
			Message:    lockoutMessage(wait),
		}, nil
	}

	since, err := s.failureWindowStart(ctx, hash, lockedUntil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}

	count, err := s.repo.CountFailuresSince(ctx, hash, since)
	if err != nil {
		s.logger.Error("failed to count login failures", slog.Any("error", err))
		return nil, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}

	remaining := s.policy.MaxFailedAttempts - count
	if remaining < 0 {
		remaining = 0
	}

	return &CheckResult{
		Allowed:   true,
		Locked:    false,
		Remaining: remaining,
	}, nil
}

// RecordFailure appends a failed attempt for the identifier. When this
// failure brings the qualifying count to the threshold, the row is written
// with locked_until set, which is what arms the lockout. Callers must
// invoke this at most once per genuine failed credential check.
//
// Two near-simultaneous failures can both read a below-threshold count and
// insert, making the lockout land one attempt early or late. That race is
// accepted: the attempt log stays consistent and the window only shifts by
// one request.
func (s *RateLimitService) RecordFailure(ctx context.Context, id Identifier, userAgent string) error {
	if err := id.Validate(); err != nil {
		return err
	}
	hash := id.Hash()
	now := time.Now()

	lockedUntil, err := s.repo.GetLatestLockout(ctx, hash)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}

	since, err := s.failureWindowStart(ctx, hash, lockedUntil)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}

	count, err := s.repo.CountFailuresSince(ctx, hash, since)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}

	attempt := &models.LoginAttempt{
		IdentifierHash: hash,
		Email:          id.normalizedEmail(),
		IPAddress:      id.IP,
		UserAgent:      userAgent,
		AttemptTime:    now,
		Success:        false,
	}

	if count+1 >= s.policy.MaxFailedAttempts {
		until := now.Add(s.policy.LockoutDuration)
		attempt.LockedUntil = &until
	}

	if err := s.repo.RecordAttempt(ctx, attempt); err != nil {
		s.logger.Error("failed to record login failure", slog.Any("error", err))
		return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}

	if attempt.LockedUntil != nil {
		s.logger.Warn("lockout triggered",
			slog.String("identifier_hash", hash),
			slog.Int("failed_attempts", count+1),
			slog.Time("locked_until", *attempt.LockedUntil))
		if s.notifier != nil {
			s.notifier.NotifyLockout(ctx, attempt.Email, *attempt.LockedUntil)
		}
	}

	return nil
}

// RecordSuccess appends a successful attempt for the identifier. Later
// checks only count failures after this record, so the identifier's budget
// is back to the full threshold while the failure history stays in the log
// for audit.
func (s *RateLimitService) RecordSuccess(ctx context.Context, id Identifier, userAgent string) error {
	if err := id.Validate(); err != nil {
		return err
	}

	attempt := &models.LoginAttempt{
		IdentifierHash: id.Hash(),
		Email:          id.normalizedEmail(),
		IPAddress:      id.IP,
		UserAgent:      userAgent,
		AttemptTime:    time.Now(),
		Success:        true,
	}

	if err := s.repo.RecordAttempt(ctx, attempt); err != nil {
		s.logger.Error("failed to record login success", slog.Any("error", err))
		return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}

	return nil
}

// Reset deletes the full attempt history for the identifier. This is the
// destructive administrative variant; the normal login path uses
// RecordSuccess to preserve the audit trail. Idempotent.
func (s *RateLimitService) Reset(ctx context.Context, id Identifier) error {
	if err := id.Validate(); err != nil {
		return err
	}
	hash := id.Hash()

	deleted, err := s.repo.DeleteByIdentifier(ctx, hash)
	if err != nil {
		s.logger.Error("failed to reset login attempts", slog.Any("error", err))
		return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}

	if deleted > 0 {
		s.logger.Info("login attempt history reset",
			slog.String("identifier_hash", hash),
			slog.Int64("rows_deleted", deleted))
	}

	return nil
}

// failureWindowStart returns the instant after which failures count toward
// the threshold: the most recent success, or the most recent elapsed
// lockout, whichever is later. An elapsed lockout therefore clears the
// counter; re-locking requires a full set of fresh failures.
func (s *RateLimitService) failureWindowStart(ctx context.Context, hash string, latestLockout *time.Time) (time.Time, error) {
	var since time.Time

	lastSuccess, err := s.repo.GetLastSuccessTime(ctx, hash)
	if err != nil {
		s.logger.Error("failed to query last success", slog.Any("error", err))
		return time.Time{}, err
	}
	if lastSuccess != nil {
		since = *lastSuccess
	}

	if latestLockout != nil && !time.Now().Before(*latestLockout) && latestLockout.After(since) {
		since = *latestLockout
	}

	return since, nil
}

func lockoutMessage(wait time.Duration) string {
	minutes := int(wait.Minutes()) + 1
	if minutes <= 1 {
		return "Too many failed login attempts. Try again in 1 minute."
	}
	return fmt.Sprintf("Too many failed login attempts. Try again in %d minutes.", minutes)
}
