package services_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swapitcampus/swapit/internal/models"
	"github.com/swapitcampus/swapit/internal/services"
)

// MockLoginAttemptRepository keeps the attempt log in memory, mirroring the
// SQL semantics of the real repository
type MockLoginAttemptRepository struct {
	attempts []*models.LoginAttempt
	err      error // when set, every method fails with it
}

func NewMockLoginAttemptRepository() *MockLoginAttemptRepository {
	return &MockLoginAttemptRepository{}
}

func (m *MockLoginAttemptRepository) RecordAttempt(ctx context.Context, attempt *models.LoginAttempt) error {
	if m.err != nil {
		return m.err
	}
	copied := *attempt
	m.attempts = append(m.attempts, &copied)
	return nil
}

func (m *MockLoginAttemptRepository) CountFailuresSince(ctx context.Context, hash string, since time.Time) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	count := 0
	for _, a := range m.attempts {
		if a.IdentifierHash == hash && !a.Success && a.AttemptTime.After(since) {
			count++
		}
	}
	return count, nil
}

func (m *MockLoginAttemptRepository) GetLastSuccessTime(ctx context.Context, hash string) (*time.Time, error) {
	if m.err != nil {
		return nil, m.err
	}
	var last *time.Time
	for _, a := range m.attempts {
		if a.IdentifierHash == hash && a.Success {
			if last == nil || a.AttemptTime.After(*last) {
				t := a.AttemptTime
				last = &t
			}
		}
	}
	return last, nil
}

func (m *MockLoginAttemptRepository) GetLatestLockout(ctx context.Context, hash string) (*time.Time, error) {
	if m.err != nil {
		return nil, m.err
	}
	lastSuccess, _ := m.GetLastSuccessTime(ctx, hash)
	var lockout *time.Time
	var lockoutAt time.Time
	for _, a := range m.attempts {
		if a.IdentifierHash != hash || a.LockedUntil == nil {
			continue
		}
		if lastSuccess != nil && !a.AttemptTime.After(*lastSuccess) {
			continue
		}
		if lockout == nil || a.AttemptTime.After(lockoutAt) {
			lockout = a.LockedUntil
			lockoutAt = a.AttemptTime
		}
	}
	return lockout, nil
}

func (m *MockLoginAttemptRepository) DeleteByIdentifier(ctx context.Context, hash string) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	kept := m.attempts[:0]
	var deleted int64
	for _, a := range m.attempts {
		if a.IdentifierHash == hash {
			deleted++
			continue
		}
		kept = append(kept, a)
	}
	m.attempts = kept
	return deleted, nil
}

// recordingNotifier captures lockout notifications
type recordingNotifier struct {
	email       string
	lockedUntil time.Time
	calls       int
}

func (n *recordingNotifier) NotifyLockout(ctx context.Context, email string, lockedUntil time.Time) {
	n.email = email
	n.lockedUntil = lockedUntil
	n.calls++
}

func testPolicy() services.RateLimitPolicy {
	return services.RateLimitPolicy{
		MaxFailedAttempts: 5,
		LockoutDuration:   15 * time.Minute,
	}
}

func newTestLimiter(repo services.LoginAttemptRepository, notifier services.LockoutNotifier) *services.RateLimitService {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	return services.NewRateLimitService(repo, testPolicy(), notifier, logger)
}

func TestRateLimitCheck_AllowsFreshIdentifier(t *testing.T) {
	repo := NewMockLoginAttemptRepository()
	limiter := newTestLimiter(repo, nil)

	result, err := limiter.Check(context.Background(), services.Identifier{Email: "a@x.com", IP: "1.2.3.4"})

	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.False(t, result.Locked)
	assert.Equal(t, 5, result.Remaining)
	assert.Empty(t, result.Message)
}

func TestRateLimitCheck_CountsDownRemaining(t *testing.T) {
	repo := NewMockLoginAttemptRepository()
	limiter := newTestLimiter(repo, nil)
	ctx := context.Background()
	id := services.Identifier{Email: "a@x.com", IP: "1.2.3.4"}

	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.RecordFailure(ctx, id, "Mozilla/5.0"))
	}

	result, err := limiter.Check(ctx, id)

	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.False(t, result.Locked)
	assert.Equal(t, 2, result.Remaining)
}

func TestRateLimitCheck_LocksAfterThreshold(t *testing.T) {
	repo := NewMockLoginAttemptRepository()
	limiter := newTestLimiter(repo, nil)
	ctx := context.Background()
	id := services.Identifier{Email: "a@x.com", IP: "1.2.3.4"}

	for i := 0; i < 5; i++ {
		require.NoError(t, limiter.RecordFailure(ctx, id, "Mozilla/5.0"))
	}

	result, err := limiter.Check(ctx, id)

	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.True(t, result.Locked)
	assert.Equal(t, 0, result.Remaining)
	assert.NotEmpty(t, result.Message)
	assert.Greater(t, result.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, result.RetryAfter, 15*time.Minute)

	// the fifth row carries the lockout expiry
	last := repo.attempts[len(repo.attempts)-1]
	require.NotNil(t, last.LockedUntil)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), *last.LockedUntil, 2*time.Second)
}

func TestRateLimitCheck_ReadsDoNotMutateState(t *testing.T) {
	repo := NewMockLoginAttemptRepository()
	limiter := newTestLimiter(repo, nil)
	ctx := context.Background()
	id := services.Identifier{Email: "a@x.com", IP: "1.2.3.4"}

	require.NoError(t, limiter.RecordFailure(ctx, id, "Mozilla/5.0"))
	before := len(repo.attempts)

	for i := 0; i < 10; i++ {
		_, err := limiter.Check(ctx, id)
		require.NoError(t, err)
	}

	assert.Equal(t, before, len(repo.attempts))
}

func TestRateLimitReset_RestoresFullBudget(t *testing.T) {
	repo := NewMockLoginAttemptRepository()
	limiter := newTestLimiter(repo, nil)
	ctx := context.Background()
	id := services.Identifier{Email: "a@x.com", IP: "1.2.3.4"}

	for i := 0; i < 5; i++ {
		require.NoError(t, limiter.RecordFailure(ctx, id, "Mozilla/5.0"))
	}
	require.NoError(t, limiter.Reset(ctx, id))

	result, err := limiter.Check(ctx, id)

	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.False(t, result.Locked)
	assert.Equal(t, 5, result.Remaining)
	assert.Empty(t, repo.attempts)
}

func TestRateLimitReset_Idempotent(t *testing.T) {
	repo := NewMockLoginAttemptRepository()
	limiter := newTestLimiter(repo, nil)
	ctx := context.Background()
	id := services.Identifier{Email: "a@x.com", IP: "1.2.3.4"}

	require.NoError(t, limiter.RecordFailure(ctx, id, "Mozilla/5.0"))
	require.NoError(t, limiter.Reset(ctx, id))
	require.NoError(t, limiter.Reset(ctx, id))

	result, err := limiter.Check(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 5, result.Remaining)
}

func TestRateLimitRecordSuccess_ClearsCounterKeepsHistory(t *testing.T) {
	repo := NewMockLoginAttemptRepository()
	limiter := newTestLimiter(repo, nil)
	ctx := context.Background()
	id := services.Identifier{Email: "a@x.com", IP: "1.2.3.4"}

	for i := 0; i < 4; i++ {
		require.NoError(t, limiter.RecordFailure(ctx, id, "Mozilla/5.0"))
	}
	require.NoError(t, limiter.RecordSuccess(ctx, id, "Mozilla/5.0"))

	result, err := limiter.Check(ctx, id)

	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, 5, result.Remaining)
	// audit trail preserved: four failures plus the success
	assert.Len(t, repo.attempts, 5)
}

func TestRateLimitRecordSuccess_EndsActiveLockout(t *testing.T) {
	repo := NewMockLoginAttemptRepository()
	limiter := newTestLimiter(repo, nil)
	ctx := context.Background()
	id := services.Identifier{Email: "a@x.com", IP: "1.2.3.4"}

	for i := 0; i < 5; i++ {
		require.NoError(t, limiter.RecordFailure(ctx, id, "Mozilla/5.0"))
	}
	require.NoError(t, limiter.RecordSuccess(ctx, id, "Mozilla/5.0"))

	result, err := limiter.Check(ctx, id)

	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.False(t, result.Locked)
	assert.Equal(t, 5, result.Remaining)
}

func TestRateLimitCheck_ExpiredLockoutReopens(t *testing.T) {
	repo := NewMockLoginAttemptRepository()
	limiter := newTestLimiter(repo, nil)
	ctx := context.Background()
	id := services.Identifier{Email: "a@x.com", IP: "1.2.3.4"}
	hash := id.Hash()

	// five failures twenty minutes ago whose lockout has already elapsed
	base := time.Now().Add(-20 * time.Minute)
	expired := base.Add(15 * time.Minute)
	for i := 0; i < 5; i++ {
		attempt := &models.LoginAttempt{
			IdentifierHash: hash,
			Email:          "a@x.com",
			IPAddress:      "1.2.3.4",
			AttemptTime:    base.Add(time.Duration(i) * time.Second),
			Success:        false,
		}
		if i == 4 {
			attempt.LockedUntil = &expired
		}
		repo.attempts = append(repo.attempts, attempt)
	}

	result, err := limiter.Check(ctx, id)

	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.False(t, result.Locked)
	// expiry clears the counter: a full set of fresh failures is needed to re-lock
	assert.Equal(t, 5, result.Remaining)
}

func TestRateLimitRecordFailure_NoImmediateRelockAfterExpiry(t *testing.T) {
	repo := NewMockLoginAttemptRepository()
	limiter := newTestLimiter(repo, nil)
	ctx := context.Background()
	id := services.Identifier{Email: "a@x.com", IP: "1.2.3.4"}
	hash := id.Hash()

	base := time.Now().Add(-20 * time.Minute)
	expired := base.Add(15 * time.Minute)
	attempt := &models.LoginAttempt{
		IdentifierHash: hash,
		Email:          "a@x.com",
		IPAddress:      "1.2.3.4",
		AttemptTime:    base,
		Success:        false,
		LockedUntil:    &expired,
	}
	repo.attempts = append(repo.attempts, attempt)

	require.NoError(t, limiter.RecordFailure(ctx, id, "Mozilla/5.0"))

	result, err := limiter.Check(ctx, id)

	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, 4, result.Remaining)
}

func TestRateLimit_IdentifiersAreIsolated(t *testing.T) {
	repo := NewMockLoginAttemptRepository()
	limiter := newTestLimiter(repo, nil)
	ctx := context.Background()
	alice := services.Identifier{Email: "alice@x.com", IP: "1.2.3.4"}
	bob := services.Identifier{Email: "bob@x.com", IP: "1.2.3.4"}

	for i := 0; i < 5; i++ {
		require.NoError(t, limiter.RecordFailure(ctx, alice, "Mozilla/5.0"))
	}

	aliceResult, err := limiter.Check(ctx, alice)
	require.NoError(t, err)
	assert.False(t, aliceResult.Allowed)

	bobResult, err := limiter.Check(ctx, bob)
	require.NoError(t, err)
	assert.True(t, bobResult.Allowed)
	assert.Equal(t, 5, bobResult.Remaining)
}

func TestRateLimitCheck_StorageErrorPropagates(t *testing.T) {
	repo := NewMockLoginAttemptRepository()
	repo.err = errors.New("connection refused")
	limiter := newTestLimiter(repo, nil)

	result, err := limiter.Check(context.Background(), services.Identifier{Email: "a@x.com", IP: "1.2.3.4"})

	assert.Nil(t, result)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrStorageUnavailable)
}

func TestRateLimit_EmptyIdentifierFailsFast(t *testing.T) {
	repo := NewMockLoginAttemptRepository()
	limiter := newTestLimiter(repo, nil)
	ctx := context.Background()

	cases := []services.Identifier{
		{},
		{Email: "a@x.com"},
		{IP: "1.2.3.4"},
		{Email: "   ", IP: "1.2.3.4"},
	}

	for _, id := range cases {
		_, err := limiter.Check(ctx, id)
		assert.ErrorIs(t, err, models.ErrInvalidIdentifier)
		assert.ErrorIs(t, limiter.RecordFailure(ctx, id, ""), models.ErrInvalidIdentifier)
		assert.ErrorIs(t, limiter.RecordSuccess(ctx, id, ""), models.ErrInvalidIdentifier)
		assert.ErrorIs(t, limiter.Reset(ctx, id), models.ErrInvalidIdentifier)
	}
	assert.Empty(t, repo.attempts)
}

func TestRateLimitRecordFailure_NotifiesOnLockout(t *testing.T) {
	repo := NewMockLoginAttemptRepository()
	notifier := &recordingNotifier{}
	limiter := newTestLimiter(repo, notifier)
	ctx := context.Background()
	id := services.Identifier{Email: "A@X.com", IP: "1.2.3.4"}

	for i := 0; i < 5; i++ {
		require.NoError(t, limiter.RecordFailure(ctx, id, "Mozilla/5.0"))
	}

	assert.Equal(t, 1, notifier.calls)
	assert.Equal(t, "a@x.com", notifier.email)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), notifier.lockedUntil, 2*time.Second)
}

func TestIdentifierHash_CanonicalAndPrefixFree(t *testing.T) {
	// email normalization: case and surrounding whitespace do not matter
	a := services.Identifier{Email: "A@X.com ", IP: "1.2.3.4"}
	b := services.Identifier{Email: "a@x.com", IP: "1.2.3.4"}
	assert.Equal(t, a.Hash(), b.Hash())

	// the delimiter keeps component boundaries unambiguous
	c := services.Identifier{Email: "ab", IP: "c"}
	d := services.Identifier{Email: "a", IP: "bc"}
	assert.NotEqual(t, c.Hash(), d.Hash())

	// different IPs are different buckets
	e := services.Identifier{Email: "a@x.com", IP: "5.6.7.8"}
	assert.NotEqual(t, b.Hash(), e.Hash())

	assert.Len(t, b.Hash(), 64) // hex SHA-256
}
