package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/swapitcampus/swapit/internal/database"
	"github.com/swapitcampus/swapit/internal/models"
)

// LoginAttemptRepository handles database operations for the login attempt log
type LoginAttemptRepository struct {
	db *database.DB
}

// NewLoginAttemptRepository creates a new LoginAttemptRepository
func NewLoginAttemptRepository(db *database.DB) *LoginAttemptRepository {
	return &LoginAttemptRepository{db: db}
}

// RecordAttempt appends a login attempt to the log
func (r *LoginAttemptRepository) RecordAttempt(ctx context.Context, attempt *models.LoginAttempt) error {
	if attempt.ID == "" {
		attempt.ID = uuid.New().String()
	}
	if attempt.AttemptTime.IsZero() {
		attempt.AttemptTime = time.Now()
	}

	query := `
		INSERT INTO login_attempts (id, identifier_hash, email, ip_address, user_agent, attempt_time, success, locked_until)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		attempt.ID,
		attempt.IdentifierHash,
		attempt.Email,
		attempt.IPAddress,
		attempt.UserAgent,
		attempt.AttemptTime,
		attempt.Success,
		attempt.LockedUntil,
	)

	return err
}

// CountFailuresSince returns the number of failed attempts for an identifier
// strictly after the given instant
func (r *LoginAttemptRepository) CountFailuresSince(ctx context.Context, identifierHash string, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM login_attempts
		WHERE identifier_hash = $1 AND success = false AND attempt_time > $2
	`

	var count int
	err := r.db.Pool.QueryRow(ctx, query, identifierHash, since).Scan(&count)
	return count, err
}

// GetLastSuccessTime returns the timestamp of the most recent successful
// attempt for an identifier, or nil if none exists
func (r *LoginAttemptRepository) GetLastSuccessTime(ctx context.Context, identifierHash string) (*time.Time, error) {
	query := `
		SELECT attempt_time FROM login_attempts
		WHERE identifier_hash = $1 AND success = true
		ORDER BY attempt_time DESC
		LIMIT 1
	`

	var successTime time.Time
	err := r.db.Pool.QueryRow(ctx, query, identifierHash).Scan(&successTime)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &successTime, nil
}

// GetLatestLockout returns the locked_until value of the most recent
// lockout-triggering failure recorded after the identifier's last success,
// or nil if no such failure exists. A success record closes out any
// earlier lockout, so rows before it are not considered.
func (r *LoginAttemptRepository) GetLatestLockout(ctx context.Context, identifierHash string) (*time.Time, error) {
	query := `
		SELECT locked_until FROM login_attempts
		WHERE identifier_hash = $1 AND locked_until IS NOT NULL
		  AND attempt_time > COALESCE(
			(SELECT MAX(attempt_time) FROM login_attempts
			 WHERE identifier_hash = $1 AND success = true),
			'-infinity')
		ORDER BY attempt_time DESC
		LIMIT 1
	`

	var lockedUntil time.Time
	err := r.db.Pool.QueryRow(ctx, query, identifierHash).Scan(&lockedUntil)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &lockedUntil, nil
}

// DeleteByIdentifier removes the full attempt history for an identifier.
// Used by the administrative reset; a normal successful login appends a
// success record instead.
func (r *LoginAttemptRepository) DeleteByIdentifier(ctx context.Context, identifierHash string) (int64, error) {
	query := `DELETE FROM login_attempts WHERE identifier_hash = $1`
	tag, err := r.db.Pool.Exec(ctx, query, identifierHash)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// DeleteExpiredAttempts removes attempt rows older than the cutoff.
// Called by the background cleanup job to enforce retention.
func (r *LoginAttemptRepository) DeleteExpiredAttempts(ctx context.Context, olderThan time.Time) (int64, error) {
	query := `DELETE FROM login_attempts WHERE attempt_time < $1`
	tag, err := r.db.Pool.Exec(ctx, query, olderThan)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
