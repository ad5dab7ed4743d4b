package background

import (
	"context"
	"log/slog"
	"time"

	"github.com/swapitcampus/swapit/internal/repositories"
)

// CleanupManager periodically prunes expired revoked tokens and login
// attempt records that have aged past the retention window.
type CleanupManager struct {
	revokeRepo  *repositories.TokenRevocationRepository
	attemptRepo *repositories.LoginAttemptRepository
	retention   time.Duration
	logger      *slog.Logger
	interval    time.Duration
	stopCh      chan struct{}
}

// NewCleanupManager creates a new cleanup manager. retention is how long
// login attempt rows are kept before being purged.
func NewCleanupManager(
	revokeRepo *repositories.TokenRevocationRepository,
	attemptRepo *repositories.LoginAttemptRepository,
	retention time.Duration,
	logger *slog.Logger,
	interval time.Duration,
) *CleanupManager {
	return &CleanupManager{
		revokeRepo:  revokeRepo,
		attemptRepo: attemptRepo,
		retention:   retention,
		logger:      logger,
		interval:    interval,
		stopCh:      make(chan struct{}),
	}
}

// Start begins the periodic cleanup task
func (cm *CleanupManager) Start(ctx context.Context) {
	ticker := time.NewTicker(cm.interval)
	defer ticker.Stop()

	// Run immediately on startup
	cm.runCleanup(ctx)

	for {
		select {
		case <-ticker.C:
			cm.runCleanup(ctx)
		case <-cm.stopCh:
			cm.logger.Info("cleanup manager stopped")
			return
		case <-ctx.Done():
			cm.logger.Info("cleanup manager context cancelled")
			return
		}
	}
}

func (cm *CleanupManager) runCleanup(ctx context.Context) {
	cleanupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	rowsDeleted, err := cm.revokeRepo.CleanupExpiredTokens(cleanupCtx)
	if err != nil {
		cm.logger.Error("failed to cleanup expired tokens", slog.Any("error", err))
	} else if rowsDeleted > 0 {
		cm.logger.Info("expired token cleanup completed", slog.Int64("rows_deleted", rowsDeleted))
	}

	// Attempt rows stay well past any lockout window so the purge can never
	// affect limiter decisions; it only bounds table growth.
	cutoff := time.Now().Add(-cm.retention)
	attemptsDeleted, err := cm.attemptRepo.DeleteExpiredAttempts(cleanupCtx, cutoff)
	if err != nil {
		cm.logger.Error("failed to purge old login attempts", slog.Any("error", err))
	} else if attemptsDeleted > 0 {
		cm.logger.Info("login attempt purge completed",
			slog.Int64("rows_deleted", attemptsDeleted),
			slog.Time("cutoff", cutoff))
	}
}

// Stop signals the cleanup manager to stop
func (cm *CleanupManager) Stop() {
	close(cm.stopCh)
}
