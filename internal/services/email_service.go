package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	pkglogger "github.com/swapitcampus/swapit/pkg/logger"
)

// AWSSESLockoutNotifier emails the account holder when their identifier
// trips the lockout threshold, so a legitimate user learns someone is
// hammering their account. Implements LockoutNotifier.
type AWSSESLockoutNotifier struct {
	sesClient   *ses.Client
	fromAddress string
	logger      *slog.Logger
}

// NewAWSSESLockoutNotifier creates a new SES-backed lockout notifier
func NewAWSSESLockoutNotifier(region, fromAddress string, logger *slog.Logger) (*AWSSESLockoutNotifier, error) {
	cfg, err := config.LoadDefaultConfig(context.Background(), config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &AWSSESLockoutNotifier{
		sesClient:   ses.NewFromConfig(cfg),
		fromAddress: fromAddress,
		logger:      logger,
	}, nil
}

// NotifyLockout sends the lockout alert in a detached goroutine. Delivery
// is best effort: a failed send is logged, never surfaced to the login path.
func (n *AWSSESLockoutNotifier) NotifyLockout(ctx context.Context, email string, lockedUntil time.Time) {
	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := n.send(sendCtx, email, lockedUntil); err != nil {
			n.logger.Error("failed to send lockout alert email",
				slog.String("email", pkglogger.SanitizedEmail(email)),
				slog.Any("error", err))
			return
		}
		n.logger.Info("lockout alert email sent",
			slog.String("email", pkglogger.SanitizedEmail(email)))
	}()
}

func (n *AWSSESLockoutNotifier) send(ctx context.Context, email string, lockedUntil time.Time) error {
	minutes := int(time.Until(lockedUntil).Minutes()) + 1

	textBody := fmt.Sprintf(`Hi,

Someone made too many failed sign-in attempts to your SwapIt account, so sign-in has been temporarily blocked for about %d minutes.

If this was you, just wait and try again with the correct password.

If this wasn't you, no one got in, but we recommend changing your password once the block lifts.

— The SwapIt team

This is an automated message. Please do not reply to this email.
`, minutes)

	input := &ses.SendEmailInput{
		Source: aws.String(n.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{email},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String("SwapIt sign-in temporarily blocked"),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data: aws.String(textBody),
				},
			},
		},
	}

	if _, err := n.sesClient.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email via SES: %w", err)
	}

	return nil
}
