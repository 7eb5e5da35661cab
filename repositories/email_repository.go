package repositories

import (
	"context"

	"github.com/mimichq/mimic-backend/utils"
)

// EmailRepository delivers transactional emails. The magic link flow is the
// only consumer for now.
type EmailRepository interface {
	SendMagicLinkEmail(ctx context.Context, recipient string, link string) error
}

// LogEmailRepository writes the email to the log instead of sending it. It
// is the default when no provider is configured, which is what local
// development and tests want.
type LogEmailRepository struct{}

func (LogEmailRepository) SendMagicLinkEmail(ctx context.Context, recipient string, link string) error {
	logger := utils.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "magic link email (log only)",
		"recipient", recipient, "link", link)
	return nil
}
