package outbound

import (
	"context"

	"return_app/internal/core/domain"
)

// Notifier hands a customer notification off for delivery. Implementations
// must not block on the mail being sent.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}

// MailSender delivers one notification mail.
type MailSender interface {
	Send(ctx context.Context, n domain.Notification) error
}
