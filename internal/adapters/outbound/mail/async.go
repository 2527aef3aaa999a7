package mail

import (
	"context"
	"sync"
	"time"

	"return_app/internal/core/domain"
	"return_app/internal/ports/outbound"

	"go.uber.org/zap"
)

// AsyncNotifier sends mail in the background without a queue. It is the
// notifier used when no Kafka brokers are configured.
type AsyncNotifier struct {
	mail    outbound.MailSender
	log     *zap.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewAsyncNotifier(mail outbound.MailSender, timeout time.Duration, log *zap.Logger) *AsyncNotifier {
	return &AsyncNotifier{mail: mail, log: log.Named("mail"), timeout: timeout}
}

// Notify never fails; delivery errors are only logged.
func (a *AsyncNotifier) Notify(ctx context.Context, n domain.Notification) error {
	ctx = context.WithoutCancel(ctx)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if a.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, a.timeout)
			defer cancel()
		}
		if err := a.mail.Send(ctx, n); err != nil {
			a.log.Warn("mail not sent", zap.String("request_id", n.RequestID), zap.Error(err))
		}
	}()
	return nil
}

// Wait blocks until every pending send has finished.
func (a *AsyncNotifier) Wait() {
	a.wg.Wait()
}

var _ outbound.Notifier = (*AsyncNotifier)(nil)
