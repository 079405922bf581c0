package mailer

import (
	"context"
	"sync"
	"time"

	"github.com/dtroode/chirp-server/internal/logger"
	"github.com/dtroode/chirp-server/internal/model"
)

// Async sends every message on its own goroutine. Failures are logged and
// never reach the caller.
type Async struct {
	sender  model.MailSender
	timeout time.Duration
	logger  *logger.Logger
	wg      sync.WaitGroup
}

// NewAsync creates a dispatcher over sender.
func NewAsync(sender model.MailSender, timeout time.Duration, logger *logger.Logger) *Async {
	return &Async{sender: sender, timeout: timeout, logger: logger}
}

var _ model.MailDispatcher = (*Async)(nil)

// Dispatch starts delivery and returns immediately.
func (a *Async) Dispatch(mail model.Mail) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()

		if err := a.sender.Send(ctx, mail); err != nil {
			a.logger.Error("Mailer: failed to send message", "to", mail.To, "kind", mail.Kind, "error", err)
		}
	}()
}

// Wait blocks until in-flight messages finish or ctx is done.
func (a *Async) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
