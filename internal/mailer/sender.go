package mailer

import (
	"context"
	"fmt"
	"net/url"

	"github.com/dtroode/chirp-server/internal/logger"
	"github.com/dtroode/chirp-server/internal/model"
)

var paths = map[model.MailKind]string{
	model.MailKindEmailVerify:    "/verify-email",
	model.MailKindForgotPassword: "/reset-password",
}

// LogSender writes messages to the log instead of delivering them.
type LogSender struct {
	from    string
	baseURL string
	logger  *logger.Logger
}

// NewLogSender creates a sender that logs the link each message would carry.
func NewLogSender(from, baseURL string, logger *logger.Logger) *LogSender {
	return &LogSender{from: from, baseURL: baseURL, logger: logger}
}

var _ model.MailSender = (*LogSender)(nil)

// Send logs the message.
func (s *LogSender) Send(ctx context.Context, mail model.Mail) error {
	link, err := Link(s.baseURL, mail)
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Mailer: message sent",
		"from", s.from,
		"to", mail.To,
		"kind", mail.Kind,
		"link", link)
	return nil
}

// Link builds the URL a message points its recipient to.
func Link(baseURL string, mail model.Mail) (string, error) {
	path, ok := paths[mail.Kind]
	if !ok {
		return "", fmt.Errorf("unknown mail kind %q", mail.Kind)
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse base url: %w", err)
	}
	u = u.JoinPath(path)
	q := u.Query()
	q.Set("token", mail.Token)
	u.RawQuery = q.Encode()

	return u.String(), nil
}
