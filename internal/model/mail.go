package model

import (
	"context"
)

// MailKind identifies the template of an outbound message.
type MailKind string

const (
	MailKindEmailVerify    MailKind = "email_verify"
	MailKindForgotPassword MailKind = "forgot_password"
)

// Mail is an outbound message carrying a single-use token.
type Mail struct {
	Kind  MailKind
	To    string
	Token string
}

// MailSender delivers a message.
type MailSender interface {
	Send(ctx context.Context, mail Mail) error
}

// MailDispatcher hands a message off without waiting for delivery.
type MailDispatcher interface {
	Dispatch(mail Mail)
}
