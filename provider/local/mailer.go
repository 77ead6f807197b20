package local

import (
	"context"
	"fmt"
)

// Mail is an outbound provider message (verification or reset link).
type Mail struct {
	To      string
	Purpose MailTokenPurpose
	Link    string
}

// Mailer dispatches provider messages. Delivery is best-effort; the provider
// treats a mailer failure as a dispatch failure for the calling operation.
type Mailer interface {
	Send(ctx context.Context, mail Mail) error
}

// MailerFunc adapts a function to the Mailer interface.
type MailerFunc func(ctx context.Context, mail Mail) error

func (f MailerFunc) Send(ctx context.Context, mail Mail) error {
	if f == nil {
		return nil
	}
	return f(ctx, mail)
}

type logMailer struct{}

func (logMailer) Send(_ context.Context, mail Mail) error {
	fmt.Println("====== SENDING EMAIL NOTIFICATION =======")
	fmt.Printf("to: %s\n", mail.To)
	fmt.Printf("purpose: %s\n", mail.Purpose)
	fmt.Printf("link: %s\n", mail.Link)
	return nil
}

func normalizeMailer(m Mailer) Mailer {
	if m == nil {
		return logMailer{}
	}
	return m
}
