package mail

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"github.com/sirupsen/logrus"

	"webhost-storefront/internal/logging"
)

// Message is a single outgoing email.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers transactional email.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Resend sends mail through the Resend API.
type Resend struct {
	client *resend.Client
	from   string
}

func NewResend(apiKey, from string) *Resend {
	return &Resend{client: resend.NewClient(apiKey), from: from}
}

func (r *Resend) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := r.client.Emails.Send(&resend.SendEmailRequest{
		From:    r.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	})
	if err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	return nil
}

// LogSender writes messages to the log instead of sending them. It is used
// when no mail provider is configured.
type LogSender struct {
	logger logrus.FieldLogger
}

func NewLogSender(logger logrus.FieldLogger) *LogSender {
	return &LogSender{logger: logging.OrDiscard(logger)}
}

func (l *LogSender) Send(_ context.Context, msg Message) error {
	l.logger.WithFields(logrus.Fields{"to": msg.To, "subject": msg.Subject}).Info("mail: delivery disabled, message logged")
	return nil
}

// New picks Resend when apiKey is set and LogSender otherwise.
func New(apiKey, from string, logger logrus.FieldLogger) Sender {
	if apiKey == "" {
		return NewLogSender(logger)
	}
	return NewResend(apiKey, from)
}
