package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/resend/resend-go/v2"

	"github.com/ilocksmithindiana/lead-service/pkg/logging"
)

// EmailSender defines the interface for sending emails.
// Implementations can be swapped (Resend, sendmail, stub) without changing
// the dispatcher.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// EmailMessage represents an email to be sent.
type EmailMessage struct {
	To      string
	Subject string
	Body    string // Plain text body
	HTML    string // Optional HTML body
	ReplyTo string // Optional reply-to address
}

// ResendSender sends emails through the Resend API.
type ResendSender struct {
	client    *resend.Client
	fromEmail string
	fromName  string
	logger    *logging.Logger
}

// ResendConfig holds configuration for the Resend API client.
type ResendConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
	Timeout   time.Duration
}

// NewResendSender creates a Resend email sender. Returns nil when no API
// key is configured.
func NewResendSender(cfg ResendConfig, logger *logging.Logger) *ResendSender {
	if cfg.APIKey == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.FromName == "" {
		cfg.FromName = "I Locksmith"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &ResendSender{
		client:    resend.NewCustomClient(&http.Client{Timeout: cfg.Timeout}, cfg.APIKey),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		logger:    logger,
	}
}

// Send delivers the message through the Resend client. Transport errors
// and non-2xx API responses come back as errors for the dispatcher to
// treat as a channel failure.
func (s *ResendSender) Send(ctx context.Context, msg EmailMessage) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("notify: resend client not configured")
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail),
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Body,
		ReplyTo: msg.ReplyTo,
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		s.logger.Error("resend send failed", "error", err, "to", msg.To)
		return fmt.Errorf("notify: resend send failed: %w", err)
	}

	s.logger.Info("email sent via resend", "to", msg.To, "subject", msg.Subject, "email_id", sent.Id)
	return nil
}

// StubEmailSender is a no-op sender for testing or when email is disabled.
type StubEmailSender struct {
	logger *logging.Logger
}

// NewStubEmailSender creates a stub email sender that logs but doesn't send.
func NewStubEmailSender(logger *logging.Logger) *StubEmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubEmailSender{logger: logger}
}

// Send logs the email but doesn't actually send it.
func (s *StubEmailSender) Send(ctx context.Context, msg EmailMessage) error {
	s.logger.Info("stub email sender: would send email", "to", msg.To, "subject", msg.Subject)
	return nil
}

var _ EmailSender = (*ResendSender)(nil)
var _ EmailSender = (*StubEmailSender)(nil)
