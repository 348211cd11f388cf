package notify

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/ilocksmithindiana/lead-service/pkg/logging"
)

// SendmailSender delivers mail through the platform sendmail binary. It is
// the secondary channel: headers-only plain text, no HTML body.
type SendmailSender struct {
	path      string
	fromEmail string
	fromName  string
	logger    *logging.Logger
}

// NewSendmailSender creates a sender that pipes messages to the sendmail
// binary at path. Returns nil when path is empty.
func NewSendmailSender(path, fromEmail, fromName string, logger *logging.Logger) *SendmailSender {
	if path == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if fromName == "" {
		fromName = "I Locksmith"
	}
	return &SendmailSender{
		path:      path,
		fromEmail: fromEmail,
		fromName:  fromName,
		logger:    logger,
	}
}

// Send writes an RFC 822 message to sendmail's stdin. Only the plain-text
// body is sent.
func (s *SendmailSender) Send(ctx context.Context, msg EmailMessage) error {
	if s == nil {
		return fmt.Errorf("notify: sendmail not configured")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "From: %s <%s>\r\n", s.fromName, s.fromEmail)
	replyTo := msg.ReplyTo
	if replyTo == "" {
		replyTo = s.fromEmail
	}
	fmt.Fprintf(&b, "Reply-To: %s\r\n", replyTo)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)

	cmd := exec.CommandContext(ctx, s.path, "-t", "-i")
	cmd.Stdin = strings.NewReader(b.String())
	if out, err := cmd.CombinedOutput(); err != nil {
		s.logger.Error("sendmail delivery failed", "error", err, "output", string(out), "to", msg.To)
		return fmt.Errorf("notify: sendmail failed: %w", err)
	}

	s.logger.Info("email sent via sendmail", "to", msg.To, "subject", msg.Subject)
	return nil
}

var _ EmailSender = (*SendmailSender)(nil)
