package notify

import (
	"context"
	"time"

	"github.com/ilocksmithindiana/lead-service/internal/submission"
	"github.com/ilocksmithindiana/lead-service/pkg/logging"
)

// Channel identifies which delivery path carried a notification.
type Channel string

const (
	ChannelNone      Channel = "none"
	ChannelPrimary   Channel = "primary"   // Resend API
	ChannelSecondary Channel = "secondary" // platform sendmail
	ChannelTertiary  Channel = "tertiary"  // durable on-disk queue
)

// DispatchOutcome is the result of a dispatch attempt.
type DispatchOutcome struct {
	Delivered bool
	Channel   Channel
}

// fallbackNote marks records queued for manual follow-up.
const fallbackNote = "Email delivery failed - requires manual processing"

// Dispatcher sends lead notifications through an ordered chain of channels.
// Each channel is attempted only if the previous one failed; a channel
// failure is an expected result, not an exception. The durable store is the
// last link, so a lead is never silently lost.
type Dispatcher struct {
	primary   EmailSender
	secondary EmailSender
	store     *FallbackStore

	notificationEmail string
	business          BusinessInfo
	logger            *logging.Logger
	now               func() time.Time
}

// NewDispatcher wires the channel chain. Either sender may be nil; a nil
// channel is skipped as if it had failed.
func NewDispatcher(primary, secondary EmailSender, store *FallbackStore, notificationEmail string, business BusinessInfo, logger *logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.Default()
	}
	return &Dispatcher{
		primary:           primary,
		secondary:         secondary,
		store:             store,
		notificationEmail: notificationEmail,
		business:          business,
		logger:            logger,
		now:               time.Now,
	}
}

// Dispatch attempts delivery through the chain, always with the current
// submission. Urgency changes subject and body presentation only; the
// channel order is identical for urgent and non-urgent leads.
func (d *Dispatcher) Dispatch(ctx context.Context, sub submission.CanonicalSubmission) DispatchOutcome {
	subject := buildSubject(sub)
	text := buildText(sub)

	msg := EmailMessage{
		To:      d.notificationEmail,
		Subject: subject,
		Body:    text,
	}
	if sub.Email != "" {
		msg.ReplyTo = sub.Email
	}

	outcome := DispatchOutcome{Channel: ChannelNone}

	primaryMsg := msg
	primaryMsg.HTML = buildHTML(sub, d.business)
	if d.trySend(ctx, d.primary, primaryMsg, ChannelPrimary) {
		outcome = DispatchOutcome{Delivered: true, Channel: ChannelPrimary}
	} else if d.trySend(ctx, d.secondary, msg, ChannelSecondary) {
		outcome = DispatchOutcome{Delivered: true, Channel: ChannelSecondary}
	} else if err := d.queueFallback(sub); err != nil {
		d.logger.Error("all notification channels failed", "error", err, "name", sub.Name, "phone", sub.Phone)
	} else {
		outcome = DispatchOutcome{Delivered: true, Channel: ChannelTertiary}
	}

	// Best-effort confirmation to the submitter, primary channel only.
	// Its failure never changes the dispatch outcome.
	if sub.Email != "" {
		d.sendConfirmation(ctx, sub)
	}

	return outcome
}

func (d *Dispatcher) trySend(ctx context.Context, sender EmailSender, msg EmailMessage, ch Channel) bool {
	if sender == nil {
		return false
	}
	if err := sender.Send(ctx, msg); err != nil {
		d.logger.Warn("notification channel failed", "channel", ch, "error", err)
		return false
	}
	return true
}

func (d *Dispatcher) queueFallback(sub submission.CanonicalSubmission) error {
	if d.store == nil {
		return errNoFallbackStore
	}
	return d.store.Append(FailedSubmissionRecord{
		Timestamp: d.now().Format(time.RFC3339),
		Data:      sub,
		Note:      fallbackNote,
	})
}

func (d *Dispatcher) sendConfirmation(ctx context.Context, sub submission.CanonicalSubmission) {
	if d.primary == nil {
		return
	}
	msg := EmailMessage{
		To:      sub.Email,
		Subject: buildConfirmationSubject(d.business),
		Body:    buildConfirmationText(sub, d.business),
		HTML:    buildConfirmationHTML(sub, d.business),
	}
	if err := d.primary.Send(ctx, msg); err != nil {
		d.logger.Warn("customer confirmation failed", "error", err, "to", sub.Email)
	}
}
