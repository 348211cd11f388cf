package submission

import (
	"fmt"
	"html"
	"strings"
	"time"
	"unicode/utf8"
)

// maxNotesLen caps free-text notes before they reach a notification body.
const maxNotesLen = 1000

// Sanitize builds the canonical record from raw input. Free-text fields are
// trimmed and HTML-escaped exactly once here; the notification templates
// interpolate them without re-escaping. clientIP comes from the transport
// layer, never from the request body. No network or disk I/O.
func Sanitize(raw RawSubmission, clientIP string, now time.Time) CanonicalSubmission {
	notes := truncateRunes(raw.Notes, maxNotesLen)

	ts := strings.TrimSpace(raw.Timestamp)
	if ts == "" {
		ts = now.Format(time.RFC3339)
	}

	return CanonicalSubmission{
		Name:        escape(raw.Name),
		Phone:       FormatPhone(raw.Phone),
		Email:       escape(raw.Email),
		Address:     escape(raw.Address),
		ServiceType: escape(raw.ServiceType),
		Needed:      escape(raw.Needed),
		Notes:       escape(notes),

		Timestamp:  ts,
		PageURL:    escape(raw.PageURL),
		PageTitle:  escape(raw.PageTitle),
		Referrer:   escape(raw.Referrer),
		UserAgent:  escape(raw.UserAgent),
		ClientIP:   clientIP,
		FormSource: escape(raw.FormSource),
	}
}

// FormatPhone strips non-digits and formats a 10-digit number as
// (AAA) BBB-CCCC. Anything else is returned as the stripped digit string;
// the validator normally rejects those first, but formatting must not
// assume it ran.
func FormatPhone(phone string) string {
	digits := StripNonDigits(phone)
	if len(digits) != phoneDigits {
		return digits
	}
	return fmt.Sprintf("(%s) %s-%s", digits[:3], digits[3:6], digits[6:])
}

func escape(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}

// truncateRunes cuts s to at most max bytes without splitting a multi-byte
// rune, so truncated notes stay valid UTF-8 through JSON encoding.
func truncateRunes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
