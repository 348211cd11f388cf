package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilocksmithindiana/lead-service/internal/submission"
)

// BusinessInfo is rendered into notification footers and the customer
// confirmation.
type BusinessInfo struct {
	Name       string
	Phone      string
	Email      string
	WebsiteURL string
}

// urgentPrefix marks ASAP leads in the notification subject. It changes
// presentation only; routing is identical for urgent and non-urgent leads.
const urgentPrefix = "🔥 URGENT - "

func buildSubject(sub submission.CanonicalSubmission) string {
	prefix := ""
	if sub.Urgent() {
		prefix = urgentPrefix
	}
	return fmt.Sprintf("%s🔐 New Lead: %s - %s", prefix, sub.ServiceType, sub.Name)
}

// buildHTML renders the operator notification. Every user-supplied field
// was escaped once by the sanitizer; nothing is re-escaped here.
func buildHTML(sub submission.CanonicalSubmission, biz BusinessInfo) string {
	urgentBanner := ""
	priority := sub.Needed
	if sub.Urgent() {
		urgentBanner = `<div style="background: #ff0000; color: white; padding: 10px; text-align: center; font-weight: bold; margin-bottom: 20px;">🚨 URGENT REQUEST - ASAP SERVICE NEEDED 🚨</div>`
		priority = "🔥 URGENT - ASAP"
	}

	row := func(label, value string) string {
		if value == "" {
			return ""
		}
		return fmt.Sprintf(`<div style="margin-bottom: 16px; padding: 12px; background: #f8f9fa; border-left: 4px solid #DC143C; border-radius: 8px;"><strong style="color: #DC143C;">%s</strong><div style="color: #333;">%s</div></div>`, label, value)
	}

	referrer := sub.Referrer
	if referrer == "" {
		referrer = "Direct"
	}

	return fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
%s<div style="background: linear-gradient(135deg, #DC143C, #FF4500); color: white; padding: 24px; text-align: center;"><h1 style="margin: 0;">🔐 New Locksmith Lead</h1></div>
<div style="padding: 24px;">
%s%s%s%s%s%s%s
<div style="border-top: 2px solid #eee; padding-top: 16px; margin-top: 24px; font-size: 14px; color: #666;">
<strong>Session</strong><br>
Submitted: %s<br>
Source: <a href="%s" style="color: #DC143C;">%s</a><br>
Referrer: %s<br>
IP Address: %s
</div>
</div>
<div style="background: #1C1C1C; color: white; padding: 16px; text-align: center; font-size: 14px;"><strong>%s</strong><br>📞 %s | 📧 %s<br>🌐 %s</div>
</div>`,
		urgentBanner,
		row("🚨 Priority Level", priority),
		row("👤 Customer Name", sub.Name),
		row("📞 Phone Number", fmt.Sprintf(`<a href="tel:%s" style="color: #DC143C; font-weight: bold;">%s</a>`, submission.StripNonDigits(sub.Phone), sub.Phone)),
		row("📧 Email Address", sub.Email),
		row("📍 Service Address", sub.Address),
		row("🔧 Service Type", sub.ServiceType),
		row("📝 Additional Notes", sub.Notes),
		formatTimestamp(sub.Timestamp),
		sub.PageURL, sub.PageTitle, referrer, sub.ClientIP,
		biz.Name, biz.Phone, biz.Email, biz.WebsiteURL)
}

func buildText(sub submission.CanonicalSubmission) string {
	var b strings.Builder
	b.WriteString("🔐 NEW LOCKSMITH LEAD\n")
	b.WriteString("========================\n\n")
	if sub.Urgent() {
		b.WriteString("🔥 URGENT - ASAP SERVICE NEEDED\n\n")
	}
	fmt.Fprintf(&b, "👤 Customer: %s\n", sub.Name)
	fmt.Fprintf(&b, "📞 Phone: %s\n", sub.Phone)
	if sub.Email != "" {
		fmt.Fprintf(&b, "📧 Email: %s\n", sub.Email)
	}
	fmt.Fprintf(&b, "📍 Address: %s\n", sub.Address)
	fmt.Fprintf(&b, "🔧 Service: %s\n", sub.ServiceType)
	fmt.Fprintf(&b, "⏰ When Needed: %s\n", sub.Needed)
	if sub.Notes != "" {
		fmt.Fprintf(&b, "📝 Notes: %s\n", sub.Notes)
	}
	b.WriteString("\n📊 SESSION INFO:\n")
	fmt.Fprintf(&b, "Timestamp: %s\n", formatTimestamp(sub.Timestamp))
	fmt.Fprintf(&b, "Source: %s\n", sub.PageTitle)
	fmt.Fprintf(&b, "URL: %s\n", sub.PageURL)
	fmt.Fprintf(&b, "IP: %s\n", sub.ClientIP)
	return b.String()
}

func buildConfirmationSubject(biz BusinessInfo) string {
	return fmt.Sprintf("Thank You - Service Request Received | %s", biz.Name)
}

func buildConfirmationHTML(sub submission.CanonicalSubmission, biz BusinessInfo) string {
	notesRow := ""
	if sub.Notes != "" {
		notesRow = fmt.Sprintf("<p><strong>Notes:</strong> %s</p>", sub.Notes)
	}
	return fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
<div style="background: linear-gradient(135deg, #DC143C, #FF4500); color: white; padding: 24px; text-align: center;"><h1 style="margin: 0;">✅ Request Received</h1><p style="margin: 8px 0 0 0;">Thank you for choosing %s!</p></div>
<div style="padding: 24px;">
<p>Hi %s,</p>
<p>Thank you for your service request! We have received your information and will contact you shortly to discuss your <strong>%s</strong> needs.</p>
<div style="background: #f8f9fa; border-left: 4px solid #DC143C; padding: 12px; border-radius: 8px;">
<h3>📋 Your Request Details</h3>
<p><strong>Service:</strong> %s</p>
<p><strong>Address:</strong> %s</p>
<p><strong>When Needed:</strong> %s</p>
%s<p><strong>Submitted:</strong> %s</p>
</div>
<div style="background: linear-gradient(135deg, #DC143C, #FF4500); color: white; padding: 16px; text-align: center; margin: 16px 0; border-radius: 8px;">
<h3>Need Immediate Assistance?</h3>
<p style="font-size: 22px; margin: 8px 0;"><a href="tel:%s" style="color: white; font-weight: bold;">📞 %s</a></p>
<p style="font-size: 14px;">Available 24/7 for Emergency Services</p>
</div>
<p>Best regards,<br><strong>The %s Team</strong></p>
</div>
<div style="background: #1C1C1C; color: white; padding: 16px; text-align: center; font-size: 14px;"><strong>%s</strong><br>📞 %s | 📧 %s<br>🌐 %s</div>
</div>`,
		biz.Name, sub.Name, sub.ServiceType,
		sub.ServiceType, sub.Address, sub.Needed, notesRow, formatTimestamp(sub.Timestamp),
		submission.StripNonDigits(biz.Phone), biz.Phone,
		biz.Name, biz.Name, biz.Phone, biz.Email, biz.WebsiteURL)
}

func buildConfirmationText(sub submission.CanonicalSubmission, biz BusinessInfo) string {
	var b strings.Builder
	b.WriteString("Thank you for your service request!\n\n")
	fmt.Fprintf(&b, "Hi %s,\n\n", sub.Name)
	fmt.Fprintf(&b, "We have received your request for %s service and will contact you shortly.\n\n", sub.ServiceType)
	b.WriteString("REQUEST DETAILS:\n")
	fmt.Fprintf(&b, "Service: %s\n", sub.ServiceType)
	fmt.Fprintf(&b, "Address: %s\n", sub.Address)
	fmt.Fprintf(&b, "When Needed: %s\n", sub.Needed)
	if sub.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", sub.Notes)
	}
	fmt.Fprintf(&b, "Submitted: %s\n\n", formatTimestamp(sub.Timestamp))
	fmt.Fprintf(&b, "For urgent assistance, call us directly at %s\n", biz.Phone)
	b.WriteString("Available 24/7 for Emergency Services\n\n")
	fmt.Fprintf(&b, "Thank you for trusting %s!\n\n", biz.Name)
	fmt.Fprintf(&b, "The %s Team\n%s", biz.Name, biz.WebsiteURL)
	return b.String()
}

// formatTimestamp renders an RFC 3339 timestamp for humans; anything
// unparseable passes through unchanged.
func formatTimestamp(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Format("Jan 2, 2006 3:04 PM MST")
}
