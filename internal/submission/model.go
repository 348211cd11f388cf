package submission

// RawSubmission is the form payload exactly as posted by the client.
// Every field is a string; nothing here is trusted until it has passed
// through Validate and Sanitize.
type RawSubmission struct {
	Name              string `json:"name"`
	Phone             string `json:"phone"`
	Email             string `json:"email"`
	Address           string `json:"address"`
	ServiceType       string `json:"service_type"`
	Needed            string `json:"needed"`
	Notes             string `json:"notes"`
	RecaptchaResponse string `json:"recaptcha_response"`
	Timestamp         string `json:"timestamp"`
	PageURL           string `json:"page_url"`
	PageTitle         string `json:"page_title"`
	Referrer          string `json:"referrer"`
	UserAgent         string `json:"user_agent"`
	FormSource        string `json:"form_source"`
}

// ValidationResult collects every rule violation found in a RawSubmission.
// Valid is true iff Errors is empty.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// UrgencyASAP is the needed value that marks a submission as urgent.
// Urgency changes notification presentation only, never routing.
const UrgencyASAP = "ASAP"

// CanonicalSubmission is the sanitized, immutable record handed to the
// notification dispatcher. String fields missing from the original input
// are empty strings, never absent, so template rendering never deals with
// missing keys.
type CanonicalSubmission struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	ServiceType string `json:"service_type"`
	Needed      string `json:"needed"`
	Notes       string `json:"notes"`

	Timestamp  string `json:"timestamp"`
	PageURL    string `json:"page_url"`
	PageTitle  string `json:"page_title"`
	Referrer   string `json:"referrer"`
	UserAgent  string `json:"user_agent"`
	ClientIP   string `json:"ip_address"`
	FormSource string `json:"form_source"`
}

// Urgent reports whether the submission carries the ASAP urgency flag.
func (s CanonicalSubmission) Urgent() bool {
	return s.Needed == UrgencyASAP
}
