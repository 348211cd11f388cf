package captcha

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ilocksmithindiana/lead-service/pkg/logging"
)

// DefaultVerifyURL is Google's reCAPTCHA siteverify endpoint.
const DefaultVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

// Verifier checks whether a submission came from a human.
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) bool
}

// RecaptchaVerifier verifies tokens against the reCAPTCHA API. It fails
// closed: any transport error or non-success response rejects the
// submission, and a single failed attempt blocks it (no retries).
type RecaptchaVerifier struct {
	secret    string
	bypass    bool
	verifyURL string
	client    *http.Client
	logger    *logging.Logger
}

// New creates a verifier. The local-testing bypass is decided once here:
// it applies only when no secret is configured or the environment is not
// production, so it can never silently disable protection in production.
func New(secret string, production bool, timeout time.Duration, logger *logging.Logger) *RecaptchaVerifier {
	if logger == nil {
		logger = logging.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	bypass := secret == "" || !production
	if bypass {
		logger.Warn("captcha verification bypassed", "secret_configured", secret != "", "production", production)
	}
	return &RecaptchaVerifier{
		secret:    secret,
		bypass:    bypass,
		verifyURL: DefaultVerifyURL,
		client:    &http.Client{Timeout: timeout},
		logger:    logger,
	}
}

// Verify checks the token. When the bypass is active it returns true
// without any network call. An empty token with a configured secret fails
// immediately, also without a network call.
func (v *RecaptchaVerifier) Verify(ctx context.Context, token, remoteIP string) bool {
	if v.bypass {
		return true
	}
	if token == "" {
		v.logger.Info("captcha rejected: empty token", "remote_ip", remoteIP)
		return false
	}

	form := url.Values{
		"secret":   {v.secret},
		"response": {token},
		"remoteip": {remoteIP},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		v.logger.Error("captcha request build failed", "error", err)
		return false
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		v.logger.Error("captcha verification unreachable", "error", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		v.logger.Error("captcha verification returned error status", "status", resp.StatusCode)
		return false
	}

	var result struct {
		Success    bool     `json:"success"`
		ErrorCodes []string `json:"error-codes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		v.logger.Error("captcha response decode failed", "error", err)
		return false
	}
	if !result.Success {
		v.logger.Info("captcha rejected", "error_codes", result.ErrorCodes, "remote_ip", remoteIP)
	}
	return result.Success
}

var _ Verifier = (*RecaptchaVerifier)(nil)
