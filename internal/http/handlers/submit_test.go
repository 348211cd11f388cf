package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilocksmithindiana/lead-service/internal/notify"
	"github.com/ilocksmithindiana/lead-service/internal/submission"
	"github.com/ilocksmithindiana/lead-service/pkg/logging"
)

// stubVerifier returns a fixed verdict and counts calls.
type stubVerifier struct {
	pass  bool
	calls int
}

func (s *stubVerifier) Verify(_ context.Context, _, _ string) bool {
	s.calls++
	return s.pass
}

// recordingSender captures primary-channel sends.
type recordingSender struct {
	fail bool
	sent []notify.EmailMessage
}

func (r *recordingSender) Send(_ context.Context, msg notify.EmailMessage) error {
	if r.fail {
		return errors.New("simulated failure")
	}
	r.sent = append(r.sent, msg)
	return nil
}

// failingDispatcher simulates total channel exhaustion.
type failingDispatcher struct{ calls int }

func (d *failingDispatcher) Dispatch(_ context.Context, _ submission.CanonicalSubmission) notify.DispatchOutcome {
	d.calls++
	return notify.DispatchOutcome{Delivered: false, Channel: notify.ChannelNone}
}

func newTestHandler(verifier *stubVerifier, primary notify.EmailSender) *SubmitHandler {
	biz := notify.BusinessInfo{Name: "I Locksmith", Phone: "(574) 318-7797"}
	dispatcher := notify.NewDispatcher(primary, nil, nil, "dispatch@example.com", biz, logging.New("error"))
	return NewSubmitHandler(verifier, dispatcher, "(574) 318-7797", nil, logging.New("error"))
}

func postJSON(t *testing.T, h http.Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/submit-form", bytes.NewReader(data))
	req.RemoteAddr = "203.0.113.9:52100"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSubmit_EndToEnd_UrgentLead(t *testing.T) {
	verifier := &stubVerifier{pass: true}
	primary := &recordingSender{}
	h := newTestHandler(verifier, primary)

	rec := postJSON(t, h, map[string]string{
		"name":               "Jane Doe",
		"phone":              "5743187797",
		"address":            "123 Main St, South Bend, IN",
		"service_type":       "House Lockout",
		"needed":             "ASAP",
		"recaptcha_response": "valid-token",
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)

	require.Len(t, primary.sent, 1, "primary channel must be invoked exactly once")
	msg := primary.sent[0]
	assert.Contains(t, msg.Subject, "URGENT")
	assert.Contains(t, msg.Body, "(574) 318-7797")
	assert.Equal(t, 1, verifier.calls)
}

func TestSubmit_ShortName_RejectedBeforeDispatch(t *testing.T) {
	verifier := &stubVerifier{pass: true}
	dispatcher := &failingDispatcher{}
	h := NewSubmitHandler(verifier, dispatcher, "", nil, logging.New("error"))

	rec := postJSON(t, h, map[string]string{
		"name":         "J",
		"phone":        "5743187797",
		"address":      "123 Main St",
		"service_type": "House Lockout",
		"needed":       "ASAP",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Success)

	found := false
	for _, e := range resp.Errors {
		if strings.Contains(e, "at least 2 characters") {
			found = true
		}
	}
	assert.True(t, found, "expected minimum name length error, got %v", resp.Errors)
	assert.Equal(t, 0, dispatcher.calls, "dispatcher must never be invoked on validation failure")
	assert.Equal(t, 0, verifier.calls, "captcha must not run before validation passes")
}

func TestSubmit_MethodNotAllowed(t *testing.T) {
	h := newTestHandler(&stubVerifier{pass: true}, &recordingSender{})

	req := httptest.NewRequest(http.MethodGet, "/api/submit-form", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Success)
}

func TestSubmit_MalformedJSON(t *testing.T) {
	h := newTestHandler(&stubVerifier{pass: true}, &recordingSender{})

	req := httptest.NewRequest(http.MethodPost, "/api/submit-form", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmit_CaptchaFailure(t *testing.T) {
	verifier := &stubVerifier{pass: false}
	dispatcher := &failingDispatcher{}
	h := NewSubmitHandler(verifier, dispatcher, "", nil, logging.New("error"))

	rec := postJSON(t, h, map[string]string{
		"name":         "Jane Doe",
		"phone":        "5743187797",
		"address":      "123 Main St",
		"service_type": "House Lockout",
		"needed":       "ASAP",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Success)
	// Generic message only; verification internals stay server-side.
	assert.Empty(t, resp.Errors)
	assert.Equal(t, 0, dispatcher.calls)
}

func TestSubmit_TotalDeliveryFailure(t *testing.T) {
	dispatcher := &failingDispatcher{}
	h := NewSubmitHandler(&stubVerifier{pass: true}, dispatcher, "", nil, logging.New("error"))

	rec := postJSON(t, h, map[string]string{
		"name":         "Jane Doe",
		"phone":        "5743187797",
		"address":      "123 Main St",
		"service_type": "House Lockout",
		"needed":       "Today",
	})

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 1, dispatcher.calls, "exactly one dispatch attempt per request")
}

type panickingDispatcher struct{}

func (panickingDispatcher) Dispatch(context.Context, submission.CanonicalSubmission) notify.DispatchOutcome {
	panic("boom")
}

func TestSubmit_PanicMappedToGeneric500(t *testing.T) {
	h := NewSubmitHandler(&stubVerifier{pass: true}, panickingDispatcher{}, "(574) 318-7797", nil, logging.NewWithWriter(&bytes.Buffer{}, "error"))

	rec := postJSON(t, h, map[string]string{
		"name":         "Jane Doe",
		"phone":        "5743187797",
		"address":      "123 Main St",
		"service_type": "House Lockout",
		"needed":       "Today",
	})

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "(574) 318-7797", "generic failure offers the business phone")
	assert.NotContains(t, resp.Message, "boom", "internal cause must not leak")
}

func TestSubmit_ClientIPFromTransport(t *testing.T) {
	verifier := &stubVerifier{pass: true}
	primary := &recordingSender{}
	h := newTestHandler(verifier, primary)

	body, _ := json.Marshal(map[string]string{
		"name":         "Jane Doe",
		"phone":        "5743187797",
		"address":      "123 Main St, South Bend",
		"service_type": "House Lockout",
		"needed":       "Today",
		"ip_address":   "6.6.6.6", // client-supplied, must be ignored
	})
	req := httptest.NewRequest(http.MethodPost, "/api/submit-form", bytes.NewReader(body))
	req.RemoteAddr = "203.0.113.9:52100"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, primary.sent, 1)
	assert.Contains(t, primary.sent[0].Body, "203.0.113.9")
	assert.NotContains(t, primary.sent[0].Body, "6.6.6.6")
}
