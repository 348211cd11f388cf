package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/ilocksmithindiana/lead-service/internal/captcha"
	"github.com/ilocksmithindiana/lead-service/internal/notify"
	"github.com/ilocksmithindiana/lead-service/internal/observability/metrics"
	"github.com/ilocksmithindiana/lead-service/internal/submission"
	"github.com/ilocksmithindiana/lead-service/pkg/logging"
)

// Dispatcher delivers a sanitized submission through the notification chain.
type Dispatcher interface {
	Dispatch(ctx context.Context, sub submission.CanonicalSubmission) notify.DispatchOutcome
}

// Response is the JSON body returned for every submission request.
type Response struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// SubmitHandler is the single entry point for form submissions. It runs the
// pipeline strictly in sequence: parse, validate, captcha, sanitize,
// dispatch. Expected failures are structured results; only panics escape,
// and Process catches those so both transports answer with the same
// generic 500 body.
type SubmitHandler struct {
	captcha       captcha.Verifier
	dispatcher    Dispatcher
	businessPhone string
	metrics       *metrics.PipelineMetrics
	logger        *logging.Logger
	now           func() time.Time
}

// NewSubmitHandler creates the submission controller. It is constructed
// once per process; it holds no resources beyond its collaborators.
func NewSubmitHandler(verifier captcha.Verifier, dispatcher Dispatcher, businessPhone string, m *metrics.PipelineMetrics, logger *logging.Logger) *SubmitHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &SubmitHandler{
		captcha:       verifier,
		dispatcher:    dispatcher,
		businessPhone: businessPhone,
		metrics:       m,
		logger:        logger,
		now:           time.Now,
	}
}

// ServeHTTP handles POST /api/submit-form. OPTIONS is answered by the CORS
// middleware before it gets here.
func (h *SubmitHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("submission handler panic", "panic", rec, "path", r.URL.Path)
			writeJSON(w, http.StatusInternalServerError, h.unexpectedErrorResponse())
		}
	}()

	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, Response{Success: false, Message: "Method not allowed"})
		return
	}

	var raw submission.RawSubmission
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		h.logger.Info("rejected malformed submission body", "error", err)
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Invalid request body"})
		return
	}

	status, resp := h.Process(r.Context(), raw, clientIP(r))
	writeJSON(w, status, resp)
}

// Process runs the pipeline on an already-parsed submission. The Lambda
// entry point shares this path so both transports behave identically.
func (h *SubmitHandler) Process(ctx context.Context, raw submission.RawSubmission, remoteIP string) (status int, resp Response) {
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("submission pipeline panic", "panic", rec, "remote_ip", remoteIP)
			status = http.StatusInternalServerError
			resp = h.unexpectedErrorResponse()
		}
	}()

	h.metrics.ObserveReceived()

	result := submission.Validate(raw)
	if !result.Valid {
		h.metrics.ObserveOutcome("validation_failed")
		h.logger.Info("submission failed validation", "errors", result.Errors, "remote_ip", remoteIP)
		return http.StatusBadRequest, Response{Success: false, Message: "Validation failed", Errors: result.Errors}
	}

	if h.captcha != nil && !h.captcha.Verify(ctx, raw.RecaptchaResponse, remoteIP) {
		h.metrics.ObserveCaptchaFailure()
		h.metrics.ObserveOutcome("captcha_failed")
		return http.StatusBadRequest, Response{Success: false, Message: "reCAPTCHA verification failed"}
	}

	sub := submission.Sanitize(raw, remoteIP, h.now())

	outcome := h.dispatcher.Dispatch(ctx, sub)
	h.metrics.ObserveChannel(string(outcome.Channel))
	if !outcome.Delivered {
		h.metrics.ObserveOutcome("delivery_failed")
		h.logger.Error("all notification channels failed", "name", sub.Name, "phone", sub.Phone)
		return http.StatusInternalServerError, Response{Success: false, Message: "Failed to send notification"}
	}

	h.metrics.ObserveOutcome("accepted")
	h.logger.Info("lead accepted",
		"name", sub.Name,
		"service_type", sub.ServiceType,
		"urgent", sub.Urgent(),
		"channel", outcome.Channel,
	)
	return http.StatusOK, Response{Success: true, Message: "Form submitted successfully"}
}

func (h *SubmitHandler) unexpectedErrorResponse() Response {
	msg := "An unexpected error occurred"
	if h.businessPhone != "" {
		msg = fmt.Sprintf("An unexpected error occurred. Please call %s directly.", h.businessPhone)
	}
	return Response{Success: false, Message: msg}
}

// clientIP takes the transport-layer peer address. With chi's RealIP
// middleware in front, RemoteAddr already reflects X-Forwarded-For from
// the trusted proxy.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
