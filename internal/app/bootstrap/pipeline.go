// Package bootstrap builds the submission pipeline from configuration so
// the HTTP server and the Lambda entry point wire identical dependencies.
package bootstrap

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ilocksmithindiana/lead-service/internal/captcha"
	"github.com/ilocksmithindiana/lead-service/internal/config"
	"github.com/ilocksmithindiana/lead-service/internal/http/handlers"
	"github.com/ilocksmithindiana/lead-service/internal/notify"
	"github.com/ilocksmithindiana/lead-service/internal/observability/metrics"
	"github.com/ilocksmithindiana/lead-service/pkg/logging"
)

// Pipeline holds the per-process dependencies of the submission pipeline.
// Everything here is created once at startup and has no teardown.
type Pipeline struct {
	Handler    *handlers.SubmitHandler
	Dispatcher *notify.Dispatcher
	Verifier   *captcha.RecaptchaVerifier
	Metrics    *metrics.PipelineMetrics
}

// NewPipeline constructs the pipeline. A nil registerer uses the default
// Prometheus registry.
func NewPipeline(cfg *config.Config, logger *logging.Logger, reg prometheus.Registerer) *Pipeline {
	if logger == nil {
		logger = logging.Default()
	}

	m := metrics.NewPipelineMetrics(reg)

	var primary notify.EmailSender
	if s := notify.NewResendSender(notify.ResendConfig{
		APIKey:    cfg.ResendAPIKey,
		FromEmail: cfg.FromEmail,
		FromName:  cfg.FromName,
		Timeout:   cfg.HTTPTimeout,
	}, logger); s != nil {
		primary = s
	} else {
		logger.Warn("resend API key not configured, primary channel disabled")
	}

	var secondary notify.EmailSender
	if s := notify.NewSendmailSender(cfg.SendmailPath, cfg.FromEmail, cfg.FromName, logger); s != nil {
		secondary = s
	}

	store := notify.NewFallbackStore(cfg.FailedLogDir, logger)

	dispatcher := notify.NewDispatcher(primary, secondary, store, cfg.NotificationEmail, notify.BusinessInfo{
		Name:       cfg.BusinessName,
		Phone:      cfg.BusinessPhone,
		Email:      cfg.BusinessEmail,
		WebsiteURL: cfg.WebsiteURL,
	}, logger)

	verifier := captcha.New(cfg.RecaptchaSecretKey, cfg.IsProduction(), cfg.HTTPTimeout, logger)

	handler := handlers.NewSubmitHandler(verifier, dispatcher, cfg.BusinessPhone, m, logger)

	return &Pipeline{
		Handler:    handler,
		Dispatcher: dispatcher,
		Verifier:   verifier,
		Metrics:    m,
	}
}
