package metrics

import "github.com/prometheus/client_golang/prometheus"

// PipelineMetrics exposes counters for the submission pipeline.
type PipelineMetrics struct {
	received        prometheus.Counter
	outcomeTotal    *prometheus.CounterVec
	channelTotal    *prometheus.CounterVec
	captchaFailures prometheus.Counter
}

func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	m := &PipelineMetrics{
		received: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "leadsvc",
			Subsystem: "submission",
			Name:      "received_total",
			Help:      "Total form submissions received",
		}),
		outcomeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadsvc",
			Subsystem: "submission",
			Name:      "outcome_total",
			Help:      "Submission outcomes by result",
		}, []string{"outcome"}),
		channelTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadsvc",
			Subsystem: "dispatch",
			Name:      "channel_total",
			Help:      "Notification deliveries by channel",
		}, []string{"channel"}),
		captchaFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "leadsvc",
			Subsystem: "captcha",
			Name:      "failures_total",
			Help:      "reCAPTCHA verification failures",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.received, m.outcomeTotal, m.channelTotal, m.captchaFailures)
	return m
}

func (m *PipelineMetrics) ObserveReceived() {
	if m == nil {
		return
	}
	m.received.Inc()
}

func (m *PipelineMetrics) ObserveOutcome(outcome string) {
	if m == nil {
		return
	}
	m.outcomeTotal.WithLabelValues(outcome).Inc()
}

func (m *PipelineMetrics) ObserveChannel(channel string) {
	if m == nil {
		return
	}
	m.channelTotal.WithLabelValues(channel).Inc()
}

func (m *PipelineMetrics) ObserveCaptchaFailure() {
	if m == nil {
		return
	}
	m.captchaFailures.Inc()
}
