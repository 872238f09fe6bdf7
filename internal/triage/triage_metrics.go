package triage

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus metrics for the triage subsystem.
type Metrics struct {
	AnalysesTotal      *prometheus.CounterVec
	AnalysisDuration   *prometheus.HistogramVec
	UrgencyTotal       *prometheus.CounterVec
	LLMCallsTotal      *prometheus.CounterVec
	LLMTokensIn        prometheus.Counter
	LLMTokensOut       prometheus.Counter
	LLMDuration        prometheus.Histogram
	NotificationsTotal *prometheus.CounterVec
}

// NewMetrics registers and returns triage metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "email_analyzer_analyses_total",
			Help: "Total analyze requests by outcome.",
		}, []string{"outcome"}),
		AnalysisDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "email_analyzer_analysis_duration_seconds",
			Help:    "Duration of analyze requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10), // 0.25s .. ~128s
		}, []string{"outcome"}),
		UrgencyTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "email_analyzer_urgency_total",
			Help: "Successful analyses by reported urgency level.",
		}, []string{"level"}),
		LLMCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "email_analyzer_llm_calls_total",
			Help: "Total LLM provider calls by status.",
		}, []string{"status"}),
		LLMTokensIn: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "email_analyzer_llm_tokens_input_total",
			Help: "Total LLM input tokens consumed.",
		}),
		LLMTokensOut: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "email_analyzer_llm_tokens_output_total",
			Help: "Total LLM output tokens consumed.",
		}),
		LLMDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "email_analyzer_llm_call_duration_seconds",
			Help:    "Duration of individual LLM calls in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 8), // 0.5s .. ~64s
		}),
		NotificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "email_analyzer_notifications_total",
			Help: "Urgent-email notifications by status.",
		}, []string{"status"}),
	}

	reg.MustRegister(
		m.AnalysesTotal,
		m.AnalysisDuration,
		m.UrgencyTotal,
		m.LLMCallsTotal,
		m.LLMTokensIn,
		m.LLMTokensOut,
		m.LLMDuration,
		m.NotificationsTotal,
	)

	return m
}

// Hooks returns Hooks that increment the corresponding metrics.
func (m *Metrics) Hooks() Hooks {
	return Hooks{
		OnLLMCall: func(inputTokens, outputTokens int, duration float64, err error) {
			m.LLMCallsTotal.WithLabelValues(statusLabel(err)).Inc()
			m.LLMTokensIn.Add(float64(inputTokens))
			m.LLMTokensOut.Add(float64(outputTokens))
			m.LLMDuration.Observe(duration)
		},
		OnComplete: func(e *CompleteEvent) {
			m.AnalysesTotal.WithLabelValues(e.Outcome).Inc()
			m.AnalysisDuration.WithLabelValues(e.Outcome).Observe(e.Duration)
			if e.Outcome == OutcomeSuccess {
				level := string(e.Urgency)
				if !e.Urgency.Valid() {
					level = "unknown"
				}
				m.UrgencyTotal.WithLabelValues(level).Inc()
			}
		},
		OnNotify: func(err error) {
			m.NotificationsTotal.WithLabelValues(statusLabel(err)).Inc()
		},
	}
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
