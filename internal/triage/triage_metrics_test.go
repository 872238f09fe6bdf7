package triage

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/linnemanlabs/go-core/log"
)

func TestMetrics_Hooks(t *testing.T) {
	t.Parallel()

	m := NewMetrics(prometheus.NewRegistry())
	hooks := m.Hooks()

	ok := NewService(NewEngine(&mockProvider{text: analysisWithUrgency("critical")}, log.Nop(), hooks), log.Nop(), ServiceOptions{Hooks: hooks})
	down := NewService(NewEngine(&mockProvider{err: errors.New("down")}, log.Nop(), hooks), log.Nop(), ServiceOptions{Hooks: hooks})

	_, _ = ok.Analyze(context.Background(), refillEmail())
	_, _ = ok.Analyze(context.Background(), refillEmail())
	_, _ = down.Analyze(context.Background(), refillEmail())
	_, _ = ok.Analyze(context.Background(), &Email{})

	checks := []struct {
		name string
		c    prometheus.Collector
		want float64
	}{
		{"analyses success", m.AnalysesTotal.WithLabelValues(OutcomeSuccess), 2},
		{"analyses provider_error", m.AnalysesTotal.WithLabelValues(OutcomeProviderError), 1},
		{"analyses validation_error", m.AnalysesTotal.WithLabelValues(OutcomeValidationError), 1},
		{"urgency critical", m.UrgencyTotal.WithLabelValues("critical"), 2},
		{"llm success", m.LLMCallsTotal.WithLabelValues("success"), 2},
		{"llm error", m.LLMCallsTotal.WithLabelValues("error"), 1},
		{"tokens in", m.LLMTokensIn, 200},
		{"tokens out", m.LLMTokensOut, 100},
	}
	for _, c := range checks {
		if got := testutil.ToFloat64(c.c); got != c.want {
			t.Errorf("%s = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestMetrics_UnknownUrgencyLabel(t *testing.T) {
	t.Parallel()

	m := NewMetrics(prometheus.NewRegistry())
	m.Hooks().OnComplete(&CompleteEvent{Outcome: OutcomeSuccess, Urgency: "urgent!!"})

	if got := testutil.ToFloat64(m.UrgencyTotal.WithLabelValues("unknown")); got != 1 {
		t.Errorf("unknown urgency count = %v, want 1", got)
	}
}

func TestNewMetrics_DoubleRegisterPanics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	NewMetrics(reg)

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic registering metrics twice")
		}
	}()
	NewMetrics(reg)
}
