package triage

import (
	"context"
	"sync"
	"time"

	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/go-core/xerrors"
	"github.com/oklog/ulid/v2"
)

// Notifier delivers urgent triage results to clinical staff.
type Notifier interface {
	Notify(ctx context.Context, result *Result) error
}

// ServiceOptions configures optional Service behavior.
type ServiceOptions struct {
	// Timeout bounds each analysis on top of the caller's context. Zero means no extra bound.
	Timeout time.Duration

	// Notifier is called for results at or above NotifyMinUrgency. Nil disables notification.
	Notifier Notifier

	// NotifyMinUrgency defaults to UrgencyHigh.
	NotifyMinUrgency UrgencyLevel

	Hooks Hooks
}

// Service is the business boundary for triage operations.
type Service struct {
	engine     *Engine
	logger     log.Logger
	timeout    time.Duration
	notifier   Notifier
	minUrgency UrgencyLevel
	hooks      Hooks

	// in-flight notification goroutines
	inflight sync.WaitGroup
}

// NewService creates a new triage service.
func NewService(engine *Engine, logger log.Logger, opts ServiceOptions) *Service {
	if engine == nil {
		panic(xerrors.New("triage engine is required"))
	}
	if logger == nil {
		logger = log.Nop()
	}
	if !opts.NotifyMinUrgency.Valid() {
		opts.NotifyMinUrgency = UrgencyHigh
	}
	return &Service{
		engine:     engine,
		logger:     logger,
		timeout:    opts.Timeout,
		notifier:   opts.Notifier,
		minUrgency: opts.NotifyMinUrgency,
		hooks:      opts.Hooks,
	}
}

// Analyze validates the email and runs one triage. The returned error is a
// *ValidationError, *ProviderError or *ParseError.
func (s *Service) Analyze(ctx context.Context, email *Email) (*Result, error) {
	start := time.Now()

	if err := email.Validate(); err != nil {
		s.complete(&CompleteEvent{Outcome: OutcomeValidationError, Duration: time.Since(start).Seconds()})
		return nil, err
	}

	id := ulid.Make().String()
	L := s.logger.With("triage_id", id)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	rr, err := s.engine.Run(ctx, email)
	if err != nil {
		s.complete(&CompleteEvent{Outcome: OutcomeOf(err), Duration: time.Since(start).Seconds()})
		return nil, err
	}

	result := &Result{
		ID:        id,
		Subject:   email.Subject,
		From:      email.From,
		Raw:       rr.Raw,
		Analysis:  rr.Analysis,
		Model:     rr.Model,
		TokensIn:  rr.Usage.InputTokens,
		TokensOut: rr.Usage.OutputTokens,
		CreatedAt: start,
		Duration:  time.Since(start).Seconds(),
	}

	s.complete(&CompleteEvent{
		Outcome:   OutcomeSuccess,
		Urgency:   result.Urgency(),
		Model:     result.Model,
		Duration:  result.Duration,
		TokensIn:  result.TokensIn,
		TokensOut: result.TokensOut,
	})

	L.Info(ctx, "triage complete",
		"urgency", result.Urgency(),
		"duration", result.Duration,
		"tokens_in", result.TokensIn,
		"tokens_out", result.TokensOut,
	)

	if s.shouldNotify(result) {
		// detach from the request so the notification outlives the response.
		cp := *result
		s.inflight.Add(1)
		go s.notify(context.WithoutCancel(ctx), &cp)
	}

	return result, nil
}

func (s *Service) shouldNotify(r *Result) bool {
	if s.notifier == nil {
		return false
	}
	return r.Urgency().Rank() >= s.minUrgency.Rank()
}

func (s *Service) notify(ctx context.Context, r *Result) {
	defer s.inflight.Done()
	err := s.notifier.Notify(ctx, r)
	if s.hooks.OnNotify != nil {
		s.hooks.OnNotify(err)
	}
	if err != nil {
		s.logger.Error(ctx, err, "failed to send triage notification", "triage_id", r.ID, "urgency", r.Urgency())
	}
}

// Wait blocks until in-flight notifications finish or ctx is done.
func (s *Service) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) complete(e *CompleteEvent) {
	if s.hooks.OnComplete != nil {
		s.hooks.OnComplete(e)
	}
}
