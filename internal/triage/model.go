package triage

import (
	"encoding/json"
	"time"
)

// Email is a patient email submitted for triage.
type Email struct {
	Subject string `json:"subject"`
	From    string `json:"from"`
	Body    string `json:"body"`
}

// Validate reports a ValidationError if any required field is empty.
// The sender address format is not checked.
func (e *Email) Validate() error {
	if e == nil || e.Subject == "" || e.From == "" || e.Body == "" {
		return &ValidationError{}
	}
	return nil
}

// UrgencyLevel is one of the four triage tiers.
type UrgencyLevel string

const (
	// UrgencyLow is routine and can wait
	UrgencyLow UrgencyLevel = "low"

	// UrgencyMedium should be addressed within 1-3 days
	UrgencyMedium UrgencyLevel = "medium"

	// UrgencyHigh needs same-day attention
	UrgencyHigh UrgencyLevel = "high"

	// UrgencyCritical is life-threatening, severe pain or suicidal ideation
	UrgencyCritical UrgencyLevel = "critical"
)

// Rank orders urgency tiers from 1 (low) to 4 (critical). Unknown values rank 0.
func (u UrgencyLevel) Rank() int {
	switch u {
	case UrgencyLow:
		return 1
	case UrgencyMedium:
		return 2
	case UrgencyHigh:
		return 3
	case UrgencyCritical:
		return 4
	default:
		return 0
	}
}

// Valid reports whether u is one of the four known tiers.
func (u UrgencyLevel) Valid() bool {
	return u.Rank() > 0
}

// ParseUrgencyLevel returns the tier named by s.
func ParseUrgencyLevel(s string) (UrgencyLevel, bool) {
	u := UrgencyLevel(s)
	return u, u.Valid()
}

// Analysis is the typed view of the structured summary the model is asked to produce.
// The model is not forced to comply, so this is decoded best-effort and only used
// for metrics and notifications. Callers always receive the raw JSON unchanged.
type Analysis struct {
	Summary        string       `json:"summary"`
	Conditions     []string     `json:"conditions"`
	PatientIntent  string       `json:"patientIntent"`
	ConcerningInfo *string      `json:"concerningInfo"`
	UrgencyLevel   UrgencyLevel `json:"urgencyLevel"`
	UrgencyReason  string       `json:"urgencyReason"`
}

// Result is the outcome of one triage run. It lives only for the duration of a request.
type Result struct {
	ID        string          `json:"id"`
	Subject   string          `json:"subject"`
	From      string          `json:"from"`
	Raw       json.RawMessage `json:"analysis"`
	Analysis  *Analysis       `json:"-"`
	Model     string          `json:"model,omitempty"`
	TokensIn  int             `json:"tokens_in,omitempty"`
	TokensOut int             `json:"tokens_out,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	Duration  float64         `json:"duration_seconds,omitempty"`
}

// Urgency returns the decoded urgency tier, or "" if the analysis was not decodable.
func (r *Result) Urgency() UrgencyLevel {
	if r == nil || r.Analysis == nil {
		return ""
	}
	return r.Analysis.UrgencyLevel
}
