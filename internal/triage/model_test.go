package triage

import (
	"errors"
	"testing"
)

func TestEmailValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		email   *Email
		wantErr bool
	}{
		{"all present", &Email{Subject: "s", From: "f", Body: "b"}, false},
		{"whitespace counts as present", &Email{Subject: " ", From: " ", Body: " "}, false},
		{"from not an address", &Email{Subject: "s", From: "not-an-address", Body: "b"}, false},
		{"missing subject", &Email{From: "f", Body: "b"}, true},
		{"missing from", &Email{Subject: "s", Body: "b"}, true},
		{"missing body", &Email{Subject: "s", From: "f"}, true},
		{"all missing", &Email{}, true},
		{"nil", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.email.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("err = %T, want *ValidationError", err)
			}
			if err.Error() != MissingFieldsMessage {
				t.Errorf("message = %q, want %q", err.Error(), MissingFieldsMessage)
			}
		})
	}
}

func TestUrgencyLevel_Rank(t *testing.T) {
	t.Parallel()

	order := []UrgencyLevel{UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical}
	for i := 1; i < len(order); i++ {
		if order[i].Rank() <= order[i-1].Rank() {
			t.Errorf("%s rank %d not above %s rank %d", order[i], order[i].Rank(), order[i-1], order[i-1].Rank())
		}
	}
	if UrgencyLevel("urgent").Valid() {
		t.Error("unknown level reported valid")
	}
	if UrgencyLevel("").Rank() != 0 {
		t.Error("empty level should rank 0")
	}
}

func TestParseUrgencyLevel(t *testing.T) {
	t.Parallel()

	if u, ok := ParseUrgencyLevel("critical"); !ok || u != UrgencyCritical {
		t.Errorf("ParseUrgencyLevel(critical) = %q, %v", u, ok)
	}
	if _, ok := ParseUrgencyLevel("Critical"); ok {
		t.Error("levels are case sensitive")
	}
}

func TestOutcomeOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{nil, OutcomeSuccess},
		{&ValidationError{}, OutcomeValidationError},
		{&ParseError{Err: errors.New("bad")}, OutcomeParseError},
		{&ProviderError{Err: errors.New("down")}, OutcomeProviderError},
		{errors.New("anything else"), OutcomeProviderError},
	}
	for _, tt := range tests {
		if got := OutcomeOf(tt.err); got != tt.want {
			t.Errorf("OutcomeOf(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestResultUrgency_NilSafe(t *testing.T) {
	t.Parallel()

	var r *Result
	if r.Urgency() != "" {
		t.Error("nil result should have empty urgency")
	}
	if (&Result{}).Urgency() != "" {
		t.Error("result without typed analysis should have empty urgency")
	}
}
