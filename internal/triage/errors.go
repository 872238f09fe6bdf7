package triage

import "errors"

// MissingFieldsMessage is the fixed message returned for requests missing a required field.
const MissingFieldsMessage = "Missing required fields: subject, from, body"

// ValidationError means the email is missing one or more required fields.
type ValidationError struct{}

func (e *ValidationError) Error() string { return MissingFieldsMessage }

// ProviderError wraps a failed call to the model provider. Its message is the
// provider's message verbatim.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string { return e.Err.Error() }
func (e *ProviderError) Unwrap() error { return e.Err }

// ParseError wraps a failure to parse the cleaned model output as JSON.
type ParseError struct {
	Err error
	// Text is the cleaned output that failed to parse.
	Text string
}

func (e *ParseError) Error() string { return e.Err.Error() }
func (e *ParseError) Unwrap() error { return e.Err }

// Outcome labels used for logging and metrics.
const (
	OutcomeSuccess         = "success"
	OutcomeValidationError = "validation_error"
	OutcomeProviderError   = "provider_error"
	OutcomeParseError      = "parse_error"
)

// OutcomeOf classifies err into one of the outcome labels.
func OutcomeOf(err error) string {
	if err == nil {
		return OutcomeSuccess
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return OutcomeValidationError
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return OutcomeParseError
	}
	return OutcomeProviderError
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
