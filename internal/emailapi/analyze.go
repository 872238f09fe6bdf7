package emailapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/only4dhanvi-ctrl/healthcare-email-backend/internal/triage"
)

// TriageIDHeader carries the triage id of a successful analysis.
const TriageIDHeader = "X-Triage-Id"

func (a *API) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	span := trace.SpanFromContext(ctx)

	email, err := decodeEmail(r.Body)
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			a.logger.Warn(ctx, "request body too large", "limit", mbe.Limit)
			span.SetAttributes(attribute.String("email.triage.outcome", triage.OutcomeValidationError))
			WriteError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		a.logger.Warn(ctx, "invalid request body", "error", err)
		span.SetAttributes(attribute.String("email.triage.outcome", triage.OutcomeValidationError))
		WriteError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	result, err := a.svc.Analyze(ctx, email)
	if err != nil {
		outcome := triage.OutcomeOf(err)
		span.SetAttributes(attribute.String("email.triage.outcome", outcome))

		if triage.IsValidation(err) {
			a.logger.Warn(ctx, "rejected email", "error", err)
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		a.logger.Error(ctx, err, "email analysis failed", "outcome", outcome)
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	span.SetAttributes(
		attribute.String("email.triage.id", result.ID),
		attribute.String("email.triage.outcome", triage.OutcomeSuccess),
		attribute.String("email.triage.urgency", string(result.Urgency())),
	)

	w.Header().Set(TriageIDHeader, result.ID)
	WriteJSON(w, http.StatusOK, successResponse{Success: true, Analysis: result.Raw})
}

// decodeEmail reads the request body. An empty body yields an empty email so
// it fails validation like any request with missing fields. Keys match
// exactly; "Subject" or "BODY" count as missing.
func decodeEmail(body io.Reader) (*triage.Email, error) {
	var email triage.Email
	if body == nil {
		return &email, nil
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return &email, nil
	}

	var fields map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("unexpected data after JSON object")
	}

	for key, dst := range map[string]*string{
		"subject": &email.Subject,
		"from":    &email.From,
		"body":    &email.Body,
	} {
		v, ok := fields[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(v, dst); err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
	}
	return &email, nil
}
