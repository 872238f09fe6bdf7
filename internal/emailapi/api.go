// Package emailapi serves the healthcare email triage endpoint.
package emailapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/go-core/xerrors"

	"github.com/only4dhanvi-ctrl/healthcare-email-backend/internal/triage"
)

// HealthMessage is returned by the root health check.
const HealthMessage = "Healthcare Email Analyzer is running!"

// TriageService defines the business operations emailapi needs.
type TriageService interface {
	Analyze(ctx context.Context, email *triage.Email) (*triage.Result, error)
}

// API holds dependencies for HTTP handlers.
type API struct {
	logger log.Logger
	svc    TriageService
}

// New creates a new API handler.
func New(logger log.Logger, svc TriageService) *API {
	if logger == nil {
		logger = log.Nop()
	}
	if svc == nil {
		panic(xerrors.New("triage service is required"))
	}
	return &API{
		logger: logger,
		svc:    svc,
	}
}

// RegisterRoutes attaches API endpoints to the router. mws wrap only the
// analyze route (auth, rate limiting).
func (a *API) RegisterRoutes(r chi.Router, mws ...func(http.Handler) http.Handler) {
	r.Get("/", a.handleHealth)
	r.With(mws...).Post("/", a.handleAnalyze)
}

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (a *API) handleHealth(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, healthResponse{Status: "ok", Message: HealthMessage})
}

type successResponse struct {
	Success  bool            `json:"success"`
	Analysis json.RawMessage `json:"analysis"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// WriteJSON writes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	// nothing to do with errors here
	_ = enc.Encode(v)
}

// WriteError writes the failure envelope.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, errorResponse{Success: false, Error: msg})
}
