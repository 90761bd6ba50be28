package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"imageatelier/internal/domain"
	"imageatelier/internal/infra"
	"imageatelier/internal/pipeline"
)

// App bundles the injected collaborators the handlers need. Constructing it
// once at startup keeps process-wide state out of the request path and lets
// tests substitute fakes.
type App struct {
	Pipeline *pipeline.Pipeline
	History  *pipeline.History
	Users    domain.UserRepository
	Logger   *infra.Logger
}

func NewApp(pl *pipeline.Pipeline, history *pipeline.History, users domain.UserRepository, logger *infra.Logger) *App {
	return &App{Pipeline: pl, History: history, Users: users, Logger: logger}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, msg string) {
	a.json(w, code, map[string]any{"error": msg})
}

// pipelineError maps the error taxonomy onto HTTP statuses and surfaces any
// preserved upstream payload alongside the message.
func (a *App) pipelineError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrUpstreamUnavailable),
		errors.Is(err, domain.ErrUpstreamRejected),
		errors.Is(err, domain.ErrEmptyResponse),
		errors.Is(err, domain.ErrInvalidSynthesisResponse):
		status = http.StatusBadGateway
	}

	body := map[string]any{"error": err.Error()}
	if raw := domain.RawUpstreamPayload(err); raw != nil {
		body["raw_response"] = raw
	}
	a.json(w, status, body)
}

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}
