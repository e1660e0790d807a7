// Package http exposes the flow engine over a small REST surface: create a
// session, probe its current suspend point, submit events, abandon it.
// Session persistence and per-session serialization are delegated to the
// session manager, so the handler itself stays stateless.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ndrukelly2/state-machine/pkg/domain"
	"github.com/ndrukelly2/state-machine/pkg/session"
)

// Server handles the REST surface over a session manager.
type Server struct {
	sessions *session.Manager
	logger   *slog.Logger
}

// NewHandler builds the chi router for the engine API.
func NewHandler(manager *session.Manager, logger *slog.Logger) http.Handler {
	s := &Server{sessions: manager, logger: logger}

	r := chi.NewRouter()
	r.Post("/sessions", s.createSession)
	r.Get("/sessions/{id}", s.probeSession)
	r.Post("/sessions/{id}/events", s.submitEvent)
	r.Delete("/sessions/{id}", s.deleteSession)
	return r
}

type createRequest struct {
	SessionID string            `json:"session_id,omitempty"`
	Context   map[string]string `json:"context,omitempty"`
}

type stepResponse struct {
	SessionID string            `json:"session_id"`
	Result    domain.StepResult `json:"result"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var body createRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	id := body.SessionID
	if id == "" {
		id = uuid.NewString()
	}

	result, err := s.sessions.Start(r.Context(), id, body.Context)
	if err != nil {
		s.stepError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, stepResponse{SessionID: id, Result: result})
}

func (s *Server) probeSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := s.sessions.Step(r.Context(), id, nil)
	if err != nil {
		s.stepError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, stepResponse{SessionID: id, Result: result})
}

func (s *Server) submitEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var ev domain.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		s.writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	if ev.Type == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("event type is required"))
		return
	}

	result, err := s.sessions.Step(r.Context(), id, &ev)
	if err != nil {
		s.stepError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, stepResponse{SessionID: id, Result: result})
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.sessions.Delete(r.Context(), id); err != nil {
		s.stepError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// stepError maps engine and store failures to HTTP statuses: a missing
// session is 404, a fatal flow error is 409 (definition and input are out
// of sync; the session has been abandoned), anything else is 500.
func (s *Server) stepError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		s.writeError(w, http.StatusNotFound, err)
	case domain.IsFatal(err):
		s.writeError(w, http.StatusConflict, err)
	default:
		s.logger.Error("session step failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}
