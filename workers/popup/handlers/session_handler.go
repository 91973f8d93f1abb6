package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Torvusil/Furadder/workers/popup/domain"
	"github.com/Torvusil/Furadder/workers/popup/services"
	shared "github.com/Torvusil/Furadder/workers/shared/domain"
)

type SessionState interface {
	View() domain.SessionView
	Next() domain.SessionView
	Prev() domain.SessionView
}

type Refresher interface {
	Refresh(ctx context.Context)
}

type FormUpdater interface {
	Update(ctx context.Context, form domain.Form) domain.SessionView
}

type Submitter interface {
	Submit(ctx context.Context) (shared.RouteResponse, error)
}

type submitResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Kind    string `json:"kind,omitempty"`
}

// SessionHandler exposes the control surface session over HTTP.
type SessionHandler struct {
	session   SessionState
	refresher Refresher
	forms     FormUpdater
	submitter Submitter
}

func NewSessionHandler(session SessionState, refresher Refresher, forms FormUpdater, submitter Submitter) *SessionHandler {
	return &SessionHandler{
		session:   session,
		refresher: refresher,
		forms:     forms,
		submitter: submitter,
	}
}

// Routes registers the session API on router.
func (h *SessionHandler) Routes(router *mux.Router) {
	router.HandleFunc("/api/session", h.Get).Methods("GET")
	router.HandleFunc("/api/refresh", h.Refresh).Methods("POST")
	router.HandleFunc("/api/next", h.Next).Methods("POST")
	router.HandleFunc("/api/prev", h.Prev).Methods("POST")
	router.HandleFunc("/api/form", h.UpdateForm).Methods("PUT")
	router.HandleFunc("/api/submit", h.Submit).Methods("POST")

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	}).Methods("GET")
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.session.View())
}

// Refresh waits for the extraction to finish. Its failures are not errors
// of the request; they show up as an empty session.
func (h *SessionHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.refresher.Refresh(r.Context())
	writeJSON(w, http.StatusOK, h.session.View())
}

func (h *SessionHandler) Next(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.session.Next())
}

func (h *SessionHandler) Prev(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.session.Prev())
}

func (h *SessionHandler) UpdateForm(w http.ResponseWriter, r *http.Request) {
	var form domain.Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, h.forms.Update(r.Context(), form))
}

func (h *SessionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	resp, err := h.submitter.Submit(r.Context())
	switch {
	case errors.Is(err, services.ErrNothingSelected):
		http.Error(w, err.Error(), http.StatusConflict)
	case err != nil:
		writeJSON(w, http.StatusBadGateway, submitResponse{
			Error: err.Error(),
			Kind:  shared.KindOf(err).String(),
		})
	default:
		writeJSON(w, http.StatusOK, submitResponse{Success: resp.Success})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}
