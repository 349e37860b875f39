package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/ruimartins/status-hunter-back/internal/chat"
	"github.com/ruimartins/status-hunter-back/internal/domain"
)

type chatEventRequest struct {
	Action     string `json:"action"`
	SearchType string `json:"search_type,omitempty"`
	Value      string `json:"value,omitempty"`
	MatchIndex *int   `json:"match_index,omitempty"`
}

// Sessions handles POST /v1/chat/sessions: starts a conversation in the
// ask_type phase.
func (api *API) Sessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	session := chat.NewSession(uuid.NewString())
	if err := api.sessions.Save(r.Context(), session); err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal_error", "failed to create session")
		return
	}

	writeJSON(w, http.StatusCreated, sessionView(r, session))
}

// SessionByID handles GET /v1/chat/sessions/{id} and
// POST /v1/chat/sessions/{id}/events.
func (api *API) SessionByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/chat/sessions/")

	if sessionID, found := strings.CutSuffix(rest, "/events"); found {
		api.sessionEvent(w, r, strings.TrimSpace(sessionID))
		return
	}

	sessionID := strings.TrimSpace(rest)
	if sessionID == "" || strings.Contains(sessionID, "/") {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "session id is required")
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	session, err := api.loadSession(w, r, sessionID)
	if err != nil {
		return
	}
	writeJSON(w, http.StatusOK, sessionView(r, session))
}

func (api *API) sessionEvent(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	if sessionID == "" {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "session id is required")
		return
	}

	var request chatEventRequest
	if err := decodeJSON(r, &request); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "invalid JSON payload")
		return
	}

	session, err := api.loadSession(w, r, sessionID)
	if err != nil {
		return
	}

	switch strings.TrimSpace(request.Action) {
	case "choose_type":
		searchType, ok := domain.ParseSearchType(request.SearchType)
		if !ok {
			writeError(w, r, http.StatusBadRequest, "invalid_request", "search_type must be one of fo, orc, cliente, campanha, item, guia")
			return
		}
		err = api.machine.ChooseType(session, searchType)
	case "submit_value":
		err = api.machine.SubmitValue(r.Context(), session, request.Value)
	case "choose_match":
		if request.MatchIndex == nil {
			writeError(w, r, http.StatusBadRequest, "invalid_request", "match_index is required")
			return
		}
		err = api.machine.ChooseMatch(r.Context(), session, *request.MatchIndex)
	case "new_search":
		err = api.machine.Restart(session)
	default:
		writeError(w, r, http.StatusBadRequest, "invalid_request", "action must be choose_type, submit_value, choose_match or new_search")
		return
	}

	if err != nil {
		api.writeTransitionError(w, r, err)
		return
	}

	if err := api.sessions.Save(r.Context(), session); err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal_error", "failed to save session")
		return
	}
	writeJSON(w, http.StatusOK, sessionView(r, session))
}

func (api *API) loadSession(w http.ResponseWriter, r *http.Request, sessionID string) (*chat.Session, error) {
	session, err := api.sessions.Get(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, chat.ErrSessionNotFound) {
			writeError(w, r, http.StatusNotFound, "not_found", "session not found")
			return nil, err
		}
		writeError(w, r, http.StatusInternalServerError, "internal_error", "failed to load session")
		return nil, err
	}
	return session, nil
}

func (api *API) writeTransitionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, chat.ErrInvalidTransition):
		writeError(w, r, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, chat.ErrInvalidChoice), errors.Is(err, chat.ErrEmptyValue),
		errors.Is(err, domain.ErrInvalidSearchType):
		writeError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, "internal_error", domain.UserMessage(err))
	}
}
