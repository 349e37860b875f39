package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ruimartins/status-hunter-back/internal/chat"
	"github.com/ruimartins/status-hunter-back/internal/domain"
	"github.com/ruimartins/status-hunter-back/internal/http/middleware"
	"github.com/ruimartins/status-hunter-back/internal/hunter"
)

var errInvalidPayload = errors.New("invalid payload")

type API struct {
	hunter   *hunter.Hunter
	machine  *chat.Machine
	sessions chat.SessionStore
}

func NewAPI(h *hunter.Hunter, machine *chat.Machine, sessions chat.SessionStore) *API {
	return &API{
		hunter:   h,
		machine:  machine,
		sessions: sessions,
	}
}

type errorPayload struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	RequestID string `json:"request_id"`
}

func writeJSON(w http.ResponseWriter, statusCode int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, r *http.Request, statusCode int, code, message string) {
	payload := errorPayload{RequestID: middleware.GetRequestID(r.Context())}
	payload.Error.Code = code
	payload.Error.Message = message
	writeJSON(w, statusCode, payload)
}

// writeHunterError translates core errors into the response envelope
// without leaking remote store details.
func writeHunterError(w http.ResponseWriter, r *http.Request, err error) {
	var backendErr *domain.BackendError
	if errors.As(err, &backendErr) {
		writeError(w, r, http.StatusBadGateway, "backend_unavailable", backendErr.Message)
		return
	}
	if errors.Is(err, domain.ErrInvalidSearchType) {
		writeError(w, r, http.StatusBadRequest, "invalid_request", domain.ErrInvalidSearchType.Error())
		return
	}
	writeError(w, r, http.StatusInternalServerError, "internal_error", domain.UserMessage(err))
}

func decodeJSON(r *http.Request, value any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(value); err != nil {
		return errInvalidPayload
	}
	return nil
}

func sessionView(r *http.Request, session *chat.Session) map[string]any {
	view := map[string]any{
		"request_id": middleware.GetRequestID(r.Context()),
		"session_id": session.ID,
		"state":      session.State,
		"updated_at": session.UpdatedAt,
	}
	return view
}
