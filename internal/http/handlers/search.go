package handlers

import (
	"net/http"
	"strings"

	"github.com/ruimartins/status-hunter-back/internal/domain"
	"github.com/ruimartins/status-hunter-back/internal/http/middleware"
)

type searchRequest struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

func (api *API) Search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	var request searchRequest
	if err := decodeJSON(r, &request); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "invalid JSON payload")
		return
	}

	searchType, ok := domain.ParseSearchType(request.Type)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "type must be one of fo, orc, cliente, campanha, item, guia")
		return
	}
	value := strings.TrimSpace(request.Value)
	if value == "" || len(value) > 128 {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "value is required and must have at most 128 chars")
		return
	}

	matches, err := api.hunter.Search(r.Context(), searchType, value)
	if err != nil {
		writeHunterError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"request_id": middleware.GetRequestID(r.Context()),
		"type":       searchType,
		"matches":    matches,
	})
}
