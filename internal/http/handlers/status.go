package handlers

import (
	"net/http"
	"strings"

	"github.com/ruimartins/status-hunter-back/internal/http/middleware"
)

func (api *API) FullStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	foID := strings.TrimSpace(strings.TrimPrefix(r.URL.Path, "/v1/status/"))
	if foID == "" || strings.Contains(foID, "/") {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "fo_id is required")
		return
	}

	status, err := api.hunter.FullStatus(r.Context(), foID)
	if err != nil {
		writeHunterError(w, r, err)
		return
	}
	if status == nil {
		writeError(w, r, http.StatusNotFound, "not_found", "FO não encontrada")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"request_id": middleware.GetRequestID(r.Context()),
		"status":     status,
	})
}
