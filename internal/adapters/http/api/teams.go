package api

import (
	"net/http"
	"strings"

	"github.com/okian/footstats/internal/gateway"
)

// TeamHandler serves single-team pages.
type TeamHandler struct {
	deps Dependencies
}

// NewTeamHandler creates a new team handler.
func NewTeamHandler(deps Dependencies) *TeamHandler {
	return &TeamHandler{deps: deps}
}

// HandleDetail handles GET /teams/{id}.
func (h *TeamHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	view, err := h.deps.TeamDetail(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleMatches handles GET /teams/{id}/matches?from=&to=&status=&limit=.
func (h *TeamHandler) HandleMatches(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	var f gateway.MatchFilter
	if f.From, err = queryDay(r, "from"); err != nil {
		writeServiceError(w, err)
		return
	}
	if f.To, err = queryDay(r, "to"); err != nil {
		writeServiceError(w, err)
		return
	}
	if f.Limit, err = queryLimit(r); err != nil {
		writeServiceError(w, err)
		return
	}
	f.Status = strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("status")))

	view, err := h.deps.TeamMatches(r.Context(), id, f)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
