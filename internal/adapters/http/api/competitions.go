package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// CompetitionHandler serves the per-competition pages.
type CompetitionHandler struct {
	deps Dependencies
}

// NewCompetitionHandler creates a new competition handler.
func NewCompetitionHandler(deps Dependencies) *CompetitionHandler {
	return &CompetitionHandler{deps: deps}
}

// HandleList handles GET /competitions.
func (h *CompetitionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	comps, err := h.deps.Competitions(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"competitions": comps})
}

// HandleStandings handles GET /competitions/{code}/standings.
func (h *CompetitionHandler) HandleStandings(w http.ResponseWriter, r *http.Request) {
	view, err := h.deps.Standings(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleTeams handles GET /competitions/{code}/teams.
func (h *CompetitionHandler) HandleTeams(w http.ResponseWriter, r *http.Request) {
	view, err := h.deps.Teams(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleScorers handles GET /competitions/{code}/scorers.
func (h *CompetitionHandler) HandleScorers(w http.ResponseWriter, r *http.Request) {
	view, err := h.deps.TopScorers(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleMatches handles GET /competitions/{code}/matches?from=&to=.
func (h *CompetitionHandler) HandleMatches(w http.ResponseWriter, r *http.Request) {
	from, err := queryDay(r, "from")
	if err != nil {
		writeServiceError(w, err)
		return
	}
	to, err := queryDay(r, "to")
	if err != nil {
		writeServiceError(w, err)
		return
	}
	view, err := h.deps.CompetitionMatches(r.Context(), mux.Vars(r)["code"], from, to)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
