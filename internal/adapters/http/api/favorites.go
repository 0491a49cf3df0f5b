package api

import (
	"context"
	"net/http"
)

// FavoritesHandler serves the favorites page and its mutations.
type FavoritesHandler struct {
	deps Dependencies
}

// NewFavoritesHandler creates a new favorites handler.
func NewFavoritesHandler(deps Dependencies) *FavoritesHandler {
	return &FavoritesHandler{deps: deps}
}

type favoriteIDsResponse struct {
	Favorites []int `json:"favorites"`
}

type toggleResponse struct {
	TeamID   int  `json:"team_id"`
	Favorite bool `json:"favorite"`
}

// HandleList handles GET /favorites.
func (h *FavoritesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	view, err := h.deps.Favorites(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleAdd handles PUT /favorites/{id}.
func (h *FavoritesHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.deps.AddFavorite)
}

// HandleRemove handles DELETE /favorites/{id}.
func (h *FavoritesHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.deps.RemoveFavorite)
}

// HandleToggle handles POST /favorites/{id}/toggle.
func (h *FavoritesHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	on, err := h.deps.ToggleFavorite(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toggleResponse{TeamID: id, Favorite: on})
}

func (h *FavoritesHandler) mutate(w http.ResponseWriter, r *http.Request, op func(context.Context, int) ([]int, error)) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	ids, err := op(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, favoriteIDsResponse{Favorites: ids})
}
