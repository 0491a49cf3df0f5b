package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/footstats/internal/adapters/footballdata"
	"github.com/okian/footstats/internal/domain/types"
	"github.com/okian/footstats/internal/gateway"
	"github.com/okian/footstats/pkg/logger"
)

// Favorites resolves every stored id to its team. Ids that cannot be
// resolved are reported, not fatal; a configuration error is.
func (s *Service) Favorites(ctx context.Context) (types.FavoritesView, error) {
	if err := s.ready(); err != nil {
		return types.FavoritesView{}, err
	}
	ids, err := s.favorites.Load(ctx)
	if err != nil {
		return types.FavoritesView{}, err
	}

	view := types.FavoritesView{Favorites: make([]types.Favorite, 0, len(ids))}
	for _, id := range ids {
		detail, err := s.gateway.Team(ctx, id)
		if err != nil {
			if errors.Is(err, footballdata.ErrConfiguration) {
				return types.FavoritesView{}, err
			}
			s.logger.Warn(ctx, "favorite could not be resolved", logger.Int("team_id", id), logger.Error(err))
			view.Unresolved = append(view.Unresolved, types.Unresolved{TeamID: id, Reason: err.Error()})
			continue
		}
		fav := types.Favorite{
			TeamID: id,
			Name:   detail.Team.Name,
			Crest:  detail.Team.Crest,
		}
		// league is the first supported competition the team plays in
		for _, code := range detail.Team.Competitions {
			if comp, err := s.gateway.Competition(code); err == nil {
				fav.League, fav.LeagueCode = comp.Name, comp.Code
				break
			}
		}
		view.Favorites = append(view.Favorites, fav)
	}
	return view, nil
}

// FavoriteIDs returns the stored ids without resolving them.
func (s *Service) FavoriteIDs(ctx context.Context) ([]int, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.favorites.Load(ctx)
}

// IsFavorite reports whether id is stored.
func (s *Service) IsFavorite(ctx context.Context, id int) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	ids, err := s.favorites.Load(ctx)
	if err != nil {
		return false, err
	}
	return indexOf(ids, id) >= 0, nil
}

// AddFavorite appends id unless it is already stored and returns the list.
func (s *Service) AddFavorite(ctx context.Context, id int) ([]int, error) {
	ids, err := s.loadForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if indexOf(ids, id) >= 0 {
		return ids, nil
	}
	ids = append(ids, id)
	return ids, s.saveFavorites(ctx, ids, "added", id)
}

// RemoveFavorite drops id if stored and returns the list.
func (s *Service) RemoveFavorite(ctx context.Context, id int) ([]int, error) {
	ids, err := s.loadForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	i := indexOf(ids, id)
	if i < 0 {
		return ids, nil
	}
	ids = append(ids[:i], ids[i+1:]...)
	return ids, s.saveFavorites(ctx, ids, "removed", id)
}

// ToggleFavorite adds id when absent and removes it when present. It
// reports whether id is a favorite afterwards.
func (s *Service) ToggleFavorite(ctx context.Context, id int) (bool, error) {
	ids, err := s.loadForUpdate(ctx, id)
	if err != nil {
		return false, err
	}
	if i := indexOf(ids, id); i >= 0 {
		ids = append(ids[:i], ids[i+1:]...)
		return false, s.saveFavorites(ctx, ids, "removed", id)
	}
	ids = append(ids, id)
	return true, s.saveFavorites(ctx, ids, "added", id)
}

func (s *Service) loadForUpdate(ctx context.Context, id int) ([]int, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, fmt.Errorf("%w: team id %d", gateway.ErrInvalidArgument, id)
	}
	return s.favorites.Load(ctx)
}

func (s *Service) saveFavorites(ctx context.Context, ids []int, action string, id int) error {
	if err := s.favorites.Save(ctx, ids); err != nil {
		return err
	}
	s.logger.Info(ctx, "favorites updated",
		logger.String("action", action),
		logger.Int("team_id", id),
		logger.Int("count", len(ids)))
	return nil
}

func indexOf(ids []int, id int) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
