package services

import (
	"context"

	"discounts/dto"
	"discounts/errors"
	"discounts/services/logger"
	"discounts/types"
)

const (
	FavoriteAdded   = "added"
	FavoriteRemoved = "removed"
)

type FavoriteService struct {
	store FavoriteStore
	log   logger.Logger
}

func NewFavoriteService(store FavoriteStore, log logger.Logger) *FavoriteService {
	return &FavoriteService{store: store, log: log}
}

// ToggleFavorite adds the deal to the caller's favorites, or removes it when
// it is already there
func (s *FavoriteService) ToggleFavorite(ctx context.Context, caller types.Identity, dealID uint) (dto.ToggleResult, error) {
	if !caller.Authenticated {
		return dto.ToggleResult{}, errors.ErrUnauthenticated
	}
	added, err := s.store.ToggleFavorite(ctx, caller.UserID, dealID)
	if err != nil {
		if !errors.Is(err, errors.ErrDealNotFound) {
			s.log.Error("toggle favorite user=%d deal=%d: %v", caller.UserID, dealID, err)
		}
		return dto.ToggleResult{}, err
	}

	action := FavoriteRemoved
	if added {
		action = FavoriteAdded
	}
	favoriteTogglesTotal.WithLabelValues(action).Inc()
	s.log.Debug("favorite %s user=%d deal=%d", action, caller.UserID, dealID)

	return dto.ToggleResult{DealID: dealID, Action: action, IsFavorite: added}, nil
}

// ListFavorites returns the caller's favorite deals, latest first
func (s *FavoriteService) ListFavorites(ctx context.Context, caller types.Identity) ([]dto.DealCard, error) {
	if !caller.Authenticated {
		return nil, errors.ErrUnauthenticated
	}
	deals, err := s.store.FavoriteDeals(ctx, caller.UserID)
	if err != nil {
		s.log.Error("list favorites user=%d: %v", caller.UserID, err)
		return nil, err
	}
	return toDealCards(deals), nil
}

// IsFavorite is false for anonymous callers
func (s *FavoriteService) IsFavorite(ctx context.Context, caller types.Identity, dealID uint) (bool, error) {
	if !caller.Authenticated {
		return false, nil
	}
	return s.store.IsFavorite(ctx, caller.UserID, dealID)
}
