package services

import (
	"context"
	"sort"
	"time"

	"discounts/constants"
	"discounts/dto"
	"discounts/models"
	"discounts/services/logger"
)

// ListingStore is what the listing pages read
type ListingStore interface {
	DealReader
	CategoryReader
}

type ListingService struct {
	store ListingStore
	log   logger.Logger
}

func NewListingService(store ListingStore, log logger.Logger) *ListingService {
	return &ListingService{store: store, log: log}
}

// ToDealCard flattens a deal for listings
func ToDealCard(deal *models.Deal) dto.DealCard {
	categories := make([]dto.CategoryRef, 0, len(deal.Categories))
	for _, c := range deal.Categories {
		categories = append(categories, dto.CategoryRef{ID: c.ID, Name: c.Name})
	}
	return dto.DealCard{
		ID:              deal.ID,
		Title:           deal.Title,
		MerchantID:      deal.MerchantID,
		MerchantName:    deal.Merchant.Name,
		PriceOriginal:   deal.PriceOriginal,
		PriceDiscount:   deal.PriceDiscount,
		DiscountPercent: DiscountPercent(deal.PriceOriginal, deal.PriceDiscount),
		StartsAt:        deal.StartsAt,
		ExpiresAt:       deal.ExpiresAt,
		CreatedAt:       deal.CreatedAt,
		ImageURL:        deal.ImageURL,
		Categories:      categories,
	}
}

func toDealCards(deals []models.Deal) []dto.DealCard {
	cards := make([]dto.DealCard, 0, len(deals))
	for i := range deals {
		cards = append(cards, ToDealCard(&deals[i]))
	}
	return cards
}

// sortByDiscount orders cards by discount desc, discounted price asc, id asc
func sortByDiscount(cards []dto.DealCard) {
	sort.SliceStable(cards, func(i, j int) bool {
		a, b := cards[i], cards[j]
		if a.DiscountPercent != b.DiscountPercent {
			return a.DiscountPercent > b.DiscountPercent
		}
		if cmp := a.PriceDiscount.Cmp(b.PriceDiscount); cmp != 0 {
			return cmp < 0
		}
		return a.ID < b.ID
	})
}

// BuildHomeView assembles the home page against the instant now
func (s *ListingService) BuildHomeView(ctx context.Context, now time.Time) (*dto.HomeView, error) {
	candidates, err := s.store.ActiveDeals(ctx, now)
	if err != nil {
		s.log.Error("home: load active deals: %v", err)
		return nil, err
	}
	active := make([]models.Deal, 0, len(candidates))
	for _, d := range candidates {
		if d.IsActiveAt(now) {
			active = append(active, d)
		}
	}

	cards := toDealCards(active)
	kpi := dto.HomeKPI{TotalActive: len(cards)}
	for i, card := range cards {
		if i == 0 || card.DiscountPercent > kpi.MaxDiscountPercent {
			kpi.MaxDiscountPercent = card.DiscountPercent
		}
	}

	sortByDiscount(cards)
	top := cards
	if len(top) > constants.HomeTopDealsLimit {
		top = top[:constants.HomeTopDealsLimit]
	}

	ending, err := s.endingSoon(ctx, now)
	if err != nil {
		return nil, err
	}

	stats, err := s.categoryStats(ctx, active)
	if err != nil {
		return nil, err
	}

	return &dto.HomeView{
		TopDeals:      top,
		EndingSoon:    ending,
		CategoryStats: stats,
		KPI:           kpi,
	}, nil
}

func (s *ListingService) endingSoon(ctx context.Context, now time.Time) ([]dto.DealCard, error) {
	deals, err := s.store.DealsEndingAfter(ctx, now, constants.HomeEndingSoonLimit)
	if err != nil {
		s.log.Error("home: load ending soon: %v", err)
		return nil, err
	}
	kept := make([]models.Deal, 0, len(deals))
	for _, d := range deals {
		if d.ExpiresAt != nil && d.ExpiresAt.After(now) {
			kept = append(kept, d)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		if !kept[i].ExpiresAt.Equal(*kept[j].ExpiresAt) {
			return kept[i].ExpiresAt.Before(*kept[j].ExpiresAt)
		}
		return kept[i].ID < kept[j].ID
	})
	if len(kept) > constants.HomeEndingSoonLimit {
		kept = kept[:constants.HomeEndingSoonLimit]
	}
	return toDealCards(kept), nil
}

// categoryStats counts active deals per category, categories without any
// active deal included
func (s *ListingService) categoryStats(ctx context.Context, active []models.Deal) ([]dto.CategoryStat, error) {
	categories, err := s.store.Categories(ctx)
	if err != nil {
		s.log.Error("home: load categories: %v", err)
		return nil, err
	}
	counts := make(map[uint]int, len(categories))
	for _, d := range active {
		for _, c := range d.Categories {
			counts[c.ID]++
		}
	}

	stats := make([]dto.CategoryStat, 0, len(categories))
	for _, c := range categories {
		stats = append(stats, dto.CategoryStat{ID: c.ID, Name: c.Name, ActiveCount: counts[c.ID]})
	}
	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].ActiveCount != stats[j].ActiveCount {
			return stats[i].ActiveCount > stats[j].ActiveCount
		}
		return stats[i].Name < stats[j].Name
	})
	if len(stats) > constants.HomeCategoryStatsLimit {
		stats = stats[:constants.HomeCategoryStatsLimit]
	}
	return stats, nil
}

// CategoryDeals lists the active deals of a category worth at least the
// minimum discount
func (s *ListingService) CategoryDeals(ctx context.Context, categoryID uint, now time.Time) (*dto.CategoryPage, error) {
	category, err := s.store.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	deals, err := s.store.DealsInCategory(ctx, categoryID, now)
	if err != nil {
		s.log.Error("category %d: load deals: %v", categoryID, err)
		return nil, err
	}

	cards := make([]dto.DealCard, 0, len(deals))
	for i := range deals {
		if !deals[i].IsActiveAt(now) {
			continue
		}
		card := ToDealCard(&deals[i])
		if card.DiscountPercent < constants.CategoryMinDiscount {
			continue
		}
		cards = append(cards, card)
	}
	sortByDiscount(cards)

	return &dto.CategoryPage{
		Category: dto.CategoryRef{ID: category.ID, Name: category.Name},
		Deals:    cards,
	}, nil
}
