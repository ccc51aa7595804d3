package services

import (
	"context"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"discounts/constants"
	"discounts/dto"
	"discounts/models"
	"discounts/response"
	"discounts/services/logger"
)

// minQueryLength is the shortest query, in characters, that runs a search
const minQueryLength = 2

// SearchStore is what the search engine reads
type SearchStore interface {
	DealReader
	CategoryReader
}

// SearchService ranks deals, merchants and categories for a query. It holds
// no per-request state and may be shared between goroutines.
type SearchService struct {
	store  SearchStore
	recent RecentSearches
	log    logger.Logger
}

// NewSearchService builds the engine. recent may be nil to disable history.
func NewSearchService(store SearchStore, recent RecentSearches, log logger.Logger) *SearchService {
	return &SearchService{store: store, recent: recent, log: log}
}

func (s *SearchService) Search(ctx context.Context, req dto.SearchRequest, now time.Time) (*dto.SearchResult, error) {
	query := strings.TrimSpace(req.Query)
	length := utf8.RuneCountInString(query)
	mode := NormalizeSort(req.Sort)
	selected := req.CategoryIDs
	if selected == nil {
		selected = []uint{}
	}

	result := &dto.SearchResult{
		Query:              query,
		Sort:               mode,
		SelectedCategories: selected,
		Deals:              emptyDealPage(),
		Merchants:          []dto.MerchantHit{},
		Categories:         []dto.CategoryRef{},
		Flags: dto.SearchFlags{
			QueryTooShort: length > 0 && length < minQueryLength,
			ShowResults:   length >= minQueryLength,
			FiltersActive: len(selected) > 0,
		},
	}

	if result.Flags.ShowResults {
		if err := s.runQuery(ctx, result, query, req.Page); err != nil {
			return nil, err
		}
		s.remember(ctx, req.SessionKey, dto.RecentQuery{
			Query:       query,
			Sort:        mode,
			CategoryIDs: req.CategoryIDs,
			At:          now,
		})
	}

	if err := s.fillPanels(ctx, result); err != nil {
		return nil, err
	}
	result.RecentQueries = s.history(ctx, req.SessionKey)
	return result, nil
}

func emptyDealPage() dto.PaginatedResponse[[]dto.DealCard] {
	return dto.PaginatedResponse[[]dto.DealCard]{
		Data: []dto.DealCard{},
		Pagination: response.Pagination{
			Page:       1,
			Limit:      constants.SearchPageSize,
			Total:      0,
			TotalPages: 1,
		},
	}
}

func (s *SearchService) runQuery(ctx context.Context, result *dto.SearchResult, query string, page int) error {
	lower := strings.ToLower(query)

	candidates, err := s.store.SearchDeals(ctx, query, result.SelectedCategories)
	if err != nil {
		s.log.Error("search %q: load deals: %v", query, err)
		return err
	}
	ranked := rankDeals(candidates, lower, result.SelectedCategories, result.Sort)

	current, totalPages, start, end := Paginate(len(ranked), page, constants.SearchPageSize)
	cards := make([]dto.DealCard, 0, end-start)
	for _, r := range ranked[start:end] {
		card := ToDealCard(&r.deal)
		card.Relevance = r.score
		cards = append(cards, card)
	}
	result.Deals = dto.PaginatedResponse[[]dto.DealCard]{
		Data: cards,
		Pagination: response.Pagination{
			Page:       current,
			Limit:      constants.SearchPageSize,
			Total:      len(ranked),
			TotalPages: totalPages,
		},
	}

	merchants, err := s.store.SearchMerchants(ctx, query)
	if err != nil {
		s.log.Error("search %q: load merchants: %v", query, err)
		return err
	}
	result.Merchants = rankMerchants(merchants, lower)

	categories, err := s.store.SearchCategories(ctx, query)
	if err != nil {
		s.log.Error("search %q: load categories: %v", query, err)
		return err
	}
	result.Categories = matchingCategories(categories, lower)

	result.Totals = dto.SearchTotals{
		Deals:      len(ranked),
		Merchants:  len(result.Merchants),
		Categories: len(result.Categories),
	}

	outcome := "hit"
	if len(ranked) == 0 {
		outcome = "miss"
		result.Suggestion = s.suggest(ctx, query)
	}
	searchesTotal.WithLabelValues(result.Sort, outcome).Inc()
	return nil
}

func matchingCategories(categories []models.Category, lower string) []dto.CategoryRef {
	refs := make([]dto.CategoryRef, 0, len(categories))
	for _, c := range categories {
		if strings.Contains(strings.ToLower(c.Name), lower) {
			refs = append(refs, dto.CategoryRef{ID: c.ID, Name: c.Name})
		}
	}
	sortCategoryRefs(refs)
	return refs
}

func sortCategoryRefs(refs []dto.CategoryRef) {
	sort.SliceStable(refs, func(i, j int) bool {
		if refs[i].Name != refs[j].Name {
			return refs[i].Name < refs[j].Name
		}
		return refs[i].ID < refs[j].ID
	})
}

func (s *SearchService) suggest(ctx context.Context, query string) string {
	vocabulary, err := s.store.Vocabulary(ctx)
	if err != nil {
		s.log.Warn("search %q: load vocabulary: %v", query, err)
		return ""
	}
	return Suggest(query, vocabulary)
}

// fillPanels loads the browsing panels shown whether or not a search ran
func (s *SearchService) fillPanels(ctx context.Context, result *dto.SearchResult) error {
	counts, err := s.store.CategoryDealCounts(ctx)
	if err != nil {
		s.log.Error("search: load category counts: %v", err)
		return err
	}
	result.PopularCategories = PopularCategories(counts, constants.SearchPopularCategories)

	recent, err := s.store.RecentDeals(ctx, constants.SearchRecentDeals)
	if err != nil {
		s.log.Error("search: load recent deals: %v", err)
		return err
	}
	result.RecentDeals = toDealCards(recent)

	categories, err := s.store.Categories(ctx)
	if err != nil {
		s.log.Error("search: load categories: %v", err)
		return err
	}
	available := make([]dto.CategoryRef, 0, len(categories))
	for _, c := range categories {
		available = append(available, dto.CategoryRef{ID: c.ID, Name: c.Name})
	}
	sortCategoryRefs(available)
	result.AvailableCategories = available
	return nil
}

// PopularCategories orders by total deal count desc then name and keeps limit
func PopularCategories(counts []dto.CategoryCount, limit int) []dto.CategoryCount {
	out := make([]dto.CategoryCount, len(counts))
	copy(out, counts)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DealCount != out[j].DealCount {
			return out[i].DealCount > out[j].DealCount
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (s *SearchService) remember(ctx context.Context, sessionKey string, entry dto.RecentQuery) {
	if s.recent == nil || sessionKey == "" {
		return
	}
	if err := s.recent.Remember(ctx, sessionKey, entry); err != nil {
		s.log.Warn("search: remember query for session %s: %v", sessionKey, err)
	}
}

func (s *SearchService) history(ctx context.Context, sessionKey string) []dto.RecentQuery {
	if s.recent == nil || sessionKey == "" {
		return nil
	}
	entries, err := s.recent.Recent(ctx, sessionKey)
	if err != nil {
		s.log.Warn("search: load history for session %s: %v", sessionKey, err)
		return nil
	}
	return entries
}
