package services

import (
	"sort"
	"strings"

	"discounts/constants"
	"discounts/dto"
	"discounts/models"
)

// Relevance weights
const (
	weightTitleExact    = 8
	weightTitlePrefix   = 5
	weightTitleContains = 3
	weightDescription   = 1
	weightMerchantName  = 2
	weightCategoryName  = 1

	weightMerchantExact   = 4
	weightMerchantPrefix  = 2
	weightMerchantContact = 1
)

// rankedDeal carries the values a deal is sorted by, computed once
type rankedDeal struct {
	deal    models.Deal
	score   int
	rate    float64
	percent int
}

// NormalizeSort maps unknown sort modes to relevance
func NormalizeSort(mode string) string {
	switch mode {
	case constants.SortDiscount, constants.SortNew:
		return mode
	default:
		return constants.SortRelevance
	}
}

// MatchesQuery reports whether the lower-cased query occurs in any searchable
// field of the deal
func MatchesQuery(deal *models.Deal, q string) bool {
	if strings.Contains(strings.ToLower(deal.Title), q) ||
		strings.Contains(strings.ToLower(deal.Description), q) ||
		strings.Contains(strings.ToLower(deal.Merchant.Name), q) ||
		strings.Contains(strings.ToLower(deal.Merchant.ContactValue()), q) {
		return true
	}
	return categoryMatches(deal, q)
}

func categoryMatches(deal *models.Deal, q string) bool {
	for _, c := range deal.Categories {
		if strings.Contains(strings.ToLower(c.Name), q) {
			return true
		}
	}
	return false
}

// RelevanceScore sums the weights of every signal the deal satisfies.
// Signals are independent, an exact title match also counts as prefix and contains.
func RelevanceScore(deal *models.Deal, q string) int {
	title := strings.ToLower(deal.Title)
	score := 0
	if title == q {
		score += weightTitleExact
	}
	if strings.HasPrefix(title, q) {
		score += weightTitlePrefix
	}
	if strings.Contains(title, q) {
		score += weightTitleContains
	}
	if strings.Contains(strings.ToLower(deal.Description), q) {
		score += weightDescription
	}
	if strings.Contains(strings.ToLower(deal.Merchant.Name), q) {
		score += weightMerchantName
	}
	if categoryMatches(deal, q) {
		score += weightCategoryName
	}
	return score
}

// rankDeals keeps the deals matching q and the category filter, drops
// duplicates by id and sorts them by mode
func rankDeals(candidates []models.Deal, q string, categoryIDs []uint, mode string) []rankedDeal {
	filter := make(map[uint]bool, len(categoryIDs))
	for _, id := range categoryIDs {
		filter[id] = true
	}

	seen := make(map[uint]bool, len(candidates))
	ranked := make([]rankedDeal, 0, len(candidates))
	for i := range candidates {
		deal := &candidates[i]
		if seen[deal.ID] {
			continue
		}
		if !MatchesQuery(deal, q) {
			continue
		}
		if len(filter) > 0 && !deal.HasCategory(filter) {
			continue
		}
		seen[deal.ID] = true
		ranked = append(ranked, rankedDeal{
			deal:    *deal,
			score:   RelevanceScore(deal, q),
			rate:    DiscountRate(deal.PriceOriginal, deal.PriceDiscount),
			percent: DiscountPercent(deal.PriceOriginal, deal.PriceDiscount),
		})
	}

	sortRanked(ranked, mode)
	return ranked
}

func sortRanked(ranked []rankedDeal, mode string) {
	byTitle := func(a, b rankedDeal) bool {
		if a.deal.Title != b.deal.Title {
			return a.deal.Title < b.deal.Title
		}
		return a.deal.ID < b.deal.ID
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		switch mode {
		case constants.SortDiscount:
			if a.rate != b.rate {
				return a.rate > b.rate
			}
		case constants.SortNew:
			if !a.deal.CreatedAt.Equal(b.deal.CreatedAt) {
				return a.deal.CreatedAt.After(b.deal.CreatedAt)
			}
		}
		if a.score != b.score {
			return a.score > b.score
		}
		return byTitle(a, b)
	})
}

// MerchantScore scores a merchant against the lower-cased query
func MerchantScore(m *models.Merchant, q string) int {
	name := strings.ToLower(m.Name)
	score := 0
	if name == q {
		score += weightMerchantExact
	}
	if strings.HasPrefix(name, q) {
		score += weightMerchantPrefix
	}
	if strings.Contains(strings.ToLower(m.ContactValue()), q) {
		score += weightMerchantContact
	}
	return score
}

// rankMerchants keeps merchants whose name or contact contains q, best first
func rankMerchants(merchants []models.Merchant, q string) []dto.MerchantHit {
	hits := make([]dto.MerchantHit, 0, len(merchants))
	for i := range merchants {
		m := &merchants[i]
		if !strings.Contains(strings.ToLower(m.Name), q) &&
			!strings.Contains(strings.ToLower(m.ContactValue()), q) {
			continue
		}
		hits = append(hits, dto.MerchantHit{
			ID:      m.ID,
			Name:    m.Name,
			Contact: m.ContactValue(),
			Score:   MerchantScore(m, q),
		})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		if hits[i].Name != hits[j].Name {
			return hits[i].Name < hits[j].Name
		}
		return hits[i].ID < hits[j].ID
	})
	return hits
}

// Paginate clamps page into [1, last] and returns the slice bounds.
// An empty result has a single empty page.
func Paginate(total, page, size int) (current, totalPages, start, end int) {
	totalPages = (total + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}
	current = page
	if current < 1 {
		current = 1
	}
	if current > totalPages {
		current = totalPages
	}
	start = (current - 1) * size
	end = start + size
	if end > total {
		end = total
	}
	if start > end {
		start = end
	}
	return current, totalPages, start, end
}
