package dto

import "time"

// SearchRequest is the parsed search query string
type SearchRequest struct {
	Query       string `json:"q"`
	Sort        string `json:"sort"`
	CategoryIDs []uint `json:"categories"`
	Page        int    `json:"page"`
	// SessionKey scopes the recent-search history, empty disables it
	SessionKey string `json:"-"`
}

type SearchFlags struct {
	QueryTooShort bool `json:"queryTooShort"`
	ShowResults   bool `json:"showResults"`
	FiltersActive bool `json:"filtersActive"`
}

type SearchTotals struct {
	Deals      int `json:"deals"`
	Merchants  int `json:"merchants"`
	Categories int `json:"categories"`
}

// MerchantHit is a merchant matched by the search query
type MerchantHit struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Contact string `json:"contact,omitempty"`
	Score   int    `json:"score"`
}

// RecentQuery is one entry of the per-session search history
type RecentQuery struct {
	Query       string    `json:"q"`
	Sort        string    `json:"sort"`
	CategoryIDs []uint    `json:"categories,omitempty"`
	At          time.Time `json:"at"`
}

type SearchResult struct {
	Query               string                        `json:"q"`
	Sort                string                        `json:"sort"`
	SelectedCategories  []uint                        `json:"selectedCategories"`
	Deals               PaginatedResponse[[]DealCard] `json:"deals"`
	Merchants           []MerchantHit                 `json:"merchants"`
	Categories          []CategoryRef                 `json:"categories"`
	Totals              SearchTotals                  `json:"totals"`
	PopularCategories   []CategoryCount               `json:"popularCategories"`
	RecentDeals         []DealCard                    `json:"recentDeals"`
	AvailableCategories []CategoryRef                 `json:"availableCategories"`
	Suggestion          string                        `json:"suggestion,omitempty"`
	RecentQueries       []RecentQuery                 `json:"recentQueries,omitempty"`
	Flags               SearchFlags                   `json:"flags"`
}
