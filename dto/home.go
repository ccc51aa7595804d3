package dto

// CategoryStat counts the active deals of a category
type CategoryStat struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	ActiveCount int    `json:"activeCount"`
}

// CategoryCount counts all deals of a category
type CategoryCount struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	DealCount int    `json:"dealCount"`
}

// HomeKPI summarises the active catalog
type HomeKPI struct {
	TotalActive        int `json:"totalActive"`
	MaxDiscountPercent int `json:"maxDiscountPercent"`
}

type HomeView struct {
	TopDeals      []DealCard     `json:"topDeals"`
	EndingSoon    []DealCard     `json:"endingSoon"`
	CategoryStats []CategoryStat `json:"categoryStats"`
	KPI           HomeKPI        `json:"kpi"`
}

type CategoryPage struct {
	Category CategoryRef `json:"category"`
	Deals    []DealCard  `json:"deals"`
}
