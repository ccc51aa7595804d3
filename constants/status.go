package constants

// Role names
const (
	RoleUser    = "user"
	RolePartner = "partner"
	RoleAdmin   = "admin"
)

// Coupon status
const (
	CouponStatusActive   = "active"
	CouponStatusRedeemed = "redeemed"
	CouponStatusExpired  = "expired"
)

// Listing sizes
const (
	HomeTopDealsLimit       = 8
	HomeEndingSoonLimit     = 5
	HomeCategoryStatsLimit  = 10
	SearchPageSize          = 10
	SearchPopularCategories = 8
	SearchRecentDeals       = 6
	DealRecentCoupons       = 5
	RecentQueriesLimit      = 10
	CategoryMinDiscount     = 5
)

// Search sort modes
const (
	SortRelevance = "relevance"
	SortDiscount  = "discount"
	SortNew       = "new"
)
