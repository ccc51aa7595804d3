package services

import (
	"context"
	"time"

	"discounts/dto"
	"discounts/models"
)

// DealReader is the read side of the catalog used by listings and search.
// Deals are returned with Merchant and Categories loaded.
type DealReader interface {
	GetDeal(ctx context.Context, id uint) (*models.Deal, error)
	ActiveDeals(ctx context.Context, now time.Time) ([]models.Deal, error)
	DealsEndingAfter(ctx context.Context, now time.Time, limit int) ([]models.Deal, error)
	RecentDeals(ctx context.Context, limit int) ([]models.Deal, error)
	DealsInCategory(ctx context.Context, categoryID uint, now time.Time) ([]models.Deal, error)
	// SearchDeals returns candidate deals for the query. Candidates may be a
	// superset of the real matches; the search engine filters them again.
	SearchDeals(ctx context.Context, query string, categoryIDs []uint) ([]models.Deal, error)
}

// CategoryReader reads categories and merchants
type CategoryReader interface {
	Categories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id uint) (*models.Category, error)
	CategoriesByIDs(ctx context.Context, ids []uint) ([]models.Category, error)
	CategoryDealCounts(ctx context.Context) ([]dto.CategoryCount, error)
	SearchCategories(ctx context.Context, query string) ([]models.Category, error)
	GetMerchant(ctx context.Context, id uint) (*models.Merchant, error)
	SearchMerchants(ctx context.Context, query string) ([]models.Merchant, error)
	// Vocabulary lists deal titles, merchant names and category names
	Vocabulary(ctx context.Context) ([]string, error)
}

// FavoriteStore persists the user-deal favorite relation
type FavoriteStore interface {
	// ToggleFavorite flips the relation atomically and reports whether it now exists
	ToggleFavorite(ctx context.Context, userID, dealID uint) (bool, error)
	IsFavorite(ctx context.Context, userID, dealID uint) (bool, error)
	FavoriteDeals(ctx context.Context, userID uint) ([]models.Deal, error)
}

// CouponStore persists coupons
type CouponStore interface {
	CreateCoupon(ctx context.Context, coupon *models.Coupon) error
	GetCouponByCode(ctx context.Context, code string) (*models.Coupon, error)
	// TransitionCoupon moves an active coupon to status. It fails with
	// ErrCouponNotActive when the stored coupon is no longer active.
	TransitionCoupon(ctx context.Context, id uint, status string, redeemedAt *time.Time) error
	// ExpireCoupons expires active coupons whose deal expired before cutoff
	ExpireCoupons(ctx context.Context, cutoff time.Time) (int64, error)
	UserCoupons(ctx context.Context, userID uint) ([]models.Coupon, error)
	RecentCoupons(ctx context.Context, dealID uint, limit int) ([]models.Coupon, error)
}

// DealWriter mutates deals
type DealWriter interface {
	CreateDeal(ctx context.Context, deal *models.Deal, categoryIDs []uint) error
	// SaveDeal updates the deal's columns. When categoryIDs is non-nil the
	// membership is replaced by it.
	SaveDeal(ctx context.Context, deal *models.Deal, categoryIDs []uint) error
	// DeleteDeal hard-deletes the deal with its category rows, coupons and favorites
	DeleteDeal(ctx context.Context, id uint) error
}

// CatalogStore is everything the application needs from storage
type CatalogStore interface {
	DealReader
	CategoryReader
	FavoriteStore
	CouponStore
	DealWriter
}
