package services

import (
	"context"
	"strings"
	"time"

	"discounts/commands"
	"discounts/constants"
	"discounts/dto"
	"discounts/errors"
	"discounts/models"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore is the postgres implementation of CatalogStore
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates or updates the catalog tables
func (s *GormStore) Migrate() error {
	if err := s.db.SetupJoinTable(&models.Deal{}, "Categories", &models.DealCategory{}); err != nil {
		return err
	}
	return s.db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Merchant{},
		&models.Category{},
		&models.Deal{},
		&models.DealCategory{},
		&models.Favorite{},
		&models.Coupon{},
	)
}

func (s *GormStore) deals(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&models.Deal{}).
		Preload("Merchant").
		Preload("Categories", func(db *gorm.DB) *gorm.DB {
			return db.Order("categories.name ASC")
		})
}

const activeWindow = "(deals.starts_at IS NULL OR deals.starts_at <= ?) AND (deals.expires_at IS NULL OR deals.expires_at >= ?)"

func (s *GormStore) GetDeal(ctx context.Context, id uint) (*models.Deal, error) {
	var deal models.Deal
	if err := s.deals(ctx).First(&deal, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrDealNotFound
		}
		return nil, err
	}
	return &deal, nil
}

func (s *GormStore) ActiveDeals(ctx context.Context, now time.Time) ([]models.Deal, error) {
	var deals []models.Deal
	err := s.deals(ctx).Where(activeWindow, now, now).Find(&deals).Error
	return deals, err
}

func (s *GormStore) DealsEndingAfter(ctx context.Context, now time.Time, limit int) ([]models.Deal, error) {
	var deals []models.Deal
	err := s.deals(ctx).
		Where("deals.expires_at IS NOT NULL AND deals.expires_at > ?", now).
		Order("deals.expires_at ASC, deals.id ASC").
		Limit(limit).
		Find(&deals).Error
	return deals, err
}

func (s *GormStore) RecentDeals(ctx context.Context, limit int) ([]models.Deal, error) {
	var deals []models.Deal
	err := s.deals(ctx).
		Order("deals.created_at DESC, deals.id DESC").
		Limit(limit).
		Find(&deals).Error
	return deals, err
}

func (s *GormStore) DealsInCategory(ctx context.Context, categoryID uint, now time.Time) ([]models.Deal, error) {
	var deals []models.Deal
	err := s.deals(ctx).
		Where(activeWindow, now, now).
		Where("EXISTS (SELECT 1 FROM deal_categories dc WHERE dc.deal_id = deals.id AND dc.category_id = ?)", categoryID).
		Find(&deals).Error
	return deals, err
}

func (s *GormStore) SearchDeals(ctx context.Context, query string, categoryIDs []uint) ([]models.Deal, error) {
	q := s.deals(ctx).
		Select("deals.*").
		Joins("JOIN merchants ON merchants.id = deals.merchant_id")

	if query != "" {
		pattern := likePattern(query)
		q = q.Where(`(deals.title ILIKE ? OR deals.description ILIKE ? OR merchants.name ILIKE ? OR merchants.contact ILIKE ?
			OR EXISTS (SELECT 1 FROM deal_categories dc JOIN categories c ON c.id = dc.category_id
				WHERE dc.deal_id = deals.id AND c.name ILIKE ?))`,
			pattern, pattern, pattern, pattern, pattern)
	}
	if len(categoryIDs) > 0 {
		q = q.Where("EXISTS (SELECT 1 FROM deal_categories dc WHERE dc.deal_id = deals.id AND dc.category_id = ANY(?))",
			int64Array(categoryIDs))
	}

	var deals []models.Deal
	err := q.Find(&deals).Error
	return deals, err
}

func (s *GormStore) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

func (s *GormStore) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (s *GormStore) CategoriesByIDs(ctx context.Context, ids []uint) ([]models.Category, error) {
	var categories []models.Category
	if len(ids) == 0 {
		return categories, nil
	}
	err := s.db.WithContext(ctx).Where("id IN ?", ids).Order("name ASC").Find(&categories).Error
	return categories, err
}

func (s *GormStore) CategoryDealCounts(ctx context.Context) ([]dto.CategoryCount, error) {
	var counts []dto.CategoryCount
	err := s.db.WithContext(ctx).
		Table("categories").
		Select("categories.id, categories.name, COUNT(deal_categories.deal_id) AS deal_count").
		Joins("LEFT JOIN deal_categories ON deal_categories.category_id = categories.id").
		Group("categories.id, categories.name").
		Scan(&counts).Error
	return counts, err
}

func (s *GormStore) SearchCategories(ctx context.Context, query string) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.WithContext(ctx).
		Where("name ILIKE ?", likePattern(query)).
		Order("name ASC").
		Find(&categories).Error
	return categories, err
}

func (s *GormStore) GetMerchant(ctx context.Context, id uint) (*models.Merchant, error) {
	var merchant models.Merchant
	if err := s.db.WithContext(ctx).First(&merchant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrMerchantNotFound
		}
		return nil, err
	}
	return &merchant, nil
}

func (s *GormStore) SearchMerchants(ctx context.Context, query string) ([]models.Merchant, error) {
	var merchants []models.Merchant
	pattern := likePattern(query)
	err := s.db.WithContext(ctx).
		Where("name ILIKE ? OR contact ILIKE ?", pattern, pattern).
		Find(&merchants).Error
	return merchants, err
}

func (s *GormStore) Vocabulary(ctx context.Context) ([]string, error) {
	db := s.db.WithContext(ctx)
	var titles, merchants, categories []string
	if err := db.Model(&models.Deal{}).Distinct().Pluck("title", &titles).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Merchant{}).Distinct().Pluck("name", &merchants).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Category{}).Pluck("name", &categories).Error; err != nil {
		return nil, err
	}
	words := make([]string, 0, len(titles)+len(merchants)+len(categories))
	words = append(words, titles...)
	words = append(words, merchants...)
	return append(words, categories...), nil
}

func (s *GormStore) ToggleFavorite(ctx context.Context, userID, dealID uint) (bool, error) {
	added := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Deal{}).Where("id = ?", dealID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errors.ErrDealNotFound
		}

		res := tx.Where("user_id = ? AND deal_id = ?", userID, dealID).Delete(&models.Favorite{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		added = true
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Favorite{UserID: userID, DealID: dealID}).Error
	})
	return added, err
}

func (s *GormStore) IsFavorite(ctx context.Context, userID, dealID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ? AND deal_id = ?", userID, dealID).
		Count(&count).Error
	return count > 0, err
}

func (s *GormStore) FavoriteDeals(ctx context.Context, userID uint) ([]models.Deal, error) {
	var deals []models.Deal
	err := s.deals(ctx).
		Select("deals.*").
		Joins("JOIN favorites ON favorites.deal_id = deals.id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.created_at DESC, favorites.id DESC").
		Find(&deals).Error
	return deals, err
}

// CreateCoupon needs the connection opened with TranslateError so that a
// unique violation on the code surfaces as gorm.ErrDuplicatedKey
func (s *GormStore) CreateCoupon(ctx context.Context, coupon *models.Coupon) error {
	err := s.db.WithContext(ctx).Omit("Deal").Create(coupon).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errors.NewAppError(errors.ErrCodeDBDuplicate, "duplicate coupon code", err)
	}
	return err
}

func (s *GormStore) GetCouponByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := s.db.WithContext(ctx).Preload("Deal").Where("code = ?", code).First(&coupon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrCouponNotFound
		}
		return nil, err
	}
	return &coupon, nil
}

func (s *GormStore) TransitionCoupon(ctx context.Context, id uint, status string, redeemedAt *time.Time) error {
	res := s.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("id = ? AND status = ?", id, constants.CouponStatusActive).
		Updates(map[string]interface{}{
			"status":      status,
			"redeemed_at": redeemedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.ErrCouponNotActive
	}
	return nil
}

func (s *GormStore) ExpireCoupons(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("status = ?", constants.CouponStatusActive).
		Where("deal_id IN (SELECT id FROM deals WHERE expires_at IS NOT NULL AND expires_at < ?)", cutoff).
		Update("status", constants.CouponStatusExpired)
	return res.RowsAffected, res.Error
}

func (s *GormStore) UserCoupons(ctx context.Context, userID uint) ([]models.Coupon, error) {
	var coupons []models.Coupon
	err := s.db.WithContext(ctx).
		Preload("Deal").
		Where("user_id = ?", userID).
		Order("issued_at DESC, id DESC").
		Find(&coupons).Error
	return coupons, err
}

func (s *GormStore) RecentCoupons(ctx context.Context, dealID uint, limit int) ([]models.Coupon, error) {
	var coupons []models.Coupon
	err := s.db.WithContext(ctx).
		Where("deal_id = ?", dealID).
		Order("issued_at DESC, id DESC").
		Limit(limit).
		Find(&coupons).Error
	return coupons, err
}

func (s *GormStore) CreateDeal(ctx context.Context, deal *models.Deal, categoryIDs []uint) error {
	return commands.NewInvoker(s.db.WithContext(ctx)).Run(func(tx *gorm.DB) []commands.DealCommand {
		return []commands.DealCommand{commands.NewCreateDealCommand(deal, categoryIDs, tx)}
	})
}

func (s *GormStore) SaveDeal(ctx context.Context, deal *models.Deal, categoryIDs []uint) error {
	err := commands.NewInvoker(s.db.WithContext(ctx)).Run(func(tx *gorm.DB) []commands.DealCommand {
		return []commands.DealCommand{commands.NewUpdateDealCommand(deal, categoryIDs, tx)}
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.ErrDealNotFound
	}
	return err
}

func (s *GormStore) DeleteDeal(ctx context.Context, id uint) error {
	err := commands.NewInvoker(s.db.WithContext(ctx)).Run(func(tx *gorm.DB) []commands.DealCommand {
		return []commands.DealCommand{commands.NewDeleteDealCommand(id, tx)}
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.ErrDealNotFound
	}
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds a contains pattern with LIKE wildcards escaped
func likePattern(query string) string {
	return "%" + likeEscaper.Replace(query) + "%"
}

func int64Array(ids []uint) pq.Int64Array {
	out := make(pq.Int64Array, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}

var _ CatalogStore = (*GormStore)(nil)
