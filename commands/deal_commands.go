package commands

import (
	"discounts/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DealCommand is a unit of catalog mutation executed against a transaction
type DealCommand interface {
	Execute() error
}

// CreateDealCommand inserts a deal and links its categories
type CreateDealCommand struct {
	deal        *models.Deal
	categoryIDs []uint
	db          *gorm.DB
}

func NewCreateDealCommand(deal *models.Deal, categoryIDs []uint, db *gorm.DB) *CreateDealCommand {
	return &CreateDealCommand{
		deal:        deal,
		categoryIDs: categoryIDs,
		db:          db,
	}
}

func (c *CreateDealCommand) Execute() error {
	if err := c.db.Omit(clause.Associations).Create(c.deal).Error; err != nil {
		return err
	}
	return linkCategories(c.db, c.deal.ID, c.categoryIDs)
}

// UpdateDealCommand saves the deal columns. A non-nil categoryIDs replaces
// the membership; nil leaves it untouched.
type UpdateDealCommand struct {
	deal        *models.Deal
	categoryIDs []uint
	db          *gorm.DB
}

func NewUpdateDealCommand(deal *models.Deal, categoryIDs []uint, db *gorm.DB) *UpdateDealCommand {
	return &UpdateDealCommand{
		deal:        deal,
		categoryIDs: categoryIDs,
		db:          db,
	}
}

func (c *UpdateDealCommand) Execute() error {
	res := c.db.Model(&models.Deal{}).Where("id = ?", c.deal.ID).Updates(map[string]interface{}{
		"title":          c.deal.Title,
		"merchant_id":    c.deal.MerchantID,
		"price_original": c.deal.PriceOriginal,
		"price_discount": c.deal.PriceDiscount,
		"starts_at":      c.deal.StartsAt,
		"expires_at":     c.deal.ExpiresAt,
		"image_url":      c.deal.ImageURL,
		"description":    c.deal.Description,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	if c.categoryIDs == nil {
		return nil
	}
	if err := c.db.Where("deal_id = ?", c.deal.ID).Delete(&models.DealCategory{}).Error; err != nil {
		return err
	}
	return linkCategories(c.db, c.deal.ID, c.categoryIDs)
}

// DeleteDealCommand removes a deal with everything that references it
type DeleteDealCommand struct {
	dealID uint
	db     *gorm.DB
}

func NewDeleteDealCommand(dealID uint, db *gorm.DB) *DeleteDealCommand {
	return &DeleteDealCommand{
		dealID: dealID,
		db:     db,
	}
}

func (c *DeleteDealCommand) Execute() error {
	if err := c.db.Where("deal_id = ?", c.dealID).Delete(&models.Favorite{}).Error; err != nil {
		return err
	}
	if err := c.db.Where("deal_id = ?", c.dealID).Delete(&models.Coupon{}).Error; err != nil {
		return err
	}
	if err := c.db.Where("deal_id = ?", c.dealID).Delete(&models.DealCategory{}).Error; err != nil {
		return err
	}
	res := c.db.Delete(&models.Deal{}, c.dealID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// linkCategories inserts membership rows, existing pairs are kept as they are
func linkCategories(db *gorm.DB, dealID uint, categoryIDs []uint) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	rows := make([]models.DealCategory, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		rows = append(rows, models.DealCategory{DealID: dealID, CategoryID: id})
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

// Invoker runs commands in order inside one transaction
type Invoker struct {
	db *gorm.DB
}

func NewInvoker(db *gorm.DB) *Invoker {
	return &Invoker{db: db}
}

// Run builds the commands against the transaction and executes them.
// The first failure rolls everything back.
func (i *Invoker) Run(build func(tx *gorm.DB) []DealCommand) error {
	return i.db.Transaction(func(tx *gorm.DB) error {
		for _, cmd := range build(tx) {
			if err := cmd.Execute(); err != nil {
				return err
			}
		}
		return nil
	})
}
