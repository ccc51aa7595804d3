package services_test

import (
	"time"

	"discounts/constants"
	"discounts/models"
	"discounts/services/logger"
	"discounts/services/storetest"
	"discounts/types"

	"github.com/shopspring/decimal"
)

var (
	now     = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	nopLog  = logger.NewNopLogger()
	admin   = types.Identity{UserID: 1, Role: constants.RoleAdmin, Authenticated: true}
	partner = types.Identity{UserID: 2, Role: constants.RolePartner, Authenticated: true}
	alice   = types.Identity{UserID: 3, Role: constants.RoleUser, Authenticated: true}
	bob     = types.Identity{UserID: 4, Role: constants.RoleUser, Authenticated: true}
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr(t time.Time) *time.Time {
	return &t
}

// dealOf builds an always active deal
func dealOf(title string, merchant models.Merchant, original, discounted string) models.Deal {
	return models.Deal{
		Title:         title,
		MerchantID:    merchant.ID,
		PriceOriginal: dec(original),
		PriceDiscount: dec(discounted),
		CreatedAt:     now.Add(-24 * time.Hour),
	}
}

type catalog struct {
	store  *storetest.Store
	luigi  models.Merchant
	sushi  models.Merchant
	food   models.Category
	drinks models.Category
	travel models.Category
}

func newCatalog() *catalog {
	s := storetest.New()
	return &catalog{
		store:  s,
		luigi:  s.AddMerchant("Luigi", "hello@luigi.example", partner.UserID),
		sushi:  s.AddMerchant("Sushi Bar", "", 99),
		food:   s.AddCategory("Food"),
		drinks: s.AddCategory("Drinks"),
		travel: s.AddCategory("Travel"),
	}
}
