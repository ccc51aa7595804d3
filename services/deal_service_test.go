package services_test

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"discounts/dto"
	"discounts/errors"
	"discounts/models"
	"discounts/services"
	"discounts/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	got  string
	name string
	err  error
}

func (f *fakeUploader) Upload(ctx context.Context, file io.Reader, filename string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	f.got = string(data)
	f.name = filename
	return "https://cdn.example/" + filename, nil
}

func validForm(c *catalog) dto.DealForm {
	return dto.DealForm{
		Title:         "  Spring sale  ",
		MerchantID:    c.luigi.ID,
		PriceOriginal: dec("120.00"),
		PriceDiscount: dec("90.00"),
		StartsAt:      "2024-05-01",
		ExpiresAt:     "2024-06-01T18:00:00Z",
		Description:   "Everything must go",
		CategoryIDs:   []uint{c.food.ID, c.drinks.ID, c.food.ID},
	}
}

func TestCreateDeal(t *testing.T) {
	c := newCatalog()
	svc := services.NewDealService(c.store, nil, nopLog)

	deal, err := svc.CreateDeal(context.Background(), admin, validForm(c))
	require.NoError(t, err)

	assert.NotZero(t, deal.ID)
	assert.Equal(t, "Spring sale", deal.Title)
	assert.Equal(t, "Luigi", deal.Merchant.Name)
	assert.True(t, dec("90").Equal(deal.PriceDiscount))
	require.NotNil(t, deal.StartsAt)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), *deal.StartsAt)
	require.NotNil(t, deal.ExpiresAt)
	assert.Equal(t, time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC), *deal.ExpiresAt)
	require.Len(t, deal.Categories, 2)
	assert.Equal(t, "Drinks", deal.Categories[0].Name)
	assert.Equal(t, "Food", deal.Categories[1].Name)
}

func TestCreateDealAuthorization(t *testing.T) {
	c := newCatalog()
	svc := services.NewDealService(c.store, nil, nopLog)
	ctx := context.Background()

	_, err := svc.CreateDeal(ctx, types.Anonymous(), validForm(c))
	assert.True(t, errors.Is(err, errors.ErrUnauthenticated))

	_, err = svc.CreateDeal(ctx, alice, validForm(c))
	assert.True(t, errors.Is(err, errors.ErrForbidden))

	_, err = svc.CreateDeal(ctx, partner, validForm(c))
	assert.NoError(t, err)

	form := validForm(c)
	form.MerchantID = c.sushi.ID
	_, err = svc.CreateDeal(ctx, partner, form)
	assert.True(t, errors.Is(err, errors.ErrForbidden))
}

func TestCreateDealRejectsInvalidForm(t *testing.T) {
	c := newCatalog()
	svc := services.NewDealService(c.store, nil, nopLog)

	tests := []struct {
		name   string
		mutate func(*dto.DealForm)
		code   errors.ErrorCode
	}{
		{"missing title", func(f *dto.DealForm) { f.Title = "" }, errors.ErrCodeRequiredField},
		{"zero price", func(f *dto.DealForm) { f.PriceOriginal = dec("0") }, errors.ErrCodeInvalidAmount},
		{"bad date", func(f *dto.DealForm) { f.ExpiresAt = "tomorrow" }, errors.ErrCodeInvalidFormat},
		{"unknown category", func(f *dto.DealForm) { f.CategoryIDs = []uint{c.food.ID, 4040} }, errors.ErrCodeCategoryNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm(c)
			tt.mutate(&form)

			_, err := svc.CreateDeal(context.Background(), admin, form)

			appErr := errors.GetAppError(err)
			require.NotNil(t, appErr, "got %v", err)
			assert.Equal(t, tt.code, appErr.Code)
		})
	}

	form := validForm(c)
	form.MerchantID = 4040
	_, err := svc.CreateDeal(context.Background(), admin, form)
	assert.True(t, errors.Is(err, errors.ErrMerchantNotFound))
}

func TestEditDealReplacesFields(t *testing.T) {
	c := newCatalog()
	existing := c.store.AddDeal(models.Deal{
		Title: "Old", MerchantID: c.luigi.ID, PriceOriginal: dec("10"), PriceDiscount: dec("9"),
		ImageURL: "https://img.example/old.png", CreatedAt: now.Add(-time.Hour),
	}, c.travel.ID)
	svc := services.NewDealService(c.store, nil, nopLog)

	form := validForm(c)
	form.StartsAt = ""
	form.ExpiresAt = ""
	form.CategoryIDs = []uint{c.drinks.ID}
	deal, err := svc.EditDeal(context.Background(), partner, existing.ID, form)
	require.NoError(t, err)

	assert.Equal(t, "Spring sale", deal.Title)
	assert.Equal(t, "", deal.ImageURL)
	assert.Nil(t, deal.StartsAt)
	assert.Equal(t, now.Add(-time.Hour), deal.CreatedAt)
	require.Len(t, deal.Categories, 1)
	assert.Equal(t, "Drinks", deal.Categories[0].Name)
}

func TestEditDealValidationKeepsStoredDeal(t *testing.T) {
	c := newCatalog()
	existing := c.store.AddDeal(dealOf("Old", c.luigi, "10", "9"))
	svc := services.NewDealService(c.store, nil, nopLog)

	form := validForm(c)
	form.Title = ""
	_, err := svc.EditDeal(context.Background(), admin, existing.ID, form)
	require.Error(t, err)

	stored, err := c.store.GetDeal(context.Background(), existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Old", stored.Title)

	_, err = svc.EditDeal(context.Background(), admin, 5050, validForm(c))
	assert.True(t, errors.Is(err, errors.ErrDealNotFound))
}

func TestPatchDealKeepsAbsentAndMalformedFields(t *testing.T) {
	c := newCatalog()
	existing := c.store.AddDeal(models.Deal{
		Title: "Keep me", Description: "old text", MerchantID: c.luigi.ID,
		PriceOriginal: dec("100"), PriceDiscount: dec("80"), CreatedAt: now,
	}, c.food.ID)
	svc := services.NewDealService(c.store, nil, nopLog)

	patch := services.ParseDealPatch(map[string]interface{}{
		"description":    "new text",
		"price_original": "not a number",
		"priceDiscount":  "60,50",
		"expires_at":     "someday",
	})
	deal, err := svc.PatchDeal(context.Background(), admin, existing.ID, patch)
	require.NoError(t, err)

	assert.Equal(t, "Keep me", deal.Title)
	assert.Equal(t, "new text", deal.Description)
	assert.True(t, dec("100").Equal(deal.PriceOriginal))
	assert.True(t, dec("60.50").Equal(deal.PriceDiscount))
	assert.Nil(t, deal.ExpiresAt)
	assert.Equal(t, 40, services.DiscountPercent(deal.PriceOriginal, deal.PriceDiscount))
	require.Len(t, deal.Categories, 1)
}

func TestPatchDealAuthorization(t *testing.T) {
	c := newCatalog()
	existing := c.store.AddDeal(dealOf("Sushi set", c.sushi, "10", "9"))
	svc := services.NewDealService(c.store, nil, nopLog)
	title := "Hijacked"
	patch := dto.DealPatch{Title: &title}

	_, err := svc.PatchDeal(context.Background(), alice, existing.ID, patch)
	assert.True(t, errors.Is(err, errors.ErrForbidden))

	_, err = svc.PatchDeal(context.Background(), partner, existing.ID, patch)
	assert.True(t, errors.Is(err, errors.ErrForbidden))

	stored, err := c.store.GetDeal(context.Background(), existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sushi set", stored.Title)
}

func TestPatchDealEmptyPatchChangesNothing(t *testing.T) {
	c := newCatalog()
	existing := c.store.AddDeal(dealOf("Same", c.luigi, "10", "9"))
	svc := services.NewDealService(c.store, nil, nopLog)

	deal, err := svc.PatchDeal(context.Background(), admin, existing.ID, dto.DealPatch{Ignored: []string{"price_original"}})
	require.NoError(t, err)

	assert.Equal(t, "Same", deal.Title)
}

func TestDeleteDealCascades(t *testing.T) {
	c := newCatalog()
	deal := c.store.AddDeal(dealOf("Doomed", c.luigi, "10", "5"), c.food.ID, c.drinks.ID)
	ctx := context.Background()
	_, err := services.NewFavoriteService(c.store, nopLog).ToggleFavorite(ctx, alice, deal.ID)
	require.NoError(t, err)
	_, err = services.NewCouponService(c.store, nopLog).IssueCoupon(ctx, alice, deal.ID, now)
	require.NoError(t, err)
	svc := services.NewDealService(c.store, nil, nopLog)

	require.NoError(t, svc.DeleteDeal(ctx, admin, deal.ID))

	_, err = c.store.GetDeal(ctx, deal.ID)
	assert.True(t, errors.Is(err, errors.ErrDealNotFound))
	categories, coupons, favorites := c.store.Counts(deal.ID)
	assert.Zero(t, categories)
	assert.Zero(t, coupons)
	assert.Zero(t, favorites)

	err = svc.DeleteDeal(ctx, admin, deal.ID)
	assert.True(t, errors.Is(err, errors.ErrDealNotFound))
}

func TestDeleteDealRequiresStaff(t *testing.T) {
	c := newCatalog()
	deal := c.store.AddDeal(dealOf("Safe", c.luigi, "10", "5"))
	svc := services.NewDealService(c.store, nil, nopLog)

	err := svc.DeleteDeal(context.Background(), bob, deal.ID)

	assert.True(t, errors.Is(err, errors.ErrForbidden))
	_, err = c.store.GetDeal(context.Background(), deal.ID)
	assert.NoError(t, err)
}

func TestSetDealImage(t *testing.T) {
	c := newCatalog()
	deal := c.store.AddDeal(dealOf("Pretty", c.luigi, "10", "5"))
	uploader := &fakeUploader{}
	svc := services.NewDealService(c.store, uploader, nopLog)

	updated, err := svc.SetDealImage(context.Background(), partner, deal.ID, strings.NewReader("PNGDATA"), "pretty.png")
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example/pretty.png", updated.ImageURL)
	assert.Equal(t, "PNGDATA", uploader.got)

	uploader.err = errors.New("cloud down")
	_, err = svc.SetDealImage(context.Background(), partner, deal.ID, strings.NewReader("x"), "x.png")
	assert.EqualError(t, err, "cloud down")

	noUploads := services.NewDealService(c.store, nil, nopLog)
	_, err = noUploads.SetDealImage(context.Background(), admin, deal.ID, strings.NewReader("x"), "x.png")
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrCodeUpload, appErr.Code)
}

func TestGetDealDetail(t *testing.T) {
	c := newCatalog()
	d := dealOf("Detail", c.luigi, "100", "75")
	d.Description = "Long text"
	deal := c.store.AddDeal(d, c.food.ID)
	ctx := context.Background()
	_, err := services.NewFavoriteService(c.store, nopLog).ToggleFavorite(ctx, alice, deal.ID)
	require.NoError(t, err)
	coupons := services.NewCouponService(c.store, nopLog)
	for i := 0; i < 7; i++ {
		_, err := coupons.IssueCoupon(ctx, bob, deal.ID, now.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
	}
	svc := services.NewDealService(c.store, nil, nopLog)

	forAlice, err := svc.GetDealDetail(ctx, alice, deal.ID, now)
	require.NoError(t, err)
	assert.True(t, forAlice.IsFavorite)
	assert.True(t, forAlice.IsActive)
	assert.Equal(t, 25, forAlice.DiscountPercent)
	assert.Equal(t, "Long text", forAlice.Description)
	assert.Equal(t, "hello@luigi.example", forAlice.Contact)
	assert.Empty(t, forAlice.RecentCoupons)

	forAnon, err := svc.GetDealDetail(ctx, types.Anonymous(), deal.ID, now)
	require.NoError(t, err)
	assert.False(t, forAnon.IsFavorite)

	forAdmin, err := svc.GetDealDetail(ctx, admin, deal.ID, now)
	require.NoError(t, err)
	require.Len(t, forAdmin.RecentCoupons, 5)
	assert.Equal(t, now.Add(6*time.Minute), forAdmin.RecentCoupons[0].IssuedAt)

	_, err = svc.GetDealDetail(ctx, alice, 8080, now)
	assert.True(t, errors.Is(err, errors.ErrDealNotFound))
}
