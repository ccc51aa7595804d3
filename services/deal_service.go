package services

import (
	"context"
	"io"
	"time"

	"discounts/builders"
	"discounts/constants"
	"discounts/dto"
	"discounts/errors"
	"discounts/models"
	"discounts/services/logger"
	"discounts/types"
	"discounts/utils"
	"discounts/validator"
)

// DealService is the gated write side of the catalog plus the deal page
type DealService struct {
	store  CatalogStore
	images ImageUploader
	log    logger.Logger
}

// NewDealService builds the service. images may be nil when uploads are not configured.
func NewDealService(store CatalogStore, images ImageUploader, log logger.Logger) *DealService {
	return &DealService{store: store, images: images, log: log}
}

// requireStaff rejects callers that may not change the catalog
func requireStaff(caller types.Identity) error {
	if !caller.Authenticated {
		return errors.ErrUnauthenticated
	}
	if !caller.IsStaff() {
		return errors.ErrForbidden
	}
	return nil
}

// authorizeMerchant lets admins act on any merchant and partners only on
// the merchants they own
func (s *DealService) authorizeMerchant(ctx context.Context, caller types.Identity, merchantID uint) error {
	merchant, err := s.store.GetMerchant(ctx, merchantID)
	if err != nil {
		return err
	}
	if caller.Role == constants.RolePartner && merchant.UserID != caller.UserID {
		return errors.ErrForbidden
	}
	return nil
}

// resolveCategories loads the categories named by ids, rejecting unknown ones
func (s *DealService) resolveCategories(ctx context.Context, ids []uint) ([]models.Category, []uint, error) {
	ids = dedupeIDs(ids)
	categories, err := s.store.CategoriesByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	if len(categories) != len(ids) {
		return nil, nil, errors.NewAppError(errors.ErrCodeCategoryNotFound, "Unknown category", errors.ErrCategoryNotFound)
	}
	return categories, ids, nil
}

func dedupeIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func optionalTime(value string) *time.Time {
	t, ok := utils.ParseTime(value)
	if !ok {
		return nil
	}
	return &t
}

func buildFromForm(b *builders.DealBuilder, form dto.DealForm, categories []models.Category) *models.Deal {
	return b.WithTitle(form.Title).
		WithMerchant(form.MerchantID).
		WithPrices(form.PriceOriginal, form.PriceDiscount).
		WithWindow(optionalTime(form.StartsAt), optionalTime(form.ExpiresAt)).
		WithImage(form.ImageURL).
		WithDescription(form.Description).
		WithCategories(categories).
		Build()
}

// CreateDeal validates the form and stores a new deal
func (s *DealService) CreateDeal(ctx context.Context, caller types.Identity, form dto.DealForm) (*models.Deal, error) {
	if err := requireStaff(caller); err != nil {
		return nil, err
	}
	if err := validator.ValidateDealForm(&form); err != nil {
		return nil, err
	}
	if err := s.authorizeMerchant(ctx, caller, form.MerchantID); err != nil {
		return nil, err
	}
	categories, ids, err := s.resolveCategories(ctx, form.CategoryIDs)
	if err != nil {
		return nil, err
	}

	deal := buildFromForm(builders.NewDealBuilder(), form, categories)
	if err := s.store.CreateDeal(ctx, deal, ids); err != nil {
		s.log.Error("create deal %q: %v", deal.Title, err)
		return nil, err
	}
	dealMutationsTotal.WithLabelValues("create").Inc()
	s.log.Info("deal %d created by user %d", deal.ID, caller.UserID)
	return s.store.GetDeal(ctx, deal.ID)
}

// EditDeal replaces every editable field with the validated form
func (s *DealService) EditDeal(ctx context.Context, caller types.Identity, id uint, form dto.DealForm) (*models.Deal, error) {
	if err := requireStaff(caller); err != nil {
		return nil, err
	}
	existing, err := s.store.GetDeal(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validator.ValidateDealForm(&form); err != nil {
		return nil, err
	}
	if err := s.authorizeMerchant(ctx, caller, existing.MerchantID); err != nil {
		return nil, err
	}
	if form.MerchantID != existing.MerchantID {
		if err := s.authorizeMerchant(ctx, caller, form.MerchantID); err != nil {
			return nil, err
		}
	}
	categories, ids, err := s.resolveCategories(ctx, form.CategoryIDs)
	if err != nil {
		return nil, err
	}

	deal := buildFromForm(builders.FromDeal(existing), form, categories)
	if err := s.store.SaveDeal(ctx, deal, ids); err != nil {
		s.log.Error("edit deal %d: %v", id, err)
		return nil, err
	}
	dealMutationsTotal.WithLabelValues("edit").Inc()
	return s.store.GetDeal(ctx, id)
}

// PatchDeal applies the supplied slots and keeps everything else
func (s *DealService) PatchDeal(ctx context.Context, caller types.Identity, id uint, patch dto.DealPatch) (*models.Deal, error) {
	if err := requireStaff(caller); err != nil {
		return nil, err
	}
	existing, err := s.store.GetDeal(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeMerchant(ctx, caller, existing.MerchantID); err != nil {
		return nil, err
	}
	if len(patch.Ignored) > 0 {
		s.log.Debug("patch deal %d: kept stored values for %v", id, patch.Ignored)
	}
	if patch.IsEmpty() {
		return existing, nil
	}

	deal := builders.FromDeal(existing).WithPatch(patch).Build()
	if err := s.store.SaveDeal(ctx, deal, nil); err != nil {
		s.log.Error("patch deal %d: %v", id, err)
		return nil, err
	}
	dealMutationsTotal.WithLabelValues("patch").Inc()
	return s.store.GetDeal(ctx, id)
}

// DeleteDeal removes the deal with its category links, coupons and favorites
func (s *DealService) DeleteDeal(ctx context.Context, caller types.Identity, id uint) error {
	if err := requireStaff(caller); err != nil {
		return err
	}
	existing, err := s.store.GetDeal(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorizeMerchant(ctx, caller, existing.MerchantID); err != nil {
		return err
	}
	if err := s.store.DeleteDeal(ctx, id); err != nil {
		s.log.Error("delete deal %d: %v", id, err)
		return err
	}
	dealMutationsTotal.WithLabelValues("delete").Inc()
	s.log.Info("deal %d deleted by user %d", id, caller.UserID)
	return nil
}

// SetDealImage uploads the image and points the deal at it
func (s *DealService) SetDealImage(ctx context.Context, caller types.Identity, id uint, file io.Reader, filename string) (*models.Deal, error) {
	if err := requireStaff(caller); err != nil {
		return nil, err
	}
	if s.images == nil {
		return nil, errors.NewAppError(errors.ErrCodeUpload, "Image uploads are not configured", nil)
	}
	existing, err := s.store.GetDeal(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeMerchant(ctx, caller, existing.MerchantID); err != nil {
		return nil, err
	}

	url, err := s.images.Upload(ctx, file, filename)
	if err != nil {
		s.log.Error("upload image for deal %d: %v", id, err)
		return nil, err
	}
	deal := builders.FromDeal(existing).WithImage(url).Build()
	if err := s.store.SaveDeal(ctx, deal, nil); err != nil {
		return nil, err
	}
	dealMutationsTotal.WithLabelValues("image").Inc()
	return s.store.GetDeal(ctx, id)
}

// GetDealDetail builds the deal page for the caller. Staff also see the
// latest coupons issued on the deal.
func (s *DealService) GetDealDetail(ctx context.Context, caller types.Identity, id uint, now time.Time) (*dto.DealDetail, error) {
	deal, err := s.store.GetDeal(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := ToDealDetail(deal, now)

	if caller.Authenticated {
		favorite, err := s.store.IsFavorite(ctx, caller.UserID, id)
		if err != nil {
			return nil, err
		}
		detail.IsFavorite = favorite
	}

	if caller.IsStaff() {
		coupons, err := s.store.RecentCoupons(ctx, id, constants.DealRecentCoupons)
		if err != nil {
			return nil, err
		}
		for i := range coupons {
			detail.RecentCoupons = append(detail.RecentCoupons, ToCouponResponse(&coupons[i]))
		}
	}
	return &detail, nil
}

// ToDealDetail flattens a deal for its page
func ToDealDetail(deal *models.Deal, now time.Time) dto.DealDetail {
	return dto.DealDetail{
		DealCard:    ToDealCard(deal),
		Description: deal.Description,
		Contact:     deal.Merchant.ContactValue(),
		IsActive:    deal.IsActiveAt(now),
	}
}
