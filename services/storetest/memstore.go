// Package storetest provides an in-memory catalog store for tests.
package storetest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"discounts/constants"
	"discounts/dto"
	"discounts/errors"
	"discounts/models"
	"discounts/services"
)

// Store keeps the catalog in maps. Deals are stored without their
// associations and hydrated on every read, like a preloading query.
type Store struct {
	mu sync.Mutex

	// Err, when set, is returned by every read and write
	Err error

	nextID     uint
	seq        int
	merchants  map[uint]models.Merchant
	categories map[uint]models.Category
	deals      map[uint]models.Deal
	dealCats   map[uint]map[uint]bool
	favorites  []favorite
	coupons    map[uint]models.Coupon
}

type favorite struct {
	userID uint
	dealID uint
	seq    int
}

func New() *Store {
	return &Store{
		merchants:  make(map[uint]models.Merchant),
		categories: make(map[uint]models.Category),
		deals:      make(map[uint]models.Deal),
		dealCats:   make(map[uint]map[uint]bool),
		coupons:    make(map[uint]models.Coupon),
	}
}

func (s *Store) id() uint {
	s.nextID++
	return s.nextID
}

// AddMerchant seeds a merchant, contact may be empty
func (s *Store) AddMerchant(name, contact string, userID uint) models.Merchant {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := models.Merchant{ID: s.id(), Name: name, UserID: userID}
	if contact != "" {
		m.Contact = &contact
	}
	s.merchants[m.ID] = m
	return m
}

func (s *Store) AddCategory(name string) models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := models.Category{ID: s.id(), Name: name}
	s.categories[c.ID] = c
	return c
}

// AddDeal seeds a deal linked to the given categories
func (s *Store) AddDeal(deal models.Deal, categoryIDs ...uint) models.Deal {
	s.mu.Lock()
	defer s.mu.Unlock()
	if deal.ID == 0 {
		deal.ID = s.id()
	}
	s.putDeal(deal, categoryIDs)
	return s.hydrate(s.deals[deal.ID])
}

// AddCoupon seeds a coupon as is
func (s *Store) AddCoupon(coupon models.Coupon) models.Coupon {
	s.mu.Lock()
	defer s.mu.Unlock()
	if coupon.ID == 0 {
		coupon.ID = s.id()
	}
	coupon.Deal = nil
	s.coupons[coupon.ID] = coupon
	return coupon
}

// Coupon returns the stored coupon with the code
func (s *Store) Coupon(code string) (models.Coupon, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.coupons {
		if c.Code == code {
			return c, true
		}
	}
	return models.Coupon{}, false
}

// Counts reports how many rows reference a deal
func (s *Store) Counts(dealID uint) (categories, coupons, favorites int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	categories = len(s.dealCats[dealID])
	for _, c := range s.coupons {
		if c.DealID == dealID {
			coupons++
		}
	}
	for _, f := range s.favorites {
		if f.dealID == dealID {
			favorites++
		}
	}
	return categories, coupons, favorites
}

func (s *Store) putDeal(deal models.Deal, categoryIDs []uint) {
	deal.Merchant = models.Merchant{}
	deal.Categories = nil
	s.deals[deal.ID] = deal
	if s.dealCats[deal.ID] == nil {
		s.dealCats[deal.ID] = make(map[uint]bool)
	}
	for _, id := range categoryIDs {
		s.dealCats[deal.ID][id] = true
	}
}

func (s *Store) hydrate(deal models.Deal) models.Deal {
	deal.Merchant = s.merchants[deal.MerchantID]
	deal.Categories = nil
	for id := range s.dealCats[deal.ID] {
		if c, ok := s.categories[id]; ok {
			deal.Categories = append(deal.Categories, c)
		}
	}
	sort.Slice(deal.Categories, func(i, j int) bool {
		return deal.Categories[i].Name < deal.Categories[j].Name
	})
	return deal
}

func (s *Store) allDeals(keep func(models.Deal) bool) []models.Deal {
	out := make([]models.Deal, 0, len(s.deals))
	for _, d := range s.deals {
		if keep == nil || keep(d) {
			out = append(out, s.hydrate(d))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func limitDeals(deals []models.Deal, limit int) []models.Deal {
	if limit >= 0 && len(deals) > limit {
		return deals[:limit]
	}
	return deals
}

func (s *Store) GetDeal(ctx context.Context, id uint) (*models.Deal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	d, ok := s.deals[id]
	if !ok {
		return nil, errors.ErrDealNotFound
	}
	deal := s.hydrate(d)
	return &deal, nil
}

func (s *Store) ActiveDeals(ctx context.Context, now time.Time) ([]models.Deal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.allDeals(func(d models.Deal) bool { return d.IsActiveAt(now) }), nil
}

func (s *Store) DealsEndingAfter(ctx context.Context, now time.Time, limit int) ([]models.Deal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	deals := s.allDeals(func(d models.Deal) bool { return d.ExpiresAt != nil && d.ExpiresAt.After(now) })
	sort.SliceStable(deals, func(i, j int) bool { return deals[i].ExpiresAt.Before(*deals[j].ExpiresAt) })
	return limitDeals(deals, limit), nil
}

func (s *Store) RecentDeals(ctx context.Context, limit int) ([]models.Deal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	deals := s.allDeals(nil)
	sort.SliceStable(deals, func(i, j int) bool {
		if !deals[i].CreatedAt.Equal(deals[j].CreatedAt) {
			return deals[i].CreatedAt.After(deals[j].CreatedAt)
		}
		return deals[i].ID > deals[j].ID
	})
	return limitDeals(deals, limit), nil
}

func (s *Store) DealsInCategory(ctx context.Context, categoryID uint, now time.Time) ([]models.Deal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.allDeals(func(d models.Deal) bool {
		return d.IsActiveAt(now) && s.dealCats[d.ID][categoryID]
	}), nil
}

// SearchDeals returns every deal, the engine does the matching
func (s *Store) SearchDeals(ctx context.Context, query string, categoryIDs []uint) ([]models.Deal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.allDeals(nil), nil
}

func (s *Store) Categories(ctx context.Context) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.sortedCategories(func(models.Category) bool { return true }), nil
}

func (s *Store) sortedCategories(keep func(models.Category) bool) []models.Category {
	out := make([]models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		if keep(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *Store) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	c, ok := s.categories[id]
	if !ok {
		return nil, errors.ErrCategoryNotFound
	}
	return &c, nil
}

func (s *Store) CategoriesByIDs(ctx context.Context, ids []uint) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	wanted := make(map[uint]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	return s.sortedCategories(func(c models.Category) bool { return wanted[c.ID] }), nil
}

func (s *Store) CategoryDealCounts(ctx context.Context) ([]dto.CategoryCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	counts := make([]dto.CategoryCount, 0, len(s.categories))
	for _, c := range s.sortedCategories(func(models.Category) bool { return true }) {
		n := 0
		for dealID, cats := range s.dealCats {
			if _, ok := s.deals[dealID]; ok && cats[c.ID] {
				n++
			}
		}
		counts = append(counts, dto.CategoryCount{ID: c.ID, Name: c.Name, DealCount: n})
	}
	return counts, nil
}

func (s *Store) SearchCategories(ctx context.Context, query string) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	q := strings.ToLower(query)
	return s.sortedCategories(func(c models.Category) bool {
		return strings.Contains(strings.ToLower(c.Name), q)
	}), nil
}

func (s *Store) GetMerchant(ctx context.Context, id uint) (*models.Merchant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	m, ok := s.merchants[id]
	if !ok {
		return nil, errors.ErrMerchantNotFound
	}
	return &m, nil
}

func (s *Store) SearchMerchants(ctx context.Context, query string) ([]models.Merchant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	q := strings.ToLower(query)
	out := make([]models.Merchant, 0)
	for _, m := range s.merchants {
		if strings.Contains(strings.ToLower(m.Name), q) || strings.Contains(strings.ToLower(m.ContactValue()), q) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) Vocabulary(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var words []string
	for _, d := range s.allDeals(nil) {
		words = append(words, d.Title)
	}
	for _, m := range s.merchants {
		words = append(words, m.Name)
	}
	for _, c := range s.categories {
		words = append(words, c.Name)
	}
	return words, nil
}

func (s *Store) ToggleFavorite(ctx context.Context, userID, dealID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	if _, ok := s.deals[dealID]; !ok {
		return false, errors.ErrDealNotFound
	}
	for i, f := range s.favorites {
		if f.userID == userID && f.dealID == dealID {
			s.favorites = append(s.favorites[:i], s.favorites[i+1:]...)
			return false, nil
		}
	}
	s.seq++
	s.favorites = append(s.favorites, favorite{userID: userID, dealID: dealID, seq: s.seq})
	return true, nil
}

func (s *Store) IsFavorite(ctx context.Context, userID, dealID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	for _, f := range s.favorites {
		if f.userID == userID && f.dealID == dealID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) FavoriteDeals(ctx context.Context, userID uint) ([]models.Deal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var mine []favorite
	for _, f := range s.favorites {
		if f.userID == userID {
			mine = append(mine, f)
		}
	}
	sort.Slice(mine, func(i, j int) bool { return mine[i].seq > mine[j].seq })
	deals := make([]models.Deal, 0, len(mine))
	for _, f := range mine {
		if d, ok := s.deals[f.dealID]; ok {
			deals = append(deals, s.hydrate(d))
		}
	}
	return deals, nil
}

func (s *Store) CreateCoupon(ctx context.Context, coupon *models.Coupon) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, c := range s.coupons {
		if c.Code == coupon.Code {
			return errors.NewAppError(errors.ErrCodeDBDuplicate, "duplicate coupon code", nil)
		}
	}
	coupon.ID = s.id()
	stored := *coupon
	stored.Deal = nil
	s.coupons[coupon.ID] = stored
	return nil
}

func (s *Store) GetCouponByCode(ctx context.Context, code string) (*models.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, c := range s.coupons {
		if c.Code == code {
			if d, ok := s.deals[c.DealID]; ok {
				deal := s.hydrate(d)
				c.Deal = &deal
			}
			return &c, nil
		}
	}
	return nil, errors.ErrCouponNotFound
}

func (s *Store) TransitionCoupon(ctx context.Context, id uint, status string, redeemedAt *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	c, ok := s.coupons[id]
	if !ok || c.Status != constants.CouponStatusActive {
		return errors.ErrCouponNotActive
	}
	c.Status = status
	c.RedeemedAt = redeemedAt
	s.coupons[id] = c
	return nil
}

func (s *Store) ExpireCoupons(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	var n int64
	for id, c := range s.coupons {
		d, ok := s.deals[c.DealID]
		if !ok || c.Status != constants.CouponStatusActive {
			continue
		}
		if d.ExpiresAt != nil && d.ExpiresAt.Before(cutoff) {
			c.Status = constants.CouponStatusExpired
			s.coupons[id] = c
			n++
		}
	}
	return n, nil
}

func (s *Store) couponsWhere(keep func(models.Coupon) bool) []models.Coupon {
	out := make([]models.Coupon, 0)
	for _, c := range s.coupons {
		if keep(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].IssuedAt.Equal(out[j].IssuedAt) {
			return out[i].IssuedAt.After(out[j].IssuedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (s *Store) UserCoupons(ctx context.Context, userID uint) ([]models.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	coupons := s.couponsWhere(func(c models.Coupon) bool { return c.UserID == userID })
	for i := range coupons {
		if d, ok := s.deals[coupons[i].DealID]; ok {
			deal := s.hydrate(d)
			coupons[i].Deal = &deal
		}
	}
	return coupons, nil
}

func (s *Store) RecentCoupons(ctx context.Context, dealID uint, limit int) ([]models.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	coupons := s.couponsWhere(func(c models.Coupon) bool { return c.DealID == dealID })
	if len(coupons) > limit {
		coupons = coupons[:limit]
	}
	return coupons, nil
}

func (s *Store) CreateDeal(ctx context.Context, deal *models.Deal, categoryIDs []uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.merchants[deal.MerchantID]; !ok {
		return errors.ErrMerchantNotFound
	}
	deal.ID = s.id()
	if deal.CreatedAt.IsZero() {
		deal.CreatedAt = time.Now().UTC()
	}
	s.putDeal(*deal, categoryIDs)
	return nil
}

func (s *Store) SaveDeal(ctx context.Context, deal *models.Deal, categoryIDs []uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	existing, ok := s.deals[deal.ID]
	if !ok {
		return errors.ErrDealNotFound
	}
	updated := *deal
	updated.CreatedAt = existing.CreatedAt
	if categoryIDs != nil {
		s.dealCats[deal.ID] = make(map[uint]bool)
	}
	s.putDeal(updated, categoryIDs)
	return nil
}

func (s *Store) DeleteDeal(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.deals[id]; !ok {
		return errors.ErrDealNotFound
	}
	delete(s.deals, id)
	delete(s.dealCats, id)
	for cid, c := range s.coupons {
		if c.DealID == id {
			delete(s.coupons, cid)
		}
	}
	kept := s.favorites[:0]
	for _, f := range s.favorites {
		if f.dealID != id {
			kept = append(kept, f)
		}
	}
	s.favorites = kept
	return nil
}

var _ services.CatalogStore = (*Store)(nil)
