package services

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"toko-olahraga/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RentalGuard runs fn only while no open rental references the product,
// and keeps new rentals from opening until fn returns.
type RentalGuard interface {
	GuardProduct(productID uuid.UUID, fn func() error) error
}

type CatalogService struct {
	mu         sync.Mutex
	categories map[int]*models.Category
	products   []*models.Product
	guard      RentalGuard
	logger     zerolog.Logger
}

func NewCatalogService(logger zerolog.Logger) *CatalogService {
	return &CatalogService{
		categories: make(map[int]*models.Category),
		logger:     logger,
	}
}

// UseRentalGuard installs the check consulted by DeleteProduct.
func (s *CatalogService) UseRentalGuard(g RentalGuard) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.guard = g
}

func (s *CatalogService) AddCategory(id int, name, description string) (*models.Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("add category %d: %w", id, ErrEmptyName)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.categories[id]; exists {
		return nil, fmt.Errorf("add category %d: %w", id, ErrDuplicateID)
	}

	c := &models.Category{ID: id, Name: name, Description: description}
	s.categories[id] = c

	s.logger.Info().Int("category_id", id).Str("name", name).Msg("Category added")
	cp := *c
	return &cp, nil
}

func (s *CatalogService) EditCategory(id int, upd models.CategoryUpdate) error {
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return fmt.Errorf("edit category %d: %w", id, ErrEmptyName)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.categories[id]
	if !ok {
		return fmt.Errorf("category %d: %w", id, ErrNotFound)
	}
	for _, p := range s.products {
		if p.CategoryID != nil && *p.CategoryID == id {
			return fmt.Errorf("edit category %d: %w", id, ErrInUse)
		}
	}

	if upd.Name != nil {
		c.Name = *upd.Name
	}
	if upd.Description != nil {
		c.Description = *upd.Description
	}

	s.logger.Info().Int("category_id", id).Msg("Category updated")
	return nil
}

func (s *CatalogService) Category(id int) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.categories[id]
	if !ok {
		return nil, fmt.Errorf("category %d: %w", id, ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

// ListCategories returns every category ordered by ascending id.
func (s *CatalogService) ListCategories() []*models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AddProduct puts the new product at the head of the listing.
func (s *CatalogService) AddProduct(req models.NewProduct) (*models.Product, error) {
	p, err := s.insertProduct(req, true)
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("product_id", p.ID.String()).
		Str("name", p.Name).
		Str("price", p.Price.String()).
		Int("stock", p.Stock).
		Msg("Product added")
	return p, nil
}

func (s *CatalogService) insertProduct(req models.NewProduct, head bool) (*models.Product, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("add product: %w", ErrEmptyName)
	}
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("add product %q: price must not be negative: %w", req.Name, ErrInvalidInput)
	}
	if req.Stock < 0 {
		return nil, fmt.Errorf("add product %q: stock must not be negative: %w", req.Name, ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if req.CategoryID != nil {
		if _, ok := s.categories[*req.CategoryID]; !ok {
			return nil, fmt.Errorf("category %d: %w", *req.CategoryID, ErrNotFound)
		}
	}

	p := &models.Product{
		ID:         uuid.New(),
		Name:       req.Name,
		Price:      req.Price,
		Stock:      req.Stock,
		CategoryID: copyInt(req.CategoryID),
	}
	if head {
		s.products = append([]*models.Product{p}, s.products...)
	} else {
		s.products = append(s.products, p)
	}
	return cloneProduct(p), nil
}

func (s *CatalogService) EditProduct(id uuid.UUID, upd models.ProductUpdate) error {
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return fmt.Errorf("edit product %s: %w", id, ErrEmptyName)
	}
	if upd.Price != nil && !upd.Price.IsPositive() {
		return fmt.Errorf("edit product %s: price must be positive: %w", id, ErrInvalidInput)
	}
	if upd.Stock != nil && *upd.Stock < 0 {
		return fmt.Errorf("edit product %s: stock must not be negative: %w", id, ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, p := s.find(id)
	if p == nil {
		return fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	if upd.CategoryID != nil {
		if _, ok := s.categories[*upd.CategoryID]; !ok {
			return fmt.Errorf("category %d: %w", *upd.CategoryID, ErrNotFound)
		}
	}

	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Price != nil {
		p.Price = *upd.Price
	}
	if upd.Stock != nil {
		p.Stock = *upd.Stock
	}
	if upd.CategoryID != nil {
		p.CategoryID = copyInt(upd.CategoryID)
	}

	s.logger.Info().Str("product_id", id.String()).Msg("Product updated")
	return nil
}

// DeleteProduct removes a product unless an unreturned rental still holds it.
func (s *CatalogService) DeleteProduct(id uuid.UUID) error {
	s.mu.Lock()
	guard := s.guard
	_, p := s.find(id)
	s.mu.Unlock()

	if p == nil {
		return fmt.Errorf("product %s: %w", id, ErrNotFound)
	}

	remove := func() error {
		s.mu.Lock()
		defer s.mu.Unlock()

		i, p := s.find(id)
		if p == nil {
			return fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		s.products = append(s.products[:i], s.products[i+1:]...)
		return nil
	}

	var err error
	if guard != nil {
		err = guard.GuardProduct(id, remove)
	} else {
		err = remove()
	}
	if err != nil {
		return err
	}

	s.logger.Info().Str("product_id", id.String()).Msg("Product deleted")
	return nil
}

// AdjustStock adds delta (which may be negative) to the physical stock.
func (s *CatalogService) AdjustStock(id uuid.UUID, delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, p := s.find(id)
	if p == nil {
		return 0, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	if p.Stock+delta < 0 {
		return p.Stock, fmt.Errorf("adjust stock of %q by %d: %w", p.Name, delta, ErrWouldGoNegative)
	}
	before := p.Stock
	p.Stock += delta

	s.logger.Info().
		Str("product_id", id.String()).
		Int("stock_before", before).
		Int("delta", delta).
		Int("stock_after", p.Stock).
		Msg("Stock adjusted")
	return p.Stock, nil
}

func (s *CatalogService) ReserveStock(id uuid.UUID, qty int) error {
	_, err := s.reserve(id, qty)
	return err
}

// reserve decrements stock and returns the product as it was at that moment,
// so callers can snapshot name and price under the same lock.
func (s *CatalogService) reserve(id uuid.UUID, qty int) (*models.Product, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("reserve %d: quantity must be positive: %w", qty, ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, p := s.find(id)
	if p == nil {
		return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	if p.Stock < qty {
		return nil, fmt.Errorf("reserve %d of %q (available %d): %w", qty, p.Name, p.Stock, ErrInsufficientStock)
	}
	p.Stock -= qty

	s.logger.Debug().Str("product_id", id.String()).Int("quantity", qty).Int("stock", p.Stock).Msg("Stock reserved")
	return cloneProduct(p), nil
}

func (s *CatalogService) ReleaseStock(id uuid.UUID, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("release %d: quantity must be positive: %w", qty, ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, p := s.find(id)
	if p == nil {
		return fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	p.Stock += qty

	s.logger.Debug().Str("product_id", id.String()).Int("quantity", qty).Int("stock", p.Stock).Msg("Stock released")
	return nil
}

func (s *CatalogService) FindByName(name string, caseInsensitive bool) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.products {
		if p.Name == name || (caseInsensitive && strings.EqualFold(p.Name, name)) {
			return cloneProduct(p), nil
		}
	}
	return nil, fmt.Errorf("product %q: %w", name, ErrNotFound)
}

func (s *CatalogService) Product(id uuid.UUID) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, p := s.find(id)
	if p == nil {
		return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	return cloneProduct(p), nil
}

// ListProducts returns the catalog in listing order.
func (s *CatalogService) ListProducts() []*models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.Product, len(s.products))
	for i, p := range s.products {
		out[i] = cloneProduct(p)
	}
	return out
}

// ProductAt resolves a 1-based display position in the current listing.
func (s *CatalogService) ProductAt(index int) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 1 || index > len(s.products) {
		return nil, fmt.Errorf("product at position %d: %w", index, ErrNotFound)
	}
	return cloneProduct(s.products[index-1]), nil
}

// Listings renders the catalog with display positions. In rental mode the
// display price is the per-day rental price.
func (s *CatalogService) Listings(rental bool) []models.ProductListing {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.ProductListing, 0, len(s.products))
	for i, p := range s.products {
		l := models.ProductListing{Index: i + 1, Product: cloneProduct(p), DisplayPrice: p.Price}
		if rental {
			l.DisplayPrice = models.RentalDailyPrice(p.Price)
		}
		if p.CategoryID != nil {
			if c, ok := s.categories[*p.CategoryID]; ok {
				l.CategoryName = c.Name
			}
		}
		out = append(out, l)
	}
	return out
}

func (s *CatalogService) find(id uuid.UUID) (int, *models.Product) {
	for i, p := range s.products {
		if p.ID == id {
			return i, p
		}
	}
	return -1, nil
}

func cloneProduct(p *models.Product) *models.Product {
	cp := *p
	cp.CategoryID = copyInt(p.CategoryID)
	return &cp
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}
