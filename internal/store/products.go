package store

import (
	"github.com/safar/go-storefront/internal/models"
	"github.com/shopspring/decimal"
)

// ProductPatch carries the fields to change on an existing product. Nil
// fields are left untouched.
type ProductPatch struct {
	Name        *string
	Price       *decimal.Decimal
	Category    *string
	Description *string
	Stock       *int
}

// ListProducts returns a copy of the catalog in insertion order.
func (s *Store) ListProducts() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *Store) GetProduct(id int64) (models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

func (s *Store) CreateProduct(p models.Product) models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = s.nextProductID
	s.nextProductID++

	now := s.now()
	p.CreatedAt = now
	p.UpdatedAt = now

	s.products = append(s.products, p)
	return p
}

func (s *Store) UpdateProduct(id int64, patch ProductPatch) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID != id {
			continue
		}
		p := &s.products[i]
		if patch.Name != nil {
			p.Name = *patch.Name
		}
		if patch.Price != nil {
			p.Price = *patch.Price
		}
		if patch.Category != nil {
			p.Category = *patch.Category
		}
		if patch.Description != nil {
			p.Description = *patch.Description
		}
		if patch.Stock != nil {
			p.Stock = *patch.Stock
		}
		p.UpdatedAt = s.now()
		return *p, nil
	}
	return models.Product{}, ErrProductNotFound
}

// DeleteProduct removes a product and reports whether anything was removed.
// Deleting an absent identifier is not an error. There is no referential
// check against orders; historical line items carry their own name and
// price snapshots.
func (s *Store) DeleteProduct(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return true
		}
	}
	return false
}

// DecrementStock atomically reduces stock by qty, refusing to go below
// zero. It returns the stock level before the decrement and the updated
// product. On error the stock is left unchanged.
func (s *Store) DecrementStock(id int64, qty int) (int, models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID != id {
			continue
		}
		p := &s.products[i]
		if p.Stock < qty {
			return p.Stock, models.Product{}, ErrInsufficientStock
		}
		prev := p.Stock
		p.Stock -= qty
		p.UpdatedAt = s.now()
		return prev, *p, nil
	}
	return 0, models.Product{}, ErrProductNotFound
}

// AdjustStock atomically applies delta to stock, clamping the result at
// zero. It returns the previous stock level, whether clamping occurred,
// and the updated product.
func (s *Store) AdjustStock(id int64, delta int) (int, bool, models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID != id {
			continue
		}
		p := &s.products[i]
		prev := p.Stock
		next := prev + delta
		clamped := next < 0
		if clamped {
			next = 0
		}
		p.Stock = next
		p.UpdatedAt = s.now()
		return prev, clamped, *p, nil
	}
	return 0, false, models.Product{}, ErrProductNotFound
}
