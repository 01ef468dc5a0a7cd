// Package catalog wraps product CRUD for the admin surface, publishing
// add/delete notifications so dependent views refresh.
package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/safar/go-storefront/internal/events"
	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/store"
)

type Service struct {
	store *store.Store
	bus   *events.Bus
	log   *logrus.Entry
}

func New(st *store.Store, bus *events.Bus, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.New()
	}
	return &Service{store: st, bus: bus, log: log.WithField("component", "catalog")}
}

type ProductInput struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Stock       int             `json:"stock"`
}

func (s *Service) AddProduct(in ProductInput) (models.Product, error) {
	var problems []string
	if in.Name == "" {
		problems = append(problems, "name is required")
	}
	if in.Price.IsNegative() {
		problems = append(problems, "price must not be negative")
	}
	if in.Stock < 0 {
		problems = append(problems, "stock must not be negative")
	}
	if len(problems) > 0 {
		return models.Product{}, store.NewValidationError(problems...)
	}

	product := s.store.CreateProduct(models.Product{
		Name:        in.Name,
		Price:       in.Price,
		Category:    in.Category,
		Description: in.Description,
		Stock:       in.Stock,
	})

	s.log.WithFields(logrus.Fields{"product": product.Name, "id": product.ID}).Info("product added")
	s.bus.Publish(events.KindProductAdded, events.ProductAdded{
		ProductID: product.ID,
		Name:      product.Name,
	})
	return product, nil
}

func (s *Service) UpdateProduct(id int64, patch store.ProductPatch) (models.Product, error) {
	if patch.Price != nil && patch.Price.IsNegative() {
		return models.Product{}, store.NewValidationError("price must not be negative")
	}
	if patch.Stock != nil && *patch.Stock < 0 {
		return models.Product{}, store.NewValidationError("stock must not be negative")
	}
	product, err := s.store.UpdateProduct(id, patch)
	if err != nil {
		return models.Product{}, fmt.Errorf("update product %d: %w", id, err)
	}
	return product, nil
}

// DeleteProduct removes the product immediately and unconditionally; orders
// referencing it keep their snapshots. Deletion is idempotent.
func (s *Service) DeleteProduct(id int64) bool {
	product, err := s.store.GetProduct(id)
	if err != nil {
		return false
	}
	if !s.store.DeleteProduct(id) {
		return false
	}

	s.log.WithFields(logrus.Fields{"product": product.Name, "id": id}).Info("product deleted")
	s.bus.Publish(events.KindProductDeleted, events.ProductDeleted{
		ProductID: id,
		Name:      product.Name,
	})
	return true
}

func (s *Service) ListProducts() []models.Product {
	return s.store.ListProducts()
}

func (s *Service) GetProduct(id int64) (models.Product, error) {
	return s.store.GetProduct(id)
}
