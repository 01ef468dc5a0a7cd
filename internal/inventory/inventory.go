// Package inventory owns every stock mutation. Stock is only ever changed
// through this service, which keeps the non-negative invariant and notifies
// subscribers of each change.
package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/safar/go-storefront/internal/events"
	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/store"
)

// DefaultLowStockThreshold marks the boundary between low and well stocked.
const DefaultLowStockThreshold = 10

type Service struct {
	store     *store.Store
	bus       *events.Bus
	log       *logrus.Entry
	threshold int
}

func New(st *store.Store, bus *events.Bus, log *logrus.Logger, threshold int) *Service {
	if log == nil {
		log = logrus.New()
	}
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	return &Service{
		store:     st,
		bus:       bus,
		log:       log.WithField("component", "inventory"),
		threshold: threshold,
	}
}

// Consume removes qty units of stock for a purchase. It fails with
// store.ErrProductNotFound or store.ErrInsufficientStock, leaving stock
// unchanged on failure.
func (s *Service) Consume(productID int64, qty int) (models.Product, error) {
	if qty < 1 {
		return models.Product{}, store.NewValidationError("quantity must be at least 1")
	}

	prev, product, err := s.store.DecrementStock(productID, qty)
	if err != nil {
		return models.Product{}, fmt.Errorf("consume stock for product %d: %w", productID, err)
	}

	s.log.WithFields(logrus.Fields{
		"product": product.Name,
		"id":      productID,
		"from":    prev,
		"to":      product.Stock,
	}).Info("stock consumed")

	s.bus.Publish(events.KindInventoryUpdated, events.InventoryUpdated{
		ProductID: productID,
		OldStock:  prev,
		NewStock:  product.Stock,
		Action:    events.ActionPurchase,
	})

	return product, nil
}

// Adjust applies a manual delta to stock. A delta that would drive stock
// negative is clamped to zero rather than rejected; the clamp is logged at
// warning level because it silently absorbs the difference, which can hide
// an operator typo.
func (s *Service) Adjust(productID int64, delta int, reason string) (models.Product, error) {
	prev, clamped, product, err := s.store.AdjustStock(productID, delta)
	if err != nil {
		return models.Product{}, fmt.Errorf("adjust stock for product %d: %w", productID, err)
	}

	fields := logrus.Fields{
		"product": product.Name,
		"id":      productID,
		"from":    prev,
		"to":      product.Stock,
		"reason":  reason,
	}
	if clamped {
		s.log.WithFields(fields).Warn("stock adjustment clamped to zero")
	} else {
		s.log.WithFields(fields).Info("stock adjusted")
	}

	s.bus.Publish(events.KindInventoryUpdated, events.InventoryUpdated{
		ProductID: productID,
		OldStock:  prev,
		NewStock:  product.Stock,
		Action:    events.ActionAdjustment,
		Reason:    reason,
	})

	return product, nil
}

// Restock adds qty units, recorded with a fixed reason.
func (s *Service) Restock(productID int64, qty int) (models.Product, error) {
	return s.Adjust(productID, qty, "Restock")
}

// Reserve checks that qty units are available without mutating anything.
func (s *Service) Reserve(productID int64, qty int) error {
	product, err := s.store.GetProduct(productID)
	if err != nil {
		return fmt.Errorf("reserve stock for product %d: %w", productID, err)
	}
	if product.Stock < qty {
		return fmt.Errorf("reserve %d units of %q: %w", qty, product.Name, store.ErrInsufficientStock)
	}
	return nil
}

// LowStock lists products with 0 < stock <= threshold in catalog order.
// A non-positive threshold falls back to the service default.
func (s *Service) LowStock(threshold int) []models.Product {
	if threshold <= 0 {
		threshold = s.threshold
	}
	var out []models.Product
	for _, p := range s.store.ListProducts() {
		if p.Stock > 0 && p.Stock <= threshold {
			out = append(out, p)
		}
	}
	return out
}

// OutOfStock lists products with zero stock in catalog order.
func (s *Service) OutOfStock() []models.Product {
	var out []models.Product
	for _, p := range s.store.ListProducts() {
		if p.Stock == 0 {
			out = append(out, p)
		}
	}
	return out
}

type Report struct {
	TotalProducts          int              `json:"total_products"`
	TotalStock             int              `json:"total_stock"`
	LowStockCount          int              `json:"low_stock_count"`
	OutOfStockCount        int              `json:"out_of_stock_count"`
	WellStockedCount       int              `json:"well_stocked_count"`
	TotalStockValue        decimal.Decimal  `json:"total_stock_value"`
	AverageStockPerProduct float64          `json:"average_stock_per_product"`
	LowStockItems          []models.Product `json:"low_stock_items"`
	OutOfStockItems        []models.Product `json:"out_of_stock_items"`
	WellStockedItems       []models.Product `json:"well_stocked_items"`
}

// Report summarizes current stock levels across the catalog.
func (s *Service) Report() Report {
	products := s.store.ListProducts()

	r := Report{
		TotalProducts:   len(products),
		TotalStockValue: decimal.Zero,
	}
	for _, p := range products {
		r.TotalStock += p.Stock
		r.TotalStockValue = r.TotalStockValue.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Stock))))
		switch {
		case p.Stock == 0:
			r.OutOfStockItems = append(r.OutOfStockItems, p)
		case p.Stock <= s.threshold:
			r.LowStockItems = append(r.LowStockItems, p)
		default:
			r.WellStockedItems = append(r.WellStockedItems, p)
		}
	}
	r.LowStockCount = len(r.LowStockItems)
	r.OutOfStockCount = len(r.OutOfStockItems)
	r.WellStockedCount = len(r.WellStockedItems)
	if r.TotalProducts > 0 {
		r.AverageStockPerProduct = float64(r.TotalStock) / float64(r.TotalProducts)
	}
	return r
}

const (
	SeverityCritical = "critical"
	SeverityWarning  = "warning"
)

type Alert struct {
	Severity  string `json:"severity"`
	Message   string `json:"message"`
	ProductID int64  `json:"product_id"`
	Stock     int    `json:"stock"`
}

type AlertSummary struct {
	Critical int     `json:"critical"`
	Warning  int     `json:"warning"`
	Alerts   []Alert `json:"alerts"`
}

// Alerts lists one alert per out-of-stock product followed by one per
// low-stock product. Within each severity the catalog order is kept.
func (s *Service) Alerts() AlertSummary {
	outOfStock := s.OutOfStock()
	lowStock := s.LowStock(0)

	summary := AlertSummary{
		Critical: len(outOfStock),
		Warning:  len(lowStock),
	}
	for _, p := range outOfStock {
		summary.Alerts = append(summary.Alerts, Alert{
			Severity:  SeverityCritical,
			Message:   fmt.Sprintf("%s is out of stock", p.Name),
			ProductID: p.ID,
			Stock:     p.Stock,
		})
	}
	for _, p := range lowStock {
		summary.Alerts = append(summary.Alerts, Alert{
			Severity:  SeverityWarning,
			Message:   fmt.Sprintf("%s is running low (%d left)", p.Name, p.Stock),
			ProductID: p.ID,
			Stock:     p.Stock,
		})
	}
	return summary
}
