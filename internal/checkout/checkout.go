// Package checkout turns a cart into a completed order: it consumes stock
// through the inventory service, snapshots names and prices per line, and
// announces the new order on the bus.
package checkout

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/safar/go-storefront/internal/events"
	"github.com/safar/go-storefront/internal/inventory"
	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/store"
)

type Service struct {
	store     *store.Store
	inventory *inventory.Service
	bus       *events.Bus
	log       *logrus.Entry
}

func New(st *store.Store, inv *inventory.Service, bus *events.Bus, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.New()
	}
	return &Service{store: st, inventory: inv, bus: bus, log: log.WithField("component", "checkout")}
}

type LineInput struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// Checkout consumes stock line by line and stores a completed order. It
// fails fast on the first bad line; stock consumed for earlier lines is not
// returned, matching the storefront's per-item checkout behavior.
func (s *Service) Checkout(userID int64, lines []LineInput) (models.Order, error) {
	user, err := s.store.GetUser(userID)
	if err != nil {
		return models.Order{}, fmt.Errorf("checkout for user %d: %w", userID, err)
	}
	if len(lines) == 0 {
		return models.Order{}, store.NewValidationError("cart is empty")
	}
	for _, line := range lines {
		if line.Quantity < 1 {
			return models.Order{}, store.NewValidationError("quantity must be at least 1")
		}
	}

	items := make([]models.OrderItem, 0, len(lines))
	total := decimal.Zero
	for _, line := range lines {
		product, err := s.inventory.Consume(line.ProductID, line.Quantity)
		if err != nil {
			return models.Order{}, err
		}
		items = append(items, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   product.Price,
		})
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	order := s.store.CreateOrder(models.Order{
		UserID:       userID,
		CustomerName: user.Name,
		Items:        items,
		Total:        total,
		Status:       models.OrderStatusCompleted,
	})

	s.log.WithFields(logrus.Fields{
		"order": order.ID,
		"user":  userID,
		"total": order.Total.String(),
		"lines": len(items),
	}).Info("order placed")

	s.bus.Publish(events.KindOrderCreated, events.OrderCreated{
		OrderID: order.ID,
		UserID:  userID,
		Total:   order.Total,
	})
	return order, nil
}
