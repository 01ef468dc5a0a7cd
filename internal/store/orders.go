package store

import (
	"github.com/safar/go-storefront/internal/models"
)

// CreateOrder assigns the next order identifier and appends. The caller
// supplies the denormalized customer name, line items and total; orders are
// immutable once stored. A zero CreatedAt is replaced with the store clock.
func (s *Store) CreateOrder(o models.Order) models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	o.ID = s.nextOrderID
	s.nextOrderID++
	if o.CreatedAt.IsZero() {
		o.CreatedAt = s.now()
	}

	s.orders = append(s.orders, cloneOrder(o))
	return o
}

func (s *Store) ListOrders() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Order, len(s.orders))
	for i, o := range s.orders {
		out[i] = cloneOrder(o)
	}
	return out
}

func (s *Store) GetOrder(id int64) (models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, o := range s.orders {
		if o.ID == id {
			return cloneOrder(o), nil
		}
	}
	return models.Order{}, ErrOrderNotFound
}

func (s *Store) ListOrdersByUser(userID int64) []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, cloneOrder(o))
		}
	}
	return out
}

// cloneOrder copies the line item slice so callers cannot alter stored
// history through the returned value.
func cloneOrder(o models.Order) models.Order {
	items := make([]models.OrderItem, len(o.Items))
	copy(items, o.Items)
	o.Items = items
	return o
}
