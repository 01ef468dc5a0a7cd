// Package events provides the in-process notification channel between
// storefront mutations and the views that refresh on them.
package events

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Kind is one of the fixed notification categories. Handlers receive the
// payload type documented next to each constant.
type Kind string

const (
	KindInventoryUpdated Kind = "inventory-updated" // InventoryUpdated
	KindOrderCreated     Kind = "order-created"     // OrderCreated
	KindProductAdded     Kind = "product-added"     // ProductAdded
	KindProductDeleted   Kind = "product-deleted"   // ProductDeleted
)

type Handler func(payload any)

type subscription struct {
	id      string
	handler Handler
}

// Bus fans mutations out to subscribed handlers. Delivery is synchronous
// and in subscription order; there is no buffering or replay, only handlers
// subscribed at publish time are invoked. A handler that recursively
// publishes its own kind is the caller's problem; the bus does not guard
// against unbounded recursion.
type Bus struct {
	mu   sync.RWMutex
	subs map[Kind][]subscription
	log  *logrus.Entry
}

func NewBus(log *logrus.Logger) *Bus {
	if log == nil {
		log = logrus.New()
	}
	return &Bus{
		subs: make(map[Kind][]subscription),
		log:  log.WithField("component", "events"),
	}
}

// Subscribe registers a handler for kind. Handlers for the same kind run in
// subscription order.
func (b *Bus) Subscribe(kind Kind, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := subscription{id: uuid.NewString(), handler: handler}
	b.subs[kind] = append(b.subs[kind], sub)

	return &Subscription{bus: b, kind: kind, id: sub.id}
}

// Publish invokes every handler currently subscribed to kind, in order.
// The handler list is snapshotted first, so unsubscribing during delivery
// neither skips nor double-invokes remaining handlers. A panicking handler
// is logged and does not stop delivery to the rest.
func (b *Bus) Publish(kind Kind, payload any) {
	b.mu.RLock()
	subs := make([]subscription, len(b.subs[kind]))
	copy(subs, b.subs[kind])
	b.mu.RUnlock()

	for _, sub := range subs {
		b.deliver(kind, sub, payload)
	}
}

func (b *Bus) deliver(kind Kind, sub subscription, payload any) {
	defer func() {
		if r := recover(); r != nil {
			b.log.WithFields(logrus.Fields{
				"kind":         kind,
				"subscription": sub.id,
				"panic":        r,
			}).Error("event handler panicked")
		}
	}()
	sub.handler(payload)
}

// Subscription is the capability returned by Subscribe; Unsubscribe is
// idempotent and safe to call from inside a handler.
type Subscription struct {
	bus  *Bus
	kind Kind
	id   string
}

func (s *Subscription) Unsubscribe() {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()

	subs := s.bus.subs[s.kind]
	for i, sub := range subs {
		if sub.id == s.id {
			s.bus.subs[s.kind] = append(subs[:i], subs[i+1:]...)
			return
		}
	}
}
