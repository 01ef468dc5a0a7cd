package events

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func newTestBus() *Bus {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewBus(log)
}

func TestPublishInvokesHandlersInSubscriptionOrder(t *testing.T) {
	bus := newTestBus()

	var calls []string
	bus.Subscribe(KindInventoryUpdated, func(any) { calls = append(calls, "first") })
	bus.Subscribe(KindInventoryUpdated, func(any) { calls = append(calls, "second") })

	bus.Publish(KindInventoryUpdated, InventoryUpdated{ProductID: 1})

	require.Equal(t, []string{"first", "second"}, calls)
}

func TestPublishDeliversPayload(t *testing.T) {
	bus := newTestBus()

	var got InventoryUpdated
	bus.Subscribe(KindInventoryUpdated, func(payload any) {
		got = payload.(InventoryUpdated)
	})

	sent := InventoryUpdated{ProductID: 3, OldStock: 5, NewStock: 2, Action: ActionPurchase}
	bus.Publish(KindInventoryUpdated, sent)

	require.Equal(t, sent, got)
}

func TestPanickingHandlerDoesNotStopDelivery(t *testing.T) {
	bus := newTestBus()

	var first, second int
	bus.Subscribe(KindInventoryUpdated, func(any) {
		first++
		panic("boom")
	})
	bus.Subscribe(KindInventoryUpdated, func(any) { second++ })

	bus.Publish(KindInventoryUpdated, InventoryUpdated{})

	require.Equal(t, 1, first)
	require.Equal(t, 1, second)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := newTestBus()

	var calls int
	sub := bus.Subscribe(KindOrderCreated, func(any) { calls++ })

	bus.Publish(KindOrderCreated, OrderCreated{OrderID: 1})
	sub.Unsubscribe()
	bus.Publish(KindOrderCreated, OrderCreated{OrderID: 2})

	require.Equal(t, 1, calls)
}

func TestUnsubscribeDuringDeliveryIsSafe(t *testing.T) {
	bus := newTestBus()

	var calls []string
	var sub *Subscription
	sub = bus.Subscribe(KindProductAdded, func(any) {
		calls = append(calls, "first")
		sub.Unsubscribe()
	})
	bus.Subscribe(KindProductAdded, func(any) { calls = append(calls, "second") })

	bus.Publish(KindProductAdded, ProductAdded{ProductID: 1})
	require.Equal(t, []string{"first", "second"}, calls)

	bus.Publish(KindProductAdded, ProductAdded{ProductID: 2})
	require.Equal(t, []string{"first", "second", "second"}, calls)
}

func TestKindsAreIndependent(t *testing.T) {
	bus := newTestBus()

	var inventory, orders int
	bus.Subscribe(KindInventoryUpdated, func(any) { inventory++ })
	bus.Subscribe(KindOrderCreated, func(any) { orders++ })

	bus.Publish(KindInventoryUpdated, InventoryUpdated{})

	require.Equal(t, 1, inventory)
	require.Zero(t, orders)
}

func TestPublishWithNoSubscribersIsANoOp(t *testing.T) {
	bus := newTestBus()
	bus.Publish(KindProductDeleted, ProductDeleted{ProductID: 1})
}
