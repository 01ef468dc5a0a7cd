package catalog

import (
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/safar/go-storefront/internal/events"
	"github.com/safar/go-storefront/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.Store, *events.Bus) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	st := store.New()
	bus := events.NewBus(log)
	return New(st, bus, log), st, bus
}

func TestAddProductPublishes(t *testing.T) {
	svc, _, bus := newTestService(t)

	var added []events.ProductAdded
	bus.Subscribe(events.KindProductAdded, func(payload any) {
		added = append(added, payload.(events.ProductAdded))
	})

	product, err := svc.AddProduct(ProductInput{
		Name:     "Headphones",
		Price:    decimal.RequireFromString("79.99"),
		Category: "Electronics",
		Stock:    25,
	})
	require.NoError(t, err)
	require.NotZero(t, product.ID)

	require.Len(t, added, 1)
	require.Equal(t, events.ProductAdded{ProductID: product.ID, Name: "Headphones"}, added[0])
}

func TestAddProductValidation(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.AddProduct(ProductInput{
		Price: decimal.RequireFromString("-1"),
		Stock: -2,
	})
	var validation *store.ValidationError
	require.ErrorAs(t, err, &validation)
	require.Len(t, validation.Problems, 3)
}

func TestUpdateProduct(t *testing.T) {
	svc, _, _ := newTestService(t)

	product, err := svc.AddProduct(ProductInput{
		Name:  "Headphones",
		Price: decimal.RequireFromString("79.99"),
	})
	require.NoError(t, err)

	price := decimal.RequireFromString("69.99")
	updated, err := svc.UpdateProduct(product.ID, store.ProductPatch{Price: &price})
	require.NoError(t, err)
	require.True(t, updated.Price.Equal(price))

	negative := decimal.RequireFromString("-5")
	_, err = svc.UpdateProduct(product.ID, store.ProductPatch{Price: &negative})
	var validation *store.ValidationError
	require.ErrorAs(t, err, &validation)

	_, err = svc.UpdateProduct(99, store.ProductPatch{Price: &price})
	require.ErrorIs(t, err, store.ErrProductNotFound)
}

func TestDeleteProductPublishesOnce(t *testing.T) {
	svc, _, bus := newTestService(t)

	product, err := svc.AddProduct(ProductInput{
		Name:  "Headphones",
		Price: decimal.RequireFromString("79.99"),
	})
	require.NoError(t, err)

	var deleted []events.ProductDeleted
	bus.Subscribe(events.KindProductDeleted, func(payload any) {
		deleted = append(deleted, payload.(events.ProductDeleted))
	})

	require.True(t, svc.DeleteProduct(product.ID))
	require.False(t, svc.DeleteProduct(product.ID), "repeat delete is a quiet no-op")

	require.Len(t, deleted, 1)
	require.Equal(t, events.ProductDeleted{ProductID: product.ID, Name: "Headphones"}, deleted[0])
}
