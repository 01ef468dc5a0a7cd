package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/store"
)

var testNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	st := store.New()
	svc := New(st)
	svc.SetClock(func() time.Time { return testNow })
	return svc, st
}

func placeOrder(st *store.Store, userID int64, when time.Time, items ...models.OrderItem) models.Order {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return st.CreateOrder(models.Order{
		UserID:    userID,
		Items:     items,
		Total:     total,
		Status:    models.OrderStatusCompleted,
		CreatedAt: when,
	})
}

func item(productID int64, qty int, price string) models.OrderItem {
	return models.OrderItem{
		ProductID: productID,
		Quantity:  qty,
		UnitPrice: decimal.RequireFromString(price),
	}
}

func TestSalesWithNoOrders(t *testing.T) {
	svc, _ := newTestService(t)

	report := svc.Sales()
	require.True(t, report.AverageOrderValue.IsZero())
	require.True(t, report.TotalRevenue.IsZero())
	require.True(t, report.MonthlySales.IsZero())
	require.Len(t, report.Daily, 7)
}

func TestSalesDailyBuckets(t *testing.T) {
	svc, st := newTestService(t)

	placeOrder(st, 1, testNow, item(1, 1, "10"))
	placeOrder(st, 1, testNow.AddDate(0, 0, -6), item(1, 2, "5"))
	// Outside the 7-day window entirely.
	placeOrder(st, 1, testNow.AddDate(0, 0, -7), item(1, 1, "100"))

	report := svc.Sales()
	require.Len(t, report.Daily, 7)

	for i, day := range report.Daily {
		want := testNow.AddDate(0, 0, i-6).Format("2006-01-02")
		require.Equal(t, want, day.Date)
	}
	require.Equal(t, testNow.Format("2006-01-02"), report.Daily[6].Date, "last bucket is today")

	require.Equal(t, 1, report.Daily[6].Orders)
	require.True(t, report.Daily[6].Sales.Equal(decimal.RequireFromString("10")))
	require.Equal(t, 1, report.Daily[0].Orders)
	require.True(t, report.Daily[0].Sales.Equal(decimal.RequireFromString("10")))
	for _, day := range report.Daily[1:6] {
		require.Zero(t, day.Orders)
		require.True(t, day.Sales.IsZero())
	}
}

func TestSalesMonthlyAndAverages(t *testing.T) {
	svc, st := newTestService(t)

	placeOrder(st, 1, testNow, item(1, 1, "30"))
	placeOrder(st, 1, time.Date(2025, time.June, 1, 8, 0, 0, 0, time.UTC), item(1, 1, "20"))
	placeOrder(st, 1, time.Date(2025, time.May, 20, 8, 0, 0, 0, time.UTC), item(1, 1, "40"))

	report := svc.Sales()
	require.True(t, report.MonthlySales.Equal(decimal.RequireFromString("50")), "got %s", report.MonthlySales)
	require.True(t, report.TotalRevenue.Equal(decimal.RequireFromString("90")))
	require.True(t, report.AverageOrderValue.Equal(decimal.RequireFromString("30")))
}

func TestProductsTopSellers(t *testing.T) {
	svc, st := newTestService(t)

	for i := 0; i < 7; i++ {
		st.CreateProduct(models.Product{
			Name:  string(rune('A' + i)),
			Price: decimal.RequireFromString("10"),
			Stock: 5,
		})
	}

	// Product 2 sells 6 units, product 1 sells 3, the rest 1 each.
	placeOrder(st, 1, testNow, item(2, 6, "10"), item(1, 3, "10"))
	placeOrder(st, 1, testNow, item(3, 1, "10"), item(4, 1, "10"), item(5, 1, "10"), item(6, 1, "10"), item(7, 1, "10"))

	report := svc.Products()
	require.Equal(t, 14, report.TotalUnitsSold)
	require.Len(t, report.TopProducts, 5)
	require.Equal(t, int64(2), report.TopProducts[0].Product.ID)
	require.Equal(t, 6, report.TopProducts[0].Quantity)
	require.True(t, report.TopProducts[0].Revenue.Equal(decimal.RequireFromString("60")))
	require.Equal(t, int64(1), report.TopProducts[1].Product.ID)
}

func TestProductsToleratesDeletedProduct(t *testing.T) {
	svc, st := newTestService(t)

	p := st.CreateProduct(models.Product{Name: "Doomed", Price: decimal.RequireFromString("10"), Stock: 5})
	placeOrder(st, 1, testNow, models.OrderItem{
		ProductID:   p.ID,
		ProductName: "Doomed",
		Quantity:    2,
		UnitPrice:   decimal.RequireFromString("10"),
	})
	st.DeleteProduct(p.ID)

	report := svc.Products()
	require.Len(t, report.TopProducts, 1)
	require.Equal(t, "unknown", report.TopProducts[0].Product.Name)
	require.Equal(t, p.ID, report.TopProducts[0].Product.ID)
	require.Equal(t, 2, report.TopProducts[0].Quantity)
}

func TestCustomers(t *testing.T) {
	svc, st := newTestService(t)

	st.CreateUser(models.User{Name: "Admin", Email: "admin@shop.com", Role: models.RoleAdmin})
	big := st.CreateUser(models.User{Name: "Big", Email: "big@example.com", Role: models.RoleCustomer})
	small := st.CreateUser(models.User{Name: "Small", Email: "small@example.com", Role: models.RoleCustomer})
	st.CreateUser(models.User{Name: "Quiet", Email: "quiet@example.com", Role: models.RoleCustomer})

	placeOrder(st, big.ID, testNow, item(1, 2, "25"))
	placeOrder(st, small.ID, testNow, item(1, 2, "10"))
	placeOrder(st, small.ID, testNow, item(1, 1, "10"))

	report := svc.Customers()
	require.Equal(t, 3, report.TotalCustomers, "administrator excluded")

	require.Len(t, report.TopCustomers, 2)
	require.Equal(t, big.ID, report.TopCustomers[0].User.ID)
	require.True(t, report.TopCustomers[0].TotalSpent.Equal(decimal.RequireFromString("50")))
	require.Equal(t, small.ID, report.TopCustomers[1].User.ID)
	require.True(t, report.TopCustomers[1].TotalSpent.Equal(decimal.RequireFromString("30")))

	// Average across purchasers only: (50 + 30) / 2, not / 3.
	require.True(t, report.AverageSpend.Equal(decimal.RequireFromString("40")), "got %s", report.AverageSpend)
}

func TestCustomersWithNoOrders(t *testing.T) {
	svc, st := newTestService(t)
	st.CreateUser(models.User{Name: "Quiet", Email: "quiet@example.com", Role: models.RoleCustomer})

	report := svc.Customers()
	require.Equal(t, 1, report.TotalCustomers)
	require.Empty(t, report.TopCustomers)
	require.True(t, report.AverageSpend.IsZero())
}
