// Package analytics derives sales, product and customer reports from the
// record store. Every report is computed fresh from the current collections;
// nothing here mutates state or caches results.
package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/store"
)

const topListSize = 5

type Service struct {
	store *store.Store
	now   func() time.Time
}

func New(st *store.Store) *Service {
	return &Service{store: st, now: time.Now}
}

// SetClock overrides the report clock. Intended for tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

type DailySales struct {
	Date   string          `json:"date"`
	Sales  decimal.Decimal `json:"sales"`
	Orders int             `json:"orders"`
}

type SalesReport struct {
	MonthlySales      decimal.Decimal `json:"monthly_sales"`
	Daily             []DailySales    `json:"daily_sales"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
}

// Sales reports revenue for the current calendar month, a bucket for each
// of the trailing 7 days (oldest first, today last, zero-order days
// included), total revenue and the average order value.
func (s *Service) Sales() SalesReport {
	orders := s.store.ListOrders()
	now := s.now()

	report := SalesReport{
		MonthlySales:      decimal.Zero,
		TotalRevenue:      decimal.Zero,
		AverageOrderValue: decimal.Zero,
	}

	report.Daily = make([]DailySales, 7)
	dayIndex := make(map[string]int, 7)
	for i := range report.Daily {
		day := now.AddDate(0, 0, i-6).Format("2006-01-02")
		report.Daily[i] = DailySales{Date: day, Sales: decimal.Zero}
		dayIndex[day] = i
	}

	for _, o := range orders {
		report.TotalRevenue = report.TotalRevenue.Add(o.Total)

		if o.CreatedAt.Month() == now.Month() && o.CreatedAt.Year() == now.Year() {
			report.MonthlySales = report.MonthlySales.Add(o.Total)
		}

		if i, ok := dayIndex[o.CreatedAt.Format("2006-01-02")]; ok {
			report.Daily[i].Sales = report.Daily[i].Sales.Add(o.Total)
			report.Daily[i].Orders++
		}
	}

	if len(orders) > 0 {
		report.AverageOrderValue = report.TotalRevenue.Div(decimal.NewFromInt(int64(len(orders))))
	}
	return report
}

type ProductSales struct {
	Product  models.Product  `json:"product"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

type ProductReport struct {
	TopProducts    []ProductSales `json:"top_products"`
	TotalUnitsSold int            `json:"total_units_sold"`
}

// Products aggregates quantity sold and revenue per product over every
// order's line items and returns the top sellers by quantity. A line item
// whose product was deleted resolves to an "unknown" placeholder instead of
// being dropped; sold history outlives the catalog entry.
func (s *Service) Products() ProductReport {
	orders := s.store.ListOrders()
	products := s.store.ListProducts()

	byID := make(map[int64]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	type tally struct {
		quantity int
		revenue  decimal.Decimal
	}
	tallies := make(map[int64]*tally)
	var order []int64

	report := ProductReport{}
	for _, o := range orders {
		for _, item := range o.Items {
			t, ok := tallies[item.ProductID]
			if !ok {
				t = &tally{revenue: decimal.Zero}
				tallies[item.ProductID] = t
				order = append(order, item.ProductID)
			}
			t.quantity += item.Quantity
			t.revenue = t.revenue.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
			report.TotalUnitsSold += item.Quantity
		}
	}

	for _, id := range order {
		product, ok := byID[id]
		if !ok {
			product = unknownProduct(id)
		}
		report.TopProducts = append(report.TopProducts, ProductSales{
			Product:  product,
			Quantity: tallies[id].quantity,
			Revenue:  tallies[id].revenue,
		})
	}
	sort.SliceStable(report.TopProducts, func(i, j int) bool {
		return report.TopProducts[i].Quantity > report.TopProducts[j].Quantity
	})
	if len(report.TopProducts) > topListSize {
		report.TopProducts = report.TopProducts[:topListSize]
	}
	return report
}

func unknownProduct(id int64) models.Product {
	return models.Product{ID: id, Name: "unknown", Price: decimal.Zero}
}

type CustomerSpend struct {
	User       models.User     `json:"user"`
	TotalSpent decimal.Decimal `json:"total_spent"`
}

type CustomerReport struct {
	TotalCustomers int             `json:"total_customers"`
	TopCustomers   []CustomerSpend `json:"top_customers"`
	AverageSpend   decimal.Decimal `json:"average_spend"`
}

// Customers reports the customer count (administrators excluded), the top
// customers by lifetime spend, and the average spend across users who have
// placed at least one order.
func (s *Service) Customers() CustomerReport {
	users := s.store.ListUsers()
	orders := s.store.ListOrders()

	byID := make(map[int64]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	spend := make(map[int64]decimal.Decimal)
	var order []int64
	for _, o := range orders {
		if _, ok := spend[o.UserID]; !ok {
			spend[o.UserID] = decimal.Zero
			order = append(order, o.UserID)
		}
		spend[o.UserID] = spend[o.UserID].Add(o.Total)
	}

	report := CustomerReport{AverageSpend: decimal.Zero}
	for _, u := range users {
		if u.Role != models.RoleAdmin {
			report.TotalCustomers++
		}
	}

	totalSpend := decimal.Zero
	for _, userID := range order {
		report.TopCustomers = append(report.TopCustomers, CustomerSpend{
			User:       byID[userID],
			TotalSpent: spend[userID],
		})
		totalSpend = totalSpend.Add(spend[userID])
	}
	sort.SliceStable(report.TopCustomers, func(i, j int) bool {
		return report.TopCustomers[i].TotalSpent.GreaterThan(report.TopCustomers[j].TotalSpent)
	})
	if len(report.TopCustomers) > topListSize {
		report.TopCustomers = report.TopCustomers[:topListSize]
	}

	if len(order) > 0 {
		report.AverageSpend = totalSpend.Div(decimal.NewFromInt(int64(len(order))))
	}
	return report
}
