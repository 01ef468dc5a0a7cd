package store

import (
	"github.com/safar/go-storefront/internal/models"
	"github.com/shopspring/decimal"
)

const (
	SeedAdminEmail    = "admin@shop.com"
	SeedAdminPassword = "admin123"
)

// Seed resets the store to the fixed demo state: one administrator and
// eight catalog products, zero orders. Identifier counters restart as well,
// matching process-restart semantics.
func (s *Store) Seed() {
	s.mu.Lock()
	s.products = nil
	s.users = nil
	s.orders = nil
	s.nextProductID = 1
	s.nextUserID = 1
	s.nextOrderID = 1
	s.mu.Unlock()

	s.CreateUser(models.User{
		Name:     "Admin User",
		Email:    SeedAdminEmail,
		Password: SeedAdminPassword,
		Phone:    "+1-555-0100",
		Address:  "123 Admin Street, Admin City, AC 12345",
		Role:     models.RoleAdmin,
	})

	for _, p := range seedProducts() {
		s.CreateProduct(p)
	}
}

func seedProducts() []models.Product {
	return []models.Product{
		{
			Name:        "Wireless Bluetooth Headphones",
			Price:       decimal.RequireFromString("79.99"),
			Category:    "Electronics",
			Description: "High-quality wireless headphones with noise cancellation and 30-hour battery life.",
			Stock:       25,
		},
		{
			Name:        "Smart Fitness Watch",
			Price:       decimal.RequireFromString("199.99"),
			Category:    "Electronics",
			Description: "Advanced fitness tracking with heart rate monitor, GPS, and smartphone integration.",
			Stock:       15,
		},
		{
			Name:        "Organic Cotton T-Shirt",
			Price:       decimal.RequireFromString("29.99"),
			Category:    "Clothing",
			Description: "Comfortable and sustainable organic cotton t-shirt available in multiple colors.",
			Stock:       50,
		},
		{
			Name:        "Stainless Steel Water Bottle",
			Price:       decimal.RequireFromString("24.99"),
			Category:    "Home & Garden",
			Description: "Insulated stainless steel water bottle that keeps drinks cold for 24 hours.",
			Stock:       30,
		},
		{
			Name:        "Wireless Phone Charger",
			Price:       decimal.RequireFromString("39.99"),
			Category:    "Electronics",
			Description: "Fast wireless charging pad compatible with all Qi-enabled devices.",
			Stock:       20,
		},
		{
			Name:        "Premium Coffee Beans",
			Price:       decimal.RequireFromString("18.99"),
			Category:    "Food & Beverage",
			Description: "Single-origin arabica coffee beans, medium roast with notes of chocolate and caramel.",
			Stock:       40,
		},
		{
			Name:        "Yoga Mat",
			Price:       decimal.RequireFromString("49.99"),
			Category:    "Sports & Fitness",
			Description: "Non-slip yoga mat with extra cushioning for comfortable practice.",
			Stock:       35,
		},
		{
			Name:        "LED Desk Lamp",
			Price:       decimal.RequireFromString("59.99"),
			Category:    "Home & Garden",
			Description: "Adjustable LED desk lamp with multiple brightness levels and USB charging port.",
			Stock:       18,
		},
	}
}
