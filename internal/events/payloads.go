package events

import "github.com/shopspring/decimal"

// Stock change reasons carried by InventoryUpdated.
const (
	ActionPurchase   = "purchase"
	ActionAdjustment = "adjustment"
)

type InventoryUpdated struct {
	ProductID int64  `json:"product_id"`
	OldStock  int    `json:"old_stock"`
	NewStock  int    `json:"new_stock"`
	Action    string `json:"action"`
	Reason    string `json:"reason,omitempty"`
}

type OrderCreated struct {
	OrderID int64           `json:"order_id"`
	UserID  int64           `json:"user_id"`
	Total   decimal.Decimal `json:"total"`
}

type ProductAdded struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
}

type ProductDeleted struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
}
