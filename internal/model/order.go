package model

import "time"

// Order statuses. CANCELLED restores the decremented stock; the
// other transitions only move forward.
const (
	OrderPending   = "PENDING"
	OrderConfirmed = "CONFIRMED"
	OrderShipped   = "SHIPPED"
	OrderCompleted = "COMPLETED"
	OrderCancelled = "CANCELLED"
)

// ValidOrderStatus reports whether s is one of the Order* constants.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderShipped, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// Order mirrors the `orders` table. An order is created from the
// account's cart in a single transaction that also decrements the
// product stock.
type Order struct {
	ID              uint64    `json:"id"`              // orders.id
	Code            string    `json:"code"`            // orders.code
	AccountID       uint64    `json:"accountId"`       // orders.account_id
	Status          string    `json:"status"`          // orders.status
	TotalAmount     float64   `json:"totalAmount"`     // orders.total_amount
	PaymentMethod   *string   `json:"paymentMethod"`   // orders.payment_method (nullable)
	ShippingAddress *string   `json:"shippingAddress"` // orders.shipping_address (nullable)
	Note            *string   `json:"note"`            // orders.note (nullable)
	CreatedAt       time.Time `json:"createdAt"`       // orders.created_at
	UpdatedAt       time.Time `json:"updatedAt"`       // orders.updated_at
}

// OrderItem mirrors the `order_items` table. UnitPrice is the price
// the customer paid, frozen at checkout.
type OrderItem struct {
	ID        uint64  `json:"id"`        // order_items.id
	OrderID   uint64  `json:"orderId"`   // order_items.order_id
	ProductID uint64  `json:"productId"` // order_items.product_id
	Quantity  uint32  `json:"quantity"`  // order_items.quantity
	UnitPrice float64 `json:"unitPrice"` // order_items.unit_price
}
