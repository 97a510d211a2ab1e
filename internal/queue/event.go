// Package queue defines message payloads exchanged over the message broker.
package queue

// OrderPlacedEvent is published when a checkout succeeds. It carries
// enough information for downstream consumers to log, notify, or feed
// analytics without querying the primary database.
type OrderPlacedEvent struct {
	OrderID     uint64            `json:"order_id"`
	Code        string            `json:"code"`
	AccountID   uint64            `json:"account_id"`
	Email       string            `json:"email"`
	TotalAmount float64           `json:"total_amount"`
	Items       []OrderPlacedItem `json:"items"`
	PlacedAt    string            `json:"placed_at"`
}

// OrderPlacedItem is one line of a placed order.
type OrderPlacedItem struct {
	ProductID uint64  `json:"product_id"`
	Quantity  uint32  `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}
