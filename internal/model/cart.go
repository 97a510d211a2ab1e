package model

import "time"

// CartItem mirrors the `cart_items` table. A line is keyed by
// (account, product); it is deleted when removed, never zeroed.
type CartItem struct {
	AccountID uint64    `json:"accountId"` // cart_items.account_id
	ProductID uint64    `json:"productId"` // cart_items.product_id
	Quantity  uint32    `json:"quantity"`  // cart_items.quantity
	CreatedAt time.Time `json:"createdAt"` // cart_items.created_at
	UpdatedAt time.Time `json:"updatedAt"` // cart_items.updated_at
}

// CartLine is a cart item joined with the product display fields the
// storefront needs to render it.
type CartLine struct {
	ProductID     uint64   `json:"productId"`     // product identifier
	ProductName   string   `json:"productName"`   // current product name
	SellPrice     float64  `json:"sellPrice"`     // current list price
	DiscountPrice *float64 `json:"discountPrice"` // current discounted price, if any
	Quantity      uint32   `json:"quantity"`      // units in the cart
}
