package model

import "time"

// Product mirrors the `products` table. StockQuantity is the single
// source of truth for the cart quantity bound: no cart line may hold
// more units than are in stock at the time of the mutation.
type Product struct {
	ID              uint64    `json:"id"`              // products.id
	Name            string    `json:"name"`            // products.name
	Description     string    `json:"description"`     // products.description
	CostPrice       *float64  `json:"costPrice"`       // products.cost_price (nullable)
	SellPrice       float64   `json:"sellPrice"`       // products.sell_price
	DiscountPrice   *float64  `json:"discountPrice"`   // products.discount_price (nullable)
	StockQuantity   uint32    `json:"stockQuantity"`   // products.stock_quantity
	CategoryID      *uint64   `json:"categoryId"`      // products.category_id (nullable)
	BrandID         *uint64   `json:"brandId"`         // products.brand_id (nullable)
	ManufactureYear *int      `json:"manufactureYear"` // products.manufacture_year (nullable)
	IsActive        bool      `json:"isActive"`        // products.is_active
	CreatedAt       time.Time `json:"createdAt"`       // products.created_at
	UpdatedAt       time.Time `json:"updatedAt"`       // products.updated_at
}
