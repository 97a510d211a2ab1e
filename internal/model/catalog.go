package model

// Category mirrors the `categories` table. Categories may form a
// shallow tree through ParentID.
type Category struct {
	ID          uint64  `json:"id"`          // categories.id
	Name        string  `json:"name"`        // categories.name
	Description *string `json:"description"` // categories.description (nullable)
	ParentID    *uint64 `json:"parentId"`    // categories.parent_id (nullable)
	IsActive    bool    `json:"isActive"`    // categories.is_active
}

// Brand mirrors the `brands` table. Image is a bare file name; image
// storage and delivery live outside this service.
type Brand struct {
	ID       uint64  `json:"id"`       // brands.id
	Name     string  `json:"name"`     // brands.name
	Image    *string `json:"image"`    // brands.image (nullable)
	IsActive bool    `json:"isActive"` // brands.is_active
}

// Banner mirrors the `banners` table. Banners are ordered by
// SortOrder on the storefront landing page.
type Banner struct {
	ID        uint64  `json:"id"`        // banners.id
	Name      *string `json:"name"`      // banners.name (nullable)
	ImageURL  *string `json:"imageUrl"`  // banners.image_url (nullable)
	LinkURL   *string `json:"linkUrl"`   // banners.link_url (nullable)
	SortOrder int     `json:"sortOrder"` // banners.sort_order
	IsActive  bool    `json:"isActive"`  // banners.is_active
}
