package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product is the normalized catalog record. Raw rows are normalized once at
// the repository boundary; everything above it operates on this type only.
type Product struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Title       string    `json:"title" db:"title"`
	Slug        string    `json:"slug" db:"slug"`
	Description string    `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	SalePrice   *float64  `json:"sale_price,omitempty" db:"sale_price"`
	Category    string    `json:"category" db:"category"`
	ImageURL    string    `json:"image_url" db:"image_url"`
	Stock       int       `json:"stock" db:"stock"`
	Rating      float64   `json:"rating" db:"rating"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// DisplayProduct is the read-only projection served to the storefront.
// Never persisted; recomputed from a Product on every read.
type DisplayProduct struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Slug               string   `json:"slug"`
	Description        string   `json:"description"`
	Price              float64  `json:"price"`
	SalePrice          *float64 `json:"salePrice,omitempty"`
	FormattedPrice     string   `json:"formattedPrice"`
	FormattedSalePrice string   `json:"formattedSalePrice,omitempty"`
	Discount           string   `json:"discount,omitempty"`
	OnSale             bool     `json:"onSale"`
	Category           string   `json:"category"`
	ImageURL           string   `json:"image"`
	Stock              int      `json:"stock"`
	InStock            bool     `json:"inStock"`
	Rating             float64  `json:"rating"`
	CreatedAt          string   `json:"createdAt"`
}

// Category represents an admin-managed product category
type Category struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// FilterMetadata aggregates the data a storefront needs to render its filter
// sidebar: the category list, the overall price range, availability counts.
type FilterMetadata struct {
	Categories []Category  `json:"categories"`
	PriceRange *PriceRange `json:"priceRange"`
	InStock    int         `json:"inStock"`
	OutOfStock int         `json:"outOfStock"`
}

// PriceRange is the min/max regular price across the whole catalog
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}
