package domain

// Sort keys accepted by the catalog listing
const (
	SortNewest    = "newest"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortRating    = "rating"
)

// CatalogFilter is the transient value object describing one catalog query.
// Optional numeric fields are pointers so "absent" is distinguishable from
// zero. Invariants: Page >= 1, Limit in [1, MaxPageSize].
type CatalogFilter struct {
	Search   string
	Category string
	MinPrice *float64
	MaxPrice *float64
	Sort     string
	Page     int
	Limit    int
}

const (
	DefaultPageSize = 12
	MaxPageSize     = 100
)

// HasPriceRange reports whether at least one price bound is set
func (f CatalogFilter) HasPriceRange() bool {
	return f.MinPrice != nil || f.MaxPrice != nil
}

// ProductPage is one page of catalog results plus pagination metadata
type ProductPage struct {
	Products   []DisplayProduct `json:"products"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"totalPages"`
}
