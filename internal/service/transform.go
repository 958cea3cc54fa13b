package service

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"shopfront/internal/domain"
)

const untitledProduct = "Untitled Product"

// FormatPrice renders an amount as a fixed two-decimal currency string.
// A nil amount renders as "$0.00".
func FormatPrice(amount *float64) string {
	if amount == nil {
		return "$0.00"
	}
	return fmt.Sprintf("$%.2f", *amount)
}

// DiscountLabel renders the percentage saved as "-N%" when sale is a real
// markdown below price, and an empty string otherwise.
func DiscountLabel(price float64, sale *float64) string {
	if sale == nil || price <= 0 || *sale >= price {
		return ""
	}
	pct := math.Round((price - *sale) / price * 100)
	return fmt.Sprintf("-%d%%", int(pct))
}

// TransformProduct maps a stored product to its display projection. It is a
// pure function; nil in, nil out.
func TransformProduct(p *domain.Product) *domain.DisplayProduct {
	if p == nil {
		return nil
	}

	name := p.Name
	if name == "" {
		name = p.Title
	}
	if name == "" {
		name = untitledProduct
	}

	price := p.Price
	if math.IsNaN(price) || math.IsInf(price, 0) {
		price = 0
	}

	category := strings.ToLower(p.Category)
	if category == "" {
		category = "uncategorized"
	}

	d := &domain.DisplayProduct{
		ID:             p.ID.String(),
		Name:           name,
		Slug:           p.Slug,
		Description:    p.Description,
		Price:          price,
		SalePrice:      p.SalePrice,
		FormattedPrice: FormatPrice(&price),
		Discount:       DiscountLabel(price, p.SalePrice),
		Category:       category,
		ImageURL:       p.ImageURL,
		Stock:          p.Stock,
		InStock:        p.Stock > 0,
		Rating:         p.Rating,
	}

	if p.SalePrice != nil {
		d.FormattedSalePrice = FormatPrice(p.SalePrice)
		d.OnSale = *p.SalePrice < price
	}

	if !p.CreatedAt.IsZero() {
		d.CreatedAt = p.CreatedAt.UTC().Format("Jan 2, 2006")
	}

	return d
}

// TransformProducts maps a slice of products. A nil slice yields an empty
// list, never nil, so JSON callers always see an array.
func TransformProducts(products []*domain.Product) []domain.DisplayProduct {
	out := make([]domain.DisplayProduct, 0, len(products))
	for _, p := range products {
		if d := TransformProduct(p); d != nil {
			out = append(out, *d)
		}
	}
	return out
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL-safe identifier from a human-readable name:
// lowercase, runs of non-alphanumerics collapse to a single hyphen, no
// leading or trailing hyphen.
func Slugify(name string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}
