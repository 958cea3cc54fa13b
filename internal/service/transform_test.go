package service

import (
	"testing"
	"time"

	"shopfront/internal/domain"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func floatPtr(v float64) *float64 { return &v }

func TestTransformProduct_NilIdentity(t *testing.T) {
	if TransformProduct(nil) != nil {
		t.Fatal("nil product must transform to nil")
	}

	out := TransformProducts(nil)
	if out == nil {
		t.Fatal("nil slice must transform to an empty list, not nil")
	}
	if len(out) != 0 {
		t.Fatalf("expected empty list, got %d items", len(out))
	}
}

func TestTransformProduct_NameFallback(t *testing.T) {
	tests := []struct {
		name    string
		product domain.Product
		want    string
	}{
		{"name wins", domain.Product{Name: "Espresso Maker", Title: "Something Else"}, "Espresso Maker"},
		{"title is the fallback", domain.Product{Title: "Espresso Maker"}, "Espresso Maker"},
		{"untitled is the last resort", domain.Product{}, "Untitled Product"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := TransformProduct(&tt.product)
			if d.Name != tt.want {
				t.Errorf("got name %q, want %q", d.Name, tt.want)
			}
		})
	}
}

func TestTransformProduct_Formatting(t *testing.T) {
	p := &domain.Product{
		ID:        uuid.New(),
		Name:      "Mug",
		Price:     25,
		SalePrice: floatPtr(18.75),
		CreatedAt: time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
	}

	d := TransformProduct(p)

	if d.FormattedPrice != "$25.00" {
		t.Errorf("formatted price: got %q", d.FormattedPrice)
	}
	if d.FormattedSalePrice != "$18.75" {
		t.Errorf("formatted sale price: got %q", d.FormattedSalePrice)
	}
	if d.Discount != "-25%" {
		t.Errorf("discount: got %q, want -25%%", d.Discount)
	}
	if !d.OnSale {
		t.Error("expected product to be on sale")
	}
	if d.Category != "uncategorized" {
		t.Errorf("category default: got %q", d.Category)
	}
	if d.CreatedAt != "Jan 15, 2026" {
		t.Errorf("created at: got %q", d.CreatedAt)
	}
}

func TestTransformProduct_ZeroPrice(t *testing.T) {
	d := TransformProduct(&domain.Product{Name: "Free Sample"})
	if d.FormattedPrice != "$0.00" {
		t.Errorf("zero price should format as $0.00, got %q", d.FormattedPrice)
	}
	if d.Discount != "" {
		t.Errorf("no discount expected without a sale price, got %q", d.Discount)
	}
}

func TestFormatPrice_NilAmount(t *testing.T) {
	if got := FormatPrice(nil); got != "$0.00" {
		t.Errorf("FormatPrice(nil) = %q, want $0.00", got)
	}
}

// Feature: storefront-api, Property 23: sale price at or above price is no discount
func TestProperty_DiscountOnlyForRealMarkdowns(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("discount is empty unless sale < price, and -N% otherwise", prop.ForAll(
		func(price float64, sale float64) bool {
			label := DiscountLabel(price, &sale)

			if price <= 0 || sale >= price {
				return label == ""
			}

			// A genuine markdown labels as "-N%" for N in [0, 100]
			if len(label) < 3 || label[0] != '-' || label[len(label)-1] != '%' {
				return false
			}
			return true
		},
		gen.Float64Range(0.01, 10000),
		gen.Float64Range(0.01, 10000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Espresso Maker", "espresso-maker"},
		{"  Deluxe!!  Mug  ", "deluxe-mug"},
		{"Café au Lait", "caf-au-lait"},
		{"already-a-slug", "already-a-slug"},
		{"---", ""},
		{"100% Cotton T-Shirt", "100-cotton-t-shirt"},
	}

	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
