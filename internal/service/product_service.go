package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"shopfront/internal/domain"
	"shopfront/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrSlugExists      = errors.New("product with this slug already exists")
	ErrInvalidSale     = errors.New("sale price must not exceed the regular price")
	ErrProductNotFound = errors.New("product not found")
	ErrCategoryExists  = errors.New("category already exists")
)

// ProductInput is a validated product payload for create/update
type ProductInput struct {
	Name        string
	Title       string
	Slug        string
	Description string
	Price       float64
	SalePrice   *float64
	Category    string
	ImageURL    string
	Stock       int
	Rating      float64
}

// ProductService defines the interface for catalog business logic
type ProductService interface {
	ListProducts(ctx context.Context, filter domain.CatalogFilter) (*domain.ProductPage, error)
	GetProductBySlug(ctx context.Context, slug string) (*domain.DisplayProduct, error)
	CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	FilterMetadata(ctx context.Context) (*domain.FilterMetadata, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	CreateCategory(ctx context.Context, name, description string) (*domain.Category, error)
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductService creates a new instance of ProductService
func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// ParseCatalogFilter builds a CatalogFilter from URL query values. Numeric
// fields parse defensively: empty or non-numeric values mean "absent", never
// zero. Page is forced to at least 1 and the page size clamps to
// [1, MaxPageSize].
func ParseCatalogFilter(values url.Values) domain.CatalogFilter {
	filter := domain.CatalogFilter{
		Search:   strings.TrimSpace(values.Get("search")),
		Category: strings.TrimSpace(values.Get("category")),
		Sort:     values.Get("sort"),
		Page:     1,
		Limit:    domain.DefaultPageSize,
	}

	if v := parseFloat(values.Get("minPrice")); v != nil {
		filter.MinPrice = v
	}
	if v := parseFloat(values.Get("maxPrice")); v != nil {
		filter.MaxPrice = v
	}

	if page, err := strconv.Atoi(values.Get("page")); err == nil && page >= 1 {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(values.Get("limit")); err == nil {
		if limit < 1 {
			limit = 1
		}
		if limit > domain.MaxPageSize {
			limit = domain.MaxPageSize
		}
		filter.Limit = limit
	}

	switch filter.Sort {
	case domain.SortNewest, domain.SortPriceLow, domain.SortPriceHigh, domain.SortRating:
	default:
		filter.Sort = domain.SortNewest
	}

	return filter
}

func parseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// ListProducts runs one catalog query and returns a display-ready page
func (s *productService) ListProducts(ctx context.Context, filter domain.CatalogFilter) (*domain.ProductPage, error) {
	products, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + filter.Limit - 1) / filter.Limit
	}

	return &domain.ProductPage{
		Products:   TransformProducts(products),
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// GetProductBySlug fetches one product in display shape
func (s *productService) GetProductBySlug(ctx context.Context, slug string) (*domain.DisplayProduct, error) {
	product, err := s.productRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	return TransformProduct(product), nil
}

// CreateProduct derives a slug when none is supplied, rejects duplicates
// before insert, and stamps timestamps. Slug uniqueness is also enforced by
// the database; the pre-check exists so the common case answers without
// surfacing a constraint violation.
func (s *productService) CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error) {
	if input.SalePrice != nil && *input.SalePrice > input.Price {
		return nil, ErrInvalidSale
	}

	slug := input.Slug
	if slug == "" {
		slug = Slugify(input.Name)
	}

	exists, err := s.productRepo.SlugExists(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to check slug: %w", err)
	}
	if exists {
		return nil, ErrSlugExists
	}

	now := time.Now()
	product := &domain.Product{
		ID:          uuid.New(),
		Name:        input.Name,
		Title:       input.Title,
		Slug:        slug,
		Description: input.Description,
		Price:       input.Price,
		SalePrice:   input.SalePrice,
		Category:    strings.ToLower(input.Category),
		ImageURL:    input.ImageURL,
		Stock:       input.Stock,
		Rating:      input.Rating,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		if errors.Is(err, repository.ErrSlugAlreadyExists) {
			return nil, ErrSlugExists
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// UpdateProduct applies an admin edit to an existing product
func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error) {
	if input.SalePrice != nil && *input.SalePrice > input.Price {
		return nil, ErrInvalidSale
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	product.Name = input.Name
	product.Title = input.Title
	product.Description = input.Description
	product.Price = input.Price
	product.SalePrice = input.SalePrice
	product.Category = strings.ToLower(input.Category)
	product.ImageURL = input.ImageURL
	product.Stock = input.Stock
	product.Rating = input.Rating
	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

// DeleteProduct removes a product from the catalog
func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// FilterMetadata assembles the storefront filter sidebar data
func (s *productService) FilterMetadata(ctx context.Context) (*domain.FilterMetadata, error) {
	meta, err := s.productRepo.FilterMetadata(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load filter metadata: %w", err)
	}

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	meta.Categories = make([]domain.Category, 0, len(categories))
	for _, c := range categories {
		meta.Categories = append(meta.Categories, *c)
	}

	return meta, nil
}

// ListCategories returns all categories ordered by name
func (s *productService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	return categories, nil
}

// CreateCategory adds an admin-managed category. Names normalize to
// lowercase and the slug derives from the normalized name.
func (s *productService) CreateCategory(ctx context.Context, name, description string) (*domain.Category, error) {
	name = strings.ToLower(strings.TrimSpace(name))

	category := &domain.Category{
		ID:          uuid.New(),
		Name:        name,
		Slug:        Slugify(name),
		Description: description,
		CreatedAt:   time.Now(),
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrCategoryAlreadyExists) {
			return nil, ErrCategoryExists
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}
