package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"shopfront/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrSlugAlreadyExists = errors.New("product with this slug already exists")
)

// ProductRepository defines the interface for catalog data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Product, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context, filter domain.CatalogFilter) ([]*domain.Product, int, error)
	FilterMetadata(ctx context.Context) (*domain.FilterMetadata, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

// rawProduct is the shape of a row as stored: name/title/sale price and most
// text fields are nullable. Rows normalize into domain.Product exactly once,
// here at the storage boundary.
type rawProduct struct {
	ID          uuid.UUID
	Name        sql.NullString
	Title       sql.NullString
	Slug        string
	Description sql.NullString
	Price       sql.NullFloat64
	SalePrice   sql.NullFloat64
	Category    sql.NullString
	ImageURL    sql.NullString
	Stock       sql.NullInt64
	Rating      sql.NullFloat64
	CreatedAt   sql.NullTime
	UpdatedAt   sql.NullTime
}

func (r rawProduct) normalize() *domain.Product {
	p := &domain.Product{
		ID:          r.ID,
		Name:        r.Name.String,
		Title:       r.Title.String,
		Slug:        r.Slug,
		Description: r.Description.String,
		Price:       r.Price.Float64,
		Category:    strings.ToLower(r.Category.String),
		ImageURL:    r.ImageURL.String,
		Stock:       int(r.Stock.Int64),
		Rating:      r.Rating.Float64,
		CreatedAt:   r.CreatedAt.Time,
		UpdatedAt:   r.UpdatedAt.Time,
	}
	if r.SalePrice.Valid {
		sale := r.SalePrice.Float64
		p.SalePrice = &sale
	}
	return p
}

const productColumns = `id, name, title, slug, description, price, sale_price, category, image_url, stock, rating, created_at, updated_at`

func scanProduct(row interface{ Scan(dest ...any) error }) (*domain.Product, error) {
	var raw rawProduct
	err := row.Scan(
		&raw.ID,
		&raw.Name,
		&raw.Title,
		&raw.Slug,
		&raw.Description,
		&raw.Price,
		&raw.SalePrice,
		&raw.Category,
		&raw.ImageURL,
		&raw.Stock,
		&raw.Rating,
		&raw.CreatedAt,
		&raw.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return raw.normalize(), nil
}

// Create inserts a new product using parameterized queries. A unique
// violation on the slug column maps to ErrSlugAlreadyExists so callers can
// answer with a conflict status.
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (id, name, title, slug, description, price, sale_price, category, image_url, stock, rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Title,
		product.Slug,
		product.Description,
		product.Price,
		product.SalePrice,
		strings.ToLower(product.Category),
		product.ImageURL,
		product.Stock,
		product.Rating,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrSlugAlreadyExists
		}
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update updates an existing product using parameterized queries
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, title = $3, description = $4, price = $5, sale_price = $6,
		    category = $7, image_url = $8, stock = $9, rating = $10, updated_at = $11
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Title,
		product.Description,
		product.Price,
		product.SalePrice,
		strings.ToLower(product.Category),
		product.ImageURL,
		product.Stock,
		product.Rating,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete removes a product using parameterized queries
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product by ID
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// FindBySlug retrieves a product by its URL slug
func (r *productRepository) FindBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE slug = $1`, productColumns)

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, slug))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by slug: %w", err)
	}

	return product, nil
}

// SlugExists reports whether a product with slug already exists
func (r *productRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return exists, nil
}

// sortClause maps the public sort keys onto ORDER BY clauses. Unknown keys
// fall back to newest-first.
func sortClause(sort string) string {
	switch sort {
	case domain.SortPriceLow:
		return "price ASC"
	case domain.SortPriceHigh:
		return "price DESC"
	case domain.SortRating:
		return "rating DESC"
	default:
		return "created_at DESC"
	}
}

// List retrieves one page of products matching filter, plus the total count
// of matching rows ignoring pagination. A price range matches when either
// the regular or the sale price falls inside it, so discounted items still
// surface under their effective price.
func (r *productRepository) List(ctx context.Context, filter domain.CatalogFilter) ([]*domain.Product, int, error) {
	conditions := []string{}
	args := []interface{}{}
	argIndex := 1

	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(category) = LOWER($%d)", argIndex))
		args = append(args, filter.Category)
		argIndex++
	}

	if strings.TrimSpace(filter.Search) != "" {
		pattern := "%" + strings.TrimSpace(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf(
			"(name ILIKE $%d OR title ILIKE $%d OR description ILIKE $%d OR category ILIKE $%d)",
			argIndex, argIndex, argIndex, argIndex,
		))
		args = append(args, pattern)
		argIndex++
	}

	if filter.HasPriceRange() {
		min := 0.0
		if filter.MinPrice != nil {
			min = *filter.MinPrice
		}
		var priceCond string
		if filter.MaxPrice != nil {
			priceCond = fmt.Sprintf(
				"((price BETWEEN $%d AND $%d) OR (sale_price BETWEEN $%d AND $%d))",
				argIndex, argIndex+1, argIndex, argIndex+1,
			)
			args = append(args, min, *filter.MaxPrice)
			argIndex += 2
		} else {
			priceCond = fmt.Sprintf("(price >= $%d OR sale_price >= $%d)", argIndex, argIndex)
			args = append(args, min)
			argIndex++
		}
		conditions = append(conditions, priceCond)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	// Count total products matching the predicate
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM products %s", whereClause)
	var total int
	err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit

	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, productColumns, whereClause, sortClause(filter.Sort), argIndex, argIndex+1)

	args = append(args, filter.Limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating products: %w", err)
	}

	return products, total, nil
}

// FilterMetadata computes the storefront filter sidebar data: the catalog
// price range and in/out-of-stock counts. The category list is attached by
// the service layer.
func (r *productRepository) FilterMetadata(ctx context.Context) (*domain.FilterMetadata, error) {
	meta := &domain.FilterMetadata{}

	var min, max sql.NullFloat64
	err := r.db.QueryRowContext(ctx, `SELECT MIN(price), MAX(price) FROM products`).Scan(&min, &max)
	if err != nil {
		return nil, fmt.Errorf("failed to compute price range: %w", err)
	}
	if min.Valid && max.Valid {
		meta.PriceRange = &domain.PriceRange{Min: min.Float64, Max: max.Float64}
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE stock > 0),
			COUNT(*) FILTER (WHERE stock <= 0)
		FROM products
	`).Scan(&meta.InStock, &meta.OutOfStock)
	if err != nil {
		return nil, fmt.Errorf("failed to compute availability counts: %w", err)
	}

	return meta, nil
}
