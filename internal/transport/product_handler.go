package transport

import (
	"errors"
	"net/http"

	"shopfront/internal/middleware"
	"shopfront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductRequest represents the product create/update payload
type ProductRequest struct {
	Name        string   `json:"name" validate:"required"`
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Description string   `json:"description"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	SalePrice   *float64 `json:"sale_price" validate:"omitempty,gt=0"`
	Category    string   `json:"category" validate:"required"`
	ImageURL    string   `json:"image" validate:"omitempty,url"`
	Stock       int      `json:"stock" validate:"gte=0"`
	Rating      float64  `json:"rating" validate:"gte=0,lte=5"`
}

// CategoryRequest represents the category create payload
type CategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=60"`
	Description string `json:"description"`
}

// ProductHandler handles HTTP requests for catalog operations
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers all catalog routes. Mutating routes require an
// authenticated admin.
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/filters", h.Filters)
		r.Get("/{slug}", h.GetBySlug)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RequireAdmin(h.logger))
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})

	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", h.ListCategories)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RequireAdmin(h.logger))
			r.Post("/", h.CreateCategory)
		})
	})
}

// List handles catalog browsing with search, filtering, sorting, pagination
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := service.ParseCatalogFilter(r.URL.Query())

	page, err := h.productService.ListProducts(r.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, page)
}

// Filters returns the storefront filter sidebar metadata
func (h *ProductHandler) Filters(w http.ResponseWriter, r *http.Request) {
	meta, err := h.productService.FilterMetadata(r.Context())
	if err != nil {
		h.logger.Error("Failed to load filter metadata", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load filters")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, meta)
}

// GetBySlug returns a single product in display shape
func (h *ProductHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	product, err := h.productService.GetProductBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to get product", zap.Error(err), zap.String("slug", slug))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Create handles admin product creation
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.productService.CreateProduct(r.Context(), h.toInput(req))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSlugExists):
			middleware.RespondWithError(w, http.StatusConflict, "product with this slug already exists")
		case errors.Is(err, service.ErrInvalidSale):
			middleware.RespondWithError(w, http.StatusBadRequest, "sale price must not exceed the regular price")
		default:
			h.logger.Error("Failed to create product", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create product")
		}
		return
	}

	h.logger.Info("Product created", zap.String("product_id", product.ID.String()), zap.String("slug", product.Slug))
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// Update handles admin product edits
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.productService.UpdateProduct(r.Context(), id, h.toInput(req))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		case errors.Is(err, service.ErrInvalidSale):
			middleware.RespondWithError(w, http.StatusBadRequest, "sale price must not exceed the regular price")
		default:
			h.logger.Error("Failed to update product", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update product")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Delete handles admin product deletion
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	if err := h.productService.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to delete product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

// ListCategories returns all categories for the storefront navigation
func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.productService.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load categories")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

// CreateCategory handles admin category creation
func (h *ProductHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := h.productService.CreateCategory(r.Context(), req.Name, req.Description)
	if err != nil {
		if errors.Is(err, service.ErrCategoryExists) {
			middleware.RespondWithError(w, http.StatusConflict, "category already exists")
			return
		}
		h.logger.Error("Failed to create category", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create category")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, category)
}

func (h *ProductHandler) toInput(req ProductRequest) service.ProductInput {
	return service.ProductInput{
		Name:        req.Name,
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
		Price:       req.Price,
		SalePrice:   req.SalePrice,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		Stock:       req.Stock,
		Rating:      req.Rating,
	}
}
