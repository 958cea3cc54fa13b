package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shopfront/internal/domain"
	"shopfront/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrEmptyOrder        = errors.New("order must contain at least one item")
	ErrInsufficientStock = errors.New("insufficient stock for product")
	ErrOrderNotFound     = errors.New("order not found")
)

// OrderItemInput is one requested line of a checkout
type OrderItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// OrderService defines the interface for checkout business logic
type OrderService interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, items []OrderItemInput) (*domain.Order, error)
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*domain.Order, error)
	ListOrders(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
	}
}

// PlaceOrder creates an order from the requested items. Each line item
// snapshots the product's name and effective price at purchase time, so
// later catalog edits never rewrite order history.
func (s *orderService) PlaceOrder(ctx context.Context, userID uuid.UUID, items []OrderItemInput) (*domain.Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	now := time.Now()
	order := &domain.Order{
		ID:        uuid.New(),
		UserID:    userID,
		Status:    domain.OrderStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	for _, item := range items {
		if item.Quantity < 1 {
			return nil, ErrEmptyOrder
		}

		product, err := s.productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return nil, ErrProductNotFound
			}
			return nil, fmt.Errorf("failed to load product: %w", err)
		}

		if product.Stock < item.Quantity {
			return nil, fmt.Errorf("%w: %s", ErrInsufficientStock, product.Slug)
		}

		unitPrice := product.Price
		if product.SalePrice != nil && *product.SalePrice < product.Price {
			unitPrice = *product.SalePrice
		}

		name := product.Name
		if name == "" {
			name = product.Title
		}

		order.Items = append(order.Items, domain.OrderItem{
			ID:          uuid.New(),
			OrderID:     order.ID,
			ProductID:   product.ID,
			ProductName: name,
			UnitPrice:   unitPrice,
			Quantity:    item.Quantity,
		})
		order.Total += unitPrice * float64(item.Quantity)
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	return order, nil
}

// GetOrder returns one of the user's orders. Orders belonging to somebody
// else answer not-found rather than forbidden, so order IDs leak nothing.
func (s *orderService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	if order.UserID != userID {
		return nil, ErrOrderNotFound
	}

	return order, nil
}

// ListOrders returns the user's orders, newest first
func (s *orderService) ListOrders(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}
