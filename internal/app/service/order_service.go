package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"cocoa_backend/internal/common"
	"cocoa_backend/internal/domain/model"
	"cocoa_backend/internal/domain/repository"

	"github.com/google/uuid"
)

var errOrderNotFound = common.NewError(common.ErrNotFound, "Order not found")

type OrderService struct {
	orderRepo repository.OrderRepository
	now       func() time.Time
}

func NewOrderService(orderRepo repository.OrderRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo, now: time.Now}
}

type CreateOrderRequest struct {
	Items       []OrderItemRequest `json:"items"`
	TotalAmount *float64           `json:"total_amount"`
}

type OrderItemRequest struct {
	MenuItemID string   `json:"menu_item_id"`
	Name       string   `json:"name"`
	Price      *float64 `json:"price"`
	Quantity   *int     `json:"quantity"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

func validateOrderItems(items []OrderItemRequest) ([]model.OrderItem, error) {
	if len(items) == 0 {
		return nil, common.NewError(common.ErrValidation, "order must contain at least one item")
	}
	out := make([]model.OrderItem, 0, len(items))
	for i, it := range items {
		if strings.TrimSpace(it.MenuItemID) == "" || strings.TrimSpace(it.Name) == "" {
			return nil, common.NewError(common.ErrValidation, fmt.Sprintf("items[%d]: menu_item_id and name are required", i))
		}
		if it.Price == nil || math.IsNaN(*it.Price) || math.IsInf(*it.Price, 0) || *it.Price < 0 {
			return nil, common.NewError(common.ErrValidation, fmt.Sprintf("items[%d]: price must be a non-negative number", i))
		}
		if it.Quantity == nil || *it.Quantity < 1 {
			return nil, common.NewError(common.ErrValidation, fmt.Sprintf("items[%d]: quantity must be at least 1", i))
		}
		out = append(out, model.OrderItem{
			MenuItemID: it.MenuItemID,
			Name:       it.Name,
			Price:      *it.Price,
			Quantity:   *it.Quantity,
		})
	}
	return out, nil
}

// CreateOrder stores the order as submitted. total_amount is taken from the
// client and is not recomputed from the line items.
func (s *OrderService) CreateOrder(ctx context.Context, user *model.User, req CreateOrderRequest) (*model.Order, error) {
	items, err := validateOrderItems(req.Items)
	if err != nil {
		return nil, err
	}
	if req.TotalAmount == nil {
		return nil, common.NewError(common.ErrValidation, "total_amount is required")
	}
	total := *req.TotalAmount
	if math.IsNaN(total) || math.IsInf(total, 0) || total < 0 {
		return nil, common.NewError(common.ErrValidation, "total_amount must be a non-negative number")
	}

	now := s.now().UTC()
	order := &model.Order{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		UserName:    user.Name,
		UserEmail:   user.Email,
		Items:       items,
		TotalAmount: total,
		Status:      model.OrderStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return order, nil
}

func (s *OrderService) ListForUser(ctx context.Context, user *model.User) ([]model.Order, error) {
	orders, err := s.orderRepo.List(ctx, model.OrderFilter{UserID: user.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// GetOrder returns the order if user owns it or is an admin.
func (s *OrderService) GetOrder(ctx context.Context, user *model.User, id string) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, errOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order.UserID != user.ID && !user.IsAdmin() {
		return nil, common.NewError(common.ErrForbidden, "Access denied")
	}
	return order, nil
}

func (s *OrderService) ListAll(ctx context.Context, status string) ([]model.Order, error) {
	orders, err := s.orderRepo.List(ctx, model.OrderFilter{Status: status})
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, id string, req UpdateOrderStatusRequest) error {
	status := strings.TrimSpace(req.Status)
	if !model.IsValidOrderStatus(status) {
		return common.NewError(common.ErrValidation, fmt.Sprintf("unknown order status %q", req.Status))
	}
	if err := s.orderRepo.UpdateStatus(ctx, id, status, s.now().UTC()); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return errOrderNotFound
		}
		return fmt.Errorf("failed to update order status: %w", err)
	}
	return nil
}
