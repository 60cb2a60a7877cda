package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cocoa_backend/internal/common"
	"cocoa_backend/internal/domain/model"
	"cocoa_backend/internal/domain/repository"
	"cocoa_backend/internal/platform/logger"
	"cocoa_backend/internal/platform/payment"
)

// PaymentRecorder receives payment outcomes for metrics.
type PaymentRecorder interface {
	PaymentOrder(result string)
	PaymentVerification(result string)
}

type PaymentOptions struct {
	Currency string
	// FXRate converts a caller amount into Currency before it reaches the
	// gateway. Zero leaves amounts untouched.
	FXRate float64
}

type PaymentService struct {
	gateway   *payment.Gateway
	orderRepo repository.OrderRepository
	recorder  PaymentRecorder
	opts      PaymentOptions
	now       func() time.Time
}

func NewPaymentService(gateway *payment.Gateway, orderRepo repository.OrderRepository, recorder PaymentRecorder, opts PaymentOptions) *PaymentService {
	if opts.Currency == "" {
		opts.Currency = "INR"
	}
	return &PaymentService{gateway: gateway, orderRepo: orderRepo, recorder: recorder, opts: opts, now: time.Now}
}

type CreatePaymentOrderRequest struct {
	Amount  *float64 `json:"amount"`
	OrderID string   `json:"order_id,omitempty"`
}

type PaymentOrderResponse struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"key_id,omitempty"`
}

type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

type VerifyPaymentResponse struct {
	Status string `json:"status"`
}

// CreatePaymentOrder opens a gateway order. When req.OrderID names an internal
// order, caller must own it (or be an admin), the amount is the order total,
// and the gateway order id and charge are recorded on it so the callback can
// mark it paid.
func (s *PaymentService) CreatePaymentOrder(ctx context.Context, caller *model.User, req CreatePaymentOrderRequest) (*PaymentOrderResponse, error) {
	if req.Amount == nil && req.OrderID == "" {
		return nil, common.NewError(common.ErrValidation, "amount is required")
	}

	var linked *model.Order
	if req.OrderID != "" {
		if caller == nil {
			return nil, common.NewError(common.ErrUnauthorized, "Authorization token required")
		}
		order, err := s.orderRepo.FindByID(ctx, req.OrderID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return nil, errOrderNotFound
			}
			return nil, fmt.Errorf("failed to load order: %w", err)
		}
		if order.UserID != caller.ID && !caller.IsAdmin() {
			return nil, common.NewError(common.ErrForbidden, "Access denied")
		}
		if order.PaymentStatus == model.PaymentStatusPaid {
			return nil, common.NewError(common.ErrValidation, "Order is already paid")
		}
		// The client may omit the amount for a linked order, but it may not
		// pick a different one.
		if req.Amount != nil && payment.ToMinorUnits(*req.Amount) != payment.ToMinorUnits(order.TotalAmount) {
			return nil, common.NewError(common.ErrValidation, "amount does not match the order total")
		}
		linked = order
	}

	var amount float64
	if linked != nil {
		amount = linked.TotalAmount
	} else {
		amount = *req.Amount
	}
	if s.opts.FXRate > 0 && amount > 0 {
		amount *= s.opts.FXRate
	}

	gwOrder, err := s.gateway.OpenPaymentOrder(ctx, amount, s.opts.Currency)
	if err != nil {
		if errors.Is(err, common.ErrPaymentGateway) {
			s.recorder.PaymentOrder("failed")
		}
		return nil, err
	}
	s.recorder.PaymentOrder("created")

	if linked != nil {
		if err := s.orderRepo.AttachPaymentOrder(ctx, linked.ID, gwOrder.ID, gwOrder.Amount, s.now().UTC()); err != nil {
			return nil, fmt.Errorf("failed to link payment order: %w", err)
		}
	}

	return &PaymentOrderResponse{
		OrderID:  gwOrder.ID,
		Amount:   gwOrder.Amount,
		Currency: gwOrder.Currency,
		KeyID:    s.gateway.KeyID(),
	}, nil
}

// VerifyPayment checks the callback signature and, when the gateway order is
// linked to an internal order, marks that order paid.
func (s *PaymentService) VerifyPayment(ctx context.Context, req VerifyPaymentRequest) (*VerifyPaymentResponse, error) {
	if !s.gateway.SecretConfigured() {
		s.recorder.PaymentVerification("unconfigured")
		return nil, common.ErrSecretUnconfigured
	}
	if req.RazorpayOrderID == "" || req.RazorpayPaymentID == "" || req.RazorpaySignature == "" {
		return nil, common.NewError(common.ErrValidation, "razorpay_order_id, razorpay_payment_id and razorpay_signature are required")
	}
	if !s.gateway.VerifyCallback(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		s.recorder.PaymentVerification("invalid")
		logger.FromContext(ctx).Warn("payment signature mismatch", "razorpay_order_id", req.RazorpayOrderID)
		return nil, common.NewError(common.ErrValidation, "Invalid payment signature")
	}
	s.recorder.PaymentVerification("verified")

	err := s.orderRepo.MarkPaid(ctx, req.RazorpayOrderID, req.RazorpayPaymentID, s.now().UTC())
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to mark order paid: %w", err)
	}
	return &VerifyPaymentResponse{Status: "verified"}, nil
}
