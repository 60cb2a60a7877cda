package handler

import (
	"net/http"

	"cocoa_backend/internal/api/middleware"
	"cocoa_backend/internal/app/service"
	"cocoa_backend/internal/common"

	"github.com/go-chi/chi/v5"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
	guard          *middleware.Guard
}

func NewPaymentHandler(ps *service.PaymentService, guard *middleware.Guard) *PaymentHandler {
	return &PaymentHandler{paymentService: ps, guard: guard}
}

func (h *PaymentHandler) RegisterRoutes(r chi.Router) {
	// A token is only needed when linking an internal order.
	r.With(h.guard.OptionalUser).Post("/create-order", h.createOrder)
	r.Post("/verify", h.verify)
}

func (h *PaymentHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req service.CreatePaymentOrderRequest
	if err := common.DecodeJSON(w, r, &req); err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	caller, _ := middleware.UserFromContext(r.Context())

	resp, err := h.paymentService.CreatePaymentOrder(r.Context(), caller, req)
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *PaymentHandler) verify(w http.ResponseWriter, r *http.Request) {
	var req service.VerifyPaymentRequest
	if err := common.DecodeJSON(w, r, &req); err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	resp, err := h.paymentService.VerifyPayment(r.Context(), req)
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}
