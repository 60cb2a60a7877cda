package handler

import (
	"net/http"

	"cocoa_backend/internal/api/middleware"
	"cocoa_backend/internal/app/service"
	"cocoa_backend/internal/common"

	"github.com/go-chi/chi/v5"
)

type OrderHandler struct {
	orderService *service.OrderService
	guard        *middleware.Guard
}

func NewOrderHandler(os *service.OrderService, guard *middleware.Guard) *OrderHandler {
	return &OrderHandler{orderService: os, guard: guard}
}

// RegisterRoutes mounts the customer facing order routes (/api/orders).
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Use(h.guard.RequireUser)
	r.Post("/", h.createOrder)
	r.Get("/my", h.listMyOrders)
	r.Get("/my-orders", h.listMyOrders) // older clients
	r.Get("/{orderID}", h.getOrder)
}

// RegisterAdminRoutes mounts order management under /api/admin.
func (h *OrderHandler) RegisterAdminRoutes(r chi.Router) {
	r.Use(h.guard.RequireUser)
	r.Use(middleware.AdminOnly)
	r.Get("/orders", h.listAllOrders)
	r.Put("/orders/{orderID}/status", h.updateStatus)
	r.Patch("/orders/{orderID}/status", h.updateStatus)
}

func (h *OrderHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.CreateOrderRequest
	if err := common.DecodeJSON(w, r, &req); err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	order, err := h.orderService.CreateOrder(r.Context(), user, req)
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) listMyOrders(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	orders, err := h.orderService.ListForUser(r.Context(), user)
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	order, err := h.orderService.GetOrder(r.Context(), user, chi.URLParam(r, "orderID"))
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) listAllOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status := q.Get("status")
	if status == "" {
		status = q.Get("status_filter")
	}
	orders, err := h.orderService.ListAll(r.Context(), status)
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateOrderStatusRequest
	if err := common.DecodeJSON(w, r, &req); err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	if err := h.orderService.UpdateStatus(r.Context(), chi.URLParam(r, "orderID"), req); err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.MessageResponse{Message: "Order status updated successfully"})
}
