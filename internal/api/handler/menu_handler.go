package handler

import (
	"net/http"

	"cocoa_backend/internal/api/middleware"
	"cocoa_backend/internal/app/service"
	"cocoa_backend/internal/common"

	"github.com/go-chi/chi/v5"
)

type MenuHandler struct {
	menuService *service.MenuService
	guard       *middleware.Guard
}

func NewMenuHandler(ms *service.MenuService, guard *middleware.Guard) *MenuHandler {
	return &MenuHandler{menuService: ms, guard: guard}
}

func (h *MenuHandler) RegisterRoutes(r chi.Router) {
	r.Get("/items", h.listItems)           // GET /api/menu/items?category=
	r.Get("/items/{itemID}", h.getItem)    // id or slug
	r.Get("/categories", h.listCategories) // GET /api/menu/categories

	r.Group(func(admin chi.Router) {
		admin.Use(h.guard.RequireUser)
		admin.Use(middleware.AdminOnly)
		admin.Post("/items", h.createItem)
		admin.Put("/items/{itemID}", h.updateItem)
		admin.Patch("/items/{itemID}", h.updateItem)
		admin.Delete("/items/{itemID}", h.deleteItem)
	})
}

func (h *MenuHandler) listItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.menuService.ListAvailable(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, items)
}

func (h *MenuHandler) getItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.menuService.GetAvailable(r.Context(), chi.URLParam(r, "itemID"))
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, item)
}

func (h *MenuHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	resp, err := h.menuService.Categories(r.Context())
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *MenuHandler) createItem(w http.ResponseWriter, r *http.Request) {
	var req service.CreateMenuItemRequest
	if err := common.DecodeJSON(w, r, &req); err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	item, err := h.menuService.CreateMenuItem(r.Context(), req)
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, item)
}

func (h *MenuHandler) updateItem(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateMenuItemRequest
	if err := common.DecodeJSON(w, r, &req); err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	item, err := h.menuService.UpdateMenuItem(r.Context(), chi.URLParam(r, "itemID"), req)
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, item)
}

func (h *MenuHandler) deleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.menuService.DeleteMenuItem(r.Context(), chi.URLParam(r, "itemID")); err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.MessageResponse{Message: "Menu item deleted successfully"})
}
