package handler

import (
	"net/http"

	"cocoa_backend/internal/api/middleware"
	"cocoa_backend/internal/app/service"
	"cocoa_backend/internal/common"

	"github.com/go-chi/chi/v5"
)

type TestimonialHandler struct {
	testimonialService *service.TestimonialService
	guard              *middleware.Guard
}

func NewTestimonialHandler(ts *service.TestimonialService, guard *middleware.Guard) *TestimonialHandler {
	return &TestimonialHandler{testimonialService: ts, guard: guard}
}

func (h *TestimonialHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.With(h.guard.RequireUser).Post("/", h.create)
}

func (h *TestimonialHandler) list(w http.ResponseWriter, r *http.Request) {
	out, err := h.testimonialService.List(r.Context())
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, out)
}

func (h *TestimonialHandler) create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	var req service.CreateTestimonialRequest
	if err := common.DecodeJSON(w, r, &req); err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	t, err := h.testimonialService.Create(r.Context(), user, req)
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, t)
}
