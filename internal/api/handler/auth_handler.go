package handler

import (
	"net/http"

	"cocoa_backend/internal/api/middleware"
	"cocoa_backend/internal/app/service"
	"cocoa_backend/internal/common"

	"github.com/go-chi/chi/v5"
)

type AuthHandler struct {
	authService *service.AuthService
	guard       *middleware.Guard
	limiter     func(http.Handler) http.Handler
}

// NewAuthHandler wires the auth routes. limiter guards signup and login.
func NewAuthHandler(authService *service.AuthService, guard *middleware.Guard, limiter func(http.Handler) http.Handler) *AuthHandler {
	return &AuthHandler{authService: authService, guard: guard, limiter: limiter}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(public chi.Router) {
		if h.limiter != nil {
			public.Use(h.limiter)
		}
		public.Post("/signup", h.signup)
		public.Post("/login", h.login)
	})
	r.With(h.guard.RequireUser).Get("/me", h.me)
}

func (h *AuthHandler) signup(w http.ResponseWriter, r *http.Request) {
	var req service.SignupRequest
	if err := common.DecodeJSON(w, r, &req); err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}

	resp, err := h.authService.Signup(r.Context(), req)
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := common.DecodeJSON(w, r, &req); err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	resp, err := h.authService.Login(r.Context(), req)
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}
