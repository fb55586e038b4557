package dashboardhandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"attendly/internal/domain/auth"
	"attendly/internal/domain/reports"
	"attendly/internal/domain/users"
	"attendly/internal/transport/http/api"
	"attendly/internal/transport/http/middleware"
)

type UserLookup interface {
	GetByID(ctx context.Context, id string) (users.User, error)
}

type Handler struct {
	Service *reports.Service
	Users   UserLookup
}

func NewHandler(service *reports.Service, lookup UserLookup) *Handler {
	return &Handler{Service: service, Users: lookup}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/dashboard", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermAttendanceSelf)).Get("/employee", h.handleEmployee)
		r.With(middleware.RequirePermission(auth.PermAttendanceTeam)).Get("/manager", h.handleManager)
	})
}

func (h *Handler) handleEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	principal, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	user, err := h.Users.GetByID(r.Context(), principal.UserID)
	if errors.Is(err, users.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "user not found", reqID)
		return
	}
	if err != nil {
		slog.Error("load dashboard user failed", "err", err, "userId", principal.UserID)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "Server error", reqID)
		return
	}

	out, err := h.Service.EmployeeDashboard(r.Context(), user)
	if err != nil {
		slog.Error("employee dashboard failed", "err", err, "userId", user.ID)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "Server error", reqID)
		return
	}
	api.Success(w, out, reqID)
}

func (h *Handler) handleManager(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	out, err := h.Service.ManagerDashboard(r.Context())
	if err != nil {
		slog.Error("manager dashboard failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "Server error", reqID)
		return
	}
	api.Success(w, out, reqID)
}
