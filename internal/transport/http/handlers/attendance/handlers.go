package attendancehandler

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"attendly/internal/domain/attendance"
	"attendly/internal/domain/auth"
	"attendly/internal/domain/users"
	"attendly/internal/platform/metrics"
	"attendly/internal/transport/http/api"
	"attendly/internal/transport/http/middleware"
	"attendly/internal/transport/http/shared"
)

type Handler struct {
	Service     *attendance.Service
	Users       attendance.Directory
	Metrics     *metrics.Collector
	MaxPageSize int
}

func NewHandler(service *attendance.Service, directory attendance.Directory, collector *metrics.Collector, maxPageSize int) *Handler {
	return &Handler{Service: service, Users: directory, Metrics: collector, MaxPageSize: maxPageSize}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	self := middleware.RequirePermission(auth.PermAttendanceSelf)
	team := middleware.RequirePermission(auth.PermAttendanceTeam)
	export := middleware.RequirePermission(auth.PermAttendanceExport)

	r.Route("/attendance", func(r chi.Router) {
		r.With(self).Post("/checkin", h.handleCheckIn)
		r.With(self).Post("/checkout", h.handleCheckOut)
		r.With(self).Get("/my-history", h.handleMyHistory)
		r.With(self).Get("/my-summary", h.handleMySummary)
		r.With(self).Get("/today", h.handleToday)

		r.With(team).Get("/all", h.handleAll)
		r.With(team).Get("/employee/{id}", h.handleEmployee)
		r.With(team).Get("/summary", h.handleTeamSummary)
		r.With(team).Get("/today-status", h.handleTodayStatus)
		r.With(team).Get("/team-calendar", h.handleTeamCalendar)

		r.With(export).Get("/export", h.handleExport)
	})
}

func (h *Handler) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	rec, err := h.Service.CheckIn(r.Context(), user.UserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.Metrics.CheckIn()
	api.Success(w, map[string]any{"message": "Checked in", "attendance": rec}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCheckOut(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	rec, err := h.Service.CheckOut(r.Context(), user.UserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.Metrics.CheckOut()
	api.Success(w, map[string]any{"message": "Checked out", "attendance": rec}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMyHistory(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	records, err := h.Service.History(r.Context(), user.UserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	api.Success(w, records, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMySummary(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	principal, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	v := shared.NewValidator()
	q := r.URL.Query()
	year, month := v.YearMonth(q.Get("year"), q.Get("month"), h.Service.Today())
	if v.Reject(w, reqID) {
		return
	}

	user, err := h.Users.GetByID(r.Context(), principal.UserID)
	if errors.Is(err, users.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "user not found", reqID)
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	summary, err := h.Service.MonthlySummary(r.Context(), user, year, month)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	api.Success(w, summary, reqID)
}

func (h *Handler) handleToday(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	status, err := h.Service.TodayStatus(r.Context(), user.UserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	api.Success(w, status, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAll(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	q := r.URL.Query()
	v := shared.NewValidator()
	date := v.OptionalDate("date", q.Get("date"))
	status := strings.TrimSpace(q.Get("status"))
	v.Enum("status", status, storedStatusNames(), "must be one of: present, late, half-day")
	if v.Reject(w, reqID) {
		return
	}

	page := shared.ParsePagination(r, shared.DefaultLimit, h.MaxPageSize)
	result, err := h.Service.List(r.Context(), attendance.ListQuery{
		EmployeeID: strings.TrimSpace(q.Get("employeeId")),
		Date:       date,
		Status:     attendance.Status(strings.ToLower(status)),
		Page:       page.Page,
		Limit:      page.Limit,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	shared.SetTotalCount(w, result.Total)
	api.Success(w, result, reqID)
}

func (h *Handler) handleEmployee(w http.ResponseWriter, r *http.Request) {
	records, err := h.Service.EmployeeHistory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	api.Success(w, records, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleTeamSummary(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	q := r.URL.Query()
	v := shared.NewValidator()
	from := v.OptionalDate("startDate", q.Get("startDate"))
	to := v.OptionalDate("endDate", q.Get("endDate"))
	v.DateOrder("startDate", from, "endDate", to)
	if v.Reject(w, reqID) {
		return
	}

	breakdown, err := h.Service.DepartmentBreakdown(r.Context(), from, to)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	api.Success(w, breakdown, reqID)
}

func (h *Handler) handleTodayStatus(w http.ResponseWriter, r *http.Request) {
	roster, err := h.Service.Roster(r.Context(), h.Service.Today())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	api.Success(w, roster, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleTeamCalendar(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	q := r.URL.Query()
	v := shared.NewValidator()
	year, month := v.YearMonth(q.Get("year"), q.Get("month"), h.Service.Today())
	if v.Reject(w, reqID) {
		return
	}

	rows, err := h.Service.TeamCalendar(r.Context(), year, month)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	api.Success(w, rows, reqID)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	q := r.URL.Query()
	v := shared.NewValidator()
	from := v.OptionalDate("startDate", q.Get("startDate"))
	to := v.OptionalDate("endDate", q.Get("endDate"))
	v.DateOrder("startDate", from, "endDate", to)
	format := strings.ToLower(strings.TrimSpace(q.Get("format")))
	if format == "" {
		format = "csv"
	}
	v.Enum("format", format, []string{"csv", "pdf"}, "must be csv or pdf")
	if v.Reject(w, reqID) {
		return
	}

	rows, err := h.Service.ExportRows(r.Context(), attendance.ExportQuery{
		EmployeeID: strings.TrimSpace(q.Get("employeeId")),
		From:       from,
		To:         to,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	contentType := "text/csv"
	if format == "pdf" {
		contentType = "application/pdf"
		err = attendance.WritePDF(&buf, rows, "Attendance export")
	} else {
		err = attendance.WriteCSV(&buf, rows)
	}
	if err != nil {
		slog.Error("render export failed", "format", format, "err", err, "requestId", reqID)
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to export attendance", reqID)
		return
	}

	h.Metrics.Export(len(rows))
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename=attendance_export."+format)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("write export failed", "err", err, "requestId", reqID)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	reqID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		h.Metrics.Conflict()
		api.Fail(w, http.StatusConflict, "already_checked_in", "Already checked in today", reqID)
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		h.Metrics.Conflict()
		api.Fail(w, http.StatusConflict, "already_checked_out", "Already checked out today", reqID)
	case errors.Is(err, attendance.ErrNoCheckInFound):
		h.Metrics.Conflict()
		api.Fail(w, http.StatusBadRequest, "no_check_in", "No check-in found for today", reqID)
	case errors.Is(err, attendance.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "employee_not_found", "Employee not found", reqID)
	case errors.Is(err, attendance.ErrInvalidMonth):
		shared.FailValidation(w, reqID, []shared.ValidationIssue{{Field: "month", Reason: "must be between 1 and 12"}})
	case errors.Is(err, attendance.ErrInvalidRange):
		shared.FailValidation(w, reqID, []shared.ValidationIssue{{Field: "startDate", Reason: "must be on or before endDate"}})
	default:
		slog.Error("attendance request failed", "path", r.URL.Path, "err", err, "requestId", reqID)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "Server error", reqID)
	}
}

func storedStatusNames() []string {
	names := make([]string, 0, len(attendance.StoredStatuses))
	for _, s := range attendance.StoredStatuses {
		names = append(names, string(s))
	}
	return names
}
