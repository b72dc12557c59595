package reportshandler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrdash/internal/domain/auth"
	"hrdash/internal/domain/exports"
	"hrdash/internal/domain/reports"
	"hrdash/internal/transport/http/api"
	"hrdash/internal/transport/http/middleware"
	"hrdash/internal/transport/http/shared"
)

type Handler struct {
	Service *reports.Service
	Perms   middleware.PermissionStore
}

func NewHandler(service *reports.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Use(middleware.RequirePermission(auth.PermReportsRead, h.Perms))
		r.Get("/dashboard", h.handleDashboard)
		r.Get("/financial", h.handleFinancial)
		r.Get("/financial/export", h.handleFinancialExport)
		r.Get("/jobs", h.handleJobRuns)
	})
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	d, err := h.Service.Dashboard(r.Context())
	if err != nil {
		api.FailRemote(w, "dashboard_failed", err, reqID)
		return
	}
	api.Success(w, d, reqID)
}

func (h *Handler) handleFinancial(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	report, err := h.Service.Financial(r.Context())
	if err != nil {
		api.FailRemote(w, "financial_report_failed", err, reqID)
		return
	}
	api.Success(w, report, reqID)
}

func (h *Handler) handleFinancialExport(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	format, err := exports.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_format", err.Error(), reqID)
		return
	}
	report, err := h.Service.Financial(r.Context())
	if err != nil {
		api.FailRemote(w, "financial_report_failed", err, reqID)
		return
	}

	header, rows := reports.FinancialRows(report)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", "attachment; filename="+format.Filename("financial-report"))
	if err := exports.Write(w, format, "Financial", header, rows); err != nil {
		slog.Warn("financial export failed", "err", err)
	}
}

func (h *Handler) handleJobRuns(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	q := r.URL.Query()
	filter := reports.JobRunFilter{
		JobType: strings.TrimSpace(q.Get("jobType")),
		Status:  strings.TrimSpace(q.Get("status")),
	}
	v := shared.NewValidator()
	filter.StartedFrom, filter.StartedTo = v.DayRange(q, "from", "to")
	if v.Reject(w, reqID) {
		return
	}

	page := shared.ParsePagination(r, 50, 200)
	runs, total, err := h.Service.JobRuns(r.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		api.FailRemote(w, "job_runs_failed", err, reqID)
		return
	}
	shared.SetCount(w, shared.TotalCountHeader, total)
	api.Success(w, runs, reqID)
}
