package audithandler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hrdash/internal/domain/audit"
	"hrdash/internal/domain/auth"
	"hrdash/internal/domain/exports"
	"hrdash/internal/transport/http/api"
	"hrdash/internal/transport/http/middleware"
	"hrdash/internal/transport/http/shared"
)

const exportLimit = 5000

type Handler struct {
	Service *audit.Service
	Perms   middleware.PermissionStore
}

func NewHandler(service *audit.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/audit", func(r chi.Router) {
		r.Use(middleware.RequirePermission(auth.PermAuditRead, h.Perms))
		r.Get("/events", h.handleListEvents)
		r.Get("/events/export", h.handleExportEvents)
	})
}

// filterFrom reads the query filters. It writes a validation failure and
// returns false when the date bounds are malformed.
func filterFrom(w http.ResponseWriter, r *http.Request, reqID string) (audit.Filter, bool) {
	q := r.URL.Query()
	f := audit.Filter{
		Action:     q.Get("action"),
		EntityType: q.Get("entityType"),
		EntityID:   q.Get("entityId"),
		ActorUser:  q.Get("actorUserId"),
	}
	v := shared.NewValidator()
	f.From, f.To = v.DayRange(q, "from", "to")
	return f, !v.Reject(w, reqID)
}

func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	filter, ok := filterFrom(w, r, reqID)
	if !ok {
		return
	}
	page := shared.ParsePagination(r, 100, 500)
	total, err := h.Service.Count(r.Context(), filter)
	if err != nil {
		slog.Warn("audit count failed", "err", err)
	}

	events, err := h.Service.List(r.Context(), filter, shared.QueryFlag(r, "includeDetails"), page.Limit, page.Offset)
	if err != nil {
		api.FailRemote(w, "audit_list_failed", err, reqID)
		return
	}

	shared.SetCount(w, shared.TotalCountHeader, total)
	api.Success(w, events, reqID)
}

func (h *Handler) handleExportEvents(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	format, err := exports.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_format", err.Error(), reqID)
		return
	}
	filter, ok := filterFrom(w, r, reqID)
	if !ok {
		return
	}
	events, err := h.Service.List(r.Context(), filter, false, exportLimit, 0)
	if err != nil {
		api.FailRemote(w, "audit_export_failed", err, reqID)
		return
	}

	header := []string{"ID", "Actor", "Action", "Entity Type", "Entity ID", "Request ID", "IP", "Created At"}
	rows := make([][]string, 0, len(events))
	for _, evt := range events {
		rows = append(rows, []string{evt.ID, evt.ActorID, evt.Action, evt.EntityType, evt.EntityID, evt.RequestID, evt.IP, evt.CreatedAt.UTC().Format(time.RFC3339)})
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", "attachment; filename="+format.Filename("audit-events"))
	if err := exports.Write(w, format, "Audit", header, rows); err != nil {
		slog.Warn("audit export failed", "err", err)
	}
}
