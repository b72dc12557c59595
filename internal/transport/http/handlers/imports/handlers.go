package importshandler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrdash/internal/domain/audit"
	"hrdash/internal/domain/auth"
	"hrdash/internal/domain/importer"
	"hrdash/internal/transport/http/api"
	"hrdash/internal/transport/http/middleware"
	"hrdash/internal/transport/http/shared"
)

type Handler struct {
	Service  *importer.Service
	Perms    middleware.PermissionStore
	Audit    *audit.Service
	MaxBytes int64
}

func NewHandler(service *importer.Service, perms middleware.PermissionStore, auditSvc *audit.Service, maxBytes int64) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc, MaxBytes: maxBytes}
}

type decisionRequest struct {
	Decision string `json:"decision" validate:"required,oneof=keep overwrite"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/imports", func(r chi.Router) {
		r.Use(middleware.RequirePermission(auth.PermImportsRun, h.Perms))
		r.Post("/employees", h.handleUpload)
		r.Get("/{sessionID}", h.handleProgress)
		r.Post("/{sessionID}/decisions/{decisionID}", h.handleDecide)
		r.Delete("/{sessionID}", h.handleCancel)
	})
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if err := r.ParseMultipartForm(h.MaxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			api.Fail(w, http.StatusRequestEntityTooLarge, "upload_too_large", "upload exceeds the size limit", reqID)
			return
		}
		api.Fail(w, http.StatusBadRequest, "invalid_upload", "expected multipart form with a file field", reqID)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_upload", "file is required", reqID)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.MaxBytes+1))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_upload", "could not read upload", reqID)
		return
	}
	if int64(len(data)) > h.MaxBytes {
		api.Fail(w, http.StatusRequestEntityTooLarge, "upload_too_large", "upload exceeds the size limit", reqID)
		return
	}

	session, err := h.Service.Start(filepath.Base(header.Filename), data)
	if err != nil {
		switch {
		case errors.Is(err, importer.ErrUnsupportedFormat),
			errors.Is(err, importer.ErrNoWorksheet),
			errors.Is(err, importer.ErrEmptyWorksheet):
			api.Fail(w, http.StatusBadRequest, "invalid_upload", err.Error(), reqID)
		default:
			api.Fail(w, http.StatusUnprocessableEntity, "invalid_sheet", err.Error(), reqID)
		}
		return
	}
	slog.Info("employee import started", "sessionId", session.ID(), "filename", header.Filename, "bytes", len(data))
	api.WriteJSON(w, http.StatusAccepted, api.Envelope{Success: true, Data: session.Progress(), RequestID: reqID})
}

func (h *Handler) handleProgress(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	p, err := h.Service.Progress(chi.URLParam(r, "sessionID"))
	if err != nil {
		h.fail(w, err, reqID)
		return
	}
	api.Success(w, p, reqID)
}

func (h *Handler) handleDecide(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload decisionRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	payload.Decision = strings.ToLower(strings.TrimSpace(payload.Decision))
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, reqID) {
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	decisionID := chi.URLParam(r, "decisionID")
	if err := h.Service.Decide(sessionID, decisionID, importer.Decision(payload.Decision)); err != nil {
		h.fail(w, err, reqID)
		return
	}
	after := map[string]string{"sessionId": sessionID, "decision": payload.Decision}
	if err := h.Audit.Record(r.Context(), user.UserID, audit.ActionImportDecision, "import_checkpoint", decisionID, nil, after); err != nil {
		slog.Warn("audit record failed", "action", audit.ActionImportDecision, "err", err)
	}
	api.Success(w, after, reqID)
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if err := h.Service.Cancel(chi.URLParam(r, "sessionID")); err != nil {
		h.fail(w, err, reqID)
		return
	}
	api.Success(w, map[string]string{"status": "cancelling"}, reqID)
}

func (h *Handler) fail(w http.ResponseWriter, err error, reqID string) {
	switch {
	case errors.Is(err, importer.ErrSessionNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), reqID)
	case errors.Is(err, importer.ErrDecisionNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), reqID)
	case errors.Is(err, importer.ErrAlreadyResolved):
		api.Fail(w, http.StatusConflict, "already_resolved", err.Error(), reqID)
	case errors.Is(err, importer.ErrInvalidDecision):
		shared.FailField(w, reqID, "decision", "must be one of: keep, overwrite")
	default:
		api.Fail(w, http.StatusInternalServerError, "import_failed", err.Error(), reqID)
	}
}
