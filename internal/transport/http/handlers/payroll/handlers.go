package payrollhandler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"hrdash/internal/domain/appstate"
	"hrdash/internal/domain/audit"
	"hrdash/internal/domain/auth"
	"hrdash/internal/domain/exports"
	"hrdash/internal/domain/payroll"
	"hrdash/internal/transport/http/api"
	"hrdash/internal/transport/http/middleware"
	"hrdash/internal/transport/http/shared"
)

const endpointCreateBatch = "payroll.batch.create"

type Handler struct {
	Service     *payroll.Service
	State       *appstate.Service
	Perms       middleware.PermissionStore
	Audit       *audit.Service
	Idempotency *middleware.IdempotencyStore
}

func NewHandler(service *payroll.Service, state *appstate.Service, perms middleware.PermissionStore, auditSvc *audit.Service, idem *middleware.IdempotencyStore) *Handler {
	return &Handler{Service: service, State: state, Perms: perms, Audit: auditSvc, Idempotency: idem}
}

type createBatchRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

type purgeRequest struct {
	Confirm      bool `json:"confirm"`
	ConfirmAgain bool `json:"confirmAgain"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermPayrollPurge, h.Perms)).Delete("/all", h.handlePurgeAll)
		r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/transfers", h.handleListTransfers)
		r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/transfers/export", h.handleExportTransfers)
		r.Route("/batches", func(r chi.Router) {
			r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/", h.handleListBatches)
			r.With(middleware.RequirePermission(auth.PermPayrollWrite, h.Perms)).Post("/", h.handleCreateBatch)
			r.Route("/{batchID}", func(r chi.Router) {
				r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/", h.handleGetBatch)
				r.With(middleware.RequirePermission(auth.PermPayrollWrite, h.Perms)).Delete("/", h.handleDeleteBatch)
				r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/records", h.handleListRecords)
				r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/pdf", h.handleBatchPDF)
				r.With(middleware.RequirePermission(auth.PermPayrollWrite, h.Perms)).Post("/recompute", h.handleRecompute)
				r.With(middleware.RequirePermission(auth.PermPayrollWrite, h.Perms)).Post("/notify", h.handleNotify)
				r.With(middleware.RequirePermission(auth.PermPayrollPay, h.Perms)).Post("/pay", h.handlePay)
			})
		})
	})
}

func (h *Handler) handleListBatches(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 50, 200)
	batches, err := h.Service.ListBatches(r.Context(), page.Limit, page.Offset)
	if err != nil {
		api.FailRemote(w, "payroll_batches_failed", err, reqID)
		return
	}
	api.Success(w, batches, reqID)
}

// handleCreateBatch builds a batch from the current employee list. Chunk
// failures do not fail the request; they come back as a warning with 201.
func (h *Handler) handleCreateBatch(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", reqID)
			return
		}
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	var payload createBatchRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, reqID) {
		return
	}

	idempotencyKey := r.Header.Get(middleware.IdempotencyHeader)
	requestHash := middleware.RequestHash(body)
	if idempotencyKey != "" {
		stored, found, err := h.Idempotency.Check(r.Context(), user.UserID, endpointCreateBatch, idempotencyKey, requestHash)
		if errors.Is(err, middleware.ErrIdempotencyConflict) {
			api.Fail(w, http.StatusConflict, "idempotency_conflict", err.Error(), reqID)
			return
		}
		if err != nil {
			slog.Warn("idempotency check failed", "err", err)
		}
		if found {
			api.Created(w, json.RawMessage(stored), reqID)
			return
		}
	}

	result, err := h.Service.CreateBatch(r.Context(), payload.Name)
	if errors.Is(err, payroll.ErrBatchNameRequired) {
		shared.FailField(w, reqID, "name", "is required")
		return
	}
	if errors.Is(err, payroll.ErrTotalsNotPatched) {
		slog.Error("payroll batch header left unpatched", "batchId", result.Batch.ID, "err", err)
		api.FailWithDetails(w, http.StatusInternalServerError, "payroll_totals_not_patched", err.Error(), map[string]any{
			"batchId": result.Batch.ID,
			"warning": result.Warning,
		}, reqID)
		return
	}
	if err != nil {
		api.FailRemote(w, "payroll_batch_create_failed", err, reqID)
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, audit.ActionPayrollBatchCreate, "payroll_batch", result.Batch.ID, nil, result.Batch); err != nil {
		slog.Warn("audit payroll.batch.create failed", "err", err)
	}
	if idempotencyKey != "" {
		if encoded, err := json.Marshal(result); err == nil {
			if err := h.Idempotency.Save(r.Context(), user.UserID, endpointCreateBatch, idempotencyKey, requestHash, encoded); err != nil {
				slog.Warn("idempotency save failed", "err", err)
			}
		}
	}
	api.Created(w, result, reqID)
}

func (h *Handler) handleGetBatch(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	batch, err := h.Service.GetBatch(r.Context(), chi.URLParam(r, "batchID"))
	if h.failBatch(w, err, "payroll_batch_failed", reqID) {
		return
	}
	api.Success(w, batch, reqID)
}

func (h *Handler) handleDeleteBatch(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	batchID := chi.URLParam(r, "batchID")

	before, err := h.Service.GetBatch(r.Context(), batchID)
	if h.failBatch(w, err, "payroll_batch_delete_failed", reqID) {
		return
	}
	if err := h.Service.DeleteBatch(r.Context(), batchID); h.failBatch(w, err, "payroll_batch_delete_failed", reqID) {
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, audit.ActionPayrollBatchDelete, "payroll_batch", batchID, before, nil); err != nil {
		slog.Warn("audit payroll.batch.delete failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "deleted"}, reqID)
}

func (h *Handler) handleListRecords(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	records, err := h.Service.ListRecords(r.Context(), chi.URLParam(r, "batchID"))
	if h.failBatch(w, err, "payroll_records_failed", reqID) {
		return
	}
	api.Success(w, records, reqID)
}

func (h *Handler) handleBatchPDF(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	batchID := chi.URLParam(r, "batchID")
	batch, err := h.Service.GetBatch(r.Context(), batchID)
	if h.failBatch(w, err, "payroll_pdf_failed", reqID) {
		return
	}
	records, err := h.Service.ListRecords(r.Context(), batchID)
	if h.failBatch(w, err, "payroll_pdf_failed", reqID) {
		return
	}

	var buf bytes.Buffer
	if err := payroll.WriteBatchSummary(&buf, batch, records); err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_pdf_failed", "failed to render batch summary", reqID)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=payroll-batch-"+batchID+".pdf")
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("batch pdf write failed", "batchId", batchID, "err", err)
	}
}

func (h *Handler) handleRecompute(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	batch, err := h.Service.Recompute(r.Context(), chi.URLParam(r, "batchID"))
	if h.failBatch(w, err, "payroll_recompute_failed", reqID) {
		return
	}
	api.Success(w, batch, reqID)
}

func (h *Handler) handleNotify(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	sent, err := h.Service.Notify(r.Context(), chi.URLParam(r, "batchID"))
	if h.failBatch(w, err, "payroll_notify_failed", reqID) {
		return
	}
	api.Success(w, map[string]any{"status": payroll.BatchStatusProcessing, "notified": sent}, reqID)
}

func (h *Handler) handlePay(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	batchID := chi.URLParam(r, "batchID")

	batch, updated, err := h.Service.Pay(r.Context(), batchID)
	if h.failBatch(w, err, "payroll_pay_failed", reqID) {
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, audit.ActionPayrollBatchPay, "payroll_batch", batchID, nil, map[string]any{"recordsPaid": updated, "totalAmount": batch.TotalAmount}); err != nil {
		slog.Warn("audit payroll.batch.pay failed", "err", err)
	}
	api.Success(w, map[string]any{"batch": batch, "recordsPaid": updated}, reqID)
}

func (h *Handler) handlePurgeAll(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload purgeRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}

	result, err := h.Service.PurgeAll(r.Context(), payload.Confirm, payload.ConfirmAgain)
	if errors.Is(err, payroll.ErrConfirmationRequired) {
		api.Fail(w, http.StatusPreconditionFailed, "confirmation_required", err.Error(), reqID)
		return
	}
	if auditErr := h.Audit.Record(r.Context(), user.UserID, audit.ActionPayrollPurgeAll, "payroll", "", nil, result); auditErr != nil {
		slog.Warn("audit payroll.purge_all failed", "err", auditErr)
	}
	if err != nil {
		api.FailWithDetails(w, http.StatusInternalServerError, "payroll_purge_incomplete", err.Error(), result, reqID)
		return
	}
	api.Success(w, result, reqID)
}

func (h *Handler) handleListTransfers(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	transfers, ok := h.transfers(w, r, reqID)
	if !ok {
		return
	}
	api.Success(w, transfers, reqID)
}

func (h *Handler) handleExportTransfers(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	rawFormat := r.URL.Query().Get("format")
	var format exports.Format
	if rawFormat != "pdf" {
		parsed, err := exports.ParseFormat(rawFormat)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_format", err.Error(), reqID)
			return
		}
		format = parsed
	}
	transfers, ok := h.transfers(w, r, reqID)
	if !ok {
		return
	}

	if rawFormat == "pdf" {
		var buf bytes.Buffer
		if err := payroll.WriteTransferStatement(&buf, transfers, time.Now()); err != nil {
			api.Fail(w, http.StatusInternalServerError, "transfer_pdf_failed", "failed to render transfer statement", reqID)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", "attachment; filename=bank-transfers.pdf")
		if _, err := buf.WriteTo(w); err != nil {
			slog.Warn("transfer pdf write failed", "err", err)
		}
		return
	}

	header := []string{"Employee", "Account Number", "Bank", "Amount", "Status", "Date"}
	rows := make([][]string, 0, len(transfers))
	for _, t := range transfers {
		rows = append(rows, []string{
			t.EmployeeName,
			t.AccountNumber,
			t.BankName,
			strconv.FormatFloat(t.Amount, 'f', 2, 64),
			string(t.Status),
			t.CreatedAt.Format("2006-01-02"),
		})
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", "attachment; filename="+format.Filename("bank-transfers"))
	if err := exports.Write(w, format, "Transfers", header, rows); err != nil {
		slog.Warn("transfer export failed", "err", err)
	}
}

// transfers lists recent transfers limited to the currently loaded active
// employees.
func (h *Handler) transfers(w http.ResponseWriter, r *http.Request, reqID string) ([]payroll.Transfer, bool) {
	var active map[string]bool
	if h.State != nil {
		snap, err := h.State.Current(r.Context())
		if err != nil {
			api.FailRemote(w, "state_load_failed", err, reqID)
			return nil, false
		}
		active = snap.ActiveEmployeeIDs()
	}
	transfers, err := h.Service.ListTransfers(r.Context(), active)
	if err != nil {
		api.FailRemote(w, "payroll_transfers_failed", err, reqID)
		return nil, false
	}
	return transfers, true
}

func (h *Handler) failBatch(w http.ResponseWriter, err error, code, reqID string) bool {
	switch {
	case err == nil:
		return false
	case payroll.IsNotFound(err):
		api.Fail(w, http.StatusNotFound, "not_found", "payroll batch not found", reqID)
	case errors.Is(err, payroll.ErrBatchAlreadyPaid):
		api.Fail(w, http.StatusConflict, "already_paid", err.Error(), reqID)
	default:
		api.FailRemote(w, code, err, reqID)
	}
	return true
}
