package bankhandler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrdash/internal/domain/audit"
	"hrdash/internal/domain/auth"
	"hrdash/internal/domain/bank"
	"hrdash/internal/transport/http/api"
	"hrdash/internal/transport/http/middleware"
	"hrdash/internal/transport/http/shared"
)

func init() {
	shared.RegisterTag("eg_iban", bank.ValidateIBAN)
}

type Handler struct {
	Service *bank.Service
	Perms   middleware.PermissionStore
	Audit   *audit.Service
}

func NewHandler(service *bank.Service, perms middleware.PermissionStore, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/bank/accounts", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermBankRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermBankRead, h.Perms)).Get("/{employeeID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermBankWrite, h.Perms)).Put("/{employeeID}", h.handleUpsert)
	})
}

// handleList masks account numbers; the full values are only returned per
// employee.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	accounts, err := h.Service.List(r.Context())
	if err != nil {
		api.FailRemote(w, "bank_accounts_failed", err, reqID)
		return
	}
	for i := range accounts {
		accounts[i].AccountNumber = bank.MaskAccount(accounts[i].AccountNumber)
		accounts[i].IBAN = bank.MaskAccount(accounts[i].IBAN)
	}
	api.Success(w, accounts, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	acc, err := h.Service.Get(r.Context(), chi.URLParam(r, "employeeID"))
	if errors.Is(err, bank.ErrAccountNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "bank account not found", reqID)
		return
	}
	if err != nil {
		api.FailRemote(w, "bank_account_failed", err, reqID)
		return
	}
	api.Success(w, acc, reqID)
}

func (h *Handler) handleUpsert(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload bank.Account
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	payload.EmployeeID = chi.URLParam(r, "employeeID")
	payload.IBAN = bank.NormalizeIBAN(payload.IBAN)

	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, reqID) {
		return
	}

	saved, err := h.Service.Save(r.Context(), payload)
	if errors.Is(err, bank.ErrInvalidIBAN) || errors.Is(err, bank.ErrBankNameMissing) {
		api.Fail(w, http.StatusBadRequest, "validation_error", err.Error(), reqID)
		return
	}
	if err != nil {
		api.FailRemote(w, "bank_account_save_failed", err, reqID)
		return
	}
	masked := map[string]string{"bankName": saved.BankName, "iban": bank.MaskAccount(saved.IBAN)}
	if err := h.Audit.Record(r.Context(), user.UserID, audit.ActionBankAccountUpsert, "employee_bank_account", saved.EmployeeID, nil, masked); err != nil {
		slog.Warn("audit bank.account.upsert failed", "err", err)
	}
	api.Success(w, saved, reqID)
}
