package corehandler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"hrdash/internal/domain/audit"
	"hrdash/internal/domain/auth"
	"hrdash/internal/domain/core"
	"hrdash/internal/domain/exports"
	"hrdash/internal/transport/http/api"
	"hrdash/internal/transport/http/middleware"
	"hrdash/internal/transport/http/shared"
)

type Handler struct {
	Service *core.Service
	Perms   middleware.PermissionStore
	Audit   *audit.Service
}

func NewHandler(service *core.Service, perms middleware.PermissionStore, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc}
}

type employeeRequest struct {
	UserID       string  `json:"userId" validate:"omitempty,uuid"`
	FirstName    string  `json:"firstName" validate:"required,max=100"`
	LastName     string  `json:"lastName" validate:"max=100"`
	Email        string  `json:"email" validate:"required,email"`
	Phone        string  `json:"phone" validate:"max=40"`
	JobTitle     string  `json:"jobTitle" validate:"max=120"`
	DepartmentID string  `json:"departmentId" validate:"omitempty,uuid"`
	BranchID     string  `json:"branchId" validate:"omitempty,uuid"`
	ShiftID      string  `json:"shiftId" validate:"omitempty,uuid"`
	BasicSalary  float64 `json:"basicSalary" validate:"gte=0"`
	HireDate     string  `json:"hireDate"`
	Status       string  `json:"status"`
}

type nameRequest struct {
	Name string `json:"name" validate:"required,max=120"`
}

type branchRequest struct {
	Name      string   `json:"name" validate:"required,max=120"`
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
}

type shiftRequest struct {
	Name      string `json:"name" validate:"required,max=120"`
	StartTime string `json:"startTime" validate:"omitempty,datetime=15:04"`
	EndTime   string `json:"endTime" validate:"omitempty,datetime=15:04"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/", h.handleListEmployees)
		r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/export", h.handleExportEmployees)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Post("/", h.handleCreateEmployee)
		r.Route("/{employeeID}", func(r chi.Router) {
			r.With(middleware.RequireAuth).Get("/", h.handleGetEmployee)
			r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Put("/", h.handleUpdateEmployee)
			r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Post("/deactivate", h.handleDeactivateEmployee)
		})
	})
	r.Route("/departments", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermOrgRead, h.Perms)).Get("/", h.handleListDepartments)
		r.With(middleware.RequirePermission(auth.PermOrgWrite, h.Perms)).Post("/", h.handleCreateDepartment)
	})
	r.Route("/branches", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermOrgRead, h.Perms)).Get("/", h.handleListBranches)
		r.With(middleware.RequirePermission(auth.PermOrgWrite, h.Perms)).Post("/", h.handleCreateBranch)
	})
	r.Route("/shifts", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermOrgRead, h.Perms)).Get("/", h.handleListShifts)
		r.With(middleware.RequirePermission(auth.PermOrgWrite, h.Perms)).Post("/", h.handleCreateShift)
	})
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	employees, err := h.Service.ListEmployees(r.Context())
	if err != nil {
		api.FailRemote(w, "employee_list_failed", err, reqID)
		return
	}
	for i := range employees {
		core.FilterEmployeeFields(&employees[i], user)
	}
	api.Success(w, employees, reqID)
}

func (h *Handler) handleExportEmployees(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	format, err := exports.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_format", err.Error(), reqID)
		return
	}
	employees, err := h.Service.ListEmployees(r.Context())
	if err != nil {
		api.FailRemote(w, "employee_list_failed", err, reqID)
		return
	}

	header := []string{"Employee ID", "First Name", "Last Name", "Email", "Phone", "Job Title", "Department", "Branch", "Basic Salary", "Hire Date", "Status"}
	rows := make([][]string, 0, len(employees))
	for _, emp := range employees {
		hireDate := ""
		if emp.HireDate != nil {
			hireDate = emp.HireDate.Format("2006-01-02")
		}
		rows = append(rows, []string{
			emp.ID, emp.FirstName, emp.LastName, emp.Email, emp.Phone, emp.JobTitle,
			emp.DepartmentName, emp.BranchName, strconv.FormatFloat(emp.BasicSalary, 'f', 2, 64), hireDate, emp.Status,
		})
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", "attachment; filename="+format.Filename("employees"))
	if err := exports.Write(w, format, "Employees", header, rows); err != nil {
		slog.Warn("employee export failed", "err", err)
	}
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	canReadAll, err := h.Perms.HasPermission(r.Context(), user.Role, auth.PermEmployeesRead)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "permission_error", "permission check failed", reqID)
		return
	}
	if !canReadAll && user.EmployeeID != employeeID {
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", reqID)
		return
	}

	emp, err := h.Service.GetEmployee(r.Context(), employeeID)
	if errors.Is(err, core.ErrEmployeeNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
		return
	}
	if err != nil {
		api.FailRemote(w, "employee_get_failed", err, reqID)
		return
	}
	core.FilterEmployeeFields(emp, user)
	api.Success(w, emp, reqID)
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	emp, ok := h.decodeEmployee(w, r, reqID)
	if !ok {
		return
	}
	id, err := h.Service.CreateEmployee(r.Context(), emp)
	if errors.Is(err, core.ErrDuplicateEmail) {
		api.Fail(w, http.StatusConflict, "duplicate_email", err.Error(), reqID)
		return
	}
	if err != nil {
		api.FailRemote(w, "employee_create_failed", err, reqID)
		return
	}
	api.Created(w, map[string]string{"id": id}, reqID)
}

func (h *Handler) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	emp, ok := h.decodeEmployee(w, r, reqID)
	if !ok {
		return
	}
	err := h.Service.UpdateEmployee(r.Context(), chi.URLParam(r, "employeeID"), emp)
	switch {
	case errors.Is(err, core.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
		return
	case errors.Is(err, core.ErrDuplicateEmail):
		api.Fail(w, http.StatusConflict, "duplicate_email", err.Error(), reqID)
		return
	case err != nil:
		api.FailRemote(w, "employee_update_failed", err, reqID)
		return
	}
	api.Success(w, map[string]string{"status": "updated"}, reqID)
}

func (h *Handler) handleDeactivateEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	employeeID := chi.URLParam(r, "employeeID")
	if err := h.Service.Deactivate(r.Context(), employeeID); err != nil {
		if errors.Is(err, core.ErrEmployeeNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
			return
		}
		api.FailRemote(w, "employee_deactivate_failed", err, reqID)
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, audit.ActionEmployeeDeactivate, "employee", employeeID, nil, map[string]string{"status": core.StatusInactive}); err != nil {
		slog.Warn("audit employee.deactivate failed", "err", err)
	}
	api.Success(w, map[string]string{"status": core.StatusInactive}, reqID)
}

func (h *Handler) decodeEmployee(w http.ResponseWriter, r *http.Request, reqID string) (core.Employee, bool) {
	var payload employeeRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return core.Employee{}, false
	}
	v := shared.NewValidator()
	v.Struct(payload)
	v.OneOf("status", payload.Status, core.EmployeeStatuses)
	var hireDate *time.Time
	if strings.TrimSpace(payload.HireDate) != "" {
		if parsed, ok := v.Date("hireDate", payload.HireDate); ok {
			hireDate = &parsed
		}
	}
	if v.Reject(w, reqID) {
		return core.Employee{}, false
	}
	return core.Employee{
		UserID:       payload.UserID,
		FirstName:    payload.FirstName,
		LastName:     payload.LastName,
		Email:        payload.Email,
		Phone:        payload.Phone,
		JobTitle:     payload.JobTitle,
		DepartmentID: payload.DepartmentID,
		BranchID:     payload.BranchID,
		ShiftID:      payload.ShiftID,
		BasicSalary:  payload.BasicSalary,
		HireDate:     hireDate,
		Status:       payload.Status,
	}, true
}

func (h *Handler) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	departments, err := h.Service.ListDepartments(r.Context())
	if err != nil {
		api.FailRemote(w, "department_list_failed", err, reqID)
		return
	}
	api.Success(w, departments, reqID)
}

func (h *Handler) handleCreateDepartment(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload nameRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, reqID) {
		return
	}
	id, err := h.Service.CreateDepartment(r.Context(), payload.Name)
	if err != nil {
		api.FailRemote(w, "department_create_failed", err, reqID)
		return
	}
	api.Created(w, map[string]string{"id": id}, reqID)
}

func (h *Handler) handleListBranches(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	branches, err := h.Service.ListBranches(r.Context())
	if err != nil {
		api.FailRemote(w, "branch_list_failed", err, reqID)
		return
	}
	api.Success(w, branches, reqID)
}

func (h *Handler) handleCreateBranch(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload branchRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, reqID) {
		return
	}
	id, err := h.Service.CreateBranch(r.Context(), core.Branch{
		Name:      payload.Name,
		Address:   payload.Address,
		Latitude:  payload.Latitude,
		Longitude: payload.Longitude,
	})
	if err != nil {
		api.FailRemote(w, "branch_create_failed", err, reqID)
		return
	}
	api.Created(w, map[string]string{"id": id}, reqID)
}

func (h *Handler) handleListShifts(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	shifts, err := h.Service.ListShifts(r.Context())
	if err != nil {
		api.FailRemote(w, "shift_list_failed", err, reqID)
		return
	}
	api.Success(w, shifts, reqID)
}

func (h *Handler) handleCreateShift(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload shiftRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, reqID) {
		return
	}
	id, err := h.Service.CreateShift(r.Context(), core.Shift{Name: payload.Name, StartTime: payload.StartTime, EndTime: payload.EndTime})
	if err != nil {
		api.FailRemote(w, "shift_create_failed", err, reqID)
		return
	}
	api.Created(w, map[string]string{"id": id}, reqID)
}
