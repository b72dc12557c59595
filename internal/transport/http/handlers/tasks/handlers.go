package taskshandler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"hrdash/internal/domain/auth"
	"hrdash/internal/domain/tasks"
	"hrdash/internal/transport/http/api"
	"hrdash/internal/transport/http/middleware"
	"hrdash/internal/transport/http/shared"
)

type Handler struct {
	Service *tasks.Service
	Perms   middleware.PermissionStore
}

func NewHandler(service *tasks.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

type taskRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=5000"`
	AssignedTo  string `json:"assignedTo" validate:"omitempty,uuid"`
	Priority    string `json:"priority"`
	DueDate     string `json:"dueDate"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

type commentRequest struct {
	Body string `json:"body" validate:"required,max=2000"`
}

var (
	statusValues   = []string{string(tasks.StatusPending), string(tasks.StatusInProgress), string(tasks.StatusCompleted), string(tasks.StatusCancelled)}
	priorityValues = []string{string(tasks.PriorityLow), string(tasks.PriorityMedium), string(tasks.PriorityHigh)}
)

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/tasks", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermTasksRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermTasksWrite, h.Perms)).Post("/", h.handleCreate)
		r.Route("/{taskID}", func(r chi.Router) {
			r.With(middleware.RequirePermission(auth.PermTasksRead, h.Perms)).Get("/", h.handleGet)
			r.With(middleware.RequirePermission(auth.PermTasksWrite, h.Perms)).Put("/", h.handleUpdate)
			r.With(middleware.RequirePermission(auth.PermTasksWrite, h.Perms)).Post("/status", h.handleStatus)
			r.With(middleware.RequirePermission(auth.PermTasksRead, h.Perms)).Get("/comments", h.handleComments)
			r.With(middleware.RequirePermission(auth.PermTasksWrite, h.Perms)).Post("/comments", h.handleComment)
		})
	})
}

// canSeeAll reports whether the caller may look past their own assignments.
func (h *Handler) canSeeAll(r *http.Request) bool {
	return middleware.Can(r.Context(), h.Perms, auth.PermEmployeesRead)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	page := shared.ParsePagination(r, 50, 200)
	filter := tasks.Filter{
		AssignedTo: r.URL.Query().Get("assignedTo"),
		Status:     tasks.Status(strings.ToUpper(r.URL.Query().Get("status"))),
		Limit:      page.Limit,
		Offset:     page.Offset,
	}
	if !h.canSeeAll(r) {
		if user.EmployeeID == "" {
			api.Fail(w, http.StatusForbidden, "forbidden", "no employee profile linked", reqID)
			return
		}
		filter.AssignedTo = user.EmployeeID
	}

	list, err := h.Service.List(r.Context(), filter)
	if errors.Is(err, tasks.ErrInvalidStatus) {
		shared.FailField(w, reqID, "status", shared.OneOfReason(statusValues))
		return
	}
	if err != nil {
		api.FailRemote(w, "tasks_list_failed", err, reqID)
		return
	}
	api.Success(w, list, reqID)
}

func (h *Handler) decodeTask(w http.ResponseWriter, r *http.Request, reqID string) (tasks.Task, bool) {
	var payload taskRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return tasks.Task{}, false
	}
	payload.Priority = strings.ToUpper(strings.TrimSpace(payload.Priority))

	v := shared.NewValidator()
	v.Struct(payload)
	if payload.Priority != "" {
		v.OneOf("priority", payload.Priority, priorityValues)
	}
	var due *time.Time
	if strings.TrimSpace(payload.DueDate) != "" {
		if parsed, ok := v.Date("dueDate", payload.DueDate); ok {
			due = &parsed
		}
	}
	if v.Reject(w, reqID) {
		return tasks.Task{}, false
	}
	return tasks.Task{
		Title:       payload.Title,
		Description: strings.TrimSpace(payload.Description),
		AssignedTo:  payload.AssignedTo,
		Priority:    tasks.Priority(payload.Priority),
		DueDate:     due,
	}, true
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	task, ok := h.decodeTask(w, r, reqID)
	if !ok {
		return
	}
	task.CreatedBy = user.EmployeeID
	if task.AssignedTo == "" {
		task.AssignedTo = user.EmployeeID
	}
	if task.AssignedTo != user.EmployeeID && !h.canSeeAll(r) {
		api.Fail(w, http.StatusForbidden, "forbidden", "tasks can only be assigned to yourself", reqID)
		return
	}

	created, err := h.Service.Create(r.Context(), task)
	if err != nil {
		h.fail(w, err, reqID)
		return
	}
	api.Created(w, created, reqID)
}

// load fetches a task the caller is allowed to see.
func (h *Handler) load(w http.ResponseWriter, r *http.Request, reqID string) (tasks.Task, bool) {
	user, _ := middleware.GetUser(r.Context())
	task, err := h.Service.Get(r.Context(), chi.URLParam(r, "taskID"))
	if err != nil {
		h.fail(w, err, reqID)
		return tasks.Task{}, false
	}
	if task.AssignedTo != user.EmployeeID && task.CreatedBy != user.EmployeeID && !h.canSeeAll(r) {
		api.Fail(w, http.StatusNotFound, "not_found", "task not found", reqID)
		return tasks.Task{}, false
	}
	return task, true
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	task, ok := h.load(w, r, reqID)
	if !ok {
		return
	}
	api.Success(w, task, reqID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	current, ok := h.load(w, r, reqID)
	if !ok {
		return
	}
	next, ok := h.decodeTask(w, r, reqID)
	if !ok {
		return
	}
	current.Title = next.Title
	current.Description = next.Description
	current.DueDate = next.DueDate
	if next.AssignedTo != "" {
		current.AssignedTo = next.AssignedTo
	}
	if next.Priority != "" {
		current.Priority = next.Priority
	}
	if err := h.Service.Update(r.Context(), current); err != nil {
		h.fail(w, err, reqID)
		return
	}
	api.Success(w, current, reqID)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	current, ok := h.load(w, r, reqID)
	if !ok {
		return
	}
	var payload statusRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	payload.Status = strings.ToUpper(strings.TrimSpace(payload.Status))
	v := shared.NewValidator()
	v.Struct(payload)
	v.OneOf("status", payload.Status, statusValues)
	if v.Reject(w, reqID) {
		return
	}

	task, err := h.Service.Transition(r.Context(), current.ID, tasks.Status(payload.Status))
	if err != nil {
		h.fail(w, err, reqID)
		return
	}
	api.Success(w, task, reqID)
}

func (h *Handler) handleComments(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	task, ok := h.load(w, r, reqID)
	if !ok {
		return
	}
	comments, err := h.Service.Comments(r.Context(), task.ID)
	if err != nil {
		api.FailRemote(w, "task_comments_failed", err, reqID)
		return
	}
	api.Success(w, comments, reqID)
}

func (h *Handler) handleComment(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	if user.EmployeeID == "" {
		api.Fail(w, http.StatusForbidden, "forbidden", "no employee profile linked", reqID)
		return
	}
	task, ok := h.load(w, r, reqID)
	if !ok {
		return
	}
	var payload commentRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, reqID) {
		return
	}

	comment, err := h.Service.Comment(r.Context(), task.ID, user.EmployeeID, payload.Body)
	if err != nil {
		h.fail(w, err, reqID)
		return
	}
	api.Created(w, comment, reqID)
}

func (h *Handler) fail(w http.ResponseWriter, err error, reqID string) {
	switch {
	case errors.Is(err, tasks.ErrTaskNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "task not found", reqID)
	case errors.Is(err, tasks.ErrInvalidTransition):
		api.Fail(w, http.StatusConflict, "invalid_transition", err.Error(), reqID)
	case errors.Is(err, tasks.ErrTitleRequired):
		shared.FailField(w, reqID, "title", "is required")
	case errors.Is(err, tasks.ErrCommentEmpty):
		shared.FailField(w, reqID, "body", "is required")
	case errors.Is(err, tasks.ErrInvalidPriority):
		shared.FailField(w, reqID, "priority", shared.OneOfReason(priorityValues))
	default:
		api.FailRemote(w, "task_request_failed", err, reqID)
	}
}
