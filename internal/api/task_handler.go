package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"tarefas-api/internal/agenda"
	"tarefas-api/internal/api/shared"
	"tarefas-api/internal/domain"
	"tarefas-api/internal/platform/logger"
	"tarefas-api/internal/service"
)

// TaskHandler handles task-related API requests. List and agenda endpoints
// return lightweight summaries; detail and write endpoints return the full
// task projection.
type TaskHandler struct {
	taskService   service.TaskService
	agendaService *agenda.Service
	validator     *validator.Validate
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(taskService service.TaskService, agendaService *agenda.Service) *TaskHandler {
	return &TaskHandler{
		taskService:   taskService,
		agendaService: agendaService,
		validator:     validator.New(),
	}
}

// CreateTask handles POST /tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), nil)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	var req TaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	task, err := domain.NewTask(userID, req.Title, req.Description, req.ExecutionDate, domain.TaskStatus(req.Status))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if req.CategoryIDs != nil {
		task.Categories = categoriesFromIDs(*req.CategoryIDs)
	}

	created, err := h.taskService.CreateTask(r.Context(), task)
	if err != nil {
		log.Warn("task creation rejected", "error", err, "user_id", userID)
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewTaskResponse(created))
}

// ListTasks handles GET /tasks. The same filters as the agenda endpoint are
// accepted, but results always come straight from the store.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	filters := agenda.ParseFilters(r.URL.Query())
	tasks, err := h.taskService.ListTasks(r.Context(), userID, filters.StoreFilter())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, agenda.Summarize(tasks))
}

// GetAgenda handles GET /tasks/agenda, the cached view of the task list.
func (h *TaskHandler) GetAgenda(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	filters := agenda.ParseFilters(r.URL.Query())
	summaries, err := h.agendaService.GetAgenda(r.Context(), userID, filters)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load agenda")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summaries)
}

// GetTask handles GET /tasks/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id", nil)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(task))
}

// UpdateTask handles PUT /tasks/{id}. The request replaces the task's
// fields; omitting category_ids keeps the existing category links.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id", nil)
	if !ok {
		return
	}

	var req TaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	existing, err := h.taskService.GetTask(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	existing.Title = req.Title
	existing.Description = req.Description
	existing.ExecutionDate = req.ExecutionDate
	if req.Status != "" {
		existing.Status = domain.TaskStatus(req.Status)
	}
	if req.CategoryIDs != nil {
		existing.Categories = categoriesFromIDs(*req.CategoryIDs)
	}

	updated, err := h.taskService.UpdateTask(r.Context(), existing)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(updated))
}

// DeleteTask handles DELETE /tasks/{id}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id", nil)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), userID, taskID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// categoriesFromIDs builds category stubs carrying only IDs; the store
// resolves names when the task is reloaded.
func categoriesFromIDs(ids []uuid.UUID) []domain.Category {
	categories := make([]domain.Category, 0, len(ids))
	for _, id := range ids {
		categories = append(categories, domain.Category{ID: id})
	}
	return categories
}
