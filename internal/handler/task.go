package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskmesh/taskmesh/internal/handler/dto"
	"github.com/taskmesh/taskmesh/internal/service"
)

// TaskHandler handles HTTP requests for task operations.
type TaskHandler struct {
	svc    *service.TaskService
	logger *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(svc *service.TaskService, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.ListTasks(r.Context()))
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	task, err := h.svc.CreateTask(r.Context(), service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		UserID:      req.UserID,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		Completed:   req.Completed,
		CreatedAt:   req.CreatedAt,
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("task_created",
		"task_id", task.ID,
		"user_id", task.UserID,
		"priority", task.Priority,
	)
	writeJSON(w, http.StatusCreated, task)
}

// Update handles PUT /tasks/{id}. Only supplied fields change.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.UpdateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	task, err := h.svc.UpdateTask(r.Context(), id, service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		UserID:      req.UserID,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		Completed:   req.Completed,
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("task_updated", "task_id", task.ID)
	writeJSON(w, http.StatusOK, task)
}

// Delete handles DELETE /tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	task, err := h.svc.DeleteTask(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("task_deleted", "task_id", task.ID)
	writeJSON(w, http.StatusOK, dto.TaskDeletedResponse{
		Message: "Task deleted",
		Task:    *task,
	})
}

// Clear handles DELETE /tasks.
func (h *TaskHandler) Clear(w http.ResponseWriter, r *http.Request) {
	n := h.svc.ClearTasks(r.Context())

	h.logger.Info("tasks_cleared", "count", n)
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "All tasks cleared"})
}
