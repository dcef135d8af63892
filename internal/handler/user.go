package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskmesh/taskmesh/internal/handler/dto"
	"github.com/taskmesh/taskmesh/internal/service"
)

// UserHandler handles HTTP requests for user operations.
type UserHandler struct {
	svc    *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.ListUsers(r.Context()))
}

// Create handles POST /users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.UserRequest
	if err := decodeJSON(r, &req); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	user, err := h.svc.CreateUser(r.Context(), service.UserInput{Name: req.Name, Email: req.Email})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("user_created", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, user)
}

// Replace handles PUT /users/{id}.
func (h *UserHandler) Replace(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.UserRequest
	if err := decodeJSON(r, &req); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	user, err := h.svc.ReplaceUser(r.Context(), id, service.UserInput{Name: req.Name, Email: req.Email})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("user_updated", "user_id", user.ID)
	writeJSON(w, http.StatusOK, user)
}

// Delete handles DELETE /users/{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.DeleteUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("user_deleted", "user_id", user.ID)
	writeJSON(w, http.StatusOK, dto.UserDeletedResponse{
		Message: "User deleted",
		User:    *user,
	})
}

// Clear handles DELETE /users.
func (h *UserHandler) Clear(w http.ResponseWriter, r *http.Request) {
	n := h.svc.ClearUsers(r.Context())

	h.logger.Info("users_cleared", "count", n)
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "All users cleared"})
}
