package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskmesh/taskmesh/internal/handler/dto"
	"github.com/taskmesh/taskmesh/internal/service"
)

// CommentHandler handles HTTP requests for comment operations.
type CommentHandler struct {
	svc    *service.CommentService
	logger *slog.Logger
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(svc *service.CommentService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{
		svc:    svc,
		logger: logger,
	}
}

// ListByTask handles GET /comments/{taskId}.
func (h *CommentHandler) ListByTask(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.ListByTask(r.Context(), chi.URLParam(r, "taskId")))
}

// Create handles POST /comments.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	comment, err := h.svc.CreateComment(r.Context(), service.CreateCommentInput{
		Text:   req.Text,
		TaskID: req.TaskID,
		UserID: req.UserID,
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("comment_created",
		"comment_id", comment.ID,
		"task_id", comment.TaskID,
	)
	writeJSON(w, http.StatusCreated, comment)
}

// Clear handles DELETE /comments.
func (h *CommentHandler) Clear(w http.ResponseWriter, r *http.Request) {
	n := h.svc.ClearComments(r.Context())

	h.logger.Info("comments_cleared", "count", n)
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "All comments cleared"})
}
