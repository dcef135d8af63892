package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/taskmesh/taskmesh/internal/gateway"
	"github.com/taskmesh/taskmesh/internal/handler/dto"
)

// Resetter clears every backend store.
type Resetter interface {
	Reset(ctx context.Context) (*gateway.Report, error)
}

// ResetHandler serves the gateway's reset endpoint.
type ResetHandler struct {
	resetter Resetter
	logger   *slog.Logger
}

// NewResetHandler creates a new ResetHandler.
func NewResetHandler(resetter Resetter, logger *slog.Logger) *ResetHandler {
	return &ResetHandler{
		resetter: resetter,
		logger:   logger,
	}
}

// Reset handles DELETE /api/reset.
// Once the clear calls were dispatched the answer is 200 with one entry per
// service, even if every service failed.
func (h *ResetHandler) Reset(w http.ResponseWriter, r *http.Request) {
	report, err := h.resetter.Reset(r.Context())
	if err != nil {
		h.logger.Error("reset_failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, dto.ResetFailedResponse{
			Error:   "Reset failed",
			Details: err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, report)
}
