package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/smarttask/smarttask/internal/model"
)

// TaskLister defines the repository capability the task handler needs.
type TaskLister interface {
	ListTasks(ctx context.Context) ([]*model.Task, error)
}

// TaskHandler handles HTTP requests for task operations.
type TaskHandler struct {
	repo   TaskLister
	logger *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(repo TaskLister, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		repo:   repo,
		logger: logger,
	}
}

// List handles GET /tasks.
// Returns every task row with no filtering, ordering, or pagination.
// Any repository error collapses to a fixed 500 payload.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.repo.ListTasks(r.Context())
	if err != nil {
		h.logger.Error("failed to fetch tasks", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "Failed to fetch tasks",
		})
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}
