package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"catalog-api/internal/model"
	"catalog-api/internal/respond"
)

type pinger interface {
	Health(ctx context.Context) error
}

type HealthHandler struct {
	db pinger
}

func NewHealthHandler(db pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

type healthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Health(ctx); err != nil {
		slog.Error("health check failed", "error", err)
		respond.JSON(w, http.StatusServiceUnavailable, model.APIResponse{
			Success: false,
			Message: "Database unavailable",
			Data:    healthStatus{Status: "degraded", Database: "down"},
		})
		return
	}

	respond.Success(w, http.StatusOK, healthStatus{Status: "ok", Database: "up"})
}
