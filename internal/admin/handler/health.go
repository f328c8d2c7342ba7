package handler

import (
	"context"
	"net/http"
	"time"

	"rendezvous/pkg/contracts"
	httputil "rendezvous/pkg/http"
	"rendezvous/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type HealthResponse struct {
	Status    string    `json:"status"`
	Store     string    `json:"store,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type HealthHandler struct {
	store contracts.Pinger
	log   *logger.Logger
	now   func() time.Time
}

func NewHealthHandler(store contracts.Pinger, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		store: store,
		log:   log,
		now:   time.Now,
	}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: h.now().UTC(),
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Health", "operation", "WriteJSON", "error", err)
	}
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.log.Error("Store health check failed",
			"error", err,
			"path", r.URL.Path,
		)
		if writeErr := httputil.WriteJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:    "unavailable",
			Store:     "error",
			Timestamp: h.now().UTC(),
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Ready", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, HealthResponse{
		Status:    "ready",
		Store:     "ok",
		Timestamp: h.now().UTC(),
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Ready", "operation", "WriteJSON", "error", err)
	}
}

// RegisterRoutes serves the probe endpoints. /api/health is the public liveness
// check used by the booking frontend.
func (h *HealthHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
	router.GET("/api/health", h.Health)
}
