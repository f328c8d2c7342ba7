package handler

import (
	"encoding/json"
	"net/http"

	"rendezvous/internal/admin/service"
	httputil "rendezvous/pkg/http"
	"rendezvous/pkg/logger"
	"rendezvous/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type TokenResponse struct {
	Token string `json:"token"`
}

type AdminHandler struct {
	service service.AdminService
	admin   func(httprouter.Handle) httprouter.Handle
	log     *logger.Logger
}

func NewAdminHandler(service service.AdminService, admin func(httprouter.Handle) httprouter.Handle, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		admin:   admin,
		log:     log,
	}
}

// Verify answers 200 when the token in the path is current; the admin gate does the check.
func (h *AdminHandler) Verify(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	if err := httputil.WriteSuccess(w, map[string]bool{"valid": true}); err != nil {
		h.log.Error("failed to write success response", "handler", "Verify", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AdminHandler) RefreshToken(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	tok, err := h.service.RotateToken(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "RefreshToken", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, TokenResponse{Token: tok.Token}); err != nil {
		h.log.Error("failed to write success response", "handler", "RefreshToken", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Stats", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, stats); err != nil {
		h.log.Error("failed to write success response", "handler", "Stats", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AdminHandler) GetSettings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	settings, err := h.service.Settings(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetSettings", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, settings); err != nil {
		h.log.Error("failed to write success response", "handler", "GetSettings", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AdminHandler) UpdateSettings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.Settings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "UpdateSettings", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	settings, err := h.service.UpdateSettings(r.Context(), &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpdateSettings", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, settings); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateSettings", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AdminHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/admin/verify/:token", h.admin(h.Verify))
	router.POST("/api/admin/refresh-token", h.admin(h.RefreshToken))
	router.GET("/api/admin/stats", h.admin(h.Stats))
	router.GET("/api/admin/settings", h.admin(h.GetSettings))
	router.PUT("/api/admin/settings", h.admin(h.UpdateSettings))
}
