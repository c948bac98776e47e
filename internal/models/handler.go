package models

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"talent-backend/internal/shared/server/middleware"
	"talent-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service. All routes are
// administrator-only.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/models", h.register)
	rg.GET("/models", h.list)
	rg.GET("/models/:id", h.get)
	rg.POST("/models/:id/activate", h.activate)
	rg.POST("/models/:id/deactivate", h.deactivate)
}

type registerRequest struct {
	Name      string          `json:"name"`
	Version   string          `json:"version"`
	TrainedAt *time.Time      `json:"trainedAt"`
	Accuracy  *float64        `json:"accuracy"`
	Params    json.RawMessage `json:"params"`
}

type modelResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Version   string          `json:"version"`
	TrainedAt *time.Time      `json:"trainedAt,omitempty"`
	Accuracy  *float64        `json:"accuracy,omitempty"`
	Active    bool            `json:"active"`
	Params    json.RawMessage `json:"params,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

func toModelResponse(m PredictionModel) modelResponse {
	return modelResponse{
		ID:        m.ID,
		Name:      m.Name,
		Version:   m.Version,
		TrainedAt: m.TrainedAt,
		Accuracy:  m.Accuracy,
		Active:    m.Active,
		Params:    m.Params,
		CreatedAt: m.CreatedAt,
	}
}

func (h *Handler) register(c *gin.Context) {
	if !middleware.RequireRole(c, middleware.RoleAdministrator) {
		return
	}
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	model, err := h.Svc.Register(c.Request.Context(), req.Name, req.Version, req.TrainedAt, req.Accuracy, req.Params)
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			respond.Error(c, http.StatusConflict, "duplicate_model", "model name and version already exist", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}
	respond.JSON(c, http.StatusCreated, toModelResponse(model))
}

func (h *Handler) list(c *gin.Context) {
	if !middleware.RequireRole(c, middleware.RoleAdministrator) {
		return
	}
	list, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list models", nil)
		return
	}
	out := make([]modelResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toModelResponse(m))
	}
	respond.OK(c, gin.H{"models": out})
}

func (h *Handler) get(c *gin.Context) {
	if !middleware.RequireRole(c, middleware.RoleAdministrator) {
		return
	}
	model, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "model not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch model", nil)
		return
	}
	respond.OK(c, toModelResponse(model))
}

func (h *Handler) activate(c *gin.Context) {
	if !middleware.RequireRole(c, middleware.RoleAdministrator) {
		return
	}
	model, err := h.Svc.Activate(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "model not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to activate model", nil)
		return
	}
	respond.OK(c, toModelResponse(model))
}

func (h *Handler) deactivate(c *gin.Context) {
	if !middleware.RequireRole(c, middleware.RoleAdministrator) {
		return
	}
	if err := h.Svc.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "model not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to deactivate model", nil)
		return
	}
	respond.OK(c, gin.H{"status": "ok"})
}
