package predictions

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"talent-backend/internal/extractions"
	"talent-backend/internal/models"
	"talent-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/extractions/:id/predictions", h.submit)
	rg.GET("/extractions/:id/predictions/current", h.current)
	rg.GET("/predictions/:id", h.get)
}

type submitRequest struct {
	Rescore bool `json:"rescore"`
}

func (h *Handler) submit(c *gin.Context) {
	extractionID := c.Param("id")

	var req submitRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return
		}
	}
	if !req.Rescore {
		req.Rescore = c.Query("rescore") == "true"
	}

	prediction, created, err := h.Svc.Submit(c.Request.Context(), extractionID, req.Rescore)
	if err != nil {
		switch {
		case errors.Is(err, extractions.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "extraction not found", nil)
		case errors.Is(err, ErrExtractionNotReady):
			respond.Error(c, http.StatusConflict, "invalid_transition", "extraction has not completed", nil)
		case errors.Is(err, models.ErrNoActive):
			respond.Error(c, http.StatusConflict, "no_active_model", "no active prediction model", nil)
		case errors.Is(err, ErrInsufficientProfile):
			respond.Error(c, http.StatusUnprocessableEntity, "insufficient_profile", "profile lacks experience and skills", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to submit prediction", nil)
		}
		return
	}

	c.Set("extractionId", extractionID)
	status := http.StatusOK
	if created {
		status = http.StatusAccepted
	}
	respond.JSON(c, status, toResponse(prediction))
}

func (h *Handler) get(c *gin.Context) {
	prediction, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "prediction not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch prediction", nil)
		return
	}
	respond.OK(c, toResponse(prediction))
}

func (h *Handler) current(c *gin.Context) {
	prediction, err := h.Svc.CurrentForExtraction(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "no prediction for extraction", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch prediction", nil)
		return
	}
	respond.OK(c, toResponse(prediction))
}
