package recommendations

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"talent-backend/internal/shared/server/middleware"
	"talent-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service. Runs are employer/admin only;
// reads are open to authenticated users.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/recommendations/runs", h.run)
	rg.GET("/recommendations", h.latest)
	rg.GET("/recommendations/batches/:id", h.batch)
}

type recommendationResponse struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Priority    string    `json:"priority"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Rank        int       `json:"rank"`
	CreatedAt   time.Time `json:"createdAt"`
}

type batchResponse struct {
	BatchID         string                   `json:"batchId"`
	GeneratedAt     time.Time                `json:"generatedAt"`
	Recommendations []recommendationResponse `json:"recommendations"`
}

func toBatchResponse(b Batch) batchResponse {
	out := batchResponse{
		BatchID:         b.ID,
		GeneratedAt:     b.GeneratedAt,
		Recommendations: make([]recommendationResponse, 0, len(b.Recommendations)),
	}
	for _, rec := range b.Recommendations {
		out.Recommendations = append(out.Recommendations, recommendationResponse{
			ID:          rec.ID,
			Type:        rec.Type,
			Priority:    rec.Priority,
			Title:       rec.Title,
			Description: rec.Description,
			Rank:        rec.Rank,
			CreatedAt:   rec.CreatedAt,
		})
	}
	return out
}

func (h *Handler) run(c *gin.Context) {
	if !middleware.RequireRole(c, middleware.RoleEmployer, middleware.RoleAdministrator) {
		return
	}
	batch, err := h.Svc.Run(c.Request.Context())
	if err != nil {
		if errors.Is(err, ErrRunInFlight) {
			respond.Error(c, http.StatusConflict, "run_in_flight", "an aggregation run is already in progress", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "aggregation run failed", nil)
		return
	}
	respond.JSON(c, http.StatusCreated, toBatchResponse(batch))
}

func (h *Handler) latest(c *gin.Context) {
	batch, err := h.Svc.Latest(c.Request.Context())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "no recommendation batch yet", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch recommendations", nil)
		return
	}
	respond.OK(c, toBatchResponse(batch))
}

func (h *Handler) batch(c *gin.Context) {
	batch, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "batch not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch batch", nil)
		return
	}
	respond.OK(c, toBatchResponse(batch))
}
