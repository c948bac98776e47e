package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"talent-backend/internal/shared/server/respond"
)

// Handler serves the aggregate stats endpoint.
type Handler struct {
	Repo Repo
}

func NewHandler(repo Repo) *Handler {
	return &Handler{Repo: repo}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard/stats", h.stats)
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.Repo.Stats(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to compute stats", nil)
		return
	}
	if stats.TopSkills == nil {
		stats.TopSkills = []SkillCount{}
	}
	respond.OK(c, stats)
}
