package vacancies

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"talent-backend/internal/shared/server/middleware"
	"talent-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service. Writes require employer or
// administrator; reads are open to authenticated users.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/vacancies", h.create)
	rg.GET("/vacancies", h.list)
	rg.GET("/vacancies/:id", h.get)
	rg.PUT("/vacancies/:id", h.update)
	rg.POST("/vacancies/:id/deactivate", h.deactivate)
	rg.POST("/vacancies/:id/reactivate", h.reactivate)
}

type vacancyRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Requirements string `json:"requirements"`
	Modality     string `json:"modality"`
}

type vacancyResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Requirements string    `json:"requirements"`
	Modality     string    `json:"modality"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toVacancyResponse(v Vacancy) vacancyResponse {
	return vacancyResponse{
		ID:           v.ID,
		Title:        v.Title,
		Description:  v.Description,
		Requirements: v.Requirements,
		Modality:     v.Modality,
		Active:       v.Active,
		CreatedAt:    v.CreatedAt,
	}
}

func (h *Handler) create(c *gin.Context) {
	if !middleware.RequireRole(c, middleware.RoleEmployer, middleware.RoleAdministrator) {
		return
	}
	var req vacancyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	v, err := h.Svc.Create(c.Request.Context(), req.Title, req.Description, req.Requirements, req.Modality)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}
	respond.JSON(c, http.StatusCreated, toVacancyResponse(v))
}

func (h *Handler) list(c *gin.Context) {
	activeOnly := c.DefaultQuery("active", "true") != "false"
	limit := parseQueryInt(c, "limit", 50)
	offset := parseQueryInt(c, "offset", 0)

	list, err := h.Svc.List(c.Request.Context(), activeOnly, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list vacancies", nil)
		return
	}
	out := make([]vacancyResponse, 0, len(list))
	for _, v := range list {
		out = append(out, toVacancyResponse(v))
	}
	respond.OK(c, gin.H{"vacancies": out})
}

func (h *Handler) get(c *gin.Context) {
	v, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "vacancy not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch vacancy", nil)
		return
	}
	respond.OK(c, toVacancyResponse(v))
}

func (h *Handler) update(c *gin.Context) {
	if !middleware.RequireRole(c, middleware.RoleEmployer, middleware.RoleAdministrator) {
		return
	}
	var req vacancyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	v, err := h.Svc.Update(c.Request.Context(), Vacancy{
		ID:           c.Param("id"),
		Title:        req.Title,
		Description:  req.Description,
		Requirements: req.Requirements,
		Modality:     req.Modality,
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "vacancy not found", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}
	respond.OK(c, toVacancyResponse(v))
}

func (h *Handler) deactivate(c *gin.Context) {
	if !middleware.RequireRole(c, middleware.RoleEmployer, middleware.RoleAdministrator) {
		return
	}
	if err := h.Svc.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "vacancy not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to deactivate vacancy", nil)
		return
	}
	respond.OK(c, gin.H{"status": "ok"})
}

func (h *Handler) reactivate(c *gin.Context) {
	if !middleware.RequireRole(c, middleware.RoleEmployer, middleware.RoleAdministrator) {
		return
	}
	if err := h.Svc.Reactivate(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "vacancy not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to reactivate vacancy", nil)
		return
	}
	respond.OK(c, gin.H{"status": "ok"})
}

func parseQueryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
