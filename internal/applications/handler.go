package applications

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"talent-backend/internal/shared/server/middleware"
	"talent-backend/internal/shared/server/respond"
	"talent-backend/internal/vacancies"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/applications", h.create)
	rg.GET("/applications", h.listMine)
	rg.GET("/applications/:id", h.get)
	rg.POST("/applications/:id/transition", h.transition)
	rg.GET("/vacancies/:id/applications", h.listByVacancy)
}

type createRequest struct {
	VacancyID    string `json:"vacancyId"`
	ExtractionID string `json:"extractionId"`
}

func (h *Handler) create(c *gin.Context) {
	ident := middleware.IdentityFromContext(c)

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	app, err := h.Svc.Apply(c.Request.Context(), ident.UserID, req.VacancyID, req.ExtractionID)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicate):
			respond.Error(c, http.StatusConflict, "duplicate_application", "an application already exists for this vacancy", nil)
		case errors.Is(err, vacancies.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "vacancy not found", nil)
		case errors.Is(err, vacancies.ErrInactive):
			respond.Error(c, http.StatusConflict, "invalid_transition", "vacancy is not accepting applications", nil)
		default:
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		}
		return
	}
	respond.JSON(c, http.StatusCreated, toResponse(app))
}

func (h *Handler) listMine(c *gin.Context) {
	ident := middleware.IdentityFromContext(c)
	limit := parseQueryInt(c, "limit", 50)
	offset := parseQueryInt(c, "offset", 0)

	list, err := h.Svc.ListByCandidate(c.Request.Context(), ident.UserID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list applications", nil)
		return
	}
	respond.OK(c, gin.H{"applications": toResponses(list)})
}

func (h *Handler) listByVacancy(c *gin.Context) {
	if !middleware.RequireRole(c, middleware.RoleEmployer, middleware.RoleAdministrator) {
		return
	}
	limit := parseQueryInt(c, "limit", 50)
	offset := parseQueryInt(c, "offset", 0)

	list, err := h.Svc.ListByVacancy(c.Request.Context(), c.Param("id"), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list applications", nil)
		return
	}
	respond.OK(c, gin.H{"applications": toResponses(list)})
}

func (h *Handler) get(c *gin.Context) {
	ident := middleware.IdentityFromContext(c)

	app, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "application not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch application", nil)
		return
	}
	if ident.Role == middleware.RoleCandidate && app.CandidateID != ident.UserID {
		respond.Error(c, http.StatusNotFound, "not_found", "application not found", nil)
		return
	}
	respond.OK(c, toResponse(app))
}

type transitionRequest struct {
	Status   string `json:"status"`
	Feedback string `json:"feedback"`
}

func (h *Handler) transition(c *gin.Context) {
	if !middleware.RequireRole(c, middleware.RoleEmployer, middleware.RoleAdministrator) {
		return
	}
	ident := middleware.IdentityFromContext(c)

	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	app, err := h.Svc.Transition(c.Request.Context(), c.Param("id"), req.Status, ident.UserID, req.Feedback)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "application not found", nil)
		case errors.Is(err, ErrInvalidTransition):
			respond.Error(c, http.StatusConflict, "invalid_transition", "transition is not allowed from the current status", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to transition application", nil)
		}
		return
	}
	respond.OK(c, toResponse(app))
}

func toResponses(list []Application) []ApplicationResponse {
	out := make([]ApplicationResponse, 0, len(list))
	for _, app := range list {
		out = append(out, toResponse(app))
	}
	return out
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
