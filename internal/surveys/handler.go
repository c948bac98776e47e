package surveys

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"talent-backend/internal/shared/server/middleware"
	"talent-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service. Survey administration is
// admin-only; responding is open to any authenticated user.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/surveys", h.create)
	rg.GET("/surveys", h.list)
	rg.GET("/surveys/:id", h.get)
	rg.POST("/surveys/:id/close", h.close)
	rg.POST("/surveys/:id/responses", h.respond)
	rg.GET("/surveys/:id/responses", h.listResponses)
}

type createSurveyRequest struct {
	Title     string          `json:"title"`
	Type      string          `json:"type"`
	Questions json.RawMessage `json:"questions"`
}

type surveyResponse struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Type      string          `json:"type"`
	Questions json.RawMessage `json:"questions"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"createdAt"`
}

func toSurveyResponse(s Survey) surveyResponse {
	return surveyResponse{
		ID:        s.ID,
		Title:     s.Title,
		Type:      s.Type,
		Questions: s.Questions,
		Active:    s.Active,
		CreatedAt: s.CreatedAt,
	}
}

type respondRequest struct {
	Answers           json.RawMessage `json:"answers"`
	ExtractionID      string          `json:"extractionId"`
	PerformanceRating *float64        `json:"performanceRating"`
}

type responseResponse struct {
	ID                string          `json:"id"`
	SurveyID          string          `json:"surveyId"`
	RespondentID      string          `json:"respondentId"`
	Answers           json.RawMessage `json:"answers"`
	ExtractionID      string          `json:"extractionId,omitempty"`
	PerformanceRating *float64        `json:"performanceRating,omitempty"`
	AccuracyError     *float64        `json:"accuracyError,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
}

func toResponseResponse(r Response) responseResponse {
	return responseResponse{
		ID:                r.ID,
		SurveyID:          r.SurveyID,
		RespondentID:      r.RespondentID,
		Answers:           r.Answers,
		ExtractionID:      r.ExtractionID,
		PerformanceRating: r.PerformanceRating,
		AccuracyError:     r.AccuracyError,
		CreatedAt:         r.CreatedAt,
	}
}

func (h *Handler) create(c *gin.Context) {
	if !middleware.RequireRole(c, middleware.RoleAdministrator) {
		return
	}
	var req createSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	survey, err := h.Svc.CreateSurvey(c.Request.Context(), req.Title, req.Type, req.Questions)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}
	respond.JSON(c, http.StatusCreated, toSurveyResponse(survey))
}

func (h *Handler) list(c *gin.Context) {
	activeOnly := c.DefaultQuery("active", "true") != "false"
	list, err := h.Svc.ListSurveys(c.Request.Context(), activeOnly)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list surveys", nil)
		return
	}
	out := make([]surveyResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSurveyResponse(s))
	}
	respond.OK(c, gin.H{"surveys": out})
}

func (h *Handler) get(c *gin.Context) {
	survey, err := h.Svc.GetSurvey(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "survey not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch survey", nil)
		return
	}
	respond.OK(c, toSurveyResponse(survey))
}

func (h *Handler) close(c *gin.Context) {
	if !middleware.RequireRole(c, middleware.RoleAdministrator) {
		return
	}
	if err := h.Svc.CloseSurvey(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "survey not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to close survey", nil)
		return
	}
	respond.OK(c, gin.H{"status": "ok"})
}

func (h *Handler) respond(c *gin.Context) {
	ident := middleware.IdentityFromContext(c)

	var req respondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	response, err := h.Svc.Respond(c.Request.Context(), c.Param("id"), ident.UserID, req.Answers, req.ExtractionID, req.PerformanceRating)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "survey not found", nil)
		case errors.Is(err, ErrDuplicateResponse):
			respond.Error(c, http.StatusConflict, "duplicate_response", "a response already exists for this survey", nil)
		case errors.Is(err, ErrInactive):
			respond.Error(c, http.StatusConflict, "invalid_transition", "survey is closed", nil)
		default:
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		}
		return
	}
	respond.JSON(c, http.StatusCreated, toResponseResponse(response))
}

func (h *Handler) listResponses(c *gin.Context) {
	if !middleware.RequireRole(c, middleware.RoleAdministrator) {
		return
	}
	list, err := h.Svc.ListResponses(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "survey not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list responses", nil)
		return
	}
	out := make([]responseResponse, 0, len(list))
	for _, r := range list {
		out = append(out, toResponseResponse(r))
	}
	respond.OK(c, gin.H{"responses": out})
}
