package extractions

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"talent-backend/internal/documents"
	"talent-backend/internal/shared/server/middleware"
	"talent-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc     *Service
	limiter *pollLimiter
}

// NewHandler constructs a Handler with the default poll limiter.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc, limiter: newPollLimiter(pollLimitWindow, nil)}
}

// RegisterRoutes attaches extraction routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents/:id/extractions", h.submit)
	rg.GET("/documents/:id/extractions/current", h.current)
	rg.GET("/extractions/:id", h.get)
}

type submitRequest struct {
	Reprocess bool `json:"reprocess"`
}

func (h *Handler) submit(c *gin.Context) {
	documentID := c.Param("id")

	var req submitRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return
		}
	}
	if !req.Reprocess {
		req.Reprocess = c.Query("reprocess") == "true"
	}

	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	extraction, created, err := h.Svc.Submit(ctx, documentID, req.Reprocess)
	if err != nil {
		switch {
		case errors.Is(err, documents.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to submit extraction", nil)
		}
		return
	}

	c.Set("documentId", documentID)
	c.Set("extractionId", extraction.ID)
	status := http.StatusOK
	if created {
		status = http.StatusAccepted
	}
	respond.JSON(c, status, toResponse(extraction))
}

func (h *Handler) get(c *gin.Context) {
	extractionID := c.Param("id")
	ident := middleware.IdentityFromContext(c)

	if !h.limiter.Allow(ident.UserID, extractionID) {
		c.Header("Retry-After", strconv.Itoa(h.limiter.RetryAfterSeconds()))
		respond.Error(c, http.StatusTooManyRequests, "rate_limited", "poll interval too short", nil)
		return
	}

	extraction, err := h.Svc.Get(c.Request.Context(), extractionID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "extraction not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch extraction", nil)
		return
	}

	c.Set("extractionId", extraction.ID)
	respond.OK(c, toResponse(extraction))
}

func (h *Handler) current(c *gin.Context) {
	documentID := c.Param("id")

	extraction, err := h.Svc.CurrentForDocument(c.Request.Context(), documentID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "no extraction for document", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch extraction", nil)
		return
	}

	c.Set("documentId", documentID)
	respond.OK(c, toResponse(extraction))
}
