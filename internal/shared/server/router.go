package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"talent-backend/internal/applications"
	googleauth "talent-backend/internal/auth"
	"talent-backend/internal/dashboard"
	"talent-backend/internal/documents"
	"talent-backend/internal/extractions"
	"talent-backend/internal/models"
	"talent-backend/internal/predictions"
	"talent-backend/internal/recommendations"
	"talent-backend/internal/services/health"
	"talent-backend/internal/shared/config"
	"talent-backend/internal/shared/metrics"
	"talent-backend/internal/shared/server/middleware"
	"talent-backend/internal/shared/server/respond"
	"talent-backend/internal/surveys"
	"talent-backend/internal/users"
	"talent-backend/internal/vacancies"
)

// RouterDeps carries the handlers wired by bootstrap. Nil handlers register
// no routes, which keeps partial configurations (memory-only dev mode) usable.
type RouterDeps struct {
	Config config.Config
	Health *health.Service

	Documents       *documents.Handler
	Extractions     *extractions.Handler
	Predictions     *predictions.Handler
	Models          *models.Handler
	Recommendations *recommendations.Handler
	Vacancies       *vacancies.Handler
	Applications    *applications.Handler
	Surveys         *surveys.Handler
	Dashboard       *dashboard.Handler
	Users           *users.Handler
	GoogleAuth      *googleauth.GoogleService
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(deps.Config.Env),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		if deps.Health != nil {
			respond.JSON(c, http.StatusOK, deps.Health.Status())
			return
		}
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	api.GET("/metrics", metrics.Handler())

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.Users != nil {
		deps.Users.RegisterRoutes(api)
	}
	if deps.Documents != nil {
		deps.Documents.RegisterRoutes(api)
	}
	if deps.Extractions != nil {
		deps.Extractions.RegisterRoutes(api)
	}
	if deps.Predictions != nil {
		deps.Predictions.RegisterRoutes(api)
	}
	if deps.Models != nil {
		deps.Models.RegisterRoutes(api)
	}
	if deps.Recommendations != nil {
		deps.Recommendations.RegisterRoutes(api)
	}
	if deps.Vacancies != nil {
		deps.Vacancies.RegisterRoutes(api)
	}
	if deps.Applications != nil {
		deps.Applications.RegisterRoutes(api)
	}
	if deps.Surveys != nil {
		deps.Surveys.RegisterRoutes(api)
	}
	if deps.Dashboard != nil {
		deps.Dashboard.RegisterRoutes(api)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
