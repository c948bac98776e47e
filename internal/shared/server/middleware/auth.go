package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"talent-backend/internal/shared/auth"
	"talent-backend/internal/shared/server/respond"
)

const (
	userIDKey   = "userId"
	userRoleKey = "userRole"
	userNameKey = "userName"
)

// Role names form a closed set checked at operation boundaries.
const (
	RoleCandidate     = "candidate"
	RoleEmployer      = "employer"
	RoleAdministrator = "administrator"
)

// Identity is the request-scoped caller identity. The pipeline never reads
// ambient global state; handlers pass this explicitly into services.
type Identity struct {
	UserID string
	Role   string
	Guest  bool
}

// Auth validates JWTs or guest headers and stores identity in context.
func Auth(env string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/v1/auth/google/") || path == "/api/v1/health" || path == "/api/v1/metrics" {
			c.Next()
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))

		if authHeader != "" {
			if !strings.HasPrefix(authHeader, "Bearer ") {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
				return
			}

			token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
			if token == "" {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
				return
			}

			claims, err := auth.VerifyJWT(token)
			if err != nil {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
				return
			}

			c.Set(userIDKey, claims.Sub)
			c.Set(userRoleKey, normalizeRole(claims.Role))
			if claims.Name != "" {
				c.Set(userNameKey, claims.Name)
			}
			c.Set("isGuest", false)
			c.Next()
			return
		}

		guestID := strings.TrimSpace(c.GetHeader("X-Guest-Id"))
		if guestID == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing identity", nil)
			return
		}

		c.Set(userIDKey, "guest:"+guestID)
		c.Set(userRoleKey, RoleCandidate)
		c.Set("isGuest", true)
		c.Next()
	}
}

// UserIDFromContext returns the authenticated user ID, or empty string.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}

// IdentityFromContext returns the caller identity stored by Auth.
func IdentityFromContext(c *gin.Context) Identity {
	id := Identity{UserID: UserIDFromContext(c), Role: RoleCandidate}
	if val, ok := c.Get(userRoleKey); ok {
		if role, ok2 := val.(string); ok2 && role != "" {
			id.Role = role
		}
	}
	if val, ok := c.Get("isGuest"); ok {
		if guest, ok2 := val.(bool); ok2 {
			id.Guest = guest
		}
	}
	return id
}

// RequireRole aborts with 403 unless the caller holds one of the given roles.
// Returns false if the request was aborted.
func RequireRole(c *gin.Context, roles ...string) bool {
	ident := IdentityFromContext(c)
	for _, role := range roles {
		if ident.Role == role {
			return true
		}
	}
	respond.Error(c, http.StatusForbidden, "forbidden", "insufficient role", nil)
	return false
}

func normalizeRole(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case RoleEmployer:
		return RoleEmployer
	case RoleAdministrator, "admin":
		return RoleAdministrator
	default:
		return RoleCandidate
	}
}
