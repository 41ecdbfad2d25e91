package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/EhaabShareef/inventory-manage/internal/auth"
	"github.com/EhaabShareef/inventory-manage/internal/models"
)

// ActorKey is where the authenticated user lives in the request context.
const ActorKey = "actor"

// AuthMiddleware resolves the current actor from the session cookie (or a
// Bearer header for API clients) and loads the user row once. Every handler
// downstream gets the actor from the context - the domain layer never reads
// ambient session state itself.
func AuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		claims, err := auth.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		// The token only carries the user ID; the row is the source of truth
		// for username and role.
		var user models.User
		if err := db.First(&user, claims.UserID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown user"})
			c.Abort()
			return
		}

		c.Set(ActorKey, &user)
		c.Next()
	}
}

// tokenFromRequest checks the httpOnly cookie first, then the
// "Authorization: Bearer <token>" header.
func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie("token"); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return ""
	}
	return tokenString
}

// RequireRole is a secondary guard that checks for specific permissions
func RequireRole(allowedRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := CurrentActor(c)
		if actor == nil || actor.Role != allowedRole {
			c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentActor returns the authenticated user for this request, or nil.
func CurrentActor(c *gin.Context) *models.User {
	v, ok := c.Get(ActorKey)
	if !ok {
		return nil
	}
	actor, _ := v.(*models.User)
	return actor
}
