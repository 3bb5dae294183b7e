package api

import (
	"net/http"
	"strings"

	"campstock/internal/auth"
	"campstock/internal/models"

	"github.com/gin-gonic/gin"
)

const userKey = "currentUser"

// requireAuth validates the bearer token and loads the current user.
// Token problems always produce a 401 so clients know to drop their
// session.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Header("WWW-Authenticate", "Bearer")
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		claims, err := s.tokens.ParseToken(tokenString)
		if err != nil {
			c.Header("WWW-Authenticate", "Bearer")
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
			c.Abort()
			return
		}

		var user models.User
		if err := s.db.Where("id = ?", claims.UserID).First(&user).Error; err != nil {
			c.Header("WWW-Authenticate", "Bearer")
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
			c.Abort()
			return
		}

		if !user.IsActive {
			c.JSON(http.StatusForbidden, gin.H{"detail": "User account is disabled"})
			c.Abort()
			return
		}

		c.Set(userKey, &user)
		c.Next()
	}
}

// currentUser returns the authenticated user set by requireAuth
func currentUser(c *gin.Context) *models.User {
	user, _ := c.MustGet(userKey).(*models.User)
	return user
}

// requireRoles aborts with 403 unless the current user holds one of the
// allowed roles
func (s *Server) requireRoles(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		for _, role := range allowed {
			if user.Role == role {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"detail": "Access denied"})
		c.Abort()
	}
}

func (s *Server) requireAdmin() gin.HandlerFunc {
	return s.requireRoles(string(models.RoleAdmin))
}

func (s *Server) requireSupervisor() gin.HandlerFunc {
	return s.requireRoles(string(models.RoleAdmin), string(models.RolePurchasingSupervisor))
}

func (s *Server) requirePurchasing() gin.HandlerFunc {
	return s.requireRoles(
		string(models.RoleAdmin),
		string(models.RolePurchasingSupervisor),
		string(models.RolePurchasingTeam),
	)
}

// requirePropertyAccess aborts with 403 when the user cannot act on the
// property. Returns false when aborted.
func (s *Server) requirePropertyAccess(c *gin.Context, propertyID uint) bool {
	if !auth.CheckPropertyAccess(currentUser(c), propertyID) {
		c.JSON(http.StatusForbidden, gin.H{"detail": "You don't have access to this property"})
		c.Abort()
		return false
	}
	return true
}
