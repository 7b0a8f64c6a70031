package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/registration-service/internal/auth"
	"github.com/SAP-F-2025/registration-service/internal/models"
	"github.com/SAP-F-2025/registration-service/internal/repositories"
)

// JWTAuthMiddleware authenticates requests with bearer tokens issued by the
// auth endpoints and loads the account behind each token.
type JWTAuthMiddleware struct {
	tokens   *auth.TokenManager
	userRepo repositories.UserRepository
	db       *gorm.DB
}

func NewJWTAuthMiddleware(tokens *auth.TokenManager, userRepo repositories.UserRepository, db *gorm.DB) *JWTAuthMiddleware {
	return &JWTAuthMiddleware{
		tokens:   tokens,
		userRepo: userRepo,
		db:       db,
	}
}

// AuthMiddleware returns a Gin middleware function for token authentication
func (am *JWTAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			respondError(c, http.StatusUnauthorized, "authorization header missing")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>" format
		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
			respondError(c, http.StatusUnauthorized, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := am.tokens.Parse(tokenParts[1])
		if err != nil {
			respondError(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		// The account is loaded fresh so deactivation and role changes take
		// effect before the token expires.
		user, err := am.userRepo.GetByID(c.Request.Context(), am.db, claims.UserID)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "account no longer exists")
			c.Abort()
			return
		}
		if !user.IsActive {
			respondError(c, http.StatusUnauthorized, "account is deactivated")
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user", user)
		c.Set("username", user.Username)
		c.Set("user_roles", user.RoleNames())

		c.Next()
	}
}

// RequireRoleMiddleware checks if user has any of the required roles.
// Admins pass every role gate.
func (am *JWTAuthMiddleware) RequireRoleMiddleware(requiredRoles ...models.RoleName) gin.HandlerFunc {
	return func(c *gin.Context) {
		roles, err := GetUserRolesFromContext(c)
		if err != nil {
			respondError(c, http.StatusForbidden, "user roles not found in context")
			c.Abort()
			return
		}

		hasRequiredRole := false
		for _, role := range roles {
			if role == models.RoleAdmin {
				hasRequiredRole = true
				break
			}
			for _, required := range requiredRoles {
				if role == required {
					hasRequiredRole = true
					break
				}
			}
		}

		if !hasRequiredRole {
			respondError(c, http.StatusForbidden, fmt.Sprintf("insufficient permissions, required role: %v", requiredRoles))
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetUserFromContext extracts the authenticated account from Gin context
func GetUserFromContext(c *gin.Context) (*models.User, error) {
	user, exists := c.Get("user")
	if !exists {
		return nil, fmt.Errorf("user not found in context")
	}

	userModel, ok := user.(*models.User)
	if !ok {
		return nil, fmt.Errorf("invalid user type in context")
	}

	return userModel, nil
}

// GetUserIDFromContext extracts the authenticated account id from Gin context
func GetUserIDFromContext(c *gin.Context) (uint, error) {
	userID, exists := c.Get("user_id")
	if !exists {
		return 0, fmt.Errorf("user ID not found in context")
	}

	id, ok := userID.(uint)
	if !ok {
		return 0, fmt.Errorf("invalid user ID type in context")
	}

	return id, nil
}

// GetUserRolesFromContext extracts the authenticated account roles from Gin context
func GetUserRolesFromContext(c *gin.Context) ([]models.RoleName, error) {
	userRoles, exists := c.Get("user_roles")
	if !exists {
		return nil, fmt.Errorf("user roles not found in context")
	}

	roles, ok := userRoles.([]models.RoleName)
	if !ok {
		return nil, fmt.Errorf("invalid user roles type in context")
	}

	return roles, nil
}

// HasElevatedRole reports whether the context roles include moderator or admin.
func HasElevatedRole(c *gin.Context) bool {
	roles, err := GetUserRolesFromContext(c)
	if err != nil {
		return false
	}
	for _, role := range roles {
		if role == models.RoleModerator || role == models.RoleAdmin {
			return true
		}
	}
	return false
}
