package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/alvinsyah/goblog/models"
	"github.com/alvinsyah/goblog/utils"
)

const (
	// ContextUserIDKey is the key used to store the authenticated user ID in Gin context.
	ContextUserIDKey = "user_id"
	// ContextUsernameKey stores the username inside Gin context.
	ContextUsernameKey = "username"
	// ContextRoleKey stores the resolved role name inside Gin context.
	ContextRoleKey = "role"
)

// TokenFromRequest extracts the bearer token from the Authorization header or,
// failing that, from the jwt cookie. A header that does not parse as Bearer
// falls through to the cookie instead of shadowing it.
func TokenFromRequest(ctx *gin.Context) string {
	authHeader := ctx.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if cookie, err := ctx.Cookie("jwt"); err == nil {
		return strings.TrimSpace(cookie)
	}
	return ""
}

// AuthRequired ensures the request carries a valid JWT and resolves the
// corresponding user, attaching id, username and role name to the context.
func AuthRequired(db *gorm.DB) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := TokenFromRequest(ctx)
		if token == "" {
			utils.Fail(ctx, http.StatusUnauthorized, "authentication required, please login first")
			ctx.Abort()
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			if errors.Is(err, utils.ErrTokenExpired) {
				utils.Fail(ctx, http.StatusUnauthorized, "session expired, please login again")
			} else {
				utils.Fail(ctx, http.StatusUnauthorized, "invalid token, please login again")
			}
			ctx.Abort()
			return
		}

		if utils.IsTokenBlacklisted(claims.ID) {
			utils.Fail(ctx, http.StatusUnauthorized, "token revoked, please login again")
			ctx.Abort()
			return
		}

		var user models.User
		if err := db.Preload("Role").First(&user, claims.UserID).Error; err != nil {
			utils.Fail(ctx, http.StatusUnauthorized, "user not found, please login again")
			ctx.Abort()
			return
		}

		ctx.Set(ContextUserIDKey, user.ID)
		ctx.Set(ContextUsernameKey, user.Username)
		ctx.Set(ContextRoleKey, user.RoleName())
		ctx.Next()
	}
}

// UserID returns the authenticated user id stored by AuthRequired.
func UserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(ContextUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}

// RoleName returns the authenticated user's role name, empty when absent.
func RoleName(ctx *gin.Context) string {
	value, exists := ctx.Get(ContextRoleKey)
	if !exists {
		return ""
	}
	role, _ := value.(string)
	return role
}
