package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"finlogix/models"

	"github.com/gin-gonic/gin"
)

// UserFinder 按 ID 查询用户，不存在返回 nil, nil
type UserFinder interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
}

// AdminRequired 管理员权限校验，需在 JWTAuth 之后使用
// 以数据库中的当前角色为准，令牌中的角色可能已过时
func AdminRequired(users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := GetCurrentUserID(c)
		if userID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Missing or invalid token"})
			return
		}

		user, err := users.FindByID(c.Request.Context(), userID)
		if err != nil {
			LoggerFrom(c).Error("查询用户失败", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
			return
		}
		if user == nil || !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Admins only"})
			return
		}

		c.Next()
	}
}
