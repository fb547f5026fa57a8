package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"finlogix/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// TokenAccess 访问令牌
	TokenAccess = "access"
	// TokenRefresh 刷新令牌
	TokenRefresh = "refresh"

	contextUserID = "userID"
	contextRole   = "role"
)

var jwtSecret []byte

// Claims JWT 载荷
type Claims struct {
	UserID    uint   `json:"user_id"`
	Role      string `json:"role,omitempty"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// InitJWT 初始化签名密钥
func InitJWT(cfg *config.Config) {
	jwtSecret = []byte(cfg.JWT.Secret)
}

// GenerateToken 生成访问令牌，携带用户角色
func GenerateToken(userID uint, role string, ttl time.Duration) (string, error) {
	return signToken(userID, role, TokenAccess, ttl)
}

// GenerateRefreshToken 生成刷新令牌，不携带角色，刷新时按数据库中的当前角色重新签发
func GenerateRefreshToken(userID uint, ttl time.Duration) (string, error) {
	return signToken(userID, "", TokenRefresh, ttl)
}

func signToken(userID uint, role, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    userID,
		Role:      role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    "finlogix",
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
}

// ParseToken 解析并校验访问令牌
func ParseToken(tokenString string) (*Claims, error) {
	return parse(tokenString, TokenAccess)
}

// ParseRefreshToken 解析并校验刷新令牌
func ParseRefreshToken(tokenString string) (*Claims, error) {
	return parse(tokenString, TokenRefresh)
}

func parse(tokenString, tokenType string) (*Claims, error) {
	if tokenString == "" {
		return nil, errors.New("token is empty")
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.TokenType != tokenType {
		return nil, errors.New("unexpected token type")
	}
	return claims, nil
}

// bearerToken 从 Authorization 头取令牌，SSE 等无法设置请求头的场景可用 ?token=
func bearerToken(c *gin.Context, allowQuery bool) string {
	header := c.GetHeader("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if allowQuery {
		return c.Query("token")
	}
	return ""
}

func jwtAuth(allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := ParseToken(bearerToken(c, allowQuery))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    http.StatusUnauthorized,
				"message": "Missing or invalid token",
			})
			c.Abort()
			return
		}

		c.Set(contextUserID, claims.UserID)
		c.Set(contextRole, claims.Role)
		setLogger(c, LoggerFrom(c).With(slog.Uint64("user_id", uint64(claims.UserID))))
		c.Next()
	}
}

// JWTAuth 访问令牌认证中间件
func JWTAuth() gin.HandlerFunc {
	return jwtAuth(false)
}

// JWTAuthWithQuery 同 JWTAuth，另外接受 ?token= 查询参数（用于 EventSource）
func JWTAuthWithQuery() gin.HandlerFunc {
	return jwtAuth(true)
}

// GetCurrentUserID 获取当前登录用户 ID，未登录返回 0
func GetCurrentUserID(c *gin.Context) uint {
	if v, ok := c.Get(contextUserID); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// GetCurrentRole 获取访问令牌中的角色
func GetCurrentRole(c *gin.Context) string {
	return c.GetString(contextRole)
}
