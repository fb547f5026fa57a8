package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"finlogix/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initJWTTestConfig() {
	config.GlobalConfig = &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		JWT:    config.JWTConfig{Secret: "test-jwt-secret-key"},
	}
}

func TestGenerateToken(t *testing.T) {
	initJWTTestConfig()
	defer func() { config.GlobalConfig = nil }()

	InitJWT(config.GlobalConfig)

	token, err := GenerateToken(1, "admin", 24*time.Hour)
	require.NoError(t, err)
	assert.Greater(t, len(token), 20)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(1), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, TokenAccess, claims.TokenType)
}

func TestParseToken(t *testing.T) {
	initJWTTestConfig()
	defer func() { config.GlobalConfig = nil }()

	InitJWT(config.GlobalConfig)

	// 空字符串
	_, err := ParseToken("")
	assert.Error(t, err)

	// 无效格式
	_, err = ParseToken("not.a.valid.jwt")
	assert.Error(t, err)
	_, err = ParseToken("eyJhbGciOiJmb29iIn0.xxxx.yyyy")
	assert.Error(t, err)

	// 已过期
	expired, _ := GenerateToken(1, "user", -time.Minute)
	_, err = ParseToken(expired)
	assert.Error(t, err)

	// 刷新令牌不能当访问令牌用，反之亦然
	refresh, err := GenerateRefreshToken(5, time.Hour)
	require.NoError(t, err)
	_, err = ParseToken(refresh)
	assert.Error(t, err)
	claims, err := ParseRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, uint(5), claims.UserID)
	assert.Empty(t, claims.Role)

	access, _ := GenerateToken(5, "user", time.Hour)
	_, err = ParseRefreshToken(access)
	assert.Error(t, err)

	// 其他密钥签发
	InitJWT(&config.Config{JWT: config.JWTConfig{Secret: "another-secret"}})
	_, err = ParseToken(access)
	assert.Error(t, err)
}

func TestJWTAuth(t *testing.T) {
	initJWTTestConfig()
	defer func() { config.GlobalConfig = nil }()

	InitJWT(config.GlobalConfig)
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestLogger(slog.Default()))
	router.Use(JWTAuth())
	router.GET("/protected", func(c *gin.Context) {
		c.String(200, "id:%d role:%s", GetCurrentUserID(c), GetCurrentRole(c))
	})

	// 无 token
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/protected", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	// 格式错误（非 Bearer）
	req2 := httptest.NewRequest("GET", "/protected", nil)
	req2.Header.Set("Authorization", "Basic xyz")
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req2)
	assert.Equal(t, http.StatusUnauthorized, w2.Code)

	// 仅 Bearer 无 token
	req3 := httptest.NewRequest("GET", "/protected", nil)
	req3.Header.Set("Authorization", "Bearer ")
	w3 := httptest.NewRecorder()
	router.ServeHTTP(w3, req3)
	assert.Equal(t, http.StatusUnauthorized, w3.Code)

	// 有效 token
	token, _ := GenerateToken(42, "user", time.Hour)
	req4 := httptest.NewRequest("GET", "/protected", nil)
	req4.Header.Set("Authorization", "Bearer "+token)
	w4 := httptest.NewRecorder()
	router.ServeHTTP(w4, req4)
	assert.Equal(t, 200, w4.Code)
	assert.Equal(t, "id:42 role:user", w4.Body.String())

	// 查询参数中的 token 只对 JWTAuthWithQuery 生效
	req5 := httptest.NewRequest("GET", "/protected?token="+token, nil)
	w5 := httptest.NewRecorder()
	router.ServeHTTP(w5, req5)
	assert.Equal(t, http.StatusUnauthorized, w5.Code)

	sse := gin.New()
	sse.Use(JWTAuthWithQuery())
	sse.GET("/events", func(c *gin.Context) { c.String(200, "id:%d", GetCurrentUserID(c)) })
	w6 := httptest.NewRecorder()
	sse.ServeHTTP(w6, httptest.NewRequest("GET", "/events?token="+token, nil))
	assert.Equal(t, 200, w6.Code)
	assert.Equal(t, "id:42", w6.Body.String())
}

func TestGetCurrentUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, uint(0), GetCurrentUserID(c))

	c.Set("userID", uint(99))
	assert.Equal(t, uint(99), GetCurrentUserID(c))
}

func TestRequestLogger_KeepsIncomingRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestLogger(slog.Default()))
	router.GET("/ping", func(c *gin.Context) {
		assert.Same(t, LoggerFrom(c), LoggerFromContext(c.Request.Context()))
		c.Status(204)
	})

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}
