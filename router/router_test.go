package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"finlogix/config"
	"finlogix/middleware"
	"finlogix/notify"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupTestRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	cfg := &config.Config{
		Server:    config.ServerConfig{Mode: gin.TestMode},
		JWT:       config.JWTConfig{Secret: "router-test-secret", ExpireTime: time.Hour, RefreshExpireTime: time.Hour, RefreshCookie: "refresh_token_cookie"},
		Notify:    config.NotifyConfig{KeepaliveSeconds: 30},
		RateLimit: config.RateLimitConfig{LoginAttempts: 2, LoginWindowSeconds: 60},
	}
	config.GlobalConfig = cfg
	middleware.InitJWT(cfg)
	t.Cleanup(func() { config.GlobalConfig = nil })

	r := SetupRouter(cfg, Deps{DB: db, Hub: notify.NewHub(1)})
	return r, mock
}

func bearer(t *testing.T, userID uint, role string) string {
	token, err := middleware.GenerateToken(userID, role, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestHealth(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r, _ := setupTestRouter(t)

	for _, route := range []struct{ method, path string }{
		{"POST", "/transactions/add"},
		{"PUT", "/transactions/edit/1"},
		{"DELETE", "/transactions/delete/1"},
		{"GET", "/transactions/list"},
		{"GET", "/user/categories"},
		{"GET", "/admin/list"},
		{"GET", "/ai/advice"},
		{"GET", "/events"},
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(route.method, route.path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, route.path)
	}
}

func TestTransactionList_WithToken(t *testing.T) {
	r, mock := setupTestRouter(t)

	mock.ExpectQuery("SELECT .* FROM `transactions` WHERE user_id = \\?").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "amount", "type", "note", "timestamp", "user_id", "category_id"}))

	req := httptest.NewRequest("GET", "/transactions/list", nil)
	req.Header.Set("Authorization", bearer(t, 7, "user"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRoutes_Forbidden(t *testing.T) {
	r, mock := setupTestRouter(t)

	// 令牌中的角色不作数，以数据库为准
	mock.ExpectQuery("SELECT .* FROM `users` WHERE id = \\?").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password", "role", "created_at", "updated_at"}).
			AddRow(7, "a@example.com", "hash", "user", time.Now(), time.Now()))

	req := httptest.NewRequest("GET", "/admin/list", nil)
	req.Header.Set("Authorization", bearer(t, 7, "admin"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"message":"Admins only"}`, w.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginRateLimit(t *testing.T) {
	r, _ := setupTestRouter(t)

	// 空请求体在查库前即返回 400，只验证限流计数
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("POST", "/auth/login", nil)
		req.Header.Set("Content-Type", "application/json")
		req.Body = http.NoBody
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusBadRequest, http.StatusBadRequest, http.StatusTooManyRequests}, codes)
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware([]string{"http://localhost:3000"}))
	r.GET("/ping", func(c *gin.Context) { c.String(200, "pong") })

	req := httptest.NewRequest("OPTIONS", "/ping", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}
