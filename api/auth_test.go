package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"finlogix/config"
	"finlogix/middleware"
	"finlogix/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var userColumns = []string{"id", "email", "password", "role", "created_at", "updated_at"}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func initAuthTestConfig(t *testing.T) *config.Config {
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "debug", BaseURL: "http://localhost:8080"},
		JWT: config.JWTConfig{
			Secret:            "test-jwt-secret-key",
			ExpireTime:        15 * time.Minute,
			RefreshExpireTime: 7 * 24 * time.Hour,
			RefreshCookie:     "refresh_token_cookie",
		},
	}
	config.GlobalConfig = cfg
	middleware.InitJWT(cfg)
	t.Cleanup(func() { config.GlobalConfig = nil })
	return cfg
}

func authRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(cfg, repository.NewUserStore(db))
	router := gin.New()
	router.POST("/auth/register", h.Register)
	router.POST("/auth/login", h.Login)
	router.POST("/auth/refresh", h.Refresh)
	router.POST("/auth/logout", h.Logout)
	router.GET("/auth/check-email", h.CheckEmail)
	router.GET("/auth/profile", setUserIDMiddleware(1), h.Profile)
	return router
}

func TestAuthHandler_Register(t *testing.T) {
	cfg := initAuthTestConfig(t)
	db, mock := setupMockDB(t)

	mock.ExpectQuery("SELECT .* FROM `users` WHERE email = \\?").
		WithArgs("new@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	w := doJSON(authRouter(cfg, db), "POST", "/auth/register", `{"email":"  New@Example.com ","password":"secret1"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"message":"User registered successfully"}`, w.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	cfg := initAuthTestConfig(t)
	db, mock := setupMockDB(t)

	mock.ExpectQuery("SELECT .* FROM `users` WHERE email = \\?").
		WithArgs("a@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(1, "a@example.com", "hash", "user", time.Now(), time.Now()))

	w := doJSON(authRouter(cfg, db), "POST", "/auth/register", `{"email":"a@example.com","password":"secret1"}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"message":"User already exists"}`, w.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Register_MissingFields(t *testing.T) {
	cfg := initAuthTestConfig(t)
	db, _ := setupMockDB(t)

	w := doJSON(authRouter(cfg, db), "POST", "/auth/register", `{"email":"a@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Email and password required"}`, w.Body.String())
}

func TestAuthHandler_Login(t *testing.T) {
	cfg := initAuthTestConfig(t)
	db, mock := setupMockDB(t)
	hash, err := hashPassword("secret1")
	require.NoError(t, err)

	mock.ExpectQuery("SELECT .* FROM `users` WHERE email = \\?").
		WithArgs("a@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(7, "a@example.com", hash, "admin", time.Now(), time.Now()))

	w := doJSON(authRouter(cfg, db), "POST", "/auth/login", `{"email":"A@example.com","password":"secret1"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	claims, err := middleware.ParseToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "admin", claims.Role)

	cookie := w.Header().Get("Set-Cookie")
	assert.True(t, strings.HasPrefix(cookie, "refresh_token_cookie="))
	assert.Contains(t, cookie, "Path=/auth/refresh")
	assert.Contains(t, cookie, "HttpOnly")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Login_Errors(t *testing.T) {
	cfg := initAuthTestConfig(t)
	db, mock := setupMockDB(t)
	hash, err := hashPassword("secret1")
	require.NoError(t, err)
	router := authRouter(cfg, db)

	mock.ExpectQuery("SELECT .* FROM `users` WHERE email = \\?").
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns))
	w := doJSON(router, "POST", "/auth/login", `{"email":"ghost@example.com","password":"x"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"User not found"}`, w.Body.String())

	mock.ExpectQuery("SELECT .* FROM `users` WHERE email = \\?").
		WithArgs("a@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(7, "a@example.com", hash, "user", time.Now(), time.Now()))
	w = doJSON(router, "POST", "/auth/login", `{"email":"a@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Incorrect password"}`, w.Body.String())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Refresh(t *testing.T) {
	cfg := initAuthTestConfig(t)
	db, mock := setupMockDB(t)
	router := authRouter(cfg, db)

	refresh, err := middleware.GenerateRefreshToken(7, time.Hour)
	require.NoError(t, err)

	// 角色取数据库中的当前值
	mock.ExpectQuery("SELECT .* FROM `users` WHERE id = \\?").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(7, "a@example.com", "hash", "admin", time.Now(), time.Now()))

	req := newRequest("POST", "/auth/refresh")
	req.AddCookie(&http.Cookie{Name: "refresh_token_cookie", Value: refresh})
	w := serve(router, req)
	require.Equal(t, http.StatusOK, w.Code)
	var resp TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	claims, err := middleware.ParseToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)

	// 访问令牌不能当作刷新令牌使用
	req = newRequest("POST", "/auth/refresh")
	req.AddCookie(&http.Cookie{Name: "refresh_token_cookie", Value: resp.AccessToken})
	assert.Equal(t, http.StatusUnauthorized, serve(router, req).Code)

	assert.Equal(t, http.StatusUnauthorized, serve(router, newRequest("POST", "/auth/refresh")).Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Logout(t *testing.T) {
	cfg := initAuthTestConfig(t)
	db, _ := setupMockDB(t)

	w := doJSON(authRouter(cfg, db), "POST", "/auth/logout", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Logout successful"}`, w.Body.String())
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestAuthHandler_CheckEmail(t *testing.T) {
	cfg := initAuthTestConfig(t)
	db, mock := setupMockDB(t)
	router := authRouter(cfg, db)

	mock.ExpectQuery("SELECT .* FROM `users` WHERE email = \\?").
		WithArgs("free@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns))

	w := doJSON(router, "GET", "/auth/check-email?email=Free@example.com", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"available":true}`, w.Body.String())

	w = doJSON(router, "GET", "/auth/check-email", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Profile(t *testing.T) {
	cfg := initAuthTestConfig(t)
	db, mock := setupMockDB(t)

	mock.ExpectQuery("SELECT .* FROM `users` WHERE id = \\?").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(1, "a@example.com", "hash", "user", time.Now(), time.Now()))

	w := doJSON(authRouter(cfg, db), "GET", "/auth/profile", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"email":"a@example.com","role":"user"}`, w.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}
