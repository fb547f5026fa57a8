package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"finlogix/config"
	"finlogix/middleware"
	"finlogix/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// UserStore 认证与用户接口所需的用户存储
type UserStore interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, userID uint, hash string) error
}

// AuthHandler 认证处理器
type AuthHandler struct {
	cfg   *config.Config
	users UserStore
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(cfg *config.Config, users UserStore) *AuthHandler {
	return &AuthHandler{cfg: cfg, users: users}
}

// CredentialsRequest 注册/登录请求
type CredentialsRequest struct {
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"password123"`
}

// TokenResponse 访问令牌响应
type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

// UserResponse 用户信息
type UserResponse struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func newUserResponse(u *models.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, Role: u.Role}
}

func hashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Register 用户注册
// @Summary 用户注册
// @Description 邮箱去除首尾空格并转小写后存储，新用户角色为 user
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body CredentialsRequest true "注册信息"
// @Success 201 {object} MessageResponse "注册成功"
// @Failure 400 {object} MessageResponse "参数错误"
// @Failure 409 {object} MessageResponse "用户已存在"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Email and password required")
		return
	}
	email := models.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		BadRequest(c, "Email and password required")
		return
	}

	ctx := c.Request.Context()
	existing, err := h.users.FindByEmail(ctx, email)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Registration failed"))
		return
	}
	if existing != nil {
		Message(c, http.StatusConflict, "User already exists")
		return
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		InternalError(c, "Registration failed")
		return
	}

	user := &models.User{Email: email, Password: hash, Role: models.RoleUser}
	if err := h.users.Create(ctx, user); err != nil {
		InternalError(c, SafeErrorMessage(err, "Registration failed"))
		return
	}

	middleware.LoggerFrom(c).Info("用户注册成功", slog.Uint64("user_id", uint64(user.ID)))
	Message(c, http.StatusCreated, "User registered successfully")
}

// Login 用户登录
// @Summary 用户登录
// @Description 返回访问令牌，并通过 HttpOnly Cookie 下发刷新令牌
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body CredentialsRequest true "登录信息"
// @Success 200 {object} TokenResponse "登录成功"
// @Failure 401 {object} map[string]string "密码错误"
// @Failure 404 {object} map[string]string "用户不存在"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Email and password required")
		return
	}
	email := models.NormalizeEmail(req.Email)

	user, err := h.users.FindByEmail(c.Request.Context(), email)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Login failed"))
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if !checkPassword(user.Password, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect password"})
		return
	}

	access, err := middleware.GenerateToken(user.ID, user.Role, h.cfg.JWT.ExpireTime)
	if err != nil {
		InternalError(c, "Failed to issue token")
		return
	}
	refresh, err := middleware.GenerateRefreshToken(user.ID, h.cfg.JWT.RefreshExpireTime)
	if err != nil {
		InternalError(c, "Failed to issue token")
		return
	}

	setRefreshCookie(c, h.cfg.JWT.RefreshCookie, refresh, int(h.cfg.JWT.RefreshExpireTime/time.Second))
	c.JSON(http.StatusOK, TokenResponse{AccessToken: access})
}

// Refresh 刷新访问令牌
// @Summary 刷新访问令牌
// @Description 使用刷新令牌 Cookie 换取新的访问令牌，角色取数据库中的当前值
// @Tags 认证
// @Produce json
// @Success 200 {object} TokenResponse "刷新成功"
// @Failure 401 {object} MessageResponse "刷新令牌无效"
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	token, err := c.Cookie(h.cfg.JWT.RefreshCookie)
	if err != nil || token == "" {
		Unauthorized(c, "Missing refresh token")
		return
	}
	claims, err := middleware.ParseRefreshToken(token)
	if err != nil {
		Unauthorized(c, "Invalid refresh token")
		return
	}

	user, err := h.users.FindByID(c.Request.Context(), claims.UserID)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to refresh token"))
		return
	}
	if user == nil {
		Unauthorized(c, "Invalid refresh token")
		return
	}

	access, err := middleware.GenerateToken(user.ID, user.Role, h.cfg.JWT.ExpireTime)
	if err != nil {
		InternalError(c, "Failed to issue token")
		return
	}
	c.JSON(http.StatusOK, TokenResponse{AccessToken: access})
}

// Logout 退出登录
// @Summary 退出登录
// @Description 清除刷新令牌 Cookie
// @Tags 认证
// @Produce json
// @Success 200 {object} MessageResponse "退出成功"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	setRefreshCookie(c, h.cfg.JWT.RefreshCookie, "", -1)
	OK(c, "Logout successful")
}

// Profile 当前用户信息
// @Summary 当前用户信息
// @Tags 认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse "用户信息"
// @Failure 404 {object} MessageResponse "用户不存在"
// @Router /auth/profile [get]
func (h *AuthHandler) Profile(c *gin.Context) {
	user, err := h.users.FindByID(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to load profile"))
		return
	}
	if user == nil {
		NotFound(c, "User not found")
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

// CheckEmail 邮箱是否可注册
// @Summary 检查邮箱是否可用
// @Tags 认证
// @Produce json
// @Param email query string true "邮箱"
// @Success 200 {object} map[string]bool "available"
// @Failure 400 {object} map[string]interface{} "缺少邮箱"
// @Router /auth/check-email [get]
func (h *AuthHandler) CheckEmail(c *gin.Context) {
	email := models.NormalizeEmail(c.Query("email"))
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"available": false, "error": "Email is required"})
		return
	}

	user, err := h.users.FindByEmail(c.Request.Context(), email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"available": false, "error": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": user == nil})
}
