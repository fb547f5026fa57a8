package api

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"finlogix/config"
	"finlogix/middleware"
	"finlogix/models"
	"finlogix/service"

	"github.com/gin-gonic/gin"
)

// PasswordResetStore 密码重置令牌存储
type PasswordResetStore interface {
	Create(ctx context.Context, p *models.PasswordReset) error
	FindByToken(ctx context.Context, token string) (*models.PasswordReset, error)
	ResetPassword(ctx context.Context, userID uint, hash string) error
}

// PasswordResetHandler 密码重置处理器
type PasswordResetHandler struct {
	cfg    *config.Config
	users  UserStore
	resets PasswordResetStore
	mailer service.Mailer
	now    func() time.Time
}

// NewPasswordResetHandler 创建密码重置处理器
func NewPasswordResetHandler(cfg *config.Config, users UserStore, resets PasswordResetStore, mailer service.Mailer) *PasswordResetHandler {
	return &PasswordResetHandler{
		cfg:    cfg,
		users:  users,
		resets: resets,
		mailer: mailer,
		now:    time.Now,
	}
}

// ForgotPasswordRequest 忘记密码请求
type ForgotPasswordRequest struct {
	Email string `json:"email" example:"user@example.com"`
}

// ResetPasswordRequest 重置密码请求
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// ForgotPassword 请求密码重置
// @Summary 忘记密码
// @Description 无论邮箱是否注册都返回成功，避免暴露账号是否存在
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body ForgotPasswordRequest true "邮箱"
// @Success 200 {object} MessageResponse "请求成功"
// @Failure 400 {object} MessageResponse "缺少邮箱"
// @Router /auth/forgot-password [post]
func (h *PasswordResetHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	_ = c.ShouldBindJSON(&req)
	email := models.NormalizeEmail(req.Email)
	if email == "" {
		BadRequest(c, "Email is required")
		return
	}

	ctx := c.Request.Context()
	logger := middleware.LoggerFrom(c)

	user, err := h.users.FindByEmail(ctx, email)
	if err != nil {
		logger.Error("查询用户失败", slog.String("error", err.Error()))
	}
	if user != nil {
		h.issueResetToken(ctx, logger, user)
	}

	OK(c, "Reset link sent")
}

// issueResetToken 生成令牌并发送邮件，失败只记录日志
func (h *PasswordResetHandler) issueResetToken(ctx context.Context, logger *slog.Logger, user *models.User) {
	reset, err := models.NewPasswordReset(user, h.now())
	if err != nil {
		logger.Error("生成重置令牌失败", slog.String("error", err.Error()))
		return
	}
	if err := h.resets.Create(ctx, reset); err != nil {
		logger.Error("保存重置令牌失败", slog.String("error", err.Error()))
		return
	}
	if h.mailer == nil || !h.mailer.Enabled() {
		logger.Warn("邮件服务未启用，未发送重置邮件", slog.Uint64("user_id", uint64(user.ID)))
		return
	}

	link := strings.TrimRight(h.cfg.Server.BaseURL, "/") + "/reset-password?token=" + reset.Token
	if err := h.mailer.SendPasswordResetEmail(user.Email, link); err != nil {
		logger.Error("发送重置邮件失败", slog.String("error", err.Error()))
	}
}

// ResetPassword 使用令牌重置密码
// @Summary 重置密码
// @Description 令牌无效、已使用或已过期返回 400；成功后该用户的所有令牌作废
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "令牌和新密码"
// @Success 200 {object} MessageResponse "重置成功"
// @Failure 400 {object} MessageResponse "令牌无效"
// @Router /auth/reset-password [post]
func (h *PasswordResetHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Token and a new password of at least 6 characters are required")
		return
	}

	ctx := c.Request.Context()
	reset, err := h.resets.FindByToken(ctx, req.Token)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to reset password"))
		return
	}
	if reset == nil || !reset.IsValid(h.now()) {
		BadRequest(c, "Invalid or expired reset token")
		return
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		InternalError(c, "Failed to reset password")
		return
	}
	if err := h.resets.ResetPassword(ctx, reset.UserID, hash); err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to reset password"))
		return
	}

	OK(c, "Password has been reset")
}
