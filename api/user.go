package api

import (
	"context"
	"net/http"

	"finlogix/middleware"
	"finlogix/models"

	"github.com/gin-gonic/gin"
)

// CategoryLister 列出全部类别
type CategoryLister interface {
	List(ctx context.Context) ([]models.Category, error)
}

// UserHandler 用户处理器
type UserHandler struct {
	users      UserStore
	categories CategoryLister
}

// NewUserHandler 创建用户处理器
func NewUserHandler(users UserStore, categories CategoryLister) *UserHandler {
	return &UserHandler{users: users, categories: categories}
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// Categories 全部类别
// @Summary 类别列表
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.CategoryRef "类别列表"
// @Router /user/categories [get]
func (h *UserHandler) Categories(c *gin.Context) {
	list, err := h.categories.List(c.Request.Context())
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to list categories"))
		return
	}
	out := make([]models.CategoryRef, 0, len(list))
	for _, cat := range list {
		out = append(out, models.CategoryRef{ID: cat.ID, Name: cat.Name})
	}
	c.JSON(http.StatusOK, out)
}

// Details 当前用户信息
// @Summary 当前用户信息
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse "用户信息"
// @Failure 404 {object} map[string]string "用户不存在"
// @Router /user/user-details [get]
func (h *UserHandler) Details(c *gin.Context) {
	user, err := h.users.FindByID(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": SafeErrorMessage(err, "Internal server error")})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

// ByEmail 按邮箱查询用户
// @Summary 按邮箱查询用户
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Param email path string true "邮箱"
// @Success 200 {object} UserResponse "用户信息"
// @Failure 404 {object} MessageResponse "用户不存在"
// @Router /user/by-email/{email} [get]
func (h *UserHandler) ByEmail(c *gin.Context) {
	user, err := h.users.FindByEmail(c.Request.Context(), models.NormalizeEmail(c.Param("email")))
	if err != nil {
		InternalError(c, "Internal server error")
		return
	}
	if user == nil {
		NotFound(c, "User not found")
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

// ChangePassword 修改密码
// @Summary 修改密码
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "旧密码和新密码"
// @Success 200 {object} MessageResponse "修改成功"
// @Failure 400 {object} map[string]string "参数错误"
// @Failure 401 {object} map[string]string "旧密码错误"
// @Router /user/change-password [post]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	_ = c.ShouldBindJSON(&req)
	if req.OldPassword == "" || req.NewPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Both current and new passwords are required"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.users.FindByID(ctx, middleware.GetCurrentUserID(c))
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to change password"))
		return
	}
	if user == nil || !checkPassword(user.Password, req.OldPassword) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect current password"})
		return
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		InternalError(c, "Failed to change password")
		return
	}
	if err := h.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to change password"))
		return
	}

	OK(c, "Password changed successfully")
}
