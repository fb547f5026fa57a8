package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"finlogix/middleware"
	"finlogix/models"

	"github.com/gin-gonic/gin"
)

// AdminUserStore 后台用户管理所需的存储
type AdminUserStore interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	ListByRole(ctx context.Context, role string) ([]models.User, error)
	UpdateRole(ctx context.Context, userID uint, role string) error
}

// AdminHandler 后台用户管理处理器
type AdminHandler struct {
	users AdminUserStore
}

// NewAdminHandler 创建后台用户管理处理器
func NewAdminHandler(users AdminUserStore) *AdminHandler {
	return &AdminHandler{users: users}
}

// AdminSummary 管理员列表项
type AdminSummary struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
}

// UserList 全部用户
// @Summary 用户列表
// @Tags 后台管理
// @Produce json
// @Security BearerAuth
// @Success 200 {array} UserResponse "用户列表"
// @Failure 403 {object} MessageResponse "非管理员"
// @Router /admin/user-list [get]
func (h *AdminHandler) UserList(c *gin.Context) {
	list, err := h.users.List(c.Request.Context())
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to list users"))
		return
	}
	out := make([]UserResponse, 0, len(list))
	for i := range list {
		out = append(out, newUserResponse(&list[i]))
	}
	c.JSON(http.StatusOK, out)
}

// Promote 提升为管理员
// @Summary 提升为管理员
// @Tags 后台管理
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "用户ID"
// @Success 200 {object} MessageResponse "操作成功"
// @Failure 403 {object} MessageResponse "非管理员"
// @Failure 404 {object} MessageResponse "用户不存在"
// @Router /admin/promote/{user_id} [post]
func (h *AdminHandler) Promote(c *gin.Context) {
	id, ok := pathID(c, "user_id")
	if !ok {
		NotFound(c, "User not found")
		return
	}

	ctx := c.Request.Context()
	user, err := h.users.FindByID(ctx, id)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to promote user"))
		return
	}
	if user == nil {
		NotFound(c, "User not found")
		return
	}
	if user.IsAdmin() {
		OK(c, "User is already an admin")
		return
	}

	if err := h.users.UpdateRole(ctx, user.ID, models.RoleAdmin); err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to promote user"))
		return
	}

	middleware.LoggerFrom(c).Info("用户已提升为管理员",
		slog.Uint64("target_user_id", uint64(user.ID)),
		slog.Uint64("by_user_id", uint64(middleware.GetCurrentUserID(c))),
	)
	OK(c, fmt.Sprintf("%s promoted to admin.", user.Email))
}

// ListAdmins 全部管理员
// @Summary 管理员列表
// @Tags 后台管理
// @Produce json
// @Security BearerAuth
// @Success 200 {array} AdminSummary "管理员列表"
// @Failure 403 {object} MessageResponse "非管理员"
// @Router /admin/list [get]
func (h *AdminHandler) ListAdmins(c *gin.Context) {
	list, err := h.users.ListByRole(c.Request.Context(), models.RoleAdmin)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to list admins"))
		return
	}
	out := make([]AdminSummary, 0, len(list))
	for _, u := range list {
		out = append(out, AdminSummary{ID: u.ID, Email: u.Email})
	}
	c.JSON(http.StatusOK, out)
}
