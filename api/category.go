package api

import (
	"fmt"
	"net/http"

	"finlogix/models"
	"finlogix/service"

	"github.com/gin-gonic/gin"
)

// CategoryHandler 类别管理（后台）
type CategoryHandler struct {
	categories *service.Categories
}

// NewCategoryHandler 创建类别处理器
func NewCategoryHandler(categories *service.Categories) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// CategoryRequest 新增/修改类别请求
type CategoryRequest struct {
	Name string `json:"name" example:"Groceries"`
}

// List 类别列表
// @Summary 类别列表
// @Tags 后台管理-类别
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.CategoryRef "类别列表"
// @Failure 403 {object} MessageResponse "非管理员"
// @Router /admin/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	list, err := h.categories.List(c.Request.Context())
	if err != nil {
		RespondError(c, err, "Failed to list categories")
		return
	}
	out := make([]models.CategoryRef, 0, len(list))
	for _, cat := range list {
		out = append(out, models.CategoryRef{ID: cat.ID, Name: cat.Name})
	}
	c.JSON(http.StatusOK, out)
}

// Create 新增类别
// @Summary 新增类别
// @Tags 后台管理-类别
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CategoryRequest true "类别名称"
// @Success 201 {object} CreatedResponse "创建成功"
// @Failure 400 {object} MessageResponse "缺少名称"
// @Failure 409 {object} MessageResponse "类别已存在"
// @Router /admin/categories/add [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req CategoryRequest
	_ = c.ShouldBindJSON(&req)

	cat, err := h.categories.Create(c.Request.Context(), req.Name)
	if err != nil {
		RespondError(c, err, "Failed to add category")
		return
	}
	Created(c, "Category added", cat.ID)
}

// Update 重命名类别
// @Summary 重命名类别
// @Tags 后台管理-类别
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "类别ID"
// @Param request body CategoryRequest true "新名称"
// @Success 200 {object} MessageResponse "修改成功"
// @Failure 400 {object} MessageResponse "缺少名称"
// @Failure 404 {object} MessageResponse "类别不存在"
// @Failure 409 {object} MessageResponse "名称已被使用"
// @Router /admin/categories/update/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		NotFound(c, "Category not found")
		return
	}
	var req CategoryRequest
	_ = c.ShouldBindJSON(&req)

	cat, err := h.categories.Rename(c.Request.Context(), id, req.Name)
	if err != nil {
		RespondError(c, err, "Failed to update category")
		return
	}
	OK(c, fmt.Sprintf("Category updated to '%s'", cat.Name))
}

// Delete 删除类别
// @Summary 删除类别
// @Description 仍被交易引用的类别不能删除
// @Tags 后台管理-类别
// @Produce json
// @Security BearerAuth
// @Param id path int true "类别ID"
// @Success 200 {object} MessageResponse "删除成功"
// @Failure 400 {object} MessageResponse "类别仍被引用"
// @Failure 404 {object} MessageResponse "类别不存在"
// @Router /admin/categories/delete/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		NotFound(c, "Category not found")
		return
	}
	if err := h.categories.Delete(c.Request.Context(), id); err != nil {
		RespondError(c, err, "Failed to delete category")
		return
	}
	OK(c, "Category deleted")
}
