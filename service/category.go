package service

import (
	"context"
	"fmt"
	"strings"

	"finlogix/models"
)

// CategoryStore 类别管理所需的存储
type CategoryStore interface {
	CategoryFinder
	FindByNameExcluding(ctx context.Context, name string, id uint) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, cat *models.Category) error
	Rename(ctx context.Context, cat *models.Category, name string) error
	Delete(ctx context.Context, cat *models.Category) error
}

// UsageCounter 统计引用某类别的交易数
type UsageCounter interface {
	CountByCategory(ctx context.Context, categoryID uint) (int64, error)
}

// Categories 类别管理（后台）
// 删除前的引用检查与并发新增交易之间不加锁
type Categories struct {
	store CategoryStore
	usage UsageCounter
}

func NewCategories(store CategoryStore, usage UsageCounter) *Categories {
	return &Categories{store: store, usage: usage}
}

func (s *Categories) List(ctx context.Context) ([]models.Category, error) {
	return s.store.List(ctx)
}

// Create 新增类别，名称去除首尾空格后必须唯一
func (s *Categories) Create(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationError("Category name is required")
	}
	existing, err := s.store.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	if existing != nil {
		return nil, duplicateError("Category already exists")
	}

	cat := &models.Category{Name: name}
	if err := s.store.Create(ctx, cat); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return cat, nil
}

// Rename 修改类别名称
func (s *Categories) Rename(ctx context.Context, id uint, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationError("New category name is required")
	}
	cat, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	if cat == nil {
		return nil, notFoundError("Category not found")
	}
	dup, err := s.store.FindByNameExcluding(ctx, name, id)
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	if dup != nil {
		return nil, duplicateError("Category with this name already exists")
	}

	if err := s.store.Rename(ctx, cat, name); err != nil {
		return nil, fmt.Errorf("rename category: %w", err)
	}
	return cat, nil
}

// Delete 删除类别，仍被交易引用时拒绝删除
func (s *Categories) Delete(ctx context.Context, id uint) error {
	cat, err := s.store.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find category: %w", err)
	}
	if cat == nil {
		return notFoundError("Category not found")
	}

	n, err := s.usage.CountByCategory(ctx, cat.ID)
	if err != nil {
		return fmt.Errorf("count category usage: %w", err)
	}
	if n > 0 {
		return validationError(fmt.Sprintf("Cannot delete category '%s' — used in %d transactions", cat.Name, n))
	}

	if err := s.store.Delete(ctx, cat); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}
