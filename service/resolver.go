package service

import (
	"context"

	"finlogix/models"
)

// CategoryFinder 按 ID 或名称查找类别，未找到返回 nil, nil
type CategoryFinder interface {
	FindByID(ctx context.Context, id uint) (*models.Category, error)
	FindByName(ctx context.Context, name string) (*models.Category, error)
}

// DefaultCategoryResolver 未指定类别的交易使用的默认类别
// 返回 nil, nil 表示该类型没有默认类别
type DefaultCategoryResolver interface {
	Resolve(ctx context.Context, txType string) (*models.Category, error)
}

// NamedCategoryResolver 按 交易类型 -> 类别名称 的映射查找默认类别
type NamedCategoryResolver struct {
	categories CategoryFinder
	names      map[string]string
}

// NewNamedCategoryResolver names 为空时收入默认归入 Salary
func NewNamedCategoryResolver(categories CategoryFinder, names map[string]string) *NamedCategoryResolver {
	if len(names) == 0 {
		names = map[string]string{models.TransactionIncome: "Salary"}
	}
	return &NamedCategoryResolver{categories: categories, names: names}
}

func (r *NamedCategoryResolver) Resolve(ctx context.Context, txType string) (*models.Category, error) {
	name, ok := r.names[txType]
	if !ok || name == "" {
		return nil, nil
	}
	return r.categories.FindByName(ctx, name)
}
