// Package repository 基于 gorm 的数据访问层
// 查询不到记录时返回 (nil, nil)，由调用方决定是否视为错误
package repository

import (
	"errors"

	"gorm.io/gorm"
)

// first 查询单条记录，记录不存在时返回 nil, nil
func first[T any](q *gorm.DB) (*T, error) {
	var out T
	if err := q.First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}
