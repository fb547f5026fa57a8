package models

import (
	"strings"
	"time"
)

const (
	// RoleUser 普通用户
	RoleUser = "user"
	// RoleAdmin 管理员
	RoleAdmin = "admin"
)

// User 用户模型
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"uniqueIndex;size:120;not null"`
	Password  string    `json:"-" gorm:"size:255;not null"`
	Role      string    `json:"role" gorm:"size:20;default:user;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 设置表名
func (User) TableName() string {
	return "users"
}

// IsAdmin 是否为管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// NormalizeEmail 邮箱统一去空格并转小写后存储和查询
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
