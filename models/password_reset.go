package models

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// PasswordResetTTL 重置令牌有效期
const PasswordResetTTL = 30 * time.Minute

// PasswordReset 密码重置令牌模型
type PasswordReset struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Token     string    `json:"-" gorm:"uniqueIndex;size:64;not null"`
	Email     string    `json:"email" gorm:"size:120;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	Used      bool      `json:"used" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
	User      User      `json:"-" gorm:"foreignKey:UserID"`
}

// TableName 设置表名
func (PasswordReset) TableName() string {
	return "password_resets"
}

// GenerateToken 生成随机令牌（32 字节，hex 编码）
func GenerateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// NewPasswordReset 为用户生成一条新的重置令牌
func NewPasswordReset(user *User, now time.Time) (*PasswordReset, error) {
	token, err := GenerateToken()
	if err != nil {
		return nil, err
	}
	return &PasswordReset{
		UserID:    user.ID,
		Token:     token,
		Email:     user.Email,
		ExpiresAt: now.Add(PasswordResetTTL),
	}, nil
}

// IsExpired 检查令牌是否过期
func (p *PasswordReset) IsExpired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}

// IsValid 检查令牌是否有效
func (p *PasswordReset) IsValid(now time.Time) bool {
	return !p.Used && !p.IsExpired(now)
}
