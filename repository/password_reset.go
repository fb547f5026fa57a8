package repository

import (
	"context"

	"finlogix/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PasswordResetStore 密码重置令牌存储
type PasswordResetStore struct {
	db *gorm.DB
}

func NewPasswordResetStore(db *gorm.DB) *PasswordResetStore {
	return &PasswordResetStore{db: db}
}

func (s *PasswordResetStore) Create(ctx context.Context, p *models.PasswordReset) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
}

func (s *PasswordResetStore) FindByToken(ctx context.Context, token string) (*models.PasswordReset, error) {
	return first[models.PasswordReset](s.db.WithContext(ctx).Where("token = ?", token))
}

// ResetPassword 更新密码并作废该用户全部未使用的令牌，在同一事务内完成
func (s *PasswordResetStore) ResetPassword(ctx context.Context, userID uint, hash string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Update("password", hash).Error; err != nil {
			return err
		}
		return tx.Model(&models.PasswordReset{}).
			Where("user_id = ? AND used = ?", userID, false).
			Update("used", true).Error
	})
}
