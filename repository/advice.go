package repository

import (
	"context"

	"finlogix/models"

	"gorm.io/gorm"
)

// AdviceStore AI 建议历史存储
type AdviceStore struct {
	db *gorm.DB
}

func NewAdviceStore(db *gorm.DB) *AdviceStore {
	return &AdviceStore{db: db}
}

func (s *AdviceStore) Create(ctx context.Context, h *models.AdviceHistory) error {
	return s.db.WithContext(ctx).Create(h).Error
}

// ListByUser 最近的建议在前，limit <= 0 时不限制
func (s *AdviceStore) ListByUser(ctx context.Context, userID uint, limit int) ([]models.AdviceHistory, error) {
	var list []models.AdviceHistory
	q := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&list).Error
	return list, err
}
