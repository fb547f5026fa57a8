package repository

import (
	"context"

	"finlogix/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TransactionStore 交易记录存储
type TransactionStore struct {
	db *gorm.DB
}

// NewTransactionStore 创建交易记录存储
func NewTransactionStore(db *gorm.DB) *TransactionStore {
	return &TransactionStore{db: db}
}

// FindOwnedBy 按归属用户查询交易，不存在或不属于该用户都返回 nil, nil
func (s *TransactionStore) FindOwnedBy(ctx context.Context, ownerID, id uint) (*models.Transaction, error) {
	return first[models.Transaction](s.db.WithContext(ctx).
		Preload("Category").
		Where("id = ? AND user_id = ?", id, ownerID))
}

// ListByOwner 查询用户全部交易，按时间倒序
func (s *TransactionStore) ListByOwner(ctx context.Context, ownerID uint) ([]models.Transaction, error) {
	var list []models.Transaction
	err := s.db.WithContext(ctx).
		Preload("Category").
		Where("user_id = ?", ownerID).
		Order("timestamp DESC, id DESC").
		Find(&list).Error
	return list, err
}

// Create 新增交易，不写关联表
func (s *TransactionStore) Create(ctx context.Context, tx *models.Transaction) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(tx).Error
}

// Update 覆盖交易的可编辑字段，时间戳与归属不变
// 交易已被删除时返回 false，不会重新插入
func (s *TransactionStore) Update(ctx context.Context, tx *models.Transaction) (bool, error) {
	db := s.db.WithContext(ctx)
	res := db.Model(&models.Transaction{}).
		Where("id = ? AND user_id = ?", tx.ID, tx.UserID).
		Updates(map[string]interface{}{
			"amount":      tx.Amount,
			"type":        tx.Type,
			"note":        tx.Note,
			"category_id": tx.CategoryID,
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	// MySQL 在值未变化时同样返回 0 行，需再查一次
	var n int64
	err := db.Model(&models.Transaction{}).
		Where("id = ? AND user_id = ?", tx.ID, tx.UserID).
		Count(&n).Error
	return n > 0, err
}

// Delete 删除交易
func (s *TransactionStore) Delete(ctx context.Context, tx *models.Transaction) error {
	return s.db.WithContext(ctx).Delete(&models.Transaction{}, tx.ID).Error
}

// CountByCategory 统计引用某类别的交易数
func (s *TransactionStore) CountByCategory(ctx context.Context, categoryID uint) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("category_id = ?", categoryID).
		Count(&n).Error
	return n, err
}
