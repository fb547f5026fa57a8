package repository

import (
	"context"

	"finlogix/models"

	"gorm.io/gorm"
)

// CategoryStore 类别存储
type CategoryStore struct {
	db *gorm.DB
}

func NewCategoryStore(db *gorm.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

func (s *CategoryStore) FindByID(ctx context.Context, id uint) (*models.Category, error) {
	return first[models.Category](s.db.WithContext(ctx).Where("id = ?", id))
}

func (s *CategoryStore) FindByName(ctx context.Context, name string) (*models.Category, error) {
	return first[models.Category](s.db.WithContext(ctx).Where("name = ?", name))
}

// FindByNameExcluding 查找同名但 ID 不同的类别，用于重命名时的唯一性校验
func (s *CategoryStore) FindByNameExcluding(ctx context.Context, name string, id uint) (*models.Category, error) {
	return first[models.Category](s.db.WithContext(ctx).Where("name = ? AND id <> ?", name, id))
}

func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	var list []models.Category
	err := s.db.WithContext(ctx).Order("id ASC").Find(&list).Error
	return list, err
}

func (s *CategoryStore) Create(ctx context.Context, cat *models.Category) error {
	return s.db.WithContext(ctx).Create(cat).Error
}

func (s *CategoryStore) Rename(ctx context.Context, cat *models.Category, name string) error {
	if err := s.db.WithContext(ctx).Model(cat).Update("name", name).Error; err != nil {
		return err
	}
	cat.Name = name
	return nil
}

func (s *CategoryStore) Delete(ctx context.Context, cat *models.Category) error {
	return s.db.WithContext(ctx).Delete(cat).Error
}
