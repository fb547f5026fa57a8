package repository

import (
	"context"

	"finlogix/models"

	"gorm.io/gorm"
)

// UserStore 用户存储
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return first[models.User](s.db.WithContext(ctx).Where("id = ?", id))
}

// FindByEmail 邮箱需已规范化
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return first[models.User](s.db.WithContext(ctx).Where("email = ?", email))
}

func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *UserStore) UpdatePassword(ctx context.Context, userID uint, hash string) error {
	return s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("password", hash).Error
}

func (s *UserStore) UpdateRole(ctx context.Context, userID uint, role string) error {
	return s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("role", role).Error
}

func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	var list []models.User
	err := s.db.WithContext(ctx).Order("id ASC").Find(&list).Error
	return list, err
}

func (s *UserStore) ListByRole(ctx context.Context, role string) ([]models.User, error) {
	var list []models.User
	err := s.db.WithContext(ctx).Where("role = ?", role).Order("id ASC").Find(&list).Error
	return list, err
}
