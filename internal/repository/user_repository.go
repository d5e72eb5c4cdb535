package repository

import (
	"quiz_platform_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) Save(user *model.User) error {
	return r.DB.Save(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var u model.User
	if err := r.DB.Preload("Permissions").First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) FindByUsername(username string) (*model.User, error) {
	var u model.User
	if err := r.DB.Preload("Permissions").Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) FindByTelegramID(telegramID string) (*model.User, error) {
	var u model.User
	if err := r.DB.Preload("Permissions").Where("telegram_id = ?", telegramID).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) FindAll() ([]model.User, error) {
	var users []model.User
	err := r.DB.Preload("Permissions").Order("id").Find(&users).Error
	return users, err
}

func (r *UserRepository) Delete(id uint) error {
	return r.DB.Delete(&model.User{}, id).Error
}

func (r *UserRepository) ExistsByUsername(username string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) ExistsByTelegramID(telegramID string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.User{}).Where("telegram_id = ?", telegramID).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) AddPermission(user *model.User, permission *model.Permission) error {
	return r.DB.Model(user).Association("Permissions").Append(permission)
}

func (r *UserRepository) RemovePermission(user *model.User, permission *model.Permission) error {
	return r.DB.Model(user).Association("Permissions").Delete(permission)
}
