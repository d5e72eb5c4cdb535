package repository

import (
	"quiz_platform_backend/internal/model"

	"gorm.io/gorm"
)

type PermissionRepository struct {
	DB *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) *PermissionRepository {
	return &PermissionRepository{DB: db}
}

func (r *PermissionRepository) FindAll() ([]model.Permission, error) {
	var permissions []model.Permission
	err := r.DB.Order("id").Find(&permissions).Error
	return permissions, err
}

func (r *PermissionRepository) FindByID(id string) (*model.Permission, error) {
	var p model.Permission
	if err := r.DB.First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PermissionRepository) Save(permission *model.Permission) error {
	return r.DB.Save(permission).Error
}

func (r *PermissionRepository) Delete(id string) error {
	return r.DB.Delete(&model.Permission{}, "id = ?", id).Error
}
