package service

import (
	"quiz_platform_backend/internal/model"
	"quiz_platform_backend/internal/repository"
	"quiz_platform_backend/internal/util"
)

type PermissionService struct {
	Repo *repository.PermissionRepository
}

func NewPermissionService(repo *repository.PermissionRepository) *PermissionService {
	return &PermissionService{Repo: repo}
}

func (s *PermissionService) GetAllPermissions() ([]model.Permission, error) {
	return s.Repo.FindAll()
}

func (s *PermissionService) GetPermissionByID(id string) (*model.Permission, error) {
	permission, err := s.Repo.FindByID(id)
	if err != nil {
		return nil, asDomainErr(err, util.ErrPermissionNotFound)
	}
	return permission, nil
}

func (s *PermissionService) CreatePermission(name, description string) (*model.Permission, error) {
	permission := &model.Permission{Name: name, Description: description}
	if err := s.Repo.Save(permission); err != nil {
		return nil, err
	}
	return permission, nil
}

func (s *PermissionService) UpdatePermission(id, name, description string) (*model.Permission, error) {
	permission, err := s.GetPermissionByID(id)
	if err != nil {
		return nil, err
	}
	permission.Name = name
	permission.Description = description
	if err := s.Repo.Save(permission); err != nil {
		return nil, err
	}
	return permission, nil
}

func (s *PermissionService) DeletePermission(id string) error {
	if _, err := s.GetPermissionByID(id); err != nil {
		return err
	}
	return s.Repo.Delete(id)
}
