package service

import (
	"quiz_platform_backend/internal/model"
	"quiz_platform_backend/internal/repository"
	"quiz_platform_backend/internal/util"
	"quiz_platform_backend/pkg/logger"

	"go.uber.org/zap"
)

type UserService struct {
	Repo        *repository.UserRepository
	Permissions *repository.PermissionRepository
}

func NewUserService(repo *repository.UserRepository, permissions *repository.PermissionRepository) *UserService {
	return &UserService{Repo: repo, Permissions: permissions}
}

func (s *UserService) GetAllUsers() ([]model.User, error) {
	return s.Repo.FindAll()
}

func (s *UserService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.Repo.FindByID(id)
	if err != nil {
		return nil, asDomainErr(err, util.ErrUserNotFound)
	}
	return user, nil
}

func (s *UserService) GetUserByUsername(username string) (*model.User, error) {
	user, err := s.Repo.FindByUsername(username)
	if err != nil {
		return nil, asDomainErr(err, util.ErrUserNotFound)
	}
	return user, nil
}

func (s *UserService) GetUserByTelegramID(telegramID string) (*model.User, error) {
	user, err := s.Repo.FindByTelegramID(telegramID)
	if err != nil {
		return nil, asDomainErr(err, util.ErrUserNotFound)
	}
	return user, nil
}

// RegisterTelegramUser creates an account for a telegram identity, or
// returns the existing one. New users start with the USER role.
func (s *UserService) RegisterTelegramUser(telegramID, username, firstName, lastName string) (*model.User, error) {
	if existing, err := s.Repo.FindByTelegramID(telegramID); err == nil {
		return existing, nil
	}

	taken, err := s.Repo.ExistsByUsername(username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, util.ErrUsernameTaken
	}

	user := &model.User{
		TelegramID: telegramID,
		Username:   username,
		FirstName:  firstName,
		LastName:   lastName,
		Role:       model.RoleUser,
	}
	if err := s.Repo.Create(user); err != nil {
		return nil, err
	}

	logger.Log.Info("telegram user registered",
		zap.Uint("userId", user.ID),
		zap.String("username", user.Username))
	return user, nil
}

func (s *UserService) SaveUser(user *model.User) error {
	return s.Repo.Save(user)
}

func (s *UserService) DeleteUser(id uint) error {
	if _, err := s.Repo.FindByID(id); err != nil {
		return asDomainErr(err, util.ErrUserNotFound)
	}
	return s.Repo.Delete(id)
}

func (s *UserService) ChangeUserRole(userID uint, role model.UserRole) (*model.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	user.Role = role
	if err := s.Repo.Save(user); err != nil {
		return nil, err
	}
	logger.Log.Info("user role changed", zap.Uint("userId", userID), zap.String("role", string(role)))
	return user, nil
}

func (s *UserService) AddPermissionToUser(userID uint, permissionID string) (*model.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	permission, err := s.Permissions.FindByID(permissionID)
	if err != nil {
		return nil, asDomainErr(err, util.ErrPermissionNotFound)
	}
	if err := s.Repo.AddPermission(user, permission); err != nil {
		return nil, err
	}
	return s.GetUserByID(userID)
}

func (s *UserService) RemovePermissionFromUser(userID uint, permissionID string) (*model.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	permission, err := s.Permissions.FindByID(permissionID)
	if err != nil {
		return nil, asDomainErr(err, util.ErrPermissionNotFound)
	}
	if err := s.Repo.RemovePermission(user, permission); err != nil {
		return nil, err
	}
	return s.GetUserByID(userID)
}
