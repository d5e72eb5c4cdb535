package service

import (
	"quiz_platform_backend/internal/config"
	"quiz_platform_backend/internal/model"
	"quiz_platform_backend/internal/repository"
	"quiz_platform_backend/internal/util"
	"quiz_platform_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService issues tokens for the admin panel. Regular players never
// password-authenticate; they come in through the telegram identity flow.
type AuthService struct {
	Users *repository.UserRepository
	JWT   config.JWTConfig
}

func NewAuthService(users *repository.UserRepository, jwtCfg config.JWTConfig) *AuthService {
	return &AuthService{Users: users, JWT: jwtCfg}
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (s *AuthService) Login(username, password string) (*TokenPair, *model.User, error) {
	user, err := s.Users.FindByUsername(username)
	if err != nil {
		return nil, nil, util.ErrInvalidCredentials
	}
	if user.Password == "" {
		return nil, nil, util.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil, util.ErrInvalidCredentials
	}
	if !user.IsAdmin() {
		return nil, nil, util.ErrAdminRequired
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	logger.Log.Info("admin logged in", zap.Uint("userId", user.ID), zap.String("username", user.Username))
	return pair, user, nil
}

// Refresh exchanges a valid refresh token for a new pair. The user is
// re-read so a role change or deletion takes effect immediately.
func (s *AuthService) Refresh(refreshToken string) (*TokenPair, error) {
	claims, err := util.ParseJWT(refreshToken, s.JWT.Secret)
	if err != nil {
		return nil, util.ErrInvalidCredentials
	}

	user, err := s.Users.FindByID(claims.UserID)
	if err != nil {
		return nil, util.ErrInvalidCredentials
	}
	if !user.IsAdmin() {
		return nil, util.ErrAdminRequired
	}

	return s.issueTokens(user)
}

// SetPassword stores a bcrypt hash for an account, enabling panel login.
func (s *AuthService) SetPassword(userID uint, rawPassword string) error {
	user, err := s.Users.FindByID(userID)
	if err != nil {
		return asDomainErr(err, util.ErrUserNotFound)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(rawPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hash)
	return s.Users.Save(user)
}

func (s *AuthService) issueTokens(user *model.User) (*TokenPair, error) {
	access, err := util.GenerateJWT(user, s.JWT.Secret, s.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}
	refresh, err := util.GenerateJWT(user, s.JWT.Secret, s.JWT.RefreshExpire)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
