// internal/services/auth_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shopsmith/storefront/internal/config"
	"github.com/shopsmith/storefront/internal/models"
	"github.com/shopsmith/storefront/internal/utils"
)

type AuthService struct {
	db     *gorm.DB
	config *config.Config
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         *models.User `json:"user"`
}

func NewAuthService(db *gorm.DB, config *config.Config) *AuthService {
	return &AuthService{
		db:     db,
		config: config,
	}
}

func (s *AuthService) Login(req *LoginRequest) (*LoginResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var user models.User
	if err := s.db.First(&user, "email = ?", req.Email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("invalid credentials")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if user.Status != models.UserStatusActive {
		return nil, errors.New("account is suspended")
	}

	if err := user.CheckPassword(req.Password); err != nil {
		return nil, errors.New("invalid credentials")
	}

	accessToken, err := utils.GenerateJWT(user.ID, user.Username, string(user.Role), s.config.JWT.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := utils.GenerateRefreshToken(user.ID, s.config.JWT.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	now := time.Now()
	s.db.Model(&user).Update("last_login_at", &now)

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         &user,
	}, nil
}

func (s *AuthService) Refresh(refreshToken string) (string, error) {
	subject, err := utils.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", errors.New("invalid refresh token")
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", subject).Error; err != nil {
		return "", errors.New("invalid refresh token")
	}

	if user.Status != models.UserStatusActive {
		return "", errors.New("account is suspended")
	}

	return utils.GenerateJWT(user.ID, user.Username, string(user.Role), s.config.JWT.AccessTokenTTL)
}
