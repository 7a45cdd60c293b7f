package services

import (
	"github.com/storefront/catalog/internal/apperrors"
	"github.com/storefront/catalog/internal/auth"
	"github.com/storefront/catalog/internal/logger"
	"github.com/storefront/catalog/internal/mail"
	"github.com/storefront/catalog/internal/models"
	"github.com/storefront/catalog/internal/repositories"
	"github.com/storefront/catalog/internal/services/dto"
)

type AuthService interface {
	Register(req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(req *dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(token string) (*dto.RefreshResponse, error)
	Logout(token string) error
}

type AuthServiceImpl struct {
	users  repositories.UserRepository
	tokens *auth.TokenManager
	mailer *mail.Mailer
}

func NewAuthService(users repositories.UserRepository, tokens *auth.TokenManager, mailer *mail.Mailer) AuthService {
	return &AuthServiceImpl{
		users:  users,
		tokens: tokens,
		mailer: mailer,
	}
}

func (s *AuthServiceImpl) Register(req *dto.RegisterRequest) (*dto.UserResponse, error) {
	if _, err := s.users.FindByEmail(req.Email); err == nil {
		return nil, apperrors.ErrEmailTaken
	} else if !apperrors.Is(err, repositories.ErrUserNotFound) {
		return nil, apperrors.InternalError(err)
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hashed,
	}

	if err := s.users.Create(user); err != nil {
		if apperrors.Is(err, repositories.ErrEmailExists) {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, apperrors.InternalError(err)
	}

	s.sendWelcomeMail(user)

	return &dto.UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}, nil
}

// Login verifies credentials and issues a fresh token pair. The refresh
// token overwrites whatever was stored before, so a new login invalidates
// every earlier session. Unknown email and wrong password both answer the
// same generic error to avoid user enumeration.
func (s *AuthServiceImpl) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.users.FindByEmail(req.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	accessToken, err := s.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	refreshToken, err := s.tokens.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.users.SaveRefreshToken(user.ID, refreshToken); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token itself stays as it is. Token-not-found and bad
// signature/expiry all collapse into the same forbidden answer.
func (s *AuthServiceImpl) Refresh(token string) (*dto.RefreshResponse, error) {
	if token == "" {
		return nil, apperrors.ErrMissingRefreshToken
	}

	user, err := s.users.FindByRefreshToken(token)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidRefreshToken
		}
		return nil, apperrors.InternalError(err)
	}

	if _, err := s.tokens.ParseRefreshToken(token); err != nil {
		return nil, apperrors.ErrInvalidRefreshToken
	}

	accessToken, err := s.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.RefreshResponse{AccessToken: accessToken}, nil
}

// Logout clears the stored refresh token. A second logout with the same
// token finds no matching user anymore and is rejected, which makes the
// operation naturally idempotent on the stored state.
func (s *AuthServiceImpl) Logout(token string) error {
	if token == "" {
		return apperrors.ErrMissingLogoutToken
	}

	user, err := s.users.FindByRefreshToken(token)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrInvalidRefreshToken
		}
		return apperrors.InternalError(err)
	}

	if err := s.users.ClearRefreshToken(user.ID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *AuthServiceImpl) sendWelcomeMail(user *models.User) {
	if s.mailer == nil {
		return
	}

	go func() {
		if err := s.mailer.SendWelcome(user.Email, user.Username); err != nil {
			logger.Warn("failed to send welcome email", "email", user.Email, "error", err)
		}
	}()
}
