package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/emregurs3s/karakus-tech-website/internal/auth"
	"github.com/emregurs3s/karakus-tech-website/internal/domain"
	"github.com/emregurs3s/karakus-tech-website/internal/repository"
	"github.com/emregurs3s/karakus-tech-website/pkg/applog"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, *TokenPair, error)
	Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	GetUserInfo(ctx context.Context, userID int64) (*domain.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	logger   *zap.Logger
}

func NewAuthService(userRepo repository.UserRepository, logger *zap.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		logger:   logger,
	}
}

func (s *authService) Register(ctx context.Context, name, email, password string) (*domain.User, *TokenPair, error) {
	if err := auth.ValidatePassword(password); err != nil {
		return nil, nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Name:         strings.TrimSpace(name),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hash),
		Roles:        []string{domain.RoleCustomer},
		IsActive:     true,
	}

	id, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return nil, nil, err
		}

		applog.Error(ctx, s.logger, "Failed to create user",
			zap.String("email", user.Email),
			zap.Error(err),
		)

		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = id

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	applog.Info(ctx, s.logger, "User registered", zap.Int64("user_id", id))

	return user, tokens, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}

		return nil, nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, nil, ErrUserInactive
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	return user, tokens, nil
}

// Refresh re-reads the user so revoked roles or a deactivated account
// take effect on the next token rotation, not only at login.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := auth.ValidateToken(refreshToken, true)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	return s.issueTokens(user)
}

func (s *authService) GetUserInfo(ctx context.Context, userID int64) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *authService) issueTokens(user *domain.User) (*TokenPair, error) {
	access, refresh, err := auth.GenerateTokens(user.ID, user.Roles)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
