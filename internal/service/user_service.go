package service

import (
	"context"

	"github.com/emregurs3s/karakus-tech-website/internal/domain"
	"github.com/emregurs3s/karakus-tech-website/internal/repository"
	"github.com/emregurs3s/karakus-tech-website/pkg/applog"
	"go.uber.org/zap"
)

// UserService backs the admin user management screens.
type UserService interface {
	List(ctx context.Context, page, limit int64, search string) ([]domain.User, int64, error)
	UpdateRoles(ctx context.Context, id int64, roles []string) error
	SetActive(ctx context.Context, id int64, active bool) error
}

type userService struct {
	userRepo repository.UserRepository
	logger   *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, logger *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		logger:   logger,
	}
}

func (s *userService) List(ctx context.Context, page, limit int64, search string) ([]domain.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	return s.userRepo.List(ctx, page, limit, search)
}

// UpdateRoles replaces the user's role set. The role vocabulary is
// closed, anything outside it is rejected before touching the store.
func (s *userService) UpdateRoles(ctx context.Context, id int64, roles []string) error {
	for _, role := range roles {
		if !domain.KnownRole(role) {
			return ErrInvalidRole
		}
	}

	if len(roles) == 0 {
		roles = []string{domain.RoleCustomer}
	}

	if err := s.userRepo.UpdateRoles(ctx, id, roles); err != nil {
		return err
	}

	applog.Info(ctx, s.logger, "User roles updated",
		zap.Int64("user_id", id),
		zap.Strings("roles", roles),
	)

	return nil
}

func (s *userService) SetActive(ctx context.Context, id int64, active bool) error {
	if err := s.userRepo.SetActive(ctx, id, active); err != nil {
		return err
	}

	applog.Info(ctx, s.logger, "User active flag changed",
		zap.Int64("user_id", id),
		zap.Bool("active", active),
	)

	return nil
}
