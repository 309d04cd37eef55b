package service

import (
	"context"

	"eventcheckout/internal/domain"

	"go.uber.org/zap"
)

type RoleRepository interface {
	HasRole(ctx context.Context, employeeID int64, role string) (bool, error)
}

type PermissionService struct {
	repo   RoleRepository
	logger *zap.Logger
}

func NewPermissionService(repo RoleRepository, logger *zap.Logger) *PermissionService {
	return &PermissionService{repo: repo, logger: logger}
}

// HasRole reports whether the employee holds role. A nil employee holds no
// roles.
func (s *PermissionService) HasRole(ctx context.Context, employee *domain.Employee, role string) (bool, error) {
	if employee == nil {
		return false, nil
	}

	granted, err := s.repo.HasRole(ctx, employee.ID, role)
	if err != nil {
		s.logger.Error("role lookup failed", zap.Int64("employeeId", employee.ID), zap.String("role", role), zap.Error(err))
		return false, err
	}
	return granted, nil
}
