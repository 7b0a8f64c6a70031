package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/registration-service/internal/models"
	"github.com/SAP-F-2025/registration-service/internal/repositories"
)

// RoleResolver maps raw role names to catalog roles. Bare names are accepted
// with or without the ROLE_ prefix; unknown names are dropped with a warning,
// never an error.
type RoleResolver interface {
	Resolve(ctx context.Context, names []string) ([]models.Role, error)
}

type roleResolver struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
}

func NewRoleResolver(repo repositories.Repository, db *gorm.DB, logger *slog.Logger) RoleResolver {
	return &roleResolver{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

func (r *roleResolver) Resolve(ctx context.Context, names []string) ([]models.Role, error) {
	roles := make([]models.Role, 0, len(names))

	for _, raw := range names {
		name := models.NormalizeRoleName(raw)
		if !name.Valid() {
			r.logger.Warn("Dropping unknown role name", "role", raw)
			continue
		}

		role, err := r.repo.Role().GetByName(ctx, r.db, name)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				r.logger.Warn("Dropping role missing from catalog", "role", string(name))
				continue
			}
			return nil, fmt.Errorf("failed to resolve role %s: %w", name, err)
		}

		roles = append(roles, *role)
	}

	return roles, nil
}
