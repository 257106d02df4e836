package ports

import (
	"context"

	"github.com/tradelog/trading-journal/internal/core/domain"
)

// AuthRepository defines the interface for identity persistence.
type AuthRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}

// ProfileRepository persists user profiles, one per identity.
type ProfileRepository interface {
	Create(ctx context.Context, p *domain.Profile) error
	FindByUserID(ctx context.Context, userID string) (*domain.Profile, error)
	UpdateDisplayName(ctx context.Context, userID, displayName string) (*domain.Profile, error)
	// List returns every profile ordered by creation date.
	List(ctx context.Context) ([]domain.Profile, error)
}

// RoleRepository persists role assignments.
type RoleRepository interface {
	// FindByUserID returns domain.ErrRoleNotFound when no row exists.
	FindByUserID(ctx context.Context, userID string) (domain.Role, error)
	Upsert(ctx context.Context, userID string, role domain.Role) error
	List(ctx context.Context) ([]domain.UserRole, error)
}
