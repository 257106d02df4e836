package ports

import (
	"context"
	"time"

	"github.com/tradelog/trading-journal/internal/core/domain"
)

// Session is what the identity provider hands back after sign-in or sign-up.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// TokenClaims are the verified claims of a presented session token.
type TokenClaims struct {
	UserID    string
	Email     string
	TokenID   string
	ExpiresAt time.Time
}

type AuthService interface {
	SignUp(ctx context.Context, email, password, displayName string) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, claims TokenClaims) error
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
}

// ProfileService exposes the caller's own profile.
type ProfileService interface {
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
	UpdateDisplayName(ctx context.Context, userID, displayName string) (*domain.Profile, error)
}

// RoleResolver maps an identity to its effective role. It never fails:
// ambiguity resolves to the least-privileged role.
type RoleResolver interface {
	Resolve(ctx context.Context, userID string) domain.Role
}

// AdminService is the admin-only user directory.
type AdminService interface {
	ListUsers(ctx context.Context) ([]domain.DirectoryEntry, error)
	CountRecords(ctx context.Context) (int64, error)
	SetRole(ctx context.Context, userID string, role domain.Role) (domain.Role, error)
	Stats(ctx context.Context) (domain.DirectoryStats, error)
}
