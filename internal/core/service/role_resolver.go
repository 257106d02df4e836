package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/tradelog/trading-journal/internal/api/metrics"
	"github.com/tradelog/trading-journal/internal/core/domain"
	"github.com/tradelog/trading-journal/internal/core/ports"
)

type roleResolver struct {
	roles ports.RoleRepository
	log   zerolog.Logger
}

// NewRoleResolver returns a RoleResolver backed by the user_roles store.
func NewRoleResolver(roles ports.RoleRepository, log zerolog.Logger) ports.RoleResolver {
	return &roleResolver{roles: roles, log: log}
}

// Resolve never fails open: a missing row or a store error yields RoleUser,
// and an empty identity yields RoleUnresolved. Every call reads the store so
// a role change is visible to the next request.
func (r *roleResolver) Resolve(ctx context.Context, userID string) domain.Role {
	if userID == "" {
		return domain.RoleUnresolved
	}

	role, err := r.roles.FindByUserID(ctx, userID)
	switch {
	case errors.Is(err, domain.ErrRoleNotFound):
		metrics.RoleFallbacksTotal.WithLabelValues("no_row").Inc()
		return domain.RoleUser
	case err != nil:
		metrics.RoleFallbacksTotal.WithLabelValues("lookup_error").Inc()
		r.log.Warn().Err(err).Str("user_id", userID).Msg("role lookup failed, defaulting to user")
		return domain.RoleUser
	case !role.Assignable():
		r.log.Warn().Str("user_id", userID).Str("role", string(role)).Msg("unknown stored role, defaulting to user")
		return domain.RoleUser
	}
	return role
}
