package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tradelog/trading-journal/internal/api/metrics"
	"github.com/tradelog/trading-journal/internal/core/domain"
	"github.com/tradelog/trading-journal/internal/core/ports"
)

type adminService struct {
	profiles ports.ProfileRepository
	roles    ports.RoleRepository
	records  ports.TradeRepository
	log      zerolog.Logger
}

// NewAdminService returns the admin user directory. Callers must gate access
// on the admin role.
func NewAdminService(
	profiles ports.ProfileRepository,
	roles ports.RoleRepository,
	records ports.TradeRepository,
	log zerolog.Logger,
) ports.AdminService {
	return &adminService{profiles: profiles, roles: roles, records: records, log: log}
}

// ListUsers joins every profile with its role; profiles without a role row
// are reported as plain users.
func (s *adminService) ListUsers(ctx context.Context) ([]domain.DirectoryEntry, error) {
	profiles, err := s.profiles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: profiles: %w", err)
	}
	assigned, err := s.roles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: roles: %w", err)
	}

	byUser := make(map[string]domain.Role, len(assigned))
	for _, ur := range assigned {
		byUser[ur.UserID] = ur.Role
	}

	out := make([]domain.DirectoryEntry, 0, len(profiles))
	for _, p := range profiles {
		role, ok := byUser[p.UserID]
		if !ok || !role.Assignable() {
			role = domain.RoleUser
		}
		out = append(out, domain.DirectoryEntry{
			UserID:      p.UserID,
			Email:       p.Email,
			DisplayName: p.DisplayName,
			CreatedAt:   p.CreatedAt,
			Role:        role,
		})
	}
	return out, nil
}

func (s *adminService) CountRecords(ctx context.Context) (int64, error) {
	n, err := s.records.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

// SetRole upserts the role row of an existing user. No audit trail is kept.
func (s *adminService) SetRole(ctx context.Context, userID string, role domain.Role) (domain.Role, error) {
	if !role.Assignable() {
		return "", domain.ErrInvalidRole
	}
	if _, err := s.profiles.FindByUserID(ctx, userID); err != nil {
		return "", err
	}

	if err := s.roles.Upsert(ctx, userID, role); err != nil {
		return "", fmt.Errorf("set role: %w", err)
	}

	metrics.RoleChangesTotal.WithLabelValues(string(role)).Inc()
	s.log.Info().Str("user_id", userID).Str("role", string(role)).Msg("role assigned")
	return role, nil
}

// Stats derives directory totals from ListUsers and CountRecords.
func (s *adminService) Stats(ctx context.Context) (domain.DirectoryStats, error) {
	users, err := s.ListUsers(ctx)
	if err != nil {
		return domain.DirectoryStats{}, err
	}
	total, err := s.CountRecords(ctx)
	if err != nil {
		return domain.DirectoryStats{}, err
	}

	admins := 0
	for _, u := range users {
		if u.Role == domain.RoleAdmin {
			admins++
		}
	}

	return domain.DirectoryStats{
		TotalUsers:   len(users),
		TotalRecords: total,
		AdminUsers:   admins,
		ActiveUsers:  len(users),
	}, nil
}
