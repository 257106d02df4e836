package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/tradelog/trading-journal/internal/api/metrics"
	"github.com/tradelog/trading-journal/internal/core/domain"
	"github.com/tradelog/trading-journal/internal/core/ports"
)

const minPasswordLength = 6

// TokenRevoker records signed-out tokens until they expire.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
}

// AuthOptions tunes the identity provider.
type AuthOptions struct {
	TokenTTL time.Duration
	// BootstrapAdminEmail, when set, receives the admin role at sign-up.
	BootstrapAdminEmail string
}

// AuthService implements sign-up, sign-in and sign-out.
type AuthService struct {
	users     ports.AuthRepository
	profiles  ports.ProfileRepository
	roles     ports.RoleRepository
	revoker   TokenRevoker
	jwtSecret string
	opts      AuthOptions
	log       zerolog.Logger
}

func NewAuthService(
	users ports.AuthRepository,
	profiles ports.ProfileRepository,
	roles ports.RoleRepository,
	revoker TokenRevoker,
	jwtSecret string,
	opts AuthOptions,
	log zerolog.Logger,
) *AuthService {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	opts.BootstrapAdminEmail = normalizeEmail(opts.BootstrapAdminEmail)
	return &AuthService{
		users:     users,
		profiles:  profiles,
		roles:     roles,
		revoker:   revoker,
		jwtSecret: jwtSecret,
		opts:      opts,
		log:       log,
	}
}

// SignUp creates an identity and its profile, then signs the user in.
func (s *AuthService) SignUp(ctx context.Context, email, password, displayName string) (*ports.Session, error) {
	session, err := s.signUp(ctx, email, password, displayName)
	recordAuth("signup", err)
	return session, err
}

func (s *AuthService) signUp(ctx context.Context, email, password, displayName string) (*ports.Session, error) {
	email = normalizeEmail(email)
	if email == "" || len(password) < minPasswordLength {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user, err := s.users.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	profile := &domain.Profile{
		UserID:      user.ID,
		DisplayName: defaultDisplayName(displayName, email),
		Email:       email,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		if delErr := s.users.Delete(ctx, user.ID); delErr != nil {
			s.log.Error().Err(delErr).Str("user_id", user.ID).Msg("failed to roll back identity without profile")
		}
		return nil, fmt.Errorf("sign up: create profile: %w", err)
	}

	if s.opts.BootstrapAdminEmail != "" && email == s.opts.BootstrapAdminEmail {
		if err := s.roles.Upsert(ctx, user.ID, domain.RoleAdmin); err != nil {
			s.log.Error().Err(err).Str("user_id", user.ID).Msg("failed to seed bootstrap admin role")
		} else {
			s.log.Info().Str("user_id", user.ID).Msg("bootstrap admin role assigned")
		}
	}

	s.log.Info().Str("user_id", user.ID).Msg("identity registered")
	return s.newSession(user)
}

// SignIn verifies the password and issues a session token.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*ports.Session, error) {
	session, err := s.signIn(ctx, email, password)
	recordAuth("signin", err)
	return session, err
}

func (s *AuthService) signIn(ctx context.Context, email, password string) (*ports.Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.newSession(user)
}

// SignOut revokes the presented token for the rest of its lifetime.
func (s *AuthService) SignOut(ctx context.Context, claims ports.TokenClaims) error {
	err := s.signOut(ctx, claims)
	recordAuth("signout", err)
	return err
}

func (s *AuthService) signOut(ctx context.Context, claims ports.TokenClaims) error {
	if s.revoker == nil || claims.TokenID == "" {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.revoker.Revoke(ctx, claims.TokenID, ttl); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	s.log.Info().Str("user_id", claims.UserID).Msg("session revoked")
	return nil
}

// CurrentUser returns the identity behind a verified token.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *AuthService) newSession(user *domain.User) (*ports.Session, error) {
	now := time.Now()
	expires := now.Add(s.opts.TokenTTL)
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"jti":   uuid.NewString(),
		"iat":   now.Unix(),
		"exp":   expires.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, err
	}
	return &ports.Session{Token: signed, ExpiresAt: time.Unix(expires.Unix(), 0).UTC(), User: user}, nil
}

func recordAuth(action string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.AuthAttemptsTotal.WithLabelValues(action, result).Inc()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func defaultDisplayName(displayName, email string) string {
	if name := strings.TrimSpace(displayName); name != "" {
		return textPolicy.Sanitize(name)
	}
	local, _, _ := strings.Cut(email, "@")
	return local
}

// profileService exposes the caller's own profile.
type profileService struct {
	profiles ports.ProfileRepository
}

func NewProfileService(profiles ports.ProfileRepository) ports.ProfileService {
	return &profileService{profiles: profiles}
}

func (s *profileService) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	return s.profiles.FindByUserID(ctx, userID)
}

func (s *profileService) UpdateDisplayName(ctx context.Context, userID, displayName string) (*domain.Profile, error) {
	name := textPolicy.Sanitize(strings.TrimSpace(displayName))
	if name == "" {
		return nil, &domain.ValidationError{Field: "display_name", Reason: "is required"}
	}
	p, err := s.profiles.UpdateDisplayName(ctx, userID, name)
	if err != nil && !errors.Is(err, domain.ErrProfileNotFound) {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return p, err
}
