package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/tradelog/trading-journal/internal/core/domain"
	"github.com/tradelog/trading-journal/internal/core/ports"
)

type authFixture struct {
	users    *stubAuthRepo
	profiles *stubProfileRepo
	roles    *stubRoleRepo
	revoker  *stubRevoker
	svc      *AuthService
}

func newAuthFixture(opts AuthOptions) *authFixture {
	f := &authFixture{
		users:    newStubAuthRepo(),
		profiles: newStubProfileRepo(),
		roles:    newStubRoleRepo(),
		revoker:  &stubRevoker{},
	}
	f.svc = NewAuthService(f.users, f.profiles, f.roles, f.revoker, "secret", opts, discardLogger)
	return f
}

func TestAuthService_SignUp_Success(t *testing.T) {
	f := newAuthFixture(AuthOptions{TokenTTL: time.Hour})

	session, err := f.svc.SignUp(context.Background(), " Alice@Example.com ", "pass123", "Alice")
	if err != nil {
		t.Fatalf("SignUp returned error: %v", err)
	}
	if session.Token == "" {
		t.Fatal("expected token")
	}
	user := session.User
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalised email, got %q", user.Email)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_SignUp_CreatesProfile(t *testing.T) {
	f := newAuthFixture(AuthOptions{})

	session, err := f.svc.SignUp(context.Background(), "bob@example.com", "pass123", "")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}

	p, err := f.profiles.FindByUserID(context.Background(), session.User.ID)
	if err != nil {
		t.Fatalf("expected profile, got %v", err)
	}
	if p.DisplayName != "bob" {
		t.Errorf("expected display name from email local part, got %q", p.DisplayName)
	}
	if p.Email != "bob@example.com" {
		t.Errorf("unexpected profile email %q", p.Email)
	}
	if _, ok := f.roles.roles[session.User.ID]; ok {
		t.Error("no role row expected for a regular sign-up")
	}
}

func TestAuthService_SignUp_ProfileFailureRollsBack(t *testing.T) {
	f := newAuthFixture(AuthOptions{})
	f.profiles.createErr = errors.New("write conflict")

	if _, err := f.svc.SignUp(context.Background(), "carol@example.com", "pass123", "Carol"); err == nil {
		t.Fatal("expected error")
	}
	if _, err := f.users.FindByEmail(context.Background(), "carol@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected identity rolled back, got %v", err)
	}
}

func TestAuthService_SignUp_BootstrapAdmin(t *testing.T) {
	f := newAuthFixture(AuthOptions{BootstrapAdminEmail: "Root@Example.com"})

	session, err := f.svc.SignUp(context.Background(), "root@example.com", "pass123", "Root")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if f.roles.roles[session.User.ID] != domain.RoleAdmin {
		t.Fatalf("expected bootstrap admin role, got %q", f.roles.roles[session.User.ID])
	}
}

func TestAuthService_SignUp_Validation(t *testing.T) {
	f := newAuthFixture(AuthOptions{})

	if _, err := f.svc.SignUp(context.Background(), "", "pass123", ""); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := f.svc.SignUp(context.Background(), "dan@example.com", "123", ""); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for short password, got %v", err)
	}
}

func TestAuthService_SignUp_Duplicate(t *testing.T) {
	f := newAuthFixture(AuthOptions{})

	_, _ = f.svc.SignUp(context.Background(), "bob@example.com", "pass123", "")
	if _, err := f.svc.SignUp(context.Background(), "bob@example.com", "pass456", ""); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_SignIn_Success(t *testing.T) {
	f := newAuthFixture(AuthOptions{TokenTTL: time.Hour})

	if _, err := f.svc.SignUp(context.Background(), "carol@example.com", "s3cret", "Carol"); err != nil {
		t.Fatalf("sign up failed: %v", err)
	}

	session, err := f.svc.SignIn(context.Background(), "carol@example.com", "s3cret")
	if err != nil {
		t.Fatalf("sign in failed: %v", err)
	}
	if session.User == nil || session.User.Email != "carol@example.com" {
		t.Fatalf("unexpected user: %+v", session.User)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(session.Token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["sub"] != session.User.ID {
		t.Fatalf("expected sub %s, got %v", session.User.ID, claims["sub"])
	}
	if jti, _ := claims["jti"].(string); jti == "" {
		t.Fatal("expected jti claim")
	}
	if time.Until(session.ExpiresAt) > time.Hour || time.Until(session.ExpiresAt) < 59*time.Minute {
		t.Fatalf("unexpected expiry %v", session.ExpiresAt)
	}
}

func TestAuthService_SignIn_InvalidPassword(t *testing.T) {
	f := newAuthFixture(AuthOptions{})

	_, _ = f.svc.SignUp(context.Background(), "dave@example.com", "goodpass", "")
	if _, err := f.svc.SignIn(context.Background(), "dave@example.com", "badpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_SignIn_UserNotFound(t *testing.T) {
	f := newAuthFixture(AuthOptions{})

	if _, err := f.svc.SignIn(context.Background(), "ghost@example.com", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("unknown e-mail must look like a bad password, got %v", err)
	}
}

func TestAuthService_SignOut_RevokesUntilExpiry(t *testing.T) {
	f := newAuthFixture(AuthOptions{})

	claims := ports.TokenClaims{UserID: "u1", TokenID: "jti-1", ExpiresAt: time.Now().Add(30 * time.Minute)}
	if err := f.svc.SignOut(context.Background(), claims); err != nil {
		t.Fatalf("sign out: %v", err)
	}

	ttl, ok := f.revoker.revoked["jti-1"]
	if !ok {
		t.Fatal("expected token revoked")
	}
	if ttl <= 0 || ttl > 30*time.Minute {
		t.Fatalf("unexpected revocation ttl %v", ttl)
	}
}

func TestAuthService_SignOut_ExpiredTokenIsNoop(t *testing.T) {
	f := newAuthFixture(AuthOptions{})

	claims := ports.TokenClaims{TokenID: "jti-old", ExpiresAt: time.Now().Add(-time.Minute)}
	if err := f.svc.SignOut(context.Background(), claims); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if len(f.revoker.revoked) != 0 {
		t.Fatal("expired token should not be stored")
	}
}

func TestProfileService_UpdateDisplayName(t *testing.T) {
	profiles := newStubProfileRepo()
	_ = profiles.Create(context.Background(), &domain.Profile{UserID: "alice", DisplayName: "alice"})
	svc := NewProfileService(profiles)

	p, err := svc.UpdateDisplayName(context.Background(), "alice", "  Alice L. ")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if p.DisplayName != "Alice L." {
		t.Fatalf("unexpected display name %q", p.DisplayName)
	}

	if _, err := svc.UpdateDisplayName(context.Background(), "alice", "   "); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := svc.UpdateDisplayName(context.Background(), "ghost", "Ghost"); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}
