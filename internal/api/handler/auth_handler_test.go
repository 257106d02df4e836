package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/tradelog/trading-journal/internal/api/middleware"
	"github.com/tradelog/trading-journal/internal/core/domain"
	"github.com/tradelog/trading-journal/internal/core/ports"
)

func testSession() *ports.Session {
	return &ports.Session{
		Token:     "token123",
		ExpiresAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		User:      &domain.User{ID: "u-1", Email: "alice@example.com", PasswordHash: "hash"},
	}
}

func TestAuthHandler_SignUp_Success(t *testing.T) {
	stub := &stubAuthService{
		signUpFn: func(_ context.Context, email, password, displayName string) (*ports.Session, error) {
			if email != "alice@example.com" || password != "secret1" || displayName != "Alice" {
				t.Fatalf("unexpected args: %s %s %s", email, password, displayName)
			}
			return testSession(), nil
		},
	}
	c, rec := newTestContext(http.MethodPost, "/auth/signup", `{"email":"alice@example.com","password":"secret1","display_name":"Alice"}`)

	if err := NewAuthHandler(stub).SignUp(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusCreated)

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Fatalf("expected token, got %v", resp["token"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["email"] != "alice@example.com" {
		t.Fatalf("unexpected user payload: %+v", resp["user"])
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Fatalf("password hash must not be serialised")
	}
}

func TestAuthHandler_SignUp_UserExists(t *testing.T) {
	stub := &stubAuthService{
		signUpFn: func(context.Context, string, string, string) (*ports.Session, error) {
			return nil, domain.ErrUserExists
		},
	}
	c, _ := newTestContext(http.MethodPost, "/auth/signup", `{"email":"bob@example.com","password":"secret1"}`)

	if err := NewAuthHandler(stub).SignUp(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_SignUp_Rejected(t *testing.T) {
	cases := []struct {
		name string
		body string
		code int
	}{
		{"not json", "not-json", http.StatusBadRequest},
		{"bad email", `{"email":"nope","password":"secret1"}`, http.StatusUnprocessableEntity},
		{"short password", `{"email":"a@example.com","password":"123"}`, http.StatusUnprocessableEntity},
	}
	stub := &stubAuthService{
		signUpFn: func(context.Context, string, string, string) (*ports.Session, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestContext(http.MethodPost, "/auth/signup", tc.body)
			if code := httpCode(t, NewAuthHandler(stub).SignUp(c)); code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, code)
			}
		})
	}
}

func TestAuthHandler_SignIn_Success(t *testing.T) {
	stub := &stubAuthService{
		signInFn: func(_ context.Context, email, password string) (*ports.Session, error) {
			if email != "alice@example.com" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return testSession(), nil
		},
	}
	c, rec := newTestContext(http.MethodPost, "/auth/signin", `{"email":"alice@example.com","password":"secret"}`)

	if err := NewAuthHandler(stub).SignIn(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusOK)

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" || resp["expires_at"] != "2026-01-02T03:04:05Z" {
		t.Fatalf("unexpected session payload: %+v", resp)
	}
}

func TestAuthHandler_SignIn_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		signInFn: func(context.Context, string, string) (*ports.Session, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	c, _ := newTestContext(http.MethodPost, "/auth/signin", `{"email":"alice@example.com","password":"bad"}`)

	if err := NewAuthHandler(stub).SignIn(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_SignIn_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		signInFn: func(context.Context, string, string) (*ports.Session, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	c, _ := newTestContext(http.MethodPost, "/auth/signin", "{")

	if code := httpCode(t, NewAuthHandler(stub).SignIn(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestAuthHandler_SignOut_PassesClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	var got ports.TokenClaims
	stub := &stubAuthService{
		signOutFn: func(_ context.Context, claims ports.TokenClaims) error {
			got = claims
			return nil
		},
	}
	c, rec := newTestContext(http.MethodPost, "/auth/signout", "")
	authenticate(c, "u-1")
	c.Set(middleware.ContextTokenID, "jti-1")
	c.Set(middleware.ContextExpiresAt, exp)

	if err := NewAuthHandler(stub).SignOut(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusNoContent)
	if got.UserID != "u-1" || got.TokenID != "jti-1" || !got.ExpiresAt.Equal(exp) {
		t.Fatalf("unexpected claims: %+v", got)
	}
}

func TestAuthHandler_SignOut_Unauthenticated(t *testing.T) {
	c, _ := newTestContext(http.MethodPost, "/auth/signout", "")
	if code := httpCode(t, NewAuthHandler(&stubAuthService{}).SignOut(c)); code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}

func TestAuthHandler_Session(t *testing.T) {
	stub := &stubAuthService{
		currentUserFn: func(_ context.Context, userID string) (*domain.User, error) {
			if userID == "gone" {
				return nil, domain.ErrUserNotFound
			}
			return &domain.User{ID: userID, Email: "alice@example.com"}, nil
		},
	}

	c, rec := newTestContext(http.MethodGet, "/auth/session", "")
	authenticate(c, "u-1")
	if err := NewAuthHandler(stub).Session(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusOK)

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if _, hasToken := resp["token"]; hasToken {
		t.Fatalf("session restore must not mint a token")
	}

	c, _ = newTestContext(http.MethodGet, "/auth/session", "")
	authenticate(c, "gone")
	if code := httpCode(t, NewAuthHandler(stub).Session(c)); code != http.StatusUnauthorized {
		t.Fatalf("deleted identity: expected 401, got %d", code)
	}
}
