package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const testSecret = "secret"

type stubRevocations struct {
	revoked map[string]bool
	err     error
}

func (s *stubRevocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.revoked[tokenID], nil
}

func signToken(t *testing.T, claims jwt.MapClaims, method jwt.SigningMethod, key any) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":   "user-1",
		"email": "alice@example.com",
		"jti":   "tok-1",
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
}

// runAuth executes the Auth middleware and returns the recorder plus whether
// the next handler was reached.
func runAuth(t *testing.T, header string, revoked RevocationChecker, inspect func(echo.Context)) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(testSecret, revoked)(func(c echo.Context) error {
		called = true
		if inspect != nil {
			inspect(c)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	signed := signToken(t, validClaims(), jwt.SigningMethodHS256, []byte(testSecret))

	rec, called := runAuth(t, "Bearer "+signed, nil, func(c echo.Context) {
		if c.Get(ContextUserID) != "user-1" {
			t.Fatalf("user id not set")
		}
		if c.Get(ContextEmail) != "alice@example.com" {
			t.Fatalf("email not set")
		}
		if c.Get(ContextTokenID) != "tok-1" {
			t.Fatalf("token id not set")
		}
		if exp, _ := c.Get(ContextExpiresAt).(time.Time); exp.IsZero() {
			t.Fatalf("expiry not set")
		}
	})

	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	expired := validClaims()
	expired["exp"] = time.Now().Add(-time.Minute).Unix()

	noSubject := validClaims()
	delete(noSubject, "sub")

	noExpiry := validClaims()
	delete(noExpiry, "exp")

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Token abc"},
		{"garbage token", "Bearer not-a-token"},
		{"wrong secret", "Bearer " + signToken(t, validClaims(), jwt.SigningMethodHS256, []byte("other"))},
		{"wrong algorithm", "Bearer " + signToken(t, validClaims(), jwt.SigningMethodHS512, []byte(testSecret))},
		{"expired", "Bearer " + signToken(t, expired, jwt.SigningMethodHS256, []byte(testSecret))},
		{"no subject", "Bearer " + signToken(t, noSubject, jwt.SigningMethodHS256, []byte(testSecret))},
		{"no expiry", "Bearer " + signToken(t, noExpiry, jwt.SigningMethodHS256, []byte(testSecret))},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, called := runAuth(t, tc.header, nil, nil)
			if called {
				t.Fatalf("should not reach next")
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestAuthMiddleware_RevokedToken(t *testing.T) {
	signed := signToken(t, validClaims(), jwt.SigningMethodHS256, []byte(testSecret))
	revoked := &stubRevocations{revoked: map[string]bool{"tok-1": true}}

	rec, called := runAuth(t, "Bearer "+signed, revoked, nil)
	if called {
		t.Fatalf("revoked token must not reach next")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_RevocationStoreDown(t *testing.T) {
	signed := signToken(t, validClaims(), jwt.SigningMethodHS256, []byte(testSecret))
	revoked := &stubRevocations{err: errors.New("redis down")}

	rec, called := runAuth(t, "Bearer "+signed, revoked, nil)
	if called {
		t.Fatalf("unverifiable session must not reach next")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_NotRevoked(t *testing.T) {
	signed := signToken(t, validClaims(), jwt.SigningMethodHS256, []byte(testSecret))
	revoked := &stubRevocations{revoked: map[string]bool{"other": true}}

	rec, called := runAuth(t, "Bearer "+signed, revoked, nil)
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected pass-through, got called=%v code=%d", called, rec.Code)
	}
}
