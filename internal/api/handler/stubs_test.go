package handler

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/tradelog/trading-journal/internal/api/middleware"
	"github.com/tradelog/trading-journal/internal/core/domain"
	"github.com/tradelog/trading-journal/internal/core/ports"
)

// --- request helpers ---

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func authenticate(c echo.Context, userID string) {
	c.Set(middleware.ContextUserID, userID)
}

// httpCode returns the status carried by an *echo.HTTPError, or 0.
func httpCode(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %T (%v)", err, err)
	}
	return he.Code
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d (body %s)", want, rec.Code, rec.Body.String())
	}
}


// --- service stubs ---

type stubAuthService struct {
	signUpFn      func(ctx context.Context, email, password, displayName string) (*ports.Session, error)
	signInFn      func(ctx context.Context, email, password string) (*ports.Session, error)
	signOutFn     func(ctx context.Context, claims ports.TokenClaims) error
	currentUserFn func(ctx context.Context, userID string) (*domain.User, error)
}

func (s *stubAuthService) SignUp(ctx context.Context, email, password, displayName string) (*ports.Session, error) {
	return s.signUpFn(ctx, email, password, displayName)
}

func (s *stubAuthService) SignIn(ctx context.Context, email, password string) (*ports.Session, error) {
	return s.signInFn(ctx, email, password)
}

func (s *stubAuthService) SignOut(ctx context.Context, claims ports.TokenClaims) error {
	return s.signOutFn(ctx, claims)
}

func (s *stubAuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.currentUserFn(ctx, userID)
}

type stubTradeService struct {
	listFn    func(ctx context.Context, ownerID string) ([]domain.TradingRecord, error)
	getFn     func(ctx context.Context, ownerID, id string) (*domain.TradingRecord, error)
	createFn  func(ctx context.Context, in ports.CreateRecordInput) (*ports.RecordResult, error)
	updateFn  func(ctx context.Context, ownerID, id string, f domain.TradeFields) (*domain.TradingRecord, error)
	deleteFn  func(ctx context.Context, ownerID, id string) error
	summaryFn func(ctx context.Context, ownerID string) (domain.Stats, error)
}

func (s *stubTradeService) ListRecords(ctx context.Context, ownerID string) ([]domain.TradingRecord, error) {
	return s.listFn(ctx, ownerID)
}

func (s *stubTradeService) GetRecord(ctx context.Context, ownerID, id string) (*domain.TradingRecord, error) {
	return s.getFn(ctx, ownerID, id)
}

func (s *stubTradeService) CreateRecord(ctx context.Context, in ports.CreateRecordInput) (*ports.RecordResult, error) {
	return s.createFn(ctx, in)
}

func (s *stubTradeService) UpdateRecord(ctx context.Context, ownerID, id string, f domain.TradeFields) (*domain.TradingRecord, error) {
	return s.updateFn(ctx, ownerID, id, f)
}

func (s *stubTradeService) DeleteRecord(ctx context.Context, ownerID, id string) error {
	return s.deleteFn(ctx, ownerID, id)
}

func (s *stubTradeService) Summary(ctx context.Context, ownerID string) (domain.Stats, error) {
	return s.summaryFn(ctx, ownerID)
}

type stubProfileService struct {
	profiles  map[string]*domain.Profile
	updateErr error
}

func (s *stubProfileService) GetProfile(_ context.Context, userID string) (*domain.Profile, error) {
	p, ok := s.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return p, nil
}

func (s *stubProfileService) UpdateDisplayName(_ context.Context, userID, name string) (*domain.Profile, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	p, ok := s.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	p.DisplayName = name
	return p, nil
}

type stubResolver map[string]domain.Role

func (s stubResolver) Resolve(_ context.Context, userID string) domain.Role {
	if userID == "" {
		return domain.RoleUnresolved
	}
	if r, ok := s[userID]; ok {
		return r
	}
	return domain.RoleUser
}

type stubAdminService struct {
	entries []domain.DirectoryEntry
	count   int64
	stats   domain.DirectoryStats
	setFn   func(ctx context.Context, userID string, role domain.Role) (domain.Role, error)
}

func (s *stubAdminService) ListUsers(context.Context) ([]domain.DirectoryEntry, error) {
	return s.entries, nil
}

func (s *stubAdminService) CountRecords(context.Context) (int64, error) {
	return s.count, nil
}

func (s *stubAdminService) SetRole(ctx context.Context, userID string, role domain.Role) (domain.Role, error) {
	return s.setFn(ctx, userID, role)
}

func (s *stubAdminService) Stats(context.Context) (domain.DirectoryStats, error) {
	return s.stats, nil
}
