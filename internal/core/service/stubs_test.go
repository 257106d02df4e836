package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tradelog/trading-journal/internal/core/domain"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory trade repository, scoped by owner like the real Mongo queries.
// ---------------------------------------------------------------------------

type stubTradeRepo struct {
	mu        sync.Mutex
	byID      map[string]domain.TradingRecord
	createErr error
	listErr   error
}

func newStubTradeRepo() *stubTradeRepo {
	return &stubTradeRepo{byID: make(map[string]domain.TradingRecord)}
}

func (r *stubTradeRepo) List(_ context.Context, ownerID string) ([]domain.TradingRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := []domain.TradingRecord{}
	for _, rec := range r.byID {
		if rec.UserID == ownerID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TradeDate.After(out[j].TradeDate) })
	return out, nil
}

func (r *stubTradeRepo) Get(_ context.Context, ownerID, id string) (*domain.TradingRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.byID[id]
	if !ok || rec.UserID != ownerID {
		return nil, domain.ErrRecordNotFound
	}
	return &rec, nil
}

func (r *stubTradeRepo) Create(_ context.Context, rec *domain.TradingRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.byID[rec.ID] = *rec
	return nil
}

func (r *stubTradeRepo) Update(_ context.Context, rec *domain.TradingRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[rec.ID]
	if !ok || existing.UserID != rec.UserID {
		return domain.ErrRecordNotFound
	}
	r.byID[rec.ID] = *rec
	return nil
}

func (r *stubTradeRepo) Delete(_ context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.byID[id]
	if !ok || rec.UserID != ownerID {
		return domain.ErrRecordNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubTradeRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.byID)), nil
}

// ---------------------------------------------------------------------------
// Profiles, roles, identities
// ---------------------------------------------------------------------------

type stubProfileRepo struct {
	byUser    map[string]domain.Profile
	order     []string
	createErr error
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{byUser: make(map[string]domain.Profile)}
}

func (r *stubProfileRepo) Create(_ context.Context, p *domain.Profile) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.byUser[p.UserID] = *p
	r.order = append(r.order, p.UserID)
	return nil
}

func (r *stubProfileRepo) FindByUserID(_ context.Context, userID string) (*domain.Profile, error) {
	p, ok := r.byUser[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return &p, nil
}

func (r *stubProfileRepo) UpdateDisplayName(_ context.Context, userID, name string) (*domain.Profile, error) {
	p, ok := r.byUser[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	p.DisplayName = name
	p.UpdatedAt = time.Now().UTC()
	r.byUser[userID] = p
	return &p, nil
}

func (r *stubProfileRepo) List(_ context.Context) ([]domain.Profile, error) {
	out := make([]domain.Profile, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byUser[id])
	}
	return out, nil
}

type stubRoleRepo struct {
	mu      sync.Mutex
	roles   map[string]domain.Role
	findErr error
}

func newStubRoleRepo() *stubRoleRepo {
	return &stubRoleRepo{roles: make(map[string]domain.Role)}
}

func (r *stubRoleRepo) FindByUserID(_ context.Context, userID string) (domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return "", r.findErr
	}
	role, ok := r.roles[userID]
	if !ok {
		return "", domain.ErrRoleNotFound
	}
	return role, nil
}

func (r *stubRoleRepo) Upsert(_ context.Context, userID string, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roles[userID] = role
	return nil
}

func (r *stubRoleRepo) List(_ context.Context) ([]domain.UserRole, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.UserRole, 0, len(r.roles))
	for id, role := range r.roles {
		out = append(out, domain.UserRole{UserID: id, Role: role})
	}
	return out, nil
}

type stubAuthRepo struct {
	users map[string]*domain.User
}

func newStubAuthRepo() *stubAuthRepo {
	return &stubAuthRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubAuthRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	copy := cloneUser(user)
	copy.ID = "user-" + user.Email
	r.users[copy.ID] = cloneUser(copy)
	return copy, nil
}

func (r *stubAuthRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubAuthRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubAuthRepo) Delete(_ context.Context, id string) error {
	delete(r.users, id)
	return nil
}

// ---------------------------------------------------------------------------
// Redis-backed collaborators
// ---------------------------------------------------------------------------

type stubKeys struct {
	mu       sync.Mutex
	keys     map[string]string
	claimErr error
}

func newStubKeys() *stubKeys { return &stubKeys{keys: make(map[string]string)} }

func (k *stubKeys) Claim(_ context.Context, ownerID, key, recordID string) (string, bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.claimErr != nil {
		return "", false, k.claimErr
	}
	if holder, ok := k.keys[ownerID+":"+key]; ok {
		return holder, false, nil
	}
	k.keys[ownerID+":"+key] = recordID
	return recordID, true, nil
}

func (k *stubKeys) Release(_ context.Context, ownerID, key, recordID string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.keys[ownerID+":"+key] == recordID {
		delete(k.keys, ownerID+":"+key)
	}
	return nil
}

type stubRevoker struct {
	revoked map[string]time.Duration
}

func (r *stubRevoker) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if r.revoked == nil {
		r.revoked = make(map[string]time.Duration)
	}
	r.revoked[tokenID] = ttl
	return nil
}
