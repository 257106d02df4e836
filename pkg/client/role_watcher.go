package client

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// RoleState is what a RoleWatcher currently knows about the signed-in user.
type RoleState string

const (
	RoleStateUnresolved RoleState = "unresolved"
	RoleStateLoading    RoleState = "loading"
	RoleStateUser       RoleState = "user"
	RoleStateAdmin      RoleState = "admin"
)

// RoleSource looks up the role behind a session token. *Client implements it.
type RoleSource interface {
	FetchRole(ctx context.Context, token string) (string, error)
}

// RoleWatcher keeps the role of the current session up to date. Each session
// change starts a new lookup and cancels the previous one; a lookup that
// finishes after a newer session arrived is discarded even if its source
// ignored the cancellation.
type RoleWatcher struct {
	source RoleSource
	log    zerolog.Logger

	mu         sync.Mutex
	state      RoleState
	generation uint64
	cancel     context.CancelFunc
	subs       map[int]chan RoleState
	nextID     int

	// applied is called after a lookup result was kept or dropped. Tests only.
	applied func(generation uint64, kept bool)
}

func NewRoleWatcher(source RoleSource, log zerolog.Logger) *RoleWatcher {
	return &RoleWatcher{
		source: source,
		log:    log,
		state:  RoleStateUnresolved,
		subs:   make(map[int]chan RoleState),
	}
}

// Run follows store until ctx is done. On return the state is unresolved.
func (w *RoleWatcher) Run(ctx context.Context, store *SessionStore) {
	sessions, unsubscribe := store.Subscribe()
	defer unsubscribe()
	defer w.stop()

	for {
		select {
		case <-ctx.Done():
			return
		case s, ok := <-sessions:
			if !ok {
				return
			}
			w.Observe(ctx, s)
		}
	}
}

// Observe reacts to a session change. A nil session resets to unresolved.
func (w *RoleWatcher) Observe(ctx context.Context, s *Session) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.generation++
	gen := w.generation
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}

	if s == nil || s.Token == "" {
		w.setLocked(RoleStateUnresolved)
		return
	}

	lookupCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.setLocked(RoleStateLoading)

	token := s.Token
	go func() {
		role, err := w.source.FetchRole(lookupCtx, token)
		w.finish(gen, role, err)
	}()
}

// State returns the latest known role state.
func (w *RoleWatcher) State() RoleState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Subscribe returns a channel yielding the current state and every change,
// latest value wins. The returned func unsubscribes.
func (w *RoleWatcher) Subscribe() (<-chan RoleState, func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	id := w.nextID
	w.nextID++
	ch := make(chan RoleState, 1)
	ch <- w.state
	w.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			w.mu.Lock()
			defer w.mu.Unlock()
			delete(w.subs, id)
			close(ch)
		})
	}
}

func (w *RoleWatcher) finish(gen uint64, role string, err error) {
	w.mu.Lock()
	kept := gen == w.generation
	if kept {
		if w.cancel != nil {
			w.cancel()
			w.cancel = nil
		}
		switch {
		case err != nil:
			w.log.Warn().Err(err).Msg("role lookup failed, defaulting to user")
			w.setLocked(RoleStateUser)
		case role == string(RoleStateAdmin):
			w.setLocked(RoleStateAdmin)
		default:
			w.setLocked(RoleStateUser)
		}
	}
	hook := w.applied
	w.mu.Unlock()

	if hook != nil {
		hook(gen, kept)
	}
}

// stop abandons any lookup in flight and forgets the identity. The watcher
// reports unresolved until it observes a session again.
func (w *RoleWatcher) stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.generation++
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	w.setLocked(RoleStateUnresolved)
}

func (w *RoleWatcher) setLocked(state RoleState) {
	if w.state == state {
		return
	}
	w.state = state
	for _, ch := range w.subs {
		select {
		case <-ch:
		default:
		}
		ch <- state
	}
}
