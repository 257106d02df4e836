package client

import "sync"

// SessionStore holds the current session and notifies subscribers when it
// changes. A nil session means signed out.
type SessionStore struct {
	mu      sync.Mutex
	current *Session
	subs    map[int]chan *Session
	nextID  int
}

func NewSessionStore() *SessionStore {
	return &SessionStore{subs: make(map[int]chan *Session)}
}

// Current returns a copy of the current session, or nil.
func (s *SessionStore) Current() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.current)
}

func (s *SessionStore) Set(session *Session) {
	s.publish(clone(session))
}

func (s *SessionStore) Clear() {
	s.publish(nil)
}

// Subscribe returns a channel that first yields the current session and then
// every later change. Slow readers only see the latest value. Call the
// returned func to unsubscribe; it closes the channel.
func (s *SessionStore) Subscribe() (<-chan *Session, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan *Session, 1)
	ch <- clone(s.current)
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
}

func (s *SessionStore) publish(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = session
	for _, ch := range s.subs {
		// Drop an unread value so the newest always fits.
		select {
		case <-ch:
		default:
		}
		ch <- clone(session)
	}
}

func clone(s *Session) *Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
