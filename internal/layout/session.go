package layout

import "sync"

// User is the slice of the account the layout engine needs.
type User struct {
	ID   string
	Role Role
}

// Session is a consistent snapshot of the shared session state.
type Session struct {
	User          User
	Authenticated bool
	Purchase      PurchaseStatus
}

// Store is the single shared mutable session object. Any component may
// trigger a sync that mutates it; the store's methods are the sole mutation
// point and readers always observe a consistent snapshot. Overlapping syncs
// resolve last-write-wins on the purchase field.
type Store struct {
	mu      sync.RWMutex
	session Session
}

// NewStore returns an empty, unauthenticated store.
func NewStore() *Store {
	return &Store{}
}

// SetUser populates the session at login. The purchase status starts
// Unknown; it is resolved by an explicit sync, never assumed.
func (s *Store) SetUser(user User) {
	s.mu.Lock()
	s.session = Session{User: user, Authenticated: true, Purchase: PurchaseUnknown}
	s.mu.Unlock()
}

// SetPurchaseStatus records a sync result. Later writes overwrite earlier
// ones regardless of which navigation triggered them.
func (s *Store) SetPurchaseStatus(status PurchaseStatus) {
	s.mu.Lock()
	s.session.Purchase = status
	s.mu.Unlock()
}

// Clear tears the session down at logout.
func (s *Store) Clear() {
	s.mu.Lock()
	s.session = Session{}
	s.mu.Unlock()
}

// Snapshot returns the current session state.
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}
