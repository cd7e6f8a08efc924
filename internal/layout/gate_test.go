package layout

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

type syncerStub struct {
	mu        sync.Mutex
	purchased bool
	err       error
	calls     int
}

func (s *syncerStub) SyncPurchaseStatus(ctx context.Context, memberID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return false, s.err
	}
	return s.purchased, nil
}

func (s *syncerStub) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestGate(syncer Syncer, grace time.Duration) (*Gate, *Store, *manualClock) {
	store := NewStore()
	clock := &manualClock{now: time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewGate(store, syncer, grace, clock.Now, logger), store, clock
}

func TestGate_SyncPolicy(t *testing.T) {
	t.Parallel()

	syncer := &syncerStub{purchased: true}
	gate, store, _ := newTestGate(syncer, time.Second)
	store.SetUser(User{ID: "m-1", Role: RoleMember})

	if !gate.NeedsSync("/buy-package") {
		t.Fatalf("buy-package paths must always resync")
	}
	if !gate.NeedsSync("/my-package") {
		t.Fatalf("unknown status on a sidebar page must resync")
	}
	if gate.NeedsSync("/some/random/path") {
		t.Fatalf("standalone pages must not resync")
	}

	gate.OnNavigate(context.Background(), "/my-package")
	if got := store.Snapshot().Purchase; got != Purchased {
		t.Fatalf("sync result not recorded: %v", got)
	}
	if syncer.callCount() != 1 {
		t.Fatalf("expected one sync call, got %d", syncer.callCount())
	}

	// Resolved status on a regular member page requires no further sync,
	// but buy-package always does.
	if gate.NeedsSync("/my-package") {
		t.Fatalf("resolved status must not resync on member pages")
	}
	if !gate.NeedsSync("/buy-package/checkout") {
		t.Fatalf("buy-package subpath must still resync")
	}
}

func TestGate_SyncFailureStaysLoading(t *testing.T) {
	t.Parallel()

	syncer := &syncerStub{err: errors.New("profile endpoint down")}
	gate, store, clock := newTestGate(syncer, time.Second)
	store.SetUser(User{ID: "m-1", Role: RoleMember})

	gate.OnNavigate(context.Background(), "/my-package")

	if got := store.Snapshot().Purchase; got != PurchaseUnknown {
		t.Fatalf("failed sync must not guess a status, got %v", got)
	}

	view := gate.ViewFor("/my-package")
	if !view.ShowLoading || view.RedirectTo != "" {
		t.Fatalf("failed sync must keep loading, got %+v", view)
	}

	// Even past the grace delay an unresolved status never redirects.
	clock.Advance(5 * time.Second)
	view = gate.ViewFor("/my-package")
	if !view.ShowLoading || view.RedirectTo != "" {
		t.Fatalf("unresolved status redirected after grace: %+v", view)
	}
}

func TestGate_RedirectAfterGrace(t *testing.T) {
	t.Parallel()

	syncer := &syncerStub{purchased: false}
	gate, store, clock := newTestGate(syncer, time.Second)
	store.SetUser(User{ID: "m-1", Role: RoleMember})
	gate.OnNavigate(context.Background(), "/my-package")

	view := gate.ViewFor("/my-package")
	if view.RedirectTo != "" || !view.ShowLoading {
		t.Fatalf("redirect fired before grace elapsed: %+v", view)
	}

	clock.Advance(999 * time.Millisecond)
	if view := gate.ViewFor("/my-package"); view.RedirectTo != "" {
		t.Fatalf("redirect fired %s early", time.Millisecond)
	}

	clock.Advance(time.Millisecond)
	view = gate.ViewFor("/my-package")
	if view.RedirectTo != BuyPackagePath {
		t.Fatalf("expected redirect to %s, got %+v", BuyPackagePath, view)
	}
	if view.ShowLoading {
		t.Fatalf("redirect and loading are mutually exclusive")
	}
}

func TestGate_PurchaseResolvedDuringGraceCancelsRedirect(t *testing.T) {
	t.Parallel()

	syncer := &syncerStub{purchased: true}
	gate, store, clock := newTestGate(syncer, time.Second)
	store.SetUser(User{ID: "m-1", Role: RoleMember})

	// First view arms the redirect while status is unknown.
	if view := gate.ViewFor("/my-package"); !view.ShowLoading {
		t.Fatalf("expected loading while status unresolved, got %+v", view)
	}

	// The sync lands before the grace delay expires.
	gate.Sync(context.Background())
	clock.Advance(2 * time.Second)

	view := gate.ViewFor("/my-package")
	if view.RedirectTo != "" || view.ShowLoading {
		t.Fatalf("confirmed purchase must render content, got %+v", view)
	}
	if labels := sidebarLabels(view.Sidebar); !labels["My Package"] {
		t.Fatalf("purchased sidebar missing gated entries: %v", labels)
	}
}

func TestGate_PathChangeRearmsGrace(t *testing.T) {
	t.Parallel()

	syncer := &syncerStub{purchased: false}
	gate, store, clock := newTestGate(syncer, time.Second)
	store.SetUser(User{ID: "m-1", Role: RoleMember})
	gate.Sync(context.Background())

	gate.ViewFor("/my-package")
	clock.Advance(900 * time.Millisecond)

	// Navigating to a different protected page restarts the grace window.
	if view := gate.ViewFor("/my-classes"); view.RedirectTo != "" {
		t.Fatalf("grace window must restart per path, got %+v", view)
	}
	clock.Advance(time.Second)
	if view := gate.ViewFor("/my-classes"); view.RedirectTo != BuyPackagePath {
		t.Fatalf("expected redirect after fresh grace, got %+v", view)
	}
}

func TestGate_AdminAndStandaloneNeverGated(t *testing.T) {
	t.Parallel()

	gate, store, _ := newTestGate(&syncerStub{}, time.Second)

	store.SetUser(User{ID: "a-1", Role: RoleAdmin})
	if view := gate.ViewFor("/admin/member"); view.Chrome != ChromeAdmin || view.ShowLoading || view.RedirectTo != "" {
		t.Fatalf("admin view gated: %+v", view)
	}
	if gate.NeedsSync("/buy-package") {
		t.Fatalf("admin sessions never sync purchase status")
	}

	store.SetUser(User{ID: "m-1", Role: RoleMember})
	if view := gate.ViewFor("/buy-package"); view.Chrome != ChromeStandalone || view.ShowLoading || view.RedirectTo != "" {
		t.Fatalf("buy-package view gated: %+v", view)
	}
}

func TestStore_LastWriteWins(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.SetUser(User{ID: "m-1", Role: RoleMember})

	if got := store.Snapshot().Purchase; got != PurchaseUnknown {
		t.Fatalf("fresh session must start unknown, got %v", got)
	}

	// A stale sync from a previous route resolving late simply overwrites.
	store.SetPurchaseStatus(NotPurchased)
	store.SetPurchaseStatus(Purchased)
	if got := store.Snapshot().Purchase; got != Purchased {
		t.Fatalf("expected last write to win, got %v", got)
	}

	store.Clear()
	snap := store.Snapshot()
	if snap.Authenticated || snap.User.ID != "" || snap.Purchase != PurchaseUnknown {
		t.Fatalf("clear left state behind: %+v", snap)
	}
}
