package layout

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Syncer resolves a member's purchase status against the backing records.
type Syncer interface {
	SyncPurchaseStatus(ctx context.Context, memberID string) (bool, error)
}

// View is what the chrome renders for one navigation step.
type View struct {
	Chrome     Chrome
	Sidebar    []Item
	RedirectTo string
	// ShowLoading means a placeholder is rendered instead of page content:
	// either the purchase status is still resolving or a redirect is waiting
	// out its grace delay. Protected content is never rendered while true.
	ShowLoading bool
}

// Gate drives the loading/redirect state machine around the resolver. It
// owns when a purchase-status sync fires and holds a buy-package redirect
// back for a grace period so an in-flight sync can land without a visible
// redirect flicker.
type Gate struct {
	store  *Store
	syncer Syncer
	grace  time.Duration
	now    func() time.Time
	logger *slog.Logger

	mu        sync.Mutex
	armedPath string
	armedAt   time.Time
}

// NewGate wires a gate around the shared session store.
func NewGate(store *Store, syncer Syncer, grace time.Duration, now func() time.Time, logger *slog.Logger) *Gate {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{store: store, syncer: syncer, grace: grace, now: now, logger: logger}
}

// NeedsSync reports whether navigating to path must trigger a purchase-status
// sync: always on buy-package paths (to catch a just-completed purchase), and
// whenever the status is still Unknown on a sidebar-wrapped page.
func (g *Gate) NeedsSync(path string) bool {
	session := g.store.Snapshot()
	if !session.Authenticated || session.User.Role == RoleAdmin {
		return false
	}
	if IsBuyPackagePath(path) {
		return true
	}
	decision := Resolve(session.User.Role, session.Purchase, path)
	return decision.Chrome == ChromeUserWithSidebar && !session.Purchase.Resolved()
}

// Sync resolves the purchase status and records the result in the store.
// Failures are logged and leave the status untouched: the gate keeps showing
// the loading placeholder rather than guessing, so an error path can never
// expose purchase-gated content.
func (g *Gate) Sync(ctx context.Context) {
	session := g.store.Snapshot()
	if g.syncer == nil || !session.Authenticated {
		return
	}

	purchased, err := g.syncer.SyncPurchaseStatus(ctx, session.User.ID)
	if err != nil {
		g.logger.ErrorContext(ctx, "purchase-status sync failed", "member_id", session.User.ID, "error", err)
		return
	}

	// Last-write-wins: the result lands on whatever the current session is.
	if purchased {
		g.store.SetPurchaseStatus(Purchased)
	} else {
		g.store.SetPurchaseStatus(NotPurchased)
	}
}

// OnNavigate applies the gate's sync policy for a navigation to path.
func (g *Gate) OnNavigate(ctx context.Context, path string) {
	if g.NeedsSync(path) {
		g.Sync(ctx)
	}
}

// ViewFor evaluates the state machine for the current session and path.
func (g *Gate) ViewFor(path string) View {
	session := g.store.Snapshot()
	decision := Resolve(session.User.Role, session.Purchase, path)

	view := View{Chrome: decision.Chrome}
	switch decision.Chrome {
	case ChromeAdmin:
		g.disarm()
		return view
	case ChromeUserWithSidebar:
		view.Sidebar = MemberSidebar(session.Purchase)
	}

	if decision.RedirectTo == "" {
		g.disarm()
		return view
	}

	// A redirect is wanted. Hold it until the grace delay elapses; if the
	// status is still Unknown when it does, keep loading instead of
	// redirecting on an unresolved answer.
	now := g.now()
	g.mu.Lock()
	if g.armedPath != path {
		g.armedPath = path
		g.armedAt = now
	}
	armedAt := g.armedAt
	g.mu.Unlock()

	if session.Purchase == NotPurchased && !now.Before(armedAt.Add(g.grace)) {
		view.RedirectTo = decision.RedirectTo
		return view
	}

	view.ShowLoading = true
	return view
}

func (g *Gate) disarm() {
	g.mu.Lock()
	g.armedPath = ""
	g.armedAt = time.Time{}
	g.mu.Unlock()
}
