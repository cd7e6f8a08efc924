// Package layout decides, per request, which chrome wraps the page a user is
// viewing and whether they must be redirected first. The decision is a pure
// function of the session's role, its purchase status, and the pathname, so
// it can be exercised without mounting any UI.
package layout

import "strings"

// Role classifies the authenticated account.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// PurchaseStatus is the tri-state purchase flag on a member account.
// Unknown is a valid transient state meaning "not yet resolved": it gates
// like NotPurchased but must trigger a resync, never be treated as an answer.
type PurchaseStatus int

const (
	// PurchaseUnknown means the flag has not been synced yet.
	PurchaseUnknown PurchaseStatus = iota
	// Purchased means the member has bought at least one package.
	Purchased
	// NotPurchased means the sync confirmed no package was ever bought.
	NotPurchased
)

// Resolved reports whether the status has been confirmed either way.
func (s PurchaseStatus) Resolved() bool { return s != PurchaseUnknown }

// Confirmed reports whether the member is confirmed to have purchased.
func (s PurchaseStatus) Confirmed() bool { return s == Purchased }

// Chrome is the structural wrapper rendered around page content.
type Chrome string

const (
	// ChromeAdmin is the fixed admin sidebar layout.
	ChromeAdmin Chrome = "admin"
	// ChromeUserWithSidebar is the members-area layout with the user sidebar.
	ChromeUserWithSidebar Chrome = "user_with_sidebar"
	// ChromeStandalone is header and footer only, no sidebar.
	ChromeStandalone Chrome = "standalone"
)

// Decision is the resolver's output for one (session, pathname) pair.
type Decision struct {
	Chrome     Chrome
	RedirectTo string
}

// BuyPackagePath is the purchase flow entry point members are sent to when
// they reach a members-only page without a confirmed purchase.
const BuyPackagePath = "/buy-package"

// memberAreaPaths is the fixed allow-list of paths wrapped in the user
// sidebar chrome.
var memberAreaPaths = map[string]struct{}{
	"/check-class": {},
	"/profile":     {},
	"/my-classes":  {},
	"/my-package":  {},
	"/my-orders":   {},
	"/user":        {},
	"/members":     {},
}

// IsBuyPackagePath reports whether the path belongs to the purchase flow.
func IsBuyPackagePath(path string) bool {
	return path == BuyPackagePath || strings.HasPrefix(path, BuyPackagePath+"/")
}

// Resolve picks the chrome for a pathname and decides whether a redirect is
// required. Rules are evaluated in strict order, first match wins:
//
//  1. Admins always get the admin chrome and are never redirected.
//  2. Buy-package paths get the user sidebar only for confirmed purchasers;
//     everyone else sees the purchase flow standalone. Never a redirect.
//  3. Order detail pages get the user sidebar unconditionally.
//  4. Allow-listed member paths get the user sidebar.
//  5. Everything else is standalone.
//
// A redirect to the purchase flow is attached only when the user sidebar was
// chosen, the purchase status is not confirmed, and the path is not itself a
// buy-package path. Unknown status still attaches the redirect; the gate
// holds it back until the status resolves or the grace delay expires.
func Resolve(role Role, status PurchaseStatus, path string) Decision {
	if role == RoleAdmin {
		return Decision{Chrome: ChromeAdmin}
	}

	if IsBuyPackagePath(path) {
		if status.Confirmed() {
			return Decision{Chrome: ChromeUserWithSidebar}
		}
		return Decision{Chrome: ChromeStandalone}
	}

	chrome := ChromeStandalone
	if strings.HasPrefix(path, "/my-orders/") {
		chrome = ChromeUserWithSidebar
	} else if _, ok := memberAreaPaths[path]; ok {
		chrome = ChromeUserWithSidebar
	}

	decision := Decision{Chrome: chrome}
	if chrome == ChromeUserWithSidebar && !status.Confirmed() {
		decision.RedirectTo = BuyPackagePath
	}
	return decision
}
