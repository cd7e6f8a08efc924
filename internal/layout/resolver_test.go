package layout

import "testing"

func TestResolve_DecisionTable(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		role     Role
		status   PurchaseStatus
		path     string
		chrome   Chrome
		redirect string
	}{
		{
			name:   "admin always gets admin chrome",
			role:   RoleAdmin,
			status: NotPurchased,
			path:   "/admin/member",
			chrome: ChromeAdmin,
		},
		{
			name:   "admin is never redirected",
			role:   RoleAdmin,
			status: PurchaseUnknown,
			path:   "/my-package",
			chrome: ChromeAdmin,
		},
		{
			name:   "purchased member gets sidebar on member page",
			role:   RoleMember,
			status: Purchased,
			path:   "/my-package",
			chrome: ChromeUserWithSidebar,
		},
		{
			name:     "unpurchased member is redirected off member page",
			role:     RoleMember,
			status:   NotPurchased,
			path:     "/my-package",
			chrome:   ChromeUserWithSidebar,
			redirect: BuyPackagePath,
		},
		{
			name:     "unknown status still attaches the redirect",
			role:     RoleMember,
			status:   PurchaseUnknown,
			path:     "/my-classes",
			chrome:   ChromeUserWithSidebar,
			redirect: BuyPackagePath,
		},
		{
			name:   "unpurchased member sees buy-package standalone",
			role:   RoleMember,
			status: NotPurchased,
			path:   "/buy-package",
			chrome: ChromeStandalone,
		},
		{
			name:   "purchased member sees buy-package with sidebar",
			role:   RoleMember,
			status: Purchased,
			path:   "/buy-package",
			chrome: ChromeUserWithSidebar,
		},
		{
			name:   "buy-package subpath never redirects",
			role:   RoleMember,
			status: PurchaseUnknown,
			path:   "/buy-package/checkout",
			chrome: ChromeStandalone,
		},
		{
			name:   "order detail gets sidebar unconditionally",
			role:   RoleMember,
			status: Purchased,
			path:   "/my-orders/ord-42",
			chrome: ChromeUserWithSidebar,
		},
		{
			name:     "order detail still redirects without purchase",
			role:     RoleMember,
			status:   NotPurchased,
			path:     "/my-orders/ord-42",
			chrome:   ChromeUserWithSidebar,
			redirect: BuyPackagePath,
		},
		{
			name:   "random path is standalone",
			role:   RoleMember,
			status: NotPurchased,
			path:   "/some/random/path",
			chrome: ChromeStandalone,
		},
		{
			name:   "allow-list is exact, not prefix",
			role:   RoleMember,
			status: Purchased,
			path:   "/profile/settings",
			chrome: ChromeStandalone,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := Resolve(tc.role, tc.status, tc.path)
			if got.Chrome != tc.chrome {
				t.Fatalf("chrome = %q, want %q", got.Chrome, tc.chrome)
			}
			if got.RedirectTo != tc.redirect {
				t.Fatalf("redirect = %q, want %q", got.RedirectTo, tc.redirect)
			}

			// Same inputs, same decision.
			if again := Resolve(tc.role, tc.status, tc.path); again != got {
				t.Fatalf("resolver is not deterministic: %+v vs %+v", again, got)
			}
		})
	}
}

func TestIsBuyPackagePath(t *testing.T) {
	t.Parallel()

	if !IsBuyPackagePath("/buy-package") || !IsBuyPackagePath("/buy-package/checkout") {
		t.Fatalf("buy-package paths not recognised")
	}
	if IsBuyPackagePath("/buy-packages") || IsBuyPackagePath("/my-package") {
		t.Fatalf("non buy-package path recognised")
	}
}
