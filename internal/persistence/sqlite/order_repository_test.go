package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/studio-scheduler/internal/persistence"
)

func seedPackage(t *testing.T, storage *Storage, id string) persistence.Package {
	t.Helper()

	pkg := persistence.Package{
		ID:        id,
		Name:      "Starter " + id,
		Category:  "membership",
		PriceIDR:  500_000,
		Credits:   8,
		CreatedAt: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}
	if err := storage.Packages.CreatePackage(context.Background(), pkg); err != nil {
		t.Fatalf("seed package %s: %v", id, err)
	}
	return pkg
}

func TestOrderRepository_CreateAndUpdate(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	seedMember(t, storage, "member-1", "jane@example.com")
	seedPackage(t, storage, "pkg-1")

	created := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	order := persistence.Order{
		ID: "order-1", MemberID: "member-1", PackageID: "pkg-1",
		PackageName: "Starter pkg-1", AmountIDR: 500_000, Status: "pending",
		SnapToken: "snap-token", SnapRedirectURL: "https://pay.example/order-1",
		CreatedAt: created, UpdatedAt: created,
	}
	if err := storage.Orders.CreateOrder(ctx, order); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	paidAt := created.Add(time.Hour)
	order.Status = "paid"
	order.PaidAt = &paidAt
	order.UpdatedAt = paidAt
	if err := storage.Orders.UpdateOrder(ctx, order); err != nil {
		t.Fatalf("UpdateOrder failed: %v", err)
	}

	retrieved, err := storage.Orders.GetOrder(ctx, "order-1")
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	if retrieved.Status != "paid" {
		t.Errorf("expected paid status, got %q", retrieved.Status)
	}
	if retrieved.PaidAt == nil || !retrieved.PaidAt.Equal(paidAt) {
		t.Errorf("expected paid_at %v, got %v", paidAt, retrieved.PaidAt)
	}
	if retrieved.SnapToken != "snap-token" {
		t.Errorf("expected snap token to round-trip, got %q", retrieved.SnapToken)
	}
}

func TestOrderRepository_HasPaidOrder(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	seedMember(t, storage, "member-1", "jane@example.com")
	seedPackage(t, storage, "pkg-1")

	pending := persistence.Order{
		ID: "order-1", MemberID: "member-1", PackageID: "pkg-1",
		PackageName: "Starter pkg-1", AmountIDR: 500_000, Status: "pending",
	}
	if err := storage.Orders.CreateOrder(ctx, pending); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	has, err := storage.Orders.HasPaidOrder(ctx, "member-1")
	if err != nil {
		t.Fatalf("HasPaidOrder failed: %v", err)
	}
	if has {
		t.Error("expected no paid order while pending")
	}

	pending.Status = "paid"
	if err := storage.Orders.UpdateOrder(ctx, pending); err != nil {
		t.Fatalf("UpdateOrder failed: %v", err)
	}

	has, err = storage.Orders.HasPaidOrder(ctx, "member-1")
	if err != nil {
		t.Fatalf("HasPaidOrder failed: %v", err)
	}
	if !has {
		t.Error("expected paid order after settlement")
	}
}

func TestOrderRepository_ListOrdersNewestFirst(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	seedMember(t, storage, "member-1", "jane@example.com")
	seedMember(t, storage, "member-2", "raka@example.com")
	seedPackage(t, storage, "pkg-1")

	base := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	for i, spec := range []struct {
		id     string
		member string
		offset time.Duration
	}{
		{"order-1", "member-1", 0},
		{"order-2", "member-2", time.Minute},
		{"order-3", "member-1", 2 * time.Minute},
	} {
		order := persistence.Order{
			ID: spec.id, MemberID: spec.member, PackageID: "pkg-1",
			PackageName: "Starter pkg-1", AmountIDR: 500_000, Status: "pending",
			CreatedAt: base.Add(spec.offset), UpdatedAt: base.Add(spec.offset),
		}
		if err := storage.Orders.CreateOrder(ctx, order); err != nil {
			t.Fatalf("CreateOrder %d failed: %v", i, err)
		}
	}

	orders, err := storage.Orders.ListOrdersForMember(ctx, "member-1")
	if err != nil {
		t.Fatalf("ListOrdersForMember failed: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders for member-1, got %d", len(orders))
	}
	if orders[0].ID != "order-3" || orders[1].ID != "order-1" {
		t.Errorf("expected newest first, got %s then %s", orders[0].ID, orders[1].ID)
	}

	all, err := storage.Orders.ListOrders(ctx)
	if err != nil {
		t.Fatalf("ListOrders failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 orders in total, got %d", len(all))
	}
}

func TestSessionRepository_TokenLifecycle(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	member := seedMember(t, storage, "member-1", "jane@example.com")

	issued := member.CreatedAt
	session := persistence.Session{
		ID: "session-1", MemberID: "member-1", Token: "token-1",
		ExpiresAt: issued.Add(24 * time.Hour), CreatedAt: issued, UpdatedAt: issued,
	}
	if _, err := storage.Sessions.CreateSession(ctx, session); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	t.Run("rotate token", func(t *testing.T) {
		session.Token = "token-2"
		session.UpdatedAt = issued.Add(time.Hour)
		if _, err := storage.Sessions.UpdateSession(ctx, session); err != nil {
			t.Fatalf("UpdateSession failed: %v", err)
		}

		if _, err := storage.Sessions.GetSession(ctx, "token-1"); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected old token to be gone, got %v", err)
		}
		rotated, err := storage.Sessions.GetSession(ctx, "token-2")
		if err != nil {
			t.Fatalf("GetSession failed: %v", err)
		}
		if rotated.ID != "session-1" {
			t.Errorf("expected same session row, got %q", rotated.ID)
		}
	})

	t.Run("revoke", func(t *testing.T) {
		revokedAt := issued.Add(2 * time.Hour)
		revoked, err := storage.Sessions.RevokeSession(ctx, "token-2", revokedAt)
		if err != nil {
			t.Fatalf("RevokeSession failed: %v", err)
		}
		if revoked.RevokedAt == nil || !revoked.RevokedAt.Equal(revokedAt) {
			t.Errorf("expected revoked_at %v, got %v", revokedAt, revoked.RevokedAt)
		}
	})

	t.Run("prune expired", func(t *testing.T) {
		if err := storage.Sessions.DeleteExpiredSessions(ctx, issued.Add(48*time.Hour)); err != nil {
			t.Fatalf("DeleteExpiredSessions failed: %v", err)
		}
		if _, err := storage.Sessions.GetSession(ctx, "token-2"); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected expired session removed, got %v", err)
		}
	})
}
