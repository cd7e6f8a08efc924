package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/studio-scheduler/internal/persistence"
)

func TestMemberRepository_CreateAndGet(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	seedMember(t, storage, "member-1", "Jane@Example.com")

	retrieved, err := storage.Members.GetMember(ctx, "member-1")
	if err != nil {
		t.Fatalf("GetMember failed: %v", err)
	}

	if retrieved.Email != "jane@example.com" {
		t.Errorf("expected normalized email, got %q", retrieved.Email)
	}
	if retrieved.PasswordHash != "hash-member-1" {
		t.Errorf("expected password hash to round-trip, got %q", retrieved.PasswordHash)
	}
	if retrieved.HasPurchasedPackage != nil {
		t.Errorf("expected purchase flag to start unset, got %v", *retrieved.HasPurchasedPackage)
	}
}

func TestMemberRepository_GetMemberByEmail(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	seedMember(t, storage, "member-1", "jane@example.com")

	retrieved, err := storage.Members.GetMemberByEmail(ctx, "  JANE@example.com ")
	if err != nil {
		t.Fatalf("GetMemberByEmail failed: %v", err)
	}
	if retrieved.ID != "member-1" {
		t.Errorf("expected member-1, got %q", retrieved.ID)
	}
}

func TestMemberRepository_DuplicateEmail(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	seedMember(t, storage, "member-1", "jane@example.com")

	duplicate := persistence.Member{
		ID:           "member-2",
		Email:        "JANE@example.com",
		DisplayName:  "Other Jane",
		Role:         "member",
		PasswordHash: "hash-2",
	}
	err := storage.Members.CreateMember(ctx, duplicate)
	if !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestMemberRepository_SetPurchaseFlag(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	seedMember(t, storage, "member-1", "jane@example.com")

	if err := storage.Members.SetPurchaseFlag(ctx, "member-1", true); err != nil {
		t.Fatalf("SetPurchaseFlag failed: %v", err)
	}

	retrieved, err := storage.Members.GetMember(ctx, "member-1")
	if err != nil {
		t.Fatalf("GetMember failed: %v", err)
	}
	if retrieved.HasPurchasedPackage == nil || !*retrieved.HasPurchasedPackage {
		t.Errorf("expected purchase flag true, got %v", retrieved.HasPurchasedPackage)
	}

	if err := storage.Members.SetPurchaseFlag(ctx, "missing", true); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown member, got %v", err)
	}
}

func TestMemberRepository_UpdatePreservesCredentials(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	member := seedMember(t, storage, "member-1", "jane@example.com")

	member.DisplayName = "Jane Renamed"
	member.PasswordHash = "should-not-be-written"
	if err := storage.Members.UpdateMember(ctx, member); err != nil {
		t.Fatalf("UpdateMember failed: %v", err)
	}

	retrieved, err := storage.Members.GetMember(ctx, "member-1")
	if err != nil {
		t.Fatalf("GetMember failed: %v", err)
	}
	if retrieved.DisplayName != "Jane Renamed" {
		t.Errorf("expected updated display name, got %q", retrieved.DisplayName)
	}
	if retrieved.PasswordHash != "hash-member-1" {
		t.Errorf("expected password hash untouched, got %q", retrieved.PasswordHash)
	}
}

func TestMemberRepository_DeleteGuardsOrders(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	seedMember(t, storage, "member-1", "jane@example.com")

	pkg := persistence.Package{ID: "pkg-1", Name: "Starter", Category: "membership", PriceIDR: 500_000}
	if err := storage.Packages.CreatePackage(ctx, pkg); err != nil {
		t.Fatalf("CreatePackage failed: %v", err)
	}
	order := persistence.Order{
		ID: "order-1", MemberID: "member-1", PackageID: "pkg-1",
		PackageName: "Starter", AmountIDR: 500_000, Status: "pending",
	}
	if err := storage.Orders.CreateOrder(ctx, order); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	if err := storage.Members.DeleteMember(ctx, "member-1"); !errors.Is(err, persistence.ErrForeignKeyViolation) {
		t.Fatalf("expected ErrForeignKeyViolation, got %v", err)
	}
}

func TestMemberRepository_DeleteRemovesSessions(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	member := seedMember(t, storage, "member-1", "jane@example.com")

	session := persistence.Session{
		ID:        "session-1",
		MemberID:  member.ID,
		Token:     "token-1",
		ExpiresAt: member.CreatedAt.Add(24 * time.Hour),
	}
	if _, err := storage.Sessions.CreateSession(ctx, session); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	if err := storage.Members.DeleteMember(ctx, "member-1"); err != nil {
		t.Fatalf("DeleteMember failed: %v", err)
	}

	if _, err := storage.Sessions.GetSession(ctx, "token-1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected session to be removed, got %v", err)
	}
	if _, err := storage.Members.GetMember(ctx, "member-1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected member to be removed, got %v", err)
	}
}
