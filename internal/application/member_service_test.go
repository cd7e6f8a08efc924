package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

type memberRepoStub struct {
	members map[string]Member
	hashes  map[string]string
	flagged map[string]bool

	createErr error
	flagErr   error
}

func newMemberRepoStub() *memberRepoStub {
	return &memberRepoStub{
		members: make(map[string]Member),
		hashes:  make(map[string]string),
		flagged: make(map[string]bool),
	}
}

func (s *memberRepoStub) CreateMember(_ context.Context, member Member, passwordHash string) (Member, error) {
	if s.createErr != nil {
		return Member{}, s.createErr
	}
	for _, existing := range s.members {
		if existing.Email == member.Email {
			return Member{}, ErrAlreadyExists
		}
	}
	s.members[member.ID] = member
	s.hashes[member.ID] = passwordHash
	return member, nil
}

func (s *memberRepoStub) GetMember(_ context.Context, id string) (Member, error) {
	member, ok := s.members[id]
	if !ok {
		return Member{}, ErrNotFound
	}
	return member, nil
}

func (s *memberRepoStub) UpdateMember(_ context.Context, member Member) (Member, error) {
	if _, ok := s.members[member.ID]; !ok {
		return Member{}, ErrNotFound
	}
	s.members[member.ID] = member
	return member, nil
}

func (s *memberRepoStub) DeleteMember(_ context.Context, id string) error {
	if _, ok := s.members[id]; !ok {
		return ErrNotFound
	}
	delete(s.members, id)
	return nil
}

func (s *memberRepoStub) ListMembers(_ context.Context) ([]Member, error) {
	out := make([]Member, 0, len(s.members))
	for _, member := range s.members {
		out = append(out, member)
	}
	return out, nil
}

func (s *memberRepoStub) SetPurchaseFlag(_ context.Context, id string, purchased bool) error {
	if s.flagErr != nil {
		return s.flagErr
	}
	if _, ok := s.members[id]; !ok {
		return ErrNotFound
	}
	s.flagged[id] = purchased
	member := s.members[id]
	member.HasPurchasedPackage = &purchased
	s.members[id] = member
	return nil
}

type paidOrderStub struct {
	paid map[string]bool
	err  error
}

func (s *paidOrderStub) HasPaidOrder(_ context.Context, memberID string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.paid[memberID], nil
}

func fixedNow() time.Time {
	return time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)
}

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

var adminPrincipal = Principal{MemberID: "admin-1", Role: RoleAdmin}
var memberPrincipal = Principal{MemberID: "member-1", Role: RoleMember}

func TestMemberService_CreateMember(t *testing.T) {
	t.Parallel()

	validInput := MemberInput{Email: "jane@example.com", DisplayName: "Jane", Role: RoleMember}

	t.Run("requires administrator privileges", func(t *testing.T) {
		t.Parallel()

		svc := NewMemberService(newMemberRepoStub(), nil, sequentialIDs("m"), fixedNow, nil)
		_, err := svc.CreateMember(context.Background(), CreateMemberParams{
			Principal: memberPrincipal,
			Input:     validInput,
			Password:  "secret-pass",
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("validates input fields including email format", func(t *testing.T) {
		t.Parallel()

		svc := NewMemberService(newMemberRepoStub(), nil, sequentialIDs("m"), fixedNow, nil)
		_, err := svc.CreateMember(context.Background(), CreateMemberParams{
			Principal: adminPrincipal,
			Input:     MemberInput{Email: "not-an-email", Role: RoleMember},
			Password:  "short",
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		for _, field := range []string{"email", "display_name", "password"} {
			if _, ok := vErr.FieldErrors[field]; !ok {
				t.Errorf("expected field error for %q, got %v", field, vErr.FieldErrors)
			}
		}
	})

	t.Run("persists members for administrators", func(t *testing.T) {
		t.Parallel()

		repo := newMemberRepoStub()
		svc := NewMemberService(repo, nil, sequentialIDs("m"), fixedNow, nil)
		created, err := svc.CreateMember(context.Background(), CreateMemberParams{
			Principal: adminPrincipal,
			Input:     MemberInput{Email: "  Jane@Example.com ", DisplayName: " Jane ", Role: RoleMember},
			Password:  "secret-pass",
		})
		if err != nil {
			t.Fatalf("CreateMember returned error: %v", err)
		}
		if created.Email != "jane@example.com" {
			t.Errorf("email not normalized: %q", created.Email)
		}
		if created.DisplayName != "Jane" {
			t.Errorf("display name not trimmed: %q", created.DisplayName)
		}
		if created.HasPurchasedPackage != nil {
			t.Errorf("new member should have unsynced purchase flag")
		}
		if repo.hashes[created.ID] == "" {
			t.Errorf("password hash was not persisted")
		}
	})

	t.Run("maps duplicate email violations to sentinel errors", func(t *testing.T) {
		t.Parallel()

		repo := newMemberRepoStub()
		svc := NewMemberService(repo, nil, sequentialIDs("m"), fixedNow, nil)
		params := CreateMemberParams{Principal: adminPrincipal, Input: validInput, Password: "secret-pass"}
		if _, err := svc.CreateMember(context.Background(), params); err != nil {
			t.Fatalf("first CreateMember returned error: %v", err)
		}
		if _, err := svc.CreateMember(context.Background(), params); !errors.Is(err, ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})
}

func TestMemberService_GetMember(t *testing.T) {
	t.Parallel()

	repo := newMemberRepoStub()
	repo.members["member-1"] = Member{ID: "member-1", Email: "jane@example.com", Role: RoleMember}
	repo.members["member-2"] = Member{ID: "member-2", Email: "bob@example.com", Role: RoleMember}
	svc := NewMemberService(repo, nil, sequentialIDs("m"), fixedNow, nil)

	t.Run("members may read their own record", func(t *testing.T) {
		t.Parallel()

		member, err := svc.GetMember(context.Background(), memberPrincipal, "member-1")
		if err != nil {
			t.Fatalf("GetMember returned error: %v", err)
		}
		if member.ID != "member-1" {
			t.Errorf("got member %q", member.ID)
		}
	})

	t.Run("members may not read other records", func(t *testing.T) {
		t.Parallel()

		if _, err := svc.GetMember(context.Background(), memberPrincipal, "member-2"); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("administrators may read any record", func(t *testing.T) {
		t.Parallel()

		if _, err := svc.GetMember(context.Background(), adminPrincipal, "member-2"); err != nil {
			t.Fatalf("GetMember returned error: %v", err)
		}
	})
}

func TestMemberService_SyncPurchaseStatus(t *testing.T) {
	t.Parallel()

	t.Run("persists a positive flag when a settled order exists", func(t *testing.T) {
		t.Parallel()

		repo := newMemberRepoStub()
		repo.members["member-1"] = Member{ID: "member-1", Role: RoleMember}
		orders := &paidOrderStub{paid: map[string]bool{"member-1": true}}
		svc := NewMemberService(repo, orders, sequentialIDs("m"), fixedNow, nil)

		purchased, err := svc.SyncPurchaseStatus(context.Background(), "member-1")
		if err != nil {
			t.Fatalf("SyncPurchaseStatus returned error: %v", err)
		}
		if !purchased {
			t.Fatalf("expected purchased=true")
		}
		if got := repo.flagged["member-1"]; !got {
			t.Errorf("flag not persisted")
		}
	})

	t.Run("persists a negative flag when no settled order exists", func(t *testing.T) {
		t.Parallel()

		repo := newMemberRepoStub()
		repo.members["member-1"] = Member{ID: "member-1", Role: RoleMember}
		svc := NewMemberService(repo, &paidOrderStub{paid: map[string]bool{}}, sequentialIDs("m"), fixedNow, nil)

		purchased, err := svc.SyncPurchaseStatus(context.Background(), "member-1")
		if err != nil {
			t.Fatalf("SyncPurchaseStatus returned error: %v", err)
		}
		if purchased {
			t.Fatalf("expected purchased=false")
		}
		flag := repo.members["member-1"].HasPurchasedPackage
		if flag == nil || *flag {
			t.Errorf("expected persisted false flag, got %v", flag)
		}
	})

	t.Run("propagates order lookup failures", func(t *testing.T) {
		t.Parallel()

		repo := newMemberRepoStub()
		repo.members["member-1"] = Member{ID: "member-1", Role: RoleMember}
		orders := &paidOrderStub{err: errors.New("orders unavailable")}
		svc := NewMemberService(repo, orders, sequentialIDs("m"), fixedNow, nil)

		if _, err := svc.SyncPurchaseStatus(context.Background(), "member-1"); err == nil {
			t.Fatalf("expected error")
		}
		if len(repo.flagged) != 0 {
			t.Errorf("flag must not change on failure")
		}
	})
}

func TestMemberService_ListMembers(t *testing.T) {
	t.Parallel()

	repo := newMemberRepoStub()
	repo.members["m1"] = Member{ID: "m1", DisplayName: "Zoe", Role: RoleMember}
	repo.members["m2"] = Member{ID: "m2", DisplayName: "adam", Role: RoleMember}
	repo.members["m3"] = Member{ID: "m3", DisplayName: "Mia", Role: RoleMember}
	svc := NewMemberService(repo, nil, sequentialIDs("m"), fixedNow, nil)

	t.Run("requires administrator privileges", func(t *testing.T) {
		t.Parallel()

		if _, err := svc.ListMembers(context.Background(), memberPrincipal); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("returns members in deterministic order", func(t *testing.T) {
		t.Parallel()

		members, err := svc.ListMembers(context.Background(), adminPrincipal)
		if err != nil {
			t.Fatalf("ListMembers returned error: %v", err)
		}
		got := make([]string, len(members))
		for i, member := range members {
			got[i] = member.DisplayName
		}
		want := []string{"adam", "Mia", "Zoe"}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("order = %v, want %v", got, want)
			}
		}
	})
}
