package application

import (
	"context"
	"errors"
	"testing"
	"time"
)

type credentialStoreStub struct {
	byEmail map[string]MemberCredentials
	byID    map[string]Member
}

func (s *credentialStoreStub) GetMemberCredentialsByEmail(_ context.Context, email string) (MemberCredentials, error) {
	creds, ok := s.byEmail[email]
	if !ok {
		return MemberCredentials{}, ErrNotFound
	}
	return creds, nil
}

func (s *credentialStoreStub) GetMember(_ context.Context, id string) (Member, error) {
	member, ok := s.byID[id]
	if !ok {
		return Member{}, ErrNotFound
	}
	return member, nil
}

type sessionRepoStub struct {
	byToken map[string]Session
}

func newSessionRepoStub() *sessionRepoStub {
	return &sessionRepoStub{byToken: make(map[string]Session)}
}

func (s *sessionRepoStub) CreateSession(_ context.Context, session Session) (Session, error) {
	s.byToken[session.Token] = session
	return session, nil
}

func (s *sessionRepoStub) GetSession(_ context.Context, token string) (Session, error) {
	session, ok := s.byToken[token]
	if !ok {
		return Session{}, ErrNotFound
	}
	return session, nil
}

func (s *sessionRepoStub) UpdateSession(_ context.Context, session Session) (Session, error) {
	for token, existing := range s.byToken {
		if existing.ID == session.ID {
			delete(s.byToken, token)
			s.byToken[session.Token] = session
			return session, nil
		}
	}
	return Session{}, ErrNotFound
}

func (s *sessionRepoStub) RevokeSession(_ context.Context, token string, revokedAt time.Time) (Session, error) {
	session, ok := s.byToken[token]
	if !ok {
		return Session{}, ErrNotFound
	}
	session.RevokedAt = &revokedAt
	s.byToken[token] = session
	return session, nil
}

func (s *sessionRepoStub) DeleteExpiredSessions(_ context.Context, reference time.Time) error {
	for token, session := range s.byToken {
		if !session.ExpiresAt.IsZero() && !session.ExpiresAt.After(reference) {
			delete(s.byToken, token)
		}
	}
	return nil
}

func allowPassword(_, _ string) error { return nil }

func newAuthFixture() (*AuthService, *sessionRepoStub) {
	creds := &credentialStoreStub{
		byEmail: map[string]MemberCredentials{
			"jane@example.com": {
				Member:       Member{ID: "member-1", Email: "jane@example.com", Role: RoleMember},
				PasswordHash: "hash",
			},
			"locked@example.com": {
				Member:       Member{ID: "member-2", Email: "locked@example.com", Role: RoleMember},
				PasswordHash: "hash",
				Disabled:     true,
			},
		},
		byID: map[string]Member{
			"member-1": {ID: "member-1", Email: "jane@example.com", Role: RoleMember},
		},
	}
	sessions := newSessionRepoStub()
	svc := NewAuthService(creds, sessions, allowPassword, sequentialIDs("tok"), fixedNow, time.Hour)
	return svc, sessions
}

func TestAuthService_Authenticate(t *testing.T) {
	t.Parallel()

	t.Run("issues a session for valid credentials", func(t *testing.T) {
		t.Parallel()

		svc, sessions := newAuthFixture()
		result, err := svc.Authenticate(context.Background(), AuthenticateParams{Email: " Jane@Example.com ", Password: "pw"})
		if err != nil {
			t.Fatalf("Authenticate returned error: %v", err)
		}
		if result.Member.ID != "member-1" {
			t.Errorf("member = %q", result.Member.ID)
		}
		if result.Session.Token == "" {
			t.Errorf("session token is empty")
		}
		if !result.Session.ExpiresAt.Equal(fixedNow().Add(time.Hour)) {
			t.Errorf("expiry = %v", result.Session.ExpiresAt)
		}
		if _, ok := sessions.byToken[result.Session.Token]; !ok {
			t.Errorf("session not persisted")
		}
	})

	t.Run("rejects unknown emails with ErrInvalidCredentials", func(t *testing.T) {
		t.Parallel()

		svc, _ := newAuthFixture()
		_, err := svc.Authenticate(context.Background(), AuthenticateParams{Email: "nobody@example.com", Password: "pw"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("rejects wrong passwords with ErrInvalidCredentials", func(t *testing.T) {
		t.Parallel()

		creds := &credentialStoreStub{byEmail: map[string]MemberCredentials{
			"jane@example.com": {Member: Member{ID: "member-1"}, PasswordHash: "hash"},
		}}
		deny := func(_, _ string) error { return ErrInvalidCredentials }
		svc := NewAuthService(creds, newSessionRepoStub(), deny, sequentialIDs("tok"), fixedNow, time.Hour)

		_, err := svc.Authenticate(context.Background(), AuthenticateParams{Email: "jane@example.com", Password: "wrong"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("rejects disabled accounts", func(t *testing.T) {
		t.Parallel()

		svc, _ := newAuthFixture()
		_, err := svc.Authenticate(context.Background(), AuthenticateParams{Email: "locked@example.com", Password: "pw"})
		if !errors.Is(err, ErrAccountDisabled) {
			t.Fatalf("expected ErrAccountDisabled, got %v", err)
		}
	})
}

func TestAuthService_ValidateSession(t *testing.T) {
	t.Parallel()

	t.Run("returns the principal for an active session", func(t *testing.T) {
		t.Parallel()

		svc, _ := newAuthFixture()
		result, err := svc.Authenticate(context.Background(), AuthenticateParams{Email: "jane@example.com", Password: "pw"})
		if err != nil {
			t.Fatalf("Authenticate returned error: %v", err)
		}

		principal, err := svc.ValidateSession(context.Background(), result.Session.Token)
		if err != nil {
			t.Fatalf("ValidateSession returned error: %v", err)
		}
		if principal.MemberID != "member-1" || principal.Role != RoleMember {
			t.Errorf("principal = %+v", principal)
		}
	})

	t.Run("rejects expired sessions", func(t *testing.T) {
		t.Parallel()

		svc, sessions := newAuthFixture()
		sessions.byToken["stale"] = Session{
			ID: "s1", MemberID: "member-1", Token: "stale",
			ExpiresAt: fixedNow().Add(-time.Minute),
		}

		if _, err := svc.ValidateSession(context.Background(), "stale"); !errors.Is(err, ErrSessionExpired) {
			t.Fatalf("expected ErrSessionExpired, got %v", err)
		}
	})

	t.Run("rejects revoked sessions", func(t *testing.T) {
		t.Parallel()

		svc, sessions := newAuthFixture()
		revoked := fixedNow().Add(-time.Minute)
		sessions.byToken["revoked"] = Session{
			ID: "s1", MemberID: "member-1", Token: "revoked",
			ExpiresAt: fixedNow().Add(time.Hour),
			RevokedAt: &revoked,
		}

		if _, err := svc.ValidateSession(context.Background(), "revoked"); !errors.Is(err, ErrSessionRevoked) {
			t.Fatalf("expected ErrSessionRevoked, got %v", err)
		}
	})

	t.Run("rejects unknown tokens with ErrUnauthorized", func(t *testing.T) {
		t.Parallel()

		svc, _ := newAuthFixture()
		if _, err := svc.ValidateSession(context.Background(), "missing"); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestAuthService_RevokeSession(t *testing.T) {
	t.Parallel()

	t.Run("revoked sessions stop validating", func(t *testing.T) {
		t.Parallel()

		svc, _ := newAuthFixture()
		result, err := svc.Authenticate(context.Background(), AuthenticateParams{Email: "jane@example.com", Password: "pw"})
		if err != nil {
			t.Fatalf("Authenticate returned error: %v", err)
		}

		if err := svc.RevokeSession(context.Background(), result.Session.Token); err != nil {
			t.Fatalf("RevokeSession returned error: %v", err)
		}
		if _, err := svc.ValidateSession(context.Background(), result.Session.Token); !errors.Is(err, ErrSessionRevoked) {
			t.Fatalf("expected ErrSessionRevoked, got %v", err)
		}
	})

	t.Run("maps unknown tokens to ErrInvalidCredentials", func(t *testing.T) {
		t.Parallel()

		svc, _ := newAuthFixture()
		if err := svc.RevokeSession(context.Background(), "missing"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestAuthService_RefreshSession(t *testing.T) {
	t.Parallel()

	t.Run("rotates the token and extends expiry", func(t *testing.T) {
		t.Parallel()

		svc, sessions := newAuthFixture()
		result, err := svc.Authenticate(context.Background(), AuthenticateParams{Email: "jane@example.com", Password: "pw"})
		if err != nil {
			t.Fatalf("Authenticate returned error: %v", err)
		}

		refreshed, err := svc.RefreshSession(context.Background(), RefreshSessionParams{Token: result.Session.Token})
		if err != nil {
			t.Fatalf("RefreshSession returned error: %v", err)
		}
		if refreshed.Session.Token == result.Session.Token {
			t.Errorf("token was not rotated")
		}
		if _, ok := sessions.byToken[result.Session.Token]; ok {
			t.Errorf("old token still resolves")
		}
		if !refreshed.Session.ExpiresAt.Equal(fixedNow().Add(time.Hour)) {
			t.Errorf("expiry = %v", refreshed.Session.ExpiresAt)
		}
	})

	t.Run("rotation never extends past the session lifetime cap", func(t *testing.T) {
		t.Parallel()

		svc, sessions := newAuthFixture()
		createdAt := fixedNow().Add(-maxSessionLifetime + 30*time.Minute)
		sessions.byToken["old-token"] = Session{
			ID: "s1", MemberID: "member-1", Token: "old-token",
			CreatedAt: createdAt,
			ExpiresAt: fixedNow().Add(30 * time.Minute),
		}

		refreshed, err := svc.RefreshSession(context.Background(), RefreshSessionParams{Token: "old-token"})
		if err != nil {
			t.Fatalf("RefreshSession returned error: %v", err)
		}
		if want := createdAt.Add(maxSessionLifetime); !refreshed.Session.ExpiresAt.Equal(want) {
			t.Errorf("expiry = %v, want capped at %v", refreshed.Session.ExpiresAt, want)
		}
	})

	t.Run("rotation fails once the session chain exhausts its lifetime", func(t *testing.T) {
		t.Parallel()

		svc, sessions := newAuthFixture()
		sessions.byToken["old-token"] = Session{
			ID: "s1", MemberID: "member-1", Token: "old-token",
			CreatedAt: fixedNow().Add(-maxSessionLifetime),
			ExpiresAt: fixedNow().Add(10 * time.Minute),
		}

		_, err := svc.RefreshSession(context.Background(), RefreshSessionParams{Token: "old-token"})
		if !errors.Is(err, ErrSessionExpired) {
			t.Fatalf("expected ErrSessionExpired, got %v", err)
		}
		if sessions.byToken["old-token"].Token != "old-token" {
			t.Errorf("exhausted session must not rotate")
		}
	})

	t.Run("an empty token draw aborts the login", func(t *testing.T) {
		t.Parallel()

		creds := &credentialStoreStub{byEmail: map[string]MemberCredentials{
			"jane@example.com": {
				Member:       Member{ID: "member-1", Email: "jane@example.com", Role: RoleMember},
				PasswordHash: "hash",
			},
		}}
		sessions := newSessionRepoStub()
		svc := NewAuthService(creds, sessions, allowPassword, func() string { return "" }, fixedNow, time.Hour)

		_, err := svc.Authenticate(context.Background(), AuthenticateParams{Email: "jane@example.com", Password: "pw"})
		if err == nil {
			t.Fatalf("expected error")
		}
		if len(sessions.byToken) != 0 {
			t.Errorf("session persisted despite empty token draw")
		}
	})
}
