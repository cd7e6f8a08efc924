package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"sort"
	"strings"
	"time"
)

// MemberRepository captures the persistence operations needed by the member service.
type MemberRepository interface {
	CreateMember(ctx context.Context, member Member, passwordHash string) (Member, error)
	GetMember(ctx context.Context, id string) (Member, error)
	UpdateMember(ctx context.Context, member Member) (Member, error)
	DeleteMember(ctx context.Context, id string) error
	ListMembers(ctx context.Context) ([]Member, error)
	SetPurchaseFlag(ctx context.Context, id string, purchased bool) error
}

// PaidOrderChecker reports whether a member has at least one settled order.
type PaidOrderChecker interface {
	HasPaidOrder(ctx context.Context, memberID string) (bool, error)
}

// MemberService orchestrates validation, authorization, and persistence for members.
type MemberService struct {
	members     MemberRepository
	paidOrders  PaidOrderChecker
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewMemberService wires dependencies for the member service.
func NewMemberService(members MemberRepository, paidOrders PaidOrderChecker, idGenerator func() string, now func() time.Time, logger *slog.Logger) *MemberService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &MemberService{
		members:     members,
		paidOrders:  paidOrders,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// CreateMember validates input and persists a new member for administrators.
func (s *MemberService) CreateMember(ctx context.Context, params CreateMemberParams) (Member, error) {
	if s == nil {
		return Member{}, fmt.Errorf("MemberService is nil")
	}
	if !params.Principal.IsAdmin() {
		return Member{}, ErrUnauthorized
	}
	if s.members == nil {
		return Member{}, fmt.Errorf("member repository not configured")
	}

	normalized := normalizeMemberInput(params.Input)
	vErr := validateMemberInput(normalized)
	if strings.TrimSpace(params.Password) == "" {
		vErr.add("password", "password is required")
	} else if len(params.Password) < 8 {
		vErr.add("password", "password must be at least 8 characters")
	}
	if vErr.HasErrors() {
		return Member{}, vErr
	}

	hash, err := CreatePasswordHash(params.Password, DefaultArgon2idParams)
	if err != nil {
		return Member{}, fmt.Errorf("hash password: %w", err)
	}

	member := Member{
		ID:          s.idGenerator(),
		Email:       normalized.Email,
		DisplayName: normalized.DisplayName,
		Phone:       normalized.Phone,
		Role:        normalized.Role,
		CreatedAt:   s.now(),
	}
	member.UpdatedAt = member.CreatedAt

	persisted, err := s.members.CreateMember(ctx, member, hash)
	if err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return Member{}, ErrAlreadyExists
		}
		return Member{}, err
	}

	return persisted, nil
}

// UpdateMember validates input and updates an existing member for administrators.
func (s *MemberService) UpdateMember(ctx context.Context, params UpdateMemberParams) (Member, error) {
	if s == nil {
		return Member{}, fmt.Errorf("MemberService is nil")
	}
	if !params.Principal.IsAdmin() {
		return Member{}, ErrUnauthorized
	}
	if s.members == nil {
		return Member{}, fmt.Errorf("member repository not configured")
	}

	existing, err := s.members.GetMember(ctx, params.MemberID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Member{}, ErrNotFound
		}
		return Member{}, err
	}

	normalized := normalizeMemberInput(params.Input)
	vErr := validateMemberInput(normalized)
	if vErr.HasErrors() {
		return Member{}, vErr
	}

	updated := existing
	updated.Email = normalized.Email
	updated.DisplayName = normalized.DisplayName
	updated.Phone = normalized.Phone
	updated.Role = normalized.Role
	updated.UpdatedAt = s.now()

	persisted, err := s.members.UpdateMember(ctx, updated)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Member{}, ErrNotFound
		}
		return Member{}, err
	}

	return persisted, nil
}

// DeleteMember removes a member when requested by an administrator.
func (s *MemberService) DeleteMember(ctx context.Context, principal Principal, memberID string) error {
	if s == nil {
		return fmt.Errorf("MemberService is nil")
	}
	if !principal.IsAdmin() {
		return ErrUnauthorized
	}
	if s.members == nil {
		return fmt.Errorf("member repository not configured")
	}

	if err := s.members.DeleteMember(ctx, memberID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	return nil
}

// GetMember returns one member for administrators or the member themselves.
func (s *MemberService) GetMember(ctx context.Context, principal Principal, memberID string) (Member, error) {
	if s == nil {
		return Member{}, fmt.Errorf("MemberService is nil")
	}
	if !principal.IsAdmin() && principal.MemberID != memberID {
		return Member{}, ErrUnauthorized
	}
	if s.members == nil {
		return Member{}, fmt.Errorf("member repository not configured")
	}

	member, err := s.members.GetMember(ctx, memberID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Member{}, ErrNotFound
		}
		return Member{}, err
	}

	return member, nil
}

// GetProfile returns the calling member's own record.
func (s *MemberService) GetProfile(ctx context.Context, principal Principal) (Member, error) {
	if s == nil {
		return Member{}, fmt.Errorf("MemberService is nil")
	}
	return s.GetMember(ctx, principal, principal.MemberID)
}

// ListMembers returns all members for administrators, sorted by display name.
func (s *MemberService) ListMembers(ctx context.Context, principal Principal) ([]Member, error) {
	if s == nil {
		return nil, fmt.Errorf("MemberService is nil")
	}
	if !principal.IsAdmin() {
		return nil, ErrUnauthorized
	}
	if s.members == nil {
		return nil, nil
	}

	members, err := s.members.ListMembers(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Member, len(members))
	copy(out, members)

	sort.Slice(out, func(i, j int) bool {
		if strings.EqualFold(out[i].DisplayName, out[j].DisplayName) {
			return out[i].ID < out[j].ID
		}
		return strings.ToLower(out[i].DisplayName) < strings.ToLower(out[j].DisplayName)
	})

	return out, nil
}

// SyncPurchaseStatus recomputes the member's purchase flag from settled orders
// and persists the result. The returned value is the fresh flag.
func (s *MemberService) SyncPurchaseStatus(ctx context.Context, memberID string) (purchased bool, err error) {
	logger := serviceLogger(ctx, s.logger, "member", "sync_purchase_status", "member_id", memberID)
	defer func() {
		if err != nil {
			logger.Error("purchase status sync failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.Info("purchase status synced", "purchased", purchased)
	}()

	if s == nil {
		return false, fmt.Errorf("MemberService is nil")
	}
	if s.paidOrders == nil {
		return false, fmt.Errorf("paid order checker not configured")
	}
	if s.members == nil {
		return false, fmt.Errorf("member repository not configured")
	}

	purchased, err = s.paidOrders.HasPaidOrder(ctx, memberID)
	if err != nil {
		return false, err
	}

	if err = s.members.SetPurchaseFlag(ctx, memberID, purchased); err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}

	return purchased, nil
}

func normalizeMemberInput(input MemberInput) MemberInput {
	email := strings.TrimSpace(input.Email)
	email = strings.ToLower(email)

	role := input.Role
	if role == "" {
		role = RoleMember
	}

	return MemberInput{
		Email:       email,
		DisplayName: strings.TrimSpace(input.DisplayName),
		Phone:       strings.TrimSpace(input.Phone),
		Role:        role,
	}
}

func validateMemberInput(input MemberInput) *ValidationError {
	vErr := &ValidationError{}

	if input.Email == "" {
		vErr.add("email", "email is required")
	} else if _, err := mail.ParseAddress(input.Email); err != nil {
		vErr.add("email", "email is invalid")
	}

	if input.DisplayName == "" {
		vErr.add("display_name", "display name is required")
	}

	if input.Role != RoleAdmin && input.Role != RoleMember {
		vErr.add("role", "role must be admin or member")
	}

	return vErr
}
