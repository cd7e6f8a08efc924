package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/studio-scheduler/internal/application"
)

type memberService interface {
	CreateMember(ctx context.Context, params application.CreateMemberParams) (application.Member, error)
	UpdateMember(ctx context.Context, params application.UpdateMemberParams) (application.Member, error)
	DeleteMember(ctx context.Context, principal application.Principal, memberID string) error
	GetMember(ctx context.Context, principal application.Principal, memberID string) (application.Member, error)
	GetProfile(ctx context.Context, principal application.Principal) (application.Member, error)
	ListMembers(ctx context.Context, principal application.Principal) ([]application.Member, error)
	SyncPurchaseStatus(ctx context.Context, memberID string) (bool, error)
}

type MemberHandler struct {
	service   memberService
	responder responder
	logger    *slog.Logger
}

func NewMemberHandler(service memberService, logger *slog.Logger) *MemberHandler {
	base := defaultLogger(logger)
	return &MemberHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *MemberHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "MemberHandler", operation, attrs...)
}

func (h *MemberHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.MemberID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode member request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if fields := validateRequest(req); fields != nil {
		h.responder.writeJSON(r.Context(), w, http.StatusUnprocessableEntity, errorResponse{
			Message: "the submitted input is invalid",
			Errors:  fields,
		})
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.MemberID)

	member, err := h.service.CreateMember(r.Context(), application.CreateMemberParams{
		Principal: principal,
		Input:     req.toInput(),
		Password:  req.Password,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "member creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("member_id", member.ID).InfoContext(r.Context(), "member created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, memberResponse{Member: toMemberDTO(member)})
}

func (h *MemberHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	memberID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(memberID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "principal_id", principal.MemberID, "member_id", memberID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode member update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "principal_id", principal.MemberID, "member_id", memberID)

	member, err := h.service.UpdateMember(r.Context(), application.UpdateMemberParams{
		Principal: principal,
		MemberID:  memberID,
		Input:     req.toInput(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "member update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "member updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, memberResponse{Member: toMemberDTO(member)})
}

func (h *MemberHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	memberID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(memberID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.MemberID, "member_id", memberID)

	if err := h.service.DeleteMember(r.Context(), principal, memberID); err != nil {
		logger.ErrorContext(r.Context(), "member delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "member deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *MemberHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	memberID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(memberID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	member, err := h.service.GetMember(r.Context(), principal, memberID)
	if err != nil {
		h.log(r.Context(), "Get", "member_id", memberID).ErrorContext(r.Context(), "member fetch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, memberResponse{Member: toMemberDTO(member)})
}

func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "List", "principal_id", principal.MemberID)

	members, err := h.service.ListMembers(r.Context(), principal)
	if err != nil {
		logger.ErrorContext(r.Context(), "member list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(members)).InfoContext(r.Context(), "members listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listMembersResponse{Members: toMemberDTOs(members)})
}

// Profile serves the caller's own record including the tri-state purchase flag.
func (h *MemberHandler) Profile(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	member, err := h.service.GetProfile(r.Context(), principal)
	if err != nil {
		h.log(r.Context(), "Profile", "principal_id", principal.MemberID).ErrorContext(r.Context(), "profile fetch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, memberResponse{Member: toMemberDTO(member)})
}

// SyncPurchaseStatus recomputes the caller's purchase flag from their orders.
func (h *MemberHandler) SyncPurchaseStatus(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "SyncPurchaseStatus", "principal_id", principal.MemberID)

	purchased, err := h.service.SyncPurchaseStatus(r.Context(), principal.MemberID)
	if err != nil {
		logger.ErrorContext(r.Context(), "purchase status sync failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("has_purchased_package", purchased).InfoContext(r.Context(), "purchase status synced")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, syncPurchaseResponse{HasPurchasedPackage: purchased})
}

type memberRequest struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"display_name" validate:"required"`
	Phone       string `json:"phone"`
	Role        string `json:"role" validate:"omitempty,oneof=admin member"`
	Password    string `json:"password" validate:"omitempty,min=8"`
}

func (r memberRequest) toInput() application.MemberInput {
	role := application.Role(strings.TrimSpace(r.Role))
	if role == "" {
		role = application.RoleMember
	}
	return application.MemberInput{
		Email:       strings.TrimSpace(r.Email),
		DisplayName: strings.TrimSpace(r.DisplayName),
		Phone:       strings.TrimSpace(r.Phone),
		Role:        role,
	}
}

type memberResponse struct {
	Member memberDTO `json:"member"`
}

type listMembersResponse struct {
	Members []memberDTO `json:"members"`
}

type syncPurchaseResponse struct {
	HasPurchasedPackage bool `json:"has_purchased_package"`
}

type memberDTO struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Phone       string `json:"phone,omitempty"`
	Role        string `json:"role"`
	// HasPurchasedPackage is tri-state: null means the flag has never been
	// synced against the order records.
	HasPurchasedPackage *bool  `json:"has_purchased_package"`
	CreatedAt           string `json:"created_at"`
	UpdatedAt           string `json:"updated_at"`
}

func toMemberDTO(member application.Member) memberDTO {
	return memberDTO{
		ID:                  member.ID,
		Email:               member.Email,
		DisplayName:         member.DisplayName,
		Phone:               member.Phone,
		Role:                string(member.Role),
		HasPurchasedPackage: member.HasPurchasedPackage,
		CreatedAt:           member.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:           member.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toMemberDTOs(members []application.Member) []memberDTO {
	if len(members) == 0 {
		return nil
	}
	out := make([]memberDTO, 0, len(members))
	for _, member := range members {
		out = append(out, toMemberDTO(member))
	}
	return out
}
