package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/studio-scheduler/internal/application"
	"github.com/example/studio-scheduler/internal/layout"
)

type profileService interface {
	GetProfile(ctx context.Context, principal application.Principal) (application.Member, error)
}

// LayoutHandler serves the per-path layout decision the booking frontend
// applies before rendering: which chrome to use, whether to redirect, and
// the sidebar entries visible to the caller.
type LayoutHandler struct {
	profiles      profileService
	redirectGrace time.Duration
	responder     responder
	logger        *slog.Logger
}

func NewLayoutHandler(profiles profileService, redirectGrace time.Duration, logger *slog.Logger) *LayoutHandler {
	base := defaultLogger(logger)
	return &LayoutHandler{profiles: profiles, redirectGrace: redirectGrace, responder: newResponder(base), logger: base}
}

func (h *LayoutHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.profiles == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	path := strings.TrimSpace(r.URL.Query().Get("path"))
	if path == "" || !strings.HasPrefix(path, "/") {
		h.responder.writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{
			Message: "path query parameter must be an absolute pathname",
		})
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := handlerLogger(r.Context(), h.logger, "LayoutHandler", "Resolve", "principal_id", principal.MemberID, "path", path)

	role := layout.RoleMember
	if principal.IsAdmin() {
		role = layout.RoleAdmin
	}

	status := layout.PurchaseUnknown
	member, err := h.profiles.GetProfile(r.Context(), principal)
	switch {
	case err == nil:
		if member.HasPurchasedPackage != nil {
			if *member.HasPurchasedPackage {
				status = layout.Purchased
			} else {
				status = layout.NotPurchased
			}
		}
	case errors.Is(err, application.ErrNotFound):
		// Session outlived the account. Resolve as an unresolved member so
		// the frontend falls back to the purchase flow.
	default:
		logger.ErrorContext(r.Context(), "profile lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	decision := layout.Resolve(role, status, path)

	resp := layoutResponse{
		Chrome:         string(decision.Chrome),
		RedirectTo:     decision.RedirectTo,
		PurchaseStatus: purchaseStatusLabel(status),
		MemberSidebar:  []layout.Item{},
	}
	if decision.RedirectTo != "" {
		// The frontend gate holds a pending redirect for this long before
		// committing, so a late purchase sync can still cancel it.
		resp.RedirectGraceMS = h.redirectGrace.Milliseconds()
	}
	switch decision.Chrome {
	case layout.ChromeAdmin:
		resp.AdminSections = layout.AdminSidebar(path)
	case layout.ChromeUserWithSidebar:
		resp.MemberSidebar = layout.MemberSidebar(status)
	}

	logger.With("chrome", resp.Chrome, "redirect_to", resp.RedirectTo).InfoContext(r.Context(), "layout resolved")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, resp)
}

func purchaseStatusLabel(status layout.PurchaseStatus) string {
	switch status {
	case layout.Purchased:
		return "purchased"
	case layout.NotPurchased:
		return "not_purchased"
	}
	return "unknown"
}

type layoutResponse struct {
	Chrome          string                `json:"chrome"`
	RedirectTo      string                `json:"redirect_to,omitempty"`
	RedirectGraceMS int64                 `json:"redirect_grace_ms,omitempty"`
	PurchaseStatus  string                `json:"purchase_status"`
	MemberSidebar   []layout.Item         `json:"member_sidebar"`
	AdminSections   []layout.AdminSection `json:"admin_sections,omitempty"`
}
