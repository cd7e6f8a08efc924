package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/studio-scheduler/internal/application"
	"github.com/example/studio-scheduler/internal/calendar"
)

type packageService interface {
	CreatePackage(ctx context.Context, params application.CreatePackageParams) (application.Package, error)
	UpdatePackage(ctx context.Context, params application.UpdatePackageParams) (application.Package, error)
	DeletePackage(ctx context.Context, principal application.Principal, packageID string) error
	GetPackage(ctx context.Context, principal application.Principal, packageID string) (application.Package, error)
	ListPackages(ctx context.Context, principal application.Principal) ([]application.Package, error)
}

type PackageHandler struct {
	service   packageService
	responder responder
	logger    *slog.Logger
}

func NewPackageHandler(service packageService, logger *slog.Logger) *PackageHandler {
	base := defaultLogger(logger)
	return &PackageHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *PackageHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "PackageHandler", operation, attrs...)
}

func (h *PackageHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req packageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode package request", "error", err)
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

	input, err := req.toInput()
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Create", "principal_id", principal.MemberID, "category", req.Category)

	pkg, err := h.service.CreatePackage(r.Context(), application.CreatePackageParams{
		Principal: principal,
		Input:     input,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "package creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("package_id", pkg.ID).InfoContext(r.Context(), "package created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, packageResponse{Package: toPackageDTO(pkg)})
}

func (h *PackageHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	packageID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(packageID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	var req packageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "package_id", packageID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode package update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, err := req.toInput()
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Update", "principal_id", principal.MemberID, "package_id", packageID)

	pkg, err := h.service.UpdatePackage(r.Context(), application.UpdatePackageParams{
		Principal: principal,
		PackageID: packageID,
		Input:     input,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "package update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "package updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, packageResponse{Package: toPackageDTO(pkg)})
}

func (h *PackageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	packageID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(packageID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.MemberID, "package_id", packageID)

	if err := h.service.DeletePackage(r.Context(), principal, packageID); err != nil {
		logger.ErrorContext(r.Context(), "package delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "package deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *PackageHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	packageID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(packageID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	pkg, err := h.service.GetPackage(r.Context(), principal, packageID)
	if err != nil {
		h.log(r.Context(), "Get", "package_id", packageID).ErrorContext(r.Context(), "package fetch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, packageResponse{Package: toPackageDTO(pkg)})
}

func (h *PackageHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	packages, err := h.service.ListPackages(r.Context(), principal)
	if err != nil {
		h.log(r.Context(), "List").ErrorContext(r.Context(), "package list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listPackagesResponse{Packages: toPackageDTOs(packages)})
}

type packageRequest struct {
	Name            string  `json:"name" validate:"required"`
	Category        string  `json:"category" validate:"required,oneof=membership trial promo bonus"`
	Description     string  `json:"description"`
	PriceIDR        int64   `json:"price_idr" validate:"gte=0"`
	Credits         int     `json:"credits" validate:"gte=0"`
	DurationDays    int     `json:"duration_days" validate:"gte=0"`
	DiscountPercent int     `json:"discount_percent" validate:"gte=0,lte=100"`
	ValidFrom       *string `json:"valid_from"`
	ValidUntil      *string `json:"valid_until"`
	BasePackageID   *string `json:"base_package_id"`
	BonusCredits    int     `json:"bonus_credits" validate:"gte=0"`
}

func (r packageRequest) toInput() (application.PackageInput, error) {
	validFrom, err := optionalDate(r.ValidFrom)
	if err != nil {
		return application.PackageInput{}, err
	}
	validUntil, err := optionalDate(r.ValidUntil)
	if err != nil {
		return application.PackageInput{}, err
	}

	var basePackageID *string
	if r.BasePackageID != nil && strings.TrimSpace(*r.BasePackageID) != "" {
		trimmed := strings.TrimSpace(*r.BasePackageID)
		basePackageID = &trimmed
	}

	return application.PackageInput{
		Name:            strings.TrimSpace(r.Name),
		Category:        application.PackageCategory(r.Category),
		Description:     strings.TrimSpace(r.Description),
		PriceIDR:        r.PriceIDR,
		Credits:         r.Credits,
		DurationDays:    r.DurationDays,
		DiscountPercent: r.DiscountPercent,
		ValidFrom:       validFrom,
		ValidUntil:      validUntil,
		BasePackageID:   basePackageID,
		BonusCredits:    r.BonusCredits,
	}, nil
}

func optionalDate(value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	parsed, err := calendar.ParseDateKey(strings.TrimSpace(*value))
	if err != nil {
		return nil, errInvalidDate
	}
	return &parsed, nil
}

type packageResponse struct {
	Package packageDTO `json:"package"`
}

type listPackagesResponse struct {
	Packages []packageDTO `json:"packages"`
}

type packageDTO struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	Description     string  `json:"description,omitempty"`
	PriceIDR        int64   `json:"price_idr"`
	Credits         int     `json:"credits"`
	DurationDays    int     `json:"duration_days,omitempty"`
	DiscountPercent int     `json:"discount_percent,omitempty"`
	ValidFrom       *string `json:"valid_from,omitempty"`
	ValidUntil      *string `json:"valid_until,omitempty"`
	BasePackageID   *string `json:"base_package_id,omitempty"`
	BonusCredits    int     `json:"bonus_credits,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

func toPackageDTO(pkg application.Package) packageDTO {
	dto := packageDTO{
		ID:              pkg.ID,
		Name:            pkg.Name,
		Category:        string(pkg.Category),
		Description:     pkg.Description,
		PriceIDR:        pkg.PriceIDR,
		Credits:         pkg.Credits,
		DurationDays:    pkg.DurationDays,
		DiscountPercent: pkg.DiscountPercent,
		BasePackageID:   pkg.BasePackageID,
		BonusCredits:    pkg.BonusCredits,
		CreatedAt:       pkg.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:       pkg.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	if pkg.ValidFrom != nil {
		key := calendar.DateKey(*pkg.ValidFrom)
		dto.ValidFrom = &key
	}
	if pkg.ValidUntil != nil {
		key := calendar.DateKey(*pkg.ValidUntil)
		dto.ValidUntil = &key
	}
	return dto
}

func toPackageDTOs(packages []application.Package) []packageDTO {
	out := make([]packageDTO, 0, len(packages))
	for _, pkg := range packages {
		out = append(out, toPackageDTO(pkg))
	}
	return out
}
