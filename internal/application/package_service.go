package application

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

// PackageRepository captures the persistence operations needed by the package service.
type PackageRepository interface {
	CreatePackage(ctx context.Context, pkg Package) (Package, error)
	GetPackage(ctx context.Context, id string) (Package, error)
	UpdatePackage(ctx context.Context, pkg Package) (Package, error)
	DeletePackage(ctx context.Context, id string) error
	ListPackages(ctx context.Context) ([]Package, error)
}

// PackageService orchestrates validation, authorization, and persistence for packages.
type PackageService struct {
	packages    PackageRepository
	idGenerator func() string
	now         func() time.Time
}

// NewPackageService wires dependencies for the package service.
func NewPackageService(packages PackageRepository, idGenerator func() string, now func() time.Time) *PackageService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &PackageService{packages: packages, idGenerator: idGenerator, now: now}
}

// CreatePackage validates input and persists a new package for administrators.
func (s *PackageService) CreatePackage(ctx context.Context, params CreatePackageParams) (Package, error) {
	if s == nil {
		return Package{}, fmt.Errorf("PackageService is nil")
	}
	if !params.Principal.IsAdmin() {
		return Package{}, ErrUnauthorized
	}
	if s.packages == nil {
		return Package{}, fmt.Errorf("package repository not configured")
	}

	normalized := normalizePackageInput(params.Input)
	vErr := validatePackageInput(normalized)
	if vErr.HasErrors() {
		return Package{}, vErr
	}

	if err := s.ensureBasePackageExists(ctx, normalized); err != nil {
		return Package{}, err
	}

	now := s.now()
	pkg := Package{
		ID:              s.idGenerator(),
		Name:            normalized.Name,
		Category:        normalized.Category,
		Description:     normalized.Description,
		PriceIDR:        normalized.PriceIDR,
		Credits:         normalized.Credits,
		DurationDays:    normalized.DurationDays,
		DiscountPercent: normalized.DiscountPercent,
		ValidFrom:       normalized.ValidFrom,
		ValidUntil:      normalized.ValidUntil,
		BasePackageID:   normalized.BasePackageID,
		BonusCredits:    normalized.BonusCredits,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	persisted, err := s.packages.CreatePackage(ctx, pkg)
	if err != nil {
		return Package{}, mapScheduleRepoError(err)
	}

	return persisted, nil
}

// UpdatePackage validates input and updates an existing package for administrators.
func (s *PackageService) UpdatePackage(ctx context.Context, params UpdatePackageParams) (Package, error) {
	if s == nil {
		return Package{}, fmt.Errorf("PackageService is nil")
	}
	if !params.Principal.IsAdmin() {
		return Package{}, ErrUnauthorized
	}
	if s.packages == nil {
		return Package{}, fmt.Errorf("package repository not configured")
	}

	existing, err := s.packages.GetPackage(ctx, params.PackageID)
	if err != nil {
		return Package{}, mapScheduleRepoError(err)
	}

	normalized := normalizePackageInput(params.Input)
	vErr := validatePackageInput(normalized)
	if vErr.HasErrors() {
		return Package{}, vErr
	}

	if err := s.ensureBasePackageExists(ctx, normalized); err != nil {
		return Package{}, err
	}

	updated := existing
	updated.Name = normalized.Name
	updated.Category = normalized.Category
	updated.Description = normalized.Description
	updated.PriceIDR = normalized.PriceIDR
	updated.Credits = normalized.Credits
	updated.DurationDays = normalized.DurationDays
	updated.DiscountPercent = normalized.DiscountPercent
	updated.ValidFrom = normalized.ValidFrom
	updated.ValidUntil = normalized.ValidUntil
	updated.BasePackageID = normalized.BasePackageID
	updated.BonusCredits = normalized.BonusCredits
	updated.UpdatedAt = s.now()

	persisted, err := s.packages.UpdatePackage(ctx, updated)
	if err != nil {
		return Package{}, mapScheduleRepoError(err)
	}

	return persisted, nil
}

// DeletePackage removes a package when requested by an administrator.
func (s *PackageService) DeletePackage(ctx context.Context, principal Principal, packageID string) error {
	if s == nil {
		return fmt.Errorf("PackageService is nil")
	}
	if !principal.IsAdmin() {
		return ErrUnauthorized
	}
	if s.packages == nil {
		return fmt.Errorf("package repository not configured")
	}

	if err := s.packages.DeletePackage(ctx, packageID); err != nil {
		return mapScheduleRepoError(err)
	}

	return nil
}

// GetPackage returns one package for any authenticated principal.
func (s *PackageService) GetPackage(ctx context.Context, principal Principal, packageID string) (Package, error) {
	if s == nil {
		return Package{}, fmt.Errorf("PackageService is nil")
	}
	if principal.MemberID == "" {
		return Package{}, ErrUnauthorized
	}
	if s.packages == nil {
		return Package{}, fmt.Errorf("package repository not configured")
	}

	pkg, err := s.packages.GetPackage(ctx, packageID)
	if err != nil {
		return Package{}, mapScheduleRepoError(err)
	}

	return pkg, nil
}

// ListPackages returns all packages for any authenticated principal, grouped by
// category then name.
func (s *PackageService) ListPackages(ctx context.Context, principal Principal) ([]Package, error) {
	if s == nil {
		return nil, fmt.Errorf("PackageService is nil")
	}
	if principal.MemberID == "" {
		return nil, ErrUnauthorized
	}
	if s.packages == nil {
		return nil, nil
	}

	packages, err := s.packages.ListPackages(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Package, len(packages))
	copy(out, packages)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		if !strings.EqualFold(out[i].Name, out[j].Name) {
			return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}

func (s *PackageService) ensureBasePackageExists(ctx context.Context, input PackageInput) error {
	if input.Category != PackageBonus || input.BasePackageID == nil {
		return nil
	}
	if _, err := s.packages.GetPackage(ctx, *input.BasePackageID); err != nil {
		if isNotFoundError(err) {
			vErr := &ValidationError{}
			vErr.add("base_package_id", "base package does not exist")
			return vErr
		}
		return err
	}
	return nil
}

func normalizePackageInput(input PackageInput) PackageInput {
	out := input
	out.Name = strings.TrimSpace(input.Name)
	out.Description = strings.TrimSpace(input.Description)
	if input.BasePackageID != nil {
		trimmed := strings.TrimSpace(*input.BasePackageID)
		if trimmed == "" {
			out.BasePackageID = nil
		} else {
			out.BasePackageID = &trimmed
		}
	}
	return out
}

func validatePackageInput(input PackageInput) *ValidationError {
	vErr := &ValidationError{}

	if input.Name == "" {
		vErr.add("name", "name is required")
	}
	if !ValidPackageCategory(input.Category) {
		vErr.add("category", "category must be membership, trial, promo, or bonus")
	}
	if input.PriceIDR < 0 {
		vErr.add("price_idr", "price cannot be negative")
	}

	switch input.Category {
	case PackageMembership:
		if input.DurationDays < 1 {
			vErr.add("duration_days", "duration is required for membership packages")
		}
		if input.Credits < 1 {
			vErr.add("credits", "credits are required for membership packages")
		}
	case PackageTrial:
		if input.DurationDays < 1 {
			vErr.add("duration_days", "duration is required for trial packages")
		}
	case PackagePromo:
		if input.DiscountPercent < 1 || input.DiscountPercent > 100 {
			vErr.add("discount_percent", "discount must be between 1 and 100")
		}
		if input.ValidFrom == nil || input.ValidUntil == nil {
			vErr.add("validity", "promo packages require a validity window")
		} else if !input.ValidUntil.After(*input.ValidFrom) {
			vErr.add("validity", "validity window must end after it starts")
		}
	case PackageBonus:
		if input.BasePackageID == nil {
			vErr.add("base_package_id", "bonus packages require a base package")
		}
		if input.BonusCredits < 1 {
			vErr.add("bonus_credits", "bonus credits are required for bonus packages")
		}
	}

	return vErr
}
