package application

import (
	"context"
	"errors"
	"testing"
	"time"
)

type packageRepoStub struct {
	packages map[string]Package
}

func newPackageRepoStub() *packageRepoStub {
	return &packageRepoStub{packages: make(map[string]Package)}
}

func (s *packageRepoStub) CreatePackage(_ context.Context, pkg Package) (Package, error) {
	s.packages[pkg.ID] = pkg
	return pkg, nil
}

func (s *packageRepoStub) GetPackage(_ context.Context, id string) (Package, error) {
	pkg, ok := s.packages[id]
	if !ok {
		return Package{}, ErrNotFound
	}
	return pkg, nil
}

func (s *packageRepoStub) UpdatePackage(_ context.Context, pkg Package) (Package, error) {
	if _, ok := s.packages[pkg.ID]; !ok {
		return Package{}, ErrNotFound
	}
	s.packages[pkg.ID] = pkg
	return pkg, nil
}

func (s *packageRepoStub) DeletePackage(_ context.Context, id string) error {
	if _, ok := s.packages[id]; !ok {
		return ErrNotFound
	}
	delete(s.packages, id)
	return nil
}

func (s *packageRepoStub) ListPackages(_ context.Context) ([]Package, error) {
	out := make([]Package, 0, len(s.packages))
	for _, pkg := range s.packages {
		out = append(out, pkg)
	}
	return out, nil
}

func TestPackageService_CreatePackage(t *testing.T) {
	t.Parallel()

	t.Run("requires administrator privileges", func(t *testing.T) {
		t.Parallel()

		svc := NewPackageService(newPackageRepoStub(), sequentialIDs("pkg"), fixedNow)
		_, err := svc.CreatePackage(context.Background(), CreatePackageParams{
			Principal: memberPrincipal,
			Input:     PackageInput{Name: "Starter", Category: PackageMembership},
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("membership packages require duration and credits", func(t *testing.T) {
		t.Parallel()

		svc := NewPackageService(newPackageRepoStub(), sequentialIDs("pkg"), fixedNow)
		_, err := svc.CreatePackage(context.Background(), CreatePackageParams{
			Principal: adminPrincipal,
			Input:     PackageInput{Name: "Monthly", Category: PackageMembership, PriceIDR: 500_000},
		})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		for _, field := range []string{"duration_days", "credits"} {
			if _, ok := vErr.FieldErrors[field]; !ok {
				t.Errorf("expected %q error, got %v", field, vErr.FieldErrors)
			}
		}
	})

	t.Run("promo packages require a discount and validity window", func(t *testing.T) {
		t.Parallel()

		svc := NewPackageService(newPackageRepoStub(), sequentialIDs("pkg"), fixedNow)
		_, err := svc.CreatePackage(context.Background(), CreatePackageParams{
			Principal: adminPrincipal,
			Input:     PackageInput{Name: "Flash Sale", Category: PackagePromo, PriceIDR: 300_000},
		})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		for _, field := range []string{"discount_percent", "validity"} {
			if _, ok := vErr.FieldErrors[field]; !ok {
				t.Errorf("expected %q error, got %v", field, vErr.FieldErrors)
			}
		}
	})

	t.Run("bonus packages must reference an existing base package", func(t *testing.T) {
		t.Parallel()

		repo := newPackageRepoStub()
		svc := NewPackageService(repo, sequentialIDs("pkg"), fixedNow)
		missing := "nope"
		_, err := svc.CreatePackage(context.Background(), CreatePackageParams{
			Principal: adminPrincipal,
			Input: PackageInput{
				Name: "Referral Bonus", Category: PackageBonus,
				BasePackageID: &missing, BonusCredits: 2,
			},
		})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := vErr.FieldErrors["base_package_id"]; !ok {
			t.Errorf("expected base_package_id error, got %v", vErr.FieldErrors)
		}
	})

	t.Run("persists valid packages of each category", func(t *testing.T) {
		t.Parallel()

		repo := newPackageRepoStub()
		svc := NewPackageService(repo, sequentialIDs("pkg"), fixedNow)

		base, err := svc.CreatePackage(context.Background(), CreatePackageParams{
			Principal: adminPrincipal,
			Input: PackageInput{
				Name: "Monthly 8", Category: PackageMembership,
				PriceIDR: 800_000, Credits: 8, DurationDays: 30,
			},
		})
		if err != nil {
			t.Fatalf("membership create returned error: %v", err)
		}

		from := fixedNow()
		until := from.AddDate(0, 1, 0)
		inputs := []PackageInput{
			{Name: "Trial Class", Category: PackageTrial, PriceIDR: 100_000, DurationDays: 7},
			{Name: "Promo", Category: PackagePromo, PriceIDR: 800_000, DiscountPercent: 25, ValidFrom: &from, ValidUntil: &until},
			{Name: "Loyalty Bonus", Category: PackageBonus, BasePackageID: &base.ID, BonusCredits: 2},
		}
		for _, input := range inputs {
			if _, err := svc.CreatePackage(context.Background(), CreatePackageParams{
				Principal: adminPrincipal,
				Input:     input,
			}); err != nil {
				t.Errorf("create %s returned error: %v", input.Category, err)
			}
		}
		if len(repo.packages) != 4 {
			t.Errorf("expected 4 persisted packages, got %d", len(repo.packages))
		}
	})
}

func TestPackageService_ListPackages(t *testing.T) {
	t.Parallel()

	repo := newPackageRepoStub()
	repo.packages["p1"] = Package{ID: "p1", Name: "Zen", Category: PackageTrial}
	repo.packages["p2"] = Package{ID: "p2", Name: "Alpha", Category: PackageMembership}
	repo.packages["p3"] = Package{ID: "p3", Name: "Beta", Category: PackageMembership}
	svc := NewPackageService(repo, sequentialIDs("pkg"), fixedNow)

	t.Run("requires an authenticated principal", func(t *testing.T) {
		t.Parallel()

		if _, err := svc.ListPackages(context.Background(), Principal{}); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("groups by category then name", func(t *testing.T) {
		t.Parallel()

		packages, err := svc.ListPackages(context.Background(), memberPrincipal)
		if err != nil {
			t.Fatalf("ListPackages returned error: %v", err)
		}
		got := make([]string, len(packages))
		for i, pkg := range packages {
			got[i] = pkg.ID
		}
		want := []string{"p2", "p3", "p1"}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("order = %v, want %v", got, want)
			}
		}
	})
}

func TestPackageService_UpdatePackage(t *testing.T) {
	t.Parallel()

	t.Run("propagates ErrNotFound for unknown packages", func(t *testing.T) {
		t.Parallel()

		svc := NewPackageService(newPackageRepoStub(), sequentialIDs("pkg"), fixedNow)
		_, err := svc.UpdatePackage(context.Background(), UpdatePackageParams{
			Principal: adminPrincipal,
			PackageID: "missing",
			Input:     PackageInput{Name: "X", Category: PackageTrial, DurationDays: 7},
		})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("applies changes for administrators", func(t *testing.T) {
		t.Parallel()

		repo := newPackageRepoStub()
		repo.packages["p1"] = Package{
			ID: "p1", Name: "Monthly 8", Category: PackageMembership,
			PriceIDR: 800_000, Credits: 8, DurationDays: 30,
			CreatedAt: fixedNow().Add(-time.Hour),
		}
		svc := NewPackageService(repo, sequentialIDs("pkg"), fixedNow)

		updated, err := svc.UpdatePackage(context.Background(), UpdatePackageParams{
			Principal: adminPrincipal,
			PackageID: "p1",
			Input: PackageInput{
				Name: "Monthly 12", Category: PackageMembership,
				PriceIDR: 1_100_000, Credits: 12, DurationDays: 30,
			},
		})
		if err != nil {
			t.Fatalf("UpdatePackage returned error: %v", err)
		}
		if updated.Name != "Monthly 12" || updated.Credits != 12 {
			t.Errorf("update not applied: %+v", updated)
		}
		if !updated.UpdatedAt.Equal(fixedNow()) {
			t.Errorf("UpdatedAt = %v", updated.UpdatedAt)
		}
	})
}
