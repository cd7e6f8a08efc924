package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/example/studio-scheduler/internal/persistence"
)

// PackageRepository implements persistence.PackageRepository using SQLite.
type PackageRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewPackageRepository creates a new SQLite package repository.
func NewPackageRepository(pool *ConnectionPool) *PackageRepository {
	return &PackageRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const packageColumns = `id, name, category, description, price_idr, credits, duration_days,
	discount_percent, valid_from, valid_until, base_package_id, bonus_credits,
	created_at, updated_at`

// CreatePackage inserts a new package into the database.
func (r *PackageRepository) CreatePackage(ctx context.Context, pkg persistence.Package) error {
	if pkg.ID == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := r.helper.Exec(ctx, `
		INSERT INTO packages (`+packageColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		pkg.ID,
		pkg.Name,
		pkg.Category,
		pkg.Description,
		pkg.PriceIDR,
		pkg.Credits,
		pkg.DurationDays,
		pkg.DiscountPercent,
		nullableTime(pkg.ValidFrom),
		nullableTime(pkg.ValidUntil),
		nullableString(pkg.BasePackageID),
		pkg.BonusCredits,
		formatTime(pkg.CreatedAt),
		formatTime(pkg.UpdatedAt),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}

	return nil
}

// UpdatePackage updates an existing package.
func (r *PackageRepository) UpdatePackage(ctx context.Context, pkg persistence.Package) error {
	if pkg.ID == "" {
		return persistence.ErrConstraintViolation
	}

	result, err := r.helper.Exec(ctx, `
		UPDATE packages
		SET name = ?, category = ?, description = ?, price_idr = ?, credits = ?,
			duration_days = ?, discount_percent = ?, valid_from = ?, valid_until = ?,
			base_package_id = ?, bonus_credits = ?, updated_at = ?
		WHERE id = ?
	`,
		pkg.Name,
		pkg.Category,
		pkg.Description,
		pkg.PriceIDR,
		pkg.Credits,
		pkg.DurationDays,
		pkg.DiscountPercent,
		nullableTime(pkg.ValidFrom),
		nullableTime(pkg.ValidUntil),
		nullableString(pkg.BasePackageID),
		pkg.BonusCredits,
		formatTime(pkg.UpdatedAt),
		pkg.ID,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}

	return requireRowsAffected(result)
}

// GetPackage retrieves a package by ID.
func (r *PackageRepository) GetPackage(ctx context.Context, id string) (persistence.Package, error) {
	if id == "" {
		return persistence.Package{}, persistence.ErrNotFound
	}

	row := r.helper.QueryRow(ctx, `SELECT `+packageColumns+` FROM packages WHERE id = ?`, id)

	pkg, err := scanPackage(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Package{}, persistence.ErrNotFound
		}
		return persistence.Package{}, r.mapper.MapError(err)
	}

	return pkg, nil
}

// ListPackages returns all packages ordered by category then name then ID.
func (r *PackageRepository) ListPackages(ctx context.Context) ([]persistence.Package, error) {
	rows, err := r.helper.Query(ctx, `
		SELECT `+packageColumns+` FROM packages ORDER BY category ASC, name ASC, id ASC
	`)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var packages []persistence.Package
	for rows.Next() {
		pkg, err := scanPackage(rows.Scan)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		packages = append(packages, pkg)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return packages, nil
}

// DeletePackage removes a package. Packages referenced by orders or by bonus
// packages cannot be deleted.
func (r *PackageRepository) DeletePackage(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		var referenceCount int
		err := r.helper.QueryRowTx(tx, `
			SELECT (SELECT COUNT(*) FROM orders WHERE package_id = ?)
			     + (SELECT COUNT(*) FROM packages WHERE base_package_id = ?)
		`, id, id).Scan(&referenceCount)
		if err != nil {
			return r.mapper.MapError(err)
		}
		if referenceCount > 0 {
			return persistence.ErrForeignKeyViolation
		}

		result, err := r.helper.ExecTx(tx, "DELETE FROM packages WHERE id = ?", id)
		if err != nil {
			return r.mapper.MapError(err)
		}
		return requireRowsAffected(result)
	})
}

func scanPackage(scan func(dest ...any) error) (persistence.Package, error) {
	var pkg persistence.Package
	var validFrom, validUntil, basePackageID sql.NullString
	var createdAt, updatedAt string

	err := scan(
		&pkg.ID,
		&pkg.Name,
		&pkg.Category,
		&pkg.Description,
		&pkg.PriceIDR,
		&pkg.Credits,
		&pkg.DurationDays,
		&pkg.DiscountPercent,
		&validFrom,
		&validUntil,
		&basePackageID,
		&pkg.BonusCredits,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Package{}, err
	}

	if pkg.ValidFrom, err = parseNullableTime("valid_from", validFrom); err != nil {
		return persistence.Package{}, err
	}
	if pkg.ValidUntil, err = parseNullableTime("valid_until", validUntil); err != nil {
		return persistence.Package{}, err
	}
	pkg.BasePackageID = parseNullableString(basePackageID)

	if pkg.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return persistence.Package{}, err
	}
	if pkg.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return persistence.Package{}, err
	}

	return pkg, nil
}
