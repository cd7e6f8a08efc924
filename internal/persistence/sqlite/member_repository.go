package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/example/studio-scheduler/internal/persistence"
)

// MemberRepository implements persistence.MemberRepository using SQLite.
type MemberRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewMemberRepository creates a new SQLite member repository.
func NewMemberRepository(pool *ConnectionPool) *MemberRepository {
	return &MemberRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const memberColumns = `id, email, display_name, phone, role, password_hash, disabled, has_purchased_package, created_at, updated_at`

// CreateMember inserts a new member into the database.
func (r *MemberRepository) CreateMember(ctx context.Context, member persistence.Member) error {
	if member.ID == "" || member.PasswordHash == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO members (` + memberColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.helper.Exec(ctx, query,
		member.ID,
		normalizeEmail(member.Email),
		member.DisplayName,
		member.Phone,
		member.Role,
		member.PasswordHash,
		member.Disabled,
		nullableBool(member.HasPurchasedPackage),
		formatTime(member.CreatedAt),
		formatTime(member.UpdatedAt),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}

	return nil
}

// UpdateMember updates an existing member. The password hash and purchase
// flag are left untouched; they have dedicated update paths.
func (r *MemberRepository) UpdateMember(ctx context.Context, member persistence.Member) error {
	if member.ID == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		UPDATE members
		SET email = ?, display_name = ?, phone = ?, role = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.helper.Exec(ctx, query,
		normalizeEmail(member.Email),
		member.DisplayName,
		member.Phone,
		member.Role,
		formatTime(member.UpdatedAt),
		member.ID,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}

	return requireRowsAffected(result)
}

// GetMember retrieves a member by ID.
func (r *MemberRepository) GetMember(ctx context.Context, id string) (persistence.Member, error) {
	if id == "" {
		return persistence.Member{}, persistence.ErrNotFound
	}

	row := r.helper.QueryRow(ctx, `SELECT `+memberColumns+` FROM members WHERE id = ?`, id)
	return r.scanMember(row)
}

// GetMemberByEmail retrieves a member by normalized email address.
func (r *MemberRepository) GetMemberByEmail(ctx context.Context, email string) (persistence.Member, error) {
	if email == "" {
		return persistence.Member{}, persistence.ErrNotFound
	}

	row := r.helper.QueryRow(ctx, `SELECT `+memberColumns+` FROM members WHERE email = ?`, normalizeEmail(email))
	return r.scanMember(row)
}

// ListMembers returns all members ordered by creation timestamp then ID.
func (r *MemberRepository) ListMembers(ctx context.Context) ([]persistence.Member, error) {
	rows, err := r.helper.Query(ctx, `SELECT `+memberColumns+` FROM members ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var members []persistence.Member
	for rows.Next() {
		member, err := r.scanMemberRow(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return members, nil
}

// DeleteMember removes a member along with their sessions and cancellable
// bookings. Members holding orders cannot be deleted.
func (r *MemberRepository) DeleteMember(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		var orderCount int
		err := r.helper.QueryRowTx(tx, "SELECT COUNT(*) FROM orders WHERE member_id = ?", id).Scan(&orderCount)
		if err != nil {
			return r.mapper.MapError(err)
		}
		if orderCount > 0 {
			return persistence.ErrForeignKeyViolation
		}

		if _, err := r.helper.ExecTx(tx, "DELETE FROM sessions WHERE member_id = ?", id); err != nil {
			return r.mapper.MapError(err)
		}
		if _, err := r.helper.ExecTx(tx, "DELETE FROM bookings WHERE member_id = ?", id); err != nil {
			return r.mapper.MapError(err)
		}

		result, err := r.helper.ExecTx(tx, "DELETE FROM members WHERE id = ?", id)
		if err != nil {
			return r.mapper.MapError(err)
		}
		return requireRowsAffected(result)
	})
}

// SetPurchaseFlag records whether the member holds at least one paid order.
func (r *MemberRepository) SetPurchaseFlag(ctx context.Context, id string, purchased bool) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx,
		"UPDATE members SET has_purchased_package = ? WHERE id = ?",
		purchased, id,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}

	return requireRowsAffected(result)
}

func (r *MemberRepository) scanMember(row *sql.Row) (persistence.Member, error) {
	var member persistence.Member
	var purchased sql.NullInt64
	var createdAt, updatedAt string

	err := row.Scan(
		&member.ID,
		&member.Email,
		&member.DisplayName,
		&member.Phone,
		&member.Role,
		&member.PasswordHash,
		&member.Disabled,
		&purchased,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Member{}, persistence.ErrNotFound
		}
		return persistence.Member{}, r.mapper.MapError(err)
	}

	return r.finishMember(member, purchased, createdAt, updatedAt)
}

func (r *MemberRepository) scanMemberRow(rows *sql.Rows) (persistence.Member, error) {
	var member persistence.Member
	var purchased sql.NullInt64
	var createdAt, updatedAt string

	err := rows.Scan(
		&member.ID,
		&member.Email,
		&member.DisplayName,
		&member.Phone,
		&member.Role,
		&member.PasswordHash,
		&member.Disabled,
		&purchased,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Member{}, r.mapper.MapError(err)
	}

	return r.finishMember(member, purchased, createdAt, updatedAt)
}

func (r *MemberRepository) finishMember(member persistence.Member, purchased sql.NullInt64, createdAt, updatedAt string) (persistence.Member, error) {
	member.HasPurchasedPackage = parseNullableBool(purchased)

	var err error
	if member.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return persistence.Member{}, err
	}
	if member.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return persistence.Member{}, err
	}

	return member, nil
}

// requireRowsAffected converts a zero-row update or delete into ErrNotFound.
func requireRowsAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// normalizeEmail normalizes email addresses for consistent storage and lookup.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
