package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/example/studio-scheduler/internal/persistence"
)

// OrderRepository implements persistence.OrderRepository using SQLite.
type OrderRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewOrderRepository creates a new SQLite order repository.
func NewOrderRepository(pool *ConnectionPool) *OrderRepository {
	return &OrderRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const orderColumns = `id, member_id, package_id, package_name, amount_idr, status,
	snap_token, snap_redirect_url, paid_at, created_at, updated_at`

// CreateOrder inserts a new order into the database.
func (r *OrderRepository) CreateOrder(ctx context.Context, order persistence.Order) error {
	if order.ID == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := r.helper.Exec(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		order.ID,
		order.MemberID,
		order.PackageID,
		order.PackageName,
		order.AmountIDR,
		order.Status,
		order.SnapToken,
		order.SnapRedirectURL,
		nullableTime(order.PaidAt),
		formatTime(order.CreatedAt),
		formatTime(order.UpdatedAt),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}

	return nil
}

// UpdateOrder updates the payment state of an existing order.
func (r *OrderRepository) UpdateOrder(ctx context.Context, order persistence.Order) error {
	if order.ID == "" {
		return persistence.ErrConstraintViolation
	}

	result, err := r.helper.Exec(ctx, `
		UPDATE orders
		SET status = ?, snap_token = ?, snap_redirect_url = ?, paid_at = ?, updated_at = ?
		WHERE id = ?
	`,
		order.Status,
		order.SnapToken,
		order.SnapRedirectURL,
		nullableTime(order.PaidAt),
		formatTime(order.UpdatedAt),
		order.ID,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}

	return requireRowsAffected(result)
}

// GetOrder retrieves an order by ID.
func (r *OrderRepository) GetOrder(ctx context.Context, id string) (persistence.Order, error) {
	if id == "" {
		return persistence.Order{}, persistence.ErrNotFound
	}

	row := r.helper.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id)

	order, err := scanOrder(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Order{}, persistence.ErrNotFound
		}
		return persistence.Order{}, r.mapper.MapError(err)
	}

	return order, nil
}

// ListOrdersForMember returns the member's orders newest first.
func (r *OrderRepository) ListOrdersForMember(ctx context.Context, memberID string) ([]persistence.Order, error) {
	return r.listOrders(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE member_id = ? ORDER BY created_at DESC, id DESC`,
		memberID,
	)
}

// ListOrders returns every order newest first.
func (r *OrderRepository) ListOrders(ctx context.Context) ([]persistence.Order, error) {
	return r.listOrders(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC, id DESC`,
	)
}

// HasPaidOrder reports whether the member holds at least one paid order.
func (r *OrderRepository) HasPaidOrder(ctx context.Context, memberID string) (bool, error) {
	if memberID == "" {
		return false, nil
	}

	var count int
	err := r.helper.QueryRow(ctx,
		"SELECT COUNT(*) FROM orders WHERE member_id = ? AND status = 'paid'",
		memberID,
	).Scan(&count)
	if err != nil {
		return false, r.mapper.MapError(err)
	}

	return count > 0, nil
}

func (r *OrderRepository) listOrders(ctx context.Context, query string, args ...any) ([]persistence.Order, error) {
	rows, err := r.helper.Query(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var orders []persistence.Order
	for rows.Next() {
		order, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return orders, nil
}

func scanOrder(scan func(dest ...any) error) (persistence.Order, error) {
	var order persistence.Order
	var paidAt sql.NullString
	var createdAt, updatedAt string

	err := scan(
		&order.ID,
		&order.MemberID,
		&order.PackageID,
		&order.PackageName,
		&order.AmountIDR,
		&order.Status,
		&order.SnapToken,
		&order.SnapRedirectURL,
		&paidAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Order{}, err
	}

	if order.PaidAt, err = parseNullableTime("paid_at", paidAt); err != nil {
		return persistence.Order{}, err
	}
	if order.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return persistence.Order{}, err
	}
	if order.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return persistence.Order{}, err
	}

	return order, nil
}
