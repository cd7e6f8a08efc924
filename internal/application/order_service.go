package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"
)

// OrderRepository captures the persistence operations needed by the order service.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order Order) (Order, error)
	GetOrder(ctx context.Context, id string) (Order, error)
	UpdateOrder(ctx context.Context, order Order) (Order, error)
	ListOrdersForMember(ctx context.Context, memberID string) ([]Order, error)
	ListOrders(ctx context.Context) ([]Order, error)
}

// PaymentGateway creates hosted payment transactions for pending orders.
type PaymentGateway interface {
	CreateSnapTransaction(ctx context.Context, order Order, member Member) (SnapTransaction, error)
}

// ReceiptMailer delivers a purchase receipt after an order settles.
type ReceiptMailer interface {
	SendOrderReceipt(ctx context.Context, member Member, order Order) error
}

// MemberDirectory exposes the member operations the order service needs.
type MemberDirectory interface {
	GetMember(ctx context.Context, id string) (Member, error)
	SetPurchaseFlag(ctx context.Context, id string, purchased bool) error
}

// PackageCatalog exposes package lookup for order creation.
type PackageCatalog interface {
	GetPackage(ctx context.Context, id string) (Package, error)
}

// OrderService orchestrates package purchases and payment notifications.
type OrderService struct {
	orders      OrderRepository
	packages    PackageCatalog
	members     MemberDirectory
	gateway     PaymentGateway
	mailer      ReceiptMailer
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewOrderService wires dependencies for the order service.
func NewOrderService(orders OrderRepository, packages PackageCatalog, members MemberDirectory, gateway PaymentGateway, mailer ReceiptMailer, idGenerator func() string, now func() time.Time, logger *slog.Logger) *OrderService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &OrderService{
		orders:      orders,
		packages:    packages,
		members:     members,
		gateway:     gateway,
		mailer:      mailer,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *OrderService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "OrderService", operation, attrs...)
}

// CreateOrder starts a purchase: it records a pending order and obtains a
// hosted payment page token from the gateway.
func (s *OrderService) CreateOrder(ctx context.Context, params CreateOrderParams) (order Order, err error) {
	if s == nil {
		err = fmt.Errorf("OrderService is nil")
		return
	}
	if s.orders == nil || s.packages == nil || s.members == nil || s.gateway == nil {
		err = fmt.Errorf("order service dependencies not configured")
		return
	}
	if params.Principal.MemberID == "" {
		err = ErrUnauthorized
		return
	}

	logger := s.loggerWith(ctx, "CreateOrder",
		"member_id", params.Principal.MemberID,
		"package_id", params.PackageID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "order creation failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("order_id", order.ID, "amount_idr", order.AmountIDR).InfoContext(ctx, "order created")
	}()

	var pkg Package
	pkg, err = s.packages.GetPackage(ctx, params.PackageID)
	if err != nil {
		err = mapScheduleRepoError(err)
		return
	}

	var amount int64
	amount, err = s.effectivePrice(pkg)
	if err != nil {
		return
	}

	var member Member
	member, err = s.members.GetMember(ctx, params.Principal.MemberID)
	if err != nil {
		err = mapScheduleRepoError(err)
		return
	}

	now := s.now()
	order = Order{
		ID:          s.idGenerator(),
		MemberID:    member.ID,
		PackageID:   pkg.ID,
		PackageName: pkg.Name,
		AmountIDR:   amount,
		Status:      OrderPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var txn SnapTransaction
	txn, err = s.gateway.CreateSnapTransaction(ctx, order, member)
	if err != nil {
		err = fmt.Errorf("create payment transaction: %w", err)
		return
	}
	order.SnapToken = txn.Token
	order.SnapRedirectURL = txn.RedirectURL

	order, err = s.orders.CreateOrder(ctx, order)
	if err != nil {
		err = mapScheduleRepoError(err)
		return
	}

	return order, nil
}

// HandleNotification applies a gateway payment notification to its order.
// Settlement flips the member's purchase flag and sends a receipt; a failed
// receipt delivery is logged but never fails the notification.
func (s *OrderService) HandleNotification(ctx context.Context, notif PaymentNotification) (err error) {
	if s == nil {
		return fmt.Errorf("OrderService is nil")
	}
	if s.orders == nil || s.members == nil {
		return fmt.Errorf("order service dependencies not configured")
	}

	logger := s.loggerWith(ctx, "HandleNotification",
		"order_id", notif.OrderID,
		"transaction_status", notif.TransactionStatus,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "payment notification failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "payment notification applied")
	}()

	order, err := s.orders.GetOrder(ctx, notif.OrderID)
	if err != nil {
		return mapScheduleRepoError(err)
	}

	next, final := nextOrderStatus(order.Status, notif)
	if !final {
		return nil
	}

	if next == OrderPaid {
		if err := verifyGrossAmount(notif.GrossAmount, order.AmountIDR); err != nil {
			return err
		}
	}

	now := s.now()
	order.Status = next
	order.UpdatedAt = now
	if next == OrderPaid {
		order.PaidAt = &now
	}

	if _, err := s.orders.UpdateOrder(ctx, order); err != nil {
		return mapScheduleRepoError(err)
	}

	if next != OrderPaid {
		return nil
	}

	if err := s.members.SetPurchaseFlag(ctx, order.MemberID, true); err != nil {
		return mapScheduleRepoError(err)
	}

	if s.mailer != nil {
		member, err := s.members.GetMember(ctx, order.MemberID)
		if err != nil {
			logger.ErrorContext(ctx, "receipt recipient lookup failed", "error", err)
			return nil
		}
		if err := s.mailer.SendOrderReceipt(ctx, member, order); err != nil {
			logger.ErrorContext(ctx, "receipt delivery failed", "error", err)
		}
	}

	return nil
}

// GetOrder returns one order for administrators or its owner.
func (s *OrderService) GetOrder(ctx context.Context, principal Principal, orderID string) (Order, error) {
	if s == nil {
		return Order{}, fmt.Errorf("OrderService is nil")
	}
	if s.orders == nil {
		return Order{}, fmt.Errorf("order repository not configured")
	}

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return Order{}, mapScheduleRepoError(err)
	}

	if !principal.IsAdmin() && order.MemberID != principal.MemberID {
		return Order{}, ErrUnauthorized
	}

	return order, nil
}

// ListOrders returns all orders for administrators, or the caller's own orders
// for members, newest first.
func (s *OrderService) ListOrders(ctx context.Context, principal Principal) ([]Order, error) {
	if s == nil {
		return nil, fmt.Errorf("OrderService is nil")
	}
	if principal.MemberID == "" {
		return nil, ErrUnauthorized
	}
	if s.orders == nil {
		return nil, nil
	}

	var (
		orders []Order
		err    error
	)
	if principal.IsAdmin() {
		orders, err = s.orders.ListOrders(ctx)
	} else {
		orders, err = s.orders.ListOrdersForMember(ctx, principal.MemberID)
	}
	if err != nil {
		return nil, err
	}

	out := make([]Order, len(orders))
	copy(out, orders)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

func (s *OrderService) effectivePrice(pkg Package) (int64, error) {
	if pkg.Category != PackagePromo {
		return pkg.PriceIDR, nil
	}

	now := s.now()
	if pkg.ValidFrom != nil && now.Before(*pkg.ValidFrom) {
		vErr := &ValidationError{}
		vErr.add("package_id", "promo is not active yet")
		return 0, vErr
	}
	if pkg.ValidUntil != nil && now.After(*pkg.ValidUntil) {
		vErr := &ValidationError{}
		vErr.add("package_id", "promo has expired")
		return 0, vErr
	}

	discounted := pkg.PriceIDR * int64(100-pkg.DiscountPercent) / 100
	if discounted < 0 {
		discounted = 0
	}
	return discounted, nil
}

// nextOrderStatus maps a gateway notification onto the order lifecycle. The
// second return value reports whether the order reached a final state and must
// be persisted. Orders already settled are never downgraded.
// verifyGrossAmount rejects a settlement whose reported amount does not match
// the order. The gateway reports gross_amount as a decimal string such as
// "150000.00"; an absent amount is left to the signature check.
func verifyGrossAmount(gross string, amountIDR int64) error {
	trimmed := strings.TrimSpace(gross)
	if trimmed == "" {
		return nil
	}

	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || int64(parsed) != amountIDR {
		vErr := &ValidationError{}
		vErr.add("gross_amount", "reported amount does not match the order")
		return vErr
	}
	return nil
}

func nextOrderStatus(current OrderStatus, notif PaymentNotification) (OrderStatus, bool) {
	if current == OrderPaid {
		return current, false
	}

	switch strings.ToLower(notif.TransactionStatus) {
	case "capture":
		switch strings.ToLower(notif.FraudStatus) {
		case "accept", "":
			return OrderPaid, true
		case "challenge":
			return current, false
		default:
			return OrderFailed, true
		}
	case "settlement":
		return OrderPaid, true
	case "deny", "cancel":
		return OrderFailed, true
	case "expire":
		return OrderExpired, true
	default:
		return current, false
	}
}
