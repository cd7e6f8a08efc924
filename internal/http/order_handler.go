package http

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/studio-scheduler/internal/application"
)

type orderService interface {
	CreateOrder(ctx context.Context, params application.CreateOrderParams) (application.Order, error)
	GetOrder(ctx context.Context, principal application.Principal, orderID string) (application.Order, error)
	ListOrders(ctx context.Context, principal application.Principal) ([]application.Order, error)
	HandleNotification(ctx context.Context, notif application.PaymentNotification) error
}

type OrderHandler struct {
	service   orderService
	serverKey string
	responder responder
	logger    *slog.Logger
}

// NewOrderHandler wires the order service and the gateway server key used to
// verify notification signatures.
func NewOrderHandler(service orderService, serverKey string, logger *slog.Logger) *OrderHandler {
	base := defaultLogger(logger)
	return &OrderHandler{service: service, serverKey: serverKey, responder: newResponder(base), logger: base}
}

func (h *OrderHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "OrderHandler", operation, attrs...)
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode order request", "error", err)
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

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Create", "principal_id", principal.MemberID, "package_id", req.PackageID)

	order, err := h.service.CreateOrder(r.Context(), application.CreateOrderParams{
		Principal: principal,
		PackageID: strings.TrimSpace(req.PackageID),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "order creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("order_id", order.ID, "amount_idr", order.AmountIDR).InfoContext(r.Context(), "order created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, orderResponse{Order: toOrderDTO(order)})
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	orderID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(orderID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	order, err := h.service.GetOrder(r.Context(), principal, orderID)
	if err != nil {
		h.log(r.Context(), "Get", "order_id", orderID).ErrorContext(r.Context(), "order fetch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, orderResponse{Order: toOrderDTO(order)})
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	orders, err := h.service.ListOrders(r.Context(), principal)
	if err != nil {
		h.log(r.Context(), "List").ErrorContext(r.Context(), "order list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listOrdersResponse{Orders: toOrderDTOs(orders)})
}

// HandleNotification receives the payment gateway's server-to-server callback.
// The endpoint is unauthenticated, so nothing is applied until the payload's
// signature checks out against the configured server key. It always
// acknowledges with 200 for orders it does not know so the gateway stops
// retrying, matching the gateway's delivery contract.
func (h *OrderHandler) HandleNotification(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var payload notificationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.log(r.Context(), "HandleNotification", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode payment notification", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "HandleNotification", "order_id", payload.OrderID, "transaction_status", payload.TransactionStatus)

	if !h.validSignature(payload) {
		logger.WarnContext(r.Context(), "payment notification rejected", "error_kind", "unauthorized")
		h.responder.writeError(r.Context(), w, http.StatusForbidden, errInvalidNotificationSignature)
		return
	}

	err := h.service.HandleNotification(r.Context(), application.PaymentNotification{
		OrderID:           strings.TrimSpace(payload.OrderID),
		TransactionStatus: strings.TrimSpace(payload.TransactionStatus),
		FraudStatus:       strings.TrimSpace(payload.FraudStatus),
		GrossAmount:       strings.TrimSpace(payload.GrossAmount),
	})
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			logger.WarnContext(r.Context(), "payment notification for unknown order acknowledged")
			h.responder.writeJSON(r.Context(), w, http.StatusOK, notificationAck{Status: "ok"})
			return
		}
		logger.ErrorContext(r.Context(), "payment notification failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, notificationAck{Status: "ok"})
}

type orderRequest struct {
	PackageID string `json:"package_id" validate:"required"`
}

// validSignature checks the gateway's signature key, SHA-512 over
// order_id + status_code + gross_amount + server key.
func (h *OrderHandler) validSignature(payload notificationPayload) bool {
	provided := strings.ToLower(strings.TrimSpace(payload.SignatureKey))
	if provided == "" {
		return false
	}
	sum := sha512.Sum512([]byte(payload.OrderID + payload.StatusCode + payload.GrossAmount + h.serverKey))
	return provided == hex.EncodeToString(sum[:])
}

// notificationPayload mirrors the field names the gateway posts.
type notificationPayload struct {
	OrderID           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	FraudStatus       string `json:"fraud_status"`
}

type notificationAck struct {
	Status string `json:"status"`
}

type orderResponse struct {
	Order orderDTO `json:"order"`
}

type listOrdersResponse struct {
	Orders []orderDTO `json:"orders"`
}

type orderDTO struct {
	ID              string  `json:"id"`
	MemberID        string  `json:"member_id"`
	PackageID       string  `json:"package_id"`
	PackageName     string  `json:"package_name,omitempty"`
	AmountIDR       int64   `json:"amount_idr"`
	Status          string  `json:"status"`
	SnapToken       string  `json:"snap_token,omitempty"`
	SnapRedirectURL string  `json:"snap_redirect_url,omitempty"`
	PaidAt          *string `json:"paid_at,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

func toOrderDTO(order application.Order) orderDTO {
	dto := orderDTO{
		ID:              order.ID,
		MemberID:        order.MemberID,
		PackageID:       order.PackageID,
		PackageName:     order.PackageName,
		AmountIDR:       order.AmountIDR,
		Status:          string(order.Status),
		SnapToken:       order.SnapToken,
		SnapRedirectURL: order.SnapRedirectURL,
		CreatedAt:       order.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:       order.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	if order.PaidAt != nil {
		paidAt := order.PaidAt.UTC().Format(time.RFC3339Nano)
		dto.PaidAt = &paidAt
	}
	return dto
}

func toOrderDTOs(orders []application.Order) []orderDTO {
	out := make([]orderDTO, 0, len(orders))
	for _, order := range orders {
		out = append(out, toOrderDTO(order))
	}
	return out
}
