// Package payment integrates the Midtrans Snap hosted payment page.
package payment

import (
	"context"
	"fmt"
	"strings"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"

	"github.com/example/studio-scheduler/internal/application"
)

// MidtransGateway creates Snap transactions for package orders.
type MidtransGateway struct {
	client snap.Client
}

// NewMidtransGateway configures a Snap client against the sandbox or
// production environment.
func NewMidtransGateway(serverKey string, production bool) *MidtransGateway {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}
	gateway := &MidtransGateway{}
	gateway.client.New(serverKey, env)
	return gateway
}

// CreateSnapTransaction requests a hosted payment page for the order and
// returns its token and redirect URL.
func (g *MidtransGateway) CreateSnapTransaction(_ context.Context, order application.Order, member application.Member) (application.SnapTransaction, error) {
	if g == nil {
		return application.SnapTransaction{}, fmt.Errorf("MidtransGateway is nil")
	}
	if order.ID == "" {
		return application.SnapTransaction{}, fmt.Errorf("order id is required")
	}
	if order.AmountIDR <= 0 {
		return application.SnapTransaction{}, fmt.Errorf("order amount must be positive")
	}

	firstName, lastName := splitName(member.DisplayName)
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  order.ID,
			GrossAmt: order.AmountIDR,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: firstName,
			LName: lastName,
			Email: member.Email,
			Phone: member.Phone,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:       order.PackageID,
				Price:    order.AmountIDR,
				Qty:      1,
				Name:     itemName(order.PackageName),
				Category: "package",
			},
		},
	}

	resp, snapErr := g.client.CreateTransaction(req)
	if snapErr != nil {
		return application.SnapTransaction{}, fmt.Errorf("midtrans snap: %w", snapErr)
	}

	return application.SnapTransaction{Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}

func splitName(displayName string) (string, string) {
	parts := strings.Fields(displayName)
	if len(parts) == 0 {
		return "Member", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// itemName keeps Midtrans' 50 character item name limit.
func itemName(name string) string {
	if name == "" {
		return "Class Package"
	}
	if len(name) > 50 {
		return name[:50]
	}
	return name
}
