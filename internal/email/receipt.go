package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/example/studio-scheduler/internal/application"
)

var receiptTemplate = template.Must(template.New("receipt").Parse(`<h2>Thanks for your purchase, {{.Name}}!</h2>
<p>Your payment for <strong>{{.PackageName}}</strong> has been received.</p>
<table>
  <tr><td>Order</td><td>{{.OrderID}}</td></tr>
  <tr><td>Amount</td><td>Rp {{.Amount}}</td></tr>
  <tr><td>Paid at</td><td>{{.PaidAt}}</td></tr>
</table>
<p>Your package is now active. See you in the studio!</p>`))

// ReceiptMailer renders and sends purchase receipts after an order settles.
type ReceiptMailer struct {
	sender Sender
}

// NewReceiptMailer wraps a Sender for receipt delivery.
func NewReceiptMailer(sender Sender) *ReceiptMailer {
	if sender == nil {
		sender = NoopSender{}
	}
	return &ReceiptMailer{sender: sender}
}

// SendOrderReceipt implements application.ReceiptMailer.
func (m *ReceiptMailer) SendOrderReceipt(ctx context.Context, member application.Member, order application.Order) error {
	if member.Email == "" {
		return fmt.Errorf("member %s has no email address", member.ID)
	}

	paidAt := ""
	if order.PaidAt != nil {
		paidAt = order.PaidAt.Format("2 January 2006 15:04 MST")
	}

	var body bytes.Buffer
	err := receiptTemplate.Execute(&body, struct {
		Name        string
		PackageName string
		OrderID     string
		Amount      string
		PaidAt      string
	}{
		Name:        member.DisplayName,
		PackageName: order.PackageName,
		OrderID:     order.ID,
		Amount:      formatIDR(order.AmountIDR),
		PaidAt:      paidAt,
	})
	if err != nil {
		return fmt.Errorf("render receipt: %w", err)
	}

	return m.sender.Send(ctx, Message{
		To:      []string{member.Email},
		Subject: fmt.Sprintf("Payment received for %s", order.PackageName),
		HTML:    body.String(),
	})
}

// formatIDR renders an amount with dot thousand separators, e.g. 1.500.000.
func formatIDR(amount int64) string {
	if amount < 0 {
		return "-" + formatIDR(-amount)
	}
	s := fmt.Sprintf("%d", amount)
	if len(s) <= 3 {
		return s
	}
	var out []byte
	for i, digit := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, digit)
	}
	return string(out)
}
