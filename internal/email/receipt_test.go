package email

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/example/studio-scheduler/internal/application"
)

type captureSender struct {
	sent []Message
	err  error
}

func (s *captureSender) Send(_ context.Context, msg Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func TestReceiptMailer_SendOrderReceipt(t *testing.T) {
	t.Parallel()

	paidAt := time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)
	member := application.Member{ID: "member-1", Email: "jane@example.com", DisplayName: "Jane"}
	order := application.Order{
		ID: "order-1", PackageName: "Monthly 8", AmountIDR: 1_500_000, PaidAt: &paidAt,
	}

	t.Run("renders and delivers the receipt", func(t *testing.T) {
		t.Parallel()

		sender := &captureSender{}
		mailer := NewReceiptMailer(sender)

		if err := mailer.SendOrderReceipt(context.Background(), member, order); err != nil {
			t.Fatalf("SendOrderReceipt returned error: %v", err)
		}
		if len(sender.sent) != 1 {
			t.Fatalf("expected one message, got %d", len(sender.sent))
		}

		msg := sender.sent[0]
		if msg.To[0] != "jane@example.com" {
			t.Errorf("recipient = %v", msg.To)
		}
		if !strings.Contains(msg.Subject, "Monthly 8") {
			t.Errorf("subject = %q", msg.Subject)
		}
		for _, want := range []string{"Jane", "order-1", "Rp 1.500.000"} {
			if !strings.Contains(msg.HTML, want) {
				t.Errorf("body missing %q:\n%s", want, msg.HTML)
			}
		}
	})

	t.Run("rejects members without an email address", func(t *testing.T) {
		t.Parallel()

		mailer := NewReceiptMailer(&captureSender{})
		anon := application.Member{ID: "member-2"}
		if err := mailer.SendOrderReceipt(context.Background(), anon, order); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestFormatIDR(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   int64
		want string
	}{
		{in: 0, want: "0"},
		{in: 950, want: "950"},
		{in: 1_500, want: "1.500"},
		{in: 800_000, want: "800.000"},
		{in: 12_345_678, want: "12.345.678"},
	}

	for _, tc := range cases {
		if got := formatIDR(tc.in); got != tc.want {
			t.Errorf("formatIDR(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
