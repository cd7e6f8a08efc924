package payment

import (
	"context"
	"strings"
	"testing"

	"github.com/example/studio-scheduler/internal/application"
)

func TestCreateSnapTransaction_RejectsInvalidOrders(t *testing.T) {
	t.Parallel()

	gateway := NewMidtransGateway("sandbox-key", false)

	cases := []struct {
		name  string
		order application.Order
	}{
		{name: "missing order id", order: application.Order{AmountIDR: 100_000}},
		{name: "zero amount", order: application.Order{ID: "order-1"}},
		{name: "negative amount", order: application.Order{ID: "order-1", AmountIDR: -1}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := gateway.CreateSnapTransaction(context.Background(), tc.order, application.Member{})
			if err == nil {
				t.Fatalf("expected error for %s", tc.name)
			}
		})
	}
}

func TestSplitName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in          string
		first, last string
	}{
		{in: "Jane Doe", first: "Jane", last: "Doe"},
		{in: "Jane", first: "Jane", last: ""},
		{in: "Jane van der Berg", first: "Jane", last: "van der Berg"},
		{in: "", first: "Member", last: ""},
	}

	for _, tc := range cases {
		first, last := splitName(tc.in)
		if first != tc.first || last != tc.last {
			t.Errorf("splitName(%q) = (%q, %q), want (%q, %q)", tc.in, first, last, tc.first, tc.last)
		}
	}
}

func TestItemName(t *testing.T) {
	t.Parallel()

	if got := itemName(""); got != "Class Package" {
		t.Errorf("empty name = %q", got)
	}
	long := strings.Repeat("x", 80)
	if got := itemName(long); len(got) != 50 {
		t.Errorf("long name length = %d", len(got))
	}
}
