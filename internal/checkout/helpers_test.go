package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDeliveryFeeBoundary(t *testing.T) {
	t.Parallel()

	store := testStoreConfig()

	cases := []struct {
		subtotal string
		want     string
	}{
		{subtotal: "0", want: "25"},
		{subtotal: "298.99", want: "25"},
		{subtotal: "299", want: "0"},
		{subtotal: "299.01", want: "0"},
		{subtotal: "1000", want: "0"},
	}

	for _, tc := range cases {
		got := deliveryFee(decimal.RequireFromString(tc.subtotal), store)
		assert.True(t, got.Equal(decimal.RequireFromString(tc.want)),
			"subtotal %s: want fee %s, got %s", tc.subtotal, tc.want, got)
	}
}
