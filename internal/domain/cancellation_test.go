package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCancellationFee_Tiers(t *testing.T) {
	start := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		now     time.Time
		charge  int64
		wantFee int64
	}{
		{"25h before start - free", start.Add(-25 * time.Hour), 1000, 0},
		{"12h before start - 25%", start.Add(-12 * time.Hour), 1000, 250},
		{"3h before start - 50%", start.Add(-3 * time.Hour), 1000, 500},
		{"exactly 24h - 25%", start.Add(-24 * time.Hour), 1000, 250},
		{"exactly 6h - 50%", start.Add(-6 * time.Hour), 1000, 500},
		{"after start - 50%", start.Add(time.Hour), 1000, 500},
		{"zero charge", start.Add(-3 * time.Hour), 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.wantFee, CancellationFee(tc.now, start, tc.charge))
		})
	}
}

func TestSplitRefund_DepositNeverSubjectToFee(t *testing.T) {
	start := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	price := PriceBreakdown{
		Subtotal: 800,
		GST:      200,
		Deposit:  5000,
		Total:    6000,
	}

	// 3 часа до начала: 50% от 1000 (charge portion), депозит возвращается полностью
	split := SplitRefund(start.Add(-3*time.Hour), start, price)
	assert.Equal(t, int64(500), split.Fee)
	assert.Equal(t, int64(500+5000), split.Refund)

	// За 25 часов: полный возврат
	split = SplitRefund(start.Add(-25*time.Hour), start, price)
	assert.Equal(t, int64(0), split.Fee)
	assert.Equal(t, int64(6000), split.Refund)
}
