package domain

import "time"

// Cancellation fee tiers relative to the scheduled start
const (
	FreeCancellationWindow = 24 * time.Hour
	LateCancellationWindow = 6 * time.Hour

	LateCancellationFeePercent    = 25
	LastMinuteCancellationPercent = 50
)

// RefundSplit is the result of applying the cancellation policy
type RefundSplit struct {
	Fee    int64 // retained from the rental-charge portion
	Refund int64 // charge refund plus the full security deposit
}

// CancellationFee computes the fee for cancelling at the given instant.
// Pure function of (now, scheduled start, charge total):
//   - more than 24h before start: no fee
//   - between 6h and 24h before start: 25% of the charge total
//   - 6h or less before start (or after it): 50% of the charge total
//
// chargeTotal is the rental-charge portion only; the security deposit is
// never subject to the fee.
func CancellationFee(now, scheduledStart time.Time, chargeTotal int64) int64 {
	untilStart := scheduledStart.Sub(now)

	switch {
	case untilStart > FreeCancellationWindow:
		return 0
	case untilStart > LateCancellationWindow:
		return percentOf(chargeTotal, LateCancellationFeePercent)
	default:
		return percentOf(chargeTotal, LastMinuteCancellationPercent)
	}
}

// SplitRefund applies the cancellation policy to a pricing snapshot and
// returns the fee/refund split. The deposit is returned in full on top
// of whatever remains of the charge portion.
func SplitRefund(now, scheduledStart time.Time, price PriceBreakdown) RefundSplit {
	fee := CancellationFee(now, scheduledStart, price.ChargeTotal())
	return RefundSplit{
		Fee:    fee,
		Refund: price.ChargeTotal() - fee + price.Deposit,
	}
}

func percentOf(amount int64, percent int64) int64 {
	if amount <= 0 || percent <= 0 {
		return 0
	}
	return amount * percent / 100
}
