package domain

import "errors"

// RateType is the billing granularity selected for a booking
type RateType string

const (
	RateHourly  RateType = "hourly"
	RateDaily   RateType = "daily"
	RateWeekly  RateType = "weekly"
	RateMonthly RateType = "monthly"
)

var (
	// ErrUnknownRateType is returned for a rate type outside the supported set
	ErrUnknownRateType = errors.New("domain: unknown rate type")

	// ErrInvalidQuantity is returned for a non-positive billing quantity
	ErrInvalidQuantity = errors.New("domain: quantity must be at least 1")

	// ErrNegativeAmount is returned when a monetary input is negative
	ErrNegativeAmount = errors.New("domain: monetary amounts cannot be negative")
)

// IsValid returns true if the rate type is one of the supported granularities
func (r RateType) IsValid() bool {
	switch r {
	case RateHourly, RateDaily, RateWeekly, RateMonthly:
		return true
	default:
		return false
	}
}

// ParseRateType converts a string to a RateType
func ParseRateType(s string) (RateType, error) {
	r := RateType(s)
	if !r.IsValid() {
		return "", ErrUnknownRateType
	}
	return r, nil
}

// PriceInput holds the inputs for a price computation.
// All amounts are integers in the smallest currency unit.
type PriceInput struct {
	RateType    RateType
	BaseRate    int64 // price per billing unit
	Quantity    int64 // hours/days/weeks/months, >= 1
	Discount    int64 // flat discount, applied before tax
	Deposit     int64 // vehicle-defined security deposit, never taxed
	GSTBp       int64 // GST rate in basis points (1800 = 18%)
	ServiceBp   int64 // service tax rate in basis points
}

// PriceBreakdown is the immutable pricing snapshot captured on a booking
// at creation time. It is never recomputed afterwards, so later changes
// to the vehicle's listed rates cannot drift the agreed price.
type PriceBreakdown struct {
	RateType   RateType
	BaseRate   int64
	Quantity   int64
	Subtotal   int64
	Discount   int64
	GST        int64
	ServiceTax int64
	Deposit    int64
	Total      int64
}

// CalculatePrice computes the full price breakdown. Pure function:
// subtotal = base*quantity - discount (floored at 0), taxes applied to
// subtotal with round-half-up, deposit added untaxed.
func CalculatePrice(in PriceInput) (PriceBreakdown, error) {
	if !in.RateType.IsValid() {
		return PriceBreakdown{}, ErrUnknownRateType
	}
	if in.Quantity < 1 {
		return PriceBreakdown{}, ErrInvalidQuantity
	}
	if in.BaseRate < 0 || in.Discount < 0 || in.Deposit < 0 || in.GSTBp < 0 || in.ServiceBp < 0 {
		return PriceBreakdown{}, ErrNegativeAmount
	}

	subtotal := in.BaseRate*in.Quantity - in.Discount
	if subtotal < 0 {
		subtotal = 0
	}

	gst := applyBasisPoints(subtotal, in.GSTBp)
	serviceTax := applyBasisPoints(subtotal, in.ServiceBp)

	return PriceBreakdown{
		RateType:   in.RateType,
		BaseRate:   in.BaseRate,
		Quantity:   in.Quantity,
		Subtotal:   subtotal,
		Discount:   in.Discount,
		GST:        gst,
		ServiceTax: serviceTax,
		Deposit:    in.Deposit,
		Total:      subtotal + gst + serviceTax + in.Deposit,
	}, nil
}

// ChargeTotal returns the rental-charge portion of the price: subtotal
// plus taxes, excluding the security deposit. Cancellation fees apply
// only to this portion.
func (p PriceBreakdown) ChargeTotal() int64 {
	return p.Subtotal + p.GST + p.ServiceTax
}

// applyBasisPoints applies a basis-point rate to an amount with a single
// round-half-up at computation time
func applyBasisPoints(amount, bp int64) int64 {
	return (amount*bp + 5000) / 10000
}
