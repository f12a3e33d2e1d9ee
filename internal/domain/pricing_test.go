package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculatePrice_DailyRate(t *testing.T) {
	// dailyRate=800, quantity=2, без скидки: subtotal 1600, GST 18% = 288
	breakdown, err := CalculatePrice(PriceInput{
		RateType: RateDaily,
		BaseRate: 800,
		Quantity: 2,
		Deposit:  5000,
		GSTBp:    1800,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1600), breakdown.Subtotal)
	assert.Equal(t, int64(288), breakdown.GST)
	assert.Equal(t, int64(0), breakdown.ServiceTax)
	assert.Equal(t, int64(1600+288+5000), breakdown.Total)
	assert.Equal(t, int64(1600+288), breakdown.ChargeTotal())
}

func TestCalculatePrice_DiscountBeforeTax(t *testing.T) {
	breakdown, err := CalculatePrice(PriceInput{
		RateType: RateHourly,
		BaseRate: 500,
		Quantity: 4,
		Discount: 1000,
		GSTBp:    1800,
	})
	require.NoError(t, err)

	// 500*4 - 1000 = 1000, налог считается от суммы после скидки
	assert.Equal(t, int64(1000), breakdown.Subtotal)
	assert.Equal(t, int64(180), breakdown.GST)
	assert.Equal(t, int64(1180), breakdown.Total)
}

func TestCalculatePrice_SubtotalFlooredAtZero(t *testing.T) {
	breakdown, err := CalculatePrice(PriceInput{
		RateType: RateDaily,
		BaseRate: 300,
		Quantity: 1,
		Discount: 900,
		Deposit:  2000,
		GSTBp:    1800,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(0), breakdown.Subtotal)
	assert.Equal(t, int64(0), breakdown.GST)
	assert.Equal(t, int64(2000), breakdown.Total, "остается только депозит")
}

func TestCalculatePrice_RoundHalfUp(t *testing.T) {
	cases := []struct {
		name     string
		subtotal int64
		bp       int64
		want     int64
	}{
		{"exact", 1000, 1800, 180},
		{"rounds up at half", 25, 1800, 5},   // 25*0.18 = 4.5 -> 5
		{"rounds down below half", 24, 1800, 4}, // 24*0.18 = 4.32 -> 4
		{"rounds up above half", 27, 1800, 5},   // 27*0.18 = 4.86 -> 5
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			breakdown, err := CalculatePrice(PriceInput{
				RateType: RateHourly,
				BaseRate: tc.subtotal,
				Quantity: 1,
				GSTBp:    tc.bp,
			})
			require.NoError(t, err)
			assert.Equal(t, tc.want, breakdown.GST)
		})
	}
}

func TestCalculatePrice_ServiceTaxSeparateLine(t *testing.T) {
	breakdown, err := CalculatePrice(PriceInput{
		RateType:  RateWeekly,
		BaseRate:  7000,
		Quantity:  1,
		GSTBp:     1800,
		ServiceBp: 500,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1260), breakdown.GST)
	assert.Equal(t, int64(350), breakdown.ServiceTax)
	assert.Equal(t, int64(7000+1260+350), breakdown.Total)
}

func TestCalculatePrice_Validation(t *testing.T) {
	_, err := CalculatePrice(PriceInput{RateType: "fortnightly", BaseRate: 100, Quantity: 1})
	assert.ErrorIs(t, err, ErrUnknownRateType)

	_, err = CalculatePrice(PriceInput{RateType: RateDaily, BaseRate: 100, Quantity: 0})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = CalculatePrice(PriceInput{RateType: RateDaily, BaseRate: -100, Quantity: 1})
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func TestParseRateType(t *testing.T) {
	for _, s := range []string{"hourly", "daily", "weekly", "monthly"} {
		rt, err := ParseRateType(s)
		require.NoError(t, err)
		assert.Equal(t, RateType(s), rt)
	}

	_, err := ParseRateType("yearly")
	assert.ErrorIs(t, err, ErrUnknownRateType)
}
