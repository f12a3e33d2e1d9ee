package create_booking

import (
	"fmt"
	"time"

	"github.com/rentride/RR-BookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if req.VehicleID <= 0 {
		return fmt.Errorf("%w: vehicleID must be positive", ErrInvalidInput)
	}

	if !req.RateType.IsValid() {
		return ErrUnknownRateType
	}

	if req.Discount < 0 {
		return fmt.Errorf("%w: discount cannot be negative", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateWindow проверяет окно аренды: end > start и начало не в прошлом
// за пределами грейс-периода
func validateWindow(req *Request, now time.Time, grace time.Duration) (domain.Window, error) {
	window, err := domain.NewWindow(req.StartAt, req.EndAt)
	if err != nil {
		return domain.Window{}, ErrInvalidWindow
	}

	if window.StartsBefore(now, grace) {
		return domain.Window{}, ErrStartInPast
	}

	return window, nil
}

// Единицы тарифной гранулярности для вывода количества из окна.
// Для месяца принята конвенция 30 суток: семантика календарных единиц
// не определена на этом уровне, окно всегда хранится конкретными
// временными метками
var rateUnit = map[domain.RateType]time.Duration{
	domain.RateHourly:  time.Hour,
	domain.RateDaily:   24 * time.Hour,
	domain.RateWeekly:  7 * 24 * time.Hour,
	domain.RateMonthly: 30 * 24 * time.Hour,
}

// quantityForWindow выводит оплачиваемое количество единиц тарифа из окна.
// Неполная единица округляется вверх: аренда на 25 часов по дневному
// тарифу оплачивается как 2 дня
func quantityForWindow(window domain.Window, rateType domain.RateType) (int64, error) {
	unit, ok := rateUnit[rateType]
	if !ok {
		return 0, ErrUnknownRateType
	}

	duration := window.Duration()
	quantity := int64((duration + unit - 1) / unit)

	if quantity < domain.MinQuantity {
		quantity = domain.MinQuantity
	}
	if quantity > domain.MaxQuantity {
		return 0, fmt.Errorf("%w: window too long for rate type %s", ErrInvalidInput, rateType)
	}

	return quantity, nil
}
