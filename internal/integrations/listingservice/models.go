package listingservice

import "github.com/rentride/RR-BookingService/internal/domain"

// Vehicle модель объявления из ListingService
// Движок бронирования читает тарифную таблицу и владельца,
// данные машины он никогда не мутирует
type Vehicle struct {
	ID      int64  `json:"id"`
	OwnerID int64  `json:"ownerId"`
	Status  string `json:"status"` // listed | unlisted | maintenance

	// Тарифы в минимальных единицах валюты; отсутствующий тариф = 0
	HourlyRate  int64 `json:"hourlyRate"`
	DailyRate   int64 `json:"dailyRate"`
	WeeklyRate  int64 `json:"weeklyRate"`
	MonthlyRate int64 `json:"monthlyRate"`

	SecurityDeposit int64 `json:"securityDeposit"`
}

// RateFor возвращает базовый тариф машины для запрошенной гранулярности
func (v *Vehicle) RateFor(rateType domain.RateType) (int64, error) {
	var rate int64
	switch rateType {
	case domain.RateHourly:
		rate = v.HourlyRate
	case domain.RateDaily:
		rate = v.DailyRate
	case domain.RateWeekly:
		rate = v.WeeklyRate
	case domain.RateMonthly:
		rate = v.MonthlyRate
	default:
		return 0, ErrRateNotOffered
	}

	if rate <= 0 {
		return 0, ErrRateNotOffered
	}
	return rate, nil
}

// IsListed возвращает true, если машина доступна для бронирования
func (v *Vehicle) IsListed() bool {
	return v.Status == "listed"
}

// ErrorResponse модель ошибки от ListingService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
