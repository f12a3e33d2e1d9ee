package create_booking

import (
	"time"

	"github.com/rentride/RR-BookingService/internal/domain"
)

// Policy параметры ценообразования и валидации, приходят из конфигурации
type Policy struct {
	GSTBasisPoints        int64
	ServiceTaxBasisPoints int64
	PastStartGrace        time.Duration
}

// Request модель запроса на создание бронирования
type Request struct {
	CustomerID int64           // ID клиента
	VehicleID  int64           // ID машины
	StartAt    time.Time       // Начало окна аренды
	EndAt      time.Time       // Конец окна аренды (строго позже начала)
	RateType   domain.RateType // Тарифная гранулярность
	Discount   int64           // Фиксированная скидка в минимальных единицах (опционально)
	Notes      *string         // Дополнительные заметки (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID         int64
	Code       string
	CustomerID int64
	VehicleID  int64
	OwnerID    int64 // Владелец, денормализованный из объявления
	StartAt    time.Time
	EndAt      time.Time
	Status     string

	// Ценовой снимок
	RateType   string
	BaseRate   int64
	Quantity   int64
	Subtotal   int64
	Discount   int64
	GST        int64
	ServiceTax int64
	Deposit    int64
	Total      int64

	Notes     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func fromDomain(b *domain.Booking) *Response {
	return &Response{
		ID:         b.ID,
		Code:       b.Code,
		CustomerID: b.CustomerID,
		VehicleID:  b.VehicleID,
		OwnerID:    b.OwnerID,
		StartAt:    b.Window.StartAt,
		EndAt:      b.Window.EndAt,
		Status:     string(b.Status),
		RateType:   string(b.Price.RateType),
		BaseRate:   b.Price.BaseRate,
		Quantity:   b.Price.Quantity,
		Subtotal:   b.Price.Subtotal,
		Discount:   b.Price.Discount,
		GST:        b.Price.GST,
		ServiceTax: b.Price.ServiceTax,
		Deposit:    b.Price.Deposit,
		Total:      b.Price.Total,
		Notes:      b.Notes,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}
