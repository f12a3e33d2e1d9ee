package transition_booking

import (
	"time"

	"github.com/rentride/RR-BookingService/internal/domain"
)

// Request модель запроса на переход брони по жизненному циклу
type Request struct {
	Code        string       // Код брони
	Event       domain.Event // Событие жизненного цикла
	ActorUserID int64        // Инициатор; 0 для системных событий
	Reason      string       // Причина, попадает в историю статусов

	// Одноразовый код передачи машины, обязателен для
	// pickup_verified и dropoff_verified
	VerifyToken string

	// Заметки о состоянии машины при передаче (опционально)
	ConditionNotes *string
}

// Response результат перехода
type Response struct {
	Code   string
	Status string

	// false, когда событие оказалось повторной доставкой уже
	// совершенного перехода: успех без новой записи истории
	Applied bool

	// Ссылка на платеж, записанная при захвате средств
	PaymentRef string

	// Новый одноразовый код: пикап-код после оплаты,
	// дропофф-код после подтвержденного пикапа
	IssuedToken string

	ChangedAt time.Time
}
