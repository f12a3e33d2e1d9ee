package cancel_booking

import "time"

// Request модель запроса на отмену бронирования
type Request struct {
	Code        string // Код брони
	ActorUserID int64  // Кто отменяет: клиент или владелец машины
	Reason      string // Причина отмены
}

// Response результат отмены с разделением возврат/штраф
type Response struct {
	Code         string
	Status       string
	CancelledBy  string
	CancelledAt  time.Time
	Reason       string
	FeeAmount    int64 // Удержано из арендной части
	RefundAmount int64 // Возврат арендной части плюс депозит целиком
}
