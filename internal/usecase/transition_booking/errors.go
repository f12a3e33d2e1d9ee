package transition_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("transition_booking: booking not found")

	// ErrInvalidTransition возвращается, когда событие не разрешено
	// из текущего статуса. Возвращается без побочных эффектов
	ErrInvalidTransition = errors.New("transition_booking: invalid transition")

	// ErrAccessDenied возвращается, когда инициатор не имеет права
	// на это событие
	ErrAccessDenied = errors.New("transition_booking: access denied")

	// ErrVerificationFailed возвращается при неверном или протухшем
	// коде передачи машины
	ErrVerificationFailed = errors.New("transition_booking: handover verification failed")

	// ErrPaymentFailed возвращается, когда платежный шлюз отклонил операцию
	ErrPaymentFailed = errors.New("transition_booking: payment operation failed")

	// ErrNoPaymentRef возвращается на возврате по брони без записанного платежа
	ErrNoPaymentRef = errors.New("transition_booking: booking has no payment to refund")

	// ErrUseCancelEndpoint возвращается на событии отмены:
	// отмена идет через отдельный сценарий с расчетом штрафа
	ErrUseCancelEndpoint = errors.New("transition_booking: cancellation goes through the cancel operation")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("transition_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("transition_booking: internal error")
)
