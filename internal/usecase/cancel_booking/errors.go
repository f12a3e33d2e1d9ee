package cancel_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("cancel_booking: booking not found")

	// ErrCannotCancel возвращается, когда бронь не в отменяемом статусе
	// (active, completed, cancelled, refunded не отменяются)
	ErrCannotCancel = errors.New("cancel_booking: booking cannot be cancelled")

	// ErrAccessDenied возвращается, когда инициатор не клиент и не владелец брони
	ErrAccessDenied = errors.New("cancel_booking: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("cancel_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("cancel_booking: internal error")
)
