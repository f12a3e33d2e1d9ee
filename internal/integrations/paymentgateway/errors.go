package paymentgateway

import "errors"

var (
	// ErrPaymentDeclined возвращается, когда шлюз отклонил списание
	ErrPaymentDeclined = errors.New("paymentgateway client: payment declined")

	// ErrPaymentNotFound возвращается, когда платеж не найден
	ErrPaymentNotFound = errors.New("paymentgateway client: payment not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("paymentgateway client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от шлюза
	ErrInvalidResponse = errors.New("paymentgateway client: invalid response")
)
