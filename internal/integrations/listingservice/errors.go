package listingservice

import "errors"

var (
	// ErrVehicleNotFound возвращается, когда машина не найдена
	ErrVehicleNotFound = errors.New("listingservice client: vehicle not found")

	// ErrRateNotOffered возвращается, когда для машины не задан тариф
	// запрошенной гранулярности
	ErrRateNotOffered = errors.New("listingservice client: rate type not offered for vehicle")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("listingservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("listingservice client: invalid response")
)
