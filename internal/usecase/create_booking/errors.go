package create_booking

import "errors"

var (
	// ErrWindowConflict возвращается, когда окно пересекается с существующей
	// бронью машины. Ожидаемый исход, а не инфраструктурная ошибка
	ErrWindowConflict = errors.New("create_booking: window conflicts with an existing booking")

	// ErrInvalidWindow возвращается при окне с end <= start
	ErrInvalidWindow = errors.New("create_booking: invalid booking window")

	// ErrStartInPast возвращается, когда начало окна в прошлом
	// за пределами грейс-периода
	ErrStartInPast = errors.New("create_booking: window start is in the past")

	// ErrUnknownRateType возвращается при неизвестной тарифной гранулярности
	ErrUnknownRateType = errors.New("create_booking: unknown rate type")

	// ErrRateNotOffered возвращается, когда машина не сдаётся по
	// запрошенному тарифу
	ErrRateNotOffered = errors.New("create_booking: rate type not offered for this vehicle")

	// ErrCustomerNotFound возвращается, когда клиент не найден
	ErrCustomerNotFound = errors.New("create_booking: customer not found")

	// ErrVehicleNotFound возвращается, когда машина не найдена
	ErrVehicleNotFound = errors.New("create_booking: vehicle not found")

	// ErrVehicleNotListed возвращается, когда объявление снято с публикации
	ErrVehicleNotListed = errors.New("create_booking: vehicle is not listed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
