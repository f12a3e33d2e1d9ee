package availability

import "errors"

var (
	// ErrWindowConflict возвращается, когда запрошенное окно пересекается
	// с существующим холдом. Это ожидаемый исход, а не инфраструктурная ошибка
	ErrWindowConflict = errors.New("availability.repository: window conflicts with an existing hold")

	// ErrHoldNotFound возвращается, когда холд не найден
	ErrHoldNotFound = errors.New("availability.repository: hold not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("availability.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("availability.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("availability.repository: failed to scan row")
)
