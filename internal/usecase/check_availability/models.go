package check_availability

import "time"

// Request модель запроса проверки доступности окна
type Request struct {
	VehicleID int64
	StartAt   time.Time
	EndAt     time.Time
}

// Response результат проверки.
// Ответ справочный: гарантию дает только TryReserve при создании брони,
// окно может быть занято между проверкой и резервацией
type Response struct {
	VehicleID int64
	StartAt   time.Time
	EndAt     time.Time
	Available bool
	CheckedAt time.Time
}
