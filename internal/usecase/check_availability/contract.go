package check_availability

import (
	"context"
	"time"

	"github.com/rentride/RR-BookingService/internal/domain"
)

// AvailabilityIndex интерфейс календарного индекса
type AvailabilityIndex interface {
	IsFree(ctx context.Context, vehicleID int64, window domain.Window) (bool, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
