package cancel_booking

import (
	"context"
	"time"

	"github.com/rentride/RR-BookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.Status, change domain.StatusChange) error
	SetCancellation(ctx context.Context, id int64, rec *domain.CancellationRecord) error
}

// AvailabilityIndex интерфейс календарного индекса
type AvailabilityIndex interface {
	Release(ctx context.Context, vehicleID int64, bookingCode string) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
