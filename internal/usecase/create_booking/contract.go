package create_booking

import (
	"context"
	"time"

	"github.com/rentride/RR-BookingService/internal/domain"
	"github.com/rentride/RR-BookingService/internal/integrations/identityservice"
	"github.com/rentride/RR-BookingService/internal/integrations/listingservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	NextCodeSeq(ctx context.Context, day time.Time) (int64, error)
}

// AvailabilityIndex интерфейс календарного индекса
// Единственный источник истины о занятости окна
type AvailabilityIndex interface {
	TryReserve(ctx context.Context, vehicleID int64, window domain.Window, bookingCode string) error
}

// ListingServiceClient интерфейс клиента для ListingService
type ListingServiceClient interface {
	GetVehicle(ctx context.Context, vehicleID int64) (*listingservice.Vehicle, error)
}

// IdentityServiceClient интерфейс клиента для IdentityService
type IdentityServiceClient interface {
	GetUser(ctx context.Context, userID int64) (*identityservice.User, error)
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
