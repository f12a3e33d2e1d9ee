package bookings

import (
	"context"

	"github.com/rentride/RR-BookingService/internal/domain"
	"github.com/rentride/RR-BookingService/internal/integrations/listingservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.Booking, error)
	ListWithFilter(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error)
}

// ListingServiceClient интерфейс клиента для ListingService
type ListingServiceClient interface {
	GetVehicle(ctx context.Context, vehicleID int64) (*listingservice.Vehicle, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
