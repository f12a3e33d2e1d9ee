package get_vehicle_bookings

import (
	"context"

	"github.com/rentride/RR-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	GetVehicleBookings(ctx context.Context, req *models.GetVehicleBookingsRequest) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
