package transition_booking

import (
	"context"
	"time"

	"github.com/rentride/RR-BookingService/internal/domain"
	"github.com/rentride/RR-BookingService/internal/integrations/paymentgateway"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.Status, change domain.StatusChange) error
	SetPaymentRef(ctx context.Context, id int64, paymentRef string) error
	SetPickup(ctx context.Context, id int64, rec *domain.PickupRecord) error
	SetDropoff(ctx context.Context, id int64, rec *domain.DropoffRecord) error
}

// AvailabilityIndex интерфейс календарного индекса
type AvailabilityIndex interface {
	Release(ctx context.Context, vehicleID int64, bookingCode string) error
	MarkHistorical(ctx context.Context, vehicleID int64, bookingCode string) error
}

// PaymentGatewayClient интерфейс клиента платежного шлюза.
// Движок только записывает результат, протокол оплаты не его забота
type PaymentGatewayClient interface {
	Capture(ctx context.Context, amount int64, bookingRef string) (*paymentgateway.PaymentResult, error)
	Refund(ctx context.Context, paymentRef string, amount int64) (*paymentgateway.RefundResult, error)
}

// VerificationStore интерфейс хранилища одноразовых кодов передачи машины
type VerificationStore interface {
	Issue(key string) (string, error)
	Verify(key, token string) error
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
