package check_availability

import (
	"context"
	"fmt"

	"github.com/rentride/RR-BookingService/internal/domain"
)

// UseCase use case справочной проверки доступности окна.
// Не захватывает ничего: ответ "свободно" может устареть к моменту
// создания брони, атомарную гарантию дает только резервация
type UseCase struct {
	availability AvailabilityIndex
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(availability AvailabilityIndex, logger Logger) *UseCase {
	return &UseCase{
		availability: availability,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case проверки доступности
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CheckAvailability: vehicle=%d, window=[%s, %s)",
		req.VehicleID, req.StartAt.Format("2006-01-02 15:04"), req.EndAt.Format("2006-01-02 15:04"))

	// 1. Валидация входных данных
	if req.VehicleID <= 0 {
		return nil, fmt.Errorf("%w: vehicleID must be positive", ErrInvalidInput)
	}

	window, err := domain.NewWindow(req.StartAt, req.EndAt)
	if err != nil {
		uc.logger.Warn("CheckAvailability: invalid window for vehicle=%d", req.VehicleID)
		return nil, ErrInvalidWindow
	}

	// 2. Справочный запрос к календарному индексу
	free, err := uc.availability.IsFree(ctx, req.VehicleID, window)
	if err != nil {
		uc.logger.Error("CheckAvailability: failed to query index for vehicle=%d: %v", req.VehicleID, err)
		return nil, fmt.Errorf("%w: failed to query availability: %v", ErrInternal, err)
	}

	return &Response{
		VehicleID: req.VehicleID,
		StartAt:   window.StartAt,
		EndAt:     window.EndAt,
		Available: free,
		CheckedAt: uc.timeProvider.Now(),
	}, nil
}
