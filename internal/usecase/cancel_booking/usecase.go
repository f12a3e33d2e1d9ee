package cancel_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/rentride/RR-BookingService/internal/domain"
	bookingRepo "github.com/rentride/RR-BookingService/internal/infra/storage/booking"
)

// UseCase use case отмены бронирования.
// Проверка статуса, расчет штрафа, переход в cancelled и снятие холда
// выполняются в одной сериализуемой транзакции: отмена не может
// гоняться с конкурентным TryReserve на ту же машину
type UseCase struct {
	bookingRepo  BookingRepository
	availability AvailabilityIndex
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	availability AvailabilityIndex,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		availability: availability,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case отмены бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelBooking: code=%s, actor=%d", req.Code, req.ActorUserID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	var result *Response

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2. Читаем бронь с блокировкой строки
		b, err := uc.bookingRepo.GetByCode(txCtx, req.Code)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("CancelBooking: booking code=%s not found", req.Code)
				return ErrBookingNotFound
			}
			uc.logger.Error("CancelBooking: failed to get booking code=%s: %v", req.Code, err)
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		// 3. Определяем инициатора: клиент или владелец
		var actor domain.Actor
		switch req.ActorUserID {
		case b.CustomerID:
			actor = domain.ActorCustomer
		case b.OwnerID:
			actor = domain.ActorOwner
		default:
			uc.logger.Warn("CancelBooking: user=%d is neither customer nor owner of code=%s", req.ActorUserID, req.Code)
			return ErrAccessDenied
		}

		// 4. Отменяемы только pre-pickup нетерминальные статусы
		if !b.CanBeCancelled() {
			uc.logger.Warn("CancelBooking: code=%s cannot be cancelled, status=%s", req.Code, b.Status)
			return ErrCannotCancel
		}

		// 5. Штраф по политике отмены: депозит штрафу не подлежит
		split := domain.SplitRefund(now, b.Window.StartAt, b.Price)

		// 6. Переход в cancelled с записью истории
		change := domain.StatusChange{
			Status:    domain.StatusCancelled,
			Reason:    req.Reason,
			Actor:     actor,
			ChangedAt: now,
		}
		if err := uc.bookingRepo.UpdateStatus(txCtx, b.ID, domain.StatusCancelled, change); err != nil {
			uc.logger.Error("CancelBooking: failed to update status for code=%s: %v", req.Code, err)
			return fmt.Errorf("%w: failed to update status: %v", ErrInternal, err)
		}

		// 7. Иммутабельная подзапись отмены с разделением возврат/штраф
		rec := &domain.CancellationRecord{
			CancelledBy:  actor,
			CancelledAt:  now,
			Reason:       req.Reason,
			FeeAmount:    split.Fee,
			RefundAmount: split.Refund,
		}
		if err := uc.bookingRepo.SetCancellation(txCtx, b.ID, rec); err != nil {
			uc.logger.Error("CancelBooking: failed to write cancellation record for code=%s: %v", req.Code, err)
			return fmt.Errorf("%w: failed to write cancellation record: %v", ErrInternal, err)
		}

		// 8. Снимаем календарный холд
		if err := uc.availability.Release(txCtx, b.VehicleID, b.Code); err != nil {
			uc.logger.Error("CancelBooking: failed to release hold for code=%s: %v", req.Code, err)
			return fmt.Errorf("%w: failed to release hold: %v", ErrInternal, err)
		}

		result = &Response{
			Code:         b.Code,
			Status:       string(domain.StatusCancelled),
			CancelledBy:  string(actor),
			CancelledAt:  now,
			Reason:       req.Reason,
			FeeAmount:    split.Fee,
			RefundAmount: split.Refund,
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CancelBooking: successfully cancelled code=%s, fee=%d, refund=%d",
		result.Code, result.FeeAmount, result.RefundAmount)

	return result, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Code == "" {
		return fmt.Errorf("%w: booking code is required", ErrInvalidInput)
	}

	if req.ActorUserID <= 0 {
		return fmt.Errorf("%w: actor user id must be positive", ErrInvalidInput)
	}

	if len(req.Reason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	return nil
}
