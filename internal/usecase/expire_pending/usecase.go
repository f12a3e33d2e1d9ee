package expire_pending

import (
	"context"
	"fmt"
	"time"

	"github.com/rentride/RR-BookingService/internal/domain"
)

const expiryReason = "pending hold expired"

// UseCase use case зачистки pending-броней, не подтвержденных владельцем
// за отведенное время. Каждая бронь отменяется в собственной транзакции
// с повторной проверкой статуса: подтверждение, пришедшее между выборкой
// и отменой, выигрывает
type UseCase struct {
	bookingRepo  BookingRepository
	availability AvailabilityIndex
	txManager    TransactionManager
	timeProvider TimeProvider
	ttl          time.Duration
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	availability AvailabilityIndex,
	txManager TransactionManager,
	ttl time.Duration,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		availability: availability,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		ttl:          ttl,
		logger:       logger,
	}
}

// Execute выполняет один проход зачистки
func (uc *UseCase) Execute(ctx context.Context) (*Response, error) {
	now := uc.timeProvider.Now()
	deadline := now.Add(-uc.ttl)

	// 1. Выборка кандидатов вне транзакции
	expired, err := uc.bookingRepo.ListExpiredPending(ctx, deadline)
	if err != nil {
		uc.logger.Error("ExpirePending: failed to list expired bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to list expired bookings: %v", ErrInternal, err)
	}

	if len(expired) == 0 {
		return &Response{}, nil
	}

	uc.logger.Info("ExpirePending: found %d pending bookings older than %s", len(expired), uc.ttl)

	resp := &Response{}

	// 2. Каждая бронь отменяется отдельно: сбой на одной не мешает
	// остальным
	for _, candidate := range expired {
		err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
			b, err := uc.bookingRepo.GetByCode(txCtx, candidate.Code)
			if err != nil {
				return fmt.Errorf("failed to get booking: %w", err)
			}

			// Подтверждение могло прийти между выборкой и этой транзакцией
			if b.Status != domain.StatusPending {
				resp.Skipped++
				return nil
			}

			change := domain.StatusChange{
				Status:    domain.StatusCancelled,
				Reason:    expiryReason,
				Actor:     domain.ActorSystem,
				ChangedAt: now,
			}
			if err := uc.bookingRepo.UpdateStatus(txCtx, b.ID, domain.StatusCancelled, change); err != nil {
				return fmt.Errorf("failed to update status: %w", err)
			}

			// Деньги еще не списывались: штраф и возврат нулевые
			rec := &domain.CancellationRecord{
				CancelledBy: domain.ActorSystem,
				CancelledAt: now,
				Reason:      expiryReason,
			}
			if err := uc.bookingRepo.SetCancellation(txCtx, b.ID, rec); err != nil {
				return fmt.Errorf("failed to write cancellation record: %w", err)
			}

			if err := uc.availability.Release(txCtx, b.VehicleID, b.Code); err != nil {
				return fmt.Errorf("failed to release hold: %w", err)
			}

			resp.Expired = append(resp.Expired, b.Code)
			return nil
		})
		if err != nil {
			uc.logger.Error("ExpirePending: failed to expire booking code=%s: %v", candidate.Code, err)
		}
	}

	uc.logger.Info("ExpirePending: expired %d bookings, skipped %d", len(resp.Expired), resp.Skipped)

	return resp, nil
}
