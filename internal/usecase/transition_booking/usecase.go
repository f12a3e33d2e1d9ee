package transition_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/rentride/RR-BookingService/internal/domain"
	otpStore "github.com/rentride/RR-BookingService/internal/infra/otp"
	bookingRepo "github.com/rentride/RR-BookingService/internal/infra/storage/booking"
	gatewayClient "github.com/rentride/RR-BookingService/internal/integrations/paymentgateway"
)

// eventActors определяет, кто имеет право инициировать событие.
// Платежные события приходят как от клиента, так и от системы
// (webhook-доставка от шлюза), передача машины подтверждается
// любой из сторон, присутствующих при ней
var eventActors = map[domain.Event]map[domain.Actor]bool{
	domain.EventOwnerConfirmed: {
		domain.ActorOwner:  true,
		domain.ActorSystem: true,
	},
	domain.EventPaymentInitiated: {
		domain.ActorCustomer: true,
		domain.ActorSystem:   true,
	},
	domain.EventPaymentSucceeded: {
		domain.ActorCustomer: true,
		domain.ActorSystem:   true,
	},
	domain.EventPickupVerified: {
		domain.ActorCustomer: true,
		domain.ActorOwner:    true,
		domain.ActorSystem:   true,
	},
	domain.EventDropoffVerified: {
		domain.ActorCustomer: true,
		domain.ActorOwner:    true,
		domain.ActorSystem:   true,
	},
	domain.EventRefundProcessed: {
		domain.ActorOwner:  true,
		domain.ActorSystem: true,
	},
	domain.EventDisputeRaised: {
		domain.ActorCustomer: true,
		domain.ActorOwner:    true,
	},
}

// UseCase use case перехода брони по жизненному циклу.
// Внешние вызовы (шлюз, проверка кода передачи) выполняются до
// транзакции, мутации БД - внутри нее с повторной проверкой статуса,
// поэтому гонка двух конкурентных событий не может применить оба
type UseCase struct {
	bookingRepo  BookingRepository
	availability AvailabilityIndex
	gateway      PaymentGatewayClient
	verifyStore  VerificationStore
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	availability AvailabilityIndex,
	gateway PaymentGatewayClient,
	verifyStore VerificationStore,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		availability: availability,
		gateway:      gateway,
		verifyStore:  verifyStore,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case перехода брони
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("TransitionBooking: code=%s, event=%s, actor=%d", req.Code, req.Event, req.ActorUserID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("TransitionBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Предварительное чтение: проверка прав, раннее обнаружение
	// повторной доставки и внешние побочные эффекты до транзакции
	b, err := uc.getBooking(ctx, req.Code)
	if err != nil {
		return nil, err
	}

	actor, err := resolveActor(b, req.ActorUserID)
	if err != nil {
		uc.logger.Warn("TransitionBooking: user=%d has no access to code=%s", req.ActorUserID, req.Code)
		return nil, err
	}

	if !eventActors[req.Event][actor] {
		uc.logger.Warn("TransitionBooking: actor=%s cannot trigger event=%s on code=%s", actor, req.Event, req.Code)
		return nil, ErrAccessDenied
	}

	_, applied, err := domain.ApplyEvent(b.Status, req.Event)
	if err != nil {
		uc.logger.Warn("TransitionBooking: event=%s rejected from status=%s for code=%s", req.Event, b.Status, req.Code)
		return nil, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	}
	if !applied {
		// Повторная доставка: успех без новой записи истории
		uc.logger.Info("TransitionBooking: duplicate event=%s for code=%s, already in status=%s", req.Event, req.Code, b.Status)
		return replayResponse(b), nil
	}

	// 3. Внешние эффекты события: платежный шлюз и проверка кода передачи.
	// Выполняются вне транзакции БД, чтобы не держать блокировку строки
	// на время сетевого вызова
	var paymentRef string

	switch req.Event {
	case domain.EventPaymentSucceeded:
		res, err := uc.gateway.Capture(ctx, b.Price.Total, b.Code)
		if err != nil {
			if errors.Is(err, gatewayClient.ErrPaymentDeclined) {
				uc.logger.Warn("TransitionBooking: capture declined for code=%s", req.Code)
				return nil, ErrPaymentFailed
			}
			uc.logger.Error("TransitionBooking: capture failed for code=%s: %v", req.Code, err)
			return nil, fmt.Errorf("%w: capture failed: %v", ErrInternal, err)
		}
		paymentRef = res.PaymentRef

	case domain.EventPickupVerified:
		if err := uc.verifyStore.Verify(pickupKey(b.Code), req.VerifyToken); err != nil {
			uc.logger.Warn("TransitionBooking: pickup verification failed for code=%s: %v", req.Code, err)
			return nil, ErrVerificationFailed
		}

	case domain.EventDropoffVerified:
		if err := uc.verifyStore.Verify(dropoffKey(b.Code), req.VerifyToken); err != nil {
			uc.logger.Warn("TransitionBooking: dropoff verification failed for code=%s: %v", req.Code, err)
			return nil, ErrVerificationFailed
		}

	case domain.EventRefundProcessed:
		if b.PaymentRef == nil {
			uc.logger.Warn("TransitionBooking: refund requested for code=%s without a captured payment", req.Code)
			return nil, ErrNoPaymentRef
		}
		if _, err := uc.gateway.Refund(ctx, *b.PaymentRef, b.Price.Total); err != nil {
			uc.logger.Error("TransitionBooking: refund failed for code=%s: %v", req.Code, err)
			return nil, fmt.Errorf("%w: refund failed: %v", ErrInternal, err)
		}
	}

	var result *Response

	// 4. Мутации в одной сериализуемой транзакции с повторным чтением:
	// статус мог уехать между предварительным чтением и этим моментом
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		fresh, err := uc.getBooking(txCtx, req.Code)
		if err != nil {
			return err
		}

		prev := fresh.Status

		next, applied, err := domain.ApplyEvent(prev, req.Event)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
		}
		if !applied {
			result = replayResponse(fresh)
			return nil
		}

		// 4.1. Переход статуса и запись истории как одно целое
		change := domain.StatusChange{
			Status:    next,
			Reason:    reasonFor(req),
			Actor:     actor,
			ChangedAt: now,
		}
		if err := uc.bookingRepo.UpdateStatus(txCtx, fresh.ID, next, change); err != nil {
			return fmt.Errorf("%w: failed to update status: %v", ErrInternal, err)
		}

		// 4.2. Побочные эффекты события в БД
		switch req.Event {
		case domain.EventPaymentSucceeded:
			if err := uc.bookingRepo.SetPaymentRef(txCtx, fresh.ID, paymentRef); err != nil {
				return fmt.Errorf("%w: failed to record payment ref: %v", ErrInternal, err)
			}

		case domain.EventPickupVerified:
			rec := &domain.PickupRecord{
				ScheduledAt:    fresh.Window.StartAt,
				VerifiedAt:     now,
				VerifyToken:    req.VerifyToken,
				ConditionNotes: req.ConditionNotes,
			}
			if err := uc.bookingRepo.SetPickup(txCtx, fresh.ID, rec); err != nil {
				return fmt.Errorf("%w: failed to record pickup: %v", ErrInternal, err)
			}

		case domain.EventDropoffVerified:
			rec := &domain.DropoffRecord{
				ScheduledAt:    fresh.Window.EndAt,
				VerifiedAt:     now,
				VerifyToken:    req.VerifyToken,
				ConditionNotes: req.ConditionNotes,
			}
			if err := uc.bookingRepo.SetDropoff(txCtx, fresh.ID, rec); err != nil {
				return fmt.Errorf("%w: failed to record dropoff: %v", ErrInternal, err)
			}
			// Холд больше не блокирует новые брони, но остается в индексе
			// как исторический
			if err := uc.availability.MarkHistorical(txCtx, fresh.VehicleID, fresh.Code); err != nil {
				return fmt.Errorf("%w: failed to mark hold historical: %v", ErrInternal, err)
			}

		case domain.EventRefundProcessed:
			// Возврат до пикапа освобождает окно; после завершения
			// аренды холд уже исторический
			if prev.HoldsCalendar() {
				if err := uc.availability.Release(txCtx, fresh.VehicleID, fresh.Code); err != nil {
					return fmt.Errorf("%w: failed to release hold: %v", ErrInternal, err)
				}
			}
		}

		result = &Response{
			Code:       fresh.Code,
			Status:     string(next),
			Applied:    true,
			PaymentRef: paymentRef,
			ChangedAt:  now,
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	// 5. Выдача одноразовых кодов передачи после фиксации перехода:
	// пикап-код появляется после оплаты, дропофф-код после пикапа
	if result.Applied {
		switch req.Event {
		case domain.EventPaymentSucceeded:
			token, err := uc.verifyStore.Issue(pickupKey(req.Code))
			if err != nil {
				uc.logger.Error("TransitionBooking: failed to issue pickup token for code=%s: %v", req.Code, err)
			} else {
				result.IssuedToken = token
			}
		case domain.EventPickupVerified:
			token, err := uc.verifyStore.Issue(dropoffKey(req.Code))
			if err != nil {
				uc.logger.Error("TransitionBooking: failed to issue dropoff token for code=%s: %v", req.Code, err)
			} else {
				result.IssuedToken = token
			}
		}
	}

	uc.logger.Info("TransitionBooking: code=%s, event=%s applied, status=%s", req.Code, req.Event, result.Status)

	return result, nil
}

// getBooking читает бронь, транслируя ошибку отсутствия
func (uc *UseCase) getBooking(ctx context.Context, code string) (*domain.Booking, error) {
	b, err := uc.bookingRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("TransitionBooking: failed to get booking code=%s: %v", code, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}
	return b, nil
}

// resolveActor определяет роль инициатора относительно брони.
// Нулевой userID означает системное событие (webhook, фоновый джоб)
func resolveActor(b *domain.Booking, userID int64) (domain.Actor, error) {
	switch userID {
	case 0:
		return domain.ActorSystem, nil
	case b.CustomerID:
		return domain.ActorCustomer, nil
	case b.OwnerID:
		return domain.ActorOwner, nil
	default:
		return "", ErrAccessDenied
	}
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Code == "" {
		return fmt.Errorf("%w: booking code is required", ErrInvalidInput)
	}

	if _, err := domain.ParseEvent(string(req.Event)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if req.Event == domain.EventCancellationRequested {
		return ErrUseCancelEndpoint
	}

	if req.ActorUserID < 0 {
		return fmt.Errorf("%w: actor user id cannot be negative", ErrInvalidInput)
	}

	if len(req.Reason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	if req.ConditionNotes != nil && len(*req.ConditionNotes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: condition notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// reasonFor возвращает причину для записи истории, по умолчанию имя события
func reasonFor(req *Request) string {
	if req.Reason != "" {
		return req.Reason
	}
	return string(req.Event)
}

func replayResponse(b *domain.Booking) *Response {
	return &Response{
		Code:    b.Code,
		Status:  string(b.Status),
		Applied: false,
	}
}

func pickupKey(code string) string {
	return otpStore.PickupKey(code)
}

func dropoffKey(code string) string {
	return otpStore.DropoffKey(code)
}
