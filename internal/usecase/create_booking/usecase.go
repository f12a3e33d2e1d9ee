package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/rentride/RR-BookingService/internal/domain"
	availabilityRepo "github.com/rentride/RR-BookingService/internal/infra/storage/availability"
	identityClient "github.com/rentride/RR-BookingService/internal/integrations/identityservice"
	listingClient "github.com/rentride/RR-BookingService/internal/integrations/listingservice"
)

// UseCase use case создания бронирования: оркестратор резервации.
// Проверка окна, захват холда, расчет цены и вставка брони выполняются
// в одной сериализуемой транзакции, поэтому два конкурентных запроса
// на пересекающиеся окна не могут оба увидеть "свободно" и оба пройти
type UseCase struct {
	bookingRepo    BookingRepository
	availability   AvailabilityIndex
	listingClient  ListingServiceClient
	identityClient IdentityServiceClient
	txManager      TransactionManager
	timeProvider   TimeProvider
	policy         Policy
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	availability AvailabilityIndex,
	listingClient ListingServiceClient,
	identityClient IdentityServiceClient,
	txManager TransactionManager,
	policy Policy,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:    bookingRepo,
		availability:   availability,
		listingClient:  listingClient,
		identityClient: identityClient,
		txManager:      txManager,
		timeProvider:   &RealTimeProvider{},
		policy:         policy,
		logger:         logger,
	}
}

// Execute выполняет use case создания бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: customer=%d, vehicle=%d, window=[%s, %s), rate=%s",
		req.CustomerID, req.VehicleID, req.StartAt.Format("2006-01-02 15:04"), req.EndAt.Format("2006-01-02 15:04"), req.RateType)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время и валидируем окно
	now := uc.timeProvider.Now()

	window, err := validateWindow(req, now, uc.policy.PastStartGrace)
	if err != nil {
		uc.logger.Warn("CreateBooking: window validation failed: %v", err)
		return nil, err
	}

	// 3. Проверяем существование клиента
	if _, err := uc.identityClient.GetUser(ctx, req.CustomerID); err != nil {
		if errors.Is(err, identityClient.ErrUserNotFound) {
			uc.logger.Warn("CreateBooking: customer id=%d not found", req.CustomerID)
			return nil, ErrCustomerNotFound
		}
		uc.logger.Error("CreateBooking: failed to get customer id=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: failed to get customer: %v", ErrInternal, err)
	}

	// 4. Получаем объявление машины с тарифной таблицей
	vehicle, err := uc.listingClient.GetVehicle(ctx, req.VehicleID)
	if err != nil {
		if errors.Is(err, listingClient.ErrVehicleNotFound) {
			uc.logger.Warn("CreateBooking: vehicle id=%d not found", req.VehicleID)
			return nil, ErrVehicleNotFound
		}
		uc.logger.Error("CreateBooking: failed to get vehicle id=%d: %v", req.VehicleID, err)
		return nil, fmt.Errorf("%w: failed to get vehicle: %v", ErrInternal, err)
	}

	if !vehicle.IsListed() {
		uc.logger.Warn("CreateBooking: vehicle id=%d is not listed (status=%s)", req.VehicleID, vehicle.Status)
		return nil, ErrVehicleNotListed
	}

	// 5. Тариф машины для запрошенной гранулярности
	baseRate, err := vehicle.RateFor(req.RateType)
	if err != nil {
		uc.logger.Warn("CreateBooking: vehicle id=%d does not offer rate=%s", req.VehicleID, req.RateType)
		return nil, ErrRateNotOffered
	}

	// 6. Количество единиц тарифа из окна
	quantity, err := quantityForWindow(window, req.RateType)
	if err != nil {
		uc.logger.Warn("CreateBooking: quantity derivation failed: %v", err)
		return nil, err
	}

	// 7. Ценовой снимок: считается один раз при создании,
	// последующие изменения тарифов машины на бронь не влияют
	price, err := domain.CalculatePrice(domain.PriceInput{
		RateType:  req.RateType,
		BaseRate:  baseRate,
		Quantity:  quantity,
		Discount:  req.Discount,
		Deposit:   vehicle.SecurityDeposit,
		GSTBp:     uc.policy.GSTBasisPoints,
		ServiceBp: uc.policy.ServiceTaxBasisPoints,
	})
	if err != nil {
		uc.logger.Warn("CreateBooking: price calculation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var result *domain.Booking

	// 8. Холд, код и бронь создаются в одной сериализуемой транзакции.
	// Если что-то после захвата холда падает, транзакция откатывается
	// целиком - осиротевших холдов не остается
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 8.1. Код брони: RR + YYMMDD + дневной порядковый номер
		seq, err := uc.bookingRepo.NextCodeSeq(txCtx, now)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get code sequence: %v", err)
			return fmt.Errorf("%w: failed to get code sequence: %v", ErrInternal, err)
		}
		code := domain.BuildCode(now, seq)

		// 8.2. Атомарная проверка и захват окна
		if err := uc.availability.TryReserve(txCtx, req.VehicleID, window, code); err != nil {
			if errors.Is(err, availabilityRepo.ErrWindowConflict) {
				uc.logger.Warn("CreateBooking: window conflict for vehicle=%d, window=[%s, %s)",
					req.VehicleID, window.StartAt.Format("2006-01-02 15:04"), window.EndAt.Format("2006-01-02 15:04"))
				return ErrWindowConflict
			}
			uc.logger.Error("CreateBooking: failed to reserve window: %v", err)
			return fmt.Errorf("%w: failed to reserve window: %v", ErrInternal, err)
		}

		// 8.3. Создаем бронь в pending с первой записью истории
		booking := &domain.Booking{
			Code:       code,
			CustomerID: req.CustomerID,
			VehicleID:  req.VehicleID,
			// Владелец денормализуется из объявления на момент создания,
			// чтобы бронь пережила последующие изменения машины
			OwnerID: vehicle.OwnerID,
			Window:  window,
			Price:   price,
			Status:  domain.StatusPending,
			History: []domain.StatusChange{
				{
					Status:    domain.StatusPending,
					Reason:    "reservation accepted",
					Actor:     domain.ActorCustomer,
					ChangedAt: now,
				},
			},
			Notes: req.Notes,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking code=%s, total=%d", result.Code, result.Price.Total)

	return fromDomain(result), nil
}
