package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/rentride/RR-BookingService/internal/domain"
	bookingRepo "github.com/rentride/RR-BookingService/internal/infra/storage/booking"
	listingClient "github.com/rentride/RR-BookingService/internal/integrations/listingservice"
	"github.com/rentride/RR-BookingService/internal/service/bookings/models"
)

// Service сервис чтения бронирований: карточка брони и списки
// для клиента и владельца машины
type Service struct {
	bookingRepo   BookingRepository
	listingClient ListingServiceClient
	logger        Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	listingClient ListingServiceClient,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:   bookingRepo,
		listingClient: listingClient,
		logger:        logger,
	}
}

// GetByCode получает бронирование по коду вместе с историей статусов.
// Доступно клиенту брони и владельцу машины
func (s *Service) GetByCode(ctx context.Context, code string, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByCode: fetching booking code=%s for user=%d", code, userID)

	booking, err := s.bookingRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByCode: booking code=%s not found", code)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByCode: repository error for booking code=%s: %v", code, err)
		return nil, fmt.Errorf("%w: GetByCode - repository error: %v", ErrInternal, err)
	}

	if booking.CustomerID != userID && booking.OwnerID != userID {
		s.logger.Warn("GetByCode: access denied for user=%d to booking code=%s", userID, code)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByCode: successfully fetched booking code=%s", code)
	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований клиента.
// Опционально фильтрует по статусу и периоду
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d", req.UserID)

	filter := domain.BookingFilter{
		CustomerID: &req.UserID,
		FromDate:   req.FromDate,
		ToDate:     req.ToDate,
	}

	if req.Status != nil {
		status, err := models.ToDomainStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &status
	}

	bookings, err := s.bookingRepo.ListWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// GetVehicleBookings получает брони машины.
// Доступно только владельцу машины: принадлежность проверяется
// через ListingService по текущему объявлению
func (s *Service) GetVehicleBookings(ctx context.Context, req *models.GetVehicleBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetVehicleBookings: fetching bookings for vehicle=%d, user=%d", req.VehicleID, req.UserID)

	if err := s.checkVehicleOwner(ctx, req.VehicleID, req.UserID); err != nil {
		return nil, err
	}

	filter := domain.BookingFilter{
		VehicleID: &req.VehicleID,
		FromDate:  req.FromDate,
		ToDate:    req.ToDate,
	}

	if req.Status != nil {
		status, err := models.ToDomainStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetVehicleBookings: invalid status=%s for vehicle=%d", *req.Status, req.VehicleID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &status
	}

	bookings, err := s.bookingRepo.ListWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetVehicleBookings: repository error for vehicle=%d: %v", req.VehicleID, err)
		return nil, fmt.Errorf("%w: GetVehicleBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetVehicleBookings: successfully fetched %d bookings for vehicle=%d", len(bookings), req.VehicleID)
	return models.FromDomainBookingList(bookings), nil
}

// checkVehicleOwner проверяет, что пользователь владеет машиной
func (s *Service) checkVehicleOwner(ctx context.Context, vehicleID, userID int64) error {
	vehicle, err := s.listingClient.GetVehicle(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, listingClient.ErrVehicleNotFound) {
			s.logger.Warn("checkVehicleOwner: vehicle id=%d not found", vehicleID)
			return ErrVehicleNotFound
		}
		s.logger.Error("checkVehicleOwner: failed to get vehicle id=%d: %v", vehicleID, err)
		return fmt.Errorf("%w: checkVehicleOwner - failed to get vehicle: %v", ErrInternal, err)
	}

	if vehicle.OwnerID != userID {
		s.logger.Warn("checkVehicleOwner: user=%d is not the owner of vehicle=%d", userID, vehicleID)
		return ErrAccessDenied
	}

	return nil
}
