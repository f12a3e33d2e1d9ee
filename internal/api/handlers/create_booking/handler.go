package create_booking

import (
	"errors"
	"net/http"

	"github.com/rentride/RR-BookingService/internal/api/handlers"
	"github.com/rentride/RR-BookingService/internal/api/middleware"
	createBooking "github.com/rentride/RR-BookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateTime    = "некорректный формат времени, ожидается RFC 3339"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgWindowConflict     = "окно пересекается с существующей бронью машины"
	msgInvalidWindow      = "конец окна должен быть строго позже начала"
	msgStartInPast        = "начало окна в прошлом"
	msgUnknownRateType    = "неизвестная тарифная гранулярность"
	msgRateNotOffered     = "машина не сдаётся по выбранному тарифу"
	msgCustomerNotFound   = "пользователь не найден"
	msgVehicleNotFound    = "машина не найдена"
	msgVehicleNotListed   = "объявление снято с публикации"
	msgInvalidInput       = "некорректные входные данные"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом времени)
	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrWindowConflict):
			h.logger.Warn("POST /bookings - Window conflict: user_id=%d, vehicle_id=%d", userID, req.VehicleID)
			handlers.RespondConflict(w, msgWindowConflict)

		case errors.Is(err, createBooking.ErrInvalidWindow):
			h.logger.Warn("POST /bookings - Invalid window: user_id=%d, vehicle_id=%d", userID, req.VehicleID)
			handlers.RespondBadRequest(w, msgInvalidWindow)

		case errors.Is(err, createBooking.ErrStartInPast):
			h.logger.Warn("POST /bookings - Start in past: user_id=%d, vehicle_id=%d", userID, req.VehicleID)
			handlers.RespondBadRequest(w, msgStartInPast)

		case errors.Is(err, createBooking.ErrUnknownRateType):
			h.logger.Warn("POST /bookings - Unknown rate type: user_id=%d, rate=%s", userID, req.RateType)
			handlers.RespondBadRequest(w, msgUnknownRateType)

		case errors.Is(err, createBooking.ErrRateNotOffered):
			h.logger.Warn("POST /bookings - Rate not offered: user_id=%d, vehicle_id=%d, rate=%s", userID, req.VehicleID, req.RateType)
			handlers.RespondUnprocessable(w, msgRateNotOffered)

		case errors.Is(err, createBooking.ErrCustomerNotFound):
			h.logger.Warn("POST /bookings - Customer not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgCustomerNotFound)

		case errors.Is(err, createBooking.ErrVehicleNotFound):
			h.logger.Warn("POST /bookings - Vehicle not found: vehicle_id=%d", req.VehicleID)
			handlers.RespondNotFound(w, msgVehicleNotFound)

		case errors.Is(err, createBooking.ErrVehicleNotListed):
			h.logger.Warn("POST /bookings - Vehicle not listed: vehicle_id=%d", req.VehicleID)
			handlers.RespondUnprocessable(w, msgVehicleNotListed)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, vehicle_id=%d, error=%v",
				userID, req.VehicleID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created successfully: code=%s, user_id=%d, vehicle_id=%d",
		result.Code, userID, req.VehicleID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
