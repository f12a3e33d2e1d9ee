package get_vehicle_bookings

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/rentride/RR-BookingService/internal/api/handlers"
	"github.com/rentride/RR-BookingService/internal/api/middleware"
	"github.com/rentride/RR-BookingService/internal/service/bookings"
	"github.com/rentride/RR-BookingService/internal/service/bookings/models"
)

const (
	msgInvalidVehicleID = "некорректный ID машины"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgVehicleNotFound  = "машина не найдена"
	msgForbidden        = "доступ запрещен"
	msgInvalidStatus    = "некорректный статус"
	msgInvalidPeriod    = "некорректный формат периода, ожидается RFC 3339"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/vehicles/{vehicleId}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем vehicleId из URL
	vars := mux.Vars(r)
	vehicleIDStr := vars["vehicleId"]

	vehicleID, err := strconv.ParseInt(vehicleIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /vehicles/{vehicleId}/bookings - Invalid vehicle ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidVehicleID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /vehicles/{vehicleId}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Опциональные фильтры из query параметров
	serviceReq := &models.GetVehicleBookingsRequest{
		VehicleID: vehicleID,
		UserID:    userID,
	}

	if status := r.URL.Query().Get("status"); status != "" {
		serviceReq.Status = &status
	}

	from, to, err := parsePeriod(r)
	if err != nil {
		h.logger.Warn("GET /vehicles/{vehicleId}/bookings - Invalid period: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}
	serviceReq.FromDate = from
	serviceReq.ToDate = to

	// Получаем брони машины (сервис проверит, что запрашивает владелец)
	result, err := h.service.GetVehicleBookings(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrVehicleNotFound):
			h.logger.Warn("GET /vehicles/{vehicleId}/bookings - Vehicle not found: vehicle_id=%d", vehicleID)
			handlers.RespondNotFound(w, msgVehicleNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /vehicles/{vehicleId}/bookings - Access denied: vehicle_id=%d, user_id=%d", vehicleID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /vehicles/{vehicleId}/bookings - Invalid status: vehicle_id=%d", vehicleID)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("GET /vehicles/{vehicleId}/bookings - Failed to get bookings: vehicle_id=%d, error=%v",
				vehicleID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /vehicles/{vehicleId}/bookings - Bookings retrieved successfully: vehicle_id=%d, count=%d",
		vehicleID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// parsePeriod читает опциональные границы периода из query параметров
func parsePeriod(r *http.Request) (*time.Time, *time.Time, error) {
	var from, to *time.Time

	if raw := r.URL.Query().Get("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, nil, err
		}
		from = &t
	}

	if raw := r.URL.Query().Get("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, nil, err
		}
		to = &t
	}

	return from, to, nil
}
