package get_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rentride/RR-BookingService/internal/api/handlers"
	"github.com/rentride/RR-BookingService/internal/api/middleware"
	"github.com/rentride/RR-BookingService/internal/service/bookings"
)

const (
	msgMissingCode   = "отсутствует код бронирования"
	msgNotFound      = "бронирование не найдено"
	msgMissingUserID = "отсутствует ID пользователя"
	msgForbidden     = "доступ запрещен"
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

// Handle GET /api/v1/bookings/{code}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	if code == "" {
		h.logger.Warn("GET /bookings/{code} - Missing booking code")
		handlers.RespondBadRequest(w, msgMissingCode)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /bookings/{code} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Получаем бронирование (сервис сам проверит права доступа)
	booking, err := h.service.GetByCode(r.Context(), code, userID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("GET /bookings/{code} - Booking not found: code=%s", code)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /bookings/{code} - Access denied: code=%s, user_id=%d", code, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /bookings/{code} - Failed to get booking: code=%s, error=%v", code, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /bookings/{code} - Booking retrieved successfully: code=%s, user_id=%d", code, userID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
