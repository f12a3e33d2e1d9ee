package cancel_booking

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rentride/RR-BookingService/internal/api/handlers"
	"github.com/rentride/RR-BookingService/internal/api/middleware"
	cancelBooking "github.com/rentride/RR-BookingService/internal/usecase/cancel_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "бронирование не найдено"
	msgCannotCancel       = "бронирование в этом статусе нельзя отменить"
	msgForbidden          = "доступ запрещен"
	msgInvalidInput       = "некорректные входные данные"
)

type Handler struct {
	useCase CancelBookingUseCase
	logger  Logger
}

func NewHandler(useCase CancelBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{code}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{code}/cancel - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Тело с причиной опционально
	var req CancelBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("POST /bookings/{code}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &cancelBooking.Request{
		Code:        code,
		ActorUserID: userID,
		Reason:      req.Reason,
	})
	if err != nil {
		switch {
		case errors.Is(err, cancelBooking.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{code}/cancel - Booking not found: code=%s", code)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, cancelBooking.ErrCannotCancel):
			h.logger.Warn("POST /bookings/{code}/cancel - Cannot cancel: code=%s, user_id=%d", code, userID)
			handlers.RespondConflict(w, msgCannotCancel)

		case errors.Is(err, cancelBooking.ErrAccessDenied):
			h.logger.Warn("POST /bookings/{code}/cancel - Access denied: code=%s, user_id=%d", code, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, cancelBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings/{code}/cancel - Invalid input: code=%s, error=%v", code, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings/{code}/cancel - Failed to cancel: code=%s, user_id=%d, error=%v",
				code, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{code}/cancel - Booking cancelled: code=%s, user_id=%d, fee=%d, refund=%d",
		code, userID, result.FeeAmount, result.RefundAmount)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
