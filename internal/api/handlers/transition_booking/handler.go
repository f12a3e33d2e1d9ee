package transition_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rentride/RR-BookingService/internal/api/handlers"
	"github.com/rentride/RR-BookingService/internal/api/middleware"
	transitionBooking "github.com/rentride/RR-BookingService/internal/usecase/transition_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgUnknownEvent       = "неизвестное событие жизненного цикла"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "бронирование не найдено"
	msgInvalidTransition  = "переход не разрешен из текущего статуса"
	msgForbidden          = "доступ запрещен"
	msgVerificationFailed = "неверный или истекший код передачи машины"
	msgPaymentFailed      = "платежный шлюз отклонил операцию"
	msgNoPaymentRef       = "по брони не зафиксирован платеж"
	msgUseCancelEndpoint  = "отмена выполняется через POST /bookings/{code}/cancel"
	msgInvalidInput       = "некорректные входные данные"
)

type Handler struct {
	useCase TransitionBookingUseCase
	logger  Logger
}

func NewHandler(useCase TransitionBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{code}/transition
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{code}/transition - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req TransitionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{code}/transition - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(code, userID)
	if err != nil {
		h.logger.Warn("POST /bookings/{code}/transition - Unknown event: code=%s, event=%s", code, req.Event)
		handlers.RespondBadRequest(w, msgUnknownEvent)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, transitionBooking.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{code}/transition - Booking not found: code=%s", code)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, transitionBooking.ErrInvalidTransition):
			h.logger.Warn("POST /bookings/{code}/transition - Invalid transition: code=%s, event=%s", code, req.Event)
			handlers.RespondConflict(w, msgInvalidTransition)

		case errors.Is(err, transitionBooking.ErrAccessDenied):
			h.logger.Warn("POST /bookings/{code}/transition - Access denied: code=%s, user_id=%d, event=%s", code, userID, req.Event)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, transitionBooking.ErrVerificationFailed):
			h.logger.Warn("POST /bookings/{code}/transition - Verification failed: code=%s, event=%s", code, req.Event)
			handlers.RespondUnprocessable(w, msgVerificationFailed)

		case errors.Is(err, transitionBooking.ErrPaymentFailed):
			h.logger.Warn("POST /bookings/{code}/transition - Payment failed: code=%s", code)
			handlers.RespondUnprocessable(w, msgPaymentFailed)

		case errors.Is(err, transitionBooking.ErrNoPaymentRef):
			h.logger.Warn("POST /bookings/{code}/transition - No payment ref: code=%s", code)
			handlers.RespondUnprocessable(w, msgNoPaymentRef)

		case errors.Is(err, transitionBooking.ErrUseCancelEndpoint):
			h.logger.Warn("POST /bookings/{code}/transition - Cancellation via transition: code=%s", code)
			handlers.RespondBadRequest(w, msgUseCancelEndpoint)

		case errors.Is(err, transitionBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings/{code}/transition - Invalid input: code=%s, error=%v", code, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings/{code}/transition - Failed: code=%s, event=%s, error=%v", code, req.Event, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{code}/transition - Done: code=%s, event=%s, status=%s, applied=%t",
		code, req.Event, result.Status, result.Applied)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
