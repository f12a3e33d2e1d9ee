package check_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/rentride/RR-BookingService/internal/api/handlers"
	checkAvailability "github.com/rentride/RR-BookingService/internal/usecase/check_availability"
)

const (
	msgInvalidVehicleID = "некорректный ID машины"
	msgMissingPeriod    = "параметры from и to обязательны"
	msgInvalidPeriod    = "некорректный формат времени, ожидается RFC 3339"
	msgInvalidWindow    = "конец окна должен быть строго позже начала"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	VehicleID int64  `json:"vehicleId"`
	StartAt   string `json:"startAt"`
	EndAt     string `json:"endAt"`
	Available bool   `json:"available"`
	CheckedAt string `json:"checkedAt"`
}

type Handler struct {
	useCase CheckAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase CheckAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/vehicles/{vehicleId}/availability?from=...&to=...
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	vehicleIDStr := vars["vehicleId"]

	vehicleID, err := strconv.ParseInt(vehicleIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /vehicles/{vehicleId}/availability - Invalid vehicle ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidVehicleID)
		return
	}

	fromStr := r.URL.Query().Get("from")
	toStr := r.URL.Query().Get("to")
	if fromStr == "" || toStr == "" {
		h.logger.Warn("GET /vehicles/{vehicleId}/availability - Missing period: vehicle_id=%d", vehicleID)
		handlers.RespondBadRequest(w, msgMissingPeriod)
		return
	}

	from, err := time.Parse(time.RFC3339, fromStr)
	if err != nil {
		h.logger.Warn("GET /vehicles/{vehicleId}/availability - Invalid from: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	to, err := time.Parse(time.RFC3339, toStr)
	if err != nil {
		h.logger.Warn("GET /vehicles/{vehicleId}/availability - Invalid to: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &checkAvailability.Request{
		VehicleID: vehicleID,
		StartAt:   from,
		EndAt:     to,
	})
	if err != nil {
		switch {
		case errors.Is(err, checkAvailability.ErrInvalidWindow):
			h.logger.Warn("GET /vehicles/{vehicleId}/availability - Invalid window: vehicle_id=%d", vehicleID)
			handlers.RespondBadRequest(w, msgInvalidWindow)

		case errors.Is(err, checkAvailability.ErrInvalidInput):
			h.logger.Warn("GET /vehicles/{vehicleId}/availability - Invalid input: vehicle_id=%d", vehicleID)
			handlers.RespondBadRequest(w, msgInvalidVehicleID)

		default:
			h.logger.Error("GET /vehicles/{vehicleId}/availability - Failed: vehicle_id=%d, error=%v", vehicleID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /vehicles/{vehicleId}/availability - Checked: vehicle_id=%d, available=%t",
		vehicleID, result.Available)
	handlers.RespondJSON(w, http.StatusOK, &AvailabilityResponse{
		VehicleID: result.VehicleID,
		StartAt:   result.StartAt.Format(time.RFC3339),
		EndAt:     result.EndAt.Format(time.RFC3339),
		Available: result.Available,
		CheckedAt: result.CheckedAt.Format(time.RFC3339),
	})
}
