package transition_booking

import (
	"time"

	"github.com/rentride/RR-BookingService/internal/domain"
	transitionBooking "github.com/rentride/RR-BookingService/internal/usecase/transition_booking"
)

// TransitionRequest HTTP request model
type TransitionRequest struct {
	Event          string  `json:"event"`
	Reason         string  `json:"reason,omitempty"`
	VerifyToken    string  `json:"verifyToken,omitempty"`
	ConditionNotes *string `json:"conditionNotes,omitempty"`
}

// TransitionResponse HTTP response model
type TransitionResponse struct {
	Code        string `json:"code"`
	Status      string `json:"status"`
	Applied     bool   `json:"applied"`
	PaymentRef  string `json:"paymentRef,omitempty"`
	IssuedToken string `json:"issuedToken,omitempty"`
	ChangedAt   string `json:"changedAt,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *TransitionRequest) ToUseCaseRequest(code string, userID int64) (*transitionBooking.Request, error) {
	event, err := domain.ParseEvent(r.Event)
	if err != nil {
		return nil, err
	}

	return &transitionBooking.Request{
		Code:           code,
		Event:          event,
		ActorUserID:    userID,
		Reason:         r.Reason,
		VerifyToken:    r.VerifyToken,
		ConditionNotes: r.ConditionNotes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *transitionBooking.Response) *TransitionResponse {
	out := &TransitionResponse{
		Code:        resp.Code,
		Status:      resp.Status,
		Applied:     resp.Applied,
		PaymentRef:  resp.PaymentRef,
		IssuedToken: resp.IssuedToken,
	}

	if !resp.ChangedAt.IsZero() {
		out.ChangedAt = resp.ChangedAt.Format(time.RFC3339)
	}

	return out
}
