package cancel_booking

import (
	"time"

	cancelBooking "github.com/rentride/RR-BookingService/internal/usecase/cancel_booking"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	Reason string `json:"reason,omitempty"`
}

// CancellationResponse HTTP response model с разделением возврат/штраф
type CancellationResponse struct {
	Code         string `json:"code"`
	Status       string `json:"status"`
	CancelledBy  string `json:"cancelledBy"`
	CancelledAt  string `json:"cancelledAt"`
	Reason       string `json:"reason,omitempty"`
	FeeAmount    int64  `json:"feeAmount"`
	RefundAmount int64  `json:"refundAmount"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelBooking.Response) *CancellationResponse {
	return &CancellationResponse{
		Code:         resp.Code,
		Status:       resp.Status,
		CancelledBy:  resp.CancelledBy,
		CancelledAt:  resp.CancelledAt.Format(time.RFC3339),
		Reason:       resp.Reason,
		FeeAmount:    resp.FeeAmount,
		RefundAmount: resp.RefundAmount,
	}
}
