package create_booking

import (
	"time"

	"github.com/rentride/RR-BookingService/internal/domain"
	createBooking "github.com/rentride/RR-BookingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	VehicleID int64   `json:"vehicleId"`
	StartAt   string  `json:"startAt"`  // RFC 3339, например "2026-09-10T09:00:00Z"
	EndAt     string  `json:"endAt"`    // RFC 3339
	RateType  string  `json:"rateType"` // hourly | daily | weekly | monthly
	Discount  int64   `json:"discount,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// PriceResponse ценовой снимок в HTTP ответе
type PriceResponse struct {
	RateType   string `json:"rateType"`
	BaseRate   int64  `json:"baseRate"`
	Quantity   int64  `json:"quantity"`
	Subtotal   int64  `json:"subtotal"`
	Discount   int64  `json:"discount"`
	GST        int64  `json:"gst"`
	ServiceTax int64  `json:"serviceTax"`
	Deposit    int64  `json:"deposit"`
	Total      int64  `json:"total"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID         int64         `json:"id"`
	Code       string        `json:"code"`
	CustomerID int64         `json:"customerId"`
	VehicleID  int64         `json:"vehicleId"`
	OwnerID    int64         `json:"ownerId"`
	StartAt    string        `json:"startAt"`
	EndAt      string        `json:"endAt"`
	Status     string        `json:"status"`
	Price      PriceResponse `json:"price"`
	Notes      *string       `json:"notes,omitempty"`
	CreatedAt  string        `json:"createdAt"`
	UpdatedAt  string        `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(customerID int64) (*createBooking.Request, error) {
	startAt, err := time.Parse(time.RFC3339, r.StartAt)
	if err != nil {
		return nil, err
	}

	endAt, err := time.Parse(time.RFC3339, r.EndAt)
	if err != nil {
		return nil, err
	}

	// Тарифную гранулярность проверяет use case (ErrUnknownRateType)
	return &createBooking.Request{
		CustomerID: customerID,
		VehicleID:  r.VehicleID,
		StartAt:    startAt,
		EndAt:      endAt,
		RateType:   domain.RateType(r.RateType),
		Discount:   r.Discount,
		Notes:      r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:         resp.ID,
		Code:       resp.Code,
		CustomerID: resp.CustomerID,
		VehicleID:  resp.VehicleID,
		OwnerID:    resp.OwnerID,
		StartAt:    resp.StartAt.Format(time.RFC3339),
		EndAt:      resp.EndAt.Format(time.RFC3339),
		Status:     resp.Status,
		Price: PriceResponse{
			RateType:   resp.RateType,
			BaseRate:   resp.BaseRate,
			Quantity:   resp.Quantity,
			Subtotal:   resp.Subtotal,
			Discount:   resp.Discount,
			GST:        resp.GST,
			ServiceTax: resp.ServiceTax,
			Deposit:    resp.Deposit,
			Total:      resp.Total,
		},
		Notes:     resp.Notes,
		CreatedAt: resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt: resp.UpdatedAt.Format(time.RFC3339),
	}
}
