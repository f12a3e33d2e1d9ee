package models

import (
	"errors"
	"time"

	"github.com/rentride/RR-BookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// GetUserBookingsRequest запрос на историю бронирований клиента
type GetUserBookingsRequest struct {
	UserID   int64      `json:"userId"`
	Status   *string    `json:"status,omitempty"`
	FromDate *time.Time `json:"fromDate,omitempty"`
	ToDate   *time.Time `json:"toDate,omitempty"`
}

// GetVehicleBookingsRequest запрос на брони конкретной машины.
// Доступно только владельцу машины
type GetVehicleBookingsRequest struct {
	VehicleID int64      `json:"vehicleId"`
	UserID    int64      `json:"userId"`
	Status    *string    `json:"status,omitempty"`
	FromDate  *time.Time `json:"fromDate,omitempty"`
	ToDate    *time.Time `json:"toDate,omitempty"`
}

// Response модели

// PriceResponse ценовой снимок брони
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

// StatusChangeResponse одна запись истории статусов
type StatusChangeResponse struct {
	Status    string    `json:"status"`
	Reason    string    `json:"reason"`
	Actor     string    `json:"actor"`
	ChangedAt time.Time `json:"changedAt"`
}

// HandoverResponse подзапись передачи машины (пикап или дропофф)
type HandoverResponse struct {
	ScheduledAt    time.Time `json:"scheduledAt"`
	VerifiedAt     time.Time `json:"verifiedAt"`
	ConditionNotes *string   `json:"conditionNotes,omitempty"`
}

// CancellationResponse подзапись отмены
type CancellationResponse struct {
	CancelledBy  string    `json:"cancelledBy"`
	CancelledAt  time.Time `json:"cancelledAt"`
	Reason       string    `json:"reason,omitempty"`
	FeeAmount    int64     `json:"feeAmount"`
	RefundAmount int64     `json:"refundAmount"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID         int64     `json:"id"`
	Code       string    `json:"code"`
	CustomerID int64     `json:"customerId"`
	VehicleID  int64     `json:"vehicleId"`
	OwnerID    int64     `json:"ownerId"`
	StartAt    time.Time `json:"startAt"`
	EndAt      time.Time `json:"endAt"`
	Status     string    `json:"status"`

	Price PriceResponse `json:"price"`

	History []StatusChangeResponse `json:"history,omitempty"`

	Pickup       *HandoverResponse     `json:"pickup,omitempty"`
	Dropoff      *HandoverResponse     `json:"dropoff,omitempty"`
	Cancellation *CancellationResponse `json:"cancellation,omitempty"`

	PaymentRef *string `json:"paymentRef,omitempty"`
	Notes      *string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:         b.ID,
		Code:       b.Code,
		CustomerID: b.CustomerID,
		VehicleID:  b.VehicleID,
		OwnerID:    b.OwnerID,
		StartAt:    b.Window.StartAt,
		EndAt:      b.Window.EndAt,
		Status:     string(b.Status),
		Price: PriceResponse{
			RateType:   string(b.Price.RateType),
			BaseRate:   b.Price.BaseRate,
			Quantity:   b.Price.Quantity,
			Subtotal:   b.Price.Subtotal,
			Discount:   b.Price.Discount,
			GST:        b.Price.GST,
			ServiceTax: b.Price.ServiceTax,
			Deposit:    b.Price.Deposit,
			Total:      b.Price.Total,
		},
		PaymentRef: b.PaymentRef,
		Notes:      b.Notes,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}

	for _, change := range b.History {
		resp.History = append(resp.History, StatusChangeResponse{
			Status:    string(change.Status),
			Reason:    change.Reason,
			Actor:     string(change.Actor),
			ChangedAt: change.ChangedAt,
		})
	}

	if b.Pickup != nil {
		resp.Pickup = &HandoverResponse{
			ScheduledAt:    b.Pickup.ScheduledAt,
			VerifiedAt:     b.Pickup.VerifiedAt,
			ConditionNotes: b.Pickup.ConditionNotes,
		}
	}
	if b.Dropoff != nil {
		resp.Dropoff = &HandoverResponse{
			ScheduledAt:    b.Dropoff.ScheduledAt,
			VerifiedAt:     b.Dropoff.VerifiedAt,
			ConditionNotes: b.Dropoff.ConditionNotes,
		}
	}
	if b.Cancellation != nil {
		resp.Cancellation = &CancellationResponse{
			CancelledBy:  string(b.Cancellation.CancelledBy),
			CancelledAt:  b.Cancellation.CancelledAt,
			Reason:       b.Cancellation.Reason,
			FeeAmount:    b.Cancellation.FeeAmount,
			RefundAmount: b.Cancellation.RefundAmount,
		}
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainStatus конвертирует строку в domain.Status с валидацией
func ToDomainStatus(status string) (domain.Status, error) {
	s, err := domain.ParseStatus(status)
	if err != nil {
		return "", ErrInvalidStatus
	}
	return s, nil
}
