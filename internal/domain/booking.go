package domain

import (
	"fmt"
	"time"
)

// Actor identifies who triggered a lifecycle change
type Actor string

const (
	ActorCustomer Actor = "customer"
	ActorOwner    Actor = "owner"
	ActorSystem   Actor = "system"
)

// Booking represents a vehicle rental reservation.
// Owner and pricing are denormalized snapshots captured at creation time:
// the booking must survive later mutation of the vehicle listing.
type Booking struct {
	ID   int64
	Code string // human-readable, e.g. RR2608280042

	CustomerID int64
	VehicleID  int64
	OwnerID    int64 // snapshot of the vehicle's owner at creation

	Window Window

	Price  PriceBreakdown
	Status Status

	// Ordered, append-only history of every accepted transition
	History []StatusChange

	Pickup       *PickupRecord
	Dropoff      *DropoffRecord
	Cancellation *CancellationRecord

	PaymentRef *string
	Notes      *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StatusChange is one entry of the append-only status history
type StatusChange struct {
	Status    Status
	Reason    string
	Actor     Actor
	ChangedAt time.Time
}

// PickupRecord is written once when pickup is verified
type PickupRecord struct {
	ScheduledAt    time.Time
	VerifiedAt     time.Time
	VerifyToken    string
	ConditionNotes *string
}

// DropoffRecord is written once when dropoff is verified
type DropoffRecord struct {
	ScheduledAt    time.Time
	VerifiedAt     time.Time
	VerifyToken    string
	ConditionNotes *string
}

// CancellationRecord is written once on cancellation and immutable after
type CancellationRecord struct {
	CancelledBy  Actor
	CancelledAt  time.Time
	Reason       string
	FeeAmount    int64
	RefundAmount int64
}

// CanBeCancelled returns true while the booking is in a cancellable state
func (b *Booking) CanBeCancelled() bool {
	return b.Status.CanBeCancelled()
}

// HoldsCalendar returns true while the booking's window occupies the
// availability index
func (b *Booking) HoldsCalendar() bool {
	return b.Status.HoldsCalendar()
}

// IsTerminal returns true once the booking reached a final status
func (b *Booking) IsTerminal() bool {
	return b.Status.IsTerminal()
}

// BuildCode formats a booking code from the creation date and the daily
// sequence number: prefix + YYMMDD + zero-padded 4-digit sequence
func BuildCode(day time.Time, seq int64) string {
	return fmt.Sprintf("%s%s%04d", CodePrefix, day.UTC().Format("060102"), seq)
}

// BookingFilter narrows history queries for a customer or a vehicle
type BookingFilter struct {
	CustomerID *int64
	VehicleID  *int64
	OwnerID    *int64
	Status     *Status
	FromDate   *time.Time
	ToDate     *time.Time
}
