package domain

import "fmt"

// Status represents the lifecycle status of a booking
type Status string

const (
	StatusPending        Status = "pending"
	StatusConfirmed      Status = "confirmed"
	StatusPaymentPending Status = "payment_pending"
	StatusPaid           Status = "paid"
	StatusActive         Status = "active"
	StatusCompleted      Status = "completed"
	StatusCancelled      Status = "cancelled"
	StatusRefunded       Status = "refunded"
	StatusDisputed       Status = "disputed"
)

// Event represents a lifecycle event driving a status transition
type Event string

const (
	EventOwnerConfirmed        Event = "owner_confirmed"
	EventPaymentInitiated      Event = "payment_initiated"
	EventPaymentSucceeded      Event = "payment_succeeded"
	EventPickupVerified        Event = "pickup_verified"
	EventDropoffVerified       Event = "dropoff_verified"
	EventCancellationRequested Event = "cancellation_requested"
	EventRefundProcessed       Event = "refund_processed"
	EventDisputeRaised         Event = "dispute_raised"
)

// eventTargets maps every event to the status it produces.
// Each event has exactly one target, which is what makes replay
// detection possible: an event whose target equals the current
// status is a duplicate delivery, not a transition.
var eventTargets = map[Event]Status{
	EventOwnerConfirmed:        StatusConfirmed,
	EventPaymentInitiated:      StatusPaymentPending,
	EventPaymentSucceeded:      StatusPaid,
	EventPickupVerified:        StatusActive,
	EventDropoffVerified:       StatusCompleted,
	EventCancellationRequested: StatusCancelled,
	EventRefundProcessed:       StatusRefunded,
	EventDisputeRaised:         StatusDisputed,
}

// validTransitions defines the state machine: which events are legal
// from which statuses. Transitions not listed here are rejected.
var validTransitions = map[Status]map[Event]bool{
	StatusPending: {
		EventOwnerConfirmed:        true,
		EventCancellationRequested: true,
		EventDisputeRaised:         true,
	},
	StatusConfirmed: {
		EventPaymentInitiated:      true,
		EventCancellationRequested: true,
		EventDisputeRaised:         true,
	},
	StatusPaymentPending: {
		EventPaymentSucceeded:      true,
		EventCancellationRequested: true,
		EventDisputeRaised:         true,
	},
	StatusPaid: {
		EventPickupVerified:        true,
		EventCancellationRequested: true,
		EventRefundProcessed:       true,
		EventDisputeRaised:         true,
	},
	StatusActive: {
		EventDropoffVerified: true,
		EventDisputeRaised:   true,
	},
	StatusCompleted: {
		EventRefundProcessed: true,
	},
	StatusDisputed: {
		EventCancellationRequested: true,
		EventRefundProcessed:       true,
	},
	StatusCancelled: {},
	StatusRefunded:  {},
}

// ErrInvalidTransition is returned when an event is not legal from the
// booking's current status
var ErrInvalidTransition = fmt.Errorf("domain: invalid status transition")

// ApplyEvent computes the next status for an event.
// Returns applied=false with a nil error when the event is a duplicate
// delivery of the transition that already happened (the booking is
// already in the event's target status). Unlisted transitions return
// ErrInvalidTransition and never mutate anything.
func ApplyEvent(current Status, event Event) (next Status, applied bool, err error) {
	target, ok := eventTargets[event]
	if !ok {
		return current, false, fmt.Errorf("%w: unknown event %q", ErrInvalidTransition, event)
	}

	// Duplicate webhook-style delivery: already there, success without append
	if current == target {
		return current, false, nil
	}

	allowed, ok := validTransitions[current]
	if !ok {
		return current, false, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, current)
	}
	if !allowed[event] {
		return current, false, fmt.Errorf("%w: %s is not allowed from %s", ErrInvalidTransition, event, current)
	}

	return target, true, nil
}

// IsValid returns true if the status is a recognized booking status
func (s Status) IsValid() bool {
	_, ok := validTransitions[s]
	return ok
}

// IsTerminal returns true if no further transitions are possible from this
// status. Completed admits only the refund edge and is otherwise immutable.
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusRefunded
}

// HoldsCalendar returns true for statuses during which the booking's
// window occupies the availability index. Disputed bookings keep their
// hold intact until manual resolution.
func (s Status) HoldsCalendar() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPaymentPending, StatusPaid, StatusActive, StatusDisputed:
		return true
	default:
		return false
	}
}

// CanBeCancelled returns true while the booking is in a pre-pickup,
// non-terminal state. Active rentals and finished bookings cannot be
// cancelled, only disputed or refunded.
func (s Status) CanBeCancelled() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPaymentPending, StatusPaid:
		return true
	default:
		return false
	}
}

// ParseEvent converts a string to an Event, returning an error if unknown
func ParseEvent(s string) (Event, error) {
	e := Event(s)
	if _, ok := eventTargets[e]; !ok {
		return "", fmt.Errorf("unknown lifecycle event: %s", s)
	}
	return e, nil
}

// ParseStatus converts a string to a Status, returning an error if unknown
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("unknown booking status: %s", s)
	}
	return status, nil
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// String returns the string representation of the event
func (e Event) String() string {
	return string(e)
}
