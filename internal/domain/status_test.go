package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyEvent_HappyPath(t *testing.T) {
	// Полный жизненный цикл от pending до completed
	steps := []struct {
		from  Status
		event Event
		to    Status
	}{
		{StatusPending, EventOwnerConfirmed, StatusConfirmed},
		{StatusConfirmed, EventPaymentInitiated, StatusPaymentPending},
		{StatusPaymentPending, EventPaymentSucceeded, StatusPaid},
		{StatusPaid, EventPickupVerified, StatusActive},
		{StatusActive, EventDropoffVerified, StatusCompleted},
	}

	for _, step := range steps {
		next, applied, err := ApplyEvent(step.from, step.event)
		require.NoError(t, err, "%s + %s", step.from, step.event)
		assert.True(t, applied)
		assert.Equal(t, step.to, next)
	}
}

func TestApplyEvent_CancellationReachableFromPrePickupStates(t *testing.T) {
	for _, from := range []Status{StatusPending, StatusConfirmed, StatusPaymentPending, StatusPaid} {
		next, applied, err := ApplyEvent(from, EventCancellationRequested)
		require.NoError(t, err, "from %s", from)
		assert.True(t, applied)
		assert.Equal(t, StatusCancelled, next)
	}
}

func TestApplyEvent_RefundReachableFromPaidAndCompleted(t *testing.T) {
	for _, from := range []Status{StatusPaid, StatusCompleted} {
		next, applied, err := ApplyEvent(from, EventRefundProcessed)
		require.NoError(t, err, "from %s", from)
		assert.True(t, applied)
		assert.Equal(t, StatusRefunded, next)
	}
}

func TestApplyEvent_DisputeFromAnyNonTerminalState(t *testing.T) {
	for _, from := range []Status{StatusPending, StatusConfirmed, StatusPaymentPending, StatusPaid, StatusActive} {
		next, applied, err := ApplyEvent(from, EventDisputeRaised)
		require.NoError(t, err, "from %s", from)
		assert.True(t, applied)
		assert.Equal(t, StatusDisputed, next)
	}
}

func TestApplyEvent_TerminalStatesRejectEverything(t *testing.T) {
	allEvents := []Event{
		EventOwnerConfirmed,
		EventPaymentInitiated,
		EventPaymentSucceeded,
		EventPickupVerified,
		EventDropoffVerified,
		EventCancellationRequested,
		EventRefundProcessed,
		EventDisputeRaised,
	}

	for _, terminal := range []Status{StatusCancelled, StatusRefunded} {
		for _, event := range allEvents {
			next, applied, err := ApplyEvent(terminal, event)
			if eventTargets[event] == terminal {
				// Повторная доставка того же события - no-op успех
				require.NoError(t, err)
				assert.False(t, applied)
				assert.Equal(t, terminal, next)
				continue
			}
			assert.ErrorIs(t, err, ErrInvalidTransition, "%s + %s", terminal, event)
			assert.False(t, applied)
		}
	}
}

func TestApplyEvent_CompletedAdmitsOnlyRefund(t *testing.T) {
	for _, event := range []Event{
		EventOwnerConfirmed,
		EventPaymentInitiated,
		EventPaymentSucceeded,
		EventPickupVerified,
		EventCancellationRequested,
		EventDisputeRaised,
	} {
		_, applied, err := ApplyEvent(StatusCompleted, event)
		assert.ErrorIs(t, err, ErrInvalidTransition, "completed + %s", event)
		assert.False(t, applied)
	}

	next, applied, err := ApplyEvent(StatusCompleted, EventRefundProcessed)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, StatusRefunded, next)
}

func TestApplyEvent_IdempotentReplay(t *testing.T) {
	// Дубликат webhook-события не ошибка и не повторный переход
	cases := []struct {
		status Status
		event  Event
	}{
		{StatusConfirmed, EventOwnerConfirmed},
		{StatusPaid, EventPaymentSucceeded},
		{StatusActive, EventPickupVerified},
		{StatusCompleted, EventDropoffVerified},
		{StatusCancelled, EventCancellationRequested},
		{StatusRefunded, EventRefundProcessed},
		{StatusDisputed, EventDisputeRaised},
	}

	for _, tc := range cases {
		next, applied, err := ApplyEvent(tc.status, tc.event)
		require.NoError(t, err, "%s + %s", tc.status, tc.event)
		assert.False(t, applied, "replay must not count as a transition")
		assert.Equal(t, tc.status, next)
	}
}

func TestApplyEvent_SkippingStatesIsRejected(t *testing.T) {
	cases := []struct {
		from  Status
		event Event
	}{
		{StatusPending, EventPaymentInitiated},
		{StatusPending, EventPickupVerified},
		{StatusConfirmed, EventPaymentSucceeded},
		{StatusPaymentPending, EventPickupVerified},
		{StatusActive, EventCancellationRequested},
		{StatusPending, EventRefundProcessed},
	}

	for _, tc := range cases {
		_, applied, err := ApplyEvent(tc.from, tc.event)
		assert.ErrorIs(t, err, ErrInvalidTransition, "%s + %s", tc.from, tc.event)
		assert.False(t, applied)
	}
}

func TestStatus_HoldsCalendar(t *testing.T) {
	holding := []Status{StatusPending, StatusConfirmed, StatusPaymentPending, StatusPaid, StatusActive, StatusDisputed}
	for _, s := range holding {
		assert.True(t, s.HoldsCalendar(), "%s", s)
	}

	for _, s := range []Status{StatusCompleted, StatusCancelled, StatusRefunded} {
		assert.False(t, s.HoldsCalendar(), "%s", s)
	}
}

func TestStatus_CanBeCancelled(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusConfirmed, StatusPaymentPending, StatusPaid} {
		assert.True(t, s.CanBeCancelled(), "%s", s)
	}
	for _, s := range []Status{StatusActive, StatusCompleted, StatusCancelled, StatusRefunded, StatusDisputed} {
		assert.False(t, s.CanBeCancelled(), "%s", s)
	}
}

func TestParseEvent(t *testing.T) {
	event, err := ParseEvent("payment_succeeded")
	require.NoError(t, err)
	assert.Equal(t, EventPaymentSucceeded, event)

	_, err = ParseEvent("teleported")
	assert.Error(t, err)
}
