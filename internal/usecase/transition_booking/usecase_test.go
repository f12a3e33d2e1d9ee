package transition_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentride/RR-BookingService/internal/domain"
	"github.com/rentride/RR-BookingService/internal/infra/otp"
	"github.com/rentride/RR-BookingService/internal/integrations/paymentgateway"
	"github.com/rentride/RR-BookingService/pkg/ptr"
)

type fakeBookingRepo struct {
	booking    *domain.Booking
	history    []domain.StatusChange
	paymentRef string
	pickup     *domain.PickupRecord
	dropoff    *domain.DropoffRecord
}

func (f *fakeBookingRepo) GetByCode(_ context.Context, code string) (*domain.Booking, error) {
	cp := *f.booking
	return &cp, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, _ int64, status domain.Status, change domain.StatusChange) error {
	f.booking.Status = status
	f.history = append(f.history, change)
	return nil
}

func (f *fakeBookingRepo) SetPaymentRef(_ context.Context, _ int64, paymentRef string) error {
	f.paymentRef = paymentRef
	f.booking.PaymentRef = &paymentRef
	return nil
}

func (f *fakeBookingRepo) SetPickup(_ context.Context, _ int64, rec *domain.PickupRecord) error {
	f.pickup = rec
	return nil
}

func (f *fakeBookingRepo) SetDropoff(_ context.Context, _ int64, rec *domain.DropoffRecord) error {
	f.dropoff = rec
	return nil
}

type fakeAvailability struct {
	released   bool
	historical bool
}

func (f *fakeAvailability) Release(_ context.Context, _ int64, _ string) error {
	f.released = true
	return nil
}

func (f *fakeAvailability) MarkHistorical(_ context.Context, _ int64, _ string) error {
	f.historical = true
	return nil
}

type fakeGateway struct {
	captured       bool
	capturedAmount int64
	captureErr     error
	refunded       bool
	refundedRef    string
	refundedAmount int64
}

func (f *fakeGateway) Capture(_ context.Context, amount int64, bookingRef string) (*paymentgateway.PaymentResult, error) {
	if f.captureErr != nil {
		return nil, f.captureErr
	}
	f.captured = true
	f.capturedAmount = amount
	return &paymentgateway.PaymentResult{PaymentRef: "pay_" + bookingRef, Status: "captured"}, nil
}

func (f *fakeGateway) Refund(_ context.Context, paymentRef string, amount int64) (*paymentgateway.RefundResult, error) {
	f.refunded = true
	f.refundedRef = paymentRef
	f.refundedAmount = amount
	return &paymentgateway.RefundResult{RefundRef: "rf_1", Status: "refunded"}, nil
}

type fakeTxManager struct{}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ t time.Time }

func (f *fixedTime) Now() time.Time { return f.t }

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

type testEnv struct {
	repo    *fakeBookingRepo
	avail   *fakeAvailability
	gateway *fakeGateway
	store   *otp.Store
	uc      *UseCase
	now     time.Time
}

func newTestEnv(t *testing.T, status domain.Status) *testEnv {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	start := now.Add(24 * time.Hour)

	env := &testEnv{
		repo: &fakeBookingRepo{
			booking: &domain.Booking{
				ID:         7,
				Code:       "RR2609010003",
				CustomerID: 42,
				VehicleID:  11,
				OwnerID:    99,
				Window: domain.Window{
					StartAt: start,
					EndAt:   start.Add(48 * time.Hour),
				},
				Price: domain.PriceBreakdown{
					RateType: domain.RateDaily,
					Subtotal: 160000,
					GST:      28800,
					Deposit:  500000,
					Total:    688800,
				},
				Status: status,
			},
		},
		avail:   &fakeAvailability{},
		gateway: &fakeGateway{},
		store:   otp.NewStore(time.Minute, time.Minute),
		now:     now,
	}
	t.Cleanup(env.store.Stop)

	env.uc = NewUseCase(env.repo, env.avail, env.gateway, env.store, &fakeTxManager{}, noopLogger{})
	env.uc.timeProvider = &fixedTime{t: now}
	return env
}

func TestExecute_OwnerConfirms(t *testing.T) {
	env := newTestEnv(t, domain.StatusPending)

	resp, err := env.uc.Execute(context.Background(), &Request{
		Code:        "RR2609010003",
		Event:       domain.EventOwnerConfirmed,
		ActorUserID: 99,
	})
	require.NoError(t, err)

	assert.True(t, resp.Applied)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	require.Len(t, env.repo.history, 1)
	assert.Equal(t, domain.ActorOwner, env.repo.history[0].Actor)
}

func TestExecute_CustomerCannotConfirm(t *testing.T) {
	env := newTestEnv(t, domain.StatusPending)

	_, err := env.uc.Execute(context.Background(), &Request{
		Code:        "RR2609010003",
		Event:       domain.EventOwnerConfirmed,
		ActorUserID: 42,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Empty(t, env.repo.history)
}

func TestExecute_PaymentSucceeded(t *testing.T) {
	env := newTestEnv(t, domain.StatusPaymentPending)

	resp, err := env.uc.Execute(context.Background(), &Request{
		Code:        "RR2609010003",
		Event:       domain.EventPaymentSucceeded,
		ActorUserID: 42,
	})
	require.NoError(t, err)

	assert.True(t, env.gateway.captured)
	assert.Equal(t, int64(688800), env.gateway.capturedAmount)
	assert.Equal(t, "pay_RR2609010003", env.repo.paymentRef)
	assert.Equal(t, string(domain.StatusPaid), resp.Status)

	// pickup token is issued on payment and verifies against the store
	require.NotEmpty(t, resp.IssuedToken)
	assert.NoError(t, env.store.Verify(otp.PickupKey("RR2609010003"), resp.IssuedToken))
}

func TestExecute_PaymentDeclined(t *testing.T) {
	env := newTestEnv(t, domain.StatusPaymentPending)
	env.gateway.captureErr = paymentgateway.ErrPaymentDeclined

	_, err := env.uc.Execute(context.Background(), &Request{
		Code:        "RR2609010003",
		Event:       domain.EventPaymentSucceeded,
		ActorUserID: 42,
	})
	assert.ErrorIs(t, err, ErrPaymentFailed)
	assert.Equal(t, domain.StatusPaymentPending, env.repo.booking.Status)
	assert.Empty(t, env.repo.history)
}

func TestExecute_PickupVerified(t *testing.T) {
	env := newTestEnv(t, domain.StatusPaid)

	token, err := env.store.Issue(otp.PickupKey("RR2609010003"))
	require.NoError(t, err)

	resp, err := env.uc.Execute(context.Background(), &Request{
		Code:           "RR2609010003",
		Event:          domain.EventPickupVerified,
		ActorUserID:    99,
		VerifyToken:    token,
		ConditionNotes: ptr.Ptr("scratch on rear bumper"),
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusActive), resp.Status)
	require.NotNil(t, env.repo.pickup)
	assert.Equal(t, env.now, env.repo.pickup.VerifiedAt)
	assert.Equal(t, token, env.repo.pickup.VerifyToken)
	require.NotNil(t, env.repo.pickup.ConditionNotes)
	assert.Equal(t, "scratch on rear bumper", *env.repo.pickup.ConditionNotes)

	// the dropoff token for the return handover comes back with the response
	require.NotEmpty(t, resp.IssuedToken)
	assert.NoError(t, env.store.Verify(otp.DropoffKey("RR2609010003"), resp.IssuedToken))
}

func TestExecute_PickupWrongToken(t *testing.T) {
	env := newTestEnv(t, domain.StatusPaid)

	_, err := env.store.Issue(otp.PickupKey("RR2609010003"))
	require.NoError(t, err)

	_, err = env.uc.Execute(context.Background(), &Request{
		Code:        "RR2609010003",
		Event:       domain.EventPickupVerified,
		ActorUserID: 99,
		VerifyToken: "000000x",
	})
	assert.ErrorIs(t, err, ErrVerificationFailed)
	assert.Equal(t, domain.StatusPaid, env.repo.booking.Status)
	assert.Nil(t, env.repo.pickup)
}

func TestExecute_DropoffMarksHoldHistorical(t *testing.T) {
	env := newTestEnv(t, domain.StatusActive)

	token, err := env.store.Issue(otp.DropoffKey("RR2609010003"))
	require.NoError(t, err)

	resp, err := env.uc.Execute(context.Background(), &Request{
		Code:        "RR2609010003",
		Event:       domain.EventDropoffVerified,
		ActorUserID: 42,
		VerifyToken: token,
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCompleted), resp.Status)
	require.NotNil(t, env.repo.dropoff)
	assert.True(t, env.avail.historical)
	assert.False(t, env.avail.released)
}

func TestExecute_RefundFromPaidReleasesHold(t *testing.T) {
	env := newTestEnv(t, domain.StatusPaid)
	env.repo.booking.PaymentRef = ptr.Ptr("pay_RR2609010003")

	resp, err := env.uc.Execute(context.Background(), &Request{
		Code:        "RR2609010003",
		Event:       domain.EventRefundProcessed,
		ActorUserID: 99,
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusRefunded), resp.Status)
	assert.True(t, env.gateway.refunded)
	assert.Equal(t, "pay_RR2609010003", env.gateway.refundedRef)
	assert.Equal(t, int64(688800), env.gateway.refundedAmount)
	assert.True(t, env.avail.released)
}

func TestExecute_RefundFromCompletedKeepsHold(t *testing.T) {
	env := newTestEnv(t, domain.StatusCompleted)
	env.repo.booking.PaymentRef = ptr.Ptr("pay_RR2609010003")

	_, err := env.uc.Execute(context.Background(), &Request{
		Code:        "RR2609010003",
		Event:       domain.EventRefundProcessed,
		ActorUserID: 99,
	})
	require.NoError(t, err)

	assert.True(t, env.gateway.refunded)
	assert.False(t, env.avail.released)
}

func TestExecute_RefundWithoutPayment(t *testing.T) {
	env := newTestEnv(t, domain.StatusPaid)

	_, err := env.uc.Execute(context.Background(), &Request{
		Code:        "RR2609010003",
		Event:       domain.EventRefundProcessed,
		ActorUserID: 99,
	})
	assert.ErrorIs(t, err, ErrNoPaymentRef)
	assert.False(t, env.gateway.refunded)
}

func TestExecute_IdempotentReplay(t *testing.T) {
	env := newTestEnv(t, domain.StatusPending)

	first, err := env.uc.Execute(context.Background(), &Request{
		Code:        "RR2609010003",
		Event:       domain.EventOwnerConfirmed,
		ActorUserID: 99,
	})
	require.NoError(t, err)
	assert.True(t, first.Applied)

	// duplicate delivery of the same event: success, no new history entry
	second, err := env.uc.Execute(context.Background(), &Request{
		Code:        "RR2609010003",
		Event:       domain.EventOwnerConfirmed,
		ActorUserID: 99,
	})
	require.NoError(t, err)
	assert.False(t, second.Applied)
	assert.Equal(t, first.Status, second.Status)
	assert.Len(t, env.repo.history, 1)
}

func TestExecute_InvalidTransition(t *testing.T) {
	env := newTestEnv(t, domain.StatusPending)

	_, err := env.uc.Execute(context.Background(), &Request{
		Code:        "RR2609010003",
		Event:       domain.EventPickupVerified,
		ActorUserID: 42,
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Empty(t, env.repo.history)
}

func TestExecute_TerminalRejectsEverything(t *testing.T) {
	for _, status := range []domain.Status{domain.StatusCancelled, domain.StatusRefunded} {
		env := newTestEnv(t, status)

		_, err := env.uc.Execute(context.Background(), &Request{
			Code:        "RR2609010003",
			Event:       domain.EventOwnerConfirmed,
			ActorUserID: 99,
		})
		assert.ErrorIs(t, err, ErrInvalidTransition, "status %s", status)
	}
}

func TestExecute_CancellationGoesElsewhere(t *testing.T) {
	env := newTestEnv(t, domain.StatusConfirmed)

	_, err := env.uc.Execute(context.Background(), &Request{
		Code:        "RR2609010003",
		Event:       domain.EventCancellationRequested,
		ActorUserID: 42,
	})
	assert.ErrorIs(t, err, ErrUseCancelEndpoint)
}

func TestExecute_SystemActor(t *testing.T) {
	env := newTestEnv(t, domain.StatusPaymentPending)

	resp, err := env.uc.Execute(context.Background(), &Request{
		Code:        "RR2609010003",
		Event:       domain.EventPaymentSucceeded,
		ActorUserID: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusPaid), resp.Status)
	require.Len(t, env.repo.history, 1)
	assert.Equal(t, domain.ActorSystem, env.repo.history[0].Actor)
}
