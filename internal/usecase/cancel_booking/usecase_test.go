package cancel_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentride/RR-BookingService/internal/domain"
	bookingRepo "github.com/rentride/RR-BookingService/internal/infra/storage/booking"
)

type fakeBookingRepo struct {
	booking      *domain.Booking
	getErr       error
	statusSet    *domain.Status
	historyAdded []domain.StatusChange
	cancellation *domain.CancellationRecord
}

func (f *fakeBookingRepo) GetByCode(_ context.Context, code string) (*domain.Booking, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.booking == nil || f.booking.Code != code {
		return nil, bookingRepo.ErrBookingNotFound
	}
	cp := *f.booking
	return &cp, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, _ int64, status domain.Status, change domain.StatusChange) error {
	f.statusSet = &status
	f.historyAdded = append(f.historyAdded, change)
	return nil
}

func (f *fakeBookingRepo) SetCancellation(_ context.Context, _ int64, rec *domain.CancellationRecord) error {
	f.cancellation = rec
	return nil
}

type fakeAvailability struct {
	released     bool
	releasedCode string
}

func (f *fakeAvailability) Release(_ context.Context, _ int64, bookingCode string) error {
	f.released = true
	f.releasedCode = bookingCode
	return nil
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

func testBooking(start time.Time, status domain.Status) *domain.Booking {
	return &domain.Booking{
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
			BaseRate: 80000,
			Quantity: 2,
			Subtotal: 160000,
			GST:      28800,
			Deposit:  500000,
			Total:    688800,
		},
		Status: status,
	}
}

func newTestUseCase(repo *fakeBookingRepo, avail *fakeAvailability, now time.Time) *UseCase {
	uc := NewUseCase(repo, avail, &fakeTxManager{}, noopLogger{})
	uc.timeProvider = &fixedTime{t: now}
	return uc
}

func TestExecute_FreeCancellation(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	start := now.Add(30 * time.Hour)

	repo := &fakeBookingRepo{booking: testBooking(start, domain.StatusConfirmed)}
	avail := &fakeAvailability{}
	uc := newTestUseCase(repo, avail, now)

	resp, err := uc.Execute(context.Background(), &Request{
		Code:        "RR2609010003",
		ActorUserID: 42,
		Reason:      "change of plans",
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	assert.Equal(t, string(domain.ActorCustomer), resp.CancelledBy)
	assert.Equal(t, int64(0), resp.FeeAmount)
	// full charge plus deposit comes back
	assert.Equal(t, int64(188800+500000), resp.RefundAmount)

	require.NotNil(t, repo.statusSet)
	assert.Equal(t, domain.StatusCancelled, *repo.statusSet)
	require.NotNil(t, repo.cancellation)
	assert.Equal(t, domain.ActorCustomer, repo.cancellation.CancelledBy)
	assert.True(t, avail.released)
	assert.Equal(t, "RR2609010003", avail.releasedCode)
}

func TestExecute_LateCancellationFee(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	start := now.Add(12 * time.Hour)

	repo := &fakeBookingRepo{booking: testBooking(start, domain.StatusPaid)}
	uc := newTestUseCase(repo, &fakeAvailability{}, now)

	resp, err := uc.Execute(context.Background(), &Request{
		Code:        "RR2609010003",
		ActorUserID: 42,
	})
	require.NoError(t, err)

	// 25% of the charge total (188800), deposit untouched
	assert.Equal(t, int64(47200), resp.FeeAmount)
	assert.Equal(t, int64(188800-47200+500000), resp.RefundAmount)
}

func TestExecute_OwnerCancels(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	start := now.Add(72 * time.Hour)

	repo := &fakeBookingRepo{booking: testBooking(start, domain.StatusPending)}
	uc := newTestUseCase(repo, &fakeAvailability{}, now)

	resp, err := uc.Execute(context.Background(), &Request{
		Code:        "RR2609010003",
		ActorUserID: 99,
		Reason:      "vehicle maintenance",
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.ActorOwner), resp.CancelledBy)
	require.NotNil(t, repo.cancellation)
	assert.Equal(t, domain.ActorOwner, repo.cancellation.CancelledBy)
}

func TestExecute_AccessDenied(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	repo := &fakeBookingRepo{booking: testBooking(now.Add(48*time.Hour), domain.StatusConfirmed)}
	avail := &fakeAvailability{}
	uc := newTestUseCase(repo, avail, now)

	_, err := uc.Execute(context.Background(), &Request{
		Code:        "RR2609010003",
		ActorUserID: 555,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Nil(t, repo.statusSet)
	assert.False(t, avail.released)
}

func TestExecute_CannotCancelAfterPickup(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	for _, status := range []domain.Status{
		domain.StatusActive,
		domain.StatusCompleted,
		domain.StatusCancelled,
		domain.StatusRefunded,
	} {
		repo := &fakeBookingRepo{booking: testBooking(now.Add(time.Hour), status)}
		avail := &fakeAvailability{}
		uc := newTestUseCase(repo, avail, now)

		_, err := uc.Execute(context.Background(), &Request{
			Code:        "RR2609010003",
			ActorUserID: 42,
		})
		assert.ErrorIs(t, err, ErrCannotCancel, "status %s", status)
		assert.False(t, avail.released, "status %s", status)
	}
}

func TestExecute_NotFound(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	repo := &fakeBookingRepo{}
	uc := newTestUseCase(repo, &fakeAvailability{}, now)

	_, err := uc.Execute(context.Background(), &Request{
		Code:        "RR2609019999",
		ActorUserID: 42,
	})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecute_Validation(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeAvailability{}, now)

	_, err := uc.Execute(context.Background(), &Request{Code: "", ActorUserID: 42})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{Code: "RR2609010003", ActorUserID: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
