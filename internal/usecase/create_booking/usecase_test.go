package create_booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentride/RR-BookingService/internal/domain"
	availabilityRepo "github.com/rentride/RR-BookingService/internal/infra/storage/availability"
	"github.com/rentride/RR-BookingService/internal/integrations/identityservice"
	"github.com/rentride/RR-BookingService/internal/integrations/listingservice"
)

type fakeBookingRepo struct {
	seq     int64
	created *domain.Booking
}

func (f *fakeBookingRepo) NextCodeSeq(_ context.Context, _ time.Time) (int64, error) {
	f.seq++
	return f.seq, nil
}

func (f *fakeBookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	cp := *b
	cp.ID = 100 + f.seq
	f.created = &cp
	return &cp, nil
}

type fakeAvailability struct {
	reserved map[string]domain.Window // code -> window
	conflict bool
}

func (f *fakeAvailability) TryReserve(_ context.Context, _ int64, window domain.Window, code string) error {
	if f.conflict {
		return availabilityRepo.ErrWindowConflict
	}
	if f.reserved == nil {
		f.reserved = make(map[string]domain.Window)
	}
	f.reserved[code] = window
	return nil
}

type fakeListingClient struct {
	vehicle *listingservice.Vehicle
	err     error
}

func (f *fakeListingClient) GetVehicle(_ context.Context, _ int64) (*listingservice.Vehicle, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.vehicle, nil
}

type fakeIdentityClient struct {
	err error
}

func (f *fakeIdentityClient) GetUser(_ context.Context, id int64) (*identityservice.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &identityservice.User{ID: id, Role: "customer"}, nil
}

// fakeTxManager runs the body directly; rolledBack captures whether the
// body returned an error, which in production would undo the hold
type fakeTxManager struct {
	rolledBack bool
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	err := fn(ctx)
	if err != nil {
		f.rolledBack = true
	}
	return err
}

type fixedTime struct{ t time.Time }

func (f *fixedTime) Now() time.Time { return f.t }

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func listedVehicle() *listingservice.Vehicle {
	return &listingservice.Vehicle{
		ID:              11,
		OwnerID:         99,
		Status:          "listed",
		HourlyRate:      5000,
		DailyRate:       80000,
		WeeklyRate:      450000,
		SecurityDeposit: 500000,
	}
}

type testEnv struct {
	repo      *fakeBookingRepo
	avail     *fakeAvailability
	listing   *fakeListingClient
	identity  *fakeIdentityClient
	txManager *fakeTxManager
	uc        *UseCase
	now       time.Time
}

func newTestEnv() *testEnv {
	env := &testEnv{
		repo:      &fakeBookingRepo{},
		avail:     &fakeAvailability{},
		listing:   &fakeListingClient{vehicle: listedVehicle()},
		identity:  &fakeIdentityClient{},
		txManager: &fakeTxManager{},
		now:       time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC),
	}
	env.uc = NewUseCase(
		env.repo, env.avail, env.listing, env.identity, env.txManager,
		Policy{
			GSTBasisPoints: domain.DefaultGSTBasisPoints,
			PastStartGrace: 5 * time.Minute,
		},
		noopLogger{},
	)
	env.uc.timeProvider = &fixedTime{t: env.now}
	return env
}

func validRequest(env *testEnv) *Request {
	return &Request{
		CustomerID: 42,
		VehicleID:  11,
		StartAt:    env.now.Add(24 * time.Hour),
		EndAt:      env.now.Add(72 * time.Hour),
		RateType:   domain.RateDaily,
	}
}

func TestExecute_Success(t *testing.T) {
	env := newTestEnv()

	resp, err := env.uc.Execute(context.Background(), validRequest(env))
	require.NoError(t, err)

	assert.Equal(t, "RR2608280001", resp.Code)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, int64(99), resp.OwnerID)
	assert.Equal(t, int64(2), resp.Quantity)
	assert.Equal(t, int64(160000), resp.Subtotal)
	assert.Equal(t, int64(28800), resp.GST)
	assert.Equal(t, int64(500000), resp.Deposit)
	assert.Equal(t, int64(688800), resp.Total)

	// hold was taken under the same code as the booking
	require.Contains(t, env.avail.reserved, resp.Code)
	require.NotNil(t, env.repo.created)
	assert.Len(t, env.repo.created.History, 1)
	assert.Equal(t, domain.StatusPending, env.repo.created.History[0].Status)
}

func TestExecute_CodeUsesRequestDayUTC(t *testing.T) {
	env := newTestEnv()
	// booking starts next month, the code still carries today's date
	req := validRequest(env)
	req.StartAt = env.now.Add(30 * 24 * time.Hour)
	req.EndAt = req.StartAt.Add(48 * time.Hour)

	resp, err := env.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "RR260828", resp.Code[:8])
}

func TestExecute_WindowConflictRollsBack(t *testing.T) {
	env := newTestEnv()
	env.avail.conflict = true

	_, err := env.uc.Execute(context.Background(), validRequest(env))
	assert.ErrorIs(t, err, ErrWindowConflict)
	assert.Nil(t, env.repo.created)
	assert.True(t, env.txManager.rolledBack)
}

func TestExecute_PartialUnitRoundsUp(t *testing.T) {
	env := newTestEnv()
	req := validRequest(env)
	req.EndAt = req.StartAt.Add(25 * time.Hour)

	resp, err := env.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Quantity)
}

func TestExecute_GracePeriodAdmitsRecentStart(t *testing.T) {
	env := newTestEnv()

	req := validRequest(env)
	req.StartAt = env.now.Add(-3 * time.Minute)
	req.EndAt = req.StartAt.Add(48 * time.Hour)

	_, err := env.uc.Execute(context.Background(), req)
	assert.NoError(t, err)

	req.StartAt = env.now.Add(-10 * time.Minute)
	req.EndAt = req.StartAt.Add(48 * time.Hour)

	_, err = env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrStartInPast)
}

func TestExecute_InvalidWindow(t *testing.T) {
	env := newTestEnv()
	req := validRequest(env)
	req.EndAt = req.StartAt

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestExecute_RateNotOffered(t *testing.T) {
	env := newTestEnv()
	env.listing.vehicle.MonthlyRate = 0

	req := validRequest(env)
	req.RateType = domain.RateMonthly

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrRateNotOffered)
}

func TestExecute_VehicleNotListed(t *testing.T) {
	env := newTestEnv()
	env.listing.vehicle.Status = "suspended"

	_, err := env.uc.Execute(context.Background(), validRequest(env))
	assert.ErrorIs(t, err, ErrVehicleNotListed)
}

func TestExecute_CustomerNotFound(t *testing.T) {
	env := newTestEnv()
	env.identity.err = identityservice.ErrUserNotFound

	_, err := env.uc.Execute(context.Background(), validRequest(env))
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestExecute_VehicleNotFound(t *testing.T) {
	env := newTestEnv()
	env.listing.err = listingservice.ErrVehicleNotFound

	_, err := env.uc.Execute(context.Background(), validRequest(env))
	assert.ErrorIs(t, err, ErrVehicleNotFound)
}

func TestExecute_DiscountFloorsAtZero(t *testing.T) {
	env := newTestEnv()
	req := validRequest(env)
	req.Discount = 1000000 // exceeds the subtotal

	resp, err := env.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.Subtotal)
	assert.Equal(t, int64(0), resp.GST)
	assert.Equal(t, int64(500000), resp.Total)
}

func TestQuantityForWindow(t *testing.T) {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		duration time.Duration
		rateType domain.RateType
		want     int64
	}{
		{"exact hours", 3 * time.Hour, domain.RateHourly, 3},
		{"partial hour", 90 * time.Minute, domain.RateHourly, 2},
		{"exact days", 48 * time.Hour, domain.RateDaily, 2},
		{"partial day", 25 * time.Hour, domain.RateDaily, 2},
		{"one week", 7 * 24 * time.Hour, domain.RateWeekly, 1},
		{"month convention", 30 * 24 * time.Hour, domain.RateMonthly, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := domain.NewWindow(start, start.Add(tt.duration))
			require.NoError(t, err)

			got, err := quantityForWindow(w, tt.rateType)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// lockingAvailability admits at most one hold per overlapping window,
// the way the serializable reserve path behaves under contention.
type lockingAvailability struct {
	mu   sync.Mutex
	held []domain.Window
}

func (l *lockingAvailability) TryReserve(_ context.Context, _ int64, window domain.Window, _ string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, h := range l.held {
		if h.Overlaps(window) {
			return availabilityRepo.ErrWindowConflict
		}
	}
	l.held = append(l.held, window)
	return nil
}

func TestExecute_ConcurrentSameWindowSingleWinner(t *testing.T) {
	const attempts = 8

	shared := &lockingAvailability{}
	errs := make(chan error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			env := newTestEnv()
			uc := NewUseCase(
				env.repo, shared, env.listing, env.identity, env.txManager,
				Policy{GSTBasisPoints: domain.DefaultGSTBasisPoints, PastStartGrace: 5 * time.Minute},
				noopLogger{},
			)
			uc.timeProvider = &fixedTime{t: env.now}

			_, err := uc.Execute(context.Background(), validRequest(env))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var won, conflicted int
	for err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, ErrWindowConflict):
			conflicted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, attempts-1, conflicted)
}
