package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/rentride/RR-BookingService/internal/domain"
	"github.com/rentride/RR-BookingService/pkg/dbmetrics"
	"github.com/rentride/RR-BookingService/pkg/psqlbuilder"
)

const pqUniqueViolation = "23505"

// bookingColumns полный набор колонок таблицы bookings
// Порядок согласован со scanBooking
var bookingColumns = []string{
	"id",
	"code",
	"customer_id",
	"vehicle_id",
	"owner_id",
	"start_at",
	"end_at",
	"rate_type",
	"base_rate",
	"quantity",
	"subtotal",
	"discount",
	"gst",
	"service_tax",
	"deposit",
	"total",
	"status",
	"payment_ref",
	"notes",
	"pickup_scheduled_at",
	"pickup_verified_at",
	"pickup_token",
	"pickup_notes",
	"dropoff_scheduled_at",
	"dropoff_verified_at",
	"dropoff_token",
	"dropoff_notes",
	"cancelled_by",
	"cancelled_at",
	"cancellation_reason",
	"cancellation_fee",
	"cancellation_refund",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// NextCodeSeq выдает следующий номер дневной последовательности кодов брони.
// Счетчик хранится по одной строке на UTC-день и инкрементируется upsert-ом,
// поэтому выдача безопасна при конкурентных созданиях.
// Вызывается внутри транзакции создания брони
func (r *Repository) NextCodeSeq(ctx context.Context, day time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query := `
		INSERT INTO booking_code_seq (day, seq)
		VALUES ($1, 1)
		ON CONFLICT (day) DO UPDATE SET seq = booking_code_seq.seq + 1
		RETURNING seq`

	var seq int64
	dayOnly := day.UTC().Truncate(24 * time.Hour)
	if err := executor.QueryRowContext(ctx, query, dayOnly).Scan(&seq); err != nil {
		return 0, fmt.Errorf("%w: NextCodeSeq - execute upsert: %v", ErrExecQuery, err)
	}

	return seq, nil
}

// Create создает новое бронирование вместе с первой записью истории статусов.
// Ценовой снимок пишется целиком и больше никогда не пересчитывается.
// Вызывается внутри сериализуемой транзакции создания брони
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"code",
			"customer_id",
			"vehicle_id",
			"owner_id",
			"start_at",
			"end_at",
			"rate_type",
			"base_rate",
			"quantity",
			"subtotal",
			"discount",
			"gst",
			"service_tax",
			"deposit",
			"total",
			"status",
			"notes",
		).
		Values(
			b.Code,
			b.CustomerID,
			b.VehicleID,
			b.OwnerID,
			b.Window.StartAt,
			b.Window.EndAt,
			b.Price.RateType,
			b.Price.BaseRate,
			b.Price.Quantity,
			b.Price.Subtotal,
			b.Price.Discount,
			b.Price.GST,
			b.Price.ServiceTax,
			b.Price.Deposit,
			b.Price.Total,
			b.Status,
			b.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&b.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return nil, ErrDuplicateCode
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	// Первая запись истории пишется в той же транзакции, что и бронь
	for _, change := range b.History {
		if err := r.AppendHistory(ctx, b.ID, change); err != nil {
			return nil, err
		}
	}

	return b, nil
}

// AppendHistory добавляет запись в append-only историю статусов
func (r *Repository) AppendHistory(ctx context.Context, bookingID int64, change domain.StatusChange) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_status_history").
		Columns("booking_id", "status", "reason", "actor", "changed_at").
		Values(bookingID, change.Status, change.Reason, change.Actor, change.ChangedAt).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: AppendHistory - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: AppendHistory - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetHistory возвращает историю статусов брони в порядке добавления
func (r *Repository) GetHistory(ctx context.Context, bookingID int64) ([]domain.StatusChange, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("status", "reason", "actor", "changed_at").
		From("booking_status_history").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetHistory - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetHistory - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	history := make([]domain.StatusChange, 0)
	for rows.Next() {
		var change domain.StatusChange
		if err := rows.Scan(&change.Status, &change.Reason, &change.Actor, &change.ChangedAt); err != nil {
			return nil, fmt.Errorf("%w: GetHistory - scan row: %v", ErrScanRow, err)
		}
		history = append(history, change)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetHistory - rows error: %v", ErrScanRow, err)
	}

	return history, nil
}

// GetByCode получает бронирование по коду вместе с историей статусов.
// Внутри транзакции строка блокируется через FOR UPDATE, чтобы конкурентные
// переходы жизненного цикла сериализовались на уровне строки брони
func (r *Repository) GetByCode(ctx context.Context, code string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"code": code})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCode - build select query: %v", ErrBuildQuery, err)
	}

	b, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("%w: GetByCode - scan booking: %v", ErrScanRow, err)
	}

	history, err := r.GetHistory(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	b.History = history

	return b, nil
}

// UpdateStatus обновляет статус брони и добавляет запись истории.
// Обновление и запись истории - одно целое: вызывающий обязан обернуть
// вызов в транзакцию
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.Status, change domain.StatusChange) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return r.AppendHistory(ctx, id, change)
}

// SetPaymentRef записывает ссылку на платеж из платежного шлюза
func (r *Repository) SetPaymentRef(ctx context.Context, id int64, paymentRef string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("payment_ref", paymentRef).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetPaymentRef - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: SetPaymentRef - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// SetPickup записывает подзапись о выдаче машины.
// Пишется один раз при верификации выдачи
func (r *Repository) SetPickup(ctx context.Context, id int64, rec *domain.PickupRecord) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("pickup_scheduled_at", rec.ScheduledAt).
		Set("pickup_verified_at", rec.VerifiedAt).
		Set("pickup_token", rec.VerifyToken).
		Set("pickup_notes", rec.ConditionNotes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetPickup - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: SetPickup - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// SetDropoff записывает подзапись о возврате машины
func (r *Repository) SetDropoff(ctx context.Context, id int64, rec *domain.DropoffRecord) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("dropoff_scheduled_at", rec.ScheduledAt).
		Set("dropoff_verified_at", rec.VerifiedAt).
		Set("dropoff_token", rec.VerifyToken).
		Set("dropoff_notes", rec.ConditionNotes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetDropoff - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: SetDropoff - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// SetCancellation записывает подзапись об отмене с рассчитанным
// разделением возврат/штраф. Запись иммутабельна после создания
func (r *Repository) SetCancellation(ctx context.Context, id int64, rec *domain.CancellationRecord) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("cancelled_by", rec.CancelledBy).
		Set("cancelled_at", rec.CancelledAt).
		Set("cancellation_reason", rec.Reason).
		Set("cancellation_fee", rec.FeeAmount).
		Set("cancellation_refund", rec.RefundAmount).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetCancellation - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: SetCancellation - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// ListWithFilter возвращает брони по фильтру (клиент, машина, владелец,
// статус, период). История статусов в списках не загружается
func (r *Repository) ListWithFilter(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		OrderBy("start_at DESC")

	if filter.CustomerID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
	}
	if filter.VehicleID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"vehicle_id": *filter.VehicleID})
	}
	if filter.OwnerID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"owner_id": *filter.OwnerID})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.FromDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"start_at": *filter.FromDate})
	}
	if filter.ToDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"start_at": *filter.ToDate})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ListExpiredPending возвращает pending-брони, созданные раньше дедлайна.
// Используется свипером для снятия протухших неподтвержденных холдов
func (r *Repository) ListExpiredPending(ctx context.Context, createdBefore time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"status": domain.StatusPending}).
		Where(squirrel.Lt{"created_at": createdBefore}).
		OrderBy("created_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListExpiredPending - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListExpiredPending - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// rowScanner покрывает *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBooking сканирует одну строку bookings в domain-модель
func scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	var createdAt, updatedAt sql.NullTime

	var (
		pickupScheduled, pickupVerified   sql.NullTime
		pickupToken                       sql.NullString
		pickupNotes                       *string
		dropoffScheduled, dropoffVerified sql.NullTime
		dropoffToken                      sql.NullString
		dropoffNotes                      *string
		cancelledBy                       sql.NullString
		cancelledAt                       sql.NullTime
		cancellationReason                sql.NullString
		cancellationFee, cancellationRef  sql.NullInt64
	)

	err := row.Scan(
		&b.ID,
		&b.Code,
		&b.CustomerID,
		&b.VehicleID,
		&b.OwnerID,
		&b.Window.StartAt,
		&b.Window.EndAt,
		&b.Price.RateType,
		&b.Price.BaseRate,
		&b.Price.Quantity,
		&b.Price.Subtotal,
		&b.Price.Discount,
		&b.Price.GST,
		&b.Price.ServiceTax,
		&b.Price.Deposit,
		&b.Price.Total,
		&b.Status,
		&b.PaymentRef,
		&b.Notes,
		&pickupScheduled,
		&pickupVerified,
		&pickupToken,
		&pickupNotes,
		&dropoffScheduled,
		&dropoffVerified,
		&dropoffToken,
		&dropoffNotes,
		&cancelledBy,
		&cancelledAt,
		&cancellationReason,
		&cancellationFee,
		&cancellationRef,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	if pickupVerified.Valid {
		b.Pickup = &domain.PickupRecord{
			ScheduledAt:    pickupScheduled.Time,
			VerifiedAt:     pickupVerified.Time,
			VerifyToken:    pickupToken.String,
			ConditionNotes: pickupNotes,
		}
	}

	if dropoffVerified.Valid {
		b.Dropoff = &domain.DropoffRecord{
			ScheduledAt:    dropoffScheduled.Time,
			VerifiedAt:     dropoffVerified.Time,
			VerifyToken:    dropoffToken.String,
			ConditionNotes: dropoffNotes,
		}
	}

	if cancelledAt.Valid {
		b.Cancellation = &domain.CancellationRecord{
			CancelledBy:  domain.Actor(cancelledBy.String),
			CancelledAt:  cancelledAt.Time,
			Reason:       cancellationReason.String,
			FeeAmount:    cancellationFee.Int64,
			RefundAmount: cancellationRef.Int64,
		}
	}

	return &b, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
