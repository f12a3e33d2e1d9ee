package availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/rentride/RR-BookingService/internal/domain"
	"github.com/rentride/RR-BookingService/pkg/dbmetrics"
	"github.com/rentride/RR-BookingService/pkg/psqlbuilder"
)

// Код ошибки PostgreSQL для нарушения EXCLUDE-констрейнта
// Констрейнт no_overlapping_holds - страховка уровня хранилища:
// даже при нескольких инстансах сервиса два пересекающихся холда
// на одну машину физически не могут быть вставлены
const pqExclusionViolation = "23P01"

// Repository репозиторий календарных холдов
// Единственный компонент, которому разрешено создавать и снимать холды
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория холдов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// TryReserve атомарно проверяет и вставляет холд для машины.
// Вставка происходит только если окно не пересекается ни с одним
// существующим блокирующим холдом (условный INSERT ... WHERE NOT EXISTS).
// Вызывается строго внутри сериализуемой транзакции - см. usecase создания брони.
//
// Возвращает ErrWindowConflict, когда окно занято. Это нормальный исход,
// отличимый от инфраструктурных ошибок через errors.Is.
func (r *Repository) TryReserve(ctx context.Context, vehicleID int64, window domain.Window, bookingCode string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	// Условная вставка: перекрытие полуоткрытых интервалов
	// [s1,e1) и [s2,e2) есть только при s1 < e2 AND s2 < e1
	query := `
		INSERT INTO availability_holds (vehicle_id, booking_code, starts_at, ends_at, blocking)
		SELECT $1, $2, $3, $4, TRUE
		WHERE NOT EXISTS (
			SELECT 1 FROM availability_holds
			WHERE vehicle_id = $1
			  AND blocking
			  AND starts_at < $4
			  AND $3 < ends_at
		)`

	result, err := executor.ExecContext(ctx, query, vehicleID, bookingCode, window.StartAt, window.EndAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqExclusionViolation {
			return ErrWindowConflict
		}
		return fmt.Errorf("%w: TryReserve - execute insert: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: TryReserve - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrWindowConflict
	}

	return nil
}

// Release снимает холд брони. Используется при отмене, отклонении
// и при истечении неподтвержденного pending-холда
func (r *Repository) Release(ctx context.Context, vehicleID int64, bookingCode string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("availability_holds").
		Where(squirrel.Eq{"vehicle_id": vehicleID, "booking_code": bookingCode}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Release - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Release - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Release - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrHoldNotFound
	}

	return nil
}

// MarkHistorical переводит холд из блокирующего в исторический после
// завершения аренды: окно больше не мешает новым броням, но запись
// сохраняется для аудита
func (r *Repository) MarkHistorical(ctx context.Context, vehicleID int64, bookingCode string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("availability_holds").
		Set("blocking", false).
		Where(squirrel.Eq{"vehicle_id": vehicleID, "booking_code": bookingCode}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkHistorical - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkHistorical - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkHistorical - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrHoldNotFound
	}

	return nil
}

// IsFree сообщает, свободно ли окно для машины.
// Только подсказка для выдачи и поиска: между проверкой и бронированием
// окно может занять другой клиент. Авторитетен только TryReserve
func (r *Repository) IsFree(ctx context.Context, vehicleID int64, window domain.Window) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query := `
		SELECT NOT EXISTS (
			SELECT 1 FROM availability_holds
			WHERE vehicle_id = $1
			  AND blocking
			  AND starts_at < $3
			  AND $2 < ends_at
		)`

	var free bool
	err := executor.QueryRowContext(ctx, query, vehicleID, window.StartAt, window.EndAt).Scan(&free)
	if err != nil {
		return false, fmt.Errorf("%w: IsFree - scan result: %v", ErrScanRow, err)
	}

	return free, nil
}
