package exception

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-DeliverySlotsService/internal/domain"
	"github.com/m04kA/SMC-DeliverySlotsService/pkg/dbmetrics"
	"github.com/m04kA/SMC-DeliverySlotsService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-DeliverySlotsService/pkg/types"
)

// exceptionColumns колонки date_exceptions в порядке сканирования
var exceptionColumns = []string{
	"id",
	"tenant_id",
	"exception_date",
	"window_type",
	"enabled",
	"custom_max_capacity",
	"custom_start",
	"custom_end",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с исключениями дат
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория исключений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Upsert создает или заменяет исключение по ключу (tenant_id, date, window_type)
func (r *Repository) Upsert(ctx context.Context, exc *domain.DateException) (*domain.DateException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("date_exceptions").
		Columns(
			"tenant_id",
			"exception_date",
			"window_type",
			"enabled",
			"custom_max_capacity",
			"custom_start",
			"custom_end",
		).
		Values(
			exc.TenantID,
			exc.Date,
			exc.WindowType,
			exc.Enabled,
			exc.CustomMaxCapacity,
			exc.CustomStart,
			exc.CustomEnd,
		).
		Suffix(`ON CONFLICT (tenant_id, exception_date, window_type) DO UPDATE SET
			enabled = EXCLUDED.enabled,
			custom_max_capacity = EXCLUDED.custom_max_capacity,
			custom_start = EXCLUDED.custom_start,
			custom_end = EXCLUDED.custom_end,
			updated_at = NOW()`).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&exc.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	exc.CreatedAt = createdAt.Time
	exc.UpdatedAt = updatedAt.Time

	return exc, nil
}

// GetByKey получает исключение по уникальному ключу
func (r *Repository) GetByKey(ctx context.Context, tenantID int64, date time.Time, windowType domain.WindowType) (*domain.DateException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(exceptionColumns...).
		From("date_exceptions").
		Where(squirrel.Eq{
			"tenant_id":      tenantID,
			"exception_date": date,
			"window_type":    windowType,
		}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByKey - build select query: %v", ErrBuildQuery, err)
	}

	exc, err := scanException(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrExceptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByKey - scan exception: %v", ErrScanRow, err)
	}

	return exc, nil
}

// ListByDateRange получает исключения арендатора в диапазоне дат [from, to]
func (r *Repository) ListByDateRange(ctx context.Context, tenantID int64, from, to time.Time) ([]*domain.DateException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(exceptionColumns...).
		From("date_exceptions").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		Where(squirrel.GtOrEq{"exception_date": from}).
		Where(squirrel.LtOrEq{"exception_date": to}).
		OrderBy("exception_date ASC, window_type ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByDateRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDateRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanExceptions(rows)
}

// ListWithFilter получает исключения арендатора.
// При FutureOnly=true возвращаются только исключения на Today и позже -
// это режим выборки, а не политика удаления: прошедшие исключения
// остаются в таблице.
func (r *Repository) ListWithFilter(ctx context.Context, filter domain.ExceptionsFilter) ([]*domain.DateException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(exceptionColumns...).
		From("date_exceptions").
		Where(squirrel.Eq{"tenant_id": filter.TenantID}).
		OrderBy("exception_date ASC, window_type ASC")

	if filter.FutureOnly {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"exception_date": filter.Today})
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

	return scanExceptions(rows)
}

// Delete удаляет исключение по ключу. После удаления дата считается по шаблону.
func (r *Repository) Delete(ctx context.Context, tenantID int64, date time.Time, windowType domain.WindowType) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("date_exceptions").
		Where(squirrel.Eq{
			"tenant_id":      tenantID,
			"exception_date": date,
			"window_type":    windowType,
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrExceptionNotFound
	}

	return nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanException сканирует одну строку в DateException
func scanException(row rowScanner) (*domain.DateException, error) {
	var exc domain.DateException
	var customCapacity sql.NullInt64
	var customStart, customEnd sql.NullString
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&exc.ID,
		&exc.TenantID,
		&exc.Date,
		&exc.WindowType,
		&exc.Enabled,
		&customCapacity,
		&customStart,
		&customEnd,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if customCapacity.Valid {
		c := int(customCapacity.Int64)
		exc.CustomMaxCapacity = &c
	}
	if customStart.Valid {
		ts := normalizeTime(customStart.String)
		exc.CustomStart = &ts
	}
	if customEnd.Valid {
		ts := normalizeTime(customEnd.String)
		exc.CustomEnd = &ts
	}

	exc.CreatedAt = createdAt.Time
	exc.UpdatedAt = updatedAt.Time

	return &exc, nil
}

// scanExceptions сканирует результаты запроса в слайс исключений
func scanExceptions(rows *sql.Rows) ([]*domain.DateException, error) {
	exceptions := make([]*domain.DateException, 0)

	for rows.Next() {
		exc, err := scanException(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanExceptions - scan row: %v", ErrScanRow, err)
		}
		exceptions = append(exceptions, exc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanExceptions - rows error: %v", ErrScanRow, err)
	}

	return exceptions, nil
}

// normalizeTime обрезает секунды из значения Postgres TIME ("15:04:00" -> "15:04")
func normalizeTime(s string) types.TimeString {
	if len(s) > 5 {
		s = s[:5]
	}
	return types.TimeString(s)
}
