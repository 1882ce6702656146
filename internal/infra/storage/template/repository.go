package template

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-DeliverySlotsService/internal/domain"
	"github.com/m04kA/SMC-DeliverySlotsService/pkg/dbmetrics"
	"github.com/m04kA/SMC-DeliverySlotsService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-DeliverySlotsService/pkg/types"
)

// Repository репозиторий для работы с недельными шаблонами окон доставки.
// Шаблон хранится в двух таблицах: delivery_templates (заголовок арендатора)
// и template_days (по строке на день недели).
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория шаблонов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Upsert сохраняет шаблон арендатора целиком (заголовок + 7 дней).
// Вызывается сервисом внутри транзакции, чтобы шаблон не читался
// наполовину обновлённым.
func (r *Repository) Upsert(ctx context.Context, tpl *domain.WeeklyTemplate) (*domain.WeeklyTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("delivery_templates").
		Columns(
			"tenant_id",
			"min_lead_windows",
			"default_morning_capacity",
			"default_afternoon_capacity",
		).
		Values(
			tpl.TenantID,
			tpl.MinLeadWindows,
			tpl.DefaultMorningCapacity,
			tpl.DefaultAfternoonCapacity,
		).
		Suffix(`ON CONFLICT (tenant_id) DO UPDATE SET
			min_lead_windows = EXCLUDED.min_lead_windows,
			default_morning_capacity = EXCLUDED.default_morning_capacity,
			default_afternoon_capacity = EXCLUDED.default_afternoon_capacity,
			updated_at = NOW()`).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	tpl.CreatedAt = createdAt.Time
	tpl.UpdatedAt = updatedAt.Time

	for weekday := 0; weekday < 7; weekday++ {
		if err := r.upsertDay(ctx, executor, tpl.TenantID, weekday, tpl.Days[weekday]); err != nil {
			return nil, err
		}
	}

	return tpl, nil
}

// upsertDay сохраняет расписание одного дня недели
func (r *Repository) upsertDay(ctx context.Context, executor DBExecutor, tenantID int64, weekday int, day domain.DaySchedule) error {
	query, args, err := psqlbuilder.Insert("template_days").
		Columns(
			"tenant_id",
			"weekday",
			"enabled",
			"morning_start",
			"morning_end",
			"morning_capacity",
			"afternoon_start",
			"afternoon_end",
			"afternoon_capacity",
		).
		Values(
			tenantID,
			weekday,
			day.Enabled,
			specStart(day.Morning),
			specEnd(day.Morning),
			specCapacity(day.Morning),
			specStart(day.Afternoon),
			specEnd(day.Afternoon),
			specCapacity(day.Afternoon),
		).
		Suffix(`ON CONFLICT (tenant_id, weekday) DO UPDATE SET
			enabled = EXCLUDED.enabled,
			morning_start = EXCLUDED.morning_start,
			morning_end = EXCLUDED.morning_end,
			morning_capacity = EXCLUDED.morning_capacity,
			afternoon_start = EXCLUDED.afternoon_start,
			afternoon_end = EXCLUDED.afternoon_end,
			afternoon_capacity = EXCLUDED.afternoon_capacity,
			updated_at = NOW()`).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: upsertDay - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: upsertDay - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetByTenant получает шаблон арендатора
func (r *Repository) GetByTenant(ctx context.Context, tenantID int64) (*domain.WeeklyTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"tenant_id",
		"min_lead_windows",
		"default_morning_capacity",
		"default_afternoon_capacity",
		"created_at",
		"updated_at",
	).
		From("delivery_templates").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByTenant - build select query: %v", ErrBuildQuery, err)
	}

	var tpl domain.WeeklyTemplate
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&tpl.TenantID,
		&tpl.MinLeadWindows,
		&tpl.DefaultMorningCapacity,
		&tpl.DefaultAfternoonCapacity,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTenant - scan template: %v", ErrScanRow, err)
	}

	tpl.CreatedAt = createdAt.Time
	tpl.UpdatedAt = updatedAt.Time

	if err := r.loadDays(ctx, executor, &tpl); err != nil {
		return nil, err
	}

	return &tpl, nil
}

// loadDays загружает строки template_days в массив Days шаблона
func (r *Repository) loadDays(ctx context.Context, executor DBExecutor, tpl *domain.WeeklyTemplate) error {
	query, args, err := psqlbuilder.Select(
		"weekday",
		"enabled",
		"morning_start",
		"morning_end",
		"morning_capacity",
		"afternoon_start",
		"afternoon_end",
		"afternoon_capacity",
	).
		From("template_days").
		Where(squirrel.Eq{"tenant_id": tpl.TenantID}).
		OrderBy("weekday ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: loadDays - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadDays - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			weekday                      int
			enabled                      bool
			morningStart, morningEnd     sql.NullString
			afternoonStart, afternoonEnd sql.NullString
			morningCap, afternoonCap     sql.NullInt64
		)

		err := rows.Scan(
			&weekday,
			&enabled,
			&morningStart,
			&morningEnd,
			&morningCap,
			&afternoonStart,
			&afternoonEnd,
			&afternoonCap,
		)
		if err != nil {
			return fmt.Errorf("%w: loadDays - scan row: %v", ErrScanRow, err)
		}

		if weekday < 0 || weekday > 6 {
			continue
		}

		tpl.Days[weekday] = domain.DaySchedule{
			Enabled:   enabled,
			Morning:   buildSpec(morningStart, morningEnd, morningCap),
			Afternoon: buildSpec(afternoonStart, afternoonEnd, afternoonCap),
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadDays - rows error: %v", ErrScanRow, err)
	}

	return nil
}

// Delete удаляет шаблон арендатора (вместе с днями, по внешнему ключу)
func (r *Repository) Delete(ctx context.Context, tenantID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("delivery_templates").
		Where(squirrel.Eq{"tenant_id": tenantID}).
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
		return ErrTemplateNotFound
	}

	return nil
}

// specStart возвращает время начала окна для записи в БД (NULL, если окна нет)
func specStart(spec *domain.WindowSpec) interface{} {
	if spec == nil {
		return nil
	}
	return spec.StartTime
}

// specEnd возвращает время конца окна для записи в БД (NULL, если окна нет)
func specEnd(spec *domain.WindowSpec) interface{} {
	if spec == nil {
		return nil
	}
	return spec.EndTime
}

// specCapacity возвращает ёмкость окна для записи в БД (NULL = дефолт арендатора)
func specCapacity(spec *domain.WindowSpec) interface{} {
	if spec == nil || spec.MaxCapacity == nil {
		return nil
	}
	return *spec.MaxCapacity
}

// buildSpec собирает WindowSpec из nullable колонок (nil, если окно не настроено)
func buildSpec(start, end sql.NullString, capacity sql.NullInt64) *domain.WindowSpec {
	if !start.Valid || !end.Valid {
		return nil
	}

	spec := &domain.WindowSpec{
		StartTime: normalizeTime(start.String),
		EndTime:   normalizeTime(end.String),
	}
	if capacity.Valid {
		c := int(capacity.Int64)
		spec.MaxCapacity = &c
	}

	return spec
}

// normalizeTime обрезает секунды из значения Postgres TIME ("15:04:00" -> "15:04")
func normalizeTime(s string) types.TimeString {
	if len(s) > 5 {
		s = s[:5]
	}
	return types.TimeString(s)
}
