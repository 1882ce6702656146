package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-DeliverySlotsService/internal/domain"
	"github.com/m04kA/SMC-DeliverySlotsService/pkg/dbmetrics"
	"github.com/m04kA/SMC-DeliverySlotsService/pkg/psqlbuilder"
)

// uniqueViolation код ошибки PostgreSQL для нарушения уникальности
const uniqueViolation = "23505"

// Repository репозиторий ledger - единственный компонент, которому позволено
// изменять счётчики резервирований. Счётчик и множество держателей
// (reservations) изменяются только внутри транзакции вызывающего usecase.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория ledger
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// LockEntry возвращает запись ledger по ключу окна, создавая её лениво при
// первом обращении. Внутри транзакции строка блокируется (FOR UPDATE), так
// что конкурентные Reserve/Release по одному ключу сериализуются на уровне
// строки; разные ключи не конкурируют между собой.
func (r *Repository) LockEntry(ctx context.Context, tenantID int64, date time.Time, windowType domain.WindowType) (*domain.LedgerEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertQuery, insertArgs, err := psqlbuilder.Insert("capacity_ledger").
		Columns("tenant_id", "delivery_date", "window_type", "reserved").
		Values(tenantID, date, windowType, 0).
		Suffix("ON CONFLICT (tenant_id, delivery_date, window_type) DO NOTHING").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: LockEntry - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return nil, fmt.Errorf("%w: LockEntry - execute insert: %v", ErrExecQuery, err)
	}

	selectBuilder := psqlbuilder.Select(
		"id",
		"tenant_id",
		"delivery_date",
		"window_type",
		"reserved",
		"created_at",
		"updated_at",
	).
		From("capacity_ledger").
		Where(squirrel.Eq{
			"tenant_id":     tenantID,
			"delivery_date": date,
			"window_type":   windowType,
		})

	// Блокировка строки только внутри транзакции
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: LockEntry - build select query: %v", ErrBuildQuery, err)
	}

	var entry domain.LedgerEntry
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&entry.ID,
		&entry.TenantID,
		&entry.Date,
		&entry.WindowType,
		&entry.Reserved,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: LockEntry - scan entry: %v", ErrScanRow, err)
	}

	entry.CreatedAt = createdAt.Time
	entry.UpdatedAt = updatedAt.Time

	return &entry, nil
}

// IncrementReserved увеличивает счётчик записи на единицу
func (r *Repository) IncrementReserved(ctx context.Context, entryID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("capacity_ledger").
		Set("reserved", squirrel.Expr("reserved + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": entryID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: IncrementReserved - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: IncrementReserved - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: IncrementReserved - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrEntryNotFound
	}

	return nil
}

// DecrementReserved уменьшает счётчик записи на единицу.
// GREATEST не даёт счётчику уйти в минус - защитный инвариант на случай
// рассинхронизации с множеством держателей.
func (r *Repository) DecrementReserved(ctx context.Context, entryID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("capacity_ledger").
		Set("reserved", squirrel.Expr("GREATEST(reserved - 1, 0)")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": entryID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DecrementReserved - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DecrementReserved - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DecrementReserved - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrEntryNotFound
	}

	return nil
}

// GetReservedCounts возвращает счётчики резервирований арендатора в диапазоне
// дат [from, to], индексированные ключом окна. Отсутствие ключа в результате
// означает 0 резервирований. Чтение без блокировки - для листинга
// доступности, который не обязан быть линеаризуемым с резервированиями.
func (r *Repository) GetReservedCounts(ctx context.Context, tenantID int64, from, to time.Time) (map[domain.WindowKey]int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("delivery_date", "window_type", "reserved").
		From("capacity_ledger").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		Where(squirrel.GtOrEq{"delivery_date": from}).
		Where(squirrel.LtOrEq{"delivery_date": to}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetReservedCounts - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetReservedCounts - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	counts := make(map[domain.WindowKey]int)
	for rows.Next() {
		var date time.Time
		var windowType domain.WindowType
		var reserved int

		if err := rows.Scan(&date, &windowType, &reserved); err != nil {
			return nil, fmt.Errorf("%w: GetReservedCounts - scan row: %v", ErrScanRow, err)
		}

		counts[domain.NewWindowKey(date, windowType)] = reserved
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetReservedCounts - rows error: %v", ErrScanRow, err)
	}

	return counts, nil
}

// CreateReservation записывает держателя резервирования.
// Уникальный индекс по order_id гарантирует не больше одного
// резервирования на заказ даже при гонке.
func (r *Repository) CreateReservation(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reservations").
		Columns("id", "tenant_id", "delivery_date", "window_type", "order_id").
		Values(res.ID, res.TenantID, res.Date, res.WindowType, res.OrderID).
		Suffix("RETURNING created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateReservation - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return nil, ErrDuplicateOrder
		}
		return nil, fmt.Errorf("%w: CreateReservation - execute insert: %v", ErrExecQuery, err)
	}

	res.CreatedAt = createdAt.Time

	return res, nil
}

// GetReservationByOrderID находит резервирование, которое держит заказ.
// Внутри транзакции строка блокируется, чтобы Reserve/Release одного заказа
// не гонялись друг с другом.
func (r *Repository) GetReservationByOrderID(ctx context.Context, orderID string) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"tenant_id",
		"delivery_date",
		"window_type",
		"order_id",
		"created_at",
	).
		From("reservations").
		Where(squirrel.Eq{"order_id": orderID})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetReservationByOrderID - build select query: %v", ErrBuildQuery, err)
	}

	res, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetReservationByOrderID - scan reservation: %v", ErrScanRow, err)
	}

	return res, nil
}

// DeleteReservation удаляет держателя резервирования
func (r *Repository) DeleteReservation(ctx context.Context, id string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("reservations").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteReservation - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteReservation - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteReservation - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

// ListReservationsByWindow возвращает держателей резервирований окна
// (для менеджерского листинга)
func (r *Repository) ListReservationsByWindow(ctx context.Context, tenantID int64, date time.Time, windowType domain.WindowType) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"tenant_id",
		"delivery_date",
		"window_type",
		"order_id",
		"created_at",
	).
		From("reservations").
		Where(squirrel.Eq{
			"tenant_id":     tenantID,
			"delivery_date": date,
			"window_type":   windowType,
		}).
		OrderBy("created_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListReservationsByWindow - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListReservationsByWindow - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	reservations := make([]*domain.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListReservationsByWindow - scan row: %v", ErrScanRow, err)
		}
		reservations = append(reservations, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListReservationsByWindow - rows error: %v", ErrScanRow, err)
	}

	return reservations, nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanReservation сканирует одну строку в Reservation
func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var res domain.Reservation
	var createdAt sql.NullTime

	err := row.Scan(
		&res.ID,
		&res.TenantID,
		&res.Date,
		&res.WindowType,
		&res.OrderID,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	res.CreatedAt = createdAt.Time

	return &res, nil
}
