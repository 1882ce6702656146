package ledger

import "errors"

var (
	// ErrEntryNotFound возвращается, когда запись ledger не найдена
	ErrEntryNotFound = errors.New("ledger.repository: ledger entry not found")

	// ErrReservationNotFound возвращается, когда резервирование не найдено
	ErrReservationNotFound = errors.New("ledger.repository: reservation not found")

	// ErrDuplicateOrder возвращается при попытке создать второе резервирование
	// для того же заказа (нарушение уникальности order_id)
	ErrDuplicateOrder = errors.New("ledger.repository: order already holds a reservation")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("ledger.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("ledger.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("ledger.repository: failed to scan row")
)
