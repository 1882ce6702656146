package release_window

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DeliverySlotsService/internal/domain"
)

// LedgerRepository интерфейс ledger - счётчик и держатели резервирований
type LedgerRepository interface {
	LockEntry(ctx context.Context, tenantID int64, date time.Time, windowType domain.WindowType) (*domain.LedgerEntry, error)
	DecrementReserved(ctx context.Context, entryID int64) error
	DeleteReservation(ctx context.Context, reservationID string) error
	GetReservationByOrderID(ctx context.Context, orderID string) (*domain.Reservation, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
