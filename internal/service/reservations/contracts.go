package reservations

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DeliverySlotsService/internal/domain"
)

// LedgerRepository интерфейс чтения ledger и держателей резервирований
type LedgerRepository interface {
	ListReservationsByWindow(ctx context.Context, tenantID int64, date time.Time, windowType domain.WindowType) ([]*domain.Reservation, error)
	GetReservationByOrderID(ctx context.Context, orderID string) (*domain.Reservation, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
