package get_window_reservations

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DeliverySlotsService/internal/domain"
)

type ReservationsService interface {
	GetWindowReservations(ctx context.Context, tenantID int64, date time.Time, windowType domain.WindowType) ([]*domain.Reservation, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
