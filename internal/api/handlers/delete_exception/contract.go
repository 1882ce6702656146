package delete_exception

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DeliverySlotsService/internal/domain"
)

type ScheduleService interface {
	DeleteException(ctx context.Context, tenantID int64, date time.Time, windowType domain.WindowType) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
