package get_template

import (
	"context"

	"github.com/m04kA/SMC-DeliverySlotsService/internal/domain"
)

type ScheduleService interface {
	GetTemplate(ctx context.Context, tenantID int64) (*domain.WeeklyTemplate, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
