package list_exceptions

import (
	"context"

	"github.com/m04kA/SMC-DeliverySlotsService/internal/domain"
	"github.com/m04kA/SMC-DeliverySlotsService/internal/service/schedule/models"
)

type ScheduleService interface {
	ListExceptions(ctx context.Context, req *models.ListExceptionsRequest) ([]*domain.DateException, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
