package upsert_template

import (
	"context"

	"github.com/m04kA/SMC-DeliverySlotsService/internal/domain"
	"github.com/m04kA/SMC-DeliverySlotsService/internal/service/schedule/models"
)

type ScheduleService interface {
	UpsertTemplate(ctx context.Context, req *models.UpsertTemplateRequest) (*domain.WeeklyTemplate, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
