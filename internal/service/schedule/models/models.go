package models

import (
	"time"

	"github.com/m04kA/SMC-DeliverySlotsService/internal/domain"
	"github.com/m04kA/SMC-DeliverySlotsService/pkg/types"
)

// WindowSpecModel параметры одного окна в запросе на сохранение шаблона
type WindowSpecModel struct {
	StartTime   types.TimeString
	EndTime     types.TimeString
	MaxCapacity *int
}

// DayScheduleModel расписание одного дня недели в запросе
type DayScheduleModel struct {
	Enabled   bool
	Morning   *WindowSpecModel
	Afternoon *WindowSpecModel
}

// UpsertTemplateRequest запрос на сохранение недельного шаблона
type UpsertTemplateRequest struct {
	TenantID                 int64
	Days                     [7]DayScheduleModel // Понедельник..воскресенье
	MinLeadWindows           int
	DefaultMorningCapacity   int
	DefaultAfternoonCapacity int
}

// ToDomainTemplate конвертирует запрос в доменный шаблон
func (r *UpsertTemplateRequest) ToDomainTemplate() *domain.WeeklyTemplate {
	tpl := &domain.WeeklyTemplate{
		TenantID:                 r.TenantID,
		MinLeadWindows:           r.MinLeadWindows,
		DefaultMorningCapacity:   r.DefaultMorningCapacity,
		DefaultAfternoonCapacity: r.DefaultAfternoonCapacity,
	}

	for i, day := range r.Days {
		tpl.Days[i] = domain.DaySchedule{
			Enabled:   day.Enabled,
			Morning:   toDomainSpec(day.Morning),
			Afternoon: toDomainSpec(day.Afternoon),
		}
	}

	return tpl
}

func toDomainSpec(spec *WindowSpecModel) *domain.WindowSpec {
	if spec == nil {
		return nil
	}
	return &domain.WindowSpec{
		StartTime:   spec.StartTime,
		EndTime:     spec.EndTime,
		MaxCapacity: spec.MaxCapacity,
	}
}

// UpsertExceptionRequest запрос на создание/замену исключения даты
type UpsertExceptionRequest struct {
	TenantID          int64
	Date              time.Time
	WindowType        domain.WindowType
	Enabled           bool
	CustomMaxCapacity *int
	CustomStart       *types.TimeString
	CustomEnd         *types.TimeString
}

// ToDomainException конвертирует запрос в доменное исключение
func (r *UpsertExceptionRequest) ToDomainException() *domain.DateException {
	return &domain.DateException{
		TenantID:          r.TenantID,
		Date:              r.Date,
		WindowType:        r.WindowType,
		Enabled:           r.Enabled,
		CustomMaxCapacity: r.CustomMaxCapacity,
		CustomStart:       r.CustomStart,
		CustomEnd:         r.CustomEnd,
	}
}

// ListExceptionsRequest запрос на получение исключений арендатора
type ListExceptionsRequest struct {
	TenantID   int64
	FutureOnly bool
}
