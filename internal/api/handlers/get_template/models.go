package get_template

import (
	"time"

	"github.com/m04kA/SMC-DeliverySlotsService/internal/domain"
)

// WindowSpecResponse HTTP модель параметров одного окна
type WindowSpecResponse struct {
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	MaxCapacity *int   `json:"maxCapacity,omitempty"`
}

// DayScheduleResponse HTTP модель расписания одного дня недели
type DayScheduleResponse struct {
	Enabled   bool                `json:"enabled"`
	Morning   *WindowSpecResponse `json:"morning,omitempty"`
	Afternoon *WindowSpecResponse `json:"afternoon,omitempty"`
}

// TemplateResponse HTTP модель недельного шаблона
type TemplateResponse struct {
	TenantID                 int64                  `json:"tenantId"`
	Days                     [7]DayScheduleResponse `json:"days"` // Понедельник..воскресенье
	MinLeadWindows           int                    `json:"minLeadWindows"`
	DefaultMorningCapacity   int                    `json:"defaultMorningCapacity"`
	DefaultAfternoonCapacity int                    `json:"defaultAfternoonCapacity"`
	CreatedAt                string                 `json:"createdAt"`
	UpdatedAt                string                 `json:"updatedAt"`
}

// FromDomain конвертирует доменный шаблон в HTTP response
func FromDomain(tpl *domain.WeeklyTemplate) *TemplateResponse {
	resp := &TemplateResponse{
		TenantID:                 tpl.TenantID,
		MinLeadWindows:           tpl.MinLeadWindows,
		DefaultMorningCapacity:   tpl.DefaultMorningCapacity,
		DefaultAfternoonCapacity: tpl.DefaultAfternoonCapacity,
		CreatedAt:                tpl.CreatedAt.Format(time.RFC3339),
		UpdatedAt:                tpl.UpdatedAt.Format(time.RFC3339),
	}

	for i, day := range tpl.Days {
		resp.Days[i] = DayScheduleResponse{
			Enabled:   day.Enabled,
			Morning:   specToResponse(day.Morning),
			Afternoon: specToResponse(day.Afternoon),
		}
	}

	return resp
}

func specToResponse(spec *domain.WindowSpec) *WindowSpecResponse {
	if spec == nil {
		return nil
	}
	return &WindowSpecResponse{
		StartTime:   spec.StartTime.String(),
		EndTime:     spec.EndTime.String(),
		MaxCapacity: spec.MaxCapacity,
	}
}
