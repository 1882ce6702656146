package upsert_template

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-DeliverySlotsService/internal/domain"
	"github.com/m04kA/SMC-DeliverySlotsService/internal/service/schedule/models"
	"github.com/m04kA/SMC-DeliverySlotsService/pkg/types"
)

// WindowSpecRequest HTTP модель параметров одного окна
type WindowSpecRequest struct {
	StartTime   string `json:"startTime"` // "09:00"
	EndTime     string `json:"endTime"`   // "13:00"
	MaxCapacity *int   `json:"maxCapacity,omitempty"`
}

// DayScheduleRequest HTTP модель расписания одного дня недели
type DayScheduleRequest struct {
	Enabled   bool               `json:"enabled"`
	Morning   *WindowSpecRequest `json:"morning,omitempty"`
	Afternoon *WindowSpecRequest `json:"afternoon,omitempty"`
}

// UpsertTemplateRequest HTTP request model
type UpsertTemplateRequest struct {
	Days                     [7]DayScheduleRequest `json:"days"` // Понедельник..воскресенье
	MinLeadWindows           int                   `json:"minLeadWindows"`
	DefaultMorningCapacity   int                   `json:"defaultMorningCapacity"`
	DefaultAfternoonCapacity int                   `json:"defaultAfternoonCapacity"`
}

// TemplateResponse HTTP модель сохранённого шаблона
type TemplateResponse struct {
	TenantID                 int64                 `json:"tenantId"`
	Days                     [7]DayScheduleRequest `json:"days"`
	MinLeadWindows           int                   `json:"minLeadWindows"`
	DefaultMorningCapacity   int                   `json:"defaultMorningCapacity"`
	DefaultAfternoonCapacity int                   `json:"defaultAfternoonCapacity"`
	CreatedAt                string                `json:"createdAt"`
	UpdatedAt                string                `json:"updatedAt"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса (с парсингом времени)
func (r *UpsertTemplateRequest) ToServiceRequest(tenantID int64) (*models.UpsertTemplateRequest, error) {
	req := &models.UpsertTemplateRequest{
		TenantID:                 tenantID,
		MinLeadWindows:           r.MinLeadWindows,
		DefaultMorningCapacity:   r.DefaultMorningCapacity,
		DefaultAfternoonCapacity: r.DefaultAfternoonCapacity,
	}

	for i, day := range r.Days {
		morning, err := toServiceSpec(day.Morning)
		if err != nil {
			return nil, fmt.Errorf("day %d morning: %w", i, err)
		}
		afternoon, err := toServiceSpec(day.Afternoon)
		if err != nil {
			return nil, fmt.Errorf("day %d afternoon: %w", i, err)
		}
		req.Days[i] = models.DayScheduleModel{
			Enabled:   day.Enabled,
			Morning:   morning,
			Afternoon: afternoon,
		}
	}

	return req, nil
}

func toServiceSpec(spec *WindowSpecRequest) (*models.WindowSpecModel, error) {
	if spec == nil {
		return nil, nil
	}

	start, err := types.NewTimeStringFromString(spec.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := types.NewTimeStringFromString(spec.EndTime)
	if err != nil {
		return nil, err
	}

	return &models.WindowSpecModel{
		StartTime:   start,
		EndTime:     end,
		MaxCapacity: spec.MaxCapacity,
	}, nil
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
		resp.Days[i] = DayScheduleRequest{
			Enabled:   day.Enabled,
			Morning:   specToRequest(day.Morning),
			Afternoon: specToRequest(day.Afternoon),
		}
	}

	return resp
}

func specToRequest(spec *domain.WindowSpec) *WindowSpecRequest {
	if spec == nil {
		return nil
	}
	return &WindowSpecRequest{
		StartTime:   spec.StartTime.String(),
		EndTime:     spec.EndTime.String(),
		MaxCapacity: spec.MaxCapacity,
	}
}
