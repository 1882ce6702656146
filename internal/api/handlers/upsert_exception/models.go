package upsert_exception

import (
	"time"

	"github.com/m04kA/SMC-DeliverySlotsService/internal/domain"
	"github.com/m04kA/SMC-DeliverySlotsService/internal/service/schedule/models"
	"github.com/m04kA/SMC-DeliverySlotsService/pkg/types"
)

// UpsertExceptionRequest HTTP request model
type UpsertExceptionRequest struct {
	Date              string  `json:"date"`       // "2026-09-03"
	WindowType        string  `json:"windowType"` // "morning" | "afternoon"
	Enabled           bool    `json:"enabled"`
	CustomMaxCapacity *int    `json:"customMaxCapacity,omitempty"`
	CustomStart       *string `json:"customStart,omitempty"` // "10:00"
	CustomEnd         *string `json:"customEnd,omitempty"`   // "12:00"
}

// ExceptionResponse HTTP модель исключения даты
type ExceptionResponse struct {
	ID                int64   `json:"id"`
	TenantID          int64   `json:"tenantId"`
	Date              string  `json:"date"`
	WindowType        string  `json:"windowType"`
	Enabled           bool    `json:"enabled"`
	CustomMaxCapacity *int    `json:"customMaxCapacity,omitempty"`
	CustomStart       *string `json:"customStart,omitempty"`
	CustomEnd         *string `json:"customEnd,omitempty"`
	CreatedAt         string  `json:"createdAt"`
	UpdatedAt         string  `json:"updatedAt"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpsertExceptionRequest) ToServiceRequest(tenantID int64) (*models.UpsertExceptionRequest, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	var customStart, customEnd *types.TimeString
	if r.CustomStart != nil {
		ts, err := types.NewTimeStringFromString(*r.CustomStart)
		if err != nil {
			return nil, err
		}
		customStart = &ts
	}
	if r.CustomEnd != nil {
		ts, err := types.NewTimeStringFromString(*r.CustomEnd)
		if err != nil {
			return nil, err
		}
		customEnd = &ts
	}

	return &models.UpsertExceptionRequest{
		TenantID:          tenantID,
		Date:              date,
		WindowType:        domain.WindowType(r.WindowType),
		Enabled:           r.Enabled,
		CustomMaxCapacity: r.CustomMaxCapacity,
		CustomStart:       customStart,
		CustomEnd:         customEnd,
	}, nil
}

// FromDomain конвертирует доменное исключение в HTTP response
func FromDomain(exc *domain.DateException) *ExceptionResponse {
	resp := &ExceptionResponse{
		ID:                exc.ID,
		TenantID:          exc.TenantID,
		Date:              exc.Date.Format(domain.DateFormat),
		WindowType:        string(exc.WindowType),
		Enabled:           exc.Enabled,
		CustomMaxCapacity: exc.CustomMaxCapacity,
		CreatedAt:         exc.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         exc.UpdatedAt.Format(time.RFC3339),
	}

	if exc.CustomStart != nil {
		s := exc.CustomStart.String()
		resp.CustomStart = &s
	}
	if exc.CustomEnd != nil {
		s := exc.CustomEnd.String()
		resp.CustomEnd = &s
	}

	return resp
}
