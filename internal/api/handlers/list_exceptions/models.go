package list_exceptions

import (
	"time"

	"github.com/m04kA/SMC-DeliverySlotsService/internal/domain"
)

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

// ExceptionsListResponse HTTP модель ответа со списком исключений
type ExceptionsListResponse struct {
	TenantID   int64               `json:"tenantId"`
	Exceptions []ExceptionResponse `json:"exceptions"`
}

// FromDomainList конвертирует доменные исключения в HTTP response
func FromDomainList(tenantID int64, exceptions []*domain.DateException) *ExceptionsListResponse {
	items := make([]ExceptionResponse, 0, len(exceptions))
	for _, exc := range exceptions {
		item := ExceptionResponse{
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
			item.CustomStart = &s
		}
		if exc.CustomEnd != nil {
			s := exc.CustomEnd.String()
			item.CustomEnd = &s
		}
		items = append(items, item)
	}

	return &ExceptionsListResponse{
		TenantID:   tenantID,
		Exceptions: items,
	}
}
