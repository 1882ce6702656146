package list_availability

import (
	"github.com/m04kA/SMC-DeliverySlotsService/internal/domain"
	listAvailability "github.com/m04kA/SMC-DeliverySlotsService/internal/usecase/list_availability"
)

// WindowResponse HTTP модель одного вычисленного окна
type WindowResponse struct {
	Date        string `json:"date"`
	WindowType  string `json:"windowType"`
	IsOpen      bool   `json:"isOpen"`
	StartTime   string `json:"startTime,omitempty"`
	EndTime     string `json:"endTime,omitempty"`
	MaxCapacity int    `json:"maxCapacity"`
	Remaining   int    `json:"remaining"`
}

// AvailabilityResponse HTTP модель ответа со списком окон
type AvailabilityResponse struct {
	TenantID  int64            `json:"tenantId"`
	StartDate string           `json:"startDate"`
	EndDate   string           `json:"endDate"`
	Windows   []WindowResponse `json:"windows"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *listAvailability.Response) *AvailabilityResponse {
	windows := make([]WindowResponse, 0, len(resp.Windows))
	for _, w := range resp.Windows {
		wr := WindowResponse{
			Date:        w.Date.Format(domain.DateFormat),
			WindowType:  string(w.WindowType),
			IsOpen:      w.IsOpen,
			MaxCapacity: w.MaxCapacity,
			Remaining:   w.Remaining,
		}
		if w.IsOpen {
			wr.StartTime = w.StartTime.String()
			wr.EndTime = w.EndTime.String()
		}
		windows = append(windows, wr)
	}

	return &AvailabilityResponse{
		TenantID:  resp.TenantID,
		StartDate: resp.StartDate.Format(domain.DateFormat),
		EndDate:   resp.EndDate.Format(domain.DateFormat),
		Windows:   windows,
	}
}
