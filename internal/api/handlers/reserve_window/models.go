package reserve_window

import (
	"time"

	"github.com/m04kA/SMC-DeliverySlotsService/internal/domain"
	reserveWindow "github.com/m04kA/SMC-DeliverySlotsService/internal/usecase/reserve_window"
)

// ReserveWindowRequest HTTP request model
type ReserveWindowRequest struct {
	TenantID   int64  `json:"tenantId"`
	Date       string `json:"date"`       // "2026-09-03"
	WindowType string `json:"windowType"` // "morning" | "afternoon"
	OrderID    string `json:"orderId"`
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ReservationID   string `json:"reservationId"`
	TenantID        int64  `json:"tenantId"`
	Date            string `json:"date"`
	WindowType      string `json:"windowType"`
	OrderID         string `json:"orderId"`
	Remaining       int    `json:"remaining"`
	AlreadyReserved bool   `json:"alreadyReserved"`
	CreatedAt       string `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ReserveWindowRequest) ToUseCaseRequest() (*reserveWindow.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	return &reserveWindow.Request{
		TenantID:   r.TenantID,
		Date:       date,
		WindowType: domain.WindowType(r.WindowType),
		OrderID:    r.OrderID,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *reserveWindow.Response) *ReservationResponse {
	return &ReservationResponse{
		ReservationID:   resp.ReservationID,
		TenantID:        resp.TenantID,
		Date:            resp.Date.Format(domain.DateFormat),
		WindowType:      string(resp.WindowType),
		OrderID:         resp.OrderID,
		Remaining:       resp.Remaining,
		AlreadyReserved: resp.AlreadyReserved,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
	}
}
