package get_window_reservations

import (
	"time"

	"github.com/m04kA/SMC-DeliverySlotsService/internal/domain"
)

// ReservationResponse HTTP модель одного резервирования
type ReservationResponse struct {
	ReservationID string `json:"reservationId"`
	OrderID       string `json:"orderId"`
	CreatedAt     string `json:"createdAt"`
}

// WindowReservationsResponse HTTP модель ответа со списком держателей окна
type WindowReservationsResponse struct {
	TenantID     int64                 `json:"tenantId"`
	Date         string                `json:"date"`
	WindowType   string                `json:"windowType"`
	Reservations []ReservationResponse `json:"reservations"`
}

// FromDomainList конвертирует доменные резервирования в HTTP response
func FromDomainList(tenantID int64, date time.Time, windowType domain.WindowType, reservations []*domain.Reservation) *WindowReservationsResponse {
	items := make([]ReservationResponse, 0, len(reservations))
	for _, res := range reservations {
		items = append(items, ReservationResponse{
			ReservationID: res.ID,
			OrderID:       res.OrderID,
			CreatedAt:     res.CreatedAt.Format(time.RFC3339),
		})
	}

	return &WindowReservationsResponse{
		TenantID:     tenantID,
		Date:         date.Format(domain.DateFormat),
		WindowType:   string(windowType),
		Reservations: items,
	}
}
