package release_window

import (
	"time"

	"github.com/m04kA/SMC-DeliverySlotsService/internal/domain"
)

// Request модель запроса на снятие резервирования
type Request struct {
	OrderID string
}

// Response модель ответа. Released=false означает, что резервирования
// для заказа не было - повторный Release это успех, а не ошибка.
type Response struct {
	Released      bool
	ReservationID string
	TenantID      int64
	Date          time.Time
	WindowType    domain.WindowType
}
