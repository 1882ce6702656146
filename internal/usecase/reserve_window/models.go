package reserve_window

import (
	"time"

	"github.com/m04kA/SMC-DeliverySlotsService/internal/domain"
)

// Request модель запроса на резервирование окна доставки
type Request struct {
	TenantID   int64
	Date       time.Time // Дата доставки (без времени)
	WindowType domain.WindowType
	OrderID    string // Непрозрачный идентификатор заказа
}

// Response модель ответа с резервированием.
// AlreadyReserved=true означает, что заказ уже держал резервирование и
// возвращено существующее - повторный Reserve не считается ошибкой и
// не инкрементирует ledger.
type Response struct {
	ReservationID   string
	TenantID        int64
	Date            time.Time
	WindowType      domain.WindowType
	OrderID         string
	Remaining       int // Остаток ёмкости после этого вызова
	AlreadyReserved bool
	CreatedAt       time.Time
}
