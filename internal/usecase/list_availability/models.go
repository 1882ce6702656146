package list_availability

import (
	"time"

	"github.com/m04kA/SMC-DeliverySlotsService/internal/domain"
)

// Request модель запроса доступности окон доставки
type Request struct {
	TenantID      int64
	StartDate     time.Time          // Начало диапазона (включительно)
	EndDate       time.Time          // Конец диапазона (включительно)
	WindowType    *domain.WindowType // Фильтр по типу окна (опционально)
	OnlyAvailable bool               // Только окна со свободной ёмкостью
}

// Response модель ответа со списком вычисленных окон
type Response struct {
	TenantID  int64
	StartDate time.Time
	EndDate   time.Time
	Windows   []domain.AvailableWindow
}
