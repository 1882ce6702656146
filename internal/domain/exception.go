package domain

import (
	"time"

	"github.com/m04kA/SMC-DeliverySlotsService/pkg/types"
)

// DateException переопределение шаблона для конкретной даты и типа окна.
// Уникально по (TenantID, Date, WindowType) - повторная запись по тому же
// ключу заменяет предыдущую. Имеет приоритет над недельным шаблоном:
// Enabled=false закрывает окно на дату, Enabled=true открывает его даже в
// выключенный по шаблону день; Custom-поля переопределяют шаблон пофилево,
// незаданные (nil) поля наследуются из шаблона.
type DateException struct {
	ID                int64
	TenantID          int64
	Date              time.Time
	WindowType        WindowType
	Enabled           bool
	CustomMaxCapacity *int
	CustomStart       *types.TimeString
	CustomEnd         *types.TimeString
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ExceptionsFilter фильтр для получения исключений арендатора
type ExceptionsFilter struct {
	TenantID   int64
	FutureOnly bool      // Только исключения на сегодня и позже
	Today      time.Time // "Сегодня" в локальной дате арендатора (для FutureOnly)
}
