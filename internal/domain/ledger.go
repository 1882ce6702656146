package domain

import "time"

// LedgerEntry авторитетный счётчик резервирований на ключ
// (TenantID, Date, WindowType). Создается лениво при первом резервировании
// и не удаляется - прошедшие даты сохраняют счётчик для отчетности.
// Инвариант: Reserved равен числу активных Reservation по этому ключу и
// никогда не превышает эффективную ёмкость окна.
type LedgerEntry struct {
	ID         int64
	TenantID   int64
	Date       time.Time
	WindowType WindowType
	Reserved   int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Reservation удержание одной единицы ёмкости окна заказом.
// OrderID - непрозрачный идентификатор из сервиса заказов, уникален:
// один заказ держит не больше одного резервирования.
type Reservation struct {
	ID         string // UUID
	TenantID   int64
	Date       time.Time
	WindowType WindowType
	OrderID    string
	CreatedAt  time.Time
}

// WindowKey ключ окна доставки - единица изоляции при конкурентных резервированиях
type WindowKey struct {
	Date       string // в формате DateFormat
	WindowType WindowType
}

// NewWindowKey создает ключ окна из даты и типа
func NewWindowKey(date time.Time, windowType WindowType) WindowKey {
	return WindowKey{Date: date.Format(DateFormat), WindowType: windowType}
}
