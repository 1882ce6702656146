package domain

import (
	"time"

	"github.com/m04kA/SMC-DeliverySlotsService/pkg/types"
)

// WindowType тип окна доставки внутри дня
type WindowType string

const (
	WindowMorning   WindowType = "morning"
	WindowAfternoon WindowType = "afternoon"
)

// AllWindowTypes все типы окон в хронологическом порядке внутри дня
var AllWindowTypes = []WindowType{WindowMorning, WindowAfternoon}

// IsValid возвращает true для известного типа окна
func (w WindowType) IsValid() bool {
	return w == WindowMorning || w == WindowAfternoon
}

// Ordinal возвращает хронологический порядок окна внутри дня (morning=0, afternoon=1)
func (w WindowType) Ordinal() int {
	if w == WindowAfternoon {
		return 1
	}
	return 0
}

// WindowSpec параметры одного окна доставки в шаблоне.
// MaxCapacity == nil означает, что действует дефолтная ёмкость арендатора
// для этого типа окна.
type WindowSpec struct {
	StartTime   types.TimeString
	EndTime     types.TimeString
	MaxCapacity *int
}

// AvailableWindow вычисляемое представление окна доставки на конкретную дату.
// IsOpen означает "окно предлагается на эту дату": выключенное в шаблоне,
// запрещённое исключением или попавшее под lead-time cutoff окно закрыто.
// Открытое окно при этом может иметь Remaining == 0 - оно предлагается,
// но свободной ёмкости нет. Для проверки возможности бронирования нужно
// смотреть и IsOpen, и Remaining.
type AvailableWindow struct {
	Date        time.Time
	WindowType  WindowType
	IsOpen      bool
	StartTime   types.TimeString
	EndTime     types.TimeString
	MaxCapacity int
	Remaining   int
}

// IsBookable возвращает true, если окно предлагается и есть свободная ёмкость
func (w *AvailableWindow) IsBookable() bool {
	return w.IsOpen && w.Remaining > 0
}
