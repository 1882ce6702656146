package domain

// Default configuration values
const (
	DefaultMinLeadWindows = 0

	// Границы окон по умолчанию. Используются для определения "окно уже
	// началось" на датах, где шаблон не задаёт время старта.
	DefaultMorningStart   = "09:00"
	DefaultMorningEnd     = "13:00"
	DefaultAfternoonStart = "14:00"
	DefaultAfternoonEnd   = "18:00"
)

// Business validation constants
const (
	MinWindowCapacity = 0
	MaxWindowCapacity = 1000
	MinLeadWindowsMin = 0
	MinLeadWindowsMax = 28 // Две недели по два окна в день
	MaxRangeDaysLimit = 92 // Абсолютный потолок диапазона выборки доступности
	WindowsPerDay     = 2
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
