package domain

import "time"

// DaySchedule расписание окон доставки на один день недели
type DaySchedule struct {
	Enabled   bool
	Morning   *WindowSpec
	Afternoon *WindowSpec
}

// SpecFor возвращает спецификацию окна указанного типа (nil, если окно не настроено)
func (d *DaySchedule) SpecFor(windowType WindowType) *WindowSpec {
	switch windowType {
	case WindowMorning:
		return d.Morning
	case WindowAfternoon:
		return d.Afternoon
	default:
		return nil
	}
}

// WeeklyTemplate недельный шаблон окон доставки арендатора.
// Ровно один на арендатора, создается при онбординге и обновляется целиком.
// Days индексируется с понедельника (0) по воскресенье (6).
type WeeklyTemplate struct {
	TenantID                 int64
	Days                     [7]DaySchedule
	MinLeadWindows           int
	DefaultMorningCapacity   int
	DefaultAfternoonCapacity int
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// DayIndex возвращает индекс дня недели в Days (понедельник = 0)
func DayIndex(date time.Time) int {
	// time.Weekday: Sunday = 0
	return (int(date.Weekday()) + 6) % 7
}

// DayFor возвращает расписание на день недели указанной даты
func (t *WeeklyTemplate) DayFor(date time.Time) DaySchedule {
	return t.Days[DayIndex(date)]
}

// DefaultCapacityFor возвращает дефолтную ёмкость арендатора для типа окна
func (t *WeeklyTemplate) DefaultCapacityFor(windowType WindowType) int {
	if windowType == WindowAfternoon {
		return t.DefaultAfternoonCapacity
	}
	return t.DefaultMorningCapacity
}
