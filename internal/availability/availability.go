// Package availability содержит чистую логику вычисления доступности окон
// доставки: наложение исключений на недельный шаблон, lead-time cutoff в
// гранулярности окон и расчёт остатка ёмкости по данным ledger.
//
// Пакет не имеет побочных эффектов и зависимостей от хранилищ - все данные
// передаются аргументами, "сейчас" инжектируется. Это делает правила
// приоритета (исключение > шаблон, пофилевое наследование) самостоятельным
// тестируемым контрактом.
package availability

import (
	"time"

	"github.com/m04kA/SMC-DeliverySlotsService/internal/domain"
	"github.com/m04kA/SMC-DeliverySlotsService/pkg/types"
)

// DayNumber возвращает порядковый номер календарной даты (дни от epoch).
// Считается по календарным полям даты, таймзона значения роли не играет.
func DayNumber(t time.Time) int {
	y, m, d := t.Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

// WindowIndex возвращает хронологический индекс окна: каждый календарный
// день вносит ровно два окна (morning, afternoon) независимо от того,
// включены ли они в шаблоне. Lead-time считается именно в этих единицах.
func WindowIndex(date time.Time, windowType domain.WindowType) int {
	return DayNumber(date)*domain.WindowsPerDay + windowType.Ordinal()
}

// defaultStart возвращает границу начала окна по умолчанию
func defaultStart(windowType domain.WindowType) types.TimeString {
	if windowType == domain.WindowAfternoon {
		return types.TimeString(domain.DefaultAfternoonStart)
	}
	return types.TimeString(domain.DefaultMorningStart)
}

// defaultEnd возвращает границу конца окна по умолчанию
func defaultEnd(windowType domain.WindowType) types.TimeString {
	if windowType == domain.WindowAfternoon {
		return types.TimeString(domain.DefaultAfternoonEnd)
	}
	return types.TimeString(domain.DefaultMorningEnd)
}

// EffectiveWindow накладывает исключение на шаблон для пары (дата, тип окна)
// и возвращает эффективные границы, ёмкость и признак "окно предлагается".
//
// Правила приоритета:
//   - исключение с Enabled=false закрывает окно независимо от шаблона;
//   - исключение с Enabled=true открывает окно даже в выключенный день;
//   - Custom-поля исключения переопределяют шаблон пофилево, незаданные
//     поля наследуются из шаблона (или из дефолтов, если в шаблоне окна нет);
//   - ёмкость: CustomMaxCapacity > WindowSpec.MaxCapacity > дефолт арендатора.
func EffectiveWindow(
	tpl *domain.WeeklyTemplate,
	exc *domain.DateException,
	date time.Time,
	windowType domain.WindowType,
) (start, end types.TimeString, capacity int, offered bool) {
	day := tpl.DayFor(date)
	spec := day.SpecFor(windowType)

	// Базовые значения из шаблона (или дефолты, если окно не настроено)
	start = defaultStart(windowType)
	end = defaultEnd(windowType)
	capacity = tpl.DefaultCapacityFor(windowType)
	offered = day.Enabled && spec != nil

	if spec != nil {
		if !spec.StartTime.IsZero() {
			start = spec.StartTime
		}
		if !spec.EndTime.IsZero() {
			end = spec.EndTime
		}
		if spec.MaxCapacity != nil {
			capacity = *spec.MaxCapacity
		}
	}

	if exc != nil {
		offered = exc.Enabled
		if exc.CustomStart != nil {
			start = *exc.CustomStart
		}
		if exc.CustomEnd != nil {
			end = *exc.CustomEnd
		}
		if exc.CustomMaxCapacity != nil {
			capacity = *exc.CustomMaxCapacity
		}
	}

	return start, end, capacity, offered
}

// CutoffIndex возвращает индекс первого бронируемого окна с учётом
// MinLeadWindows: все окна с индексом меньше результата закрыты.
//
// Окно считается начавшимся, когда локальное время арендатора достигло его
// эффективного времени старта. Уже начавшиеся окна не бронируются даже при
// MinLeadWindows = 0.
func CutoffIndex(
	tpl *domain.WeeklyTemplate,
	excs map[domain.WindowKey]*domain.DateException,
	now time.Time,
) int {
	base := DayNumber(now) * domain.WindowsPerDay
	nowTime := types.NewTimeString(now)

	next := base + domain.WindowsPerDay // все окна сегодняшнего дня уже начались
	for _, wt := range domain.AllWindowTypes {
		exc := excs[domain.NewWindowKey(now, wt)]
		start, _, _, _ := EffectiveWindow(tpl, exc, now, wt)
		if nowTime.IsBefore(start) {
			next = base + wt.Ordinal()
			break
		}
	}

	return next + tpl.MinLeadWindows
}

// ComputeWindow вычисляет AvailableWindow для одной пары (дата, тип окна).
// reserved - текущее значение счётчика ledger (0, если записи нет),
// cutoffIndex - результат CutoffIndex для момента запроса.
func ComputeWindow(
	tpl *domain.WeeklyTemplate,
	exc *domain.DateException,
	reserved int,
	date time.Time,
	windowType domain.WindowType,
	cutoffIndex int,
) domain.AvailableWindow {
	win := domain.AvailableWindow{
		Date:       date,
		WindowType: windowType,
	}

	start, end, capacity, offered := EffectiveWindow(tpl, exc, date, windowType)
	if !offered {
		return win
	}

	win.StartTime = start
	win.EndTime = end
	win.MaxCapacity = capacity

	// Окно внутри lead-time cutoff предлагается не будет, ёмкость не важна
	if WindowIndex(date, windowType) < cutoffIndex {
		return win
	}

	win.IsOpen = true
	win.Remaining = capacity - reserved
	if win.Remaining < 0 {
		win.Remaining = 0
	}

	return win
}

// ComputeRange вычисляет окна для диапазона дат [from, to] включительно.
// excs и reserved индексируются ключом окна; отсутствие записи означает
// "исключения нет" и "резервирований нет" соответственно.
func ComputeRange(
	tpl *domain.WeeklyTemplate,
	excs map[domain.WindowKey]*domain.DateException,
	reserved map[domain.WindowKey]int,
	from, to time.Time,
	typeFilter *domain.WindowType,
	onlyAvailable bool,
	now time.Time,
) []domain.AvailableWindow {
	cutoff := CutoffIndex(tpl, excs, now)

	result := make([]domain.AvailableWindow, 0)
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		for _, wt := range domain.AllWindowTypes {
			if typeFilter != nil && wt != *typeFilter {
				continue
			}

			key := domain.NewWindowKey(day, wt)
			win := ComputeWindow(tpl, excs[key], reserved[key], day, wt, cutoff)

			if onlyAvailable && !win.IsBookable() {
				continue
			}

			result = append(result, win)
		}
	}

	return result
}
