package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DeliverySlotsService/internal/domain"
	"github.com/m04kA/SMC-DeliverySlotsService/pkg/ptr"
	"github.com/m04kA/SMC-DeliverySlotsService/pkg/types"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func at(y int, m time.Month, d, hour, min int) time.Time {
	return time.Date(y, m, d, hour, min, 0, 0, time.UTC)
}

// fullWeekTemplate шаблон с одинаковым расписанием на все дни недели
func fullWeekTemplate(minLeadWindows int) *domain.WeeklyTemplate {
	tpl := &domain.WeeklyTemplate{
		TenantID:                 1,
		MinLeadWindows:           minLeadWindows,
		DefaultMorningCapacity:   5,
		DefaultAfternoonCapacity: 3,
	}
	for i := range tpl.Days {
		tpl.Days[i] = domain.DaySchedule{
			Enabled:   true,
			Morning:   &domain.WindowSpec{StartTime: "09:00", EndTime: "13:00"},
			Afternoon: &domain.WindowSpec{StartTime: "14:00", EndTime: "18:00"},
		}
	}
	return tpl
}

func TestWindowIndex(t *testing.T) {
	day := date(2026, time.September, 3)

	morning := WindowIndex(day, domain.WindowMorning)
	afternoon := WindowIndex(day, domain.WindowAfternoon)
	nextMorning := WindowIndex(day.AddDate(0, 0, 1), domain.WindowMorning)

	assert.Equal(t, morning+1, afternoon)
	assert.Equal(t, afternoon+1, nextMorning)
}

func TestEffectiveWindow_TemplateOnly(t *testing.T) {
	tpl := fullWeekTemplate(0)
	day := date(2026, time.September, 3)

	start, end, capacity, offered := EffectiveWindow(tpl, nil, day, domain.WindowMorning)

	assert.True(t, offered)
	assert.Equal(t, types.TimeString("09:00"), start)
	assert.Equal(t, types.TimeString("13:00"), end)
	assert.Equal(t, 5, capacity)
}

func TestEffectiveWindow_DisabledDay(t *testing.T) {
	tpl := fullWeekTemplate(0)
	day := date(2026, time.September, 3)
	tpl.Days[domain.DayIndex(day)].Enabled = false

	_, _, _, offered := EffectiveWindow(tpl, nil, day, domain.WindowMorning)

	assert.False(t, offered)
}

func TestEffectiveWindow_MissingSpecNotOffered(t *testing.T) {
	tpl := fullWeekTemplate(0)
	day := date(2026, time.September, 3)
	tpl.Days[domain.DayIndex(day)].Afternoon = nil

	_, _, _, offered := EffectiveWindow(tpl, nil, day, domain.WindowAfternoon)

	assert.False(t, offered)
}

func TestEffectiveWindow_ExceptionDisables(t *testing.T) {
	tpl := fullWeekTemplate(0)
	day := date(2026, time.September, 3)
	exc := &domain.DateException{
		TenantID:   1,
		Date:       day,
		WindowType: domain.WindowMorning,
		Enabled:    false,
	}

	_, _, _, offered := EffectiveWindow(tpl, exc, day, domain.WindowMorning)

	assert.False(t, offered)
}

func TestEffectiveWindow_ExceptionEnablesDisabledDay(t *testing.T) {
	tpl := fullWeekTemplate(0)
	day := date(2026, time.September, 3)
	tpl.Days[domain.DayIndex(day)].Enabled = false

	exc := &domain.DateException{
		TenantID:          1,
		Date:              day,
		WindowType:        domain.WindowMorning,
		Enabled:           true,
		CustomMaxCapacity: ptr.Ptr(10),
	}

	start, end, capacity, offered := EffectiveWindow(tpl, exc, day, domain.WindowMorning)

	assert.True(t, offered)
	// Незаданные поля наследуются из шаблона
	assert.Equal(t, types.TimeString("09:00"), start)
	assert.Equal(t, types.TimeString("13:00"), end)
	assert.Equal(t, 10, capacity)
}

func TestEffectiveWindow_PartialOverride(t *testing.T) {
	tpl := fullWeekTemplate(0)
	day := date(2026, time.September, 3)

	customStart := types.TimeString("10:00")
	exc := &domain.DateException{
		TenantID:    1,
		Date:        day,
		WindowType:  domain.WindowMorning,
		Enabled:     true,
		CustomStart: &customStart,
	}

	start, end, capacity, offered := EffectiveWindow(tpl, exc, day, domain.WindowMorning)

	assert.True(t, offered)
	assert.Equal(t, types.TimeString("10:00"), start)
	assert.Equal(t, types.TimeString("13:00"), end)
	assert.Equal(t, 5, capacity)
}

func TestEffectiveWindow_CapacityPrecedence(t *testing.T) {
	tpl := fullWeekTemplate(0)
	day := date(2026, time.September, 3)
	idx := domain.DayIndex(day)

	// Дефолт арендатора, когда спецификация не задаёт ёмкость
	_, _, capacity, _ := EffectiveWindow(tpl, nil, day, domain.WindowAfternoon)
	assert.Equal(t, 3, capacity)

	// Ёмкость окна из шаблона перекрывает дефолт
	tpl.Days[idx].Afternoon.MaxCapacity = ptr.Ptr(7)
	_, _, capacity, _ = EffectiveWindow(tpl, nil, day, domain.WindowAfternoon)
	assert.Equal(t, 7, capacity)

	// Ёмкость исключения перекрывает всё
	exc := &domain.DateException{
		Date:              day,
		WindowType:        domain.WindowAfternoon,
		Enabled:           true,
		CustomMaxCapacity: ptr.Ptr(1),
	}
	_, _, capacity, _ = EffectiveWindow(tpl, exc, day, domain.WindowAfternoon)
	assert.Equal(t, 1, capacity)
}

func TestCutoffIndex(t *testing.T) {
	tests := []struct {
		name           string
		minLeadWindows int
		now            time.Time
		wantOffset     int // смещение от начала сегодняшнего дня в окнах
	}{
		{
			name:           "before morning start both windows pending",
			minLeadWindows: 0,
			now:            at(2026, time.September, 3, 8, 0),
			wantOffset:     0,
		},
		{
			name:           "morning started afternoon pending",
			minLeadWindows: 0,
			now:            at(2026, time.September, 3, 9, 0),
			wantOffset:     1,
		},
		{
			name:           "both windows started",
			minLeadWindows: 0,
			now:            at(2026, time.September, 3, 15, 30),
			wantOffset:     2,
		},
		{
			name:           "lead windows shift cutoff",
			minLeadWindows: 2,
			now:            at(2026, time.September, 3, 9, 0),
			wantOffset:     3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := fullWeekTemplate(tt.minLeadWindows)
			got := CutoffIndex(tpl, nil, tt.now)

			base := DayNumber(tt.now) * domain.WindowsPerDay
			assert.Equal(t, base+tt.wantOffset, got)
		})
	}
}

func TestCutoffIndex_ExceptionMovesTodayStart(t *testing.T) {
	tpl := fullWeekTemplate(0)
	now := at(2026, time.September, 3, 9, 30)

	// Без исключения утро в 09:30 уже началось
	base := DayNumber(now) * domain.WindowsPerDay
	assert.Equal(t, base+1, CutoffIndex(tpl, nil, now))

	// Исключение сдвигает старт утра на 10:00 - окно ещё не началось
	customStart := types.TimeString("10:00")
	excs := map[domain.WindowKey]*domain.DateException{
		domain.NewWindowKey(now, domain.WindowMorning): {
			Date:        now,
			WindowType:  domain.WindowMorning,
			Enabled:     true,
			CustomStart: &customStart,
		},
	}
	assert.Equal(t, base, CutoffIndex(tpl, excs, now))
}

func TestComputeWindow_LeadTimeCutoff(t *testing.T) {
	// Сценарий: minLeadWindows=2, сейчас 09:00 - утро сегодняшнего дня
	// уже началось. Закрыты: сегодняшний день целиком и утро завтрашнего.
	tpl := fullWeekTemplate(2)
	now := at(2026, time.September, 3, 9, 0)
	today := date(2026, time.September, 3)
	tomorrow := today.AddDate(0, 0, 1)

	cutoff := CutoffIndex(tpl, nil, now)

	todayAfternoon := ComputeWindow(tpl, nil, 0, today, domain.WindowAfternoon, cutoff)
	tomorrowMorning := ComputeWindow(tpl, nil, 0, tomorrow, domain.WindowMorning, cutoff)
	tomorrowAfternoon := ComputeWindow(tpl, nil, 0, tomorrow, domain.WindowAfternoon, cutoff)

	assert.False(t, todayAfternoon.IsOpen)
	assert.False(t, tomorrowMorning.IsOpen)
	assert.True(t, tomorrowAfternoon.IsOpen)
	assert.Equal(t, 3, tomorrowAfternoon.Remaining)
}

func TestComputeWindow_RemainingClampedAtZero(t *testing.T) {
	tpl := fullWeekTemplate(0)
	now := at(2026, time.September, 1, 8, 0)
	day := date(2026, time.September, 3)

	cutoff := CutoffIndex(tpl, nil, now)
	win := ComputeWindow(tpl, nil, 9, day, domain.WindowMorning, cutoff)

	assert.True(t, win.IsOpen)
	assert.Equal(t, 0, win.Remaining)
	assert.False(t, win.IsBookable())
}

func TestComputeRange(t *testing.T) {
	tpl := fullWeekTemplate(0)
	now := at(2026, time.September, 1, 8, 0)
	from := date(2026, time.September, 2)
	to := date(2026, time.September, 4)

	windows := ComputeRange(tpl, nil, nil, from, to, nil, false, now)

	// 3 дня по 2 окна
	require.Len(t, windows, 6)
	assert.Equal(t, from, windows[0].Date)
	assert.Equal(t, domain.WindowMorning, windows[0].WindowType)
	assert.Equal(t, domain.WindowAfternoon, windows[1].WindowType)
	for _, win := range windows {
		assert.True(t, win.IsOpen)
	}
}

func TestComputeRange_TypeFilter(t *testing.T) {
	tpl := fullWeekTemplate(0)
	now := at(2026, time.September, 1, 8, 0)
	from := date(2026, time.September, 2)
	to := date(2026, time.September, 4)

	filter := domain.WindowMorning
	windows := ComputeRange(tpl, nil, nil, from, to, &filter, false, now)

	require.Len(t, windows, 3)
	for _, win := range windows {
		assert.Equal(t, domain.WindowMorning, win.WindowType)
	}
}

func TestComputeRange_OnlyAvailable(t *testing.T) {
	tpl := fullWeekTemplate(0)
	now := at(2026, time.September, 1, 8, 0)
	day := date(2026, time.September, 2)

	// Утро полностью занято, после полудня остаётся ёмкость
	reserved := map[domain.WindowKey]int{
		domain.NewWindowKey(day, domain.WindowMorning):   5,
		domain.NewWindowKey(day, domain.WindowAfternoon): 1,
	}

	windows := ComputeRange(tpl, nil, reserved, day, day, nil, true, now)

	require.Len(t, windows, 1)
	assert.Equal(t, domain.WindowAfternoon, windows[0].WindowType)
	assert.Equal(t, 2, windows[0].Remaining)
}

func TestComputeRange_DisabledWindowListedWhenNotFiltering(t *testing.T) {
	tpl := fullWeekTemplate(0)
	now := at(2026, time.September, 1, 8, 0)
	day := date(2026, time.September, 2)
	tpl.Days[domain.DayIndex(day)].Enabled = false

	windows := ComputeRange(tpl, nil, nil, day, day, nil, false, now)

	require.Len(t, windows, 2)
	assert.False(t, windows[0].IsOpen)
	assert.False(t, windows[1].IsOpen)
}
