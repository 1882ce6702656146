package list_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DeliverySlotsService/internal/domain"
	templateRepository "github.com/m04kA/SMC-DeliverySlotsService/internal/infra/storage/template"
	"github.com/m04kA/SMC-DeliverySlotsService/internal/integrations/tenantservice"
	"github.com/m04kA/SMC-DeliverySlotsService/pkg/ptr"
	"github.com/m04kA/SMC-DeliverySlotsService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeTemplateRepo struct {
	tpl *domain.WeeklyTemplate
	err error
}

func (r *fakeTemplateRepo) GetByTenant(ctx context.Context, tenantID int64) (*domain.WeeklyTemplate, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.tpl, nil
}

type fakeExceptionRepo struct {
	exceptions []*domain.DateException
}

// ListByDateRange фильтрует по диапазону так же, как настоящий репозиторий:
// граница с временем суток отсекла бы строку этого дня
func (r *fakeExceptionRepo) ListByDateRange(ctx context.Context, tenantID int64, from, to time.Time) ([]*domain.DateException, error) {
	var result []*domain.DateException
	for _, exc := range r.exceptions {
		if exc.Date.Before(from) || exc.Date.After(to) {
			continue
		}
		result = append(result, exc)
	}
	return result, nil
}

type fakeLedgerRepo struct {
	counts map[domain.WindowKey]int
}

func (r *fakeLedgerRepo) GetReservedCounts(ctx context.Context, tenantID int64, from, to time.Time) (map[domain.WindowKey]int, error) {
	return r.counts, nil
}

type fakeTenantClient struct {
	tenant *tenantservice.Tenant
	err    error
}

func (c *fakeTenantClient) GetTenant(ctx context.Context, tenantID int64) (*tenantservice.Tenant, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.tenant, nil
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

func testTemplate() *domain.WeeklyTemplate {
	tpl := &domain.WeeklyTemplate{
		TenantID:                 1,
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

func newTestUseCase(tpl *domain.WeeklyTemplate) *UseCase {
	uc := NewUseCase(
		&fakeTemplateRepo{tpl: tpl},
		&fakeExceptionRepo{},
		&fakeLedgerRepo{},
		&fakeTenantClient{tenant: &tenantservice.Tenant{ID: 1, Timezone: "UTC", IsActive: true}},
		31,
		nopLogger{},
	)
	uc.timeProvider = &fixedTimeProvider{now: time.Date(2026, time.September, 1, 8, 0, 0, 0, time.UTC)}
	return uc
}

func TestExecute_ReturnsWindows(t *testing.T) {
	uc := newTestUseCase(testTemplate())

	resp, err := uc.Execute(context.Background(), &Request{
		TenantID:  1,
		StartDate: time.Date(2026, time.September, 2, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, time.September, 4, 0, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	require.Len(t, resp.Windows, 6)
	for _, win := range resp.Windows {
		assert.True(t, win.IsOpen)
	}
}

func TestExecute_OnlyAvailableSkipsFullWindows(t *testing.T) {
	uc := newTestUseCase(testTemplate())
	day := time.Date(2026, time.September, 2, 0, 0, 0, 0, time.UTC)
	uc.ledgerRepo = &fakeLedgerRepo{counts: map[domain.WindowKey]int{
		domain.NewWindowKey(day, domain.WindowMorning): 5,
	}}

	resp, err := uc.Execute(context.Background(), &Request{
		TenantID:      1,
		StartDate:     day,
		EndDate:       day,
		OnlyAvailable: true,
	})

	require.NoError(t, err)
	require.Len(t, resp.Windows, 1)
	assert.Equal(t, domain.WindowAfternoon, resp.Windows[0].WindowType)
}

func TestExecute_InvalidRange(t *testing.T) {
	uc := newTestUseCase(testTemplate())

	_, err := uc.Execute(context.Background(), &Request{
		TenantID:  1,
		StartDate: time.Date(2026, time.September, 4, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, time.September, 2, 0, 0, 0, 0, time.UTC),
	})

	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestExecute_RangeTooWide(t *testing.T) {
	uc := newTestUseCase(testTemplate())

	_, err := uc.Execute(context.Background(), &Request{
		TenantID:  1,
		StartDate: time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, time.November, 1, 0, 0, 0, 0, time.UTC),
	})

	assert.ErrorIs(t, err, ErrRangeTooWide)
}

func TestExecute_TenantNotFound(t *testing.T) {
	uc := newTestUseCase(testTemplate())
	uc.tenantClient = &fakeTenantClient{err: tenantservice.ErrTenantNotFound}

	_, err := uc.Execute(context.Background(), &Request{
		TenantID:  42,
		StartDate: time.Date(2026, time.September, 2, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, time.September, 2, 0, 0, 0, 0, time.UTC),
	})

	assert.ErrorIs(t, err, ErrTenantNotFound)
}

func TestExecute_TemplateNotFound(t *testing.T) {
	uc := newTestUseCase(testTemplate())
	uc.templateRepo = &fakeTemplateRepo{err: templateRepository.ErrTemplateNotFound}

	_, err := uc.Execute(context.Background(), &Request{
		TenantID:  1,
		StartDate: time.Date(2026, time.September, 2, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, time.September, 2, 0, 0, 0, 0, time.UTC),
	})

	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestExecute_TodayStartOverrideShiftsCutoff(t *testing.T) {
	// Сейчас 09:30 - по шаблону утро уже началось, но исключение сдвигает
	// его старт на 10:00. Сегодняшняя строка участвует в расчёте cutoff,
	// даже когда запрошенный диапазон начинается завтра
	tpl := testTemplate()
	tpl.MinLeadWindows = 2
	uc := newTestUseCase(tpl)
	uc.timeProvider = &fixedTimeProvider{now: time.Date(2026, time.September, 2, 9, 30, 0, 0, time.UTC)}
	uc.exceptionRepo = &fakeExceptionRepo{exceptions: []*domain.DateException{{
		TenantID:    1,
		Date:        time.Date(2026, time.September, 2, 0, 0, 0, 0, time.UTC),
		WindowType:  domain.WindowMorning,
		Enabled:     true,
		CustomStart: ptr.Ptr(types.TimeString("10:00")),
	}}}

	tomorrow := time.Date(2026, time.September, 3, 0, 0, 0, 0, time.UTC)
	resp, err := uc.Execute(context.Background(), &Request{
		TenantID:  1,
		StartDate: tomorrow,
		EndDate:   tomorrow,
	})

	require.NoError(t, err)
	require.Len(t, resp.Windows, 2)
	assert.True(t, resp.Windows[0].IsOpen) // утро завтра бронируемо
}

func TestExecute_TenantLocalLeadTime(t *testing.T) {
	// Арендатор в UTC+3: в 06:30 UTC у него 09:30 - утро сегодняшнего
	// дня уже началось и не бронируется
	tpl := testTemplate()
	uc := newTestUseCase(tpl)
	uc.tenantClient = &fakeTenantClient{tenant: &tenantservice.Tenant{ID: 1, Timezone: "Europe/Moscow", IsActive: true}}
	uc.timeProvider = &fixedTimeProvider{now: time.Date(2026, time.September, 2, 6, 30, 0, 0, time.UTC)}

	day := time.Date(2026, time.September, 2, 0, 0, 0, 0, time.UTC)
	resp, err := uc.Execute(context.Background(), &Request{
		TenantID:  1,
		StartDate: day,
		EndDate:   day,
	})

	require.NoError(t, err)
	require.Len(t, resp.Windows, 2)
	assert.False(t, resp.Windows[0].IsOpen) // утро началось
	assert.True(t, resp.Windows[1].IsOpen)  // после полудня ещё нет
}
