package reserve_window

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DeliverySlotsService/internal/domain"
	ledgerRepo "github.com/m04kA/SMC-DeliverySlotsService/internal/infra/storage/ledger"
	"github.com/m04kA/SMC-DeliverySlotsService/internal/integrations/tenantservice"
	releaseWindow "github.com/m04kA/SMC-DeliverySlotsService/internal/usecase/release_window"
	"github.com/m04kA/SMC-DeliverySlotsService/pkg/ptr"
	"github.com/m04kA/SMC-DeliverySlotsService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

// fakeTxManager сериализует "транзакции" на мьютексе, имитируя
// поведение row-level блокировки ledger
type fakeTxManager struct {
	mu sync.Mutex
}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

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

// fakeLedger in-memory ledger с теми же инвариантами, что и у настоящего:
// ленивое создание записей, уникальность order_id
type fakeLedger struct {
	mu           sync.Mutex
	nextID       int64
	entries      map[domain.WindowKey]*domain.LedgerEntry
	reservations map[string]*domain.Reservation
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		entries:      make(map[domain.WindowKey]*domain.LedgerEntry),
		reservations: make(map[string]*domain.Reservation),
	}
}

func (l *fakeLedger) LockEntry(ctx context.Context, tenantID int64, date time.Time, windowType domain.WindowType) (*domain.LedgerEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := domain.NewWindowKey(date, windowType)
	entry, ok := l.entries[key]
	if !ok {
		l.nextID++
		entry = &domain.LedgerEntry{
			ID:         l.nextID,
			TenantID:   tenantID,
			Date:       date,
			WindowType: windowType,
		}
		l.entries[key] = entry
	}

	copied := *entry
	return &copied, nil
}

func (l *fakeLedger) IncrementReserved(ctx context.Context, entryID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, entry := range l.entries {
		if entry.ID == entryID {
			entry.Reserved++
			return nil
		}
	}
	return ledgerRepo.ErrEntryNotFound
}

func (l *fakeLedger) CreateReservation(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.reservations[res.OrderID]; exists {
		return nil, ledgerRepo.ErrDuplicateOrder
	}

	res.CreatedAt = time.Now()
	l.reservations[res.OrderID] = res
	return res, nil
}

func (l *fakeLedger) DecrementReserved(ctx context.Context, entryID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, entry := range l.entries {
		if entry.ID == entryID {
			if entry.Reserved > 0 {
				entry.Reserved--
			}
			return nil
		}
	}
	return ledgerRepo.ErrEntryNotFound
}

func (l *fakeLedger) DeleteReservation(ctx context.Context, reservationID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for orderID, res := range l.reservations {
		if res.ID == reservationID {
			delete(l.reservations, orderID)
			return nil
		}
	}
	return ledgerRepo.ErrReservationNotFound
}

func (l *fakeLedger) GetReservationByOrderID(ctx context.Context, orderID string) (*domain.Reservation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	res, ok := l.reservations[orderID]
	if !ok {
		return nil, ledgerRepo.ErrReservationNotFound
	}
	return res, nil
}

func (l *fakeLedger) reservedFor(date time.Time, windowType domain.WindowType) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if entry, ok := l.entries[domain.NewWindowKey(date, windowType)]; ok {
		return entry.Reserved
	}
	return 0
}

func testTemplate(minLeadWindows, morningCapacity int) *domain.WeeklyTemplate {
	tpl := &domain.WeeklyTemplate{
		TenantID:                 1,
		MinLeadWindows:           minLeadWindows,
		DefaultMorningCapacity:   morningCapacity,
		DefaultAfternoonCapacity: morningCapacity,
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

func newTestUseCase(tpl *domain.WeeklyTemplate, ledger *fakeLedger) *UseCase {
	uc := NewUseCase(
		&fakeTemplateRepo{tpl: tpl},
		&fakeExceptionRepo{},
		ledger,
		&fakeTenantClient{tenant: &tenantservice.Tenant{ID: 1, Name: "Тестовый арендатор", Timezone: "UTC", IsActive: true}},
		&fakeTxManager{},
		nopLogger{},
	)
	// Запрос выполняется заведомо раньше целевой даты
	uc.timeProvider = &fixedTimeProvider{now: time.Date(2026, time.September, 1, 8, 0, 0, 0, time.UTC)}
	return uc
}

func TestExecute_ReservesWindow(t *testing.T) {
	ledger := newFakeLedger()
	uc := newTestUseCase(testTemplate(0, 3), ledger)

	day := time.Date(2026, time.September, 3, 0, 0, 0, 0, time.UTC)
	resp, err := uc.Execute(context.Background(), &Request{
		TenantID:   1,
		Date:       day,
		WindowType: domain.WindowMorning,
		OrderID:    "order-1",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.ReservationID)
	assert.False(t, resp.AlreadyReserved)
	assert.Equal(t, 2, resp.Remaining)
	assert.Equal(t, 1, ledger.reservedFor(day, domain.WindowMorning))
}

func TestExecute_IdempotentRepeat(t *testing.T) {
	ledger := newFakeLedger()
	uc := newTestUseCase(testTemplate(0, 3), ledger)

	day := time.Date(2026, time.September, 3, 0, 0, 0, 0, time.UTC)
	req := &Request{TenantID: 1, Date: day, WindowType: domain.WindowMorning, OrderID: "order-1"}

	first, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	second, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, second.AlreadyReserved)
	assert.Equal(t, first.ReservationID, second.ReservationID)
	// Счётчик не инкрементируется повторно
	assert.Equal(t, 1, ledger.reservedFor(day, domain.WindowMorning))
}

func TestExecute_WindowFull(t *testing.T) {
	ledger := newFakeLedger()
	uc := newTestUseCase(testTemplate(0, 2), ledger)

	day := time.Date(2026, time.September, 3, 0, 0, 0, 0, time.UTC)
	for i, orderID := range []string{"order-1", "order-2"} {
		_, err := uc.Execute(context.Background(), &Request{
			TenantID: 1, Date: day, WindowType: domain.WindowMorning, OrderID: orderID,
		})
		require.NoError(t, err, "reservation %d", i)
	}

	_, err := uc.Execute(context.Background(), &Request{
		TenantID: 1, Date: day, WindowType: domain.WindowMorning, OrderID: "order-3",
	})
	assert.ErrorIs(t, err, ErrWindowFull)
	assert.Equal(t, 2, ledger.reservedFor(day, domain.WindowMorning))
}

func TestExecute_WindowClosedByException(t *testing.T) {
	ledger := newFakeLedger()
	uc := newTestUseCase(testTemplate(0, 3), ledger)

	day := time.Date(2026, time.September, 3, 0, 0, 0, 0, time.UTC)
	uc.exceptionRepo = &fakeExceptionRepo{exceptions: []*domain.DateException{{
		TenantID:   1,
		Date:       day,
		WindowType: domain.WindowMorning,
		Enabled:    false,
	}}}

	_, err := uc.Execute(context.Background(), &Request{
		TenantID: 1, Date: day, WindowType: domain.WindowMorning, OrderID: "order-1",
	})
	assert.ErrorIs(t, err, ErrWindowClosed)
}

func TestExecute_WindowClosedByLeadTime(t *testing.T) {
	ledger := newFakeLedger()
	uc := newTestUseCase(testTemplate(2, 3), ledger)

	// Сейчас 09:00 третьего сентября - утро уже началось, при
	// minLeadWindows=2 ближайшее бронируемое окно - после полудня завтра
	uc.timeProvider = &fixedTimeProvider{now: time.Date(2026, time.September, 3, 9, 0, 0, 0, time.UTC)}

	tomorrow := time.Date(2026, time.September, 4, 0, 0, 0, 0, time.UTC)
	_, err := uc.Execute(context.Background(), &Request{
		TenantID: 1, Date: tomorrow, WindowType: domain.WindowMorning, OrderID: "order-1",
	})
	assert.ErrorIs(t, err, ErrWindowClosed)

	resp, err := uc.Execute(context.Background(), &Request{
		TenantID: 1, Date: tomorrow, WindowType: domain.WindowAfternoon, OrderID: "order-1",
	})
	require.NoError(t, err)
	assert.False(t, resp.AlreadyReserved)
}

func TestExecute_ExceptionCapacityOverride(t *testing.T) {
	ledger := newFakeLedger()
	uc := newTestUseCase(testTemplate(0, 5), ledger)

	day := time.Date(2026, time.September, 3, 0, 0, 0, 0, time.UTC)
	uc.exceptionRepo = &fakeExceptionRepo{exceptions: []*domain.DateException{{
		TenantID:          1,
		Date:              day,
		WindowType:        domain.WindowMorning,
		Enabled:           true,
		CustomMaxCapacity: ptr.Ptr(1),
	}}}

	resp, err := uc.Execute(context.Background(), &Request{
		TenantID: 1, Date: day, WindowType: domain.WindowMorning, OrderID: "order-1",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Remaining)

	_, err = uc.Execute(context.Background(), &Request{
		TenantID: 1, Date: day, WindowType: domain.WindowMorning, OrderID: "order-2",
	})
	assert.ErrorIs(t, err, ErrWindowFull)
}

func TestExecute_TodayStartOverrideShiftsCutoff(t *testing.T) {
	ledger := newFakeLedger()
	uc := newTestUseCase(testTemplate(2, 3), ledger)

	// Сейчас 09:30 - по шаблону утро уже началось, но исключение сдвигает
	// его старт на 10:00. Cutoff считается от сегодняшнего утра, и при
	// minLeadWindows=2 утро завтрашнего дня остаётся бронируемым
	today := time.Date(2026, time.September, 3, 0, 0, 0, 0, time.UTC)
	uc.timeProvider = &fixedTimeProvider{now: time.Date(2026, time.September, 3, 9, 30, 0, 0, time.UTC)}
	uc.exceptionRepo = &fakeExceptionRepo{exceptions: []*domain.DateException{{
		TenantID:    1,
		Date:        today,
		WindowType:  domain.WindowMorning,
		Enabled:     true,
		CustomStart: ptr.Ptr(types.TimeString("10:00")),
	}}}

	resp, err := uc.Execute(context.Background(), &Request{
		TenantID:   1,
		Date:       today.AddDate(0, 0, 1),
		WindowType: domain.WindowMorning,
		OrderID:    "order-1",
	})

	require.NoError(t, err)
	assert.False(t, resp.AlreadyReserved)
}

func TestExecute_ReserveReleaseRoundTrip(t *testing.T) {
	ledger := newFakeLedger()
	uc := newTestUseCase(testTemplate(0, 2), ledger)
	releaseUC := releaseWindow.NewUseCase(ledger, &fakeTxManager{}, nopLogger{})

	day := time.Date(2026, time.September, 3, 0, 0, 0, 0, time.UTC)

	// Заполняем окно до ёмкости
	for _, orderID := range []string{"order-1", "order-2"} {
		_, err := uc.Execute(context.Background(), &Request{
			TenantID: 1, Date: day, WindowType: domain.WindowMorning, OrderID: orderID,
		})
		require.NoError(t, err)
	}

	_, err := uc.Execute(context.Background(), &Request{
		TenantID: 1, Date: day, WindowType: domain.WindowMorning, OrderID: "order-3",
	})
	require.ErrorIs(t, err, ErrWindowFull)

	// Снятие одного резервирования возвращает счётчик на единицу назад
	released, err := releaseUC.Execute(context.Background(), &releaseWindow.Request{OrderID: "order-1"})
	require.NoError(t, err)
	assert.True(t, released.Released)
	assert.Equal(t, 1, ledger.reservedFor(day, domain.WindowMorning))

	// Освободившаяся ёмкость достаётся новому заказу
	resp, err := uc.Execute(context.Background(), &Request{
		TenantID: 1, Date: day, WindowType: domain.WindowMorning, OrderID: "order-3",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Remaining)
	assert.Equal(t, 2, ledger.reservedFor(day, domain.WindowMorning))
}

func TestExecute_TenantNotFound(t *testing.T) {
	ledger := newFakeLedger()
	uc := newTestUseCase(testTemplate(0, 3), ledger)
	uc.tenantClient = &fakeTenantClient{err: tenantservice.ErrTenantNotFound}

	_, err := uc.Execute(context.Background(), &Request{
		TenantID:   42,
		Date:       time.Date(2026, time.September, 3, 0, 0, 0, 0, time.UTC),
		WindowType: domain.WindowMorning,
		OrderID:    "order-1",
	})
	assert.ErrorIs(t, err, ErrTenantNotFound)
}

func TestExecute_Validation(t *testing.T) {
	ledger := newFakeLedger()
	uc := newTestUseCase(testTemplate(0, 3), ledger)

	day := time.Date(2026, time.September, 3, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		req  *Request
	}{
		{name: "zero tenant", req: &Request{Date: day, WindowType: domain.WindowMorning, OrderID: "o"}},
		{name: "missing date", req: &Request{TenantID: 1, WindowType: domain.WindowMorning, OrderID: "o"}},
		{name: "unknown window type", req: &Request{TenantID: 1, Date: day, WindowType: "evening", OrderID: "o"}},
		{name: "missing order", req: &Request{TenantID: 1, Date: day, WindowType: domain.WindowMorning}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_ConcurrentReservesNeverOversell(t *testing.T) {
	const capacity = 3
	const attempts = 10

	ledger := newFakeLedger()
	uc := newTestUseCase(testTemplate(0, capacity), ledger)

	day := time.Date(2026, time.September, 3, 0, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Execute(context.Background(), &Request{
				TenantID:   1,
				Date:       day,
				WindowType: domain.WindowMorning,
				OrderID:    "order-" + string(rune('a'+i)),
			})
		}(i)
	}
	wg.Wait()

	var succeeded, full int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrWindowFull):
			full++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, capacity, succeeded)
	assert.Equal(t, attempts-capacity, full)
	assert.Equal(t, capacity, ledger.reservedFor(day, domain.WindowMorning))
}
