package release_window

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DeliverySlotsService/internal/domain"
	ledgerRepo "github.com/m04kA/SMC-DeliverySlotsService/internal/infra/storage/ledger"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeTxManager struct {
	mu sync.Mutex
}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

type fakeLedger struct {
	mu           sync.Mutex
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
		entry = &domain.LedgerEntry{
			ID:         int64(len(l.entries) + 1),
			TenantID:   tenantID,
			Date:       date,
			WindowType: windowType,
		}
		l.entries[key] = entry
	}

	copied := *entry
	return &copied, nil
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

// seed создаёт резервирование и соответствующую запись ledger
func (l *fakeLedger) seed(orderID string, tenantID int64, date time.Time, windowType domain.WindowType) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := domain.NewWindowKey(date, windowType)
	entry, ok := l.entries[key]
	if !ok {
		entry = &domain.LedgerEntry{
			ID:         int64(len(l.entries) + 1),
			TenantID:   tenantID,
			Date:       date,
			WindowType: windowType,
		}
		l.entries[key] = entry
	}
	entry.Reserved++

	l.reservations[orderID] = &domain.Reservation{
		ID:         "res-" + orderID,
		TenantID:   tenantID,
		Date:       date,
		WindowType: windowType,
		OrderID:    orderID,
	}
}

func (l *fakeLedger) reservedFor(date time.Time, windowType domain.WindowType) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if entry, ok := l.entries[domain.NewWindowKey(date, windowType)]; ok {
		return entry.Reserved
	}
	return 0
}

func TestExecute_ReleasesReservation(t *testing.T) {
	ledger := newFakeLedger()
	day := time.Date(2026, time.September, 3, 0, 0, 0, 0, time.UTC)
	ledger.seed("order-1", 1, day, domain.WindowMorning)

	uc := NewUseCase(ledger, &fakeTxManager{}, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{OrderID: "order-1"})

	require.NoError(t, err)
	assert.True(t, resp.Released)
	assert.Equal(t, "res-order-1", resp.ReservationID)
	assert.Equal(t, 0, ledger.reservedFor(day, domain.WindowMorning))
}

func TestExecute_IdempotentWhenNoReservation(t *testing.T) {
	ledger := newFakeLedger()
	uc := NewUseCase(ledger, &fakeTxManager{}, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{OrderID: "unknown-order"})

	require.NoError(t, err)
	assert.False(t, resp.Released)
}

func TestExecute_RepeatedReleaseKeepsCounterAtZero(t *testing.T) {
	ledger := newFakeLedger()
	day := time.Date(2026, time.September, 3, 0, 0, 0, 0, time.UTC)
	ledger.seed("order-1", 1, day, domain.WindowMorning)

	uc := NewUseCase(ledger, &fakeTxManager{}, nopLogger{})

	first, err := uc.Execute(context.Background(), &Request{OrderID: "order-1"})
	require.NoError(t, err)
	assert.True(t, first.Released)

	second, err := uc.Execute(context.Background(), &Request{OrderID: "order-1"})
	require.NoError(t, err)
	assert.False(t, second.Released)
	assert.Equal(t, 0, ledger.reservedFor(day, domain.WindowMorning))
}

func TestExecute_EmptyOrderID(t *testing.T) {
	uc := NewUseCase(newFakeLedger(), &fakeTxManager{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{OrderID: ""})

	assert.ErrorIs(t, err, ErrInvalidInput)
}
