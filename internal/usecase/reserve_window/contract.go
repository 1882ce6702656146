package reserve_window

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DeliverySlotsService/internal/domain"
	"github.com/m04kA/SMC-DeliverySlotsService/internal/integrations/tenantservice"
)

// TemplateRepository интерфейс репозитория недельных шаблонов
type TemplateRepository interface {
	GetByTenant(ctx context.Context, tenantID int64) (*domain.WeeklyTemplate, error)
}

// ExceptionRepository интерфейс репозитория исключений дат
type ExceptionRepository interface {
	ListByDateRange(ctx context.Context, tenantID int64, from, to time.Time) ([]*domain.DateException, error)
}

// LedgerRepository интерфейс ledger - счётчик и держатели резервирований
type LedgerRepository interface {
	LockEntry(ctx context.Context, tenantID int64, date time.Time, windowType domain.WindowType) (*domain.LedgerEntry, error)
	IncrementReserved(ctx context.Context, entryID int64) error
	CreateReservation(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
	GetReservationByOrderID(ctx context.Context, orderID string) (*domain.Reservation, error)
}

// TenantServiceClient интерфейс клиента для TenantService
type TenantServiceClient interface {
	GetTenant(ctx context.Context, tenantID int64) (*tenantservice.Tenant, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
