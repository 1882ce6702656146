package list_availability

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

// LedgerRepository интерфейс чтения счётчиков резервирований
type LedgerRepository interface {
	GetReservedCounts(ctx context.Context, tenantID int64, from, to time.Time) (map[domain.WindowKey]int, error)
}

// TenantServiceClient интерфейс клиента для TenantService
type TenantServiceClient interface {
	GetTenant(ctx context.Context, tenantID int64) (*tenantservice.Tenant, error)
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
