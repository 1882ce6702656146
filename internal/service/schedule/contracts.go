package schedule

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DeliverySlotsService/internal/domain"
	"github.com/m04kA/SMC-DeliverySlotsService/internal/integrations/tenantservice"
)

// TemplateRepository интерфейс репозитория недельных шаблонов
type TemplateRepository interface {
	Upsert(ctx context.Context, tpl *domain.WeeklyTemplate) (*domain.WeeklyTemplate, error)
	GetByTenant(ctx context.Context, tenantID int64) (*domain.WeeklyTemplate, error)
}

// ExceptionRepository интерфейс репозитория исключений дат
type ExceptionRepository interface {
	Upsert(ctx context.Context, exc *domain.DateException) (*domain.DateException, error)
	GetByKey(ctx context.Context, tenantID int64, date time.Time, windowType domain.WindowType) (*domain.DateException, error)
	ListWithFilter(ctx context.Context, filter domain.ExceptionsFilter) ([]*domain.DateException, error)
	Delete(ctx context.Context, tenantID int64, date time.Time, windowType domain.WindowType) error
}

// TenantServiceClient интерфейс клиента для TenantService
type TenantServiceClient interface {
	GetTenant(ctx context.Context, tenantID int64) (*tenantservice.Tenant, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
