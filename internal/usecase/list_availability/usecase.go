package list_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-DeliverySlotsService/internal/availability"
	"github.com/m04kA/SMC-DeliverySlotsService/internal/domain"
	templateRepo "github.com/m04kA/SMC-DeliverySlotsService/internal/infra/storage/template"
	tenantClient "github.com/m04kA/SMC-DeliverySlotsService/internal/integrations/tenantservice"
)

// UseCase use case получения доступности окон доставки.
// Тонкий read-путь: валидация диапазона, разрешение арендатора и
// делегирование в чистый расчёт availability. Чтение ledger идёт без
// блокировок - листинг может показать окно, которое заполнится мгновением
// позже; это принятая гонка browse-then-book, инвариант защищён только
// на границе Reserve.
type UseCase struct {
	templateRepo  TemplateRepository
	exceptionRepo ExceptionRepository
	ledgerRepo    LedgerRepository
	tenantClient  TenantServiceClient
	timeProvider  TimeProvider
	maxRangeDays  int
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	templateRepo TemplateRepository,
	exceptionRepo ExceptionRepository,
	ledgerRepo LedgerRepository,
	tenantClient TenantServiceClient,
	maxRangeDays int,
	logger Logger,
) *UseCase {
	return &UseCase{
		templateRepo:  templateRepo,
		exceptionRepo: exceptionRepo,
		ledgerRepo:    ledgerRepo,
		tenantClient:  tenantClient,
		timeProvider:  &RealTimeProvider{},
		maxRangeDays:  maxRangeDays,
		logger:        logger,
	}
}

// Execute выполняет use case получения доступности
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ListAvailability: tenant=%d, range=%s..%s, onlyAvailable=%t",
		req.TenantID, req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat), req.OnlyAvailable)

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.maxRangeDays); err != nil {
		uc.logger.Warn("ListAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Разрешаем арендатора (существование + таймзона)
	tenant, err := uc.tenantClient.GetTenant(ctx, req.TenantID)
	if err != nil {
		if errors.Is(err, tenantClient.ErrTenantNotFound) || errors.Is(err, tenantClient.ErrTenantInactive) {
			uc.logger.Warn("ListAvailability: tenant id=%d not found", req.TenantID)
			return nil, ErrTenantNotFound
		}
		uc.logger.Error("ListAvailability: failed to get tenant id=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to get tenant: %v", ErrInternal, err)
	}

	// 3. Текущее время в локальной таймзоне арендатора
	now := uc.timeProvider.Now().In(tenant.Location())

	// 4. Шаблон арендатора
	tpl, err := uc.templateRepo.GetByTenant(ctx, req.TenantID)
	if err != nil {
		if errors.Is(err, templateRepo.ErrTemplateNotFound) {
			uc.logger.Warn("ListAvailability: template for tenant=%d not found", req.TenantID)
			return nil, ErrTemplateNotFound
		}
		uc.logger.Error("ListAvailability: failed to get template for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to get template: %v", ErrInternal, err)
	}

	// 5. Исключения диапазона плюс сегодняшний день - он нужен расчёту
	// lead-time cutoff, даже когда диапазон начинается позже. Сравниваем
	// календарные даты: exception_date хранится как DATE, и timestamp с
	// временем суток отфильтровал бы сегодняшнюю строку
	excFrom := req.StartDate
	if nowDate := dateOnly(now); nowDate.Before(excFrom) {
		excFrom = nowDate
	}
	exceptions, err := uc.exceptionRepo.ListByDateRange(ctx, req.TenantID, excFrom, req.EndDate)
	if err != nil {
		uc.logger.Error("ListAvailability: failed to get exceptions for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to get exceptions: %v", ErrInternal, err)
	}

	excByKey := make(map[domain.WindowKey]*domain.DateException, len(exceptions))
	for _, exc := range exceptions {
		excByKey[domain.NewWindowKey(exc.Date, exc.WindowType)] = exc
	}

	// 6. Счётчики резервирований диапазона
	reserved, err := uc.ledgerRepo.GetReservedCounts(ctx, req.TenantID, req.StartDate, req.EndDate)
	if err != nil {
		uc.logger.Error("ListAvailability: failed to get ledger counts for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to get ledger counts: %v", ErrInternal, err)
	}

	// 7. Чистый расчёт доступности
	windows := availability.ComputeRange(
		tpl,
		excByKey,
		reserved,
		req.StartDate,
		req.EndDate,
		req.WindowType,
		req.OnlyAvailable,
		now,
	)

	uc.logger.Info("ListAvailability: computed %d windows for tenant=%d", len(windows), req.TenantID)

	return &Response{
		TenantID:  req.TenantID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Windows:   windows,
	}, nil
}

// dateOnly обнуляет время, оставляя календарную дату
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
