package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-DeliverySlotsService/internal/domain"
	exceptionRepo "github.com/m04kA/SMC-DeliverySlotsService/internal/infra/storage/exception"
	templateRepo "github.com/m04kA/SMC-DeliverySlotsService/internal/infra/storage/template"
	tenantClient "github.com/m04kA/SMC-DeliverySlotsService/internal/integrations/tenantservice"
	"github.com/m04kA/SMC-DeliverySlotsService/internal/service/schedule/models"
)

// Service сервис администрирования расписаний: недельный шаблон и
// исключения дат. Редактируется менеджерами арендатора; движок
// резервирований читает результат через репозитории.
type Service struct {
	templateRepo  TemplateRepository
	exceptionRepo ExceptionRepository
	tenantClient  TenantServiceClient
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(
	templateRepo TemplateRepository,
	exceptionRepo ExceptionRepository,
	tenantClient TenantServiceClient,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		templateRepo:  templateRepo,
		exceptionRepo: exceptionRepo,
		tenantClient:  tenantClient,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// UpsertTemplate сохраняет недельный шаблон арендатора целиком
func (s *Service) UpsertTemplate(ctx context.Context, req *models.UpsertTemplateRequest) (*domain.WeeklyTemplate, error) {
	s.logger.Info("UpsertTemplate: tenant=%d, minLeadWindows=%d", req.TenantID, req.MinLeadWindows)

	if err := validateTemplateRequest(req); err != nil {
		s.logger.Warn("UpsertTemplate: validation failed: %v", err)
		return nil, err
	}

	if _, err := s.resolveTenant(ctx, req.TenantID); err != nil {
		return nil, err
	}

	var result *domain.WeeklyTemplate

	// Заголовок и 7 дней пишутся в одной транзакции, чтобы читатели
	// не видели наполовину обновлённый шаблон
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		tpl, err := s.templateRepo.Upsert(txCtx, req.ToDomainTemplate())
		if err != nil {
			s.logger.Error("UpsertTemplate: repository error for tenant=%d: %v", req.TenantID, err)
			return fmt.Errorf("%w: UpsertTemplate - repository error: %v", ErrInternal, err)
		}
		result = tpl
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("UpsertTemplate: successfully saved template for tenant=%d", req.TenantID)
	return result, nil
}

// GetTemplate получает недельный шаблон арендатора
func (s *Service) GetTemplate(ctx context.Context, tenantID int64) (*domain.WeeklyTemplate, error) {
	s.logger.Info("GetTemplate: tenant=%d", tenantID)

	if tenantID <= 0 {
		return nil, fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}

	tpl, err := s.templateRepo.GetByTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, templateRepo.ErrTemplateNotFound) {
			s.logger.Warn("GetTemplate: template for tenant=%d not found", tenantID)
			return nil, ErrTemplateNotFound
		}
		s.logger.Error("GetTemplate: repository error for tenant=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: GetTemplate - repository error: %v", ErrInternal, err)
	}

	return tpl, nil
}

// UpsertException создает или заменяет исключение даты.
// Исключение на прошедшую (в локальном календаре арендатора) дату отклоняется.
func (s *Service) UpsertException(ctx context.Context, req *models.UpsertExceptionRequest) (*domain.DateException, error) {
	s.logger.Info("UpsertException: tenant=%d, date=%s, window=%s, enabled=%t",
		req.TenantID, req.Date.Format(domain.DateFormat), req.WindowType, req.Enabled)

	if err := validateExceptionRequest(req); err != nil {
		s.logger.Warn("UpsertException: validation failed: %v", err)
		return nil, err
	}

	tenant, err := s.resolveTenant(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}

	now := s.timeProvider.Now().In(tenant.Location())
	if isDateInPast(req.Date, now) {
		s.logger.Warn("UpsertException: date %s is in the past for tenant=%d",
			req.Date.Format(domain.DateFormat), req.TenantID)
		return nil, ErrPastDate
	}

	exc, err := s.exceptionRepo.Upsert(ctx, req.ToDomainException())
	if err != nil {
		s.logger.Error("UpsertException: repository error for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: UpsertException - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpsertException: successfully saved exception id=%d", exc.ID)
	return exc, nil
}

// DeleteException удаляет исключение, возвращая дату к расчёту по шаблону
func (s *Service) DeleteException(ctx context.Context, tenantID int64, date time.Time, windowType domain.WindowType) error {
	s.logger.Info("DeleteException: tenant=%d, date=%s, window=%s",
		tenantID, date.Format(domain.DateFormat), windowType)

	if tenantID <= 0 {
		return fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}
	if !windowType.IsValid() {
		return fmt.Errorf("%w: unknown window type %q", ErrInvalidInput, windowType)
	}

	err := s.exceptionRepo.Delete(ctx, tenantID, date, windowType)
	if err != nil {
		if errors.Is(err, exceptionRepo.ErrExceptionNotFound) {
			s.logger.Warn("DeleteException: exception not found for tenant=%d, date=%s, window=%s",
				tenantID, date.Format(domain.DateFormat), windowType)
			return ErrExceptionNotFound
		}
		s.logger.Error("DeleteException: repository error for tenant=%d: %v", tenantID, err)
		return fmt.Errorf("%w: DeleteException - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteException: successfully deleted exception for tenant=%d, date=%s, window=%s",
		tenantID, date.Format(domain.DateFormat), windowType)
	return nil
}

// ListExceptions получает исключения арендатора.
// FutureOnly ограничивает выборку сегодняшним днём и будущими датами
// в локальном календаре арендатора.
func (s *Service) ListExceptions(ctx context.Context, req *models.ListExceptionsRequest) ([]*domain.DateException, error) {
	s.logger.Info("ListExceptions: tenant=%d, futureOnly=%t", req.TenantID, req.FutureOnly)

	if req.TenantID <= 0 {
		return nil, fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}

	tenant, err := s.resolveTenant(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}

	now := s.timeProvider.Now().In(tenant.Location())
	filter := domain.ExceptionsFilter{
		TenantID:   req.TenantID,
		FutureOnly: req.FutureOnly,
		Today:      dateOnly(now),
	}

	exceptions, err := s.exceptionRepo.ListWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ListExceptions: repository error for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: ListExceptions - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListExceptions: fetched %d exceptions for tenant=%d", len(exceptions), req.TenantID)
	return exceptions, nil
}

// resolveTenant проверяет существование и активность арендатора
func (s *Service) resolveTenant(ctx context.Context, tenantID int64) (*tenantClient.Tenant, error) {
	tenant, err := s.tenantClient.GetTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, tenantClient.ErrTenantNotFound) || errors.Is(err, tenantClient.ErrTenantInactive) {
			s.logger.Warn("resolveTenant: tenant id=%d not found or inactive", tenantID)
			return nil, ErrTenantNotFound
		}
		s.logger.Error("resolveTenant: failed to get tenant id=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: failed to get tenant: %v", ErrInternal, err)
	}
	return tenant, nil
}

// validateTemplateRequest валидирует запрос на сохранение шаблона
func validateTemplateRequest(req *models.UpsertTemplateRequest) error {
	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}

	if req.MinLeadWindows < domain.MinLeadWindowsMin || req.MinLeadWindows > domain.MinLeadWindowsMax {
		return fmt.Errorf("%w: minLeadWindows must be between %d and %d",
			ErrInvalidInput, domain.MinLeadWindowsMin, domain.MinLeadWindowsMax)
	}

	if err := validateCapacity(req.DefaultMorningCapacity); err != nil {
		return fmt.Errorf("%w: defaultMorningCapacity: %v", ErrInvalidInput, err)
	}
	if err := validateCapacity(req.DefaultAfternoonCapacity); err != nil {
		return fmt.Errorf("%w: defaultAfternoonCapacity: %v", ErrInvalidInput, err)
	}

	for i, day := range req.Days {
		if err := validateSpec(day.Morning); err != nil {
			return fmt.Errorf("%w: day %d morning: %v", ErrInvalidInput, i, err)
		}
		if err := validateSpec(day.Afternoon); err != nil {
			return fmt.Errorf("%w: day %d afternoon: %v", ErrInvalidInput, i, err)
		}
	}

	return nil
}

// validateSpec валидирует параметры одного окна шаблона
func validateSpec(spec *models.WindowSpecModel) error {
	if spec == nil {
		return nil
	}

	if err := spec.StartTime.Validate(); err != nil {
		return err
	}
	if err := spec.EndTime.Validate(); err != nil {
		return err
	}
	if !spec.StartTime.IsBefore(spec.EndTime) {
		return fmt.Errorf("start time %s must be before end time %s", spec.StartTime, spec.EndTime)
	}
	if spec.MaxCapacity != nil {
		if err := validateCapacity(*spec.MaxCapacity); err != nil {
			return err
		}
	}

	return nil
}

// validateExceptionRequest валидирует запрос на сохранение исключения
func validateExceptionRequest(req *models.UpsertExceptionRequest) error {
	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if !req.WindowType.IsValid() {
		return fmt.Errorf("%w: unknown window type %q", ErrInvalidInput, req.WindowType)
	}

	if req.CustomStart != nil {
		if err := req.CustomStart.Validate(); err != nil {
			return fmt.Errorf("%w: customStart: %v", ErrInvalidInput, err)
		}
	}
	if req.CustomEnd != nil {
		if err := req.CustomEnd.Validate(); err != nil {
			return fmt.Errorf("%w: customEnd: %v", ErrInvalidInput, err)
		}
	}
	if req.CustomStart != nil && req.CustomEnd != nil && !req.CustomStart.IsBefore(*req.CustomEnd) {
		return fmt.Errorf("%w: customStart %s must be before customEnd %s",
			ErrInvalidInput, *req.CustomStart, *req.CustomEnd)
	}
	if req.CustomMaxCapacity != nil {
		if err := validateCapacity(*req.CustomMaxCapacity); err != nil {
			return fmt.Errorf("%w: customMaxCapacity: %v", ErrInvalidInput, err)
		}
	}

	return nil
}

// validateCapacity проверяет допустимость значения ёмкости
func validateCapacity(capacity int) error {
	if capacity < domain.MinWindowCapacity || capacity > domain.MaxWindowCapacity {
		return fmt.Errorf("capacity must be between %d and %d", domain.MinWindowCapacity, domain.MaxWindowCapacity)
	}
	return nil
}

// isDateInPast проверяет, что дата раньше сегодняшнего дня
func isDateInPast(date, now time.Time) bool {
	return dateOnly(date).Before(dateOnly(now))
}

// dateOnly обнуляет время, оставляя календарную дату
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
