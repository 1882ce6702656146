package reserve_window

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-DeliverySlotsService/internal/availability"
	"github.com/m04kA/SMC-DeliverySlotsService/internal/domain"
	ledgerRepo "github.com/m04kA/SMC-DeliverySlotsService/internal/infra/storage/ledger"
	templateRepo "github.com/m04kA/SMC-DeliverySlotsService/internal/infra/storage/template"
	tenantClient "github.com/m04kA/SMC-DeliverySlotsService/internal/integrations/tenantservice"
)

// UseCase use case резервирования окна доставки.
// Весь путь записи идёт в одной serializable-транзакции: строка ledger
// берётся под SELECT ... FOR UPDATE, окно пересчитывается заново под
// блокировкой, и только затем инкрементируется счётчик. Два конкурентных
// Reserve на одно окно сериализуются на блокировке строки, поэтому
// сумма выданных резервирований никогда не превышает ёмкость.
type UseCase struct {
	templateRepo  TemplateRepository
	exceptionRepo ExceptionRepository
	ledgerRepo    LedgerRepository
	tenantClient  TenantServiceClient
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	templateRepo TemplateRepository,
	exceptionRepo ExceptionRepository,
	ledgerRepo LedgerRepository,
	tenantClient TenantServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		templateRepo:  templateRepo,
		exceptionRepo: exceptionRepo,
		ledgerRepo:    ledgerRepo,
		tenantClient:  tenantClient,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case резервирования окна
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ReserveWindow: tenant=%d, date=%s, window=%s, order=%s",
		req.TenantID, req.Date.Format(domain.DateFormat), req.WindowType, req.OrderID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ReserveWindow: validation failed: %v", err)
		return nil, err
	}

	// 2. Разрешаем арендатора (существование + таймзона)
	tenant, err := uc.tenantClient.GetTenant(ctx, req.TenantID)
	if err != nil {
		if errors.Is(err, tenantClient.ErrTenantNotFound) || errors.Is(err, tenantClient.ErrTenantInactive) {
			uc.logger.Warn("ReserveWindow: tenant id=%d not found", req.TenantID)
			return nil, ErrTenantNotFound
		}
		uc.logger.Error("ReserveWindow: failed to get tenant id=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to get tenant: %v", ErrInternal, err)
	}

	now := uc.timeProvider.Now().In(tenant.Location())

	var resp *Response
	err = uc.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		var txErr error
		resp, txErr = uc.reserveInTx(ctx, req, now)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	if resp.AlreadyReserved {
		uc.logger.Info("ReserveWindow: order=%s already holds reservation id=%s", req.OrderID, resp.ReservationID)
	} else {
		uc.logger.Info("ReserveWindow: reserved id=%s for order=%s, remaining=%d", resp.ReservationID, req.OrderID, resp.Remaining)
	}

	return resp, nil
}

// reserveInTx выполняет резервирование внутри открытой транзакции
func (uc *UseCase) reserveInTx(ctx context.Context, req *Request, now time.Time) (*Response, error) {
	// 3. Идемпотентность: повторный Reserve с тем же orderID возвращает
	// существующее резервирование, не трогая счётчики
	existing, err := uc.ledgerRepo.GetReservationByOrderID(ctx, req.OrderID)
	if err != nil && !errors.Is(err, ledgerRepo.ErrReservationNotFound) {
		uc.logger.Error("ReserveWindow: failed to check existing reservation for order=%s: %v", req.OrderID, err)
		return nil, fmt.Errorf("%w: failed to check existing reservation: %v", ErrStorage, err)
	}
	if existing != nil {
		return uc.existingResponse(ctx, existing)
	}

	// 4. Шаблон арендатора
	tpl, err := uc.templateRepo.GetByTenant(ctx, req.TenantID)
	if err != nil {
		if errors.Is(err, templateRepo.ErrTemplateNotFound) {
			uc.logger.Warn("ReserveWindow: template for tenant=%d not found", req.TenantID)
			return nil, ErrTemplateNotFound
		}
		uc.logger.Error("ReserveWindow: failed to get template for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to get template: %v", ErrStorage, err)
	}

	// 5. Исключения от сегодняшнего дня до целевой даты: cutoff считается
	// от текущего окна, поэтому сегодняшние переопределения времени старта
	// участвуют в расчёте. Нижняя граница обрезается до календарной даты:
	// exception_date хранится как DATE, и timestamp с временем суток
	// отфильтровал бы сегодняшнюю строку
	excFrom := dateOnly(now)
	if req.Date.Before(excFrom) {
		excFrom = req.Date
	}
	exceptions, err := uc.exceptionRepo.ListByDateRange(ctx, req.TenantID, excFrom, req.Date)
	if err != nil {
		uc.logger.Error("ReserveWindow: failed to get exceptions for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to get exceptions: %v", ErrStorage, err)
	}

	excByKey := make(map[domain.WindowKey]*domain.DateException, len(exceptions))
	for _, exc := range exceptions {
		excByKey[domain.NewWindowKey(exc.Date, exc.WindowType)] = exc
	}

	// 6. Блокируем строку ledger до проверки доступности: конкурент,
	// пришедший за то же окно, будет ждать здесь
	entry, err := uc.ledgerRepo.LockEntry(ctx, req.TenantID, req.Date, req.WindowType)
	if err != nil {
		uc.logger.Error("ReserveWindow: failed to lock ledger entry tenant=%d date=%s window=%s: %v",
			req.TenantID, req.Date.Format(domain.DateFormat), req.WindowType, err)
		return nil, fmt.Errorf("%w: failed to lock ledger entry: %v", ErrStorage, err)
	}

	// 7. Пересчитываем окно под блокировкой
	cutoffIndex := availability.CutoffIndex(tpl, excByKey, now)
	targetExc := excByKey[domain.NewWindowKey(req.Date, req.WindowType)]
	window := availability.ComputeWindow(tpl, targetExc, entry.Reserved, req.Date, req.WindowType, cutoffIndex)

	if !window.IsOpen {
		uc.logger.Warn("ReserveWindow: window closed tenant=%d date=%s window=%s",
			req.TenantID, req.Date.Format(domain.DateFormat), req.WindowType)
		return nil, ErrWindowClosed
	}
	if window.Remaining <= 0 {
		uc.logger.Warn("ReserveWindow: window full tenant=%d date=%s window=%s capacity=%d",
			req.TenantID, req.Date.Format(domain.DateFormat), req.WindowType, window.MaxCapacity)
		return nil, ErrWindowFull
	}

	// 8. Инкремент счётчика + запись резервирования
	if err := uc.ledgerRepo.IncrementReserved(ctx, entry.ID); err != nil {
		uc.logger.Error("ReserveWindow: failed to increment ledger entry id=%d: %v", entry.ID, err)
		return nil, fmt.Errorf("%w: failed to increment ledger entry: %v", ErrStorage, err)
	}

	created, err := uc.ledgerRepo.CreateReservation(ctx, &domain.Reservation{
		ID:         uuid.NewString(),
		TenantID:   req.TenantID,
		Date:       req.Date,
		WindowType: req.WindowType,
		OrderID:    req.OrderID,
	})
	if err != nil {
		if errors.Is(err, ledgerRepo.ErrDuplicateOrder) {
			// UNIQUE(order_id) сработал под конкурентной вставкой того же
			// заказа. Транзакция откатится вместе с инкрементом, победившее
			// резервирование увидит повторный запрос.
			uc.logger.Warn("ReserveWindow: concurrent duplicate reservation for order=%s", req.OrderID)
		} else {
			uc.logger.Error("ReserveWindow: failed to create reservation for order=%s: %v", req.OrderID, err)
		}
		return nil, fmt.Errorf("%w: failed to create reservation: %v", ErrStorage, err)
	}

	return &Response{
		ReservationID:   created.ID,
		TenantID:        created.TenantID,
		Date:            created.Date,
		WindowType:      created.WindowType,
		OrderID:         created.OrderID,
		Remaining:       window.Remaining - 1,
		AlreadyReserved: false,
		CreatedAt:       created.CreatedAt,
	}, nil
}

// existingResponse собирает ответ для уже существующего резервирования.
// Остаток пересчитывается по эффективной ёмкости окна резервирования,
// а не запрошенного: заказ мог быть зарезервирован на другую дату.
func (uc *UseCase) existingResponse(ctx context.Context, res *domain.Reservation) (*Response, error) {
	entry, err := uc.ledgerRepo.LockEntry(ctx, res.TenantID, res.Date, res.WindowType)
	if err != nil {
		uc.logger.Error("ReserveWindow: failed to read ledger for existing reservation order=%s: %v", res.OrderID, err)
		return nil, fmt.Errorf("%w: failed to read ledger entry: %v", ErrStorage, err)
	}

	remaining := 0
	tpl, err := uc.templateRepo.GetByTenant(ctx, res.TenantID)
	if err == nil {
		exceptions, excErr := uc.exceptionRepo.ListByDateRange(ctx, res.TenantID, res.Date, res.Date)
		var targetExc *domain.DateException
		if excErr == nil {
			for _, exc := range exceptions {
				if exc.WindowType == res.WindowType {
					targetExc = exc
					break
				}
			}
		}
		_, _, capacity, _ := availability.EffectiveWindow(tpl, targetExc, res.Date, res.WindowType)
		remaining = capacity - entry.Reserved
		if remaining < 0 {
			remaining = 0
		}
	}

	return &Response{
		ReservationID:   res.ID,
		TenantID:        res.TenantID,
		Date:            res.Date,
		WindowType:      res.WindowType,
		OrderID:         res.OrderID,
		Remaining:       remaining,
		AlreadyReserved: true,
		CreatedAt:       res.CreatedAt,
	}, nil
}

// dateOnly обнуляет время, оставляя календарную дату
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
