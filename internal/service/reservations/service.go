package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-DeliverySlotsService/internal/domain"
	ledgerRepo "github.com/m04kA/SMC-DeliverySlotsService/internal/infra/storage/ledger"
)

// Service read-сервис резервирований для менеджерских запросов:
// кто держит окно и где резервирование конкретного заказа.
// Запись в ledger идёт только через usecase'ы Reserve/Release.
type Service struct {
	ledgerRepo LedgerRepository
	logger     Logger
}

// NewService создает новый экземпляр сервиса резервирований
func NewService(ledgerRepo LedgerRepository, logger Logger) *Service {
	return &Service{
		ledgerRepo: ledgerRepo,
		logger:     logger,
	}
}

// GetWindowReservations возвращает держателей резервирований окна
func (s *Service) GetWindowReservations(ctx context.Context, tenantID int64, date time.Time, windowType domain.WindowType) ([]*domain.Reservation, error) {
	s.logger.Info("GetWindowReservations: tenant=%d, date=%s, window=%s",
		tenantID, date.Format(domain.DateFormat), windowType)

	if tenantID <= 0 {
		return nil, fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}
	if !windowType.IsValid() {
		return nil, fmt.Errorf("%w: unknown window type %q", ErrInvalidInput, windowType)
	}

	reservations, err := s.ledgerRepo.ListReservationsByWindow(ctx, tenantID, date, windowType)
	if err != nil {
		s.logger.Error("GetWindowReservations: repository error for tenant=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: GetWindowReservations - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetWindowReservations: fetched %d reservations for tenant=%d", len(reservations), tenantID)
	return reservations, nil
}

// GetByOrder возвращает резервирование, которое держит заказ
func (s *Service) GetByOrder(ctx context.Context, orderID string) (*domain.Reservation, error) {
	s.logger.Info("GetByOrder: order=%s", orderID)

	if orderID == "" {
		return nil, fmt.Errorf("%w: orderID is required", ErrInvalidInput)
	}

	res, err := s.ledgerRepo.GetReservationByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, ledgerRepo.ErrReservationNotFound) {
			s.logger.Warn("GetByOrder: reservation for order=%s not found", orderID)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("GetByOrder: repository error for order=%s: %v", orderID, err)
		return nil, fmt.Errorf("%w: GetByOrder - repository error: %v", ErrInternal, err)
	}

	return res, nil
}
