package release_window

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-DeliverySlotsService/internal/domain"
	ledgerRepo "github.com/m04kA/SMC-DeliverySlotsService/internal/infra/storage/ledger"
)

// UseCase use case снятия резервирования окна доставки.
// Release идемпотентен: отсутствующее резервирование это успешный no-op,
// повторный Release не уводит счётчик ledger ниже нуля.
type UseCase struct {
	ledgerRepo LedgerRepository
	txManager  TransactionManager
	logger     Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(ledgerRepo LedgerRepository, txManager TransactionManager, logger Logger) *UseCase {
	return &UseCase{
		ledgerRepo: ledgerRepo,
		txManager:  txManager,
		logger:     logger,
	}
}

// Execute выполняет use case снятия резервирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ReleaseWindow: order=%s", req.OrderID)

	if req.OrderID == "" {
		return nil, fmt.Errorf("%w: orderID is required", ErrInvalidInput)
	}

	var resp *Response
	err := uc.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		var txErr error
		resp, txErr = uc.releaseInTx(ctx, req.OrderID)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	if resp.Released {
		uc.logger.Info("ReleaseWindow: released reservation id=%s for order=%s", resp.ReservationID, req.OrderID)
	} else {
		uc.logger.Info("ReleaseWindow: no reservation for order=%s, nothing to release", req.OrderID)
	}

	return resp, nil
}

// releaseInTx выполняет снятие резервирования внутри открытой транзакции
func (uc *UseCase) releaseInTx(ctx context.Context, orderID string) (*Response, error) {
	res, err := uc.ledgerRepo.GetReservationByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, ledgerRepo.ErrReservationNotFound) {
			return &Response{Released: false}, nil
		}
		uc.logger.Error("ReleaseWindow: failed to get reservation for order=%s: %v", orderID, err)
		return nil, fmt.Errorf("%w: failed to get reservation: %v", ErrStorage, err)
	}

	// Блокируем строку ledger до удаления, тем же порядком что и Reserve,
	// иначе конкурентные Reserve/Release могут взаимно заблокироваться
	entry, err := uc.ledgerRepo.LockEntry(ctx, res.TenantID, res.Date, res.WindowType)
	if err != nil {
		uc.logger.Error("ReleaseWindow: failed to lock ledger entry tenant=%d date=%s window=%s: %v",
			res.TenantID, res.Date.Format(domain.DateFormat), res.WindowType, err)
		return nil, fmt.Errorf("%w: failed to lock ledger entry: %v", ErrStorage, err)
	}

	if err := uc.ledgerRepo.DeleteReservation(ctx, res.ID); err != nil {
		uc.logger.Error("ReleaseWindow: failed to delete reservation id=%s: %v", res.ID, err)
		return nil, fmt.Errorf("%w: failed to delete reservation: %v", ErrStorage, err)
	}

	if err := uc.ledgerRepo.DecrementReserved(ctx, entry.ID); err != nil {
		uc.logger.Error("ReleaseWindow: failed to decrement ledger entry id=%d: %v", entry.ID, err)
		return nil, fmt.Errorf("%w: failed to decrement ledger entry: %v", ErrStorage, err)
	}

	return &Response{
		Released:      true,
		ReservationID: res.ID,
		TenantID:      res.TenantID,
		Date:          res.Date,
		WindowType:    res.WindowType,
	}, nil
}
