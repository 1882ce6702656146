package list_availability

import (
	"fmt"

	"github.com/m04kA/SMC-DeliverySlotsService/internal/availability"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, maxRangeDays int) error {
	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}

	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return fmt.Errorf("%w: startDate and endDate are required", ErrInvalidInput)
	}

	if req.WindowType != nil && !req.WindowType.IsValid() {
		return fmt.Errorf("%w: unknown window type %q", ErrInvalidInput, *req.WindowType)
	}

	if req.EndDate.Before(req.StartDate) {
		return ErrInvalidRange
	}

	// Ширина диапазона ограничена, чтобы один запрос не выгребал
	// неограниченный объём данных
	spanDays := availability.DayNumber(req.EndDate) - availability.DayNumber(req.StartDate) + 1
	if spanDays > maxRangeDays {
		return fmt.Errorf("%w: requested %d days, maximum is %d", ErrRangeTooWide, spanDays, maxRangeDays)
	}

	return nil
}
