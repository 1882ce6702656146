package list_availability

import "errors"

var (
	// ErrTenantNotFound возвращается, когда арендатор не найден или неактивен
	ErrTenantNotFound = errors.New("list_availability: tenant not found")

	// ErrTemplateNotFound возвращается, когда у арендатора нет недельного шаблона
	ErrTemplateNotFound = errors.New("list_availability: weekly template not found")

	// ErrInvalidRange возвращается, когда конец диапазона раньше начала
	ErrInvalidRange = errors.New("list_availability: invalid date range")

	// ErrRangeTooWide возвращается, когда диапазон шире настроенного максимума
	ErrRangeTooWide = errors.New("list_availability: date range is too wide")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("list_availability: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("list_availability: internal error")
)
