package schedule

import "errors"

var (
	// ErrTenantNotFound возвращается, когда арендатор не найден или неактивен
	ErrTenantNotFound = errors.New("schedule: tenant not found")

	// ErrTemplateNotFound возвращается, когда шаблон арендатора не найден
	ErrTemplateNotFound = errors.New("schedule: weekly template not found")

	// ErrExceptionNotFound возвращается, когда исключение не найдено
	ErrExceptionNotFound = errors.New("schedule: date exception not found")

	// ErrPastDate возвращается при попытке записать исключение на прошедшую дату.
	// Исключения применимы только к сегодняшнему дню и будущим датам.
	ErrPastDate = errors.New("schedule: exception date is in the past")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("schedule: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("schedule: internal error")
)
