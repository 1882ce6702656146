package reserve_window

import "errors"

var (
	// ErrTenantNotFound возвращается, когда арендатор не найден или неактивен
	ErrTenantNotFound = errors.New("reserve_window: tenant not found")

	// ErrTemplateNotFound возвращается, когда у арендатора нет недельного шаблона
	ErrTemplateNotFound = errors.New("reserve_window: weekly template not found")

	// ErrWindowClosed возвращается, когда окно не предлагается на эту дату
	// (выключено шаблоном/исключением или попало под lead-time cutoff)
	ErrWindowClosed = errors.New("reserve_window: window is closed for this date")

	// ErrWindowFull возвращается, когда ёмкость окна исчерпана
	ErrWindowFull = errors.New("reserve_window: window capacity is exhausted")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reserve_window: invalid input data")

	// ErrStorage возвращается при ошибке хранилища. Вызывающий обязан
	// повторить запрос с тем же orderID - путь записи идемпотентен.
	ErrStorage = errors.New("reserve_window: storage failure")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reserve_window: internal error")
)
