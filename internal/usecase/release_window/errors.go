package release_window

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("release_window: invalid input data")

	// ErrStorage возвращается при ошибке хранилища
	ErrStorage = errors.New("release_window: storage failure")
)
