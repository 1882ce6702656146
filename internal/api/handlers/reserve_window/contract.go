package reserve_window

import (
	"context"

	reserveWindow "github.com/m04kA/SMC-DeliverySlotsService/internal/usecase/reserve_window"
)

type ReserveWindowUseCase interface {
	Execute(ctx context.Context, req *reserveWindow.Request) (*reserveWindow.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
