package release_window

import (
	"context"

	releaseWindow "github.com/m04kA/SMC-DeliverySlotsService/internal/usecase/release_window"
)

type ReleaseWindowUseCase interface {
	Execute(ctx context.Context, req *releaseWindow.Request) (*releaseWindow.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
