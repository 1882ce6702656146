package release_window

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-DeliverySlotsService/internal/api/handlers/handlers"
	releaseWindow "github.com/m04kA/SMC-DeliverySlotsService/internal/usecase/release_window"
)

const (
	msgInvalidOrderID = "некорректный ID заказа"
	msgStorageFailure = "хранилище недоступно, повторите запрос"
)

type Handler struct {
	useCase ReleaseWindowUseCase
	logger  Logger
}

func NewHandler(useCase ReleaseWindowUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/orders/{orderId}/reservation
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["orderId"]

	result, err := h.useCase.Execute(r.Context(), &releaseWindow.Request{OrderID: orderID})
	if err != nil {
		switch {
		case errors.Is(err, releaseWindow.ErrInvalidInput):
			h.logger.Warn("DELETE /orders/{orderId}/reservation - Invalid order ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidOrderID)

		case errors.Is(err, releaseWindow.ErrStorage):
			h.logger.Error("DELETE /orders/{orderId}/reservation - Storage failure: order_id=%s, error=%v", orderID, err)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgStorageFailure)

		default:
			h.logger.Error("DELETE /orders/{orderId}/reservation - Failed to release: order_id=%s, error=%v", orderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	if result.Released {
		h.logger.Info("DELETE /orders/{orderId}/reservation - Released: order_id=%s, reservation_id=%s",
			orderID, result.ReservationID)
	} else {
		h.logger.Info("DELETE /orders/{orderId}/reservation - Nothing to release: order_id=%s", orderID)
	}

	handlers.RespondNoContent(w)
}
