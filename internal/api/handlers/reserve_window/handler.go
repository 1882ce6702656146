package reserve_window

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-DeliverySlotsService/internal/api/handlers/handlers"
	reserveWindow "github.com/m04kA/SMC-DeliverySlotsService/internal/usecase/reserve_window"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRequest     = "некорректные параметры запроса"
	msgTenantNotFound     = "арендатор не найден"
	msgTemplateNotFound   = "недельный шаблон арендатора не найден"
	msgWindowClosed       = "окно доставки закрыто на эту дату"
	msgWindowFull         = "ёмкость окна доставки исчерпана"
	msgStorageFailure     = "хранилище недоступно, повторите запрос"
)

type Handler struct {
	useCase ReserveWindowUseCase
	logger  Logger
}

func NewHandler(useCase ReserveWindowUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ReserveWindowRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /reservations - Failed to parse date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, reserveWindow.ErrInvalidInput):
			h.logger.Warn("POST /reservations - Invalid input: order_id=%s, error=%v", req.OrderID, err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		case errors.Is(err, reserveWindow.ErrTenantNotFound):
			h.logger.Warn("POST /reservations - Tenant not found: tenant_id=%d", req.TenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		case errors.Is(err, reserveWindow.ErrTemplateNotFound):
			h.logger.Warn("POST /reservations - Template not found: tenant_id=%d", req.TenantID)
			handlers.RespondNotFound(w, msgTemplateNotFound)

		case errors.Is(err, reserveWindow.ErrWindowClosed):
			h.logger.Warn("POST /reservations - Window closed: tenant_id=%d, date=%s, window=%s",
				req.TenantID, req.Date, req.WindowType)
			handlers.RespondError(w, http.StatusConflict, msgWindowClosed)

		case errors.Is(err, reserveWindow.ErrWindowFull):
			h.logger.Warn("POST /reservations - Window full: tenant_id=%d, date=%s, window=%s",
				req.TenantID, req.Date, req.WindowType)
			handlers.RespondError(w, http.StatusConflict, msgWindowFull)

		case errors.Is(err, reserveWindow.ErrStorage):
			h.logger.Error("POST /reservations - Storage failure: order_id=%s, error=%v", req.OrderID, err)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgStorageFailure)

		default:
			h.logger.Error("POST /reservations - Failed to reserve window: order_id=%s, error=%v", req.OrderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	status := http.StatusCreated
	if result.AlreadyReserved {
		status = http.StatusOK
	}

	h.logger.Info("POST /reservations - Reservation %s: order_id=%s, tenant_id=%d, remaining=%d",
		result.ReservationID, req.OrderID, req.TenantID, result.Remaining)
	handlers.RespondJSON(w, status, FromUseCaseResponse(result))
}
