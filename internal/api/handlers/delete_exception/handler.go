package delete_exception

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-DeliverySlotsService/internal/api/handlers/handlers"
	"github.com/m04kA/SMC-DeliverySlotsService/internal/domain"
	"github.com/m04kA/SMC-DeliverySlotsService/internal/service/schedule"
)

const (
	msgInvalidTenantID   = "некорректный ID арендатора"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidWindowType = "некорректный тип окна, ожидается morning или afternoon"
	msgExceptionNotFound = "исключение не найдено"
	msgTenantNotFound    = "арендатор не найден"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/tenants/{tenantId}/exceptions?date=...&windowType=...
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	tenantID, err := strconv.ParseInt(vars["tenantId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /exceptions - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	query := r.URL.Query()

	date, err := time.Parse(domain.DateFormat, query.Get("date"))
	if err != nil {
		h.logger.Warn("DELETE /exceptions - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	windowType := domain.WindowType(query.Get("windowType"))
	if !windowType.IsValid() {
		h.logger.Warn("DELETE /exceptions - Invalid window type: %s", query.Get("windowType"))
		handlers.RespondBadRequest(w, msgInvalidWindowType)
		return
	}

	if err := h.service.DeleteException(r.Context(), tenantID, date, windowType); err != nil {
		switch {
		case errors.Is(err, schedule.ErrExceptionNotFound):
			h.logger.Warn("DELETE /exceptions - Exception not found: tenant_id=%d, date=%s, window=%s",
				tenantID, query.Get("date"), windowType)
			handlers.RespondNotFound(w, msgExceptionNotFound)

		case errors.Is(err, schedule.ErrTenantNotFound):
			h.logger.Warn("DELETE /exceptions - Tenant not found: tenant_id=%d", tenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		default:
			h.logger.Error("DELETE /exceptions - Failed to delete exception: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /exceptions - Exception deleted: tenant_id=%d, date=%s, window=%s",
		tenantID, query.Get("date"), windowType)
	handlers.RespondNoContent(w)
}
