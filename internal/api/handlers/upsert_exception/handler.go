package upsert_exception

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-DeliverySlotsService/internal/api/handlers/handlers"
	"github.com/m04kA/SMC-DeliverySlotsService/internal/service/schedule"
)

const (
	msgInvalidTenantID    = "некорректный ID арендатора"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateOrTime  = "некорректный формат даты или времени"
	msgInvalidException   = "некорректные параметры исключения"
	msgPastDate           = "дата исключения уже прошла"
	msgTenantNotFound     = "арендатор не найден"
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

// Handle PUT /api/v1/tenants/{tenantId}/exceptions
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	tenantID, err := strconv.ParseInt(vars["tenantId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /exceptions - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	var req UpsertExceptionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /exceptions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest(tenantID)
	if err != nil {
		h.logger.Warn("PUT /exceptions - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	exc, err := h.service.UpsertException(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrPastDate):
			h.logger.Warn("PUT /exceptions - Past date: tenant_id=%d, date=%s", tenantID, req.Date)
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /exceptions - Invalid exception: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, msgInvalidException)

		case errors.Is(err, schedule.ErrTenantNotFound):
			h.logger.Warn("PUT /exceptions - Tenant not found: tenant_id=%d", tenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		default:
			h.logger.Error("PUT /exceptions - Failed to upsert exception: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /exceptions - Exception saved: tenant_id=%d, date=%s, window=%s",
		tenantID, req.Date, req.WindowType)
	handlers.RespondJSON(w, http.StatusOK, FromDomain(exc))
}
