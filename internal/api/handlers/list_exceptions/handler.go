package list_exceptions

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-DeliverySlotsService/internal/api/handlers/handlers"
	"github.com/m04kA/SMC-DeliverySlotsService/internal/service/schedule"
	"github.com/m04kA/SMC-DeliverySlotsService/internal/service/schedule/models"
)

const (
	msgInvalidTenantID = "некорректный ID арендатора"
	msgTenantNotFound  = "арендатор не найден"
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

// Handle GET /api/v1/tenants/{tenantId}/exceptions?futureOnly=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	tenantID, err := strconv.ParseInt(vars["tenantId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /exceptions - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	futureOnly := r.URL.Query().Get("futureOnly") == "true"

	exceptions, err := h.service.ListExceptions(r.Context(), &models.ListExceptionsRequest{
		TenantID:   tenantID,
		FutureOnly: futureOnly,
	})
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrTenantNotFound):
			h.logger.Warn("GET /exceptions - Tenant not found: tenant_id=%d", tenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		default:
			h.logger.Error("GET /exceptions - Failed to list exceptions: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /exceptions - Fetched %d exceptions: tenant_id=%d", len(exceptions), tenantID)
	handlers.RespondJSON(w, http.StatusOK, FromDomainList(tenantID, exceptions))
}
