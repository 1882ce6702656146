package get_window_reservations

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-DeliverySlotsService/internal/api/handlers/handlers"
	"github.com/m04kA/SMC-DeliverySlotsService/internal/domain"
	"github.com/m04kA/SMC-DeliverySlotsService/internal/service/reservations"
)

const (
	msgInvalidTenantID   = "некорректный ID арендатора"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidWindowType = "некорректный тип окна, ожидается morning или afternoon"
)

type Handler struct {
	service ReservationsService
	logger  Logger
}

func NewHandler(service ReservationsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/tenants/{tenantId}/windows/{date}/{windowType}/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	tenantID, err := strconv.ParseInt(vars["tenantId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /windows/reservations - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	date, err := time.Parse(domain.DateFormat, vars["date"])
	if err != nil {
		h.logger.Warn("GET /windows/reservations - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	windowType := domain.WindowType(vars["windowType"])
	if !windowType.IsValid() {
		h.logger.Warn("GET /windows/reservations - Invalid window type: %s", vars["windowType"])
		handlers.RespondBadRequest(w, msgInvalidWindowType)
		return
	}

	result, err := h.service.GetWindowReservations(r.Context(), tenantID, date, windowType)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrInvalidInput):
			h.logger.Warn("GET /windows/reservations - Invalid input: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, msgInvalidTenantID)

		default:
			h.logger.Error("GET /windows/reservations - Failed to list reservations: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /windows/reservations - Fetched %d reservations: tenant_id=%d, date=%s, window=%s",
		len(result), tenantID, vars["date"], windowType)
	handlers.RespondJSON(w, http.StatusOK, FromDomainList(tenantID, date, windowType, result))
}
