package list_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-DeliverySlotsService/internal/api/handlers/handlers"
	"github.com/m04kA/SMC-DeliverySlotsService/internal/domain"
	listAvailability "github.com/m04kA/SMC-DeliverySlotsService/internal/usecase/list_availability"
)

const (
	msgInvalidTenantID   = "некорректный ID арендатора"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidWindowType = "некорректный тип окна, ожидается morning или afternoon"
	msgInvalidRange      = "конец диапазона раньше начала"
	msgRangeTooWide      = "запрошенный диапазон дат слишком широкий"
	msgTenantNotFound    = "арендатор не найден"
	msgTemplateNotFound  = "недельный шаблон арендатора не найден"
	msgInvalidRequest    = "некорректные параметры запроса"
)

type Handler struct {
	useCase ListAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase ListAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/tenants/{tenantId}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	tenantID, err := strconv.ParseInt(vars["tenantId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /availability - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	query := r.URL.Query()

	startDate, err := time.Parse(domain.DateFormat, query.Get("startDate"))
	if err != nil {
		h.logger.Warn("GET /availability - Invalid startDate: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	endDate, err := time.Parse(domain.DateFormat, query.Get("endDate"))
	if err != nil {
		h.logger.Warn("GET /availability - Invalid endDate: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	var windowType *domain.WindowType
	if raw := query.Get("windowType"); raw != "" {
		wt := domain.WindowType(raw)
		if !wt.IsValid() {
			h.logger.Warn("GET /availability - Invalid window type: %s", raw)
			handlers.RespondBadRequest(w, msgInvalidWindowType)
			return
		}
		windowType = &wt
	}

	onlyAvailable := query.Get("onlyAvailable") == "true"

	result, err := h.useCase.Execute(r.Context(), &listAvailability.Request{
		TenantID:      tenantID,
		StartDate:     startDate,
		EndDate:       endDate,
		WindowType:    windowType,
		OnlyAvailable: onlyAvailable,
	})
	if err != nil {
		switch {
		case errors.Is(err, listAvailability.ErrInvalidRange):
			h.logger.Warn("GET /availability - Invalid range: tenant_id=%d", tenantID)
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, listAvailability.ErrRangeTooWide):
			h.logger.Warn("GET /availability - Range too wide: tenant_id=%d", tenantID)
			handlers.RespondBadRequest(w, msgRangeTooWide)

		case errors.Is(err, listAvailability.ErrInvalidInput):
			h.logger.Warn("GET /availability - Invalid input: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		case errors.Is(err, listAvailability.ErrTenantNotFound):
			h.logger.Warn("GET /availability - Tenant not found: tenant_id=%d", tenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		case errors.Is(err, listAvailability.ErrTemplateNotFound):
			h.logger.Warn("GET /availability - Template not found: tenant_id=%d", tenantID)
			handlers.RespondNotFound(w, msgTemplateNotFound)

		default:
			h.logger.Error("GET /availability - Failed to compute availability: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
