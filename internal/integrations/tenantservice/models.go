package tenantservice

import "time"

// Tenant модель арендатора из TenantService
type Tenant struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Timezone string `json:"timezone"` // IANA, например "Europe/Moscow"
	IsActive bool   `json:"is_active"`
}

// Location возвращает *time.Location арендатора.
// При некорректной таймзоне возвращает UTC - окна доставки в этом случае
// считаются по UTC, что безопаснее, чем отказ в обслуживании.
func (t *Tenant) Location() *time.Location {
	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ErrorResponse модель ошибки от TenantService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
