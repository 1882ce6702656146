package middleware

import (
	"net/http"

	"github.com/m04kA/SMC-DeliverySlotsService/internal/api/handlers/handlers"
)

const userIDHeader = "X-User-ID"

// Auth проверяет наличие заголовка X-User-ID.
// Идентификацию выполняет API gateway, сервис доверяет заголовку.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(userIDHeader) == "" {
			handlers.RespondUnauthorized(w, "отсутствует заголовок X-User-ID")
			return
		}
		next.ServeHTTP(w, r)
	})
}
