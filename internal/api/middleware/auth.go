package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/rentride/RR-BookingService/internal/api/handlers"
)

type contextKey string

const userIDKey contextKey = "userID"

const (
	// HeaderUserID заголовок с ID аутентифицированного пользователя.
	// Аутентификацию выполняет API-гейтвей, сервис доверяет заголовку
	HeaderUserID = "X-User-ID"

	msgMissingUserID = "отсутствует заголовок X-User-ID"
	msgInvalidUserID = "некорректный ID пользователя"
)

// Auth middleware извлекает ID пользователя из заголовка и кладет в контекст
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(HeaderUserID)
		if raw == "" {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, msgInvalidUserID)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID достает ID пользователя из контекста запроса
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}
