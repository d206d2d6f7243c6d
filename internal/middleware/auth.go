package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"taskManager/internal/logger"
	"taskManager/internal/session"

	"go.uber.org/zap"
)

type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (string, error)
}

// Authenticate кладёт в контекст пользователя из заголовка Authorization: Bearer.
// Запрос без заголовка проходит дальше как есть: тогда пользователя определяет
// сохранённая сессия. Неверный токен - 401.
func Authenticate(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				unauthorized(w, r, "ожидается заголовок Authorization: Bearer <token>")
				return
			}

			userID, err := validator.ValidateToken(r.Context(), strings.TrimSpace(token))
			if err != nil {
				logger.Warn("HTTP: Недействительный токен",
					zap.String("request_id", GetRequestID(r.Context())),
					zap.Error(err))
				unauthorized(w, r, err.Error())
				return
			}

			ctx := session.WithUserID(r.Context(), userID)
			setUser(ctx, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="task-manager"`)
	writeError(w, r, http.StatusUnauthorized, "UNAUTHENTICATED", message)
}

// writeError отвечает в том же формате, что и обработчики
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error":      code,
		"message":    message,
		"request_id": GetRequestID(r.Context()),
	})
}

type userSlotKey struct{}

// withUserSlot даёт Authenticate способ сообщить Logging пользователя запроса
func withUserSlot(ctx context.Context, rec *statusRecorder) context.Context {
	return context.WithValue(ctx, userSlotKey{}, rec)
}

func setUser(ctx context.Context, userID string) {
	if rec, ok := ctx.Value(userSlotKey{}).(*statusRecorder); ok {
		rec.userID = userID
	}
}
