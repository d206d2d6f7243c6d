package middleware

import (
	"net/http"
	"time"

	"taskManager/internal/logger"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// statusRecorder запоминает код и размер ответа, а Authenticate
// сообщает ему пользователя запроса
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
	userID string
}

func (rec *statusRecorder) WriteHeader(code int) {
	if rec.status != 0 {
		return
	}
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	if rec.status == 0 {
		rec.WriteHeader(http.StatusOK)
	}
	n, err := rec.ResponseWriter.Write(b)
	rec.bytes += n
	return n, err
}

// Logging пишет одну запись на запрос после его завершения.
// Уровень зависит от кода ответа.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		next.ServeHTTP(rec, r.WithContext(withUserSlot(r.Context(), rec)))

		if rec.status == 0 {
			rec.status = http.StatusOK
		}

		fields := []zap.Field{
			zap.String("request_id", GetRequestID(r.Context())),
			zap.String("method", r.Method),
			zap.String("route", routePattern(r)),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Int("bytes", rec.bytes),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", clientIP(r)),
		}
		if rec.userID != "" {
			fields = append(fields, zap.String("user_id", rec.userID))
		}

		switch {
		case rec.status >= http.StatusInternalServerError:
			logger.Log(zapcore.ErrorLevel, "HTTP: Запрос завершился ошибкой сервера", fields...)
		case rec.status >= http.StatusBadRequest:
			logger.Log(zapcore.WarnLevel, "HTTP: Запрос отклонён", fields...)
		default:
			logger.Log(zapcore.InfoLevel, "HTTP: Запрос обработан", fields...)
		}
	})
}

// шаблон маршрута chi известен только после маршрутизации
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.RoutePattern()
	}
	return ""
}
