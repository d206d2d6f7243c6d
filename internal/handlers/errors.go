package handlers

import (
	"errors"
	"net/http"

	"taskManager/internal/auth"
	"taskManager/internal/logger"
	"taskManager/internal/photo"
	"taskManager/internal/service"
	"taskManager/internal/settings"

	"go.uber.org/zap"
)

func handleBusinessError(w http.ResponseWriter, err error) bool {
	businessErr, ok := service.AsBusiness(err)
	if !ok {
		return false
	}
	statusCode := mapBusinessErrorToHTTP(businessErr.Code)

	logger.Warn("HTTP: Бизнес-ошибка",
		zap.String("error_code", businessErr.Code),
		zap.Int("http_status", statusCode))

	responseWithJSON(w, statusCode,
		toPayload("error", businessErr.Code),
		toPayload("message", businessErr.Message),
		toPayload("details", businessErr.Details),
	)
	return true
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeValidation:
		return http.StatusBadRequest
	case service.CodeUnauthenticated:
		return http.StatusUnauthorized
	case service.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// toBusinessError переводит ошибки auth, settings и photo в коды бизнес-ошибок
func toBusinessError(err error) (*service.BusinessError, bool) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return service.NewBusinessError(service.CodeUnauthenticated, err.Error()), true
	case errors.Is(err, auth.ErrEmailTaken):
		return service.NewBusinessError(service.CodeConflict, err.Error(),
			service.ToDetail("field", "email")), true
	case errors.Is(err, auth.ErrUserNotFound):
		return service.NewBusinessError(service.CodeNotFound, err.Error(),
			service.ToDetail("resource", "пользователь")), true
	case errors.Is(err, photo.ErrNotFound):
		return service.NewBusinessError(service.CodeNotFound, err.Error(),
			service.ToDetail("resource", "снимок")), true
	case errors.Is(err, auth.ErrInvalidEmail):
		return service.NewValidationError("email", err.Error()), true
	case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrPasswordTooLong):
		return service.NewValidationError("password", err.Error()), true
	case errors.Is(err, auth.ErrEmptyName):
		return service.NewValidationError("name", err.Error()), true
	case errors.Is(err, settings.ErrUnknownLanguage):
		return service.NewValidationError("language", err.Error()), true
	case errors.Is(err, settings.ErrUnknownView):
		return service.NewValidationError("defaultView", err.Error()), true
	case errors.Is(err, photo.ErrEmptyData):
		return service.NewValidationError("photo", err.Error()), true
	}
	return nil, false
}

// writeError отвечает клиенту по ошибке слоя сервисов: известные ошибки
// превращаются в 4xx, остальные в 500
func writeError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	if handleBusinessError(w, err) {
		return
	}
	if businessErr, ok := toBusinessError(err); ok {
		businessErr.Err = err
		handleBusinessError(w, businessErr)
		return
	}

	logger.Error("HTTP: Ошибка Service", err,
		zap.String("operation", operation),
		zap.String("client_ip", r.RemoteAddr))

	responseWithError(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
}
