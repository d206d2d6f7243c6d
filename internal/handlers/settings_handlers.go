package handlers

import (
	"net/http"

	"taskManager/internal/handlers/dto"
	"taskManager/internal/logger"
)

type SettingsHandler struct {
	SettingsService SettingsService
}

func NewSettingsHandler(settingsService SettingsService) *SettingsHandler {
	return &SettingsHandler{SettingsService: settingsService}
}

func (s *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	st, err := s.SettingsService.Load(r.Context())
	if err != nil {
		writeError(w, r, err, "load_settings")
		return
	}
	responseWithJSON(w, http.StatusOK, toPayload("settings", st))
}

func (s *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.SettingsRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	st, err := s.SettingsService.Update(r.Context(), request.ToPatch())
	if err != nil {
		writeError(w, r, err, "update_settings")
		return
	}
	responseWithJSON(w, http.StatusOK, toPayload("settings", st))
}
