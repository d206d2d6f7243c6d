package handlers

import (
	"net/http"
	"time"

	"taskManager/internal/handlers/dto"
	"taskManager/internal/logger"
	"taskManager/internal/service"

	"go.uber.org/zap"
)

type AuthHandler struct {
	AuthService AuthService
}

func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{AuthService: authService}
}

// Register - POST /auth/register
func (s *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.RegisterRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	sess, err := s.AuthService.Register(r.Context(), request.Name, request.Email, request.Password)
	if err != nil {
		writeError(w, r, err, "register")
		return
	}

	logger.Info("HTTP_OUT: Пользователь зарегистрирован",
		zap.String("user_id", sess.User.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated,
		toPayload("user", sess.User),
		toPayload("token", sess.Token))
}

// Login - POST /auth/login
func (s *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.LoginRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	sess, err := s.AuthService.Login(r.Context(), request.Email, request.Password)
	if err != nil {
		writeError(w, r, err, "login")
		return
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("user", sess.User),
		toPayload("token", sess.Token))
}

// Logout - POST /auth/logout
func (s *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if err := s.AuthService.Logout(r.Context()); err != nil {
		writeError(w, r, err, "logout")
		return
	}
	responseNoContent(w)
}

// Me - GET /auth/me
func (s *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	userID, ok := s.AuthService.CurrentUserID(r.Context())
	if !ok {
		handleBusinessError(w, service.NewUnauthenticated())
		return
	}

	user, err := s.AuthService.User(r.Context(), userID)
	if err != nil {
		writeError(w, r, err, "current_user")
		return
	}
	responseWithJSON(w, http.StatusOK, toPayload("user", user))
}

// UpdateProfile - PATCH /auth/me
func (s *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	userID, ok := s.AuthService.CurrentUserID(r.Context())
	if !ok {
		handleBusinessError(w, service.NewUnauthenticated())
		return
	}

	var request dto.ProfileRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	user, err := s.AuthService.UpdateProfile(r.Context(), userID, request.ToPatch())
	if err != nil {
		writeError(w, r, err, "update_profile")
		return
	}

	logger.Info("HTTP_OUT: Профиль обновлён", zap.String("user_id", user.ID))
	responseWithJSON(w, http.StatusOK, toPayload("user", user))
}
