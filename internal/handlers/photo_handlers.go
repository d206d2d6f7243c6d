package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"taskManager/internal/logger"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxPhotoSize = 10 << 20

type PhotoHandler struct {
	PhotoService PhotoService
}

func NewPhotoHandler(photoService PhotoService) *PhotoHandler {
	return &PhotoHandler{PhotoService: photoService}
}

// AddPhoto - POST /photos, тело запроса - сам снимок (image/jpeg)
func (s *PhotoHandler) AddPhoto(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !checkContentType(r, "image/jpeg") && !checkContentType(r, "application/octet-stream") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("expected", "image/jpeg"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть image/jpeg")
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPhotoSize))
	defer r.Body.Close()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			responseWithError(w, http.StatusRequestEntityTooLarge,
				"снимок больше "+strconv.Itoa(maxPhotoSize>>20)+" МБ")
			return
		}
		responseWithError(w, http.StatusBadRequest, "не удалось прочитать снимок: "+err.Error())
		return
	}

	p, err := s.PhotoService.Add(r.Context(), data)
	if err != nil {
		writeError(w, r, err, "add_photo")
		return
	}

	logger.Info("HTTP_OUT: Снимок сохранён",
		zap.String("filepath", p.Filepath),
		zap.Int("bytes", len(data)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, toPayload("photo", p))
}

func (s *PhotoHandler) ListPhotos(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	photos, err := s.PhotoService.List(r.Context())
	if err != nil {
		writeError(w, r, err, "list_photos")
		return
	}
	responseWithJSON(w, http.StatusOK, toPayload("photos", photos))
}

// GetPhoto отдаёт содержимое снимка
func (s *PhotoHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	name, ok := photoName(w, r)
	if !ok {
		return
	}

	data, err := s.PhotoService.Read(r.Context(), name)
	if err != nil {
		writeError(w, r, err, "get_photo")
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *PhotoHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	name, ok := photoName(w, r)
	if !ok {
		return
	}

	if err := s.PhotoService.Delete(r.Context(), name); err != nil {
		writeError(w, r, err, "delete_photo")
		return
	}
	responseNoContent(w)
}

func photoName(w http.ResponseWriter, r *http.Request) (string, bool) {
	name := chi.URLParam(r, "name")
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		logger.Warn("HTTP: Неверное имя снимка",
			zap.String("name", name),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверное имя снимка")
		return "", false
	}
	return name, true
}
