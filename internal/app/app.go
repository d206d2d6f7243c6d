package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"taskManager/internal/auth"
	"taskManager/internal/config"
	"taskManager/internal/handlers"
	"taskManager/internal/logger"
	"taskManager/internal/middleware"
	"taskManager/internal/photo"
	"taskManager/internal/repository/task/kvstore"
	"taskManager/internal/seed"
	"taskManager/internal/service"
	"taskManager/internal/settings"
	"taskManager/internal/stats"
	"taskManager/internal/storage"
	"taskManager/internal/worker"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/afero"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config     *config.Config
	server     *http.Server
	router     *chi.Mux
	store      storage.Store
	repository *kvstore.TaskStorage
	auth       *auth.Service
	service    *service.TaskService
	settings   *settings.Store
	worker     *worker.ReminderWorker
	shutdowns  []func() // функции для graceful shutdown
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

// Init поднимает хранилище, сервисы и роутер. При ошибке уже открытые
// ресурсы закрываются.
func (a *App) Init(ctx context.Context) (*App, error) {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return nil, fmt.Errorf("инициализация логгера: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	if err := a.init(ctx); err != nil {
		a.Shutdown()
		return nil, err
	}
	return a, nil
}

func (a *App) init(ctx context.Context) error {
	weekStart, err := stats.ParseWeekday(a.config.Stats.WeekStart)
	if err != nil {
		return fmt.Errorf("stats.week_start: %w", err)
	}
	collation, err := language.Parse(a.config.Query.CollationLanguage)
	if err != nil {
		return fmt.Errorf("query.collation_language: %w", err)
	}

	store, err := OpenStore(ctx, a.config.Storage)
	if err != nil {
		return err
	}
	a.store = store
	a.shutdowns = append(a.shutdowns, func() {
		if err := store.Close(); err != nil {
			logger.Error("Ошибка закрытия хранилища", err)
		}
	})

	a.auth = auth.New(store, auth.Config{
		Secret:     a.config.Auth.JWTSecret,
		TokenTTL:   a.config.Auth.TokenTTL,
		BcryptCost: a.config.Auth.BcryptCost,
		DemoMode:   a.config.Demo.Enabled,
	})
	a.repository = kvstore.NewTaskStorage(store)
	a.service = service.NewTaskService(a.repository, a.auth,
		service.WithWeekStart(weekStart),
		service.WithCollation(collation))
	a.settings = settings.New(store)

	if err := a.initDemo(ctx); err != nil {
		return err
	}

	gallery, err := photo.New(store, afero.NewOsFs(), a.config.Photos.Dir, "/photos")
	if err != nil {
		return err
	}

	interval := a.config.Worker.ReminderInterval
	a.worker = worker.NewReminderWorker(a.service, a.settings, &interval)

	a.router = a.newRouter(handlers.Handlers{
		Tasks:    handlers.NewTaskHandler(a.service, a.settings),
		Auth:     handlers.NewAuthHandler(a.auth),
		Settings: handlers.NewSettingsHandler(a.settings),
		Photos:   handlers.NewPhotoHandler(gallery),
	})

	a.server = &http.Server{
		Addr:              a.config.GetServerAddr(),
		Handler:           otelhttp.NewHandler(a.router, "task-manager"),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return nil
}

// initDemo входит под демо-пользователем и при пустом списке задач заполняет его примерами
func (a *App) initDemo(ctx context.Context) error {
	if !a.config.Demo.Enabled {
		return nil
	}
	user, err := a.auth.EnsureDemo(ctx)
	if err != nil {
		return fmt.Errorf("демо-пользователь: %w", err)
	}
	if !a.config.Demo.SeedTasks {
		return nil
	}

	tasks, err := seed.Default(user.ID)
	if err != nil {
		return fmt.Errorf("загрузка примеров задач: %w", err)
	}
	n, err := a.repository.Seed(ctx, tasks)
	if err != nil {
		return fmt.Errorf("заполнение примерами задач: %w", err)
	}
	if n > 0 {
		logger.Info("Примеры задач добавлены", zap.Int("count", n), zap.String("user_id", user.ID))
	}
	return nil
}

func (a *App) newRouter(h handlers.Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   a.config.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Remaining", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if a.config.Server.RequestTimeout > 0 {
		r.Use(chimw.Timeout(a.config.Server.RequestTimeout))
	}
	r.Use(middleware.RateLimit(a.config.Server.RateLimitRPM))
	r.Use(middleware.Authenticate(a.auth))

	h.Routes(r)
	return r
}

// Handler - корневой обработчик без трассировки, для тестов
func (a *App) Handler() http.Handler {
	return a.router
}

// Run обслуживает запросы и крутит воркер напоминаний до отмены ctx
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Сервер запущен", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http сервер: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		a.worker.Start(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Остановка сервера...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("остановка сервера: %w", err)
		}
		return nil
	})

	err := g.Wait()
	a.Shutdown()
	return err
}

// Shutdown выполняет shutdowns в обратном порядке
func (a *App) Shutdown() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	a.shutdowns = nil
}
