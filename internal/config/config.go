// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "TASKS"

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Storage StorageConfig `mapstructure:"storage"`
	Demo    DemoConfig    `mapstructure:"demo"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Stats   StatsConfig   `mapstructure:"stats"`
	Query   QueryConfig   `mapstructure:"query"`
	Worker  WorkerConfig  `mapstructure:"worker"`
	Photos  PhotosConfig  `mapstructure:"photos"`
}

type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	Host           string        `mapstructure:"host"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	RateLimitRPM   int           `mapstructure:"rate_limit_rpm"`
	CORSOrigins    []string      `mapstructure:"cors_origins"`
}

type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

type StorageConfig struct {
	Type string `mapstructure:"type"` // memory, file, postgres, redis или sqlite
	// каталог файлового хранилища
	Path           string        `mapstructure:"path"`
	URL            string        `mapstructure:"url"`
	MaxConnections int32         `mapstructure:"max_connections"`
	MinConnections int32         `mapstructure:"min_connections"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RedisAddr      string        `mapstructure:"redis_addr"`
	RedisPassword  string        `mapstructure:"redis_password"`
	RedisDB        int           `mapstructure:"redis_db"`
	RedisPrefix    string        `mapstructure:"redis_prefix"`
	SQLitePath     string        `mapstructure:"sqlite_path"`
	ConnectRetries uint64        `mapstructure:"connect_retries"`
	// искусственная задержка каждой операции хранилища
	Latency time.Duration `mapstructure:"latency"`
}

type DemoConfig struct {
	Enabled   bool `mapstructure:"enabled"`
	SeedTasks bool `mapstructure:"seed_tasks"`
}

type AuthConfig struct {
	JWTSecret  string        `mapstructure:"jwt_secret"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
	BcryptCost int           `mapstructure:"bcrypt_cost"`
}

type StatsConfig struct {
	WeekStart string `mapstructure:"week_start"`
}

type QueryConfig struct {
	CollationLanguage string `mapstructure:"collation_language"`
}

type WorkerConfig struct {
	ReminderInterval time.Duration `mapstructure:"reminder_interval"`
}

type PhotosConfig struct {
	Dir string `mapstructure:"dir"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.request_timeout", 30*time.Second)
	v.SetDefault("server.rate_limit_rpm", 100)
	v.SetDefault("server.cors_origins", []string{"http://localhost:8100"})

	v.SetDefault("logging.development", true)

	v.SetDefault("storage.type", "memory")
	v.SetDefault("storage.path", "data")
	v.SetDefault("storage.url", "")
	v.SetDefault("storage.max_connections", 10)
	v.SetDefault("storage.min_connections", 2)
	v.SetDefault("storage.idle_timeout", 5*time.Minute)
	v.SetDefault("storage.redis_addr", "localhost:6379")
	v.SetDefault("storage.redis_password", "")
	v.SetDefault("storage.redis_db", 0)
	v.SetDefault("storage.redis_prefix", "task-manager:")
	v.SetDefault("storage.sqlite_path", "task-manager.db")
	v.SetDefault("storage.connect_retries", 5)
	v.SetDefault("storage.latency", time.Duration(0))

	v.SetDefault("demo.enabled", true)
	v.SetDefault("demo.seed_tasks", true)

	v.SetDefault("auth.jwt_secret", "task-manager-dev-secret")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("auth.bcrypt_cost", 10)

	v.SetDefault("stats.week_start", "Sunday")
	v.SetDefault("query.collation_language", "en")
	v.SetDefault("worker.reminder_interval", 5*time.Minute)
	v.SetDefault("photos.dir", "photos")
}

// Load читает config.yml из каталога path (или текущего, если path пуст).
// Отсутствие файла не ошибка: берутся значения по умолчанию и переменные
// окружения вида TASKS_SERVER_PORT.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if path == "" {
		path = "."
	}
	v.AddConfigPath(path)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("ошибка парсинга config.yml: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка разбора конфигурации: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Type {
	case "memory", "file", "redis", "sqlite":
	case "postgres":
		if c.Storage.URL == "" {
			return errors.New("для storage.type=postgres нужен storage.url")
		}
	default:
		return fmt.Errorf("неизвестный тип хранилища %q", c.Storage.Type)
	}
	if c.Server.RateLimitRPM <= 0 {
		return fmt.Errorf("server.rate_limit_rpm должен быть больше нуля, получено %d", c.Server.RateLimitRPM)
	}
	if c.Worker.ReminderInterval <= 0 {
		return fmt.Errorf("worker.reminder_interval должен быть больше нуля, получено %s", c.Worker.ReminderInterval)
	}
	return nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
