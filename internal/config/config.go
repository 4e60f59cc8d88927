package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Режимы запуска приложения
const (
	ModeCLI    = "cli"
	ModeServer = "server"
)

// Config содержит конфигурацию приложения
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	External ExternalConfig
	Journal  JournalConfig
	Worker   WorkerConfig
	Logging  LoggingConfig
	App      AppConfig
}

// ServerConfig содержит настройки HTTP API
type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig содержит настройки базы данных журнала конвертаций
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// ExternalConfig содержит настройки провайдера курсов
type ExternalConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// JournalConfig содержит настройки журнала конвертаций
type JournalConfig struct {
	Enabled   bool
	Retention time.Duration
}

// WorkerConfig содержит настройки фонового воркера очистки журнала
type WorkerConfig struct {
	Interval time.Duration
}

// LoggingConfig содержит настройки логирования
type LoggingConfig struct {
	Level  string
	Format string
}

// AppConfig содержит общие настройки приложения
type AppConfig struct {
	Mode            string
	ShutdownTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения
// Сначала пытается загрузить .env файл, затем использует системные env vars
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env file: %v", err)
	}

	mode := strings.ToLower(getEnv("APP_MODE", ModeCLI))

	// В интерактивном режиме stdout занят меню, поэтому по умолчанию пишем только предупреждения
	defaultLevel := "info"
	if mode == ModeCLI {
		defaultLevel = "warn"
	}

	return &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "localhost"),
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:  getDurationEnv("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "currency_converter"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		External: ExternalConfig{
			APIKey:  getEnv("EXCHANGE_API_KEY", ""),
			BaseURL: strings.TrimRight(getEnv("EXCHANGE_API_URL", "https://v6.exchangerate-api.com/v6"), "/"),
			Timeout: getDurationEnv("EXCHANGE_API_TIMEOUT", 10*time.Second),
		},
		Journal: JournalConfig{
			Enabled:   getBoolEnv("JOURNAL_ENABLED", false),
			Retention: getDurationEnv("JOURNAL_RETENTION", 30*24*time.Hour),
		},
		Worker: WorkerConfig{
			Interval: getDurationEnv("WORKER_INTERVAL", time.Hour),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", defaultLevel),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		App: AppConfig{
			Mode:            mode,
			ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 30*time.Second),
		},
	}
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv получает значение переменной окружения как duration или возвращает значение по умолчанию
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
