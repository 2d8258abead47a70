package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Поддерживаемые значения переключателей
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	LockLocal = "local"
	LockRedis = "redis"
)

const envPrefix = "PETBOOKING_"

var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server      ServerConfig   `toml:"server"`
	Database    DatabaseConfig `toml:"database"`
	Logs        LogsConfig     `toml:"logs"`
	Metrics     MetricsConfig  `toml:"metrics"`
	UserService ClientConfig   `toml:"user_service"`
	PetService  ClientConfig   `toml:"pet_service"`
	Locking     LockingConfig  `toml:"locking"`
	HTTP        HTTPConfig     `toml:"http"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки хранилища
type DatabaseConfig struct {
	Driver          string `toml:"driver"`
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
	TxMaxAttempts   int    `toml:"tx_max_attempts"`
}

// DSN формирует строку подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// ClientConfig настройки HTTP клиента внешнего сервиса (таймаут в секундах)
type ClientConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// LockingConfig настройки блокировок офферов и бронирований
type LockingConfig struct {
	Backend       string `toml:"backend"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	TTLSeconds    int    `toml:"ttl_seconds"`
}

// TTL время жизни распределенной блокировки
func (l LockingConfig) TTL() time.Duration {
	return time.Duration(l.TTLSeconds) * time.Second
}

// HTTPConfig настройки CORS и ограничения частоты запросов
type HTTPConfig struct {
	CORSOrigins    []string `toml:"cors_origins"`
	RateLimitRPS   float64  `toml:"rate_limit_rps"`
	RateLimitBurst int      `toml:"rate_limit_burst"`
}

// Load читает конфигурацию из TOML файла.
// Перед разбором подгружается .env (если есть), переменные PETBOOKING_* перекрывают значения из файла.
func Load(path string) (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15
	}

	if c.Database.Driver == "" {
		c.Database.Driver = DriverPostgres
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}
	if c.Database.TxMaxAttempts == 0 {
		c.Database.TxMaxAttempts = 3
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "pet_booking_service"
	}

	if c.UserService.Timeout == 0 {
		c.UserService.Timeout = 5
	}
	if c.PetService.Timeout == 0 {
		c.PetService.Timeout = 5
	}

	if c.Locking.Backend == "" {
		c.Locking.Backend = LockLocal
	}
	if c.Locking.TTLSeconds == 0 {
		c.Locking.TTLSeconds = 10
	}
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port %d out of range", ErrInvalidConfig, c.Server.HTTPPort)
	}

	switch c.Database.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			return fmt.Errorf("%w: database.host and database.dbname are required for postgres", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown database.driver %q", ErrInvalidConfig, c.Database.Driver)
	}

	if c.UserService.URL == "" || c.PetService.URL == "" {
		return fmt.Errorf("%w: user_service.url and pet_service.url are required", ErrInvalidConfig)
	}

	switch c.Locking.Backend {
	case LockLocal:
	case LockRedis:
		if c.Locking.RedisAddr == "" {
			return fmt.Errorf("%w: locking.redis_addr is required for redis backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown locking.backend %q", ErrInvalidConfig, c.Locking.Backend)
	}

	if c.HTTP.RateLimitRPS < 0 || c.HTTP.RateLimitBurst < 0 {
		return fmt.Errorf("%w: rate limit values must not be negative", ErrInvalidConfig)
	}
	if c.HTTP.RateLimitRPS > 0 && c.HTTP.RateLimitBurst == 0 {
		return fmt.Errorf("%w: http.rate_limit_burst is required when rate limiting is enabled", ErrInvalidConfig)
	}
	return nil
}

// applyEnv перекрывает адреса и секреты значениями из окружения
func applyEnv(c *Config) error {
	strVars := map[string]*string{
		"DB_DRIVER":        &c.Database.Driver,
		"DB_HOST":          &c.Database.Host,
		"DB_USER":          &c.Database.User,
		"DB_PASSWORD":      &c.Database.Password,
		"DB_NAME":          &c.Database.DBName,
		"DB_SSLMODE":       &c.Database.SSLMode,
		"LOG_LEVEL":        &c.Logs.Level,
		"USER_SERVICE_URL": &c.UserService.URL,
		"PET_SERVICE_URL":  &c.PetService.URL,
		"LOCK_BACKEND":     &c.Locking.Backend,
		"REDIS_ADDR":       &c.Locking.RedisAddr,
		"REDIS_PASSWORD":   &c.Locking.RedisPassword,
	}
	for name, dst := range strVars {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			*dst = strings.TrimSpace(v)
		}
	}

	intVars := map[string]*int{
		"HTTP_PORT": &c.Server.HTTPPort,
		"DB_PORT":   &c.Database.Port,
		"REDIS_DB":  &c.Locking.RedisDB,
	}
	for name, dst := range intVars {
		v, ok := os.LookupEnv(envPrefix + name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s%s must be an integer: %v", ErrInvalidConfig, envPrefix, name, err)
		}
		*dst = n
	}

	if v, ok := os.LookupEnv(envPrefix + "CORS_ORIGINS"); ok {
		c.HTTP.CORSOrigins = splitList(v)
	}
	return nil
}

func splitList(s string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
