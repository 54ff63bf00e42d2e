package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// ErrInvalidConfig возвращается, когда конфигурация содержит недопустимые значения
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config корневая конфигурация сервиса
type Config struct {
	Logs           LogsConfig           `toml:"logs"`
	Metrics        MetricsConfig        `toml:"metrics"`
	Database       DatabaseConfig       `toml:"database"`
	Redis          RedisConfig          `toml:"redis"`
	Server         ServerConfig         `toml:"server"`
	StaffDirectory StaffDirectoryConfig `toml:"staff_directory"`
	Notifications  NotificationsConfig  `toml:"notifications"`
	Salon          SalonConfig          `toml:"salon"`
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
	AutoMigrate     bool   `toml:"auto_migrate"`
	TxMaxRetries    int    `toml:"tx_max_retries"`
}

// DSN собирает строку подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	CacheTTL int    `toml:"cache_ttl"` // секунды
}

// TTL время жизни записей кэша каталога
func (r RedisConfig) TTL() time.Duration {
	return time.Duration(r.CacheTTL) * time.Second
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type StaffDirectoryConfig struct {
	URL     string        `toml:"url"`
	Timeout int           `toml:"timeout"` // секунды
	Breaker BreakerConfig `toml:"breaker"`
}

// BreakerConfig параметры circuit breaker для внешних вызовов
type BreakerConfig struct {
	FailureThreshold uint32 `toml:"failure_threshold"`
	OpenTimeout      int    `toml:"open_timeout"` // секунды
	HalfOpenRequests uint32 `toml:"half_open_requests"`
}

type NotificationsConfig struct {
	Email   EmailConfig   `toml:"email"`
	Events  EventsConfig  `toml:"events"`
	Breaker BreakerConfig `toml:"breaker"`
}

type EmailConfig struct {
	Enabled   bool   `toml:"enabled"`
	APIKey    string `toml:"api_key"`
	FromEmail string `toml:"from_email"`
	FromName  string `toml:"from_name"`
}

type EventsConfig struct {
	Enabled  bool   `toml:"enabled"`
	URL      string `toml:"url"`
	Exchange string `toml:"exchange"`
}

type SalonConfig struct {
	Timezone                string `toml:"timezone"`
	AvailabilityConcurrency int    `toml:"availability_concurrency"`
}

// Location возвращает часовой пояс салона
func (s SalonConfig) Location() (*time.Location, error) {
	return time.LoadLocation(s.Timezone)
}

// Load читает TOML файл, накладывает переменные окружения (и .env, если он есть),
// заполняет значения по умолчанию и валидирует результат
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	// .env опционален: в контейнере переменные приходят из окружения
	_ = godotenv.Load()
	applyEnv(cfg)
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv переопределяет секреты и адреса из окружения
func applyEnv(cfg *Config) {
	setString(&cfg.Database.Host, "DB_HOST")
	setInt(&cfg.Database.Port, "DB_PORT")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.DBName, "DB_NAME")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setString(&cfg.StaffDirectory.URL, "STAFF_DIRECTORY_URL")
	setString(&cfg.Notifications.Email.APIKey, "SENDGRID_API_KEY")
	setString(&cfg.Notifications.Events.URL, "AMQP_URL")
	setString(&cfg.Logs.Level, "LOG_LEVEL")
}

func applyDefaults(cfg *Config) {
	if cfg.Logs.Level == "" {
		cfg.Logs.Level = "info"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Metrics.ServiceName == "" {
		cfg.Metrics.ServiceName = "smc_salon_service"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 300
	}
	if cfg.Database.TxMaxRetries == 0 {
		cfg.Database.TxMaxRetries = 3
	}
	if cfg.Redis.CacheTTL == 0 {
		cfg.Redis.CacheTTL = 600
	}
	if cfg.Server.HTTPPort == 0 {
		cfg.Server.HTTPPort = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 10
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 15
	}
	if cfg.StaffDirectory.Timeout == 0 {
		cfg.StaffDirectory.Timeout = 5
	}
	defaultBreaker(&cfg.StaffDirectory.Breaker)
	defaultBreaker(&cfg.Notifications.Breaker)
	if cfg.Notifications.Events.Exchange == "" {
		cfg.Notifications.Events.Exchange = "salon.appointments"
	}
	if cfg.Salon.Timezone == "" {
		cfg.Salon.Timezone = "Asia/Manila"
	}
	if cfg.Salon.AvailabilityConcurrency == 0 {
		cfg.Salon.AvailabilityConcurrency = 8
	}
}

func defaultBreaker(b *BreakerConfig) {
	if b.FailureThreshold == 0 {
		b.FailureThreshold = 5
	}
	if b.OpenTimeout == 0 {
		b.OpenTimeout = 30
	}
	if b.HalfOpenRequests == 0 {
		b.HalfOpenRequests = 1
	}
}

// Validate проверяет значения, которые нельзя исправить дефолтами
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("%w: database.host is required", ErrInvalidConfig)
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("%w: database.dbname is required", ErrInvalidConfig)
	}
	if c.Server.HTTPPort < 1 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port out of range", ErrInvalidConfig)
	}
	if c.StaffDirectory.URL == "" {
		return fmt.Errorf("%w: staff_directory.url is required", ErrInvalidConfig)
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("%w: redis.addr is required when redis is enabled", ErrInvalidConfig)
	}
	if c.Notifications.Email.Enabled && (c.Notifications.Email.APIKey == "" || c.Notifications.Email.FromEmail == "") {
		return fmt.Errorf("%w: notifications.email requires api_key and from_email", ErrInvalidConfig)
	}
	if c.Notifications.Events.Enabled && c.Notifications.Events.URL == "" {
		return fmt.Errorf("%w: notifications.events.url is required", ErrInvalidConfig)
	}
	if _, err := c.Salon.Location(); err != nil {
		return fmt.Errorf("%w: salon.timezone: %v", ErrInvalidConfig, err)
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
