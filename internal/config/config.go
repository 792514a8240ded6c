// Package config конфигурация сервиса из TOML файла
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/MediTime-BookingService/internal/domain"
	"github.com/m04kA/MediTime-BookingService/pkg/types"
)

// EnvConfigPath переменная окружения с путем к конфигу
const EnvConfigPath = "CONFIG_PATH"

var (
	// ErrReadConfig ошибка чтения или разбора файла
	ErrReadConfig = errors.New("config: failed to read config")

	// ErrInvalidConfig конфиг не прошел валидацию
	ErrInvalidConfig = errors.New("config: invalid config")
)

type Config struct {
	Server     ServerConfig     `toml:"server"`
	Database   DatabaseConfig   `toml:"database"`
	Logs       LogsConfig       `toml:"logs"`
	Metrics    MetricsConfig    `toml:"metrics"`
	Auth       AuthConfig       `toml:"auth"`
	Slots      SlotsConfig      `toml:"slots"`
	ChangeFeed ChangeFeedConfig `toml:"changefeed"`
	RateLimit  RateLimitConfig  `toml:"ratelimit"`
	Realtime   RealtimeConfig   `toml:"realtime"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
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
}

// DSN строка подключения lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
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

type AuthConfig struct {
	JWTSecret  string `toml:"jwt_secret"`
	Issuer     string `toml:"issuer"`
	TokenTTL   int    `toml:"token_ttl"` // минуты
	BcryptCost int    `toml:"bcrypt_cost"`
}

// TokenTTLDuration время жизни токена
func (c AuthConfig) TokenTTLDuration() time.Duration {
	return time.Duration(c.TokenTTL) * time.Minute
}

type SlotsConfig struct {
	Timezone            string `toml:"timezone"`
	DefaultStart        string `toml:"default_start"` // HH:MM
	DefaultEnd          string `toml:"default_end"`   // HH:MM
	SlotDurationMinutes int    `toml:"slot_duration_minutes"`
	HonorOpeningHours   bool   `toml:"honor_opening_hours"`
	MaxAdvanceDays      int    `toml:"max_advance_days"`
}

// Settings настройки расчета слотов для use case
func (c SlotsConfig) Settings() (domain.SlotSettings, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return domain.SlotSettings{}, fmt.Errorf("%w: slots.timezone %q: %v", ErrInvalidConfig, c.Timezone, err)
	}

	start, err := types.NewTimeStringFromString(c.DefaultStart)
	if err != nil {
		return domain.SlotSettings{}, fmt.Errorf("%w: slots.default_start: %v", ErrInvalidConfig, err)
	}
	end, err := types.NewTimeStringFromString(c.DefaultEnd)
	if err != nil {
		return domain.SlotSettings{}, fmt.Errorf("%w: slots.default_end: %v", ErrInvalidConfig, err)
	}

	return domain.SlotSettings{
		Location: loc,
		Defaults: domain.OperatingWindow{
			Start:        start,
			End:          end,
			SlotDuration: time.Duration(c.SlotDurationMinutes) * time.Minute,
		},
		HonorOpeningHours: c.HonorOpeningHours,
		MaxAdvanceDays:    c.MaxAdvanceDays,
	}, nil
}

type ChangeFeedConfig struct {
	RedisEnabled  bool   `toml:"redis_enabled"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	Channel       string `toml:"channel"`
}

type RateLimitConfig struct {
	Enabled         bool `toml:"enabled"`
	SignInPerMinute int  `toml:"sign_in_per_minute"`
	Burst           int  `toml:"burst"`
	TrustProxy      bool `toml:"trust_proxy"`
	CleanupInterval int  `toml:"cleanup_interval"` // секунды
	IdleTimeout     int  `toml:"idle_timeout"`     // секунды
}

type RealtimeConfig struct {
	AllowedOrigins []string `toml:"allowed_origins"`
}

// Load читает конфиг. CONFIG_PATH, если задан, заменяет path
func Load(path string) (*Config, error) {
	if env := os.Getenv(EnvConfigPath); env != "" {
		path = env
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default значения, которые перекрываются файлом
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			File:  "logs/meditime.log",
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "meditime_booking",
		},
		Auth: AuthConfig{
			Issuer:   "meditime",
			TokenTTL: 60 * 24,
		},
		Slots: SlotsConfig{
			Timezone:            "Europe/Berlin",
			DefaultStart:        domain.DefaultWindowStart,
			DefaultEnd:          domain.DefaultWindowEnd,
			SlotDurationMinutes: domain.DefaultSlotDurationMinutes,
			MaxAdvanceDays:      90,
		},
		ChangeFeed: ChangeFeedConfig{
			RedisAddr: "localhost:6379",
			Channel:   "meditime:changefeed",
		},
		RateLimit: RateLimitConfig{
			Enabled:         true,
			SignInPerMinute: 10,
			Burst:           5,
			CleanupInterval: 60,
			IdleTimeout:     600,
		},
	}
}

// Validate проверяет обязательные поля и диапазоны
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port out of range", ErrInvalidConfig)
	}
	if c.Database.DBName == "" || c.Database.User == "" {
		return fmt.Errorf("%w: database.dbname and database.user are required", ErrInvalidConfig)
	}
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("%w: auth.jwt_secret must be at least 32 characters", ErrInvalidConfig)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("%w: auth.token_ttl must be positive", ErrInvalidConfig)
	}
	if c.Slots.SlotDurationMinutes <= 0 {
		return fmt.Errorf("%w: slots.slot_duration_minutes must be positive", ErrInvalidConfig)
	}
	if c.Slots.MaxAdvanceDays < 0 {
		return fmt.Errorf("%w: slots.max_advance_days must not be negative", ErrInvalidConfig)
	}

	settings, err := c.Slots.Settings()
	if err != nil {
		return err
	}
	if !settings.Defaults.Start.IsBefore(settings.Defaults.End) {
		return fmt.Errorf("%w: slots.default_start must be before slots.default_end", ErrInvalidConfig)
	}

	if c.ChangeFeed.RedisEnabled && (c.ChangeFeed.RedisAddr == "" || c.ChangeFeed.Channel == "") {
		return fmt.Errorf("%w: changefeed.redis_addr and changefeed.channel are required", ErrInvalidConfig)
	}
	if c.RateLimit.Enabled && (c.RateLimit.SignInPerMinute <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("%w: ratelimit values must be positive", ErrInvalidConfig)
	}
	return nil
}
