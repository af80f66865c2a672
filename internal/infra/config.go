package infra

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config — корневая структура конфигурации meeting room и bridge.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Bridge  BridgeConfig  `mapstructure:"bridge"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Events  EventsConfig  `mapstructure:"events"`
	Logger  LoggerConfig  `mapstructure:"logger"`
}

// ServerConfig описывает настройки HTTP-сервера.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr собирает адрес для http.Server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// MetricsConfig — отдельный listener для Prometheus.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"` // пусто — метрики не экспортируются
}

// BridgeConfig содержит настройки прокси к удаленному meeting-серверу.
type BridgeConfig struct {
	UpstreamURL string        `mapstructure:"upstream_url"`
	Timeout     time.Duration `mapstructure:"timeout"`

	// Circuit Breaker для upstream
	CBMaxRequests         uint32        `mapstructure:"cb_max_requests"`
	CBInterval            time.Duration `mapstructure:"cb_interval"`
	CBTimeout             time.Duration `mapstructure:"cb_timeout"`
	CBConsecutiveFailures uint32        `mapstructure:"cb_consecutive_failures"`

	// Rate limiter исходящих запросов
	RateLimit float64 `mapstructure:"rate_limit"`
	RateBurst int     `mapstructure:"rate_burst"`

	// Проверка upstream при старте (не влияет на проксирование)
	ProbeAttempts uint `mapstructure:"probe_attempts"`
}

// RedisConfig описывает подключение к Redis (Pub/Sub для событий флота).
type RedisConfig struct {
	Addr     string `mapstructure:"addr"` // пусто — события не публикуются
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// EventsConfig настраивает асинхронный диспетчер событий.
type EventsConfig struct {
	BufferSize    int           `mapstructure:"buffer_size"`
	BatchSize     int           `mapstructure:"batch_size"`
	FlushInterval time.Duration `mapstructure:"flush_interval"`
}

// LoggerConfig настраивает поведение zap логгера.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
}

// LoadConfig инициализирует конфигурацию, объединяя значения из файла и ENV.
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	// SERVER_PORT=9000 перекроет server.port
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Исторически адрес upstream задается через DEVIKA_MEETING_URL
	if err := v.BindEnv("bridge.upstream_url", "BRIDGE_UPSTREAM_URL", "DEVIKA_MEETING_URL"); err != nil {
		return nil, fmt.Errorf("bind bridge env: %w", err)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Если файла нет — работаем на ENV и дефолтах
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	cfg.Bridge.UpstreamURL = strings.TrimSuffix(cfg.Bridge.UpstreamURL, "/")

	return &cfg, nil
}

// setDefaults регистрирует все ключи: без дефолта AutomaticEnv не попадет в Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.read_timeout", 5*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("metrics.addr", ":9090")

	v.SetDefault("bridge.upstream_url", "http://localhost:1337")
	v.SetDefault("bridge.timeout", 10*time.Second)
	v.SetDefault("bridge.cb_max_requests", 3)
	v.SetDefault("bridge.cb_interval", 5*time.Second)
	v.SetDefault("bridge.cb_timeout", 30*time.Second)
	v.SetDefault("bridge.cb_consecutive_failures", 5)
	v.SetDefault("bridge.rate_limit", 100)
	v.SetDefault("bridge.rate_burst", 20)
	v.SetDefault("bridge.probe_attempts", 3)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("events.buffer_size", 1000)
	v.SetDefault("events.batch_size", 100)
	v.SetDefault("events.flush_interval", 500*time.Millisecond)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
}
