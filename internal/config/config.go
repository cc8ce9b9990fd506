package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bmstu-itstech/botarena/internal/domain"
	"github.com/joho/godotenv"
)

// Config содержит всю конфигурацию приложения
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Tournament TournamentConfig `yaml:"tournament"`
	Redis      RedisConfig      `yaml:"redis"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	CORS       CORSConfig       `yaml:"cors"`
}

// ServerConfig - конфигурация HTTP сервера (websocket upgrade + health/metrics)
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// TournamentConfig is the §6 configuration table: every option the
// Tournament/Series Managers and Game Executors take at runtime.
type TournamentConfig struct {
	Games                     []domain.GameType `yaml:"games"`
	MoveTimeout               time.Duration     `yaml:"move_timeout"`
	ImportTimeout             time.Duration     `yaml:"import_timeout"`
	MaxParallelMatches        int               `yaml:"max_parallel_matches"`
	MaxRoundsRPSLS            int               `yaml:"max_rounds_rpsls"`
	MemoryLimitMB             int               `yaml:"memory_limit_mb"`
	GroupSize                 int               `yaml:"group_size"`
	AdvancePerGroup           int               `yaml:"advance_per_group"`
	KnockoutDrawReplays       int               `yaml:"knockout_draw_replays"`
	FastMatchThresholdSeconds int               `yaml:"fast_match_threshold_seconds"`
	ScheduledStartTime        *time.Time        `yaml:"scheduled_start_time"`
}

// RedisConfig backs the optional series-snapshot cache (internal/infrastructure/snapshot).
type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// Address возвращает адрес Redis
func (c RedisConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoggingConfig - конфигурация логирования
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Async  bool   `yaml:"async"`
}

// MetricsConfig - конфигурация метрик
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    int    `yaml:"port"`
	Path    string `yaml:"path"`
}

// CORSConfig - конфигурация CORS для websocket-апгрейда
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
	MaxAge         int      `yaml:"max_age"`
}

// Validate валидирует конфигурацию
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if len(c.Tournament.Games) == 0 {
		return fmt.Errorf("tournament games list must not be empty")
	}
	if c.Tournament.MoveTimeout <= 0 {
		return fmt.Errorf("tournament move_timeout must be positive")
	}
	if c.Tournament.MaxParallelMatches < 1 {
		return fmt.Errorf("tournament max_parallel_matches must be positive")
	}
	if c.Tournament.GroupSize < 2 {
		return fmt.Errorf("tournament group_size must be at least 2")
	}
	if c.Tournament.AdvancePerGroup < 1 {
		return fmt.Errorf("tournament advance_per_group must be positive")
	}
	if c.Tournament.KnockoutDrawReplays < 0 {
		return fmt.Errorf("tournament knockout_draw_replays must not be negative")
	}

	if c.Redis.Host == "" {
		return fmt.Errorf("redis host is required")
	}
	if c.Redis.Port < 1 || c.Redis.Port > 65535 {
		return fmt.Errorf("invalid redis port: %d", c.Redis.Port)
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	validLevel := false
	for _, level := range validLevels {
		if c.Logging.Level == level {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid logging level: %s", c.Logging.Level)
	}

	return nil
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvInt("API_PORT", 8080),
			ReadTimeout:     getEnvDuration("READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvDuration("WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Tournament: TournamentConfig{
			Games:                     getEnvGameTypes("TOURNAMENT_GAMES", defaultGames),
			MoveTimeout:               getEnvDuration("MOVE_TIMEOUT", 2*time.Second),
			ImportTimeout:             getEnvDuration("IMPORT_TIMEOUT", 10*time.Second),
			MaxParallelMatches:        getEnvInt("MAX_PARALLEL_MATCHES", 1),
			MaxRoundsRPSLS:            getEnvInt("MAX_ROUNDS_RPSLS", 50),
			MemoryLimitMB:             getEnvInt("MEMORY_LIMIT_MB", 512),
			GroupSize:                 getEnvInt("GROUP_SIZE", 4),
			AdvancePerGroup:           getEnvInt("ADVANCE_PER_GROUP", 2),
			KnockoutDrawReplays:       getEnvInt("KNOCKOUT_DRAW_REPLAYS", 1),
			FastMatchThresholdSeconds: getEnvInt("FAST_MATCH_THRESHOLD_SECONDS", 5),
			ScheduledStartTime:        getEnvTimePtr("SCHEDULED_START_TIME"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnvOrFile("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			PoolSize: getEnvInt("REDIS_POOL_SIZE", 100),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
			Async:  getEnvBool("LOG_ASYNC", true),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
			Port:    getEnvInt("METRICS_PORT", 9090),
			Path:    getEnv("METRICS_PATH", "/metrics"),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
			MaxAge:         getEnvInt("CORS_MAX_AGE", 3600),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

var defaultGames = []domain.GameType{
	domain.RPSLS, domain.ColonelBlotto, domain.PenaltyKicks, domain.SecurityGame,
}

// Вспомогательные функции для чтения переменных окружения

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvGameTypes parses a comma-separated ordered list of event steps,
// e.g. "RPSLS,ColonelBlotto".
func getEnvGameTypes(key string, defaultValue []domain.GameType) []domain.GameType {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	games := make([]domain.GameType, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			games = append(games, domain.GameType(p))
		}
	}
	if len(games) == 0 {
		return defaultValue
	}
	return games
}

// getEnvTimePtr parses an RFC3339 series dispatch gate; nil means "start
// immediately", matching the spec's scheduledStartTime default of null.
func getEnvTimePtr(key string) *time.Time {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil
	}
	return &t
}

// getEnvOrFile читает значение из переменной окружения или из файла
// Сначала проверяет KEY, затем KEY_FILE. Поддержка Docker secrets.
func getEnvOrFile(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	fileKey := key + "_FILE"
	if filePath := os.Getenv(fileKey); filePath != "" {
		content, err := os.ReadFile(filePath)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	return defaultValue
}
