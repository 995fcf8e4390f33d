package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultChannelID = "@Scammerawarealert"

var ErrMissingBotToken = errors.New("API_TOKEN environment variable not set")

type Config struct {
	Env        string           `yaml:"env"`
	HTTP       HTTPConfig       `yaml:"http"`
	Log        LogConfig        `yaml:"log"`
	Bot        BotConfig        `yaml:"bot"`
	Moderation ModerationConfig `yaml:"moderation"`
	Broadcast  BroadcastConfig  `yaml:"broadcast"`
	Registry   RegistryConfig   `yaml:"registry"`
	Postgres   PostgresConfig   `yaml:"postgres"`
	Redis      RedisConfig      `yaml:"redis"`
	S3         S3Config         `yaml:"s3"`
	NATS       NATSConfig       `yaml:"nats"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type BotConfig struct {
	Token              string `yaml:"token"`
	PollTimeoutSeconds int    `yaml:"poll_timeout_seconds"`
	Workers            int    `yaml:"workers"`
	QueueSize          int    `yaml:"queue_size"`
}

type ModerationConfig struct {
	ModeratorID int64  `yaml:"moderator_id"`
	ChannelID   string `yaml:"channel_id"`
	// EnforceModeratorDecisions limits approve/reject callbacks to ModeratorID.
	EnforceModeratorDecisions bool   `yaml:"enforce_moderator_decisions"`
	PendingBackend            string `yaml:"pending_backend"`
}

type BroadcastConfig struct {
	Workers int `yaml:"workers"`
}

type RegistryConfig struct {
	Backend      string `yaml:"backend"`
	FilePath     string `yaml:"file_path"`
	RedisKey     string `yaml:"redis_key"`
	DocumentName string `yaml:"document_name"`
	ObjectKey    string `yaml:"object_key"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type NATSConfig struct {
	URL  string `yaml:"url"`
	Name string `yaml:"name"`
}

func Default() Config {
	return Config{
		Env: "dev",
		HTTP: HTTPConfig{
			Addr:            ":10000",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{Level: "info"},
		Bot: BotConfig{
			PollTimeoutSeconds: 30,
			Workers:            8,
			QueueSize:          64,
		},
		Moderation: ModerationConfig{
			ModeratorID:               0,
			ChannelID:                 DefaultChannelID,
			EnforceModeratorDecisions: true,
			PendingBackend:            "memory",
		},
		Broadcast: BroadcastConfig{Workers: 4},
		Registry: RegistryConfig{
			Backend:      "file",
			FilePath:     "users.json",
			RedisKey:     "reportbot:registry:users",
			DocumentName: "users",
			ObjectKey:    "registry/users.json",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		NATS: NATSConfig{
			Name: "scam-report-bot",
		},
	}
}

func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromYAML(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}

	normalize(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Bot.Token) == "" {
		return ErrMissingBotToken
	}

	switch c.Registry.Backend {
	case "file":
		if c.Registry.FilePath == "" {
			return fmt.Errorf("registry.file_path is required for file backend")
		}
	case "redis":
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis.addr is required for redis registry backend")
		}
	case "postgres":
		if c.Postgres.DSN == "" {
			return fmt.Errorf("postgres.dsn is required for postgres registry backend")
		}
	case "s3":
		if c.S3.Endpoint == "" || c.S3.Bucket == "" {
			return fmt.Errorf("s3.endpoint and s3.bucket are required for s3 registry backend")
		}
	default:
		return fmt.Errorf("unknown registry backend %q", c.Registry.Backend)
	}

	switch c.Moderation.PendingBackend {
	case "memory":
	case "redis":
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis.addr is required for redis pending backend")
		}
	default:
		return fmt.Errorf("unknown pending backend %q", c.Moderation.PendingBackend)
	}

	return nil
}

func (c Config) IsNATSEnabled() bool {
	return strings.TrimSpace(c.NATS.URL) != ""
}

func loadFromYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("unmarshal config yaml: %w", err)
	}

	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Env = v
	}

	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	// Hosting platforms hand out the port only.
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		if _, err := strconv.Atoi(v); err != nil {
			return fmt.Errorf("parse PORT int: %w", err)
		}
		cfg.HTTP.Addr = ":" + v
	}
	if err := overrideDuration("HTTP_SHUTDOWN_TIMEOUT", &cfg.HTTP.ShutdownTimeout); err != nil {
		return err
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	if v := firstEnv("API_TOKEN", "BOT_TOKEN"); v != "" {
		cfg.Bot.Token = v
	}
	if err := overrideInt("POLL_TIMEOUT_SECONDS", &cfg.Bot.PollTimeoutSeconds); err != nil {
		return err
	}
	if err := overrideInt("BOT_WORKERS", &cfg.Bot.Workers); err != nil {
		return err
	}

	if err := overrideInt64("ADMIN_USER_ID", &cfg.Moderation.ModeratorID); err != nil {
		return err
	}
	if v := os.Getenv("CHANNEL_ID"); v != "" {
		cfg.Moderation.ChannelID = v
	}
	if err := overrideBool("ENFORCE_MODERATOR_DECISIONS", &cfg.Moderation.EnforceModeratorDecisions); err != nil {
		return err
	}
	if v := os.Getenv("PENDING_BACKEND"); v != "" {
		cfg.Moderation.PendingBackend = v
	}

	if err := overrideInt("BROADCAST_WORKERS", &cfg.Broadcast.Workers); err != nil {
		return err
	}

	if v := os.Getenv("REGISTRY_BACKEND"); v != "" {
		cfg.Registry.Backend = v
	}
	if v := os.Getenv("USERS_FILE"); v != "" {
		cfg.Registry.FilePath = v
	}

	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}

	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if err := overrideInt("REDIS_DB", &cfg.Redis.DB); err != nil {
		return err
	}

	if v := os.Getenv("S3_ENDPOINT"); v != "" {
		cfg.S3.Endpoint = v
	}
	if v := os.Getenv("S3_ACCESS_KEY"); v != "" {
		cfg.S3.AccessKey = v
	}
	if v := os.Getenv("S3_SECRET_KEY"); v != "" {
		cfg.S3.SecretKey = v
	}
	if v := os.Getenv("S3_BUCKET"); v != "" {
		cfg.S3.Bucket = v
	}
	if err := overrideBool("S3_USE_SSL", &cfg.S3.UseSSL); err != nil {
		return err
	}

	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}

	return nil
}

func normalize(cfg *Config) {
	cfg.Bot.Token = strings.TrimSpace(cfg.Bot.Token)
	cfg.Moderation.ChannelID = strings.TrimSpace(cfg.Moderation.ChannelID)
	if cfg.Moderation.ChannelID == "" {
		cfg.Moderation.ChannelID = DefaultChannelID
	}
	cfg.Moderation.PendingBackend = strings.ToLower(strings.TrimSpace(cfg.Moderation.PendingBackend))
	cfg.Registry.Backend = strings.ToLower(strings.TrimSpace(cfg.Registry.Backend))

	if cfg.Bot.PollTimeoutSeconds <= 0 {
		cfg.Bot.PollTimeoutSeconds = 30
	}
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 1
	}
	if cfg.Bot.QueueSize <= 0 {
		cfg.Bot.QueueSize = 64
	}
	if cfg.Broadcast.Workers <= 0 {
		cfg.Broadcast.Workers = 1
	}
	if cfg.HTTP.ShutdownTimeout <= 0 {
		cfg.HTTP.ShutdownTimeout = 10 * time.Second
	}
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	return ""
}

func overrideDuration(key string, target *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("parse %s duration: %w", key, err)
	}
	*target = d
	return nil
}

func overrideInt(key string, target *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("parse %s int: %w", key, err)
	}
	*target = n
	return nil
}

func overrideInt64(key string, target *int64) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fmt.Errorf("parse %s int64: %w", key, err)
	}
	*target = n
	return nil
}

func overrideBool(key string, target *bool) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("parse %s bool: %w", key, err)
	}
	*target = b
	return nil
}
