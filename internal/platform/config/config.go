package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	apperrors "davomat/internal/platform/errors"
	"davomat/internal/platform/id"
)

const DefaultFile = "davomat.yaml"

type Config struct {
	BotToken     string   `yaml:"bot_token"`
	AdminID      string   `yaml:"admin_id"`
	GroupID      string   `yaml:"group_id"`
	AdminGroupID string   `yaml:"admin_group_id"`
	AdminSticker []string `yaml:"admin_stickers"`

	DataDir  string `yaml:"data_dir"`
	Timezone string `yaml:"timezone"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	WebhookURL string `yaml:"webhook_url"`
	HTTPAddr   string `yaml:"http_addr"`

	RateLimitPerMinute int           `yaml:"rate_limit_per_minute"`
	SendTimeout        time.Duration `yaml:"send_timeout"`
	DailyReportCron    string        `yaml:"daily_report_cron"`
}

func Defaults() Config {
	return Config{
		DataDir:            "data",
		Timezone:           "Asia/Samarkand",
		LogLevel:           "info",
		LogFormat:          "text",
		HTTPAddr:           ":8080",
		RateLimitPerMinute: 20,
		SendTimeout:        10 * time.Second,
		DailyReportCron:    "59 23 * * *",
	}
}

// Load layers defaults, an optional YAML file, an optional .env file and the
// process environment, in that order of increasing precedence.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnv(&cfg)
	cfg.normalize()
	if cfg.DataDir == "" {
		return Config{}, fmt.Errorf("data dir is required: %w", apperrors.ErrInvalidInput)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.BotToken = getEnv("BOT_TOKEN", cfg.BotToken)
	cfg.AdminID = getEnv("ADMIN_ID", cfg.AdminID)
	cfg.GroupID = getEnv("GROUP_ID", cfg.GroupID)
	cfg.AdminGroupID = getEnv("ADMIN_GROUP_ID", cfg.AdminGroupID)
	cfg.DataDir = getEnv("DATA_DIR", cfg.DataDir)
	cfg.Timezone = getEnv("TIMEZONE", cfg.Timezone)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)
	cfg.WebhookURL = getEnv("WEBHOOK_URL", cfg.WebhookURL)
	cfg.HTTPAddr = getEnv("HTTP_ADDR", cfg.HTTPAddr)
	cfg.DailyReportCron = getEnv("DAILY_REPORT_CRON", cfg.DailyReportCron)
	cfg.RateLimitPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", cfg.RateLimitPerMinute)
	if ms := getEnvInt("SEND_TIMEOUT_MS", 0); ms > 0 {
		cfg.SendTimeout = time.Duration(ms) * time.Millisecond
	}
	if stickers := os.Getenv("ADMIN_STICKERS"); stickers != "" {
		cfg.AdminSticker = strings.Split(stickers, ",")
	}
}

func (c *Config) normalize() {
	c.AdminID = id.Normalize(c.AdminID)
	c.GroupID = id.Normalize(c.GroupID)
	c.AdminGroupID = id.Normalize(c.AdminGroupID)
	for i := range c.AdminSticker {
		c.AdminSticker[i] = strings.TrimSpace(c.AdminSticker[i])
	}
	if c.RateLimitPerMinute <= 0 {
		c.RateLimitPerMinute = Defaults().RateLimitPerMinute
	}
	if c.SendTimeout <= 0 {
		c.SendTimeout = Defaults().SendTimeout
	}
}

// GroupTarget is the chat that receives group notifications.
func (c Config) GroupTarget() string {
	if c.AdminGroupID != "" {
		return c.AdminGroupID
	}
	return c.GroupID
}

func (c Config) IndexPath() string {
	return filepath.Join(c.DataDir, ".davomat", "davomat.db")
}

// RequireToken is checked by long-running commands only; report commands run
// against the data directory without chat credentials.
func (c Config) RequireToken() error {
	if strings.TrimSpace(c.BotToken) == "" {
		return fmt.Errorf("BOT_TOKEN: %w", apperrors.ErrMissingCredential)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
