package config

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type ServerConfig struct {
	Port        int      `json:"port"`
	Bind        string   `json:"bind"`
	CORSOrigins []string `json:"cors_origins"`
}

type AuthConfig struct {
	JWTSecret string `json:"jwt_secret"`
	JWTExpire string `json:"jwt_expire"`
}

type DatabaseConfig struct {
	Driver      string `json:"driver"`
	SQLitePath  string `json:"sqlite_path"`
	PostgresDSN string `json:"postgres_dsn"`
}

type LogConfig struct {
	Level      string `json:"level"`
	Mode       string `json:"mode"`
	FilePath   string `json:"file_path"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
	Compress   bool   `json:"compress"`
}

// AssistConfig configures the AI assistant backend. An empty APIKey
// disables the assistant; queries then return the fixed apology message.
type AssistConfig struct {
	APIKey string `json:"api_key"`
	Model  string `json:"model"`
}

// NotifyConfig configures outbound notification channels for device
// status alerts. Channels with empty credentials are skipped.
type NotifyConfig struct {
	Enabled        bool   `json:"enabled"`
	TelegramToken  string `json:"telegram_token"`
	TelegramChatID string `json:"telegram_chat_id"`
	SlackToken     string `json:"slack_token"`
	SlackChannelID string `json:"slack_channel_id"`
	WebhookURL     string `json:"webhook_url"`
}

type Config struct {
	Server   ServerConfig   `json:"server"`
	Auth     AuthConfig     `json:"auth"`
	Database DatabaseConfig `json:"database"`
	Log      LogConfig      `json:"log"`
	Assist   AssistConfig   `json:"assist"`
	Notify   NotifyConfig   `json:"notify"`
}

func defaultDataDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "./data"
	}
	return filepath.Join(filepath.Dir(exe), "data")
}

func Default() Config {
	dataDir := defaultDataDir()
	return Config{
		Server: ServerConfig{
			Port:        18820,
			Bind:        "0.0.0.0",
			CORSOrigins: []string{},
		},
		Auth: AuthConfig{
			JWTSecret: "",
			JWTExpire: "24h",
		},
		Database: DatabaseConfig{
			Driver:     "sqlite",
			SQLitePath: filepath.Join(dataDir, "cammanager.db"),
		},
		Log: LogConfig{
			Level:      "info",
			Mode:       "production",
			FilePath:   filepath.Join(dataDir, "cammanager.log"),
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 30,
			Compress:   true,
		},
		Assist: AssistConfig{
			Model: "gemini-2.5-flash",
		},
		Notify: NotifyConfig{},
	}
}

func ConfigPath() string {
	if custom := strings.TrimSpace(os.Getenv("CAM_CONFIG")); custom != "" {
		return custom
	}
	return filepath.Join(defaultDataDir(), "cammanager.json")
}

func Load() (Config, error) {
	cfg := Default()

	// Layer 1: config file
	path := ConfigPath()
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, err
	}
	if err == nil && len(strings.TrimSpace(string(data))) > 0 {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Default(), err
		}
	}

	// Layer 2: environment variables override
	applyEnvOverrides(&cfg)

	// Layer 3: generate JWT secret if empty and persist it
	if cfg.Auth.JWTSecret == "" {
		secret, err := generateSecret(32)
		if err != nil {
			return cfg, err
		}
		cfg.Auth.JWTSecret = secret
		// Persist so the secret survives restarts
		_ = Save(cfg)
	}

	return cfg, nil
}

func Save(cfg Config) error {
	path := ConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}

func (c *Config) ListenAddr() string {
	return c.Server.Bind + ":" + strconv.Itoa(c.Server.Port)
}

func (c *Config) JWTExpireDuration() time.Duration {
	d, err := time.ParseDuration(c.Auth.JWTExpire)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

func (c *Config) IsDebug() bool {
	return strings.EqualFold(c.Log.Mode, "debug")
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CAM_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
	if v := os.Getenv("CAM_BIND"); v != "" {
		cfg.Server.Bind = v
	}
	if v := os.Getenv("CAM_DB_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("CAM_DB_SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("CAM_DB_DSN"); v != "" {
		cfg.Database.PostgresDSN = v
	}
	if v := os.Getenv("CAM_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("CAM_JWT_EXPIRE"); v != "" {
		cfg.Auth.JWTExpire = v
	}
	if v := os.Getenv("CAM_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("CAM_LOG_MODE"); v != "" {
		cfg.Log.Mode = v
	}
	if v := os.Getenv("CAM_LOG_FILE"); v != "" {
		cfg.Log.FilePath = v
	}
	if v := os.Getenv("CAM_ASSIST_API_KEY"); v != "" {
		cfg.Assist.APIKey = v
	}
	if v := os.Getenv("CAM_ASSIST_MODEL"); v != "" {
		cfg.Assist.Model = v
	}
	if v := os.Getenv("CAM_NOTIFY_ENABLED"); v != "" {
		cfg.Notify.Enabled = strings.EqualFold(v, "true")
	}
	if v := os.Getenv("CAM_NOTIFY_TELEGRAM_TOKEN"); v != "" {
		cfg.Notify.TelegramToken = v
	}
	if v := os.Getenv("CAM_NOTIFY_TELEGRAM_CHAT_ID"); v != "" {
		cfg.Notify.TelegramChatID = v
	}
	if v := os.Getenv("CAM_NOTIFY_SLACK_TOKEN"); v != "" {
		cfg.Notify.SlackToken = v
	}
	if v := os.Getenv("CAM_NOTIFY_SLACK_CHANNEL_ID"); v != "" {
		cfg.Notify.SlackChannelID = v
	}
	if v := os.Getenv("CAM_NOTIFY_WEBHOOK_URL"); v != "" {
		cfg.Notify.WebhookURL = v
	}
}

func generateSecret(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
