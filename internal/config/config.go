// Load envs from .env
// Load YAML config
// Override with env vars, fill defaults, validate

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

type Config struct {
	Server       ServerConfig      `yaml:"server"`
	Database     DatabaseConfig    `yaml:"database"`
	Auth         AuthConfig        `yaml:"auth"`
	AI           AIConfig          `yaml:"ai"`
	Storage      StorageConfig     `yaml:"storage"`
	Stripe       StripeConfig      `yaml:"stripe"`
	Adzuna       AdzunaConfig      `yaml:"adzuna"`
	Delivery     DeliveryConfig    `yaml:"delivery"`
	Inbox        InboxConfig       `yaml:"inbox"`
	Integrations IntegrationConfig `yaml:"integrations"`
	Telegram     TelegramConfig    `yaml:"telegram"`
	Log          LogConfig         `yaml:"log"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver          string        `yaml:"driver"` // postgres | mysql
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"`
	IdentitySecret string        `yaml:"identity_secret"`
	OwnerOpenID    string        `yaml:"owner_open_id"`
	TokenTTL       time.Duration `yaml:"token_ttl"`
}

type AIConfig struct {
	Provider string        `yaml:"provider"` // langchain | gemini
	APIKey   string        `yaml:"api_key"`
	Model    string        `yaml:"model"`
	Timeout  time.Duration `yaml:"timeout"`
}

type StorageConfig struct {
	Provider      string `yaml:"provider"` // cloudinary | local
	CloudName     string `yaml:"cloud_name"`
	APIKey        string `yaml:"api_key"`
	APISecret     string `yaml:"api_secret"`
	Folder        string `yaml:"folder"`
	LocalDir      string `yaml:"local_dir"`
	PublicBaseURL string `yaml:"public_base_url"`
}

type StripeConfig struct {
	SecretKey     string `yaml:"secret_key"`
	WebhookSecret string `yaml:"webhook_secret"`
	PriceBasico   string `yaml:"price_basico"`
	PricePleno    string `yaml:"price_pleno"`
	PriceAvancado string `yaml:"price_avancado"`
}

type AdzunaConfig struct {
	AppID         string  `yaml:"app_id"`
	AppKey        string  `yaml:"app_key"`
	Country       string  `yaml:"country"`
	BaseURL       string  `yaml:"base_url"`
	RatePerSecond float64 `yaml:"rate_per_second"`
	Burst         int     `yaml:"burst"`
}

type DeliveryConfig struct {
	Interval    time.Duration `yaml:"interval"`
	MaxAttempts int           `yaml:"max_attempts"`
	BaseBackoff time.Duration `yaml:"base_backoff"`
	BatchSize   int           `yaml:"batch_size"`
}

type InboxConfig struct {
	Enabled         bool          `yaml:"enabled"`
	Mailbox         string        `yaml:"mailbox"`
	CredentialsPath string        `yaml:"credentials_path"`
	TokenPath       string        `yaml:"token_path"`
	Interval        time.Duration `yaml:"interval"`
}

type IntegrationConfig struct {
	EncryptionKey string `yaml:"encryption_key"`
}

type TelegramConfig struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chat_id"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads .env, then the YAML file at path (missing file is not an error),
// then applies environment overrides and defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if p := os.Getenv("CONFIG_PATH"); p != "" {
		path = p
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// env only
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	str := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	str(&c.Server.Port, "PORT")
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}

	str(&c.Database.Driver, "DATABASE_DRIVER")
	str(&c.Database.DSN, "DATABASE_URL")

	str(&c.Auth.JWTSecret, "JWT_SECRET")
	str(&c.Auth.IdentitySecret, "IDENTITY_SECRET")
	str(&c.Auth.OwnerOpenID, "OWNER_OPEN_ID")

	str(&c.AI.Provider, "AI_PROVIDER")
	str(&c.AI.APIKey, "GEMINI_API_KEY")
	str(&c.AI.Model, "AI_MODEL")

	str(&c.Storage.Provider, "STORAGE_PROVIDER")
	str(&c.Storage.CloudName, "CLOUDINARY_CLOUD_NAME")
	str(&c.Storage.APIKey, "CLOUDINARY_API_KEY")
	str(&c.Storage.APISecret, "CLOUDINARY_API_SECRET")

	str(&c.Stripe.SecretKey, "STRIPE_SECRET_KEY")
	str(&c.Stripe.WebhookSecret, "STRIPE_WEBHOOK_SECRET")
	str(&c.Stripe.PriceBasico, "STRIPE_PRICE_BASICO")
	str(&c.Stripe.PricePleno, "STRIPE_PRICE_PLENO")
	str(&c.Stripe.PriceAvancado, "STRIPE_PRICE_AVANCADO")

	str(&c.Adzuna.AppID, "ADZUNA_APP_ID")
	str(&c.Adzuna.AppKey, "ADZUNA_APP_KEY")
	str(&c.Adzuna.Country, "ADZUNA_COUNTRY")

	str(&c.Inbox.CredentialsPath, "GMAIL_CREDENTIALS_PATH")
	str(&c.Inbox.TokenPath, "GMAIL_TOKEN_PATH")
	if v := os.Getenv("INBOX_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid INBOX_ENABLED: %w", err)
		}
		c.Inbox.Enabled = b
	}

	str(&c.Integrations.EncryptionKey, "INTEGRATION_ENCRYPTION_KEY")

	str(&c.Telegram.Token, "TELEGRAM_BOT_TOKEN")
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		c.Telegram.ChatID = id
	}

	str(&c.Log.Level, "LOG_LEVEL")
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"*"}
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 2 * time.Minute
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}

	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 10
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 5 * time.Minute
	}

	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = 72 * time.Hour
	}

	if c.AI.Provider == "" {
		c.AI.Provider = "langchain"
	}
	if c.AI.Model == "" {
		c.AI.Model = "gemini-2.5-flash"
	}
	if c.AI.Timeout == 0 {
		c.AI.Timeout = 90 * time.Second
	}

	if c.Storage.Provider == "" {
		if c.Storage.CloudName != "" {
			c.Storage.Provider = "cloudinary"
		} else {
			c.Storage.Provider = "local"
		}
	}
	if c.Storage.Folder == "" {
		c.Storage.Folder = "resumes"
	}
	if c.Storage.LocalDir == "" {
		c.Storage.LocalDir = "./uploads"
	}
	if c.Storage.PublicBaseURL == "" {
		c.Storage.PublicBaseURL = "/uploads"
	}

	if c.Adzuna.Country == "" {
		c.Adzuna.Country = "br"
	}
	if c.Adzuna.BaseURL == "" {
		c.Adzuna.BaseURL = "https://api.adzuna.com/v1/api/jobs"
	}
	if c.Adzuna.RatePerSecond == 0 {
		c.Adzuna.RatePerSecond = 1
	}
	if c.Adzuna.Burst == 0 {
		c.Adzuna.Burst = 3
	}

	if c.Delivery.Interval == 0 {
		c.Delivery.Interval = 5 * time.Second
	}
	if c.Delivery.MaxAttempts == 0 {
		c.Delivery.MaxAttempts = 5
	}
	if c.Delivery.BaseBackoff == 0 {
		c.Delivery.BaseBackoff = 30 * time.Second
	}
	if c.Delivery.BatchSize == 0 {
		c.Delivery.BatchSize = 20
	}

	if c.Inbox.Mailbox == "" {
		c.Inbox.Mailbox = "me"
	}
	if c.Inbox.CredentialsPath == "" {
		c.Inbox.CredentialsPath = "credential.json"
	}
	if c.Inbox.TokenPath == "" {
		c.Inbox.TokenPath = "token.json"
	}
	if c.Inbox.Interval == 0 {
		c.Inbox.Interval = 5 * time.Minute
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks the values the API server cannot start without.
func (c *Config) Validate() error {
	var missing []string
	if c.Database.DSN == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.Auth.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.Auth.IdentitySecret == "" {
		missing = append(missing, "IDENTITY_SECRET")
	}
	if c.Integrations.EncryptionKey == "" {
		missing = append(missing, "INTEGRATION_ENCRYPTION_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	switch c.Database.Driver {
	case "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	switch c.AI.Provider {
	case "langchain", "gemini":
	default:
		return fmt.Errorf("unsupported ai provider %q", c.AI.Provider)
	}
	switch c.Storage.Provider {
	case "cloudinary", "local":
	default:
		return fmt.Errorf("unsupported storage provider %q", c.Storage.Provider)
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
