package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverSupabase = "supabase"
)

// Mail providers.
const (
	ProviderSMTP = "smtp"
	ProviderSES  = "ses"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig `yaml:"server"`
	Store    StoreConfig  `yaml:"store"`
	Mail     MailConfig   `yaml:"mail"`
	Redis    RedisConfig  `yaml:"redis"`
	LogLevel string       `yaml:"log_level"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port        int      `yaml:"port"`
	Host        string   `yaml:"host"`
	Banner      string   `yaml:"banner"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// GetHost returns the listen host. SERVER_HOST overrides the file value.
func (c ServerConfig) GetHost() string {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// Addr returns host:port for http.Server.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.GetHost(), c.Port)
}

// StoreConfig selects and configures the subscriber store.
type StoreConfig struct {
	Driver         string `yaml:"driver"`
	DatabaseURL    string `yaml:"database_url"`
	SupabaseURL    string `yaml:"supabase_url"`
	ServiceKey     string `yaml:"service_key"`
	Table          string `yaml:"table"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	AutoMigrate    bool   `yaml:"auto_migrate"`
}

// Timeout returns the configured timeout as a duration
func (c StoreConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// MailConfig holds the sender identity, welcome content and transport.
type MailConfig struct {
	Provider      string     `yaml:"provider"`
	SenderName    string     `yaml:"sender_name"`
	SenderAddress string     `yaml:"sender_address"`
	Subject       string     `yaml:"subject"`
	Brand         string     `yaml:"brand"`
	TemplatePath  string     `yaml:"template_path"`
	SMTP          SMTPConfig `yaml:"smtp"`
	SES           SESConfig  `yaml:"ses"`
}

// SMTPConfig holds SMTP relay credentials. Gmail needs an app password.
type SMTPConfig struct {
	Host               string `yaml:"host"`
	Port               int    `yaml:"port"`
	User               string `yaml:"user"`
	Password           string `yaml:"password"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
}

// SESConfig holds AWS SES API configuration
type SESConfig struct {
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// RedisConfig holds the optional Redis connection used for migration locks
// and readiness checks.
type RedisConfig struct {
	URL string `yaml:"url"`
}

// Enabled reports whether a Redis URL was configured.
func (c RedisConfig) Enabled() bool { return c.URL != "" }

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	cfg, err := readFile(path)
	if err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	return cfg, nil
}

func readFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// It loads a .env file (if present) before reading env vars, so secrets can
// live in .env locally and in real env vars in production. A missing config
// file is not an error: the service can run from the environment alone.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	// Defaults are applied after the overrides because some of them are
	// derived (driver from SUPABASE_URL, sender address from EMAIL_USER).
	cfg, err := readFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = &Config{}, nil
	}
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = splitList(v)
	}

	// Store overrides
	if v := os.Getenv("STORE_DRIVER"); v != "" {
		cfg.Store.Driver = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Store.DatabaseURL = v
	}
	if v := os.Getenv("SUPABASE_URL"); v != "" {
		cfg.Store.SupabaseURL = v
	}
	if v := os.Getenv("SUPABASE_SERVICE_KEY"); v != "" {
		cfg.Store.ServiceKey = v
	}

	// Mail overrides
	if v := os.Getenv("MAIL_PROVIDER"); v != "" {
		cfg.Mail.Provider = v
	}
	if v := os.Getenv("EMAIL_USER"); v != "" {
		cfg.Mail.SMTP.User = v
	}
	if v := os.Getenv("EMAIL_PASS"); v != "" {
		cfg.Mail.SMTP.Password = v
	}
	if v := os.Getenv("MAIL_SENDER_ADDRESS"); v != "" {
		cfg.Mail.SenderAddress = v
	}
	if v := os.Getenv("SMTP_HOST"); v != "" {
		cfg.Mail.SMTP.Host = v
	}
	if v := os.Getenv("AWS_SES_ACCESS_KEY"); v != "" {
		cfg.Mail.SES.AccessKey = v
	}
	if v := os.Getenv("AWS_SES_SECRET_KEY"); v != "" {
		cfg.Mail.SES.SecretKey = v
	}
	if v := os.Getenv("AWS_SES_REGION"); v != "" {
		cfg.Mail.SES.Region = v
	}

	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3000
	}
	if cfg.Server.Banner == "" {
		cfg.Server.Banner = "🚀 Mailer Server is Running! Send POST to /api/subscribe"
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{"*"}
	}

	if cfg.Store.Driver == "" {
		if cfg.Store.SupabaseURL != "" {
			cfg.Store.Driver = DriverSupabase
		} else {
			cfg.Store.Driver = DriverPostgres
		}
	}
	if cfg.Store.Table == "" {
		cfg.Store.Table = "user_emails"
	}
	if cfg.Store.TimeoutSeconds == 0 {
		cfg.Store.TimeoutSeconds = 30
	}

	if cfg.Mail.Provider == "" {
		cfg.Mail.Provider = ProviderSMTP
	}
	if cfg.Mail.SenderName == "" {
		cfg.Mail.SenderName = "Marketing Dive"
	}
	if cfg.Mail.SenderAddress == "" {
		cfg.Mail.SenderAddress = cfg.Mail.SMTP.User
	}
	if cfg.Mail.Subject == "" {
		cfg.Mail.Subject = "Welcome to Businesscale! 🚀"
	}
	if cfg.Mail.Brand == "" {
		cfg.Mail.Brand = "Businesscale"
	}
	if cfg.Mail.SMTP.Host == "" {
		cfg.Mail.SMTP.Host = "smtp.gmail.com"
	}
	if cfg.Mail.SMTP.Port == 0 {
		cfg.Mail.SMTP.Port = 587
	}
	if cfg.Mail.SES.Region == "" {
		cfg.Mail.SES.Region = "us-east-1"
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// Validate reports every missing or inconsistent setting at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}

	switch c.Store.Driver {
	case DriverPostgres:
		if c.Store.DatabaseURL == "" {
			errs = append(errs, errors.New("store.database_url (DATABASE_URL) is required for the postgres driver"))
		}
	case DriverSupabase:
		if c.Store.SupabaseURL == "" {
			errs = append(errs, errors.New("store.supabase_url (SUPABASE_URL) is required for the supabase driver"))
		}
		if c.Store.ServiceKey == "" {
			errs = append(errs, errors.New("store.service_key (SUPABASE_SERVICE_KEY) is required for the supabase driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store.driver %q", c.Store.Driver))
	}

	switch c.Mail.Provider {
	case ProviderSMTP:
		if c.Mail.SMTP.User == "" || c.Mail.SMTP.Password == "" {
			errs = append(errs, errors.New("mail.smtp.user and mail.smtp.password (EMAIL_USER, EMAIL_PASS) are required for smtp"))
		}
	case ProviderSES:
	default:
		errs = append(errs, fmt.Errorf("unknown mail.provider %q", c.Mail.Provider))
	}
	if c.Mail.SenderAddress == "" {
		errs = append(errs, errors.New("mail.sender_address is required"))
	}

	return errors.Join(errs...)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
