package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host           string   `yaml:"host"`
		Port           int      `yaml:"port"`
		Env            string   `yaml:"env"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`

	Database struct {
		Driver          string `yaml:"driver"` // postgres, mysql
		DSN             string `yaml:"url"`
		MaxOpenConns    int    `yaml:"max_open_conns"`
		MaxIdleConns    int    `yaml:"max_idle_conns"`
		ConnMaxLifetime int    `yaml:"conn_max_lifetime_minutes"`
		AutoMigrate     bool   `yaml:"auto_migrate"`
	} `yaml:"database"`

	Auth struct {
		Provider   string `yaml:"provider"` // firebase, hmac
		ProjectID  string `yaml:"project_id"`
		CertsURL   string `yaml:"certs_url"`
		HMACSecret string `yaml:"hmac_secret"`
		HMACIssuer string `yaml:"hmac_issuer"`
	} `yaml:"auth"`

	Postings struct {
		AutoApprove      bool     `yaml:"auto_approve"`
		AutoApproveTypes []string `yaml:"auto_approve_types"`
	} `yaml:"postings"`

	Registration struct {
		AutoApproveAccounts bool `yaml:"auto_approve_accounts"`
		ReconcileInterval   int  `yaml:"reconcile_interval_seconds"` // 0 - воркер выключен
		ReconcileAfter      int  `yaml:"reconcile_after_seconds"`
		ReconcileBatch      int  `yaml:"reconcile_batch"`
	} `yaml:"registration"`

	DocStore struct {
		MongoURI string `yaml:"mongo_uri"` // пусто - in-memory
		Database string `yaml:"database"`
	} `yaml:"docstore"`

	Redis struct {
		Addr     string `yaml:"addr"` // пусто - rate limit выключен
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	RateLimit struct {
		Max           int `yaml:"max"`
		WindowSeconds int `yaml:"window_seconds"`
	} `yaml:"rate_limit"`

	Email struct {
		Enabled      bool   `yaml:"enabled"`
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
		TemplatesDir string `yaml:"templates_dir"`
	} `yaml:"email"`

	Storage struct {
		Type            string `yaml:"type"`      // local, gcs, minio
		BasePath        string `yaml:"base_path"` // For local storage
		BaseURL         string `yaml:"base_url"`  // Public URL base
		Bucket          string `yaml:"bucket"`    // For GCS/MinIO
		Endpoint        string `yaml:"endpoint"`  // For MinIO
		AccessKey       string `yaml:"access_key"`
		SecretKey       string `yaml:"secret_key"`
		UseSSL          bool   `yaml:"use_ssl"`
		CredentialsFile string `yaml:"credentials_file"` // For GCS, пусто - ADC
	} `yaml:"storage"`

	Upload struct {
		MaxSize      int64    `yaml:"max_size"`      // Max file size in bytes
		AllowedTypes []string `yaml:"allowed_types"` // Allowed MIME types
		ImageQuality int      `yaml:"image_quality"` // JPEG quality (1-100)
	} `yaml:"upload"`

	Logging struct {
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
	} `yaml:"logging"`

	FirstAdmin struct {
		UID   string `yaml:"uid"`
		Email string `yaml:"email"`
	} `yaml:"first_admin"`
}

var AppConfig *Config

// LoadConfig загружает .env, config.yaml и переменные окружения в AppConfig.
func LoadConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Failed to load .env: %v", err)
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

// Load читает YAML по пути path (файл может отсутствовать, если все задано через env),
// применяет переменные окружения и значения по умолчанию.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
			log.Printf("Config file %s not found, using defaults and environment", path)
		default:
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default возвращает конфигурацию для локальной разработки
func Default() *Config {
	var cfg Config

	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 4000
	cfg.Server.Env = "development"
	cfg.Server.AllowedOrigins = []string{"http://localhost:3000"}

	cfg.Database.Driver = "postgres"
	cfg.Database.MaxOpenConns = 20
	cfg.Database.MaxIdleConns = 5
	cfg.Database.ConnMaxLifetime = 30
	cfg.Database.AutoMigrate = true

	cfg.Auth.Provider = "firebase"
	cfg.Auth.CertsURL = "https://www.googleapis.com/robot/v1/metadata/x509/securetoken@system.gserviceaccount.com"

	cfg.Postings.AutoApproveTypes = []string{"job"}

	cfg.Registration.ReconcileInterval = 60
	cfg.Registration.ReconcileAfter = 120
	cfg.Registration.ReconcileBatch = 50

	cfg.DocStore.Database = "proconnect"

	cfg.RateLimit.Max = 30
	cfg.RateLimit.WindowSeconds = 60

	cfg.Email.SMTPPort = 587
	cfg.Email.FromName = "ProConnect"

	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = "./uploads"
	cfg.Storage.BaseURL = "/uploads"

	cfg.Upload.MaxSize = 10 * 1024 * 1024 // 10MB
	cfg.Upload.AllowedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
	cfg.Upload.ImageQuality = 85

	cfg.Logging.MaxSizeMB = 100
	cfg.Logging.MaxBackups = 5
	cfg.Logging.MaxAgeDays = 30

	return &cfg
}

func applyEnv(cfg *Config) {
	setString(&cfg.Database.DSN, "DATABASE_URL")
	setString(&cfg.Database.Driver, "DATABASE_DRIVER")
	setString(&cfg.Server.Env, "SERVER_ENV")
	setInt(&cfg.Server.Port, "SERVER_PORT")
	setString(&cfg.Auth.Provider, "AUTH_PROVIDER")
	setString(&cfg.Auth.ProjectID, "FIREBASE_PROJECT_ID")
	setString(&cfg.Auth.HMACSecret, "AUTH_HMAC_SECRET")
	setBool(&cfg.Postings.AutoApprove, "AUTO_APPROVE_JOBS")
	setBool(&cfg.Registration.AutoApproveAccounts, "AUTO_APPROVE_ACCOUNTS")
	setString(&cfg.DocStore.MongoURI, "MONGO_URI")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setString(&cfg.Email.SMTPPassword, "SMTP_PASSWORD")
	setString(&cfg.Storage.SecretKey, "STORAGE_SECRET_KEY")
	setString(&cfg.FirstAdmin.UID, "FIRST_ADMIN_UID")
	setString(&cfg.FirstAdmin.Email, "FIRST_ADMIN_EMAIL")
}

// Validate проверяет, что с конфигурацией можно стартовать
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported database driver: %q", c.Database.Driver)
	}
	switch c.Auth.Provider {
	case "firebase", "hmac", "":
	default:
		return fmt.Errorf("unsupported auth provider: %q", c.Auth.Provider)
	}
	switch c.Storage.Type {
	case "local", "gcs", "minio":
	default:
		return fmt.Errorf("unsupported storage type: %q", c.Storage.Type)
	}
	return nil
}

// RateLimitWindow возвращает окно rate limit как Duration
func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimit.WindowSeconds) * time.Second
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		} else {
			log.Printf("Invalid %s=%q, keeping %d", key, v, *dst)
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		} else {
			log.Printf("Invalid %s=%q, keeping %t", key, v, *dst)
		}
	}
}
