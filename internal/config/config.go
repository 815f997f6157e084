package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StorageMemory    = "memory"
	StoragePostgres  = "postgres"
	StorageFirestore = "firestore"

	AuthFirebase = "firebase"
	AuthDev      = "dev"
	AuthDisabled = "disabled"
)

// Config хранит все параметры приложения
type Config struct {
	AppEnv    string `env:"APP_ENV" envDefault:"development"`
	Port      int    `env:"PORT" envDefault:"5000" validate:"gt=0,lt=65536"`
	ClientURL string `env:"CLIENT_URL" envDefault:"http://localhost:3000"`
	Storage   string `env:"STORAGE" yaml:"storage" validate:"omitempty,oneof=memory postgres firestore"`
	SeedData  bool   `env:"SEED_DATA" envDefault:"true"`
	// NotifyInProcess turns events into notifications inside the api
	// process; disable it when a notification-subscriber is deployed.
	NotifyInProcess bool `env:"NOTIFY_IN_PROCESS" envDefault:"true"`

	Firebase FirebaseConfig `yaml:"firebase"`
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Weather  WeatherConfig  `yaml:"weather"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
}

type FirebaseConfig struct {
	ProjectID       string `env:"FIREBASE_PROJECT_ID" yaml:"project_id"`
	ClientEmail     string `env:"FIREBASE_CLIENT_EMAIL" yaml:"client_email"`
	PrivateKey      string `env:"FIREBASE_PRIVATE_KEY" yaml:"private_key"`
	CredentialsPath string `env:"GOOGLE_APPLICATION_CREDENTIALS" yaml:"credentials_path"`
}

func (f FirebaseConfig) Enabled() bool { return f.ProjectID != "" }

type DatabaseConfig struct {
	Host     string `env:"DB_HOST" yaml:"host"`
	Port     int    `env:"DB_PORT" yaml:"port"`
	User     string `env:"DB_USER" yaml:"user"`
	Password string `env:"DB_PASSWORD" yaml:"password"`
	Database string `env:"DB_NAME" yaml:"database"`
	SSLMode  string `env:"DB_SSLMODE" yaml:"sslmode"`
}

type RabbitMQConfig struct {
	Host     string `env:"RABBITMQ_HOST" yaml:"host"`
	Port     int    `env:"RABBITMQ_PORT" yaml:"port"`
	User     string `env:"RABBITMQ_USER" yaml:"user"`
	Password string `env:"RABBITMQ_PASSWORD" yaml:"password"`
	VHost    string `env:"RABBITMQ_VHOST" yaml:"vhost"`
	UseTLS   bool   `env:"RABBITMQ_TLS" yaml:"tls"`
}

// Enabled reports whether the cross-instance bridge should be started.
func (r RabbitMQConfig) Enabled() bool { return r.Host != "" }

type WeatherConfig struct {
	APIKey  string  `env:"WEATHER_API_KEY" yaml:"api_key"`
	BaseURL string  `env:"WEATHER_BASE_URL" yaml:"base_url"`
	Lat     float64 `env:"WEATHER_LAT" yaml:"lat"`
	Lon     float64 `env:"WEATHER_LON" yaml:"lon"`
}

type AuthConfig struct {
	Mode      string `env:"AUTH_MODE" yaml:"mode" validate:"omitempty,oneof=firebase dev disabled"`
	JWTSecret string `env:"AUTH_JWT_SECRET" yaml:"jwt_secret"`
}

type LogConfig struct {
	Level      string `env:"LOG_LEVEL" envDefault:"info"`
	Format     string `env:"LOG_FORMAT" envDefault:"json" validate:"oneof=json text"`
	File       string `env:"LOG_FILE"`
	MaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"50"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"5"`
	MaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"14"`
}

// Load reads .env files, then the optional YAML file at path, then the
// process environment. Environment variables win over YAML.
func Load(path string) (*Config, error) {
	loadDotenv()

	cfg := &Config{}
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.applyDefaults()

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Auth.Mode == AuthDisabled && cfg.AppEnv == "production" {
		return nil, errors.New("invalid config: AUTH_MODE=disabled is not allowed in production")
	}
	if cfg.Auth.Mode == AuthDev && cfg.Auth.JWTSecret == "" {
		return nil, errors.New("invalid config: AUTH_MODE=dev requires AUTH_JWT_SECRET")
	}
	if cfg.Storage == StorageFirestore && !cfg.Firebase.Enabled() {
		return nil, errors.New("invalid config: STORAGE=firestore requires FIREBASE_PROJECT_ID")
	}
	if cfg.Storage == StoragePostgres && (cfg.Database.Host == "" || cfg.Database.User == "" || cfg.Database.Database == "") {
		return nil, errors.New("invalid config: database config incomplete")
	}
	return cfg, nil
}

func loadDotenv() {
	_ = godotenv.Load(".env")
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "development"
	}
	_ = godotenv.Load(filepath.Join("config", "env", appEnv+".env"))
}

func (c *Config) applyDefaults() {
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.RabbitMQ.Port == 0 {
		c.RabbitMQ.Port = 5672
	}
	if c.RabbitMQ.VHost == "" {
		c.RabbitMQ.VHost = "/"
	}
	if c.Weather.BaseURL == "" {
		c.Weather.BaseURL = "https://api.openweathermap.org/data/2.5"
	}
	if c.Weather.Lat == 0 && c.Weather.Lon == 0 {
		c.Weather.Lat, c.Weather.Lon = 40.7128, -74.0060
	}
	// private keys arrive with escaped newlines from most secret stores
	c.Firebase.PrivateKey = strings.ReplaceAll(c.Firebase.PrivateKey, `\n`, "\n")

	if c.Storage == "" {
		switch {
		case c.Firebase.Enabled():
			c.Storage = StorageFirestore
		case c.Database.Host != "":
			c.Storage = StoragePostgres
		default:
			c.Storage = StorageMemory
		}
	}
	if c.Auth.Mode == "" {
		switch {
		case c.Firebase.Enabled():
			c.Auth.Mode = AuthFirebase
		case c.Auth.JWTSecret != "":
			c.Auth.Mode = AuthDev
		default:
			c.Auth.Mode = AuthDisabled
		}
	}
}
