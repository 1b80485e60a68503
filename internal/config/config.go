package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes the environment variables overriding the config file.
// Names are the field names split into words, e.g. URL_SHORTENER_JWT_SECRET
// or URL_SHORTENER_POSTGRES_PASSWORD. Only the prefixed names are read.
const EnvPrefix = "URL_SHORTENER"

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	Env        string `yaml:"env" split_words:"true" validate:"oneof=dev stage prod"`
	LogLevel   string `yaml:"log_level" split_words:"true" validate:"oneof=debug info warn error"`
	BaseURL    string `yaml:"base_url" split_words:"true" validate:"required,http_url"`
	SlugLength int    `yaml:"slug_length" split_words:"true" validate:"min=4,max=64"`
	Storage    string `yaml:"storage" split_words:"true" validate:"oneof=postgres memory"`
	Auth       `yaml:"auth"`
	HTTPServer `yaml:"http_server"`
	Postgres   Postgres `yaml:"postgres" split_words:"true"`
}

// SlogLevel maps LogLevel to a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type Auth struct {
	JWTSecret string        `yaml:"jwt_secret" split_words:"true" validate:"required"`
	TokenTTL  time.Duration `yaml:"token_ttl" split_words:"true" validate:"gt=0"`
}

var defaultAuth = Auth{
	TokenTTL: 24 * time.Hour,
}

type HTTPServer struct {
	Port           int           `yaml:"port" split_words:"true" validate:"min=1,max=65535"`
	ReadTimeout    time.Duration `yaml:"read_timeout" split_words:"true"`
	WriteTimeout   time.Duration `yaml:"write_timeout" split_words:"true"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" split_words:"true"`
	MaxHeaderBytes int           `yaml:"max_header_bytes" split_words:"true"`
	CertFile       string        `yaml:"cert_file" split_words:"true"`
	KeyFile        string        `yaml:"key_file" split_words:"true"`
	CORSOrigin     string        `yaml:"cors_origin" split_words:"true"`
	RateLimit      RateLimit     `yaml:"rate_limit" split_words:"true"`
}

// RateLimit caps the number of requests a single client IP may send per window.
// Zero Requests disables the limit.
type RateLimit struct {
	Requests int           `yaml:"requests" split_words:"true" validate:"min=0"`
	Window   time.Duration `yaml:"window" split_words:"true"`
}

var defaultHTTPServer = HTTPServer{
	Port:           8080,
	ReadTimeout:    5 * time.Second,
	WriteTimeout:   10 * time.Second,
	IdleTimeout:    time.Minute,
	MaxHeaderBytes: 1 << 20,
	CORSOrigin:     "http://localhost:3000",
	RateLimit: RateLimit{
		Requests: 100,
		Window:   15 * time.Minute,
	},
}

func (s *HTTPServer) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

type Postgres struct {
	User            string        `yaml:"user" split_words:"true"`
	Password        string        `yaml:"password" split_words:"true"`
	Host            string        `yaml:"host" split_words:"true"`
	Port            int           `yaml:"port" split_words:"true"`
	DB              string        `yaml:"db" split_words:"true"`
	SSLMode         string        `yaml:"sslmode" split_words:"true"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time" split_words:"true"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" split_words:"true"`
	MaxIdleConns    int           `yaml:"max_idle_conns" split_words:"true"`
	MaxOpenConns    int           `yaml:"max_open_conns" split_words:"true"`
}

var defaultPostgres = Postgres{
	Host:            "localhost",
	Port:            5432,
	SSLMode:         "disable",
	ConnMaxIdleTime: 5 * time.Minute,
	ConnMaxLifetime: 30 * time.Minute,
	MaxIdleConns:    5,
	MaxOpenConns:    25,
}

func (p *Postgres) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     net.JoinHostPort(p.Host, strconv.Itoa(p.Port)),
		Path:     "/" + p.DB,
		RawQuery: "sslmode=" + url.QueryEscape(p.SSLMode),
	}

	return u.String()
}

// Load reads the YAML config file at path over the defaults and applies
// environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	const op = "config.Load"

	var cfg Config
	setDefaults(&cfg)

	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("%s: failed to process environment: %w", op, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("failed to decode config file: %w", err)
	}

	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		return fmt.Errorf("invalid config value %s: failed on %q", errs[0].Namespace(), errs[0].Tag())
	}

	return fmt.Errorf("invalid config: %w", err)
}

func setDefaults(cfg *Config) {
	cfg.Env = EnvDev
	cfg.LogLevel = "info"
	cfg.BaseURL = "http://localhost:8080"
	cfg.SlugLength = 6
	cfg.Storage = StoragePostgres
	cfg.Auth = defaultAuth
	cfg.HTTPServer = defaultHTTPServer
	cfg.Postgres = defaultPostgres
}
