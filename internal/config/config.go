// AngelaMos | 2026
// config.go

package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

// Config is assembled from three layers, later ones winning: built-in
// defaults, an optional YAML file, then the environment variables listed
// in envKeys.
type Config struct {
	App       AppConfig       `koanf:"app"`
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	JWT       JWTConfig       `koanf:"jwt"`
	Session   SessionConfig   `koanf:"session"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	CORS      CORSConfig      `koanf:"cors"`
	Log       LogConfig       `koanf:"log"`
	Otel      OtelConfig      `koanf:"otel"`
	Metrics   MetricsConfig   `koanf:"metrics"`
}

type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"             validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"gt=0"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL             string        `koanf:"url"            validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"gt=0"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
}

type RedisConfig struct {
	URL          string `koanf:"url" validate:"required"`
	PoolSize     int    `koanf:"pool_size"`
	MinIdleConns int    `koanf:"min_idle_conns"`
}

// JWTConfig covers the console's access tokens. RefreshTokenExpire is the
// lifetime of a session, extended on every refresh.
type JWTConfig struct {
	PrivateKeyPath     string        `koanf:"private_key_path"     validate:"required"`
	PublicKeyPath      string        `koanf:"public_key_path"      validate:"required"`
	AccessTokenExpire  time.Duration `koanf:"access_token_expire"  validate:"gt=0"`
	RefreshTokenExpire time.Duration `koanf:"refresh_token_expire" validate:"gtfield=AccessTokenExpire"`
	Issuer             string        `koanf:"issuer"`
	Audience           string        `koanf:"audience"`
}

// SessionConfig controls the cookie that carries the access token for the
// browser console.
type SessionConfig struct {
	CookieName string `koanf:"cookie_name" validate:"required"`
	Secure     bool   `koanf:"secure"`
	Domain     string `koanf:"domain"`
}

// RateLimitConfig holds three budgets: Requests per Window for every
// caller by IP, LoginRequests per Window for the sign-in endpoints, and
// UserRequests per minute for each signed-in account.
type RateLimitConfig struct {
	Requests      int           `koanf:"requests"       validate:"gt=0"`
	Window        time.Duration `koanf:"window"`
	Burst         int           `koanf:"burst"`
	LoginRequests int           `koanf:"login_requests" validate:"gt=0"`
	LoginBurst    int           `koanf:"login_burst"`
	UserRequests  int           `koanf:"user_requests"  validate:"gt=0"`
	UserBurst     int           `koanf:"user_burst"`
}

type CORSConfig struct {
	AllowedOrigins   []string `koanf:"allowed_origins"`
	AllowedMethods   []string `koanf:"allowed_methods"`
	AllowedHeaders   []string `koanf:"allowed_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           int      `koanf:"max_age"`
}

type LogConfig struct {
	Level  string `koanf:"level"  validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json text"`
}

type OtelConfig struct {
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	Enabled     bool    `koanf:"enabled"`
	Insecure    bool    `koanf:"insecure"`
	SampleRate  float64 `koanf:"sample_rate" validate:"gte=0,lte=1"`
}

type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path" validate:"startswith=/"`
}

var defaults = map[string]any{
	"app.name":        "ProPixel Admin",
	"app.version":     "1.0.0",
	"app.environment": EnvDevelopment,

	"server.host":             "0.0.0.0",
	"server.port":             8080,
	"server.read_timeout":     "30s",
	"server.write_timeout":    "30s",
	"server.idle_timeout":     "120s",
	"server.shutdown_timeout": "15s",

	"database.max_open_conns":     10,
	"database.max_idle_conns":     5,
	"database.conn_max_lifetime":  "1h",
	"database.conn_max_idle_time": "30m",

	"redis.pool_size":      10,
	"redis.min_idle_conns": 2,

	"jwt.access_token_expire":  "15m",
	"jwt.refresh_token_expire": "168h",
	"jwt.issuer":               "propixel",
	"jwt.audience":             "propixel-admin",
	"jwt.private_key_path":     "keys/private.pem",
	"jwt.public_key_path":      "keys/public.pem",

	"session.cookie_name": "propixel_session",

	"rate_limit.requests":       100,
	"rate_limit.window":         "1m",
	"rate_limit.burst":          20,
	"rate_limit.login_requests": 10,
	"rate_limit.login_burst":    5,
	"rate_limit.user_requests":  300,
	"rate_limit.user_burst":     50,

	"cors.allowed_origins":   []string{"http://localhost:3000"},
	"cors.allowed_methods":   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	"cors.allowed_headers":   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
	"cors.allow_credentials": true,
	"cors.max_age":           300,

	"log.level":  "info",
	"log.format": "json",

	"otel.insecure":     true,
	"otel.sample_rate":  0.1,
	"otel.service_name": "propixel",

	"metrics.enabled": true,
	"metrics.path":    "/metrics",
}

// envKeys maps the deployment's environment variables onto config keys.
// Variables not listed here are ignored.
var envKeys = map[string]string{
	"ENVIRONMENT": "app.environment",
	"HOST":        "server.host",
	"PORT":        "server.port",

	"DATABASE_URL":            "database.url",
	"DATABASE_MAX_OPEN_CONNS": "database.max_open_conns",
	"REDIS_URL":               "redis.url",

	"JWT_PRIVATE_KEY_PATH":     "jwt.private_key_path",
	"JWT_PUBLIC_KEY_PATH":      "jwt.public_key_path",
	"JWT_ACCESS_TOKEN_EXPIRE":  "jwt.access_token_expire",
	"JWT_REFRESH_TOKEN_EXPIRE": "jwt.refresh_token_expire",
	"JWT_ISSUER":               "jwt.issuer",
	"JWT_AUDIENCE":             "jwt.audience",

	"SESSION_COOKIE_NAME":   "session.cookie_name",
	"SESSION_COOKIE_SECURE": "session.secure",
	"SESSION_COOKIE_DOMAIN": "session.domain",

	"RATE_LIMIT_REQUESTS":       "rate_limit.requests",
	"RATE_LIMIT_WINDOW":         "rate_limit.window",
	"RATE_LIMIT_BURST":          "rate_limit.burst",
	"RATE_LIMIT_LOGIN_REQUESTS": "rate_limit.login_requests",
	"RATE_LIMIT_USER_REQUESTS":  "rate_limit.user_requests",

	"LOG_LEVEL":  "log.level",
	"LOG_FORMAT": "log.format",

	"OTEL_ENABLED":                "otel.enabled",
	"OTEL_ENDPOINT":               "otel.endpoint",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "otel.endpoint",
	"OTEL_SERVICE_NAME":           "otel.service_name",
	"OTEL_INSECURE":               "otel.insecure",
	"OTEL_SAMPLE_RATE":            "otel.sample_rate",

	"METRICS_ENABLED": "metrics.enabled",
}

var (
	cfg  *Config
	once sync.Once
)

// Load reads configuration once per process. Later calls return the first
// result regardless of configPath.
func Load(configPath string) (*Config, error) {
	var err error
	once.Do(func() {
		cfg, err = load(configPath)
	})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("default %s: %w", key, err)
		}
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("read %s: %w", configPath, err)
		}
	}

	fromEnv := env.Provider("", ".", func(name string) string { return envKeys[name] })
	if err := k.Load(fromEnv, nil); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	c := &Config{}
	if err := k.Unmarshal("", c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return c, nil
}

func (c *Config) validate() error {
	if err := validator.New().Struct(c); err != nil {
		var fields validator.ValidationErrors
		if errors.As(err, &fields) {
			return fieldError(fields[0])
		}
		return err
	}

	if c.CORS.AllowCredentials && slices.Contains(c.CORS.AllowedOrigins, "*") {
		return errors.New("cors.allowed_origins cannot contain * when credentials are allowed")
	}

	if c.IsProduction() {
		if !c.Session.Secure {
			return errors.New("SESSION_COOKIE_SECURE must be true in production")
		}
		if c.Otel.Enabled && c.Otel.Insecure {
			return errors.New("OTEL_INSECURE must be false in production")
		}
	}

	return nil
}

// fieldError names a failed field by its environment variable when it has
// one, since that is how operators set it.
func fieldError(fe validator.FieldError) error {
	key := koanfKey(fe.StructNamespace())
	name := key
	for envName, mapped := range envKeys {
		if mapped == key && !strings.HasPrefix(envName, "OTEL_EXPORTER") {
			name = envName
			break
		}
	}

	if fe.Tag() == "required" {
		return fmt.Errorf("%s is required", name)
	}
	return fmt.Errorf("%s fails %s=%s (got %v)", name, fe.Tag(), fe.Param(), fe.Value())
}

// koanfKey turns Config.RateLimit.LoginRequests into rate_limit.login_requests.
func koanfKey(namespace string) string {
	parts := strings.Split(namespace, ".")[1:]
	for i, p := range parts {
		var b strings.Builder
		for j, r := range p {
			if j > 0 && r >= 'A' && r <= 'Z' && !(p[j-1] >= 'A' && p[j-1] <= 'Z') {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		}
		parts[i] = strings.ToLower(b.String())
	}
	return strings.Join(parts, ".")
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == EnvProduction
}

// IsDevelopment is true only for local development, not for staging or CI.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == EnvDevelopment
}

func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
