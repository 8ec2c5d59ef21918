package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment represents the deployment environment of the service.
type Environment string

const (
	Development Environment = "development"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

// ParseEnvironment falls back to Development for unknown values.
func ParseEnvironment(v string) Environment {
	switch Environment(strings.ToLower(v)) {
	case Production:
		return Production
	case Testing:
		return Testing
	default:
		return Development
	}
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	SessionTTL   time.Duration `mapstructure:"session_ttl"`
}

type AuthConfig struct {
	JWTSecret  string        `mapstructure:"jwt_secret"`
	AccessTTL  time.Duration `mapstructure:"access_ttl"`
	RefreshTTL time.Duration `mapstructure:"refresh_ttl"`
}

type CatalogConfig struct {
	URL       string        `mapstructure:"url"`
	SeedLimit int           `mapstructure:"seed_limit"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type SMTPConfig struct {
	Server       string `mapstructure:"server"`
	Port         string `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	From         string `mapstructure:"from"`
	SalesTo      string `mapstructure:"sales_to"`
	AuthDisabled bool   `mapstructure:"auth_disabled"`
}

type Config struct {
	Environment string         `mapstructure:"environment"`
	HTTP        HTTPConfig     `mapstructure:"http"`
	Database    DatabaseConfig `mapstructure:"database"`
	Redis       RedisConfig    `mapstructure:"redis"`
	Auth        AuthConfig     `mapstructure:"auth"`
	Catalog     CatalogConfig  `mapstructure:"catalog"`
	SMTP        SMTPConfig     `mapstructure:"smtp"`
}

func (c *Config) Env() Environment {
	return ParseEnvironment(c.Environment)
}

const envPrefix = "STOREFRONT"

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", string(Development))
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("database.url", "")
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.write_timeout", 3*time.Second)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.session_ttl", 30*24*time.Hour)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.access_ttl", 15*time.Minute)
	v.SetDefault("auth.refresh_ttl", 7*24*time.Hour)
	v.SetDefault("catalog.url", "")
	v.SetDefault("catalog.seed_limit", 30)
	v.SetDefault("catalog.cache_ttl", 10*time.Minute)
	v.SetDefault("catalog.timeout", 10*time.Second)
	v.SetDefault("smtp.server", "")
	v.SetDefault("smtp.port", "587")
	v.SetDefault("smtp.user", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.from", "")
	v.SetDefault("smtp.sales_to", "")
	v.SetDefault("smtp.auth_disabled", false)
}

// Load reads configuration from defaults, an optional config file and the
// environment, in increasing order of precedence. A .env file in the working
// directory is loaded into the process environment first if present.
func Load(paths ...string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Env() == Production && c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required in production")
	}
	if c.Auth.JWTSecret == "" {
		c.Auth.JWTSecret = "dev-secret-change-me"
	}
	if c.Catalog.SeedLimit <= 0 {
		c.Catalog.SeedLimit = 30
	}
	return nil
}
