// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// OAuthProviderConfig holds the per-provider login configuration. It is
// immutable for the process lifetime once loaded.
type OAuthProviderConfig struct {
	Name         string
	ClientID     string
	ClientSecret string
	RedirectURI  string
	AutoRegister bool
	DefaultRoles []string
}

// Config holds all configuration for the application.
type Config struct {
	// Server Configuration
	GinMode       string        `mapstructure:"GIN_MODE"`
	ServerHost    string        `mapstructure:"SERVER_HOST"`
	ServerPort    string        `mapstructure:"SERVER_PORT"`
	ServerTimeout time.Duration `mapstructure:"SERVER_TIMEOUT_SECONDS"`

	// Database Configuration
	DBHost            string        `mapstructure:"DB_HOST"`
	DBPort            string        `mapstructure:"DB_PORT"`
	DBUser            string        `mapstructure:"DB_USER"`
	DBPassword        string        `mapstructure:"DB_PASSWORD"`
	DBName            string        `mapstructure:"DB_NAME"`
	DBSSLMode         string        `mapstructure:"DB_SSL_MODE"`
	DBTimezone        string        `mapstructure:"DB_TIMEZONE"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBConnMaxLifetime time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`

	// Logging Configuration
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// Session Token Configuration
	JWTSecretKey              string        `mapstructure:"JWT_SECRET_KEY"`
	SessionTokenExpiry        time.Duration `mapstructure:"SESSION_TOKEN_EXPIRY_MINUTES"`
	SessionTokenCookieName    string        `mapstructure:"SESSION_TOKEN_COOKIE_NAME"`
	SessionBlocklistCleanupMin int          `mapstructure:"SESSION_BLOCKLIST_CLEANUP_MINUTES"`

	// OAuth Cookie Configuration (state handling during the handshake)
	OAuthStateCookieName     string `mapstructure:"OAUTH_STATE_COOKIE_NAME"`
	OAuthCookieDomain        string `mapstructure:"OAUTH_COOKIE_DOMAIN"`
	OAuthCookieMaxAgeMinutes int    `mapstructure:"OAUTH_COOKIE_MAX_AGE_MINUTES"`
	OAuthCookieSecure        bool   `mapstructure:"OAUTH_COOKIE_SECURE"`
	OAuthCookieHTTPOnly      bool   `mapstructure:"OAUTH_COOKIE_HTTP_ONLY"`
	OAuthCookieSameSite      string `mapstructure:"OAUTH_COOKIE_SAME_SITE"`

	// Application home, where a successful login redirects to.
	AppHomeURL string `mapstructure:"APP_HOME_URL"`

	// Enabled OAuth providers, loaded from OAUTH_PROVIDERS plus the
	// per-provider <NAME>_* variables.
	OAuthProviders []OAuthProviderConfig `mapstructure:"-"`
}

// Provider returns the configuration for the named provider, or nil.
func (c *Config) Provider(name string) *OAuthProviderConfig {
	for i := range c.OAuthProviders {
		if c.OAuthProviders[i].Name == name {
			return &c.OAuthProviders[i]
		}
	}
	return nil
}

// Load attempts to load configuration from a .env file (if present) and
// environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	v := viper.New()

	// Set default values
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_TIMEOUT_SECONDS", 30)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "social_login_db")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 60)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("JWT_SECRET_KEY", "") // Required; validated below
	v.SetDefault("SESSION_TOKEN_EXPIRY_MINUTES", 60)
	v.SetDefault("SESSION_TOKEN_COOKIE_NAME", "session_token")
	v.SetDefault("SESSION_BLOCKLIST_CLEANUP_MINUTES", 10)

	v.SetDefault("OAUTH_STATE_COOKIE_NAME", "oauth_state")
	v.SetDefault("OAUTH_COOKIE_DOMAIN", "")
	v.SetDefault("OAUTH_COOKIE_MAX_AGE_MINUTES", 10)
	v.SetDefault("OAUTH_COOKIE_SECURE", true)
	v.SetDefault("OAUTH_COOKIE_HTTP_ONLY", true)
	v.SetDefault("OAUTH_COOKIE_SAME_SITE", "Lax")

	v.SetDefault("APP_HOME_URL", "/")
	v.SetDefault("OAUTH_PROVIDERS", "github")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	// Convert duration fields
	cfg.ServerTimeout = time.Duration(v.GetInt("SERVER_TIMEOUT_SECONDS")) * time.Second
	cfg.DBConnMaxLifetime = time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME_MINUTES")) * time.Minute
	cfg.SessionTokenExpiry = time.Duration(v.GetInt("SESSION_TOKEN_EXPIRY_MINUTES")) * time.Minute

	if strings.TrimSpace(cfg.JWTSecretKey) == "" {
		return nil, fmt.Errorf("FATAL: JWT_SECRET_KEY is not set. Session tokens cannot be signed without it")
	}

	providers, err := loadProviderConfigs(v)
	if err != nil {
		return nil, err
	}
	cfg.OAuthProviders = providers

	return &cfg, nil
}

// loadProviderConfigs reads the per-provider variables for every name listed in
// OAUTH_PROVIDERS. Missing credentials are a startup-time fatal error, not a
// runtime lookup failure.
func loadProviderConfigs(v *viper.Viper) ([]OAuthProviderConfig, error) {
	var providers []OAuthProviderConfig
	for _, raw := range strings.Split(v.GetString("OAUTH_PROVIDERS"), ",") {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		prefix := strings.ToUpper(name)

		pc := OAuthProviderConfig{
			Name:         name,
			ClientID:     v.GetString(prefix + "_CLIENT_ID"),
			ClientSecret: v.GetString(prefix + "_CLIENT_SECRET"),
			RedirectURI:  v.GetString(prefix + "_REDIRECT_URI"),
			AutoRegister: v.GetBool(prefix + "_AUTO_REGISTER"),
		}
		for _, role := range strings.Split(v.GetString(prefix+"_DEFAULT_ROLES"), ",") {
			if role = strings.TrimSpace(role); role != "" {
				pc.DefaultRoles = append(pc.DefaultRoles, role)
			}
		}

		if strings.TrimSpace(pc.ClientID) == "" {
			return nil, fmt.Errorf("FATAL: %s_CLIENT_ID is not set for enabled OAuth provider %q", prefix, name)
		}
		if strings.TrimSpace(pc.ClientSecret) == "" {
			return nil, fmt.Errorf("FATAL: %s_CLIENT_SECRET is not set for enabled OAuth provider %q", prefix, name)
		}

		providers = append(providers, pc)
	}
	if len(providers) == 0 {
		return nil, fmt.Errorf("FATAL: OAUTH_PROVIDERS does not list any provider")
	}
	return providers, nil
}
