package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/congo-pay/lemonway/lemonway"
)

const (
	defaultAppName        = "LemonWayGateway"
	defaultAppEnv         = "development"
	defaultPort           = "8080"
	defaultLogLevel       = "info"
	defaultShutdownDelay  = 10 * time.Second
	defaultIdempotencyTTL = 24 * time.Hour
	defaultRateLimit      = 120
	defaultUpstreamTTL    = 30 * time.Second
	defaultVersion        = "1.0"
	defaultLanguage       = "fr"
	defaultChannel        = "W"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName        string
	AppEnv         string
	Port           string
	LogLevel       string
	RedisURL       string
	ShutdownPeriod time.Duration
	IdempotencyTTL time.Duration
	RateLimit      int
	APIKeyHash     string
	LemonWay       LemonWay
}

// LemonWay holds the DirectKit endpoint and the white-label credentials sent
// with every call.
type LemonWay struct {
	BaseURL  string
	Login    string
	Password string
	PDV      string
	Version  string
	Language string
	Channel  string
	WalletIP string
	WalletUA string
	Timeout  time.Duration
}

// Defaults returns the default attribute set of the white-label profile.
func (l LemonWay) Defaults() lemonway.Attributes {
	attrs := lemonway.Attributes{
		"wlLogin":  l.Login,
		"wlPass":   l.Password,
		"wlPDV":    l.PDV,
		"version":  l.Version,
		"language": l.Language,
		"channel":  l.Channel,
		"walletIp": l.WalletIP,
	}
	if l.WalletUA != "" {
		attrs["walletUa"] = l.WalletUA
	}
	return attrs
}

// Load reads configuration values from the environment and populates a Config instance.
func Load() (Config, error) {
	cfg := Config{
		AppName:    getEnv("APP_NAME", defaultAppName),
		AppEnv:     getEnv("APP_ENV", defaultAppEnv),
		Port:       getEnv("PORT", defaultPort),
		LogLevel:   strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		RedisURL:   os.Getenv("REDIS_URL"),
		APIKeyHash: os.Getenv("GATEWAY_API_KEY_HASH"),
		RateLimit:  defaultRateLimit,
		LemonWay: LemonWay{
			BaseURL:  os.Getenv("LEMONWAY_BASE_URL"),
			Login:    os.Getenv("LEMONWAY_LOGIN"),
			Password: os.Getenv("LEMONWAY_PASSWORD"),
			PDV:      os.Getenv("LEMONWAY_PDV"),
			Version:  getEnv("LEMONWAY_VERSION", defaultVersion),
			Language: getEnv("LEMONWAY_LANGUAGE", defaultLanguage),
			Channel:  getEnv("LEMONWAY_CHANNEL", defaultChannel),
			WalletIP: os.Getenv("LEMONWAY_WALLET_IP"),
			WalletUA: os.Getenv("LEMONWAY_WALLET_UA"),
		},
	}

	var err error
	if cfg.ShutdownPeriod, err = durationEnv("SHUTDOWN_TIMEOUT", defaultShutdownDelay); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = durationEnv("IDEMPOTENCY_TTL", defaultIdempotencyTTL); err != nil {
		return Config{}, err
	}
	if cfg.LemonWay.Timeout, err = durationEnv("LEMONWAY_TIMEOUT", defaultUpstreamTTL); err != nil {
		return Config{}, err
	}

	if v := os.Getenv("RATE_LIMIT_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE: %q", v)
		}
		cfg.RateLimit = n
	}

	// Idempotency needs redis; only development may run without it.
	if cfg.RedisURL == "" && !cfg.IsDevelopment() {
		return Config{}, fmt.Errorf("REDIS_URL must be set when APP_ENV=%s", cfg.AppEnv)
	}

	if cfg.LemonWay.BaseURL == "" {
		return Config{}, fmt.Errorf("LEMONWAY_BASE_URL must be set")
	}

	return cfg, nil
}

// IsDevelopment reports whether APP_ENV names a development environment.
func (c Config) IsDevelopment() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

// durationEnv reads NAME_SECONDS as whole seconds, falling back to NAME as a
// Go duration string.
func durationEnv(name string, fallback time.Duration) (time.Duration, error) {
	secondsVar := name + "_SECONDS"
	if v := os.Getenv(secondsVar); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", secondsVar, err)
		}
		return time.Duration(seconds) * time.Second, nil
	}
	if v := os.Getenv(name); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", name, err)
		}
		return d, nil
	}
	return fallback, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
