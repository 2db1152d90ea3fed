// Package config reads the watcher settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"go-mod.ewintr.nl/stockwatch/internal/browser"
	"go-mod.ewintr.nl/stockwatch/internal/bucket"
	"go-mod.ewintr.nl/stockwatch/internal/homeassistant"
	"go-mod.ewintr.nl/stockwatch/internal/notify"
	"go-mod.ewintr.nl/stockwatch/internal/stock"
)

const (
	DefaultInterval     = 120 * time.Second
	DefaultInitialDelay = 30 * time.Second
	DefaultMailPort     = 465
)

var ErrMissing = errors.New("missing required setting")

type Config struct {
	BotToken      string
	AdminID       int64
	Browser       browser.Config
	Interval      time.Duration
	InitialDelay  time.Duration
	Location      *time.Location
	LogLevel      slog.Level
	Categories    []string
	Buckets       bucket.Table
	Selectors     stock.Selectors
	Mail          notify.MailConfig
	HomeAssistant homeassistant.Config
}

// fileConfig is the optional YAML overlay.
type fileConfig struct {
	Categories []string        `yaml:"categories"`
	Buckets    bucket.Table    `yaml:"buckets"`
	Selectors  stock.Selectors `yaml:"selectors"`
}

// Load reads envFile if it exists and then the process environment.
func Load(envFile string) (Config, error) {
	// a missing .env file is fine
	_ = godotenv.Load(envFile)

	return FromEnv(os.Getenv)
}

func FromEnv(getenv func(string) string) (Config, error) {
	conf := Config{
		BotToken:  getenv("BOT_TOKEN"),
		Buckets:   bucket.Default(),
		Selectors: stock.DefaultSelectors(),
		Browser: browser.Config{
			ProxyHost: getenv("PROXY_HOST"),
			ProxyPort: getenv("PROXY_PORT"),
			ProxyUser: getenv("PROXY_USER"),
			ProxyPass: getenv("PROXY_PASS"),
		},
		Mail: notify.MailConfig{
			Host:     getenv("MAIL_HOST"),
			User:     getenv("MAIL_USER"),
			Password: getenv("MAIL_PASSWORD"),
			From:     getenv("MAIL_FROM"),
			To:       getenv("MAIL_TO"),
			CC:       getenv("MAIL_CC"),
		},
		HomeAssistant: homeassistant.Config{
			BaseURL: getenv("HA_URL"),
			Token:   getenv("HA_TOKEN"),
			Entity:  getenv("HA_ENTITY"),
		},
	}
	if conf.BotToken == "" {
		return Config{}, fmt.Errorf("%w: BOT_TOKEN", ErrMissing)
	}

	admin := getenv("ADMIN_ID")
	if admin == "" {
		return Config{}, fmt.Errorf("%w: ADMIN_ID", ErrMissing)
	}
	id, err := strconv.ParseInt(admin, 10, 64)
	if err != nil {
		return Config{}, fmt.Errorf("ADMIN_ID %q is not a number: %w", admin, err)
	}
	conf.AdminID = id

	for _, s := range []struct {
		key string
		def time.Duration
		dst *time.Duration
	}{
		{key: "CHECK_INTERVAL", def: DefaultInterval, dst: &conf.Interval},
		{key: "INITIAL_DELAY", def: DefaultInitialDelay, dst: &conf.InitialDelay},
		{key: "NAV_TIMEOUT", def: browser.DefaultNavTimeout, dst: &conf.Browser.NavTimeout},
		{key: "SETTLE_DELAY", def: browser.DefaultSettle, dst: &conf.Browser.Settle},
	} {
		if *s.dst, err = seconds(getenv(s.key), s.def); err != nil {
			return Config{}, fmt.Errorf("%s: %w", s.key, err)
		}
	}
	if conf.Interval <= 0 {
		return Config{}, fmt.Errorf("CHECK_INTERVAL must be positive")
	}

	conf.Mail.Port = DefaultMailPort
	if p := getenv("MAIL_PORT"); p != "" {
		if conf.Mail.Port, err = strconv.Atoi(p); err != nil {
			return Config{}, fmt.Errorf("MAIL_PORT %q is not a number: %w", p, err)
		}
	}

	conf.Location = time.Local
	if tz := getenv("REPORT_TZ"); tz != "" {
		if conf.Location, err = time.LoadLocation(tz); err != nil {
			return Config{}, fmt.Errorf("REPORT_TZ: %w", err)
		}
	}

	if lvl := getenv("LOG_LEVEL"); lvl != "" {
		if err := conf.LogLevel.UnmarshalText([]byte(lvl)); err != nil {
			return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
		}
	}

	if path := getenv("CONFIG_FILE"); path != "" {
		if err := conf.applyFile(path); err != nil {
			return Config{}, err
		}
	}

	return conf, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to unmarshal config yaml from %s: %w", path, err)
	}

	c.Categories = append(c.Categories, fc.Categories...)
	if len(fc.Buckets) > 0 {
		if err := fc.Buckets.Validate(); err != nil {
			return fmt.Errorf("config file %s: %w", path, err)
		}
		c.Buckets = fc.Buckets
	}
	if fc.Selectors.Product != "" {
		c.Selectors.Product = fc.Selectors.Product
	}
	if fc.Selectors.Price != "" {
		c.Selectors.Price = fc.Selectors.Price
	}
	if fc.Selectors.Size != "" {
		c.Selectors.Size = fc.Selectors.Size
	}

	return nil
}

func seconds(val string, def time.Duration) (time.Duration, error) {
	if val == "" {
		return def, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number of seconds: %w", val, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("%d is negative", n)
	}
	return time.Duration(n) * time.Second, nil
}
