// File: internal/config/config.go
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type WebConfig struct {
	Port     int    `yaml:"port"`
	AdminKey string `yaml:"admin_key"` // bearer key for the control surface
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type BotConfig struct {
	Token string `yaml:"token"`
}

type HHConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURI  string `yaml:"redirect_uri"`
	OAuthBase    string `yaml:"oauth_base"`
	APIBase      string `yaml:"api_base"`
	UserAgent    string `yaml:"user_agent"`
}

type PaymentConfig struct {
	CloudPayments struct {
		PublicID  string `yaml:"public_id"`
		APISecret string `yaml:"api_secret"`
	} `yaml:"cloudpayments"`
	ReturnBotURL string `yaml:"return_bot_url"`
}

type SchedulerConfig struct {
	AutoPollEvery   time.Duration `yaml:"auto_poll_every"`
	DispatchEvery   time.Duration `yaml:"dispatch_every"`
	NotifierEvery   time.Duration `yaml:"notifier_every"`
	NotifierEnabled bool          `yaml:"notifier_enabled"`
}

type QuotaConfig struct {
	FreeDaily int `yaml:"free_daily"`
	PaidDaily int `yaml:"paid_daily"`
	HardCap   int `yaml:"hard_cap"`
}

type Config struct {
	Log       LogConfig       `yaml:"log"`
	Web       WebConfig       `yaml:"web"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Bot       BotConfig       `yaml:"bot"`
	HH        HHConfig        `yaml:"hh"`
	Payment   PaymentConfig   `yaml:"payment"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Quota     QuotaConfig     `yaml:"quota"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig() (*Config, error) {
	var configPath string
	var dev bool
	flag.StringVar(&configPath, "config", "config.yaml", "path to config yaml")
	flag.BoolVar(&dev, "dev", false, "development mode")
	flag.Parse()

	b, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(b)
	if err != nil {
		return nil, err
	}
	cfg.Runtime.Dev = dev
	return cfg, nil
}

// Parse unmarshals yaml, applies env overrides, fills defaults and validates.
// Split out of LoadConfig so tests can feed raw yaml without flags.
func Parse(b []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv lets secrets be injected without touching the yaml file.
func (c *Config) applyEnv() {
	overrideStr(&c.Database.URL, "DATABASE_URL")
	overrideStr(&c.Redis.URL, "REDIS_URL")
	overrideStr(&c.Bot.Token, "TELEGRAM_BOT_TOKEN")
	overrideStr(&c.HH.ClientID, "HH_CLIENT_ID")
	overrideStr(&c.HH.ClientSecret, "HH_CLIENT_SECRET")
	overrideStr(&c.HH.RedirectURI, "HH_REDIRECT_URI")
	overrideStr(&c.HH.OAuthBase, "HH_OAUTH_BASE")
	overrideStr(&c.HH.APIBase, "HH_API_BASE")
	overrideStr(&c.Payment.CloudPayments.PublicID, "CP_PUBLIC_ID")
	overrideStr(&c.Payment.CloudPayments.APISecret, "CP_API_SECRET")
	overrideStr(&c.Payment.ReturnBotURL, "PAY_RETURN_BOT_URL")
	overrideStr(&c.Web.AdminKey, "ADMIN_KEY")
	overrideInt(&c.Web.Port, "PORT")
	overrideSec(&c.Scheduler.AutoPollEvery, "AUTO_POLL_EVERY_SEC")
	overrideSec(&c.Scheduler.DispatchEvery, "DISPATCH_EVERY_SEC")
	overrideBool(&c.Scheduler.NotifierEnabled, "NOTIFIER_ENABLED")
	overrideInt(&c.Quota.FreeDaily, "FREE_DAILY_CAP")
	overrideInt(&c.Quota.PaidDaily, "PAID_DAILY_CAP")
	overrideInt(&c.Quota.HardCap, "HARD_DAILY_CAP")
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Web.Port <= 0 {
		c.Web.Port = 8080
	}
	if c.HH.OAuthBase == "" {
		c.HH.OAuthBase = "https://hh.ru"
	}
	if c.HH.APIBase == "" {
		c.HH.APIBase = "https://api.hh.ru"
	}
	if c.HH.UserAgent == "" {
		c.HH.UserAgent = "hh-offerbot/1.0"
	}
	if c.Scheduler.AutoPollEvery <= 0 {
		c.Scheduler.AutoPollEvery = 300 * time.Second
	}
	if c.Scheduler.DispatchEvery <= 0 {
		c.Scheduler.DispatchEvery = 5 * time.Second
	}
	if c.Scheduler.NotifierEvery <= 0 {
		c.Scheduler.NotifierEvery = 15 * time.Second
	}
	if c.Quota.FreeDaily <= 0 {
		c.Quota.FreeDaily = 10
	}
	if c.Quota.PaidDaily <= 0 {
		c.Quota.PaidDaily = 200
	}
	if c.Quota.HardCap <= 0 {
		c.Quota.HardCap = 200
	}
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return errors.New("database.url is required")
	}
	if c.Redis.URL == "" {
		return errors.New("redis.url is required")
	}
	if c.HH.ClientID == "" || c.HH.ClientSecret == "" {
		return errors.New("hh.client_id and hh.client_secret are required")
	}
	return nil
}

func overrideStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func overrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func overrideSec(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = time.Duration(n) * time.Second
		}
	}
}

func overrideBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
