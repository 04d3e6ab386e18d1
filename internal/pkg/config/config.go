package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	SiteURL   string `env:"SITE_URL,  default=http://localhost:8080"`
	MailFrom  string `env:"MAIL_FROM, default=noreply@pycon.africa"`

	Mongo        MongoConfig
	Redis        RedisConfig
	Registration RegistrationConfig
	Captcha      CaptchaConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=pyconafrica"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// RegistrationConfig toggles the optional registration rules.
type RegistrationConfig struct {
	LowercaseUsername   bool     `env:"REGISTRATION_LOWERCASE_USERNAME,     default=true"`
	UniqueEmail         bool     `env:"REGISTRATION_UNIQUE_EMAIL,           default=true"`
	BannedEmailDomains  []string `env:"REGISTRATION_BANNED_EMAIL_DOMAINS,   default=email.com"`
	RequireTOS          bool     `env:"REGISTRATION_REQUIRE_TOS,            default=true"`
	MinPasswordLength   int      `env:"REGISTRATION_MIN_PASSWORD_LENGTH,    default=8"`
	ActivationDays      int      `env:"REGISTRATION_ACTIVATION_DAYS,        default=7"`
	SendActivationEmail bool     `env:"REGISTRATION_SEND_ACTIVATION_EMAIL,  default=true"`
	EmailSubjectPrefix  string   `env:"REGISTRATION_EMAIL_SUBJECT_PREFIX,   default=[PyCon Africa]"`
}

// ActivationTTL is how long an activation key stays valid.
func (r RegistrationConfig) ActivationTTL() time.Duration {
	return time.Duration(r.ActivationDays) * 24 * time.Hour
}

type CaptchaConfig struct {
	Enabled   bool    `env:"CAPTCHA_ENABLED,    default=false"`
	SecretKey string  `env:"CAPTCHA_SECRET_KEY"`
	VerifyURL string  `env:"CAPTCHA_VERIFY_URL, default=https://www.google.com/recaptcha/api/siteverify"`
	MinScore  float64 `env:"CAPTCHA_MIN_SCORE,  default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration from the given lookuper and checks the
// combinations the server cannot start with.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}

	if cfg.JWTSecret == "" && cfg.Env == "production" {
		return nil, fmt.Errorf("JWT_SECRET is required in production")
	}
	if cfg.Captcha.Enabled && cfg.Captcha.SecretKey == "" {
		return nil, fmt.Errorf("CAPTCHA_SECRET_KEY is required when CAPTCHA_ENABLED is set")
	}
	if cfg.Registration.ActivationDays <= 0 {
		return nil, fmt.Errorf("REGISTRATION_ACTIVATION_DAYS must be positive")
	}
	return &cfg, nil
}
