package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/kova98/aidigest/enums"
)

var ErrMissingEnv = errors.New("missing environment variables")

const (
	EnvDevelopment = "DEV"
	EnvProduction  = "PROD"
)

const (
	KeyOpenAIAPIKey  = "OPENAI_API_KEY"
	KeySenderEmail   = "SENDER_EMAIL"
	KeyEmailPassword = "EMAIL_PASSWORD"
	KeyReceiverEmail = "RECEIVER_EMAIL"
)

const (
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultOpenAIModel   = "gpt-4o-mini"
	DefaultTemperature   = 0.7
	DefaultMaxTokens     = 2000
	DefaultTimeout       = 60 * time.Second
	DefaultSMTPHost      = "smtp.gmail.com"
	DefaultSMTPPort      = 465
	DefaultProfile       = "fr"
)

type AppConfig struct {
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	OpenAIModel    string
	Temperature    float64
	MaxTokens      int
	RequestTimeout time.Duration
	ProxyURL       string

	SenderEmail   string
	EmailPassword string
	ReceiverEmail string
	SMTPHost      string
	SMTPPort      int
	MailProvider  enums.MailProvider

	Format        enums.BodyType
	HTMLMode      enums.HTMLMode
	PromptProfile string
	DryRun        bool

	AppEnv   string // EnvDevelopment or EnvProduction
	LogLevel slog.Level
}

// LoadConfig reads the process environment once. Missing credentials are not fatal
// here: each pipeline stage checks the values it needs before touching the network.
func LoadConfig() AppConfig {
	cfg := AppConfig{}

	cfg.AppEnv = os.Getenv("APP_ENV")

	cfg.OpenAIAPIKey = loadRequired(KeyOpenAIAPIKey)
	cfg.OpenAIBaseURL = strings.TrimRight(loadOptional("OPENAI_BASE_URL", DefaultOpenAIBaseURL), "/")
	cfg.OpenAIModel = loadOptional("OPENAI_MODEL", DefaultOpenAIModel)
	cfg.Temperature = loadFloat("OPENAI_TEMPERATURE", DefaultTemperature)
	cfg.MaxTokens = loadInt("OPENAI_MAX_TOKENS", DefaultMaxTokens)
	cfg.RequestTimeout = loadDuration("OPENAI_TIMEOUT", DefaultTimeout)
	cfg.ProxyURL = os.Getenv("PROXY_URL")

	cfg.SenderEmail = loadRequired(KeySenderEmail)
	cfg.EmailPassword = loadRequired(KeyEmailPassword)
	cfg.ReceiverEmail = loadRequired(KeyReceiverEmail)
	cfg.SMTPHost = loadOptional("SMTP_HOST", DefaultSMTPHost)
	cfg.SMTPPort = loadInt("SMTP_PORT", DefaultSMTPPort)

	cfg.MailProvider = enums.ParseMailProvider(loadOptional("MAIL_PROVIDER", string(enums.MailProviderSMTP)))
	if cfg.MailProvider == enums.MailProviderInvalid {
		slog.Error("Invalid MAIL_PROVIDER, using smtp", "value", os.Getenv("MAIL_PROVIDER"))
		cfg.MailProvider = enums.MailProviderSMTP
	}

	cfg.Format = enums.ParseBodyType(loadOptional("EMAIL_FORMAT", string(enums.BodyTypeText)))
	if cfg.Format == enums.BodyTypeInvalid {
		slog.Error("Invalid EMAIL_FORMAT, using text", "value", os.Getenv("EMAIL_FORMAT"))
		cfg.Format = enums.BodyTypeText
	}

	cfg.HTMLMode = enums.ParseHTMLMode(loadOptional("HTML_MODE", string(enums.HTMLModeLiteral)))
	if cfg.HTMLMode == enums.HTMLModeInvalid {
		slog.Error("Invalid HTML_MODE, using literal", "value", os.Getenv("HTML_MODE"))
		cfg.HTMLMode = enums.HTMLModeLiteral
	}

	cfg.PromptProfile = loadOptional("PROMPT_PROFILE", DefaultProfile)

	lvlString := loadOptional("LOG_LEVEL", "INFO")
	var err error
	cfg.LogLevel, err = ParseLogLevel(lvlString)
	if err != nil {
		slog.Error("Invalid LOG_LEVEL", "error", err)
		cfg.LogLevel = slog.LevelInfo
	}

	return cfg
}

// MissingMailEnv lists the mail variables that are unset, in a stable order.
func (c AppConfig) MissingMailEnv() []string {
	var missing []string
	if c.SenderEmail == "" {
		missing = append(missing, KeySenderEmail)
	}
	if c.EmailPassword == "" {
		missing = append(missing, KeyEmailPassword)
	}
	if c.ReceiverEmail == "" {
		missing = append(missing, KeyReceiverEmail)
	}
	return missing
}

// CheckMail fails with ErrMissingEnv naming every unset mail variable.
func (c AppConfig) CheckMail() error {
	if missing := c.MissingMailEnv(); len(missing) > 0 {
		return errors.Wrap(ErrMissingEnv, strings.Join(missing, ", "))
	}
	return nil
}

func (c AppConfig) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

func (c AppConfig) IsDevelopment() bool {
	return c.AppEnv == EnvDevelopment
}

func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	var err = level.UnmarshalText([]byte(s))
	return level, err
}

func loadRequired(key string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		slog.Warn("Required env var not set", "key", key)
	}
	return value
}

func loadOptional(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func loadInt(key string, defaultValue int) int {
	raw := loadOptional(key, "")
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		slog.Error("Invalid integer env var, using default", "key", key, "value", raw, "default", defaultValue)
		return defaultValue
	}
	return value
}

func loadFloat(key string, defaultValue float64) float64 {
	raw := loadOptional(key, "")
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value < 0 {
		slog.Error("Invalid float env var, using default", "key", key, "value", raw, "default", defaultValue)
		return defaultValue
	}
	return value
}

func loadDuration(key string, defaultValue time.Duration) time.Duration {
	raw := loadOptional(key, "")
	if raw == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		slog.Error("Invalid duration env var, using default", "key", key, "value", raw, "default", defaultValue)
		return defaultValue
	}
	return value
}
