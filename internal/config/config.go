package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/otp-dispatch/internal/domain"
	"github.com/otp-dispatch/internal/pkg/validate"
)

// Delivery channels.
const (
	ChannelWhatsApp = "whatsapp"
	ChannelSMS      = "sms"
)

// Config holds all runtime configuration loaded from environment variables.
// The env tag names the variable; validation errors report it.
type Config struct {
	AppEnv  string `env:"APP_ENV"`
	Channel string `env:"OTP_CHANNEL" validate:"oneof=whatsapp sms"`

	AccessToken   string `env:"WHATSAPP_ACCESS_TOKEN" validate:"required_if=Channel whatsapp"`
	PhoneNumberID string `env:"WHATSAPP_PHONE_NUMBER_ID" validate:"required_if=Channel whatsapp"`
	APIBaseURL    string `env:"WHATSAPP_API_URL" validate:"required,url"`

	Recipient    string `env:"OTP_RECIPIENT" validate:"required,e164"`
	TemplateName string `env:"OTP_TEMPLATE_NAME" validate:"required"`
	LanguageCode string `env:"OTP_LANGUAGE_CODE" validate:"required"`

	HTTPTimeoutSeconds int `env:"HTTP_TIMEOUT_SECONDS" validate:"gt=0"`

	AWSEndpointURL string `env:"AWS_ENDPOINT_URL"` // empty in prod, LocalStack URL in dev
	AWSAccessKeyID string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretKey   string `env:"AWS_SECRET_ACCESS_KEY"`
	SNSRegion      string `env:"SNS_REGION" validate:"required_if=Channel sms"`
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Channel:            getEnv("OTP_CHANNEL", ChannelWhatsApp),
		AccessToken:        getEnv("WHATSAPP_ACCESS_TOKEN", ""),
		PhoneNumberID:      getEnv("WHATSAPP_PHONE_NUMBER_ID", ""),
		APIBaseURL:         getEnv("WHATSAPP_API_URL", "https://graph.facebook.com/v21.0"),
		Recipient:          getEnv("OTP_RECIPIENT", ""),
		TemplateName:       getEnv("OTP_TEMPLATE_NAME", "otp_verification"),
		LanguageCode:       getEnv("OTP_LANGUAGE_CODE", domain.DefaultLanguageCode),
		HTTPTimeoutSeconds: getEnvInt("HTTP_TIMEOUT_SECONDS", 10),
		AWSEndpointURL:     getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:       getEnv("AWS_SECRET_ACCESS_KEY", ""),
		SNSRegion:          getEnv("SNS_REGION", getEnv("AWS_REGION", "us-east-1")),
	}
}

// BindFlags lets command-line flags override the per-run values.
// Defaults are the values already loaded, so unset flags change nothing.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Recipient, "to", c.Recipient, "recipient phone number in international format, e.g. +919876543210")
	fs.StringVar(&c.TemplateName, "template", c.TemplateName, "approved message template name")
	fs.StringVar(&c.LanguageCode, "lang", c.LanguageCode, "template language code")
	fs.StringVar(&c.Channel, "channel", c.Channel, "delivery channel: whatsapp or sms")
}

// Validate checks the configuration is complete for the selected channel.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}
	return nil
}

// HTTPTimeout bounds the single provider call.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// IsProduction reports whether logs should be machine-readable.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
