// Package config loads the bot configuration from config.toml and ARTBOT_ environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const envPrefix = "ARTBOT"

var ErrMissingToken = errors.New("telegram.bot_token is not set")

type Config struct {
	Bot       BotConfig       `mapstructure:"bot"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Converter ConverterConfig `mapstructure:"converter"`
	Handler   HandlerConfig   `mapstructure:"handler"`
	Session   SessionConfig   `mapstructure:"session"`
}

type BotConfig struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	// DailyConversionLimit caps successful conversions per chat and day, 0 disables the cap.
	DailyConversionLimit int `mapstructure:"daily_conversion_limit"`
}

type ConverterConfig struct {
	URL            string `mapstructure:"url"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes"`
	MaxDimension   int    `mapstructure:"max_dimension"`
}

type HandlerConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type SessionConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("bot.log_level", "info")
	v.SetDefault("bot.log_format", "json")
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.daily_conversion_limit", 0)
	v.SetDefault("converter.url", "https://artistic-image-converter.onrender.com")
	v.SetDefault("converter.max_upload_bytes", 16<<20)
	v.SetDefault("converter.max_dimension", 2560)
	v.SetDefault("handler.timeout", "2m")
	v.SetDefault("session.timeout", "1h")
}

// Load reads config.toml from the first of paths that has one and applies environment overrides such as
// ARTBOT_TELEGRAM_BOT_TOKEN. A missing file is not an error, a missing token is.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		log.Warn().Strs("paths", paths).Msg("no config file found, using defaults and environment")
	} else {
		log.Info().Str("file", v.ConfigFileUsed()).Msg("read config file")
	}

	var c Config
	err = v.Unmarshal(&c)
	if err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	err = c.Validate()
	if err != nil {
		return nil, err
	}

	return &c, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Telegram.BotToken) == "" {
		return ErrMissingToken
	}

	if c.Converter.URL == "" {
		return errors.New("converter.url is not set")
	}

	if c.Converter.MaxUploadBytes <= 0 {
		return fmt.Errorf("converter.max_upload_bytes must be positive, got %d", c.Converter.MaxUploadBytes)
	}

	if c.Converter.MaxDimension < 0 {
		return fmt.Errorf("converter.max_dimension must not be negative, got %d", c.Converter.MaxDimension)
	}

	if c.Handler.Timeout <= 0 {
		return fmt.Errorf("handler.timeout must be positive, got %s", c.Handler.Timeout)
	}

	if c.Telegram.DailyConversionLimit < 0 {
		return fmt.Errorf("telegram.daily_conversion_limit must not be negative, got %d",
			c.Telegram.DailyConversionLimit)
	}

	return nil
}
