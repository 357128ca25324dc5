// Package config loads the bot settings from an optional config.toml, an
// optional .env file and RELAYBOT_ prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"
	"time"

	"relaybot/db"
	"relaybot/translator"

	charmlog "github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	RegistrySQL      = "sql"
	RegistryDynamoDB = "dynamodb"

	TranslatorGoogle     = "google"
	TranslatorOpenRouter = "openrouter"
	TranslatorMock       = "mock"
)

var ErrInvalid = errors.New("Invalid configuration")

type Config struct {
	Discord    Discord
	Bot        Bot
	Registry   Registry
	Translator Translator
	NATSURL    string
	Sentry     Sentry
}

type Discord struct {
	Token string
	// TokenParam names an SSM parameter holding the token.
	TokenParam string
}

type Bot struct {
	Prefix         string
	TargetLanguage translator.Language
	CaptureTimeout time.Duration
	LogLevel       charmlog.Level
}

type Registry struct {
	Backend     string
	Driver      string
	URL         string
	DynamoTable string
}

type Translator struct {
	Backend         string
	GoogleURL       string
	OpenRouterKey   string
	OpenRouterModel string
}

type Sentry struct {
	DSN         string
	Environment string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("discord.token", "")
	v.SetDefault("discord.token_param", "")
	v.SetDefault("bot.prefix", "!")
	v.SetDefault("bot.target_language", string(translator.AR))
	v.SetDefault("bot.capture_timeout", "60s")
	v.SetDefault("bot.log_level", "info")
	v.SetDefault("registry.backend", RegistrySQL)
	v.SetDefault("database.driver", db.DriverLibSQL)
	v.SetDefault("database.url", "file:./translation_channels.db")
	v.SetDefault("dynamodb.table", "channels")
	v.SetDefault("translator.backend", TranslatorGoogle)
	v.SetDefault("translator.google_url", translator.DefaultGoogleURL)
	v.SetDefault("openrouter.api_key", "")
	v.SetDefault("openrouter.model", "openai/gpt-4o-mini")
	v.SetDefault("nats.url", "")
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "production")
}

// Load reads the configuration. With an empty file, config.toml is looked up
// in the working directory and may be absent.
func Load(file string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: loading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("RELAYBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("discord.token", "RELAYBOT_DISCORD_TOKEN", "DISCORD_TOKEN"); err != nil {
		return nil, fmt.Errorf("config: binding env: %w", err)
	}

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
	}

	return parse(v)
}

func parse(v *viper.Viper) (*Config, error) {
	var errs []error

	lang, err := translator.ParseLanguage(v.GetString("bot.target_language"))
	if err != nil {
		errs = append(errs, fmt.Errorf("bot.target_language: %w", err))
	}

	timeout, err := time.ParseDuration(v.GetString("bot.capture_timeout"))
	if err != nil {
		errs = append(errs, fmt.Errorf("bot.capture_timeout: %w", err))
	} else if timeout <= 0 {
		errs = append(errs, fmt.Errorf("bot.capture_timeout: must be positive, got %s", timeout))
	}

	level, err := charmlog.ParseLevel(v.GetString("bot.log_level"))
	if err != nil {
		errs = append(errs, fmt.Errorf("bot.log_level: %w", err))
	}

	c := &Config{
		Discord: Discord{
			Token:      strings.TrimSpace(v.GetString("discord.token")),
			TokenParam: strings.TrimSpace(v.GetString("discord.token_param")),
		},
		Bot: Bot{
			Prefix:         v.GetString("bot.prefix"),
			TargetLanguage: lang,
			CaptureTimeout: timeout,
			LogLevel:       level,
		},
		Registry: Registry{
			Backend:     v.GetString("registry.backend"),
			Driver:      v.GetString("database.driver"),
			URL:         v.GetString("database.url"),
			DynamoTable: v.GetString("dynamodb.table"),
		},
		Translator: Translator{
			Backend:         v.GetString("translator.backend"),
			GoogleURL:       v.GetString("translator.google_url"),
			OpenRouterKey:   v.GetString("openrouter.api_key"),
			OpenRouterModel: v.GetString("openrouter.model"),
		},
		NATSURL: v.GetString("nats.url"),
		Sentry: Sentry{
			DSN:         v.GetString("sentry.dsn"),
			Environment: v.GetString("sentry.environment"),
		},
	}

	if c.Bot.Prefix == "" || strings.ContainsAny(c.Bot.Prefix, " \t\n") {
		errs = append(errs, fmt.Errorf("bot.prefix: %q is not a valid prefix", c.Bot.Prefix))
	}

	switch c.Registry.Backend {
	case RegistrySQL:
		if !slices.Contains([]string{db.DriverLibSQL, db.DriverPostgres}, c.Registry.Driver) {
			errs = append(errs, fmt.Errorf("database.driver: unknown driver %q", c.Registry.Driver))
		}
		if c.Registry.URL == "" {
			errs = append(errs, errors.New("database.url: must be set"))
		}
	case RegistryDynamoDB:
		if c.Registry.DynamoTable == "" {
			errs = append(errs, errors.New("dynamodb.table: must be set"))
		}
	default:
		errs = append(errs, fmt.Errorf("registry.backend: unknown backend %q", c.Registry.Backend))
	}

	switch c.Translator.Backend {
	case TranslatorGoogle, TranslatorMock:
	case TranslatorOpenRouter:
		if c.Translator.OpenRouterKey == "" {
			errs = append(errs, errors.New("openrouter.api_key: must be set for the openrouter translator"))
		}
	default:
		errs = append(errs, fmt.Errorf("translator.backend: unknown backend %q", c.Translator.Backend))
	}

	if len(errs) > 0 {
		return nil, errors.Join(append([]error{ErrInvalid}, errs...)...)
	}
	return c, nil
}

// RequireToken fails when neither a token nor a token parameter is set.
// Only running the bot needs one.
func (c *Config) RequireToken() error {
	if c.Discord.Token == "" && c.Discord.TokenParam == "" {
		return errors.Join(ErrInvalid, errors.New("discord.token: set DISCORD_TOKEN or discord.token_param"))
	}
	return nil
}
