package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"relaybot/bot"
	"relaybot/bus"
	"relaybot/config"
	"relaybot/paramstore"
	"relaybot/report"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	configFile string
	release    = "relaybot@dev"
)

var rootCmd = &cobra.Command{
	Use:           "relaybot <command>",
	Short:         "Discord bot translating the messages of a relay channel",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Connect to Discord and serve commands and translations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return run(ctx)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./config.toml if present)")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(channelsCmd)
}

func newLogger(w io.Writer, level charmlog.Level) *slog.Logger {
	return slog.New(charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "relaybot",
	}))
}

func run(ctx context.Context) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if err := cfg.RequireToken(); err != nil {
		return err
	}

	log := newLogger(os.Stderr, cfg.Bot.LogLevel)
	slog.SetDefault(log)

	if err := report.Init(report.Options{
		DSN:         cfg.Sentry.DSN,
		Environment: cfg.Sentry.Environment,
		Release:     release,
	}, log); err != nil {
		log.Warn("Error reporting unavailable", slog.String("err", err.Error()))
	}
	defer report.Flush()

	var params paramstore.Getter
	if cfg.Discord.Token == "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return fmt.Errorf("loading AWS config: %w", err)
		}
		params, err = paramstore.New(ssm.NewFromConfig(awsCfg))
		if err != nil {
			return err
		}
	}
	token, err := paramstore.ResolveToken(ctx, params, cfg.Discord.Token, cfg.Discord.TokenParam)
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Error("Failed to close registry", slog.String("err", err.Error()))
		}
	}()

	t, err := newTranslator(cfg)
	if err != nil {
		return err
	}

	var publisher bus.Publisher = bus.NoopPublisher{}
	if cfg.NATSURL != "" {
		p, err := bus.NewNATSPublisher(cfg.NATSURL)
		if err != nil {
			return err
		}
		publisher = p
		log.Info("Publishing relay events", slog.String("nats", cfg.NATSURL))
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error("Failed to close event bus", slog.String("err", err.Error()))
		}
	}()

	b, err := bot.NewBot(token, store, t, log, bot.Options{
		Prefix:         cfg.Bot.Prefix,
		Target:         cfg.Bot.TargetLanguage,
		CaptureTimeout: cfg.Bot.CaptureTimeout,
		Publisher:      publisher,
	})
	if err != nil {
		return fmt.Errorf("creating bot: %w", err)
	}

	if err := b.Start(ctx); err != nil {
		return fmt.Errorf("starting bot: %w", err)
	}

	log.Info("Bot running, press Ctrl+C to stop")
	<-ctx.Done()
	log.Info("Shutting down")

	return b.Stop()
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
