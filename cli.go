package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"relaybot/config"
	"relaybot/db"
	"relaybot/db/dynamo"
	"relaybot/translator"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/spf13/cobra"
)

type store interface {
	db.Registry
	db.Lister
}

// openStore opens the configured registry backend. The returned func
// releases it.
func openStore(ctx context.Context, cfg *config.Config) (store, func() error, error) {
	switch cfg.Registry.Backend {
	case config.RegistryDynamoDB:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("loading AWS config: %w", err)
		}
		c, err := dynamo.New(dynamodb.NewFromConfig(awsCfg), cfg.Registry.DynamoTable)
		if err != nil {
			return nil, nil, err
		}
		return c, func() error { return nil }, nil

	default:
		conn, err := db.Open(cfg.Registry.Driver, cfg.Registry.URL)
		if err != nil {
			return nil, nil, err
		}
		q, err := db.Prepare(ctx, conn)
		if err != nil {
			return nil, nil, errors.Join(err, conn.Close())
		}
		return q, conn.Close, nil
	}
}

func newTranslator(cfg *config.Config) (translator.Translator, error) {
	switch cfg.Translator.Backend {
	case config.TranslatorGoogle:
		return translator.NewGoogle(cfg.Translator.GoogleURL), nil
	case config.TranslatorOpenRouter:
		return translator.NewOpenRouter(cfg.Translator.OpenRouterKey, cfg.Translator.OpenRouterModel), nil
	case config.TranslatorMock:
		return translator.NewMockTranslator(), nil
	default:
		return nil, fmt.Errorf("unknown translator backend %q", cfg.Translator.Backend)
	}
}

// withStore loads the configuration and runs fn against the registry.
func withStore(cmd *cobra.Command, fn func(ctx context.Context, s store) error) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	s, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	return errors.Join(fn(ctx, s), closeStore())
}

var channelsCmd = &cobra.Command{
	Use:   "channels",
	Short: "Inspect and edit relay channels without the bot",
}

var channelsGetCmd = &cobra.Command{
	Use:   "get <guild-id>",
	Short: "Show the relay channel of a guild",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, s store) error {
			ch, err := s.RelayChannel(ctx, args[0])
			if errors.Is(err, db.ErrNotFound) {
				return fmt.Errorf("guild %s has no relay channel", args[0])
			} else if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ch)
			return nil
		})
	},
}

var channelsSetCmd = &cobra.Command{
	Use:   "set <guild-id> <channel-id>",
	Short: "Set the relay channel of a guild",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, s store) error {
			if err := s.SetRelayChannel(ctx, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Relay channel of guild %s set to %s\n", args[0], args[1])
			return nil
		})
	},
}

var channelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every configured relay channel",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withStore(cmd, func(ctx context.Context, s store) error {
			cs, err := s.List(ctx)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "GUILD\tCHANNEL")
			for _, c := range cs {
				fmt.Fprintf(w, "%s\t%s\n", c.GuildID, c.ChannelID)
			}
			return w.Flush()
		})
	},
}

func init() {
	channelsCmd.AddCommand(channelsGetCmd, channelsSetCmd, channelsListCmd)
}
