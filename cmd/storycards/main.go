// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the storycards CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/storycards/internal/render"
	"github.com/pdiddy/storycards/internal/secrets"
	"github.com/pdiddy/storycards/internal/trello"
	"github.com/pdiddy/storycards/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// cfg is resolved once in PersistentPreRunE and read-only afterwards.
	cfg types.Config

	logger = slog.New(slog.DiscardHandler)
)

// rootCmd is the base command for the storycards CLI.
var rootCmd = &cobra.Command{
	Use:   "storycards",
	Short: "Print Trello cards as one-page PDF story cards",
	Long: `storycards fetches the cards of a Trello list and renders each one as a
single landscape PDF page for a physical Scrum board: the card title as a
heading, the description, and the first label as a footer.

Cards printed in earlier runs are remembered in a ledger and, by default,
the operator is asked before printing them again.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		c, err := resolveConfig(viper.GetViper())
		if err != nil {
			return err
		}
		cfg = c
		logger.Debug("configuration resolved",
			"output_dir", cfg.OutputDir, "ledger", cfg.LedgerPath, "mode", cfg.Mode)
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./storycards.yaml or ~/.config/storycards/config.yaml)")
	pf.String("output-dir", "pdf", "directory receiving the generated PDFs")
	pf.String("ledger", filepath.Join("config", "printed_cards.json"), "JSON file listing printed card ids")
	pf.String("history-db", filepath.Join("config", "history.db"), "SQLite render history (empty disables)")
	pf.String("secrets-dir", ".secrets", "directory holding trello-api-key and trello-token")
	pf.BoolP("verbose", "v", false, "log diagnostics to stderr")

	// Flags win over the config file and environment when set.
	_ = viper.BindPFlag("output_dir", pf.Lookup("output-dir"))
	_ = viper.BindPFlag("ledger_path", pf.Lookup("ledger"))
	_ = viper.BindPFlag("history_db", pf.Lookup("history-db"))
	_ = viper.BindPFlag("secrets_dir", pf.Lookup("secrets-dir"))

	viper.SetDefault("mode", string(types.ModeDedup))
	viper.SetDefault("keep_going", false)
	viper.SetDefault("trello.api_url", trello.DefaultAPIURL)
	viper.SetDefault("trello.api_key", "")
	viper.SetDefault("trello.token", "")
	viper.SetDefault("trello.timeout", "30s")
	viper.SetDefault("trello.max_retries", 5)
	viper.SetDefault("renderer.image", render.DefaultImage)
	viper.SetDefault("renderer.runtime", "auto")
	viper.SetDefault("renderer.page_size", render.DefaultPageSize)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("storycards")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "storycards"))
		}
	}

	viper.SetEnvPrefix("STORYCARDS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// resolveConfig decodes the run configuration from flags, config file and
// environment, then fills Trello credentials from the secrets directory
// when they are not set explicitly.
func resolveConfig(v *viper.Viper) (types.Config, error) {
	var c types.Config
	if err := v.Unmarshal(&c); err != nil {
		return types.Config{}, fmt.Errorf("decoding configuration: %w", err)
	}
	c.Trello.UserAgent = "storycards/" + version
	if !c.Mode.Valid() {
		return types.Config{}, fmt.Errorf("unknown mode %q: use dedup or unconditional", c.Mode)
	}

	s, err := secrets.Load(c.SecretsDir, logger)
	if err != nil {
		return types.Config{}, err
	}
	if c.Trello.APIKey == "" {
		c.Trello.APIKey = s[secrets.KeyTrelloAPIKey]
	}
	if c.Trello.Token == "" {
		c.Trello.Token = s[secrets.KeyTrelloToken]
	}
	return c, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
