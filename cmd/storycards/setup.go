// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/storycards/internal/prompt"
	"github.com/pdiddy/storycards/internal/secrets"
	"github.com/pdiddy/storycards/internal/trello"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Store the Trello API key and token",
	Long: `Setup saves the Trello API key and token into the secrets directory,
one owner-readable file each. Values come from --api-key and --token, or
are asked for on the terminal. Generate both at https://trello.com/app-key.

The credentials are checked against the API before they are saved.`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

func runSetup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	apiKey, _ := cmd.Flags().GetString("api-key")
	token, _ := cmd.Flags().GetString("token")

	if apiKey == "" || token == "" {
		p := prompt.NewInteractive(cmd.OutOrStdout())
		defer p.Close()

		var err error
		if apiKey, token, err = askCredentials(ctx, p, apiKey, token); err != nil {
			return err
		}
	}
	if apiKey == "" || token == "" {
		return errors.New("both an API key and a token are required")
	}

	if verify, _ := cmd.Flags().GetBool("verify"); verify {
		tc := cfg.Trello
		tc.APIKey, tc.Token = apiKey, token
		boards, err := trello.New(tc, logger).Boards(ctx)
		if err != nil {
			return fmt.Errorf("checking credentials: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "credentials work: %d open board(s)\n", len(boards))
	}

	if err := secrets.Save(cfg.SecretsDir, secrets.KeyTrelloAPIKey, apiKey); err != nil {
		return err
	}
	if err := secrets.Save(cfg.SecretsDir, secrets.KeyTrelloToken, token); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "saved credentials to %s\n", cfg.SecretsDir)
	return nil
}

// asker reads free-text answers.
type asker interface {
	Ask(ctx context.Context, question string, secret bool) (string, error)
}

// askCredentials asks for whichever of apiKey and token is empty. The
// token is read without echo.
func askCredentials(ctx context.Context, a asker, apiKey, token string) (string, string, error) {
	var err error
	if apiKey == "" {
		if apiKey, err = a.Ask(ctx, "Trello API key", false); err != nil {
			return "", "", err
		}
	}
	if token == "" {
		if token, err = a.Ask(ctx, "Trello token", true); err != nil {
			return "", "", err
		}
	}
	return apiKey, token, nil
}

func init() {
	setupCmd.Flags().String("api-key", "", "Trello API key")
	setupCmd.Flags().String("token", "", "Trello token")
	setupCmd.Flags().Bool("verify", true, "check the credentials against the API before saving")

	rootCmd.AddCommand(setupCmd)
}
