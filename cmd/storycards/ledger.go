// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/storycards/internal/ledger"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect or edit the set of printed cards",
	Long: `Ledger manages the JSON file of card ids printed in earlier runs.
Forgetting a card makes the next print treat it as new.`,
}

var ledgerListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the ids of printed cards",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := ledger.Open(cfg.LedgerPath)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, id := range l.IDs() {
			fmt.Fprintln(out, id)
		}
		fmt.Fprintf(out, "%d printed card(s) in %s\n", l.Len(), l.Path())
		return nil
	},
}

var ledgerForgetCmd = &cobra.Command{
	Use:   "forget ID...",
	Short: "Remove card ids from the ledger",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := ledger.Open(cfg.LedgerPath)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, id := range args {
			removed, err := l.Remove(id)
			if err != nil {
				return err
			}
			if removed {
				fmt.Fprintf(out, "forgot: %s\n", id)
			} else {
				fmt.Fprintf(out, "skipped: %s (not in ledger)\n", id)
			}
		}
		return nil
	},
}

var ledgerClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget every printed card",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := ledger.Open(cfg.LedgerPath)
		if err != nil {
			return err
		}
		n := l.Len()
		if err := l.Clear(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "cleared %d card(s) from %s\n", n, l.Path())
		return nil
	},
}

func init() {
	ledgerCmd.AddCommand(ledgerListCmd, ledgerForgetCmd, ledgerClearCmd)
	rootCmd.AddCommand(ledgerCmd)
}
