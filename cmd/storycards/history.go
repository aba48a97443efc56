// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/storycards/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently rendered cards",
	Long: `History lists render events recorded by print, newest first. Each
entry names the card, the PDF written and the mode of the run.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	if cfg.HistoryDB == "" {
		return errors.New("history is disabled: set --history-db or history_db")
	}

	store, err := history.Open(cfg.HistoryDB)
	if err != nil {
		return err
	}
	defer store.Close()

	cardID, _ := cmd.Flags().GetString("card")
	limit, _ := cmd.Flags().GetInt("limit")
	entries, err := store.List(cmd.Context(), history.Query{CardID: cardID, Limit: limit})
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	return writeFormatted(cmd.OutOrStdout(), format, entries, func(w io.Writer) {
		printHistoryTable(w, entries)
	})
}

func printHistoryTable(w io.Writer, entries []history.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No renders recorded.")
		return
	}
	fmt.Fprintf(w, "%-20s  %-13s  %-24s  %-32s  %s\n", "Rendered", "Mode", "Card", "Name", "File")
	fmt.Fprintln(w, strings.Repeat("-", 110))
	for _, e := range entries {
		fmt.Fprintf(w, "%-20s  %-13s  %-24s  %-32s  %s\n",
			e.RenderedAt.Local().Format(time.DateTime), e.Mode, e.CardID, truncate(e.Name, 32), e.File)
	}
}

func init() {
	historyCmd.Flags().String("card", "", "only show renders of this card id")
	historyCmd.Flags().Int("limit", 50, "maximum number of entries")
	historyCmd.Flags().String("format", formatTable, "output format: table, yaml, json")

	rootCmd.AddCommand(historyCmd)
}
