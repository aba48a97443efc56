// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/storycards/internal/card"
	"github.com/pdiddy/storycards/internal/prompt"
	"github.com/pdiddy/storycards/pkg/types"
)

// --- boards subcommand ---

var boardsCmd = &cobra.Command{
	Use:   "boards",
	Short: "List the open boards of the Trello account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newTrelloClient()
		if err != nil {
			return err
		}
		boards, err := client.Boards(cmd.Context())
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		return writeFormatted(cmd.OutOrStdout(), format, boards, func(w io.Writer) {
			for _, b := range boards {
				fmt.Fprintln(w, prompt.Choice{ID: b.ID, Name: b.Name})
			}
		})
	},
}

// --- lists subcommand ---

var listsCmd = &cobra.Command{
	Use:   "lists BOARD",
	Short: "List the lists of a board (id or name)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client, err := newTrelloClient()
		if err != nil {
			return err
		}
		boardID, err := chooseBoard(ctx, client, &prompt.Scripted{}, args[0])
		if err != nil {
			return err
		}
		lists, err := client.Lists(ctx, boardID)
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		return writeFormatted(cmd.OutOrStdout(), format, lists, func(w io.Writer) {
			for _, l := range lists {
				fmt.Fprintln(w, prompt.Choice{ID: l.ID, Name: l.Name})
			}
		})
	},
}

// --- cards subcommand ---

var cardsCmd = &cobra.Command{
	Use:   "cards BOARD LIST",
	Short: "Preview the cards of a list as they would be printed",
	Long: `Cards fetches every card of a list and shows the normalized title,
description and footer label without rendering anything. Use --format yaml
or --format json to export them.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client, err := newTrelloClient()
		if err != nil {
			return err
		}
		boardID, err := chooseBoard(ctx, client, &prompt.Scripted{}, args[0])
		if err != nil {
			return err
		}
		listID, err := chooseList(ctx, client, &prompt.Scripted{}, boardID, args[1])
		if err != nil {
			return err
		}

		summaries, err := client.Cards(ctx, listID)
		if err != nil {
			return err
		}
		cards := make([]types.NormalizedCard, 0, len(summaries))
		for _, s := range summaries {
			raw, err := client.Card(ctx, s.ID)
			if err != nil {
				return err
			}
			cards = append(cards, card.Normalize(raw))
		}

		format, _ := cmd.Flags().GetString("format")
		return writeFormatted(cmd.OutOrStdout(), format, cards, func(w io.Writer) {
			printCardTable(w, cards)
		})
	},
}

func printCardTable(w io.Writer, cards []types.NormalizedCard) {
	if len(cards) == 0 {
		fmt.Fprintln(w, "No cards found.")
		return
	}
	fmt.Fprintf(w, "%-24s  %-40s  %-16s  %s\n", "ID", "Title", "Footer", "Description")
	fmt.Fprintln(w, strings.Repeat("-", 110))
	for _, c := range cards {
		job := card.Job(c)
		fmt.Fprintf(w, "%-24s  %-40s  %-16s  %s\n",
			c.ID, truncate(job.Title, 40), truncate(job.Footer, 16), truncate(job.Body, 30))
	}
}

func init() {
	for _, c := range []*cobra.Command{boardsCmd, listsCmd, cardsCmd} {
		c.Flags().String("format", formatTable, "output format: table, yaml, json")
		rootCmd.AddCommand(c)
	}
}
