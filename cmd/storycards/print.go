// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/storycards/internal/batch"
	"github.com/pdiddy/storycards/internal/container"
	"github.com/pdiddy/storycards/internal/history"
	"github.com/pdiddy/storycards/internal/ledger"
	"github.com/pdiddy/storycards/internal/prompt"
	"github.com/pdiddy/storycards/internal/render"
	"github.com/pdiddy/storycards/internal/secrets"
	"github.com/pdiddy/storycards/internal/trello"
	"github.com/pdiddy/storycards/pkg/types"
)

var printCmd = &cobra.Command{
	Use:   "print",
	Short: "Render every card of a list to PDF",
	Long: `Print asks for a board and a list (or takes them from --board and --list),
then renders each card of the list to <output-dir>/<slug>.pdf.

In dedup mode (the default) cards already in the ledger are confirmed
before printing again; --skip-printed and --reprint answer that question
for every card. In unconditional mode every card is printed.`,
	RunE: runPrint,
}

func init() {
	f := printCmd.Flags()
	f.String("board", "", "board id or name (prompted when empty)")
	f.String("list", "", "list id or name (prompted when empty)")
	f.String("mode", string(types.ModeDedup), "dedup or unconditional")
	f.Bool("skip-printed", false, "skip cards already in the ledger without asking")
	f.Bool("reprint", false, "print cards already in the ledger without asking")
	f.Bool("clean", false, "delete PDFs from previous runs without asking")
	f.Bool("keep-existing", false, "keep PDFs from previous runs without asking")
	f.Bool("keep-going", false, "continue after a card fails to render")
	f.Bool("non-interactive", false, "never prompt; unanswered questions take the safe default")
	f.String("answer", "", "with --non-interactive, answer every yes/no question: yes or no")
	f.String("image", render.DefaultImage, "container image running weasyprint")
	f.String("runtime", "auto", "container runtime: docker, podman, or auto")
	f.String("page-size", render.DefaultPageSize, "CSS page size of a card")

	_ = viper.BindPFlag("mode", f.Lookup("mode"))
	_ = viper.BindPFlag("keep_going", f.Lookup("keep-going"))
	_ = viper.BindPFlag("renderer.image", f.Lookup("image"))
	_ = viper.BindPFlag("renderer.runtime", f.Lookup("runtime"))
	_ = viper.BindPFlag("renderer.page_size", f.Lookup("page-size"))

	printCmd.MarkFlagsMutuallyExclusive("skip-printed", "reprint")
	printCmd.MarkFlagsMutuallyExclusive("clean", "keep-existing")

	rootCmd.AddCommand(printCmd)
}

func runPrint(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	client, err := newTrelloClient()
	if err != nil {
		return err
	}

	// Fail on a missing engine or a corrupt ledger before asking anything.
	rt, err := container.DetectRuntime(cfg.Renderer.Runtime)
	if err != nil {
		return err
	}
	engine, err := render.NewContainerEngine(rt, cfg.Renderer.Image)
	if err != nil {
		return err
	}
	printed, err := ledger.Open(cfg.LedgerPath)
	if err != nil {
		return err
	}

	p, closePrompt, err := newPrompter(cmd)
	if err != nil {
		return err
	}
	defer closePrompt()

	clean, err := decideClean(ctx, cmd, p)
	if err != nil {
		return err
	}
	removed, err := batch.PrepareOutputDir(cfg.OutputDir, clean)
	if err != nil {
		return err
	}
	if removed > 0 {
		fmt.Fprintf(out, "removed %d PDF file(s) from %s\n", removed, cfg.OutputDir)
	}

	boardFlag, _ := cmd.Flags().GetString("board")
	boardID, err := chooseBoard(ctx, client, p, boardFlag)
	if err != nil {
		return err
	}
	listFlag, _ := cmd.Flags().GetString("list")
	listID, err := chooseList(ctx, client, p, boardID, listFlag)
	if err != nil {
		return err
	}

	opts := batch.Options{
		Mode:        cfg.Mode,
		OutputDir:   cfg.OutputDir,
		SkipPrinted: skipFunc(cmd, p),
		KeepGoing:   cfg.KeepGoing,
		Logger:      logger,
	}
	if cfg.HistoryDB != "" {
		store, err := history.Open(cfg.HistoryDB)
		if err != nil {
			return err
		}
		defer store.Close()
		opts.Recorder = store
	}

	renderer := render.New(engine, render.Options{
		Style:    render.Style{PageSize: cfg.Renderer.PageSize},
		Logger:   logger,
		Progress: out,
	})
	o, err := batch.New(renderer, printed, out, opts)
	if err != nil {
		return err
	}

	summary, err := o.PrintList(ctx, client, boardID, listID)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Created %d PDF file(s) in %q, skipped %d cards.\n",
		summary.Rendered, cfg.OutputDir, summary.Skipped)
	if summary.HasFailures() {
		return fmt.Errorf("%d card(s) failed to render", summary.Failed)
	}
	return nil
}

// newTrelloClient returns a client for the configured credentials.
func newTrelloClient() (*trello.Client, error) {
	_, err := secrets.Require(map[string]string{
		secrets.KeyTrelloAPIKey: cfg.Trello.APIKey,
		secrets.KeyTrelloToken:  cfg.Trello.Token,
	}, secrets.KeyTrelloAPIKey, secrets.KeyTrelloToken)
	if err != nil {
		return nil, fmt.Errorf("%w (run \"storycards setup\" or set STORYCARDS_TRELLO_API_KEY and STORYCARDS_TRELLO_TOKEN)", err)
	}
	return trello.New(cfg.Trello, logger), nil
}

// newPrompter returns the terminal prompter, or a scripted one answering
// with --answer when --non-interactive is set.
func newPrompter(cmd *cobra.Command) (prompt.Prompter, func(), error) {
	if nonInteractive, _ := cmd.Flags().GetBool("non-interactive"); nonInteractive {
		s := &prompt.Scripted{}
		answer, _ := cmd.Flags().GetString("answer")
		switch strings.ToLower(answer) {
		case "":
		case "y", "yes":
			s.Answer, s.AnswerSet = true, true
		case "n", "no":
			s.AnswerSet = true
		default:
			return nil, nil, fmt.Errorf("--answer must be yes or no, got %q", answer)
		}
		return s, func() {}, nil
	}
	p := prompt.NewInteractive(cmd.OutOrStdout())
	return p, func() { p.Close() }, nil
}

// decideClean reports whether PDFs from a previous run are deleted.
func decideClean(ctx context.Context, cmd *cobra.Command, p prompt.Prompter) (bool, error) {
	if clean, _ := cmd.Flags().GetBool("clean"); clean {
		return true, nil
	}
	if keep, _ := cmd.Flags().GetBool("keep-existing"); keep {
		return false, nil
	}

	existing, err := batch.ExistingPDFs(cfg.OutputDir)
	if err != nil || len(existing) == 0 {
		return false, err
	}
	ok, err := p.Confirm(ctx, fmt.Sprintf("Found %d generated file(s) in %s, shall I delete them?", len(existing), cfg.OutputDir))
	if errors.Is(err, prompt.ErrNoAnswer) {
		return false, nil
	}
	return ok, err
}

// skipFunc answers "skip this already printed card?" from flags, or asks.
func skipFunc(cmd *cobra.Command, p prompt.Prompter) batch.SkipFunc {
	if reprint, _ := cmd.Flags().GetBool("reprint"); reprint {
		return func(context.Context, types.NormalizedCard) (bool, error) { return false, nil }
	}
	if skip, _ := cmd.Flags().GetBool("skip-printed"); skip {
		return func(context.Context, types.NormalizedCard) (bool, error) { return true, nil }
	}
	return func(ctx context.Context, c types.NormalizedCard) (bool, error) {
		ok, err := p.Confirm(ctx, fmt.Sprintf("Card %q has already been printed, shall I skip this card?", c.Name))
		if errors.Is(err, prompt.ErrNoAnswer) {
			return true, nil
		}
		return ok, err
	}
}

// chooseBoard resolves key against the member's boards, or asks.
func chooseBoard(ctx context.Context, svc batch.BoardService, p prompt.Prompter, key string) (string, error) {
	boards, err := svc.Boards(ctx)
	if err != nil {
		return "", err
	}
	choices := make([]prompt.Choice, len(boards))
	for i, b := range boards {
		choices[i] = prompt.Choice{ID: b.ID, Name: b.Name}
	}
	return choose(ctx, p, "Select your board", choices, key)
}

// chooseList resolves key against the board's lists, or asks.
func chooseList(ctx context.Context, svc batch.BoardService, p prompt.Prompter, boardID, key string) (string, error) {
	lists, err := svc.Lists(ctx, boardID)
	if err != nil {
		return "", err
	}
	choices := make([]prompt.Choice, len(lists))
	for i, l := range lists {
		choices[i] = prompt.Choice{ID: l.ID, Name: l.Name}
	}
	id, err := choose(ctx, p, "Select your list", choices, key)
	if err != nil && key != "" {
		// An explicit --list that is not on the board.
		return "", fmt.Errorf("%w: %s", batch.ErrListNotFound, err)
	}
	return id, err
}

func choose(ctx context.Context, p prompt.Prompter, title string, choices []prompt.Choice, key string) (string, error) {
	if key != "" {
		p = &prompt.Scripted{Picks: []string{key}}
	}
	id, err := p.Select(ctx, title, choices)
	if errors.Is(err, prompt.ErrNoAnswer) {
		return "", fmt.Errorf("%s: pass it as a flag when running non-interactively", title)
	}
	return id, err
}
