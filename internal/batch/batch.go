// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch prints every card of a list, one at a time.
//
// Each card is normalized, checked against the printed-card ledger (in
// dedup mode), rendered, and then recorded in the ledger. Rendering always
// happens before recording, so a crash mid-batch loses at most the card in
// flight.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/pdiddy/storycards/internal/card"
	"github.com/pdiddy/storycards/internal/history"
	"github.com/pdiddy/storycards/pkg/types"
)

// ErrListNotFound is returned when the selected list is not on the board.
var ErrListNotFound = errors.New("list not found")

// BoardService is the read-only board API the orchestrator pulls from.
type BoardService interface {
	Boards(ctx context.Context) ([]types.Board, error)
	Lists(ctx context.Context, boardID string) ([]types.List, error)
	Cards(ctx context.Context, listID string) ([]types.RawCard, error)
	Card(ctx context.Context, cardID string) (types.RawCard, error)
}

// Renderer prints one card and returns the file written.
type Renderer interface {
	Render(ctx context.Context, job types.RenderJob, outputDir string) (string, error)
}

// Ledger is the printed-card set.
type Ledger interface {
	Contains(id string) bool
	Add(id string) error
}

// Recorder receives a history entry for every rendered card.
type Recorder interface {
	Record(ctx context.Context, e history.Entry) error
}

// SkipFunc decides whether an already printed card is skipped.
type SkipFunc func(ctx context.Context, c types.NormalizedCard) (bool, error)

// Options configures an Orchestrator.
type Options struct {
	// Mode defaults to types.ModeDedup.
	Mode types.BatchMode

	// OutputDir receives the PDFs.
	OutputDir string

	// SkipPrinted is asked about every card already in the ledger. Nil
	// skips them all.
	SkipPrinted SkipFunc

	// KeepGoing counts a card that fails to render as failed and moves on
	// instead of aborting the batch.
	KeepGoing bool

	// Recorder is optional. Recording errors are logged, not returned.
	Recorder Recorder

	Logger *slog.Logger
}

// Summary holds the outcome of a batch run.
type Summary struct {
	Rendered int
	Skipped  int
	Failed   int
	Files    []string
}

// Total returns the number of cards processed.
func (s Summary) Total() int {
	return s.Rendered + s.Skipped + s.Failed
}

// HasFailures reports whether any card failed to render.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Orchestrator runs batches. It owns its ledger for the duration of a run
// and is not safe for concurrent use.
type Orchestrator struct {
	renderer Renderer
	ledger   Ledger
	opts     Options
	w        io.Writer
}

// New returns an orchestrator writing progress lines to w.
func New(r Renderer, l Ledger, w io.Writer, opts Options) (*Orchestrator, error) {
	if opts.Mode == "" {
		opts.Mode = types.ModeDedup
	}
	if !opts.Mode.Valid() {
		return nil, fmt.Errorf("unknown batch mode %q", opts.Mode)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if w == nil {
		w = io.Discard
	}
	return &Orchestrator{renderer: r, ledger: l, opts: opts, w: w}, nil
}

// Run prints cards in order and returns the counts. On an aborting error
// the summary reflects the cards processed so far.
func (o *Orchestrator) Run(ctx context.Context, cards []types.RawCard) (Summary, error) {
	return o.run(ctx, len(cards), func(i int) (types.RawCard, error) {
		return cards[i], nil
	})
}

// PrintList resolves listID on boardID, fetches each card's details and
// prints them. ErrListNotFound is returned before any card is touched.
func (o *Orchestrator) PrintList(ctx context.Context, src BoardService, boardID, listID string) (Summary, error) {
	lists, err := src.Lists(ctx, boardID)
	if err != nil {
		return Summary{}, err
	}
	var target *types.List
	for i := range lists {
		if lists[i].ID == listID {
			target = &lists[i]
			break
		}
	}
	if target == nil {
		return Summary{}, fmt.Errorf("%w: %s on board %s", ErrListNotFound, listID, boardID)
	}

	refs, err := src.Cards(ctx, target.ID)
	if err != nil {
		return Summary{}, err
	}
	fmt.Fprintf(o.w, "list %q: %d card(s)\n", target.Name, len(refs))

	return o.run(ctx, len(refs), func(i int) (types.RawCard, error) {
		return src.Card(ctx, refs[i].ID)
	})
}

func (o *Orchestrator) run(ctx context.Context, n int, fetch func(int) (types.RawCard, error)) (Summary, error) {
	var s Summary
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return s, err
		}

		raw, err := fetch(i)
		if err != nil {
			return s, err
		}

		if err := o.process(ctx, card.Normalize(raw), &s); err != nil {
			return s, err
		}
	}

	fmt.Fprintf(o.w, "\nBatch summary: %d rendered, %d skipped, %d failed (total: %d)\n",
		s.Rendered, s.Skipped, s.Failed, s.Total())
	return s, nil
}

// process takes one card through skip-or-render-and-record.
func (o *Orchestrator) process(ctx context.Context, c types.NormalizedCard, s *Summary) error {
	if o.opts.Mode == types.ModeDedup && o.ledger.Contains(c.ID) {
		skip := true
		if o.opts.SkipPrinted != nil {
			var err error
			if skip, err = o.opts.SkipPrinted(ctx, c); err != nil {
				return fmt.Errorf("confirming %q: %w", c.Name, err)
			}
		}
		if skip {
			fmt.Fprintf(o.w, "skipped: %s (already printed)\n", c.Name)
			s.Skipped++
			return nil
		}
	}

	path, err := o.renderer.Render(ctx, card.Job(c), o.opts.OutputDir)
	if err != nil {
		if o.opts.KeepGoing {
			fmt.Fprintf(o.w, "failed:  %s (%v)\n", c.Name, err)
			o.opts.Logger.Error("render failed", "card", c.ID, "error", err)
			s.Failed++
			return nil
		}
		return fmt.Errorf("card %s: %w", c.ID, err)
	}

	if err := o.ledger.Add(c.ID); err != nil {
		return fmt.Errorf("recording card %s: %w", c.ID, err)
	}
	s.Rendered++
	s.Files = append(s.Files, path)
	fmt.Fprintf(o.w, "rendered: %s (%s)\n", c.Name, path)

	if o.opts.Recorder != nil {
		err := o.opts.Recorder.Record(ctx, history.Entry{
			CardID: c.ID,
			Name:   c.Name,
			File:   path,
			Mode:   string(o.opts.Mode),
		})
		if err != nil {
			o.opts.Logger.Warn("history not recorded", "card", c.ID, "error", err)
		}
	}
	return nil
}
