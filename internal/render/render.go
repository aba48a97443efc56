// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render prints story cards to PDF.
//
// A card is filled into a small markdown template (title heading,
// description, footer heading), converted to HTML with goldmark, styled
// for a single landscape page, and handed to a PDFEngine. The result is
// written to <outputDir>/<slug>.pdf.
package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"github.com/yuin/goldmark"

	"github.com/pdiddy/storycards/pkg/types"
)

// Renderer prints render jobs to PDF files. It remembers the slugs it has
// written so that a later card overwriting an earlier one is reported.
type Renderer struct {
	engine PDFEngine
	md     goldmark.Markdown
	style  Style
	logger *slog.Logger
	w      io.Writer

	written map[string]string // path -> title
}

// Options configures a Renderer. Zero values select defaults.
type Options struct {
	Style  Style
	Logger *slog.Logger
	// Progress receives user-facing warnings. Defaults to io.Discard.
	Progress io.Writer
}

// New returns a Renderer that prints through engine.
func New(engine PDFEngine, opts Options) *Renderer {
	if opts.Style.PageSize == "" {
		opts.Style = DefaultStyle()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Progress == nil {
		opts.Progress = io.Discard
	}
	return &Renderer{
		engine:  engine,
		md:      NewMarkdown(),
		style:   opts.Style,
		logger:  opts.Logger,
		w:       opts.Progress,
		written: make(map[string]string),
	}
}

// Render prints job to <outputDir>/<slug>.pdf and returns the file path.
// An existing file of the same name is overwritten. Any failure leaves
// previously written files untouched.
func (r *Renderer) Render(ctx context.Context, job types.RenderJob, outputDir string) (string, error) {
	path := filepath.Join(outputDir, FileName(job.Title))

	doc, err := HTML(r.md, job, r.style)
	if err != nil {
		return "", err
	}

	var pdf bytes.Buffer
	if err := r.engine.Render(ctx, bytes.NewReader(doc), &pdf); err != nil {
		return "", fmt.Errorf("rendering %q: %w", job.Title, err)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory %s: %w", outputDir, err)
	}

	if prev, ok := r.written[path]; ok {
		fmt.Fprintf(r.w, "  warning: %q overwrites %q (%s)\n", job.Title, prev, filepath.Base(path))
		r.logger.Warn("slug collision", "file", path, "title", job.Title, "previous", prev)
	}

	if err := atomic.WriteFile(path, &pdf); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	// atomic.WriteFile leaves a new file owner-only.
	if err := os.Chmod(path, 0o644); err != nil {
		return "", fmt.Errorf("setting mode of %s: %w", path, err)
	}
	r.written[path] = job.Title
	r.logger.Debug("card rendered", "file", path, "bytes", pdf.Len())
	return path, nil
}
