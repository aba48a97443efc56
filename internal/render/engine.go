// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"

	"github.com/pdiddy/storycards/internal/container"
)

// DefaultImage is the container image used to print HTML to PDF. It is
// built locally from Dockerfile; any image whose entrypoint is weasyprint
// works.
const DefaultImage = "storycards-weasyprint:latest"

// Dockerfile builds DefaultImage. It needs no build context, so it can be
// piped to "docker build -".
//
//go:embed Dockerfile
var Dockerfile string

// PDFEngine turns an HTML document into PDF bytes.
type PDFEngine interface {
	Render(ctx context.Context, html io.Reader, pdf io.Writer) error
}

// ContainerEngine prints HTML to PDF by piping it through a WeasyPrint
// container. It depends on a container.Runtime (docker or podman) injected
// at construction time.
type ContainerEngine struct {
	runtime container.Runtime
	image   string
}

// NewContainerEngine creates an engine that runs image on rt. It verifies
// that the image exists locally before returning.
func NewContainerEngine(rt container.Runtime, image string) (*ContainerEngine, error) {
	if image == "" {
		image = DefaultImage
	}
	if err := rt.ImageExists(image); err != nil {
		if image == DefaultImage {
			return nil, fmt.Errorf("PDF engine image not available in %s (build it with \"mage image\"): %w", rt.Name(), err)
		}
		return nil, fmt.Errorf("PDF engine image not available in %s: %w", rt.Name(), err)
	}
	return &ContainerEngine{runtime: rt, image: image}, nil
}

// Render pipes html through the container, reading HTML from stdin and
// writing the PDF to stdout.
func (e *ContainerEngine) Render(ctx context.Context, html io.Reader, pdf io.Writer) error {
	var out bytes.Buffer
	if err := e.runtime.Run(ctx, e.image, []string{"-", "-"}, html, &out); err != nil {
		return fmt.Errorf("printing with %s: %w", e.image, err)
	}
	if out.Len() == 0 {
		return fmt.Errorf("%s produced empty output", e.image)
	}
	_, err := out.WriteTo(pdf)
	return err
}
