// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package card turns raw board cards into printable cards and render jobs.
package card

import (
	"strings"

	"github.com/pdiddy/storycards/pkg/types"
)

// metaSeparator splits the printed description from authoring notes.
const metaSeparator = "---"

// Normalize converts a raw card into its printable form. Missing optional
// fields become empty values; Normalize never fails.
func Normalize(raw types.RawCard) types.NormalizedCard {
	desc, _, _ := strings.Cut(raw.Desc, metaSeparator)

	labels := make([]string, 0, len(raw.Labels))
	for _, l := range raw.Labels {
		labels = append(labels, l.Name)
	}

	return types.NormalizedCard{
		ID:          raw.ID,
		Name:        raw.Name,
		Description: desc,
		LabelNames:  labels,
	}
}

// Job builds the render job for c. The footer carries the first label.
func Job(c types.NormalizedCard) types.RenderJob {
	var footer string
	if len(c.LabelNames) > 0 {
		footer = c.LabelNames[0]
	}
	return types.RenderJob{
		Title:  c.Name,
		Body:   c.Description,
		Footer: footer,
	}
}
