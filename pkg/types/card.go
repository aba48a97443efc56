// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the storycards pipeline:
// card records as fetched from the board service, their normalized form,
// the render job handed to the renderer, and run configuration.
package types

// Label is a coloured tag attached to a card. Only the name is printed.
type Label struct {
	ID   string `json:"id,omitempty" yaml:"id,omitempty"`
	Name string `json:"name" yaml:"name"`
}

// RawCard is a card as returned by the board service.
type RawCard struct {
	// ID is the stable identifier issued by the board service.
	ID string `json:"id" yaml:"id"`

	// Name is the card title.
	Name string `json:"name" yaml:"name"`

	// Desc is the free-text description. Anything after the first "---"
	// line is authoring metadata and is not printed.
	Desc string `json:"desc" yaml:"desc"`

	// Labels lists the card labels in board order. May be empty.
	Labels []Label `json:"labels,omitempty" yaml:"labels,omitempty"`
}

// NormalizedCard is the printable view of a RawCard.
type NormalizedCard struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	LabelNames  []string `json:"labels" yaml:"labels"`
}

// RenderJob is the input to the card renderer.
type RenderJob struct {
	Title  string
	Body   string
	Footer string
}

// Board is a board summary returned by the board service.
type Board struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// List is a list (column) summary within a board.
type List struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}
