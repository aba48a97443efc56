// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/pdiddy/storycards/pkg/types"
)

// DefaultPageSize is the CSS @page size for a story card.
const DefaultPageSize = "A4 landscape"

// Style holds the presentation settings of a card page. Font sizes and
// margins are fixed; only the page size is configurable.
type Style struct {
	PageSize string
}

// DefaultStyle returns the standard single landscape page layout.
func DefaultStyle() Style {
	return Style{PageSize: DefaultPageSize}
}

// NewMarkdown returns the markdown converter for card text. Raw HTML in a
// description, such as <br> or <b>, is passed through to the page.
func NewMarkdown() goldmark.Markdown {
	return goldmark.New(goldmark.WithRendererOptions(html.WithUnsafe()))
}

var cardTemplate = template.Must(template.New("card").Parse(`# {{.Title}}

{{.Body}}

## {{.Footer}}
`))

var stylesheet = template.Must(template.New("css").Parse(`@page {
    size: {{.PageSize}};
    margin: 0.25cm;
}

* {
    font-family: Sans-Serif;
}

h1, h2, h3 {
    text-align: center;
    font-weight: 200;
}

h1 {
    font-size: 48px;
}

h2 {
    font-size: 30px;
    position: fixed;
    left: 0;
    bottom: 0;
    width: 100%;
    text-align: center;
}

p {
    font-size: 36px;
}
`))

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{html .Title}}</title>
<style>
{{.CSS}}</style>
</head>
<body>
{{.Body}}</body>
</html>
`))

// Markdown fills the card template: a title heading, the description, and
// a footer heading carrying the label text.
func Markdown(job types.RenderJob) (string, error) {
	var b bytes.Buffer
	if err := cardTemplate.Execute(&b, job); err != nil {
		return "", fmt.Errorf("filling card template: %w", err)
	}
	return b.String(), nil
}

// CSS returns the stylesheet for s.
func CSS(s Style) (string, error) {
	if s.PageSize == "" {
		s.PageSize = DefaultPageSize
	}
	var b bytes.Buffer
	if err := stylesheet.Execute(&b, s); err != nil {
		return "", fmt.Errorf("building stylesheet: %w", err)
	}
	return b.String(), nil
}

// HTML converts the card to a standalone HTML document with the card
// stylesheet embedded.
func HTML(md goldmark.Markdown, job types.RenderJob, s Style) ([]byte, error) {
	src, err := Markdown(job)
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	if err := md.Convert([]byte(src), &body); err != nil {
		return nil, fmt.Errorf("converting markdown: %w", err)
	}

	css, err := CSS(s)
	if err != nil {
		return nil, err
	}

	var doc bytes.Buffer
	err = page.Execute(&doc, struct {
		Title string
		CSS   string
		Body  string
	}{job.Title, css, body.String()})
	if err != nil {
		return nil, fmt.Errorf("building HTML document: %w", err)
	}
	return doc.Bytes(), nil
}
