// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/peterh/liner"
)

// lineReader abstracts liner for testing.
type lineReader interface {
	Prompt(prompt string) (string, error)
	PasswordPrompt(prompt string) (string, error)
}

// Interactive prompts on the terminal. Call Close to restore the terminal.
type Interactive struct {
	line   lineReader
	closer io.Closer
	out    io.Writer
}

// NewInteractive takes over the terminal and writes menus to out.
func NewInteractive(out io.Writer) *Interactive {
	st := liner.NewLiner()
	st.SetCtrlCAborts(true)
	return &Interactive{line: st, closer: st, out: out}
}

// Close restores the terminal.
func (p *Interactive) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}

// Select prints the choices as a numbered menu and reads a number or an
// ID until the answer is valid.
func (p *Interactive) Select(ctx context.Context, title string, choices []Choice) (string, error) {
	if len(choices) == 0 {
		return "", fmt.Errorf("%s: nothing to choose from", title)
	}

	fmt.Fprintln(p.out, title)
	for i, c := range choices {
		fmt.Fprintf(p.out, "  %2d) %s\n", i+1, c)
	}

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		answer, err := p.read(fmt.Sprintf("Select [1-%d]: ", len(choices)))
		if err != nil {
			return "", err
		}
		if n, convErr := strconv.Atoi(answer); convErr == nil {
			if n >= 1 && n <= len(choices) {
				return choices[n-1].ID, nil
			}
		} else if id, ok := Resolve(choices, answer); ok {
			return id, nil
		}
		fmt.Fprintf(p.out, "Invalid choice %q.\n", answer)
	}
}

// Confirm asks question until the answer is yes or no.
func (p *Interactive) Confirm(ctx context.Context, question string) (bool, error) {
	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		answer, err := p.read(question + " (y/n): ")
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(p.out, "Please answer y or n.")
	}
}

// Ask reads a non-empty free-text answer. Secret answers are not echoed.
func (p *Interactive) Ask(ctx context.Context, question string, secret bool) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		read := p.read
		if secret {
			read = p.readSecret
		}
		answer, err := read(question + ": ")
		if err != nil {
			return "", err
		}
		if answer != "" {
			return answer, nil
		}
	}
}

func (p *Interactive) read(prompt string) (string, error) {
	return p.readWith(p.line.Prompt, prompt)
}

func (p *Interactive) readSecret(prompt string) (string, error) {
	return p.readWith(p.line.PasswordPrompt, prompt)
}

func (p *Interactive) readWith(fn func(string) (string, error), prompt string) (string, error) {
	answer, err := fn(prompt)
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return "", ErrAborted
		}
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return strings.TrimSpace(answer), nil
}
