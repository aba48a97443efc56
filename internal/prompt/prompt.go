// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prompt asks the operator to pick from a set of choices or to
// answer a yes/no question. Interactive prompts read from the terminal;
// Scripted answers come from flags for headless runs.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAborted is returned when the operator cancels a prompt.
	ErrAborted = errors.New("prompt aborted")

	// ErrNoAnswer is returned by Scripted when it has no answer queued.
	ErrNoAnswer = errors.New("no scripted answer")
)

// Choice is one selectable item. ID is returned to the caller; Name is
// shown to the operator.
type Choice struct {
	ID   string
	Name string
}

// String renders the choice as "Name [ID]".
func (c Choice) String() string {
	return fmt.Sprintf("%s [%s]", c.Name, c.ID)
}

// Prompter selects among choices and confirms questions.
type Prompter interface {
	// Select returns the ID of the chosen item.
	Select(ctx context.Context, title string, choices []Choice) (string, error)

	// Confirm asks a yes/no question.
	Confirm(ctx context.Context, question string) (bool, error)
}

// Resolve finds the choice whose ID equals key, or failing that whose name
// equals key ignoring case. It reports false if nothing or more than one
// name matches.
func Resolve(choices []Choice, key string) (string, bool) {
	key = strings.TrimSpace(key)
	for _, c := range choices {
		if c.ID == key {
			return c.ID, true
		}
	}
	var found string
	n := 0
	for _, c := range choices {
		if strings.EqualFold(c.Name, key) {
			found = c.ID
			n++
		}
	}
	return found, n == 1
}

// Scripted answers prompts from preset values.
type Scripted struct {
	// Picks are consumed in order by Select; each is an ID or a name.
	Picks []string

	// Answer is returned by every Confirm when AnswerSet is true.
	Answer    bool
	AnswerSet bool
}

// Select consumes the next pick and resolves it against choices.
func (s *Scripted) Select(_ context.Context, title string, choices []Choice) (string, error) {
	if len(s.Picks) == 0 {
		return "", fmt.Errorf("%s: %w", title, ErrNoAnswer)
	}
	pick := s.Picks[0]
	s.Picks = s.Picks[1:]

	id, ok := Resolve(choices, pick)
	if !ok {
		return "", fmt.Errorf("%s: no unique match for %q", title, pick)
	}
	return id, nil
}

// Confirm returns the preset answer.
func (s *Scripted) Confirm(_ context.Context, question string) (bool, error) {
	if !s.AnswerSet {
		return false, fmt.Errorf("%s: %w", question, ErrNoAnswer)
	}
	return s.Answer, nil
}
