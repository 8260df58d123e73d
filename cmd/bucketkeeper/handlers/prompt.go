package handlers

import (
	"context"

	"github.com/charmbracelet/huh"
)

// prompter abstracts the interactive questions so handlers can be tested
// without a terminal.
type prompter interface {
	// Confirm asks a yes/no question and returns the answer.
	Confirm(ctx context.Context, title, description string) (bool, error)

	// Secret asks for a masked secret value.
	Secret(ctx context.Context, title string) (string, error)
}

// huhPrompter renders prompts with charmbracelet/huh forms.
type huhPrompter struct{}

func (huhPrompter) Confirm(ctx context.Context, title, description string) (bool, error) {
	var answer bool

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(&answer),
		),
	).RunWithContext(ctx)
	if err != nil {
		return false, err
	}

	return answer, nil
}

func (huhPrompter) Secret(ctx context.Context, title string) (string, error) {
	var value string

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				EchoMode(huh.EchoModePassword).
				Value(&value),
		),
	).RunWithContext(ctx)
	if err != nil {
		return "", err
	}

	return value, nil
}
