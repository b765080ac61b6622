package ui

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/spotcli/internal/menu"
)

var (
	_ menu.Prompter = (*Prompter)(nil)
)

// RangeChoices are the time range options in display order.
var RangeChoices = []Choice{
	{Label: "Short", Hint: "about 4 weeks", Value: "short"},
	{Label: "Medium", Hint: "about 6 months", Value: "medium"},
	{Label: "Long", Hint: "several years", Value: "long"},
}

// ActionChoices returns the menu actions as [Choice] values.
func ActionChoices() []Choice {
	choices := make([]Choice, 0, len(menu.Actions))
	for _, a := range menu.Actions {
		choices = append(choices, Choice{Label: a.Label(), Value: a.String()})
	}
	return choices
}

// Prompter runs one bubbletea program per prompt. It implements menu.Prompter.
type Prompter struct {
	in    io.Reader
	out   io.Writer
	extra []tea.ProgramOption
}

// NewPrompter creates a [Prompter] reading keys from in and drawing to out. A nil in uses the terminal.
func NewPrompter(in io.Reader, out io.Writer, opts ...tea.ProgramOption) *Prompter {
	return &Prompter{in: in, out: out, extra: opts}
}

func (p *Prompter) run(ctx context.Context, m tea.Model) (tea.Model, error) {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if p.in != nil {
		opts = append(opts, tea.WithInput(p.in))
	}
	if p.out != nil {
		opts = append(opts, tea.WithOutput(p.out))
	}
	opts = append(opts, p.extra...)

	final, err := tea.NewProgram(m, opts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil, menu.ErrAborted
	}
	if err != nil {
		return nil, fmt.Errorf("prompt failed: %w", err)
	}
	return final, nil
}

func (p *Prompter) choose(ctx context.Context, title string, choices []Choice) (Choice, error) {
	final, err := p.run(ctx, NewChoiceModel(title, choices))
	if err != nil {
		return Choice{}, err
	}
	c, ok := final.(*ChoiceModel).Selected()
	if !ok {
		return Choice{}, menu.ErrAborted
	}
	return c, nil
}

// SelectAction asks what to do next.
func (p *Prompter) SelectAction(ctx context.Context) (menu.Action, error) {
	c, err := p.choose(ctx, "What would you like to do?", ActionChoices())
	if err != nil {
		return 0, err
	}
	return menu.ParseAction(c.Value)
}

// AskLimit asks how many items to show.
func (p *Prompter) AskLimit(ctx context.Context, noun string, def int) (int, error) {
	final, err := p.run(ctx, NewLimitModel(fmt.Sprintf("How many %s?", noun), def))
	if err != nil {
		return 0, err
	}
	n, ok := final.(*LimitModel).Value()
	if !ok {
		return 0, menu.ErrAborted
	}
	return n, nil
}

// AskRange asks for a time range and returns its short name.
func (p *Prompter) AskRange(ctx context.Context) (string, error) {
	c, err := p.choose(ctx, "Time range?", RangeChoices)
	if err != nil {
		return "", err
	}
	return c.Value, nil
}
