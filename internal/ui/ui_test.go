package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/spotcli/internal/menu"
)

func press(t *testing.T, m tea.Model, keys ...tea.KeyMsg) (tea.Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		m, cmd = m.Update(k)
	}
	return m, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestChoiceModel(t *testing.T) {
	t.Run("enter selects the highlighted choice", func(t *testing.T) {
		m, cmd := press(t, NewChoiceModel("Time range?", RangeChoices), tea.KeyMsg{Type: tea.KeyEnter})
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		c, ok := m.(*ChoiceModel).Selected()
		if !ok {
			t.Fatal("expected a selection")
		}
		if c.Value != "short" {
			t.Errorf("expected short, got %q", c.Value)
		}
	})

	t.Run("down moves the cursor", func(t *testing.T) {
		m, _ := press(t, NewChoiceModel("Time range?", RangeChoices),
			tea.KeyMsg{Type: tea.KeyDown},
			tea.KeyMsg{Type: tea.KeyDown},
			tea.KeyMsg{Type: tea.KeyEnter},
		)
		c, ok := m.(*ChoiceModel).Selected()
		if !ok || c.Value != "long" {
			t.Errorf("expected long, got %q (selected=%v)", c.Value, ok)
		}
	})

	t.Run("view shows the chosen label", func(t *testing.T) {
		m, _ := press(t, NewChoiceModel("Time range?", RangeChoices), tea.KeyMsg{Type: tea.KeyEnter})
		view := m.View()
		if !strings.Contains(view, "Time range?") || !strings.Contains(view, "Short") {
			t.Errorf("unexpected view %q", view)
		}
	})

	for name, k := range map[string]tea.KeyMsg{
		"q":      runes("q"),
		"esc":    {Type: tea.KeyEsc},
		"ctrl+c": {Type: tea.KeyCtrlC},
	} {
		t.Run(name+" aborts", func(t *testing.T) {
			m, cmd := press(t, NewChoiceModel("What would you like to do?", ActionChoices()), k)
			if cmd == nil {
				t.Fatal("expected quit command")
			}
			cm := m.(*ChoiceModel)
			if !cm.Aborted() {
				t.Error("expected aborted")
			}
			if _, ok := cm.Selected(); ok {
				t.Error("expected no selection")
			}
			if cm.View() != "" {
				t.Errorf("expected empty view, got %q", cm.View())
			}
		})
	}

	t.Run("list view lists every label", func(t *testing.T) {
		view := NewChoiceModel("What would you like to do?", ActionChoices()).View()
		for _, a := range menu.Actions {
			if !strings.Contains(view, a.Label()) {
				t.Errorf("view missing %q", a.Label())
			}
		}
	})
}

func TestLimitModel(t *testing.T) {
	t.Run("empty input uses the default", func(t *testing.T) {
		m, _ := press(t, NewLimitModel("How many tracks?", 10), tea.KeyMsg{Type: tea.KeyEnter})
		n, ok := m.(*LimitModel).Value()
		if !ok || n != 10 {
			t.Errorf("expected 10, got %d (done=%v)", n, ok)
		}
	})

	t.Run("typed number", func(t *testing.T) {
		m, _ := press(t, NewLimitModel("How many tracks?", 10), runes("25"), tea.KeyMsg{Type: tea.KeyEnter})
		n, ok := m.(*LimitModel).Value()
		if !ok || n != 25 {
			t.Errorf("expected 25, got %d (done=%v)", n, ok)
		}
	})

	t.Run("out of range numbers are passed through", func(t *testing.T) {
		m, _ := press(t, NewLimitModel("How many tracks?", 10), runes("99"), tea.KeyMsg{Type: tea.KeyEnter})
		if n, _ := m.(*LimitModel).Value(); n != 99 {
			t.Errorf("expected 99, got %d", n)
		}
	})

	t.Run("non-numeric input shows an error and keeps prompting", func(t *testing.T) {
		m, cmd := press(t, NewLimitModel("How many artists?", 10), runes("ten"), tea.KeyMsg{Type: tea.KeyEnter})
		if cmd != nil {
			t.Error("expected no command")
		}
		lm := m.(*LimitModel)
		if _, ok := lm.Value(); ok {
			t.Error("expected prompt to stay open")
		}
		if !strings.Contains(lm.View(), "Enter a whole number.") {
			t.Errorf("expected inline error, got %q", lm.View())
		}
	})

	t.Run("esc aborts", func(t *testing.T) {
		m, _ := press(t, NewLimitModel("How many artists?", 10), tea.KeyMsg{Type: tea.KeyEsc})
		lm := m.(*LimitModel)
		if !lm.Aborted() {
			t.Error("expected aborted")
		}
		if _, ok := lm.Value(); ok {
			t.Error("expected no value")
		}
	})
}

func TestActionChoices(t *testing.T) {
	choices := ActionChoices()
	if len(choices) != len(menu.Actions) {
		t.Fatalf("expected %d choices, got %d", len(menu.Actions), len(choices))
	}
	for i, c := range choices {
		a, err := menu.ParseAction(c.Value)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a != menu.Actions[i] {
			t.Errorf("choice %d: expected %v, got %v", i, menu.Actions[i], a)
		}
	}
}

func TestBanner(t *testing.T) {
	if !strings.Contains(Banner(), "Spotify CLI") {
		t.Errorf("unexpected banner %q", Banner())
	}
	if !strings.Contains(Goodbye(), "Thank you for using Spotify CLI Tool") {
		t.Errorf("unexpected goodbye %q", Goodbye())
	}
}
