package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const promptWidth = 48

// ChoiceModel is a single-selection list prompt.
type ChoiceModel struct {
	title   string
	list    list.Model
	keys    keyMap
	help    help.Model
	chosen  *Choice
	aborted bool
}

// NewChoiceModel creates a [ChoiceModel] over choices with the first one highlighted.
func NewChoiceModel(title string, choices []Choice) *ChoiceModel {
	items := make([]list.Item, len(choices))
	for i, c := range choices {
		items[i] = c
	}

	l := list.New(items, list.NewDefaultDelegate(), promptWidth, len(choices)*3+6)
	l.Title = title
	l.Styles.Title = styles.title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return &ChoiceModel{
		title: title,
		list:  l,
		keys:  newKeyMap(),
		help:  help.New(),
	}
}

func (m *ChoiceModel) Init() tea.Cmd {
	return nil
}

func (m *ChoiceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(min(msg.Width, promptWidth))
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.quit), key.Matches(msg, m.keys.back):
			m.aborted = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.enter):
			if c, ok := m.list.SelectedItem().(Choice); ok {
				m.chosen = &c
				return m, tea.Quit
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *ChoiceModel) View() string {
	switch {
	case m.chosen != nil:
		return fmt.Sprintf("%s %s\n", styles.help.Render(m.title), styles.ok.Render(m.chosen.Label))
	case m.aborted:
		return ""
	default:
		return fmt.Sprintf("%s\n%s\n", m.list.View(), m.help.ShortHelpView(m.keys.ShortHelp()))
	}
}

// Selected returns the chosen entry once the user pressed enter.
func (m *ChoiceModel) Selected() (Choice, bool) {
	if m.chosen == nil {
		return Choice{}, false
	}
	return *m.chosen, true
}

// Aborted reports whether the user cancelled the prompt.
func (m *ChoiceModel) Aborted() bool {
	return m.aborted
}

// LimitModel prompts for a whole number, falling back to a default on empty input.
type LimitModel struct {
	prompt  string
	input   textinput.Model
	def     int
	value   int
	done    bool
	aborted bool
	problem string
	help    help.Model
	keys    []key.Binding
}

// NewLimitModel creates a focused [LimitModel].
func NewLimitModel(prompt string, def int) *LimitModel {
	ti := textinput.New()
	ti.Placeholder = strconv.Itoa(def)
	ti.CharLimit = 4
	ti.Width = 6
	ti.Focus()

	return &LimitModel{
		prompt: prompt,
		input:  ti,
		def:    def,
		help:   help.New(),
		keys: []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
			key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "back")),
		},
	}
}

func (m *LimitModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *LimitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.aborted = true
			return m, tea.Quit
		case tea.KeyEnter:
			raw := strings.TrimSpace(m.input.Value())
			if raw == "" {
				m.value = m.def
				m.done = true
				return m, tea.Quit
			}
			n, err := strconv.Atoi(raw)
			if err != nil {
				m.problem = "Enter a whole number."
				return m, nil
			}
			m.value = n
			m.done = true
			return m, tea.Quit
		}
	}

	m.problem = ""
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *LimitModel) View() string {
	switch {
	case m.done:
		return fmt.Sprintf("%s %s\n", styles.help.Render(m.prompt), styles.ok.Render(strconv.Itoa(m.value)))
	case m.aborted:
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.title.Render(m.prompt) + "\n")
	b.WriteString(m.input.View() + "\n")
	if m.problem != "" {
		b.WriteString(styles.err.Render(m.problem) + "\n")
	}
	b.WriteString(m.help.ShortHelpView(m.keys) + "\n")
	return b.String()
}

// Value returns the entered number once the user pressed enter.
func (m *LimitModel) Value() (int, bool) {
	return m.value, m.done
}

// Aborted reports whether the user cancelled the prompt.
func (m *LimitModel) Aborted() bool {
	return m.aborted
}
