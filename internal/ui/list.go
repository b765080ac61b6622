package ui

import (
	"github.com/charmbracelet/bubbles/list"
)

var (
	_ list.Item = Choice{}
)

// Choice is one selectable entry of a [ChoiceModel]. Value is returned on selection.
type Choice struct {
	Label string
	Hint  string
	Value string
}

func (c Choice) FilterValue() string { return c.Label }
func (c Choice) Title() string       { return c.Label }
func (c Choice) Description() string { return c.Hint }
