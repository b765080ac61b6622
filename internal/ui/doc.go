// Package ui implements the interactive menu's terminal prompts using bubbletea's Elm architecture.
//
// Each prompt is a short-lived bubbletea program:
//  1. [ChoiceModel] : pick one entry from a list (menu action, time range)
//  2. [LimitModel] : enter a number with a default
//
// [Prompter] runs these programs and satisfies menu.Prompter, so the menu state machine never touches the
// terminal directly. [Banner] and [Goodbye] render the framing shown on entry and exit.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
