package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Banner renders the heading shown when the interactive menu starts.
func Banner() string {
	heading := NewBold("#1DB954").Render("♫  Spotify CLI")
	tagline := styles.help.Render("your listening stats, from the terminal")

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(lipgloss.Color("#1DB954")).
		Padding(0, 3).
		Align(lipgloss.Center).
		Render(lipgloss.JoinVertical(lipgloss.Center, heading, tagline))
}

// Goodbye renders the box shown when the user exits the menu.
func Goodbye() string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#FF00FF")).
		Padding(1).
		Margin(1).
		Align(lipgloss.Center).
		Render(styles.ok.Render("Thank you for using Spotify CLI Tool"))
}
