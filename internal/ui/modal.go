package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Modal is the interface for modal dialogs.
// Update returns the updated modal, a command, and whether the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// confirmDelete asks before an order is removed. Nothing is sent unless the
// operator confirms.
type confirmDelete struct {
	orderID  int64
	customer string
	onYes    func(id int64) tea.Cmd
}

func (c confirmDelete) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	switch {
	case key.Matches(keyMsg, keys.Yes):
		var cmd tea.Cmd
		if c.onYes != nil {
			cmd = c.onYes(c.orderID)
		}
		return c, cmd, true
	case key.Matches(keyMsg, keys.No):
		return c, nil, true
	}
	return c, nil, false
}

func (c confirmDelete) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	question := fmt.Sprintf("Delete order #%d?", c.orderID)
	body := styles.Text.Bold(true).Render(question)
	if c.customer != "" {
		body += "\n" + styles.MutedText.Render(truncate(c.customer, 34))
	}
	body += "\n\n" +
		styles.WarningText.Render("y") + styles.MutedText.Render(" delete   ") +
		styles.AccentText.Render("n") + styles.MutedText.Render(" cancel")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Danger)).
		Padding(1, 2).
		Width(40).
		Render(body)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
