package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gadaielektronik/pawndesk/internal/orders"
)

// renderDetail renders every field of the selected order plus the state of
// its actions.
func (m Model) renderDetail(o orders.Order, width int, bgColor string) string {
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)
	labelWidth := 12
	valueWidth := max(width-labelWidth-1, 8)

	row := func(label, value string, style lipgloss.Style) string {
		if strings.TrimSpace(value) == "" {
			value = "—"
			style = styles.FaintText
		}
		return bg.Render(padRight(label, labelWidth), styles.MutedText) + bg.Space() +
			bg.Render(truncate(value, valueWidth), style)
	}

	statusStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.StatusColor(o.Status))).
		Background(lipgloss.Color(bgColor)).
		Bold(true)

	lines := []string{
		bg.Render("Order #"+strconv.FormatInt(o.ID, 10), styles.AccentText.Bold(true)),
		"",
		row("Status", string(o.Status), statusStyle),
		row("Customer", o.CustomerName, styles.Text),
		row("Email", o.Email, styles.Text),
		row("Chat", o.ConversationID, styles.MutedText),
		"",
		row("Item", o.ItemName, styles.Text),
		row("Type", o.ItemType, styles.Text),
		row("Quantity", strconv.Itoa(o.ItemQuantity), styles.Text),
		row("Est. value", m.money.Format(float64(o.EstimatedValue)), styles.InfoText),
		row("Region", o.RegionLabel(), styles.Text),
		row("Created", formatCreated(o), styles.MutedText),
		"",
		m.verifyHint(o, styles, bg),
	}
	return strings.Join(lines, "\n")
}

// verifyHint explains whether the verification email can be sent.
func (m Model) verifyHint(o orders.Order, styles Styles, bg BgStyle) string {
	switch {
	case m.snapshot.IsSending(o.ID):
		return bg.Render("✉ Sending verification email...", styles.WarningText)
	case o.Status == orders.StatusVerified:
		return bg.Render("✓ Verified", styles.SuccessText)
	case o.Status == orders.StatusOnVerification:
		return bg.Render("Awaiting customer verification", styles.FaintText)
	case m.canVerify(o):
		return bg.Render("v", styles.AccentText) + bg.Space() +
			bg.Render("send verification email", styles.MutedText)
	default:
		return ""
	}
}

func formatCreated(o orders.Order) string {
	if t := o.ParsedCreatedAt(); !t.IsZero() {
		return t.Format("2006-01-02 15:04")
	}
	return o.CreatedAt
}
