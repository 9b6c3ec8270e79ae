package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/gadaielektronik/pawndesk/internal/orders"
	"github.com/gadaielektronik/pawndesk/internal/state"
)

// renderHeader renders the status bar: connection state, status counts,
// total value and the last update time.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	parts := []string{bg.Render("pawndesk", styles.Logo)}
	parts = append(parts, m.connectionIndicator(styles, bg))

	parts = append(parts,
		bg.Render("Orders:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d", m.counts.Total), styles.Text))

	for _, status := range orders.Statuses() {
		label := string(status)
		if compact {
			label = statusAbbrev(status)
		}
		n := m.counts.Of(status)
		countStyle := styles.MutedText
		if n > 0 {
			countStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(m.theme.StatusColor(status))).
				Background(lipgloss.Color(m.theme.Surface))
		}
		parts = append(parts,
			bg.Render(label+":", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", n), countStyle))
	}
	if m.counts.Other > 0 {
		parts = append(parts,
			bg.Render("Other:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", m.counts.Other), styles.FaintText))
	}

	if !compact {
		parts = append(parts,
			bg.Render("Value:", styles.MutedText)+bg.Space()+
				bg.Render(m.money.Format(m.total), styles.InfoText))
	}

	if ts := m.formatTimestamp(); ts != "" {
		parts = append(parts, bg.Render(ts, styles.MutedText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// connectionIndicator summarizes the refresh state.
func (m Model) connectionIndicator(styles Styles, bg BgStyle) string {
	snap := m.snapshot
	switch {
	case snap.LastError != nil && snap.IsOffline():
		return bg.Render("● "+classifyConnectionError(snap.LastError), styles.DangerText)
	case snap.LastError != nil:
		return bg.Render("● RETRYING", styles.WarningText.Bold(true))
	case snap.Loading && snap.LastUpdated.IsZero():
		return bg.Render("● CONNECTING", styles.WarningText.Bold(true))
	case snap.Loading:
		return bg.Render("⟳ SYNC", styles.AccentText)
	case snap.LastUpdated.IsZero():
		return bg.Render("● WAITING", styles.MutedText)
	default:
		return bg.Render("● LIVE", styles.SuccessText)
	}
}

// formatTimestamp formats the last successful update with a relative hint.
func (m Model) formatTimestamp() string {
	last := m.snapshot.LastUpdated
	if last.IsZero() {
		return ""
	}
	since := m.now().Sub(last)
	out := last.Format("15:04:05")
	switch {
	case since < time.Minute:
		out += " (now)"
	case since < time.Hour:
		out += fmt.Sprintf(" (%dm ago)", int(since.Minutes()))
	case since < 24*time.Hour:
		out += fmt.Sprintf(" (%dh ago)", int(since.Hours()))
	}
	return out
}

// renderNotice renders the outcome of the last operator action, or the
// refresh error when no notice is pending.
func (m Model) renderNotice() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)

	var line string
	switch n := m.snapshot.Notice; {
	case n != nil && n.Kind == state.NoticeError:
		text := n.Message
		if n.Err != nil {
			text += ": " + n.Err.Error()
		}
		line = bg.Render("✗ "+truncate(text, max(m.width-24, 10)), styles.DangerText) +
			bg.Space() + bg.Render("(esc to dismiss)", styles.FaintText)
	case n != nil:
		line = bg.Render("✓ "+truncate(n.Message, max(m.width-24, 10)), styles.SuccessText) +
			bg.Space() + bg.Render("(esc to dismiss)", styles.FaintText)
	case m.snapshot.LastError != nil:
		text := fmt.Sprintf("refresh failed (%d in a row): %v", m.snapshot.ConsecutiveFailures, m.snapshot.LastError)
		if m.snapshot.IsOffline() && m.apiURL != "" {
			text += " · " + m.apiURL
		}
		line = bg.Render(truncate(text, max(m.width-2, 10)), styles.WarningText)
	}
	return bg.Fill(" "+line, m.width)
}

// classifyConnectionError returns a short description of the connection error.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	case strings.Contains(msg, "returned status"):
		return "SERVICE ERROR"
	default:
		return "ERROR"
	}
}

// renderCommandBar renders the command hints bar.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	o, ok := m.selectedOrder()
	verifyDisabled := !ok || !m.canVerify(o)
	paneLabel := "Regions"
	if m.pane == paneRegions {
		paneLabel = "Details"
	}

	type cmd struct {
		key, desc string
		disabled  bool
	}
	commands := []cmd{
		{"j/k", "Navigate", false},
		{"r", "Refresh", false},
		{"v", "Verify", verifyDisabled},
		{"d", "Delete", !ok},
		{"Tab", paneLabel, false},
		{"?", "More", false},
	}

	colon := bg.Render(":", styles.FaintText)
	segments := make([]string, 0, len(commands)+2)
	for _, c := range commands {
		keyStyle, descStyle := styles.AccentText, styles.MutedText
		if c.disabled {
			keyStyle, descStyle = styles.FaintText, styles.FaintText
		}
		segments = append(segments, bg.Render(c.key, keyStyle)+colon+bg.Render(c.desc, descStyle))
	}

	if m.pollEvery > 0 {
		segments = append(segments, bg.Render("every "+m.pollEvery.String(), styles.FaintText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(bg.Join(segments, "  "))
}

func statusAbbrev(s orders.Status) string {
	switch s {
	case orders.StatusPending:
		return "P"
	case orders.StatusOnProcess:
		return "Proc"
	case orders.StatusOnVerification:
		return "Ver?"
	case orders.StatusVerified:
		return "OK"
	}
	return string(s)
}
