package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gadaielektronik/pawndesk/internal/summary"
)

// renderRegions draws the regional distribution as horizontal bars, one
// per region in first-occurrence order.
func (m Model) renderRegions(width int, bgColor string) string {
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)

	if len(m.regions) == 0 {
		return bg.Render("No orders", styles.MutedText)
	}

	labelWidth := 0
	for _, r := range m.regions {
		labelWidth = max(labelWidth, len([]rune(r.Region)))
	}
	labelWidth = min(labelWidth, max(width/3, 6))

	// "  12  45%" after the bar
	const tailWidth = 10
	barWidth := max(width-labelWidth-tailWidth-1, 4)

	shares := summary.Shares(m.regions)
	lines := make([]string, 0, len(m.regions)+2)
	for i, r := range m.regions {
		n := int(shares[i]*float64(barWidth) + 0.5)
		if n == 0 && r.Count > 0 {
			n = 1
		}
		barStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ChartColor(i)))
		bar := bg.Render(strings.Repeat("█", n), barStyle) + bg.Spaces(barWidth-n)
		tail := fmt.Sprintf("%4d %4.0f%%", r.Count, shares[i]*100)
		lines = append(lines,
			bg.Render(cell(r.Region, labelWidth), styles.Text)+bg.Space()+bar+
				bg.Render(tail, styles.MutedText))
	}

	lines = append(lines, "",
		bg.Render(fmt.Sprintf("%d regions · %d orders", len(m.regions), m.counts.Total), styles.FaintText))
	return strings.Join(lines, "\n")
}
