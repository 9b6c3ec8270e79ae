package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gadaielektronik/pawndesk/internal/orders"
)

// renderMain renders the full console.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderNotice())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	return b.String()
}

// renderContent lays out the order table and the right pane side by side.
func (m Model) renderContent() string {
	styles := m.theme.Styles()
	contentHeight := max(m.height-chromeHeight, 4)

	if len(m.snapshot.Orders) == 0 {
		msg := "No orders found."
		if m.snapshot.Loading {
			msg = "Loading orders..."
		}
		return lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, styles.MutedText.Render(msg))
	}

	tableWidth := m.width * 60 / 100
	if m.width >= LayoutExtraWideWidth {
		tableWidth = m.width * 65 / 100
	}
	sideWidth := m.width - tableWidth

	tableTitle := fmt.Sprintf("Orders (%d)", len(m.snapshot.Orders))
	tableContent := m.renderOrderTable(tableWidth-2, contentHeight-2, m.theme.FocusBg)
	tablePane := m.renderTitledBox(tableTitle, tableContent, tableWidth, contentHeight, true)

	var sideTitle, sideContent string
	switch m.pane {
	case paneRegions:
		sideTitle = "Regional Distribution"
		sideContent = m.renderRegions(sideWidth-4, m.theme.SurfaceAlt)
	default:
		sideTitle = "Details"
		if o, ok := m.selectedOrder(); ok {
			sideContent = m.renderDetail(o, sideWidth-4, m.theme.SurfaceAlt)
		} else {
			sideContent = styles.MutedText.Render("Select an order")
		}
	}
	sidePane := m.renderTitledBox(sideTitle, sideContent, sideWidth, contentHeight, false)

	return lipgloss.JoinHorizontal(lipgloss.Top, tablePane, sidePane)
}

// renderOrderTable renders the visible window of rows in server order,
// scrolled so the selection stays on screen.
func (m Model) renderOrderTable(width, height int, bgColor string) string {
	items := m.snapshot.Orders
	if len(items) == 0 || height < 2 {
		return ""
	}

	flex := max(width-colID-colQty-colValue-colRegion-colStatus-colGaps, 10)
	nameWidth := flex / 2
	itemWidth := flex - nameWidth

	bg := NewBgStyle(bgColor)
	heading := strings.Join([]string{
		cell("ID", colID),
		cell("Customer", nameWidth),
		cell("Item", itemWidth),
		padLeft("Qty", colQty),
		padLeft("Est. Value", colValue),
		cell("Region", colRegion),
		cell("Status", colStatus),
	}, " ")
	lines := []string{bg.Fill(bg.Render(heading, m.theme.Styles().MutedText.Bold(true)), width)}

	rows := height - 1
	start := 0
	if m.selectedRow >= rows {
		start = m.selectedRow - rows + 1
	}
	end := min(start+rows, len(items))

	for i := start; i < end; i++ {
		selected := i == m.selectedRow
		rowBg := bgColor
		if selected {
			rowBg = m.theme.SelectionBg
		}
		content := m.formatOrderRow(items[i], nameWidth, itemWidth, rowBg, selected)
		lines = append(lines, NewBgStyle(rowBg).Fill(content, width))
	}
	return strings.Join(lines, "\n")
}

// formatOrderRow formats one order. Selected rows use the selection text
// color throughout so the status color keeps contrast.
func (m Model) formatOrderRow(o orders.Order, nameWidth, itemWidth int, bgColor string, selected bool) string {
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()

	idStyle, textStyle, valueStyle := styles.MutedText, styles.Text, styles.InfoText
	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.StatusColor(o.Status)))
	if selected {
		sel := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		idStyle, textStyle, valueStyle, statusStyle = sel, sel, sel, sel.Bold(true)
	}

	status := string(o.Status)
	if m.snapshot.IsSending(o.ID) {
		status = "✉ " + status
	}

	cells := []string{
		bg.Render(cell("#"+strconv.FormatInt(o.ID, 10), colID), idStyle),
		bg.Render(cell(o.CustomerName, nameWidth), textStyle),
		bg.Render(cell(o.ItemName, itemWidth), textStyle),
		bg.Render(padLeft(strconv.Itoa(o.ItemQuantity), colQty), textStyle),
		bg.Render(padLeft(truncate(m.money.Format(float64(o.EstimatedValue)), colValue), colValue), valueStyle),
		bg.Render(cell(o.RegionLabel(), colRegion), textStyle),
		bg.Render(cell(status, colStatus), statusStyle),
	}
	return strings.Join(cells, bg.Space())
}

// renderTitledBox renders content in a box with the title embedded in the
// top border: ┌─── Title ───┐.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	borderColor, bgColor := m.theme.Border, m.theme.SurfaceAlt
	if focused {
		borderColor, bgColor = m.theme.BorderFocus, m.theme.FocusBg
	}
	bg := NewBgStyle(bgColor)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColor))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-4, 0))
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	top := bg.Render("┌"+strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad)+"┐", borderStyle)
	bottom := bg.Render("└"+strings.Repeat("─", innerWidth)+"┘", borderStyle)

	side := bg.Render("│", borderStyle)
	body := lipgloss.NewStyle().Width(innerWidth).MaxWidth(innerWidth).MaxHeight(1).Background(lipgloss.Color(bgColor))

	contentLines := strings.Split(content, "\n")
	lines := make([]string, 0, height)
	lines = append(lines, top)
	for i := 0; i < height-2; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		lines = append(lines, side+body.Render(line)+side)
	}
	lines = append(lines, bottom)
	return strings.Join(lines, "\n")
}
