package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"cinema-booking-cli/model"
)

type seatCell struct {
	token  string
	booked bool
	label  string
	front  bool
	cursor bool
}

func (m appModel) renderSeatMap(withCursor bool) string {
	layout := m.session.Layout()
	if layout.Rows == 0 || layout.SeatsPerRow == 0 {
		return "No seats."
	}
	frontRows := m.session.FrontRows()
	view := m.session.Seats()

	grid := make([][]seatCell, 0, layout.Rows)
	booked := 0
	for row, symbols := range view.Rows {
		cells := make([]seatCell, 0, layout.SeatsPerRow)
		seat := 0
		for symbol := range symbols {
			seat++
			cell := seatCell{
				token: "[]",
				label: strconv.Itoa(seat),
				front: row <= frontRows,
			}
			if symbol == model.SeatBooked.Symbol() {
				cell.token = "XX"
				cell.booked = true
				booked++
			}
			cell.cursor = withCursor && row == m.cursorRow && seat == m.cursorSeat
			cells = append(cells, cell)
		}
		grid = append(grid, cells)
	}

	rowWidth := max(2, len(strconv.Itoa(layout.Rows)))
	cellWidth := 2
	if m.showSeatNumbers {
		cellWidth = max(2, len(strconv.Itoa(layout.SeatsPerRow)))
	}
	gridWidth := layout.SeatsPerRow*(cellWidth+1) - 1

	var b strings.Builder
	b.WriteString(screenBar(gridWidth, rowWidth+1) + "\n\n")

	seatStyleFree := lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	seatStyleFront := lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	seatStyleBooked := lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	seatStyleCursor := lipgloss.NewStyle().Reverse(true).Bold(true)

	for r, cells := range grid {
		label := strconv.Itoa(r + 1)
		fmt.Fprintf(&b, "%*s ", rowWidth, label)
		for c, cell := range cells {
			text := cell.token
			if m.showSeatNumbers {
				text = cell.label
			}
			rendered := seatLabel(text, cellWidth)
			switch {
			case cell.cursor:
				rendered = seatStyleCursor.Render(rendered)
			case cell.booked:
				rendered = seatStyleBooked.Render(rendered)
			case cell.front:
				rendered = seatStyleFront.Render(rendered)
			default:
				rendered = seatStyleFree.Render(rendered)
			}
			b.WriteString(rendered)
			if c < len(cells)-1 {
				b.WriteString(" ")
			}
		}
		fmt.Fprintf(&b, " %*s\n", rowWidth, label)
	}
	b.WriteString("\n")

	legend := "Legend: [] free • XX booked • yellow rows cost more"
	if m.showSeatNumbers {
		legend = "Legend: color shows status • numbers are seats • yellow rows cost more"
	}
	total := layout.TotalSeats()
	percent := float64(booked) / float64(max(1, total)) * 100
	counts := hint(
		fmt.Sprintf("Free: %d", total-booked),
		fmt.Sprintf("Booked: %d", booked),
		fmt.Sprintf("Total: %d", total),
		fmt.Sprintf("%.0f%% sold", percent),
	)
	return b.String() + hint(legend) + "\n" + counts + "\n" + m.priceLegend()
}

func (m appModel) priceLegend() string {
	tiers := m.session.Tiers()
	parts := make([]string, 0, len(tiers))
	for _, tier := range tiers {
		rows := fmt.Sprintf("rows %d-%d", tier.FirstRow, tier.LastRow)
		if tier.FirstRow == tier.LastRow {
			rows = fmt.Sprintf("row %d", tier.FirstRow)
		}
		parts = append(parts, fmt.Sprintf("%s $%d", rows, tier.Price))
	}
	if len(parts) > 0 {
		parts[0] = "Prices: " + parts[0]
	}
	return hint(parts...)
}

// seatLabel centres text in a seat cell of the given width.
func seatLabel(text string, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, text)
}

// screenBar draws the screen in front of row 1, spanning the seat columns.
func screenBar(gridWidth int, indent int) string {
	const label = "SCREEN"
	inner := max(gridWidth-2, len(label)+2, 8)
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color("214")).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("214")).
		Width(inner).
		Align(lipgloss.Center).
		MarginLeft(indent).
		Render(label)
}
