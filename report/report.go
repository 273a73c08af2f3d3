// Package report formats seats, tickets and sales for the terminal.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/skip2/go-qrcode"
	"golang.org/x/exp/maps"

	"cinema-booking-cli/hall"
	"cinema-booking-cli/model"
	"cinema-booking-cli/pricing"
)

// WriteSeats prints the classic listing: a "Cinema:" title, the seat
// numbers, then one line per row with S for free and B for booked seats.
func WriteSeats(w io.Writer, view hall.Rendering) error {
	var b strings.Builder
	b.WriteString("Cinema:\n")
	b.WriteString("  ")
	for seat := range view.Header {
		b.WriteString(strconv.Itoa(seat))
		b.WriteString(" ")
	}
	b.WriteString("\n")
	for row, symbols := range view.Rows {
		b.WriteString(strconv.Itoa(row))
		b.WriteString(" ")
		for symbol := range symbols {
			b.WriteRune(symbol)
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func WriteTicketPrice(w io.Writer, ticket model.Ticket) error {
	_, err := fmt.Fprintf(w, "Ticket price: $%d\n\n", ticket.Price)
	return err
}

func WriteStatistics(w io.Writer, stats model.Statistics) error {
	_, err := fmt.Fprintf(w,
		"\nNumber of purchased tickets: %d\nPercentage: %s\nCurrent income: $%d\nTotal income: $%d\n",
		stats.TicketsSold,
		FormatPercentage(stats.Percentage),
		stats.CurrentIncome,
		stats.TotalPossibleIncome,
	)
	return err
}

func FormatPercentage(p float64) string {
	return fmt.Sprintf("%.2f%%", p)
}

func WritePriceTable(w io.Writer, layout model.HallLayout, tiers []pricing.Tier) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Hall %d x %d", layout.Rows, layout.SeatsPerRow)
	t.AppendHeader(table.Row{"Rows", "Price", "Seats", "Max income"})

	seats := 0
	income := 0
	for _, tier := range tiers {
		t.AppendRow(table.Row{rowRange(tier), fmt.Sprintf("$%d", tier.Price), tier.Seats, fmt.Sprintf("$%d", tier.Income)})
		seats += tier.Seats
		income += tier.Income
	}
	t.AppendFooter(table.Row{"Total", "", seats, fmt.Sprintf("$%d", income)})
	t.Style().Options.SeparateRows = true
	t.Render()
}

func rowRange(tier pricing.Tier) string {
	if tier.FirstRow == tier.LastRow {
		return strconv.Itoa(tier.FirstRow)
	}
	return fmt.Sprintf("%d-%d", tier.FirstRow, tier.LastRow)
}

// PriceSales is the number of tickets sold at one price.
type PriceSales struct {
	Price   int `json:"price"`
	Tickets int `json:"tickets"`
	Income  int `json:"income"`
}

// SalesByPrice groups tickets by price, most expensive first.
func SalesByPrice(tickets []model.Ticket) []PriceSales {
	counts := map[int]int{}
	for _, ticket := range tickets {
		counts[ticket.Price]++
	}
	prices := maps.Keys(counts)
	sort.Sort(sort.Reverse(sort.IntSlice(prices)))

	out := make([]PriceSales, 0, len(prices))
	for _, price := range prices {
		out = append(out, PriceSales{Price: price, Tickets: counts[price], Income: price * counts[price]})
	}
	return out
}

// TicketQR renders the ticket as a QR code made of half-block characters.
func TicketQR(ticket model.Ticket) (string, error) {
	q, err := qrcode.New(TicketPayload(ticket), qrcode.Low)
	if err != nil {
		return "", fmt.Errorf("encode ticket %s: %w", ticket.ID, err)
	}
	return q.ToSmallString(false), nil
}

func TicketPayload(ticket model.Ticket) string {
	return fmt.Sprintf("ticket=%s;row=%d;seat=%d;price=%d", ticket.ID, ticket.Row, ticket.Seat, ticket.Price)
}
