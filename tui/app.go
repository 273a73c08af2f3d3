package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cinema-booking-cli/booking"
	"cinema-booking-cli/hall"
	"cinema-booking-cli/logging"
	"cinema-booking-cli/model"
	"cinema-booking-cli/report"
)

const (
	noticeWrongInput    = "Wrong input!"
	noticeAlreadyBooked = "That ticket has already been purchased!"
	noticeSoldOut       = "Sorry, all tickets have been sold!"
)

type appState int

const (
	stateMenu appState = iota
	stateShowSeats
	stateSelectSeat
	stateTicket
	stateStatistics
)

type appModel struct {
	session *booking.Session
	logger  *slog.Logger

	state appState
	err   error

	width  int
	height int

	menu list.Model

	cursorRow  int
	cursorSeat int

	lastTicket      model.Ticket
	showSeatNumbers bool
	showQR          bool

	notice string
}

type Option func(*appModel)

func WithTicketQR(enabled bool) Option {
	return func(m *appModel) {
		m.showQR = enabled
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *appModel) {
		if logger != nil {
			m.logger = logger
		}
	}
}

func New(session *booking.Session, opts ...Option) tea.Model {
	m := appModel{
		session:    session,
		logger:     logging.Discard(),
		state:      stateMenu,
		cursorRow:  1,
		cursorSeat: 1,
	}
	for _, opt := range opts {
		opt(&m)
	}

	m.menu = newMenu("Box office", booking.Choices)
	return m
}

// Run drives session through a full-screen program until the user exits.
// The session is left terminated.
func Run(session *booking.Session, opts ...Option) error {
	final, err := tea.NewProgram(New(session, opts...), tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(appModel); ok && m.err != nil {
		return m.err
	}
	return nil
}

func (m appModel) Init() tea.Cmd {
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case tea.KeyMsg:
		m.notice = ""
		if model, cmd, handled := m.handleKey(msg); handled {
			return model, cmd
		}
	}

	var cmd tea.Cmd
	if m.state == stateMenu {
		m.menu, cmd = m.menu.Update(msg)
	}
	return m, cmd
}

func (m appModel) View() string {
	header := m.headerView()
	var body string
	switch m.state {
	case stateMenu:
		body = m.menu.View()
	case stateShowSeats:
		body = m.renderSeatMap(false)
	case stateSelectSeat:
		body = m.renderSeatMap(true) + "\n\n" + m.selectionView()
	case stateTicket:
		body = m.ticketView()
	case stateStatistics:
		body = m.statisticsView()
	}
	if m.notice != "" {
		body += "\n\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true).Render(m.notice)
	}
	return header + "\n\n" + body
}

func (m appModel) headerView() string {
	title := lipgloss.NewStyle().Bold(true).Render("Cinema")
	layout := m.session.Layout()
	stats := m.session.Statistics()
	meta := lipgloss.NewStyle().Faint(true).Render(fmt.Sprintf(
		"Hall: %d x %d • Sold: %d/%d • Income: $%d",
		layout.Rows, layout.SeatsPerRow, stats.TicketsSold, layout.TotalSeats(), stats.CurrentIncome,
	))

	hints := []string{"ctrl+c quit", "enter select", "0-3 pick option"}
	switch m.state {
	case stateShowSeats:
		hints = []string{"ctrl+c quit", "esc back", "n toggle numbers"}
	case stateSelectSeat:
		hints = []string{"ctrl+c quit", "esc cancel", "arrows/hjkl move", "enter buy", "n toggle numbers"}
	case stateTicket, stateStatistics:
		hints = []string{"ctrl+c quit", "esc/enter back"}
	}
	return title + "\n" + meta + "\n" + hint(hints...)
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c", "q":
		model, cmd := m.quit()
		return model, cmd, true
	case "esc":
		model, cmd := m.goBack()
		return model, cmd, true
	case "n":
		if m.state == stateShowSeats || m.state == stateSelectSeat {
			m.showSeatNumbers = !m.showSeatNumbers
			return m, nil, true
		}
	}

	switch m.state {
	case stateMenu:
		switch msg.String() {
		case "enter":
			item, ok := m.menu.SelectedItem().(menuItem)
			if !ok {
				return m, nil, true
			}
			model, cmd := m.choose(item.choice)
			return model, cmd, true
		case "0", "1", "2", "3":
			n, _ := strconv.Atoi(msg.String())
			model, cmd := m.choose(booking.Choice(n))
			return model, cmd, true
		}
	case stateSelectSeat:
		layout := m.session.Layout()
		switch msg.String() {
		case "up", "k":
			m.cursorRow = max(1, m.cursorRow-1)
			return m, nil, true
		case "down", "j":
			m.cursorRow = min(layout.Rows, m.cursorRow+1)
			return m, nil, true
		case "left", "h":
			m.cursorSeat = max(1, m.cursorSeat-1)
			return m, nil, true
		case "right", "l":
			m.cursorSeat = min(layout.SeatsPerRow, m.cursorSeat+1)
			return m, nil, true
		case "enter", " ":
			model, cmd := m.bookSeat()
			return model, cmd, true
		}
	case stateShowSeats, stateTicket, stateStatistics:
		if msg.String() == "enter" {
			model, cmd := m.goBack()
			return model, cmd, true
		}
	}
	return m, nil, false
}

func (m appModel) choose(choice booking.Choice) (tea.Model, tea.Cmd) {
	if choice == booking.ChoiceExit {
		return m.quit()
	}
	if err := m.session.Choose(choice); err != nil {
		if errors.Is(err, booking.ErrSoldOut) {
			m.notice = noticeSoldOut
			return m, nil
		}
		m.notice = err.Error()
		return m, nil
	}

	switch choice {
	case booking.ChoiceShowSeats:
		m.state = stateShowSeats
	case booking.ChoiceBuyTicket:
		m.state = stateSelectSeat
		m.cursorRow, m.cursorSeat = m.firstFreeSeat()
	case booking.ChoiceStatistics:
		m.state = stateStatistics
	}
	return m, nil
}

func (m appModel) bookSeat() (tea.Model, tea.Cmd) {
	ticket, err := m.session.RequestSeat(m.cursorRow, m.cursorSeat)
	switch {
	case err == nil:
		m.lastTicket = ticket
		m.state = stateTicket
		return m, nil
	case hall.IsSeatNotAvailable(err):
		m.notice = noticeAlreadyBooked
		return m, nil
	case booking.IsRetryable(err):
		m.notice = noticeWrongInput
		return m, nil
	default:
		m.logger.Error("book seat", "row", m.cursorRow, "seat", m.cursorSeat, "error", err)
		m.err = err
		return m.quit()
	}
}

func (m appModel) goBack() (tea.Model, tea.Cmd) {
	switch m.state {
	case stateSelectSeat:
		m.session.CancelPurchase()
		m.state = stateMenu
	case stateShowSeats, stateTicket, stateStatistics:
		m.state = stateMenu
	default:
		return m, nil
	}
	return m, nil
}

func (m appModel) quit() (tea.Model, tea.Cmd) {
	m.session.CancelPurchase()
	if m.session.State() == booking.AwaitingChoice {
		if err := m.session.Choose(booking.ChoiceExit); err != nil && m.err == nil {
			m.err = err
		}
	}
	return m, tea.Quit
}

func (m appModel) firstFreeSeat() (int, int) {
	layout := m.session.Layout()
	for row := 1; row <= layout.Rows; row++ {
		for seat := 1; seat <= layout.SeatsPerRow; seat++ {
			if state, err := m.session.SeatState(row, seat); err == nil && state == model.SeatFree {
				return row, seat
			}
		}
	}
	return 1, 1
}

func (m *appModel) resizeLists() {
	if m.width == 0 || m.height == 0 {
		return
	}
	h := m.height - 6
	if h < 6 {
		h = 6
	}
	m.menu.SetSize(m.width, h)
}

func (m appModel) selectionView() string {
	state, err := m.session.SeatState(m.cursorRow, m.cursorSeat)
	status := "free"
	if err != nil {
		status = "unknown"
	} else if state == model.SeatBooked {
		status = "booked"
	}
	return fmt.Sprintf("Row %d, seat %d • %s • Ticket price: $%d",
		m.cursorRow, m.cursorSeat, status, m.session.PriceForRow(m.cursorRow))
}

func (m appModel) ticketView() string {
	ticket := m.lastTicket
	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Padding(0, 2)

	var b strings.Builder
	fmt.Fprintf(&b, "Ticket price: $%d\n", ticket.Price)
	fmt.Fprintf(&b, "Row %d, seat %d\n", ticket.Row, ticket.Seat)
	b.WriteString(hint(ticket.ID.String()))
	if m.showQR {
		qr, err := report.TicketQR(ticket)
		if err != nil {
			m.logger.Warn("ticket qr code", "ticket", ticket.ID.String(), "error", err)
		} else {
			b.WriteString("\n\n" + strings.TrimRight(qr, "\n"))
		}
	}
	return panel.Render(b.String())
}

func (m appModel) statisticsView() string {
	var b strings.Builder
	_ = report.WriteStatistics(&b, m.session.Statistics())

	sales := report.SalesByPrice(m.session.Tickets())
	if len(sales) > 0 {
		b.WriteString("\n")
		for _, s := range sales {
			b.WriteString(hint(fmt.Sprintf("$%d x %d = $%d", s.Price, s.Tickets, s.Income)))
			b.WriteString("\n")
		}
	}
	return strings.TrimLeft(strings.TrimRight(b.String(), "\n"), "\n")
}

type menuItem struct {
	choice booking.Choice
}

func (i menuItem) Title() string {
	return fmt.Sprintf("%d. %s", int(i.choice), i.choice)
}

func (i menuItem) Description() string {
	switch i.choice {
	case booking.ChoiceShowSeats:
		return "Seat map of the hall"
	case booking.ChoiceBuyTicket:
		return "Pick a free seat"
	case booking.ChoiceStatistics:
		return "Tickets sold and income"
	default:
		return "Leave the booking office"
	}
}

func (i menuItem) FilterValue() string {
	return i.choice.String()
}

// newMenu lists choices in display order. Digits pick a choice directly, so
// filtering is off.
func newMenu(title string, choices []booking.Choice) list.Model {
	accent := lipgloss.Color("214")
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(accent).BorderForeground(accent)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(accent).BorderForeground(accent)

	items := make([]list.Item, 0, len(choices))
	for _, choice := range choices {
		items = append(items, menuItem{choice: choice})
	}
	l := list.New(items, delegate, 0, 0)
	l.Title = title
	l.Styles.Title = l.Styles.Title.Foreground(lipgloss.Color("0")).Background(accent)
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	return l
}

// hint renders key hints and counters as one faint line.
func hint(parts ...string) string {
	return lipgloss.NewStyle().Faint(true).Render(strings.Join(parts, " • "))
}
