// Package booking drives the menu of a single hall: showing seats, selling
// tickets and reporting statistics. It does no I/O; front-ends feed it the
// user's choices and coordinates.
package booking

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"cinema-booking-cli/hall"
	"cinema-booking-cli/ledger"
	"cinema-booking-cli/logging"
	"cinema-booking-cli/model"
	"cinema-booking-cli/pricing"
)

type State int

const (
	AwaitingChoice State = iota
	AwaitingCoordinates
	TicketIssued
	Terminated
)

func (s State) String() string {
	switch s {
	case AwaitingChoice:
		return "awaiting choice"
	case AwaitingCoordinates:
		return "awaiting coordinates"
	case TicketIssued:
		return "ticket issued"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type Session struct {
	grid    *hall.Grid
	ledger  *ledger.Ledger
	policy  pricing.Policy
	state   State
	tickets []model.Ticket

	logger *slog.Logger
	now    func() time.Time
	newID  func() uuid.UUID
}

type Option func(*Session)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

func NewSession(rows int, seatsPerRow int, opts ...Option) (*Session, error) {
	grid, err := hall.New(rows, seatsPerRow)
	if err != nil {
		return nil, err
	}
	s := &Session{
		grid:   grid,
		policy: pricing.Default(),
		state:  AwaitingChoice,
		logger: logging.Discard(),
		now:    time.Now,
		newID:  uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ledger = ledger.New(rows, seatsPerRow, s.policy)
	return s, nil
}

func (s *Session) State() State {
	return s.state
}

// Choose applies a menu choice. Showing seats and statistics leave the
// session waiting for the next choice; the caller renders them.
func (s *Session) Choose(choice Choice) error {
	if s.state != AwaitingChoice {
		return fmt.Errorf("%w: choose %s while %s", ErrInvalidTransition, choice, s.state)
	}
	switch choice {
	case ChoiceShowSeats, ChoiceStatistics:
		s.logger.Debug("menu choice", "choice", choice.String())
	case ChoiceBuyTicket:
		if s.SoldOut() {
			return ErrSoldOut
		}
		s.state = AwaitingCoordinates
	case ChoiceExit:
		s.state = Terminated
		s.logger.Info("session terminated", "tickets_sold", s.ledger.TicketsSold(), "income", s.ledger.CurrentIncome())
	default:
		return fmt.Errorf("%w: %d", ErrInvalidMenuChoice, int(choice))
	}
	return nil
}

// RequestSeat sells the seat at row/seat. Invalid or taken seats leave the
// session waiting for other coordinates with nothing changed.
func (s *Session) RequestSeat(row int, seat int) (model.Ticket, error) {
	if s.state != AwaitingCoordinates {
		return model.Ticket{}, fmt.Errorf("%w: request seat while %s", ErrInvalidTransition, s.state)
	}
	free, err := s.grid.IsFree(row, seat)
	if err != nil {
		s.logger.Debug("seat rejected", "row", row, "seat", seat, "error", err)
		return model.Ticket{}, err
	}
	if !free {
		err := &hall.SeatError{Row: row, Seat: seat, Err: hall.ErrSeatNotAvailable}
		s.logger.Debug("seat rejected", "row", row, "seat", seat, "error", err)
		return model.Ticket{}, err
	}

	s.state = TicketIssued
	ticket, err := s.issue(row, seat)
	s.state = AwaitingChoice
	if err != nil {
		return model.Ticket{}, err
	}
	return ticket, nil
}

// RequestSeatText parses raw row and seat input before calling RequestSeat.
func (s *Session) RequestSeatText(rowText string, seatText string) (model.Ticket, error) {
	if s.state != AwaitingCoordinates {
		return model.Ticket{}, fmt.Errorf("%w: request seat while %s", ErrInvalidTransition, s.state)
	}
	row, err := ParseCoordinate(rowText)
	if err != nil {
		return model.Ticket{}, err
	}
	seat, err := ParseCoordinate(seatText)
	if err != nil {
		return model.Ticket{}, err
	}
	return s.RequestSeat(row, seat)
}

// CancelPurchase abandons a pending ticket purchase.
func (s *Session) CancelPurchase() {
	if s.state == AwaitingCoordinates {
		s.state = AwaitingChoice
	}
}

func (s *Session) issue(row int, seat int) (model.Ticket, error) {
	price := s.policy.PriceForRow(row, s.grid.Rows(), s.grid.SeatsPerRow())
	if price < 0 {
		return model.Ticket{}, fmt.Errorf("price row %d: %w", row, ledger.ErrNegativePrice)
	}
	if err := s.grid.Book(row, seat); err != nil {
		return model.Ticket{}, err
	}
	if err := s.ledger.RecordSale(price); err != nil {
		return model.Ticket{}, fmt.Errorf("record sale: %w", err)
	}

	ticket := model.Ticket{
		ID:       s.newID(),
		Row:      row,
		Seat:     seat,
		Price:    price,
		IssuedAt: s.now(),
	}
	s.tickets = append(s.tickets, ticket)
	s.logger.Info("ticket issued",
		"ticket", ticket.ID.String(),
		"row", row,
		"seat", seat,
		"price", price,
	)
	return ticket, nil
}

func (s *Session) Layout() model.HallLayout {
	return s.grid.Layout()
}

func (s *Session) Seats() hall.Rendering {
	return s.grid.Render()
}

func (s *Session) SeatState(row int, seat int) (model.SeatState, error) {
	return s.grid.Seat(row, seat)
}

func (s *Session) PriceForRow(row int) int {
	return s.policy.PriceForRow(row, s.grid.Rows(), s.grid.SeatsPerRow())
}

func (s *Session) FrontRows() int {
	return s.policy.FrontRows(s.grid.Rows(), s.grid.SeatsPerRow())
}

func (s *Session) Tiers() []pricing.Tier {
	return s.policy.Tiers(s.grid.Rows(), s.grid.SeatsPerRow())
}

func (s *Session) Statistics() model.Statistics {
	return s.ledger.Snapshot()
}

func (s *Session) SoldOut() bool {
	return s.grid.Booked() == s.grid.Capacity()
}

func (s *Session) Tickets() []model.Ticket {
	return append([]model.Ticket(nil), s.tickets...)
}

// IsRetryable reports whether err came from user input and the caller
// should simply ask again.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrMalformedInput) ||
		errors.Is(err, ErrInvalidMenuChoice) ||
		errors.Is(err, ErrSoldOut) ||
		errors.Is(err, hall.ErrOutOfBounds) ||
		errors.Is(err, hall.ErrSeatNotAvailable) ||
		errors.Is(err, hall.ErrInvalidDimension)
}
