package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"cinema-booking-cli/hall"
	"cinema-booking-cli/model"
)

func newTestSession(t *testing.T, rows int, seats int) *Session {
	t.Helper()
	s, err := NewSession(rows, seats, WithClock(func() time.Time {
		return time.Date(2026, 1, 2, 20, 0, 0, 0, time.UTC)
	}))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	return s
}

func buy(t *testing.T, s *Session, row int, seat int) model.Ticket {
	t.Helper()
	if err := s.Choose(ChoiceBuyTicket); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	ticket, err := s.RequestSeat(row, seat)
	if err != nil {
		t.Fatalf("buy row %d seat %d: expected nil error, got %v", row, seat, err)
	}
	return ticket
}

func TestNewSession_InvalidDimension(t *testing.T) {
	if _, err := NewSession(0, 10); !errors.Is(err, hall.ErrInvalidDimension) {
		t.Fatalf("expected ErrInvalidDimension, got %v", err)
	}
}

func TestChoose_Transitions(t *testing.T) {
	s := newTestSession(t, 4, 10)
	if s.State() != AwaitingChoice {
		t.Fatalf("expected initial state %s, got %s", AwaitingChoice, s.State())
	}

	for _, choice := range []Choice{ChoiceShowSeats, ChoiceStatistics} {
		if err := s.Choose(choice); err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
		if s.State() != AwaitingChoice {
			t.Fatalf("expected %s after %s, got %s", AwaitingChoice, choice, s.State())
		}
	}

	if err := s.Choose(Choice(7)); !errors.Is(err, ErrInvalidMenuChoice) {
		t.Fatalf("expected ErrInvalidMenuChoice, got %v", err)
	}
	if s.State() != AwaitingChoice {
		t.Fatalf("expected state unchanged, got %s", s.State())
	}

	if err := s.Choose(ChoiceBuyTicket); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if s.State() != AwaitingCoordinates {
		t.Fatalf("expected %s, got %s", AwaitingCoordinates, s.State())
	}
	if err := s.Choose(ChoiceExit); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	s.CancelPurchase()
	if s.State() != AwaitingChoice {
		t.Fatalf("expected %s after cancel, got %s", AwaitingChoice, s.State())
	}

	if err := s.Choose(ChoiceExit); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if s.State() != Terminated {
		t.Fatalf("expected %s, got %s", Terminated, s.State())
	}
	if err := s.Choose(ChoiceShowSeats); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition after exit, got %v", err)
	}
}

func TestRequestSeat_SmallRoomUniformPrice(t *testing.T) {
	s := newTestSession(t, 4, 10)

	first := buy(t, s, 1, 1)
	last := buy(t, s, 4, 10)
	if first.Price != 10 || last.Price != 10 {
		t.Fatalf("expected both tickets at $10, got %d and %d", first.Price, last.Price)
	}
	if s.State() != AwaitingChoice {
		t.Fatalf("expected %s after ticket, got %s", AwaitingChoice, s.State())
	}
	if first.ID == uuid.Nil || first.ID == last.ID {
		t.Fatalf("expected distinct ticket ids, got %s and %s", first.ID, last.ID)
	}
}

func TestRequestSeat_LargeRoomScenario(t *testing.T) {
	s := newTestSession(t, 10, 10)

	front := buy(t, s, 5, 1)
	back := buy(t, s, 6, 1)
	if front.Price != 10 {
		t.Fatalf("expected row 5 at $10, got %d", front.Price)
	}
	if back.Price != 8 {
		t.Fatalf("expected row 6 at $8, got %d", back.Price)
	}

	stats := s.Statistics()
	if stats.TicketsSold != 2 || stats.CurrentIncome != 18 || stats.TotalPossibleIncome != 900 {
		t.Fatalf("unexpected statistics: %+v", stats)
	}
	if stats.Percentage != 2.0 {
		t.Fatalf("expected 2%%, got %v", stats.Percentage)
	}
}

func TestRequestSeat_AlreadyBookedLeavesLedgerUnchanged(t *testing.T) {
	s := newTestSession(t, 4, 10)
	buy(t, s, 2, 3)
	before := s.Statistics()

	if err := s.Choose(ChoiceBuyTicket); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	_, err := s.RequestSeat(2, 3)
	if !errors.Is(err, hall.ErrSeatNotAvailable) {
		t.Fatalf("expected ErrSeatNotAvailable, got %v", err)
	}
	if !IsRetryable(err) {
		t.Fatalf("expected error to be retryable: %v", err)
	}
	if s.State() != AwaitingCoordinates {
		t.Fatalf("expected to keep waiting for coordinates, got %s", s.State())
	}
	if after := s.Statistics(); after != before {
		t.Fatalf("expected statistics unchanged, got %+v want %+v", after, before)
	}
}

func TestRequestSeat_OutOfBoundsLeavesStateUnchanged(t *testing.T) {
	for _, dims := range [][2]int{{4, 10}, {10, 10}} {
		s := newTestSession(t, dims[0], dims[1])
		if err := s.Choose(ChoiceBuyTicket); err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
		for _, row := range []int{0, dims[0] + 1} {
			_, err := s.RequestSeat(row, 1)
			if !errors.Is(err, hall.ErrOutOfBounds) {
				t.Fatalf("row %d: expected ErrOutOfBounds, got %v", row, err)
			}
		}
		stats := s.Statistics()
		if stats.TicketsSold != 0 || stats.CurrentIncome != 0 {
			t.Fatalf("expected empty ledger, got %+v", stats)
		}
		for _, symbols := range s.Seats().Rows {
			for symbol := range symbols {
				if symbol != 'S' {
					t.Fatalf("expected every seat free, found %q", symbol)
				}
			}
		}
	}
}

func TestRequestSeat_WrongState(t *testing.T) {
	s := newTestSession(t, 4, 10)
	if _, err := s.RequestSeat(1, 1); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if state, _ := s.SeatState(1, 1); state != model.SeatFree {
		t.Fatalf("expected seat to stay free, got %s", state)
	}
}

func TestRequestSeatText(t *testing.T) {
	s := newTestSession(t, 4, 10)
	if err := s.Choose(ChoiceBuyTicket); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	if _, err := s.RequestSeatText("one", "2"); !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}
	if _, err := s.RequestSeatText("1", ""); !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}
	if s.State() != AwaitingCoordinates {
		t.Fatalf("expected to keep waiting for coordinates, got %s", s.State())
	}

	ticket, err := s.RequestSeatText(" 3 ", "7")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if ticket.Row != 3 || ticket.Seat != 7 {
		t.Fatalf("unexpected ticket: %+v", ticket)
	}
}

func TestSession_CountersMatchGridAfterManyBookings(t *testing.T) {
	s := newTestSession(t, 9, 8)
	sum := 0
	n := 0
	for row := 1; row <= 9; row++ {
		for seat := 1; seat <= 8; seat += 3 {
			sum += buy(t, s, row, seat).Price
			n++
		}
	}
	stats := s.Statistics()
	if stats.TicketsSold != n || stats.CurrentIncome != sum {
		t.Fatalf("expected %d tickets and $%d, got %+v", n, sum, stats)
	}
	if got := len(s.Tickets()); got != n {
		t.Fatalf("expected %d issued tickets, got %d", n, got)
	}
}

func TestStatistics_FullHall(t *testing.T) {
	s := newTestSession(t, 2, 3)
	for row := 1; row <= 2; row++ {
		for seat := 1; seat <= 3; seat++ {
			buy(t, s, row, seat)
		}
	}
	if !s.SoldOut() {
		t.Fatal("expected hall to be sold out")
	}
	if got := s.Statistics().Percentage; got != 100.0 {
		t.Fatalf("expected 100%%, got %v", got)
	}
	if err := s.Choose(ChoiceBuyTicket); !errors.Is(err, ErrSoldOut) {
		t.Fatalf("expected ErrSoldOut, got %v", err)
	}
	if s.State() != AwaitingChoice {
		t.Fatalf("expected %s, got %s", AwaitingChoice, s.State())
	}
}

func TestParseChoice(t *testing.T) {
	cases := []struct {
		input string
		want  Choice
		err   error
	}{
		{"1", ChoiceShowSeats, nil},
		{" 2\n", ChoiceBuyTicket, nil},
		{"3", ChoiceStatistics, nil},
		{"0", ChoiceExit, nil},
		{"4", 0, ErrInvalidMenuChoice},
		{"-1", 0, ErrInvalidMenuChoice},
		{"exit", 0, ErrMalformedInput},
		{"", 0, ErrMalformedInput},
	}
	for _, tc := range cases {
		got, err := ParseChoice(tc.input)
		if tc.err != nil {
			if !errors.Is(err, tc.err) {
				t.Fatalf("ParseChoice(%q): expected %v, got %v", tc.input, tc.err, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("ParseChoice(%q): expected %s, got %s (%v)", tc.input, tc.want, got, err)
		}
	}
}

func TestParseDimension(t *testing.T) {
	if n, err := ParseDimension("7"); err != nil || n != 7 {
		t.Fatalf("expected 7, got %d (%v)", n, err)
	}
	if _, err := ParseDimension("0"); !errors.Is(err, hall.ErrInvalidDimension) {
		t.Fatalf("expected ErrInvalidDimension, got %v", err)
	}
	if _, err := ParseDimension("x"); !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}
	if _, err := ParseDimension("4294967296"); !errors.Is(err, hall.ErrHallTooLarge) {
		t.Fatalf("expected ErrHallTooLarge, got %v", err)
	}
}

func TestNewSession_HallTooLarge(t *testing.T) {
	if _, err := NewSession(1<<32, 1<<32); !errors.Is(err, hall.ErrHallTooLarge) {
		t.Fatalf("expected ErrHallTooLarge, got %v", err)
	}
}
