// Package hall holds the seat availability state of a single cinema hall.
package hall

import (
	"errors"
	"fmt"
	"iter"

	"cinema-booking-cli/model"
)

// MaxSeats bounds the size of a hall so the seat slice always fits in memory
// and rows*seatsPerRow cannot overflow.
const MaxSeats = 100_000

var (
	ErrInvalidDimension = errors.New("hall dimensions must be positive")
	ErrHallTooLarge     = fmt.Errorf("%w: hall has more than %d seats", ErrInvalidDimension, MaxSeats)
	ErrOutOfBounds      = errors.New("seat is outside the hall")
	ErrSeatNotAvailable = errors.New("seat has already been purchased")
)

// SeatError is returned by coordinate operations and wraps one of the
// sentinel errors above.
type SeatError struct {
	Row  int
	Seat int
	Err  error
}

func (e *SeatError) Error() string {
	if e == nil {
		return "seat error"
	}
	return fmt.Sprintf("row %d seat %d: %v", e.Row, e.Seat, e.Err)
}

func (e *SeatError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Grid is a rows x seatsPerRow hall. Rows and seats are 1-based.
type Grid struct {
	rows        int
	seatsPerRow int
	seats       []model.SeatState
	booked      int
}

// Rendering is a read-only view of the grid. Both sequences read the grid
// state at iteration time, so ranging over them again reflects later bookings.
type Rendering struct {
	Header iter.Seq[int]
	Rows   iter.Seq2[int, iter.Seq[rune]]
}

// ValidateLayout checks that both dimensions are positive and that the hall
// holds at most MaxSeats seats.
func ValidateLayout(rows int, seatsPerRow int) error {
	if rows <= 0 || seatsPerRow <= 0 {
		return fmt.Errorf("%w: got %d rows and %d seats per row", ErrInvalidDimension, rows, seatsPerRow)
	}
	if seatsPerRow > MaxSeats/rows {
		return fmt.Errorf("%w: got %d rows and %d seats per row", ErrHallTooLarge, rows, seatsPerRow)
	}
	return nil
}

func New(rows int, seatsPerRow int) (*Grid, error) {
	if err := ValidateLayout(rows, seatsPerRow); err != nil {
		return nil, err
	}
	return &Grid{
		rows:        rows,
		seatsPerRow: seatsPerRow,
		seats:       make([]model.SeatState, rows*seatsPerRow),
	}, nil
}

func (g *Grid) Rows() int {
	return g.rows
}

func (g *Grid) SeatsPerRow() int {
	return g.seatsPerRow
}

func (g *Grid) Capacity() int {
	return g.rows * g.seatsPerRow
}

func (g *Grid) Booked() int {
	return g.booked
}

func (g *Grid) Layout() model.HallLayout {
	return model.HallLayout{Rows: g.rows, SeatsPerRow: g.seatsPerRow}
}

func (g *Grid) InBounds(row int, seat int) bool {
	return row >= 1 && row <= g.rows && seat >= 1 && seat <= g.seatsPerRow
}

func (g *Grid) Seat(row int, seat int) (model.SeatState, error) {
	if !g.InBounds(row, seat) {
		return model.SeatFree, &SeatError{Row: row, Seat: seat, Err: ErrOutOfBounds}
	}
	return g.seats[g.index(row, seat)], nil
}

func (g *Grid) IsFree(row int, seat int) (bool, error) {
	state, err := g.Seat(row, seat)
	if err != nil {
		return false, err
	}
	return state == model.SeatFree, nil
}

// Book marks a free seat as booked. There is no way back to free.
func (g *Grid) Book(row int, seat int) error {
	if !g.InBounds(row, seat) {
		return &SeatError{Row: row, Seat: seat, Err: ErrOutOfBounds}
	}
	i := g.index(row, seat)
	if g.seats[i] == model.SeatBooked {
		return &SeatError{Row: row, Seat: seat, Err: ErrSeatNotAvailable}
	}
	g.seats[i] = model.SeatBooked
	g.booked++
	return nil
}

func (g *Grid) Render() Rendering {
	header := func(yield func(int) bool) {
		for seat := 1; seat <= g.seatsPerRow; seat++ {
			if !yield(seat) {
				return
			}
		}
	}
	rows := func(yield func(int, iter.Seq[rune]) bool) {
		for row := 1; row <= g.rows; row++ {
			if !yield(row, g.rowSymbols(row)) {
				return
			}
		}
	}
	return Rendering{Header: header, Rows: rows}
}

func (g *Grid) rowSymbols(row int) iter.Seq[rune] {
	return func(yield func(rune) bool) {
		start := g.index(row, 1)
		for _, state := range g.seats[start : start+g.seatsPerRow] {
			if !yield(state.Symbol()) {
				return
			}
		}
	}
}

func (g *Grid) index(row int, seat int) int {
	return (row-1)*g.seatsPerRow + (seat - 1)
}

// IsOutOfBounds reports whether err was caused by coordinates outside the hall.
func IsOutOfBounds(err error) bool {
	return errors.Is(err, ErrOutOfBounds)
}

// IsSeatNotAvailable reports whether err was caused by an already booked seat.
func IsSeatNotAvailable(err error) bool {
	return errors.Is(err, ErrSeatNotAvailable)
}
