package model

type SeatState int

const (
	SeatFree SeatState = iota
	SeatBooked
)

// Symbol is the single-character form used by the seat grid listing.
func (s SeatState) Symbol() rune {
	if s == SeatBooked {
		return 'B'
	}
	return 'S'
}

func (s SeatState) String() string {
	switch s {
	case SeatFree:
		return "free"
	case SeatBooked:
		return "booked"
	default:
		return "unknown"
	}
}
