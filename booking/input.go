package booking

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"cinema-booking-cli/hall"
)

var (
	ErrMalformedInput    = errors.New("input is not a number")
	ErrInvalidMenuChoice = errors.New("menu choice must be between 0 and 3")
	ErrInvalidTransition = errors.New("operation not allowed in current state")
	ErrSoldOut           = errors.New("all tickets have been sold")
)

type Choice int

const (
	ChoiceExit Choice = iota
	ChoiceShowSeats
	ChoiceBuyTicket
	ChoiceStatistics
)

// Choices lists the menu in display order.
var Choices = []Choice{ChoiceShowSeats, ChoiceBuyTicket, ChoiceStatistics, ChoiceExit}

func (c Choice) String() string {
	switch c {
	case ChoiceShowSeats:
		return "Show the seats"
	case ChoiceBuyTicket:
		return "Buy a ticket"
	case ChoiceStatistics:
		return "Statistics"
	case ChoiceExit:
		return "Exit"
	default:
		return fmt.Sprintf("choice(%d)", int(c))
	}
}

func (c Choice) Valid() bool {
	return c >= ChoiceExit && c <= ChoiceStatistics
}

func ParseChoice(text string) (Choice, error) {
	n, err := parseInt(text)
	if err != nil {
		return 0, err
	}
	choice := Choice(n)
	if !choice.Valid() {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidMenuChoice, n)
	}
	return choice, nil
}

func ParseCoordinate(text string) (int, error) {
	return parseInt(text)
}

func ParseDimension(text string) (int, error) {
	n, err := parseInt(text)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("%w: got %d", hall.ErrInvalidDimension, n)
	}
	if n > hall.MaxSeats {
		return 0, fmt.Errorf("%w: got %d", hall.ErrHallTooLarge, n)
	}
	return n, nil
}

func parseInt(text string) (int, error) {
	value := strings.TrimSpace(text)
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedInput, value)
	}
	return n, nil
}
