// Package ledger keeps the running sales totals of a hall.
package ledger

import (
	"errors"
	"fmt"

	"cinema-booking-cli/model"
	"cinema-booking-cli/pricing"
)

var (
	ErrNegativePrice    = errors.New("ticket price must not be negative")
	ErrCapacityExceeded = errors.New("every seat has already been sold")
)

// Ledger counts sold tickets and collected income. Counters only grow.
type Ledger struct {
	capacity            int
	ticketsSold         int
	currentIncome       int
	totalPossibleIncome int
}

func New(rows int, seatsPerRow int, policy pricing.Policy) *Ledger {
	return &Ledger{
		capacity:            rows * seatsPerRow,
		totalPossibleIncome: policy.TotalPossibleIncome(rows, seatsPerRow),
	}
}

func (l *Ledger) RecordSale(price int) error {
	if price < 0 {
		return fmt.Errorf("%w: got %d", ErrNegativePrice, price)
	}
	if l.ticketsSold >= l.capacity {
		return ErrCapacityExceeded
	}
	l.ticketsSold++
	l.currentIncome += price
	return nil
}

func (l *Ledger) PercentageSold(totalSeats int) float64 {
	if totalSeats <= 0 {
		return 0
	}
	return 100.0 * float64(l.ticketsSold) / float64(totalSeats)
}

func (l *Ledger) Snapshot() model.Statistics {
	return model.Statistics{
		TicketsSold:         l.ticketsSold,
		Percentage:          l.PercentageSold(l.capacity),
		CurrentIncome:       l.currentIncome,
		TotalPossibleIncome: l.totalPossibleIncome,
	}
}

func (l *Ledger) TicketsSold() int {
	return l.ticketsSold
}

func (l *Ledger) CurrentIncome() int {
	return l.currentIncome
}

func (l *Ledger) TotalPossibleIncome() int {
	return l.totalPossibleIncome
}
