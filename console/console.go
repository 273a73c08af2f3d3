// Package console runs the booking menu as a line-oriented prompt loop.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"cinema-booking-cli/booking"
	"cinema-booking-cli/hall"
	"cinema-booking-cli/logging"
	"cinema-booking-cli/model"
	"cinema-booking-cli/report"
)

const (
	msgPositive       = "Error: Input must be positive!"
	msgNumber         = "Error: Please enter a number!"
	msgMenuRange      = "Error: Number must be between 0 and 3!"
	msgWrongInput     = "Wrong input!"
	msgAlreadyBooked  = "That ticket has already been purchased!"
	msgSoldOut        = "Sorry, all tickets have been sold!"
	msgTooLarge       = "Error: A hall can have at most 100000 seats!"
	promptRows        = "Enter the number of rows:"
	promptSeatsPerRow = "Enter the number of seats in each row:"
	promptRow         = "Enter a row number:"
	promptSeat        = "Enter a seat number in that row:"
)

// maxLineLength caps one line of input. Longer lines are read to the end and
// reported as malformed.
const maxLineLength = 4096

var errLineTooLong = fmt.Errorf("%w: line longer than %d bytes", booking.ErrMalformedInput, maxLineLength)

type Console struct {
	in     *bufio.Reader
	out    io.Writer
	showQR bool
	logger *slog.Logger
}

type Option func(*Console)

// WithTicketQR prints a QR code under every ticket price.
func WithTicketQR(enabled bool) Option {
	return func(c *Console) {
		c.showQR = enabled
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Console) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func New(in io.Reader, out io.Writer, opts ...Option) *Console {
	c := &Console{
		in:     bufio.NewReader(in),
		out:    out,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ReadDimensions asks for the hall size until both numbers are positive.
// It returns an error wrapping io.EOF when the input ends first.
func (c *Console) ReadDimensions() (model.HallLayout, error) {
	return c.CompleteDimensions(model.HallLayout{})
}

// CompleteDimensions asks only for the dimensions of partial that are not
// positive yet. When the answers make the hall too large, the asked
// dimensions are asked again. A partial layout that is already too large is
// returned as an error.
func (c *Console) CompleteDimensions(partial model.HallLayout) (model.HallLayout, error) {
	for {
		layout := partial
		var err error
		if layout.Rows <= 0 {
			if layout.Rows, err = c.readPositiveInt(promptRows); err != nil {
				return model.HallLayout{}, err
			}
		}
		if layout.SeatsPerRow <= 0 {
			if layout.SeatsPerRow, err = c.readPositiveInt(promptSeatsPerRow); err != nil {
				return model.HallLayout{}, err
			}
		}

		err = hall.ValidateLayout(layout.Rows, layout.SeatsPerRow)
		if err == nil {
			return layout, nil
		}
		if partial.Rows > 0 && partial.SeatsPerRow > 0 {
			return model.HallLayout{}, err
		}
		c.println(msgTooLarge)
	}
}

func (c *Console) readPositiveInt(prompt string) (int, error) {
	for {
		c.println(prompt)
		line, err := c.readLine()
		if err != nil && !errors.Is(err, errLineTooLong) {
			return 0, err
		}
		n, err := parseDimensionLine(line, err)
		switch {
		case err == nil:
			return n, nil
		case errors.Is(err, hall.ErrHallTooLarge):
			c.println(msgTooLarge)
		case errors.Is(err, hall.ErrInvalidDimension):
			c.println(msgPositive)
		default:
			c.println(msgNumber)
		}
	}
}

// Run shows the menu until the user exits or the input ends. Input errors
// are reported and asked again; only write failures and unexpected session
// errors are returned.
func (c *Console) Run(session *booking.Session) error {
	for session.State() != booking.Terminated {
		c.showMenu()
		line, err := c.readLine()
		if errors.Is(err, io.EOF) {
			c.logger.Debug("input closed, leaving menu")
			return session.Choose(booking.ChoiceExit)
		}
		if err != nil && !errors.Is(err, errLineTooLong) {
			return err
		}

		choice, err := parseChoiceLine(line, err)
		if err != nil {
			c.logger.Debug("invalid menu choice", "input", line, "error", err)
			c.println(msgMenuRange)
			continue
		}
		if err := session.Choose(choice); err != nil {
			if errors.Is(err, booking.ErrSoldOut) {
				c.println(msgSoldOut)
				continue
			}
			return err
		}

		switch choice {
		case booking.ChoiceShowSeats:
			err = report.WriteSeats(c.out, session.Seats())
		case booking.ChoiceBuyTicket:
			err = c.buyTicket(session)
		case booking.ChoiceStatistics:
			err = report.WriteStatistics(c.out, session.Statistics())
		}
		if errors.Is(err, io.EOF) {
			return session.Choose(booking.ChoiceExit)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Console) buyTicket(session *booking.Session) error {
	for {
		c.println(promptRow)
		rowText, rowErr := c.readLine()
		if rowErr != nil && !errors.Is(rowErr, errLineTooLong) {
			session.CancelPurchase()
			return rowErr
		}
		c.println(promptSeat)
		seatText, seatErr := c.readLine()
		if seatErr != nil && !errors.Is(seatErr, errLineTooLong) {
			session.CancelPurchase()
			return seatErr
		}

		var ticket model.Ticket
		var err error
		switch {
		case rowErr != nil:
			err = rowErr
		case seatErr != nil:
			err = seatErr
		default:
			ticket, err = session.RequestSeatText(rowText, seatText)
		}
		switch {
		case err == nil:
			return c.printTicket(ticket)
		case hall.IsSeatNotAvailable(err):
			c.println(msgAlreadyBooked)
		case booking.IsRetryable(err):
			c.println(msgWrongInput)
		default:
			return err
		}
	}
}

func (c *Console) printTicket(ticket model.Ticket) error {
	if err := report.WriteTicketPrice(c.out, ticket); err != nil {
		return err
	}
	if !c.showQR {
		return nil
	}
	qr, err := report.TicketQR(ticket)
	if err != nil {
		c.logger.Warn("ticket qr code", "ticket", ticket.ID.String(), "error", err)
		return nil
	}
	_, err = fmt.Fprintf(c.out, "Ticket %s\n%s\n", ticket.ID, qr)
	return err
}

func (c *Console) showMenu() {
	c.println("")
	for _, choice := range booking.Choices {
		c.println(fmt.Sprintf("%d. %s", int(choice), choice))
	}
}

// readLine returns the next line without its line ending. Lines longer than
// maxLineLength are consumed and reported as errLineTooLong; io.EOF means the
// input has ended.
func (c *Console) readLine() (string, error) {
	var (
		line    []byte
		tooLong bool
	)
	for {
		chunk, isPrefix, err := c.in.ReadLine()
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		if err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		if !tooLong {
			line = append(line, chunk...)
			if len(line) > maxLineLength {
				tooLong = true
				line = nil
			}
		}
		if !isPrefix {
			break
		}
	}
	if tooLong {
		return "", errLineTooLong
	}
	return string(line), nil
}

func parseDimensionLine(line string, readErr error) (int, error) {
	if readErr != nil {
		return 0, readErr
	}
	return booking.ParseDimension(line)
}

func parseChoiceLine(line string, readErr error) (booking.Choice, error) {
	if readErr != nil {
		return 0, readErr
	}
	return booking.ParseChoice(line)
}

func (c *Console) println(text string) {
	fmt.Fprintln(c.out, text)
}
