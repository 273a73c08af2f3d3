package console

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"cinema-booking-cli/booking"
	"cinema-booking-cli/hall"
	"cinema-booking-cli/model"
)

func run(t *testing.T, rows int, seats int, input string, opts ...Option) (*booking.Session, string) {
	t.Helper()
	session, err := booking.NewSession(rows, seats)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	var out bytes.Buffer
	c := New(strings.NewReader(input), &out, opts...)
	if err := c.Run(session); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	return session, out.String()
}

func TestRun_LargeHallTranscript(t *testing.T) {
	input := strings.Join([]string{
		"2", "5", "1",
		"2", "6", "1",
		"3",
		"0",
	}, "\n") + "\n"

	session, out := run(t, 10, 10, input)

	if session.State() != booking.Terminated {
		t.Fatalf("expected terminated session, got %s", session.State())
	}
	first := strings.Index(out, "Ticket price: $10")
	second := strings.Index(out, "Ticket price: $8")
	if first < 0 || second < 0 || second < first {
		t.Fatalf("expected $10 then $8 ticket prices, got:\n%s", out)
	}
	for _, want := range []string{
		"Number of purchased tickets: 2\n",
		"Percentage: 2.00%\n",
		"Current income: $18\n",
		"Total income: $900\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestRun_MenuText(t *testing.T) {
	_, out := run(t, 2, 2, "0\n")
	want := "\n1. Show the seats\n2. Buy a ticket\n3. Statistics\n0. Exit\n"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestRun_ShowSeatsAfterBooking(t *testing.T) {
	_, out := run(t, 2, 3, "2\n1\n2\n1\n0\n")
	if !strings.Contains(out, "Cinema:\n  1 2 3 \n1 S B S \n2 S S S \n") {
		t.Fatalf("unexpected seat listing:\n%s", out)
	}
}

func TestRun_InvalidMenuChoice(t *testing.T) {
	session, out := run(t, 2, 2, "9\nabc\n0\n")
	if got := strings.Count(out, msgMenuRange); got != 2 {
		t.Fatalf("expected 2 menu errors, got %d in:\n%s", got, out)
	}
	if session.State() != booking.Terminated {
		t.Fatalf("expected terminated session, got %s", session.State())
	}
}

func TestRun_RetriesInvalidCoordinates(t *testing.T) {
	input := strings.Join([]string{
		"2", "1", "1",
		"2", "1", "1",
		"0", "1",
		"x", "1",
		"1", "9",
		"2", "2",
		"3",
		"0",
	}, "\n") + "\n"

	session, out := run(t, 2, 2, input)

	if got := strings.Count(out, msgAlreadyBooked); got != 1 {
		t.Fatalf("expected 1 already purchased message, got %d in:\n%s", got, out)
	}
	if got := strings.Count(out, msgWrongInput); got != 3 {
		t.Fatalf("expected 3 wrong input messages, got %d in:\n%s", got, out)
	}
	stats := session.Statistics()
	if stats.TicketsSold != 2 || stats.CurrentIncome != 20 {
		t.Fatalf("unexpected statistics: %+v", stats)
	}
	if !strings.Contains(out, "Percentage: 50.00%") {
		t.Fatalf("expected 50%% in output, got:\n%s", out)
	}
}

func TestRun_EOFExits(t *testing.T) {
	session, _ := run(t, 2, 2, "1\n")
	if session.State() != booking.Terminated {
		t.Fatalf("expected terminated session, got %s", session.State())
	}

	session, _ = run(t, 2, 2, "2\n1\n")
	if session.State() != booking.Terminated {
		t.Fatalf("expected terminated session after EOF mid-purchase, got %s", session.State())
	}
	if session.Statistics().TicketsSold != 0 {
		t.Fatalf("expected no tickets sold, got %+v", session.Statistics())
	}
}

func TestRun_SoldOut(t *testing.T) {
	_, out := run(t, 1, 1, "2\n1\n1\n2\n0\n")
	if !strings.Contains(out, msgSoldOut) {
		t.Fatalf("expected sold out message, got:\n%s", out)
	}
}

func TestRun_TicketQR(t *testing.T) {
	session, out := run(t, 1, 2, "2\n1\n2\n0\n", WithTicketQR(true))
	tickets := session.Tickets()
	if len(tickets) != 1 {
		t.Fatalf("expected 1 ticket, got %d", len(tickets))
	}
	if !strings.Contains(out, "Ticket "+tickets[0].ID.String()) {
		t.Fatalf("expected ticket id in output, got:\n%s", out)
	}
}

func TestReadDimensions(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader("ten\n0\n10\n-4\n9\n"), &out)

	layout, err := c.ReadDimensions()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if layout.Rows != 10 || layout.SeatsPerRow != 9 {
		t.Fatalf("unexpected layout: %+v", layout)
	}
	if got := strings.Count(out.String(), msgNumber); got != 1 {
		t.Fatalf("expected 1 number error, got %d in:\n%s", got, out.String())
	}
	if got := strings.Count(out.String(), msgPositive); got != 2 {
		t.Fatalf("expected 2 positive errors, got %d in:\n%s", got, out.String())
	}
}

func TestReadDimensions_EOF(t *testing.T) {
	c := New(strings.NewReader("5\n"), io.Discard)
	if _, err := c.ReadDimensions(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestCompleteDimensions_AsksOnlyMissing(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader("6\n"), &out)

	layout, err := c.CompleteDimensions(model.HallLayout{Rows: 4})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if layout.Rows != 4 || layout.SeatsPerRow != 6 {
		t.Fatalf("unexpected layout: %+v", layout)
	}
	if strings.Contains(out.String(), promptRows) {
		t.Fatalf("expected no rows prompt, got:\n%s", out.String())
	}
}

func TestReadDimensions_HallTooLarge(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader("4294967296\n1000\n1000\n10\n10\n"), &out)

	layout, err := c.ReadDimensions()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if layout.Rows != 10 || layout.SeatsPerRow != 10 {
		t.Fatalf("unexpected layout: %+v", layout)
	}
	if got := strings.Count(out.String(), msgTooLarge); got != 2 {
		t.Fatalf("expected 2 too large errors, got %d in:\n%s", got, out.String())
	}
	if strings.Contains(out.String(), msgPositive) {
		t.Fatalf("expected no positive error, got:\n%s", out.String())
	}
}

func TestCompleteDimensions_GivenHallTooLarge(t *testing.T) {
	c := New(strings.NewReader(""), io.Discard)

	_, err := c.CompleteDimensions(model.HallLayout{Rows: 1 << 32, SeatsPerRow: 1 << 32})
	if !errors.Is(err, hall.ErrHallTooLarge) {
		t.Fatalf("expected ErrHallTooLarge, got %v", err)
	}
}

func TestRun_LongLinesAreRetried(t *testing.T) {
	long := strings.Repeat("9", 70_000)
	input := strings.Join([]string{
		long,
		"2", long, "1",
		"1", "1",
		"0",
	}, "\n") + "\n"

	session, out := run(t, 2, 2, input)

	if got := strings.Count(out, msgMenuRange); got != 1 {
		t.Fatalf("expected 1 menu error, got %d", got)
	}
	if got := strings.Count(out, msgWrongInput); got != 1 {
		t.Fatalf("expected 1 wrong input message, got %d", got)
	}
	if session.Statistics().TicketsSold != 1 {
		t.Fatalf("expected 1 ticket sold, got %+v", session.Statistics())
	}
}

func TestReadDimensions_LongLine(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader(strings.Repeat("7", maxLineLength+1)+"\n3\n4\n"), &out)

	layout, err := c.ReadDimensions()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if layout.Rows != 3 || layout.SeatsPerRow != 4 {
		t.Fatalf("unexpected layout: %+v", layout)
	}
	if got := strings.Count(out.String(), msgNumber); got != 1 {
		t.Fatalf("expected 1 number error, got %d in:\n%s", got, out.String())
	}
}
