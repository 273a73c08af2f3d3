package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"cinema-booking-cli/booking"
	"cinema-booking-cli/config"
	"cinema-booking-cli/console"
	"cinema-booking-cli/hall"
	"cinema-booking-cli/logging"
	"cinema-booking-cli/model"
	"cinema-booking-cli/store"
	"cinema-booking-cli/tui"
)

var errNoTerminal = errors.New("the tui needs an interactive terminal; use --ui plain")

func runBooking(cmd *cobra.Command, cfg config.Config) error {
	logOut := cmd.ErrOrStderr()
	if cfg.LogFile != "" {
		f, err := logging.OpenFile(cfg.LogFile)
		if err != nil {
			return err
		}
		defer f.Close()
		logOut = f
	}
	logger, err := logging.New(cfg.LogLevel, logOut)
	if err != nil {
		return err
	}

	in := cmd.InOrStdin()
	out := cmd.OutOrStdout()
	partial := model.HallLayout{Rows: cfg.Rows, SeatsPerRow: cfg.SeatsPerRow}

	var (
		layout model.HallLayout
		front  func(*booking.Session) error
	)
	switch cfg.UI {
	case config.UITUI:
		if !isTerminal(in) {
			return errNoTerminal
		}
		layout = partial
		if !cfg.HasDimensions() {
			layout, err = promptDimensions(partial, logger)
		}
		front = func(session *booking.Session) error {
			return tui.Run(session, tui.WithTicketQR(cfg.TicketQR), tui.WithLogger(logger))
		}
	default:
		c := console.New(in, out, console.WithTicketQR(cfg.TicketQR), console.WithLogger(logger))
		layout, err = c.CompleteDimensions(partial)
		front = c.Run
	}
	if errors.Is(err, io.EOF) || errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		logger.Debug("input closed before the hall was set up")
		return nil
	}
	if err != nil {
		return err
	}

	session, err := booking.NewSession(layout.Rows, layout.SeatsPerRow, booking.WithLogger(logger))
	if err != nil {
		return err
	}
	logger.Info("session started", "rows", layout.Rows, "seats_per_row", layout.SeatsPerRow, "ui", cfg.UI)

	runErr := front(session)
	if err := store.RememberHall(layout); err != nil {
		logger.Warn("remember hall", "error", err)
	}
	if cfg.ReportPath != "" {
		salesReport := store.NewSalesReport(layout, session.Statistics(), session.Tickets())
		if err := store.SaveReport(cfg.ReportPath, salesReport); err != nil {
			return errors.Join(runErr, fmt.Errorf("save report: %w", err))
		}
		logger.Info("report saved", "path", cfg.ReportPath)
	}
	return runErr
}

// promptDimensions asks for missing dimensions with promptui, offering the
// most recently used hall as the default answer.
func promptDimensions(partial model.HallLayout, logger *slog.Logger) (model.HallLayout, error) {
	var recent model.HallLayout
	halls, err := store.LoadRecentHalls()
	if err != nil {
		logger.Warn("load recent halls", "error", err)
	} else if len(halls) > 0 {
		recent = halls[0]
	}

	for {
		layout := partial
		if layout.Rows <= 0 {
			if layout.Rows, err = promptPositive("Rows", recent.Rows); err != nil {
				return model.HallLayout{}, err
			}
		}
		if layout.SeatsPerRow <= 0 {
			if layout.SeatsPerRow, err = promptPositive("Seats in each row", recent.SeatsPerRow); err != nil {
				return model.HallLayout{}, err
			}
		}
		if err = hall.ValidateLayout(layout.Rows, layout.SeatsPerRow); err == nil {
			return layout, nil
		}
		fmt.Fprintf(os.Stderr, "A hall can have at most %d seats.\n", hall.MaxSeats)
	}
}

func promptPositive(label string, defaultValue int) (int, error) {
	validate := func(input string) error {
		_, err := booking.ParseDimension(input)
		return err
	}
	prompt := promptui.Prompt{
		Label:    label,
		Validate: validate,
	}
	if defaultValue > 0 {
		prompt.Default = strconv.Itoa(defaultValue)
	}

	value, err := prompt.Run()
	if err != nil {
		return 0, err
	}
	return booking.ParseDimension(value)
}

func isTerminal(in io.Reader) bool {
	f, ok := in.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
