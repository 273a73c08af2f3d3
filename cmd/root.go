// Package cmd wires configuration, logging and the booking front-ends into
// the cinema command.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"cinema-booking-cli/config"
	"cinema-booking-cli/hall"
)

const appName = "cinema-booking-cli"

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

type usageError struct {
	err error
}

func (e *usageError) Error() string {
	return e.err.Error()
}

func (e *usageError) Unwrap() error {
	return e.err
}

type rootOptions struct {
	rows     int
	seats    int
	ui       string
	qr       bool
	report   string
	logLevel string
	logFile  string
}

// validate rejects dimensions given explicitly as zero or negative.
func (o rootOptions) validate(cmd *cobra.Command) error {
	flags := cmd.Flags()
	if flags.Changed("rows") && o.rows <= 0 {
		return fmt.Errorf("--rows %d: %w", o.rows, hall.ErrInvalidDimension)
	}
	if flags.Changed("seats") && o.seats <= 0 {
		return fmt.Errorf("--seats %d: %w", o.seats, hall.ErrInvalidDimension)
	}
	return nil
}

// apply copies every flag the user set explicitly over cfg.
func (o rootOptions) apply(cmd *cobra.Command, cfg config.Config) config.Config {
	flags := cmd.Flags()
	if flags.Changed("rows") {
		cfg.Rows = o.rows
	}
	if flags.Changed("seats") {
		cfg.SeatsPerRow = o.seats
	}
	if flags.Changed("ui") {
		cfg.UI = o.ui
	}
	if flags.Changed("qr") {
		cfg.TicketQR = o.qr
	}
	if flags.Changed("report") {
		cfg.ReportPath = o.report
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if flags.Changed("log-file") {
		cfg.LogFile = o.logFile
	}
	return cfg
}

func newRootCmd(version string, commit string) *cobra.Command {
	var opts rootOptions

	rootCmd := &cobra.Command{
		Use:   "cinema",
		Short: "Cinema box office in the terminal",
		Long: `Sell tickets for a single cinema hall from the terminal.
Front rows cost $10; in halls with more than 60 seats the back half costs $8.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       versionString(version, commit),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := opts.validate(cmd); err != nil {
				return &usageError{err: err}
			}
			cfg = opts.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return &usageError{err: err}
			}
			return runBooking(cmd, cfg)
		},
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	flags := rootCmd.Flags()
	flags.IntVar(&opts.rows, "rows", 0, "number of rows in the hall (asked when missing)")
	flags.IntVar(&opts.seats, "seats", 0, "number of seats in each row (asked when missing)")
	flags.StringVar(&opts.ui, "ui", config.UIPlain, "front-end: plain or tui")
	flags.BoolVar(&opts.qr, "qr", false, "print a QR code for every ticket")
	flags.StringVar(&opts.report, "report", "", "write a JSON sales report to this file on exit")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	flags.StringVar(&opts.logFile, "log-file", "", "append logs to this file instead of stderr")

	rootCmd.AddCommand(newPricesCmd(), newVersionCmd(version, commit))
	return rootCmd
}

// Execute runs the command line and returns the process exit code.
func Execute(version string, commit string) int {
	rootCmd := newRootCmd(version, commit)
	return execute(rootCmd, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

func execute(rootCmd *cobra.Command, args []string, in io.Reader, out io.Writer, errOut io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetIn(in)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	cmd, err := rootCmd.ExecuteC()
	if err == nil {
		return exitOK
	}
	fmt.Fprintf(errOut, "Error: %v\n", err)

	var usage *usageError
	if errors.As(err, &usage) || isArgumentError(err) {
		fmt.Fprintln(errOut, cmd.UsageString())
		return exitUsage
	}
	return exitError
}

// isArgumentError reports errors cobra raises before RunE runs, such as an
// unknown subcommand or a missing required flag.
func isArgumentError(err error) bool {
	msg := err.Error()
	for _, prefix := range []string{"unknown command", "required flag", "accepts "} {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}

func versionString(version string, commit string) string {
	s := fmt.Sprintf("%s %s", appName, version)
	if commit != "none" && commit != "" {
		s += fmt.Sprintf(" (%s)", commit)
	}
	return s
}
