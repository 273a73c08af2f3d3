// Package config reads startup settings from the environment and an optional
// .env file. Command-line flags are applied on top by the cmd package.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"cinema-booking-cli/hall"
	"cinema-booking-cli/logging"
)

const (
	UIPlain = "plain"
	UITUI   = "tui"
)

const (
	envRows     = "CINEMA_ROWS"
	envSeats    = "CINEMA_SEATS"
	envUI       = "CINEMA_UI"
	envLogLevel = "CINEMA_LOG_LEVEL"
	envLogFile  = "CINEMA_LOG_FILE"
	envQR       = "CINEMA_QR"
	envReport   = "CINEMA_REPORT"
)

var ErrUnknownUI = errors.New("unknown ui")

// Config holds the startup settings. Zero Rows or SeatsPerRow mean the
// dimension was not given and has to be asked for.
type Config struct {
	Rows        int
	SeatsPerRow int
	UI          string
	LogLevel    string
	LogFile     string
	TicketQR    bool
	ReportPath  string
}

// Load reads .env files (default ".env"; missing files are skipped) and then
// the CINEMA_* variables. Variables already set in the environment win over
// the files.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	cfg := Config{
		UI:         getEnv(envUI, UIPlain),
		LogLevel:   getEnv(envLogLevel, logging.DefaultLevel),
		LogFile:    getEnv(envLogFile, ""),
		ReportPath: getEnv(envReport, ""),
	}

	var err error
	if cfg.Rows, err = getEnvAsDimension(envRows); err != nil {
		return Config{}, err
	}
	if cfg.SeatsPerRow, err = getEnvAsDimension(envSeats); err != nil {
		return Config{}, err
	}
	if cfg.TicketQR, err = getEnvAsBool(envQR); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that may also come from flags.
func (c Config) Validate() error {
	if c.Rows < 0 {
		return fmt.Errorf("rows %d: %w", c.Rows, hall.ErrInvalidDimension)
	}
	if c.SeatsPerRow < 0 {
		return fmt.Errorf("seats per row %d: %w", c.SeatsPerRow, hall.ErrInvalidDimension)
	}
	if c.Rows > hall.MaxSeats || c.SeatsPerRow > hall.MaxSeats {
		return fmt.Errorf("%d rows, %d seats per row: %w", c.Rows, c.SeatsPerRow, hall.ErrHallTooLarge)
	}
	if c.HasDimensions() {
		if err := hall.ValidateLayout(c.Rows, c.SeatsPerRow); err != nil {
			return err
		}
	}
	switch c.UI {
	case UIPlain, UITUI:
	default:
		return fmt.Errorf("%w %q (want %s or %s)", ErrUnknownUI, c.UI, UIPlain, UITUI)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// HasDimensions reports whether both hall dimensions are known, so no prompt
// is needed.
func (c Config) HasDimensions() bool {
	return c.Rows > 0 && c.SeatsPerRow > 0
}

func getEnv(key string, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDimension(key string) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s=%d: %w", key, n, hall.ErrInvalidDimension)
	}
	return n, nil
}

func getEnvAsBool(key string) (bool, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
