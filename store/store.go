package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cinema-booking-cli/model"
	"cinema-booking-cli/report"
)

const (
	appDir         = "cinema-booking-cli"
	hallsFile      = "halls.json"
	maxRecentHalls = 8
)

type envelope[T any] struct {
	SavedAt time.Time `json:"saved_at"`
	Data    T         `json:"data"`
}

type hallHistory struct {
	Halls []model.HallLayout `json:"halls"`
}

// SalesReport is written once when a session ends. It is never loaded back
// into a session.
type SalesReport struct {
	Hall       model.HallLayout    `json:"hall"`
	Statistics model.Statistics    `json:"statistics"`
	ByPrice    []report.PriceSales `json:"by_price"`
	Tickets    []model.Ticket      `json:"tickets"`
}

func NewSalesReport(layout model.HallLayout, stats model.Statistics, tickets []model.Ticket) SalesReport {
	return SalesReport{
		Hall:       layout,
		Statistics: stats,
		ByPrice:    report.SalesByPrice(tickets),
		Tickets:    tickets,
	}
}

func LoadRecentHalls() ([]model.HallLayout, error) {
	path, err := configPath(hallsFile)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var history hallHistory
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, errors.New("invalid hall history format")
	}
	halls := history.Halls[:0]
	for _, layout := range history.Halls {
		if layout.Rows > 0 && layout.SeatsPerRow > 0 {
			halls = append(halls, layout)
		}
	}
	return halls, nil
}

// RememberHall moves layout to the front of the recent halls list.
func RememberHall(layout model.HallLayout) error {
	if layout.Rows <= 0 || layout.SeatsPerRow <= 0 {
		return errors.New("hall rows and seats per row are required")
	}
	history, _ := LoadRecentHalls()
	next := []model.HallLayout{layout}
	for _, existing := range history {
		if existing == layout {
			continue
		}
		next = append(next, existing)
		if len(next) >= maxRecentHalls {
			break
		}
	}

	path, err := configPath(hallsFile)
	if err != nil {
		return err
	}
	return writeJSON(path, hallHistory{Halls: next})
}

func SaveReport(path string, salesReport SalesReport) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("report path is required")
	}
	return writeJSON(path, envelope[SalesReport]{
		SavedAt: time.Now(),
		Data:    salesReport,
	})
}

func LoadReport(path string) (SalesReport, time.Time, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SalesReport{}, time.Time{}, err
	}
	var saved envelope[SalesReport]
	if err := json.Unmarshal(data, &saved); err != nil {
		return SalesReport{}, time.Time{}, err
	}
	return saved.Data, saved.SavedAt, nil
}

func writeJSON(path string, value any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

func configPath(name string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir, name), nil
}
