package model

type HallLayout struct {
	Rows        int `json:"rows"`
	SeatsPerRow int `json:"seats_per_row"`
}

func (h HallLayout) TotalSeats() int {
	return h.Rows * h.SeatsPerRow
}
