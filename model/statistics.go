package model

type Statistics struct {
	TicketsSold         int     `json:"tickets_sold"`
	Percentage          float64 `json:"percentage"`
	CurrentIncome       int     `json:"current_income"`
	TotalPossibleIncome int     `json:"total_possible_income"`
}
