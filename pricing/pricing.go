package pricing

const (
	SmallRoomSeatLimit = 60
	StandardPrice      = 10
	ReducedPrice       = 8
)

// Policy prices a seat by its row. Halls up to SmallRoomSeatLimit seats are
// priced uniformly; larger halls charge StandardPrice for the front half of
// the rows and ReducedPrice for the rest.
type Policy struct {
	SmallRoomSeatLimit int
	StandardPrice      int
	ReducedPrice       int
}

// Tier is a contiguous range of rows sold at one price.
type Tier struct {
	FirstRow int
	LastRow  int
	Price    int
	Seats    int
	Income   int
}

func (t Tier) Rows() int {
	return t.LastRow - t.FirstRow + 1
}

func Default() Policy {
	return Policy{
		SmallRoomSeatLimit: SmallRoomSeatLimit,
		StandardPrice:      StandardPrice,
		ReducedPrice:       ReducedPrice,
	}
}

func (p Policy) IsSmallRoom(rows int, seatsPerRow int) bool {
	return rows*seatsPerRow <= p.SmallRoomSeatLimit
}

// FrontRows returns how many rows, counted from row 1, sell at the standard
// price.
func (p Policy) FrontRows(rows int, seatsPerRow int) int {
	if p.IsSmallRoom(rows, seatsPerRow) {
		return rows
	}
	return rows / 2
}

// PriceForRow does not bounds-check row.
func (p Policy) PriceForRow(row int, rows int, seatsPerRow int) int {
	if row <= p.FrontRows(rows, seatsPerRow) {
		return p.StandardPrice
	}
	return p.ReducedPrice
}

func (p Policy) TotalPossibleIncome(rows int, seatsPerRow int) int {
	total := 0
	for _, tier := range p.Tiers(rows, seatsPerRow) {
		total += tier.Income
	}
	return total
}

func (p Policy) Tiers(rows int, seatsPerRow int) []Tier {
	if rows <= 0 || seatsPerRow <= 0 {
		return nil
	}
	front := p.FrontRows(rows, seatsPerRow)
	var tiers []Tier
	if front > 0 {
		tiers = append(tiers, newTier(1, front, seatsPerRow, p.StandardPrice))
	}
	if front < rows {
		tiers = append(tiers, newTier(front+1, rows, seatsPerRow, p.ReducedPrice))
	}
	return tiers
}

func newTier(first int, last int, seatsPerRow int, price int) Tier {
	seats := (last - first + 1) * seatsPerRow
	return Tier{
		FirstRow: first,
		LastRow:  last,
		Price:    price,
		Seats:    seats,
		Income:   seats * price,
	}
}
