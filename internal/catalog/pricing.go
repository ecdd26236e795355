package catalog

import "github.com/shopspring/decimal"

type RoomType int

const (
	StandardSingle RoomType = iota + 1
	StandardDouble
	DeluxeSingle
	DeluxeDouble
)

func (t RoomType) String() string {
	switch t {
	case StandardSingle:
		return "standard single"
	case StandardDouble:
		return "standard double"
	case DeluxeSingle:
		return "deluxe single"
	case DeluxeDouble:
		return "deluxe double"
	default:
		return "unknown"
	}
}

// Surcharges are immutable configuration shared across rooms, which is why
// Room.TotalPrice recomputes instead of caching.
var (
	SeaViewSurcharge  = decimal.NewFromInt(50)
	CityViewSurcharge = decimal.NewFromInt(30)

	basePrices = map[RoomType]decimal.Decimal{
		StandardSingle: decimal.NewFromInt(150),
		StandardDouble: decimal.NewFromInt(200),
		DeluxeSingle:   decimal.NewFromInt(250),
		DeluxeDouble:   decimal.NewFromInt(350),
	}

	capacities = map[RoomType]int{
		StandardSingle: 1,
		StandardDouble: 2,
		DeluxeSingle:   1,
		DeluxeDouble:   2,
	}
)

func BasePrice(t RoomType) decimal.Decimal {
	if p, ok := basePrices[t]; ok {
		return p
	}

	return basePrices[StandardSingle]
}

func Capacity(t RoomType) int {
	if c, ok := capacities[t]; ok {
		return c
	}

	return 1
}
