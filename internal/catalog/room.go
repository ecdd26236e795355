package catalog

import "github.com/shopspring/decimal"

type Room struct {
	ID                int             `json:"id"`
	RoomNumber        string          `json:"roomNumber"`
	Floor             int             `json:"floor"`
	Capacity          int             `json:"capacity"`
	IsSeaView         bool            `json:"isSeaView"`
	IsCityView        bool            `json:"isCityView"`
	SeaViewSurcharge  decimal.Decimal `json:"seaViewSurcharge"`
	CityViewSurcharge decimal.Decimal `json:"cityViewSurcharge"`
	BasePrice         decimal.Decimal `json:"basePrice"`
	Hotel             *Hotel          `json:"hotel"`
}

// TotalPrice is the nightly rate: base price plus any view surcharges.
// Recomputed on every call; surcharges never change after seeding.
func (r *Room) TotalPrice() decimal.Decimal {
	price := r.BasePrice

	if r.IsSeaView {
		price = price.Add(r.SeaViewSurcharge)
	}

	if r.IsCityView {
		price = price.Add(r.CityViewSurcharge)
	}

	return price
}
