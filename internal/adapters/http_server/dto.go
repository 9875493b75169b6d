package httpserver

import (
	"github.com/shopspring/decimal"

	"hotel_booking/internal/domain"
)

// Wire shapes. Absent optional fields are null on output and mean "not
// supplied" on input.

type hotelJSON struct {
	ID      int64   `json:"id,omitempty"`
	Name    string  `json:"name"`
	Address *string `json:"address"`
	Rating  *int    `json:"rating"`
}

func (h hotelJSON) toDomain() domain.Hotel {
	return domain.Hotel{ID: h.ID, Name: h.Name, Address: h.Address, Rating: h.Rating}
}

func hotelOut(h domain.Hotel) hotelJSON {
	return hotelJSON{ID: h.ID, Name: h.Name, Address: h.Address, Rating: h.Rating}
}

func hotelsOut(hs []domain.Hotel) []hotelJSON {
	out := make([]hotelJSON, 0, len(hs))
	for _, h := range hs {
		out = append(out, hotelOut(h))
	}
	return out
}

type bookingIn struct {
	CustomerName     *string          `json:"customerName"`
	CustomerLastName *string          `json:"customerLastName"`
	NumberOfPax      *int16           `json:"numberOfPax"`
	Price            *decimal.Decimal `json:"price"`
	Currency         *string          `json:"currency"`
	Hotel            *hotelJSON       `json:"hotel"`
}

func (b bookingIn) toDomain() domain.Booking {
	out := domain.Booking{
		CustomerName:     b.CustomerName,
		CustomerLastName: b.CustomerLastName,
		NumberOfPax:      b.NumberOfPax,
		Price:            b.Price,
		Currency:         b.Currency,
	}
	if b.Hotel != nil {
		h := b.Hotel.toDomain()
		out.Hotel = &h
	}
	return out
}

type bookingOut struct {
	ID               int64      `json:"id"`
	CustomerName     *string    `json:"customerName"`
	CustomerLastName *string    `json:"customerLastName"`
	NumberOfPax      *int16     `json:"numberOfPax"`
	Price            *string    `json:"price"`
	Currency         *string    `json:"currency"`
	Hotel            *hotelJSON `json:"hotel"`
}

func bookingToJSON(b domain.Booking) bookingOut {
	out := bookingOut{
		ID:               b.ID,
		CustomerName:     b.CustomerName,
		CustomerLastName: b.CustomerLastName,
		NumberOfPax:      b.NumberOfPax,
		Currency:         b.Currency,
	}
	if b.Price != nil {
		p := b.Price.StringFixed(domain.PriceScale)
		out.Price = &p
	}
	if b.Hotel != nil {
		h := hotelOut(*b.Hotel)
		out.Hotel = &h
	}
	return out
}

func bookingsOut(bs []domain.Booking) []bookingOut {
	out := make([]bookingOut, 0, len(bs))
	for _, b := range bs {
		out = append(out, bookingToJSON(b))
	}
	return out
}

type priceStatJSON struct {
	Currency  string `json:"currency"`
	SumAmount string `json:"sumAmount"`
}

func statsOut(st []domain.BookingPriceStatistics) []priceStatJSON {
	out := make([]priceStatJSON, 0, len(st))
	for _, s := range st {
		out = append(out, priceStatJSON{Currency: s.Currency, SumAmount: s.SumAmount.StringFixed(domain.PriceScale)})
	}
	return out
}
