package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PriceScale is the number of fractional digits a price is stored with.
const PriceScale = 3

type Booking struct {
	ID               int64
	CustomerName     *string
	CustomerLastName *string
	NumberOfPax      *int16
	Price            *decimal.Decimal
	Currency         *string
	Hotel            *Hotel
}

// BookingPriceStatistics is the summed price of one currency over a set of
// bookings. It is computed per query and never stored.
type BookingPriceStatistics struct {
	Currency  string
	SumAmount decimal.Decimal
}

// Validate checks the field-level rules on whatever fields are set. It does
// not require a hotel; creation paths check that separately.
func (b Booking) Validate() error {
	if b.NumberOfPax != nil && *b.NumberOfPax <= 0 {
		return Validationf("number of pax must be positive, got %d", *b.NumberOfPax)
	}
	if b.Price != nil {
		if b.Price.IsNegative() {
			return Validationf("price must not be negative, got %s", b.Price.String())
		}
		if !b.Price.Equal(b.Price.Truncate(PriceScale)) {
			return Validationf("price %s has more than %d fractional digits", b.Price.String(), PriceScale)
		}
	}
	if b.Currency != nil {
		if err := validateCurrency(*b.Currency); err != nil {
			return err
		}
	}
	return nil
}

// Normalize upper-cases the currency code and fixes the price scale.
func (b *Booking) Normalize() {
	if b.Currency != nil {
		c := strings.ToUpper(*b.Currency)
		b.Currency = &c
	}
	if b.Price != nil {
		p := b.Price.Truncate(PriceScale)
		b.Price = &p
	}
}

// UpdateNonNullValues copies every supplied field of src onto b. A non-nil
// hotel replaces the current one as a whole.
func (b *Booking) UpdateNonNullValues(src Booking) {
	if src.CustomerName != nil {
		b.CustomerName = src.CustomerName
	}
	if src.CustomerLastName != nil {
		b.CustomerLastName = src.CustomerLastName
	}
	if src.NumberOfPax != nil {
		b.NumberOfPax = src.NumberOfPax
	}
	if src.Price != nil {
		b.Price = src.Price
	}
	if src.Currency != nil {
		b.Currency = src.Currency
	}
	if src.Hotel != nil {
		b.Hotel = src.Hotel
	}
}

// HotelID returns the id of the referenced hotel, or zero.
func (b Booking) HotelID() int64 {
	if b.Hotel == nil {
		return 0
	}
	return b.Hotel.ID
}

func validateCurrency(c string) error {
	if len(c) != 3 {
		return Validationf("currency must be a 3-letter code, got %q", c)
	}
	for _, r := range c {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return Validationf("currency must be a 3-letter code, got %q", c)
		}
	}
	return nil
}
