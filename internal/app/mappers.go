package app

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"hotel_booking/internal/domain"
)

/********** alias registries (single source of truth) **********/

var bookingAliases = map[string][]string{
	"customer_name":      {"customerName", "customer_name", "firstName", "first_name", "customer.firstName", "customer.name"},
	"customer_last_name": {"customerLastName", "customer_last_name", "lastName", "last_name", "customer.lastName"},
	"pax":                {"numberOfPax", "number_of_pax", "pax", "guests", "partySize"},
	"price":              {"price", "amount", "total", "price.amount"},
	"currency":           {"currency", "currencyCode", "currency_code", "price.currency"},
}

var hotelAliases = map[string][]string{
	"id":      {"hotel.id", "hotelId", "hotel_id"},
	"name":    {"hotel.name", "hotelName", "hotel_name"},
	"address": {"hotel.address", "hotelAddress", "hotel_address"},
	"rating":  {"hotel.rating", "hotel.stars", "hotelRating", "hotel_rating"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// firstNonEmptyAlias: first non-empty string for a named alias set.
func firstNonEmptyAlias(m map[string]any, aliases map[string][]string, key string) *string {
	for _, p := range aliases[key] {
		if s, ok := lookupAny(m, p).(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return &s
			}
		}
	}
	return nil
}

// firstInt64Flexible: int64 from several paths (json.Number/float64/int/string).
func firstInt64Flexible(m map[string]any, paths ...string) *int64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case json.Number:
			if n, err := v.Int64(); err == nil {
				return &n
			}
		case float64:
			x := int64(v)
			return &x
		case int:
			x := int64(v)
			return &x
		case int64:
			x := v
			return &x
		case string:
			s := strings.TrimSpace(v)
			if s == "" {
				continue
			}
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				return &n
			}
		}
	}
	return nil
}

// firstDecimalFlexible: decimal from several paths. Strings accept a comma
// as the decimal separator ("8,50").
func firstDecimalFlexible(m map[string]any, paths ...string) *decimal.Decimal {
	for _, k := range paths {
		var s string
		switch v := lookupAny(m, k).(type) {
		case json.Number:
			s = v.String()
		case float64:
			d := decimal.NewFromFloat(v)
			return &d
		case int:
			d := decimal.NewFromInt(int64(v))
			return &d
		case string:
			s = strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
		}
		if s == "" {
			continue
		}
		if d, err := decimal.NewFromString(s); err == nil {
			return &d
		}
	}
	return nil
}

/********** seed record mapper **********/

// mapSeedBooking turns one loosely shaped seed record into a booking with a
// hotel descriptor. Missing fields stay nil; field rules are checked by the
// booking service. A party size outside 1..MaxInt16 is rejected here because
// it cannot be represented on the booking.
func mapSeedBooking(r map[string]any) (domain.Booking, error) {
	b := domain.Booking{
		CustomerName:     firstNonEmptyAlias(r, bookingAliases, "customer_name"),
		CustomerLastName: firstNonEmptyAlias(r, bookingAliases, "customer_last_name"),
		Price:            firstDecimalFlexible(r, bookingAliases["price"]...),
		Currency:         firstNonEmptyAlias(r, bookingAliases, "currency"),
	}
	if n := firstInt64Flexible(r, bookingAliases["pax"]...); n != nil {
		if *n < 1 || *n > math.MaxInt16 {
			return domain.Booking{}, domain.Validationf("number of pax must be between 1 and %d, got %d", math.MaxInt16, *n)
		}
		pax := int16(*n)
		b.NumberOfPax = &pax
	}

	h := domain.Hotel{Address: firstNonEmptyAlias(r, hotelAliases, "address")}
	if id := firstInt64Flexible(r, hotelAliases["id"]...); id != nil {
		h.ID = *id
	}
	if name := firstNonEmptyAlias(r, hotelAliases, "name"); name != nil {
		h.Name = *name
	}
	if rt := firstInt64Flexible(r, hotelAliases["rating"]...); rt != nil {
		rating := int(*rt)
		h.Rating = &rating
	}
	if h.Ref().Kind() != domain.RefNone {
		b.Hotel = &h
	}
	return b, nil
}
