package app_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
)

func decodeRecords(t *testing.T, raw string) []map[string]any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var out []map[string]any
	require.NoError(t, dec.Decode(&out))
	return out
}

func TestImportService_MapsAliases(t *testing.T) {
	ctx := context.Background()
	hotels, bookings, _ := newStack()
	imp := app.NewImportService(bookings)

	records := decodeRecords(t, `[
	  {"customerName":"R2","customerLastName":"D2","numberOfPax":2,"price":10.5,"currency":"eur",
	   "hotel":{"name":"Plaza","address":"Syntagma Sq","rating":5}},
	  {"first_name":"Luke","last_name":"Skywalker","guests":"1","amount":"99,990","currency_code":"USD",
	   "hotelName":"Plaza"}
	]`)

	first, err := imp.ImportBooking(ctx, records[0])
	require.NoError(t, err)
	assert.Equal(t, "EUR", *first.Currency)
	assert.Equal(t, "10.500", first.Price.StringFixed(domain.PriceScale))
	assert.Equal(t, int16(2), *first.NumberOfPax)
	assert.Equal(t, "Syntagma Sq", *first.Hotel.Address)

	second, err := imp.ImportBooking(ctx, records[1])
	require.NoError(t, err)
	assert.Equal(t, "Skywalker", *second.CustomerLastName)
	assert.Equal(t, "99.990", second.Price.StringFixed(domain.PriceScale))
	assert.Equal(t, first.HotelID(), second.HotelID())

	all, _ := hotels.GetAll(ctx)
	assert.Len(t, all, 1)
}

func TestImportService_RejectsRecordWithoutHotel(t *testing.T) {
	_, bookings, _ := newStack()
	imp := app.NewImportService(bookings)

	records := decodeRecords(t, `[{"customerLastName":"D2","price":"1.000","currency":"EUR"}]`)
	_, err := imp.ImportBooking(context.Background(), records[0])
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestImportService_RejectsPaxOutOfRange(t *testing.T) {
	ctx := context.Background()
	hotels, bookings, _ := newStack()
	imp := app.NewImportService(bookings)

	records := decodeRecords(t, `[
	  {"customerLastName":"D2","numberOfPax":70000,"hotelName":"Plaza"},
	  {"customerLastName":"D2","guests":"0","hotelName":"Plaza"},
	  {"customerLastName":"D2","numberOfPax":32767,"hotelName":"Plaza"}
	]`)

	_, err := imp.ImportBooking(ctx, records[0])
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = imp.ImportBooking(ctx, records[1])
	assert.ErrorIs(t, err, domain.ErrValidation)

	all, _ := hotels.GetAll(ctx)
	assert.Empty(t, all, "rejected records must not create their hotel")

	largest, err := imp.ImportBooking(ctx, records[2])
	require.NoError(t, err)
	assert.Equal(t, int16(32767), *largest.NumberOfPax)
}
