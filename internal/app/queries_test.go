package app_test

import (
	"context"
	"testing"

	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
)

// ---- fakes ----

type fakeCustomerBookings struct {
	bs []domain.Booking
}

func (f *fakeCustomerBookings) GetByCustomerLastName(ctx context.Context, lastName string) ([]domain.Booking, error) {
	var out []domain.Booking
	for _, b := range f.bs {
		if b.CustomerLastName != nil && *b.CustomerLastName == lastName {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeHotels struct {
	byID  map[int64]domain.Hotel
	calls [][]int64
}

func (f *fakeHotels) GetByIDs(ctx context.Context, ids []int64) ([]domain.Hotel, error) {
	f.calls = append(f.calls, ids)
	var out []domain.Hotel
	for _, id := range ids {
		if h, ok := f.byID[id]; ok {
			out = append(out, h)
		}
	}
	return out, nil
}

// ---- tests ----

func TestGetHotelsForCustomer_Distinct(t *testing.T) {
	h1 := domain.Hotel{ID: 1, Name: "Plaza"}
	h2 := domain.Hotel{ID: 2, Name: "Hilton"}
	bookings := &fakeCustomerBookings{bs: []domain.Booking{
		{ID: 1, CustomerLastName: ptr("D2"), Hotel: &h1},
		{ID: 2, CustomerLastName: ptr("D2"), Hotel: &h2},
		{ID: 3, CustomerLastName: ptr("D2"), Hotel: &h1},
		{ID: 4, CustomerLastName: ptr("C3PO"), Hotel: &h2},
	}}
	hotels := &fakeHotels{byID: map[int64]domain.Hotel{1: h1, 2: h2}}
	q := app.NewQueryService(bookings, hotels)

	got, err := q.GetHotelsForCustomer(context.Background(), "D2")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 hotels, got %+v", got)
	}
	seen := map[int64]bool{}
	for _, h := range got {
		if seen[h.ID] {
			t.Fatalf("duplicate hotel %d", h.ID)
		}
		seen[h.ID] = true
	}
	if !seen[1] || !seen[2] {
		t.Fatalf("unexpected hotels: %+v", got)
	}
	if len(hotels.calls) != 1 || len(hotels.calls[0]) != 2 {
		t.Fatalf("expected one batched lookup of 2 ids, got %v", hotels.calls)
	}
}

func TestGetHotelsForCustomer_NoBookings(t *testing.T) {
	hotels := &fakeHotels{}
	q := app.NewQueryService(&fakeCustomerBookings{}, hotels)

	got, err := q.GetHotelsForCustomer(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
	if len(hotels.calls) != 0 {
		t.Fatalf("hotel lookup should be skipped, got %v", hotels.calls)
	}
}

func TestGetHotelsForCustomer_EndToEndMemory(t *testing.T) {
	ctx := context.Background()
	hotelSvc, bookingSvc, _ := newStack()

	for _, name := range []string{"Plaza", "Hilton", "Plaza"} {
		if _, err := bookingSvc.Create(ctx, plazaBooking(domain.Hotel{Name: name})); err != nil {
			t.Fatalf("create booking: %v", err)
		}
	}
	q := app.NewQueryService(bookingSvc, hotelSvc)

	got, err := q.GetHotelsForCustomer(ctx, "D2")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 distinct hotels, got %+v", got)
	}
}
