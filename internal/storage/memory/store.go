// Package memory is an in-process store with the same contract as the MySQL
// one: unique hotel names and a restricting hotel foreign key on bookings.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"hotel_booking/internal/domain"
)

type Store struct {
	mu       sync.RWMutex
	hotels   map[int64]domain.Hotel
	bookings map[int64]bookingRow
	nextHID  int64
	nextBID  int64
}

// bookingRow keeps only the hotel id, like the bookings table does.
type bookingRow struct {
	b       domain.Booking
	hotelID int64
}

func New() *Store {
	return &Store{
		hotels:   map[int64]domain.Hotel{},
		bookings: map[int64]bookingRow{},
	}
}

// ---- hotels ----

func (s *Store) SaveHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, other := range s.hotels {
		if other.Name == h.Name && id != h.ID {
			return domain.Hotel{}, domain.Conflictf("hotel %s already exists", h.Name)
		}
	}
	if h.ID == 0 {
		s.nextHID++
		h.ID = s.nextHID
	} else if _, ok := s.hotels[h.ID]; !ok {
		return domain.Hotel{}, domain.NotFoundf("hotel with id: %d does not exist", h.ID)
	}
	s.hotels[h.ID] = h
	return h, nil
}

func (s *Store) DeleteHotel(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.hotels[id]; !ok {
		return domain.NotFoundf("hotel with id: %d does not exist", id)
	}
	for _, row := range s.bookings {
		if row.hotelID == id {
			return domain.Conflictf("hotel with id: %d is referenced by bookings", id)
		}
	}
	delete(s.hotels, id)
	return nil
}

func (s *Store) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Hotel, 0, len(s.hotels))
	for _, h := range s.hotels {
		out = append(out, h)
	}
	sortHotels(out)
	return out, nil
}

func (s *Store) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.hotels[id]
	if !ok {
		return domain.Hotel{}, domain.NotFoundf("hotel with id: %d does not exist", id)
	}
	return h, nil
}

func (s *Store) GetHotelsByIDs(ctx context.Context, ids []int64) ([]domain.Hotel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[int64]struct{}, len(ids))
	out := make([]domain.Hotel, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if h, ok := s.hotels[id]; ok {
			out = append(out, h)
		}
	}
	sortHotels(out)
	return out, nil
}

func (s *Store) FindHotelByName(ctx context.Context, name string) (domain.Hotel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, h := range s.hotels {
		if h.Name == name {
			return h, nil
		}
	}
	return domain.Hotel{}, domain.NotFoundf("hotel %s does not exist", name)
}

func (s *Store) HotelExists(ctx context.Context, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.hotels[id]
	return ok, nil
}

// ---- bookings ----

func (s *Store) SaveBooking(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hid := b.HotelID()
	if _, ok := s.hotels[hid]; !ok {
		return domain.Booking{}, domain.Validationf("booking references unknown hotel id: %d", hid)
	}
	if b.ID == 0 {
		s.nextBID++
		b.ID = s.nextBID
	} else if _, ok := s.bookings[b.ID]; !ok {
		return domain.Booking{}, domain.NotFoundf("booking with id: %d does not exist", b.ID)
	}
	b.Hotel = nil
	s.bookings[b.ID] = bookingRow{b: b, hotelID: hid}
	return s.hydrate(s.bookings[b.ID]), nil
}

func (s *Store) DeleteBooking(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bookings[id]; !ok {
		return domain.NotFoundf("booking with id: %d does not exist", id)
	}
	delete(s.bookings, id)
	return nil
}

func (s *Store) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	return s.filterBookings(func(bookingRow) bool { return true }), nil
}

func (s *Store) GetBooking(ctx context.Context, id int64) (domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.bookings[id]
	if !ok {
		return domain.Booking{}, domain.NotFoundf("booking with id: %d does not exist", id)
	}
	return s.hydrate(row), nil
}

func (s *Store) BookingExists(ctx context.Context, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.bookings[id]
	return ok, nil
}

func (s *Store) ListBookingsByCustomerLastName(ctx context.Context, lastName string) ([]domain.Booking, error) {
	return s.filterBookings(func(r bookingRow) bool {
		return r.b.CustomerLastName != nil && *r.b.CustomerLastName == lastName
	}), nil
}

func (s *Store) ListBookingsByHotelID(ctx context.Context, hotelID int64) ([]domain.Booking, error) {
	return s.filterBookings(func(r bookingRow) bool { return r.hotelID == hotelID }), nil
}

func (s *Store) ListBookingsByHotelName(ctx context.Context, name string) ([]domain.Booking, error) {
	s.mu.RLock()
	ids := map[int64]struct{}{}
	for id, h := range s.hotels {
		if h.Name == name {
			ids[id] = struct{}{}
		}
	}
	s.mu.RUnlock()

	return s.filterBookings(func(r bookingRow) bool {
		_, ok := ids[r.hotelID]
		return ok
	}), nil
}

func (s *Store) SumPriceByCurrency(ctx context.Context, hotelID int64) ([]domain.BookingPriceStatistics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sums := map[string]decimal.Decimal{}
	for _, row := range s.bookings {
		if row.hotelID != hotelID || row.b.Price == nil || row.b.Currency == nil {
			continue
		}
		sums[*row.b.Currency] = sums[*row.b.Currency].Add(*row.b.Price)
	}
	out := make([]domain.BookingPriceStatistics, 0, len(sums))
	for cur, sum := range sums {
		out = append(out, domain.BookingPriceStatistics{Currency: cur, SumAmount: sum})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Currency < out[j].Currency })
	return out, nil
}

func (s *Store) filterBookings(keep func(bookingRow) bool) []domain.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Booking, 0)
	for _, row := range s.bookings {
		if keep(row) {
			out = append(out, s.hydrate(row))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// hydrate attaches a copy of the current hotel row. Callers hold s.mu.
func (s *Store) hydrate(row bookingRow) domain.Booking {
	b := row.b
	if h, ok := s.hotels[row.hotelID]; ok {
		b.Hotel = &h
	}
	return b
}

func sortHotels(hs []domain.Hotel) {
	sort.Slice(hs, func(i, j int) bool { return hs[i].ID < hs[j].ID })
}
