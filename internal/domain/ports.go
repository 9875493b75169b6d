package domain

import "context"

// HotelRepository reads and writes hotels. Lookups by id or name return an
// error marked ErrNotFound on a miss. SaveHotel inserts when ID is zero and
// updates otherwise; a duplicate name is reported as ErrConflict.
type HotelRepository interface {
	// Write paths
	SaveHotel(ctx context.Context, h Hotel) (Hotel, error)
	DeleteHotel(ctx context.Context, id int64) error

	// Read paths
	ListHotels(ctx context.Context) ([]Hotel, error)
	GetHotel(ctx context.Context, id int64) (Hotel, error)
	GetHotelsByIDs(ctx context.Context, ids []int64) ([]Hotel, error)
	FindHotelByName(ctx context.Context, name string) (Hotel, error)
	HotelExists(ctx context.Context, id int64) (bool, error)
}

// BookingRepository reads and writes bookings. Bookings come back with their
// hotel populated.
type BookingRepository interface {
	// Write paths
	SaveBooking(ctx context.Context, b Booking) (Booking, error)
	DeleteBooking(ctx context.Context, id int64) error

	// Read paths
	ListBookings(ctx context.Context) ([]Booking, error)
	GetBooking(ctx context.Context, id int64) (Booking, error)
	BookingExists(ctx context.Context, id int64) (bool, error)
	ListBookingsByCustomerLastName(ctx context.Context, lastName string) ([]Booking, error)
	ListBookingsByHotelID(ctx context.Context, hotelID int64) ([]Booking, error)
	ListBookingsByHotelName(ctx context.Context, name string) ([]Booking, error)
	SumPriceByCurrency(ctx context.Context, hotelID int64) ([]BookingPriceStatistics, error)
}

// NameLock reserves a hotel name across processes for the duration of a
// check-then-write. Acquire fails with ErrNameBusy (also an ErrConflict) while
// someone else holds it.
type NameLock interface {
	Acquire(ctx context.Context, name string) (release func(), err error)
}
