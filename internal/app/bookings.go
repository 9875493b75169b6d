package app

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"hotel_booking/internal/domain"
)

// HotelResolver is the part of HotelService that booking writes depend on.
type HotelResolver interface {
	ResolveByIDOrName(ctx context.Context, ref domain.HotelRef) (domain.Hotel, bool, error)
	Create(ctx context.Context, h domain.Hotel) (domain.Hotel, error)
}

type BookingService struct {
	hotels HotelResolver
	repo   domain.BookingRepository

	// collapses concurrent find-or-create calls for the same hotel name
	sf singleflight.Group

	// waits between name lookups while another writer holds the name lock
	busyBackoff []time.Duration
}

var defaultBusyBackoff = []time.Duration{
	25 * time.Millisecond,
	50 * time.Millisecond,
	100 * time.Millisecond,
	200 * time.Millisecond,
	400 * time.Millisecond,
}

func NewBookingService(h HotelResolver, r domain.BookingRepository) *BookingService {
	return &BookingService{hotels: h, repo: r, busyBackoff: defaultBusyBackoff}
}

func (s *BookingService) GetAll(ctx context.Context) ([]domain.Booking, error) {
	return s.repo.ListBookings(ctx)
}

func (s *BookingService) GetByID(ctx context.Context, id int64) (domain.Booking, error) {
	b, err := s.repo.GetBooking(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Booking{}, bookingNotFound(id)
	}
	return b, err
}

func (s *BookingService) GetByCustomerLastName(ctx context.Context, lastName string) ([]domain.Booking, error) {
	return s.repo.ListBookingsByCustomerLastName(ctx, lastName)
}

func (s *BookingService) GetByHotelID(ctx context.Context, hotelID int64) ([]domain.Booking, error) {
	return s.repo.ListBookingsByHotelID(ctx, hotelID)
}

func (s *BookingService) GetByHotelName(ctx context.Context, name string) ([]domain.Booking, error) {
	return s.repo.ListBookingsByHotelName(ctx, name)
}

// Create attaches the referenced hotel, creating it from the supplied payload
// when it does not resolve, and only then writes the booking.
func (s *BookingService) Create(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	if b.Hotel == nil {
		return domain.Booking{}, domain.Validationf("booking hotel is required")
	}
	b.ID = 0
	if err := b.Validate(); err != nil {
		return domain.Booking{}, err
	}
	b.Normalize()

	h, err := s.findOrCreateHotel(ctx, *b.Hotel)
	if err != nil {
		return domain.Booking{}, err
	}
	b.Hotel = &h
	return s.repo.SaveBooking(ctx, b)
}

// Update merges the supplied fields of newBooking into booking id. A hotel
// reference that does not resolve is dropped and the current hotel is kept.
func (s *BookingService) Update(ctx context.Context, newBooking domain.Booking, id int64) (domain.Booking, error) {
	b, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.Booking{}, err
	}
	if err := newBooking.Validate(); err != nil {
		return domain.Booking{}, err
	}
	newBooking.Normalize()

	if newBooking.Hotel != nil {
		h, found, err := s.hotels.ResolveByIDOrName(ctx, newBooking.Hotel.Ref())
		if err != nil {
			return domain.Booking{}, err
		}
		if found {
			newBooking.Hotel = &h
		} else {
			log.Debug().Int64("booking", id).Interface("ref", newBooking.Hotel.Ref()).
				Msg("hotel reference did not resolve; keeping current hotel")
			newBooking.Hotel = nil
		}
	}

	b.UpdateNonNullValues(newBooking)
	return s.repo.SaveBooking(ctx, b)
}

func (s *BookingService) Delete(ctx context.Context, id int64) error {
	ok, err := s.repo.BookingExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return bookingNotFound(id)
	}
	return s.repo.DeleteBooking(ctx, id)
}

// GetPriceStatistics sums booking prices of one hotel per currency. The hotel
// id is not checked; an unknown id yields an empty result.
func (s *BookingService) GetPriceStatistics(ctx context.Context, hotelID int64) ([]domain.BookingPriceStatistics, error) {
	stats, err := s.repo.SumPriceByCurrency(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = []domain.BookingPriceStatistics{}
	}
	return stats, nil
}

func (s *BookingService) findOrCreateHotel(ctx context.Context, payload domain.Hotel) (domain.Hotel, error) {
	ref := payload.Ref()
	if h, found, err := s.hotels.ResolveByIDOrName(ctx, ref); err != nil || found {
		return h, err
	}

	// Unresolved: create from the payload. Concurrent callers with the same
	// name share one attempt, detached from any single caller's cancellation;
	// each caller stops waiting when its own ctx ends.
	ch := s.sf.DoChan("hotel:"+payload.Name, func() (any, error) {
		return s.createOrAdopt(context.WithoutCancel(ctx), payload)
	})
	select {
	case <-ctx.Done():
		return domain.Hotel{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return domain.Hotel{}, res.Err
		}
		return res.Val.(domain.Hotel), nil
	}
}

// createOrAdopt creates the hotel; on a name conflict someone else got there
// first, so the existing row is resolved by name and adopted. A committed
// duplicate is looked up once. A name held by an uncommitted writer is looked
// up again after each busyBackoff step before the conflict is returned.
func (s *BookingService) createOrAdopt(ctx context.Context, payload domain.Hotel) (domain.Hotel, error) {
	h, err := s.hotels.Create(ctx, payload)
	if err == nil {
		log.Debug().Int64("hotel", h.ID).Str("name", h.Name).Msg("hotel created for booking")
		return h, nil
	}
	if !errors.Is(err, domain.ErrConflict) {
		return domain.Hotel{}, err
	}

	var waits []time.Duration
	if errors.Is(err, domain.ErrNameBusy) {
		waits = s.busyBackoff
	}
	ref := domain.HotelRef{Name: payload.Name}
	for attempt := 0; ; attempt++ {
		existing, found, rerr := s.hotels.ResolveByIDOrName(ctx, ref)
		if rerr != nil {
			return domain.Hotel{}, rerr
		}
		if found {
			log.Debug().Int64("hotel", existing.ID).Str("name", existing.Name).Int("attempt", attempt).
				Msg("adopted concurrently created hotel")
			return existing, nil
		}
		if attempt >= len(waits) {
			return domain.Hotel{}, err
		}
		t := time.NewTimer(waits[attempt])
		select {
		case <-ctx.Done():
			t.Stop()
			return domain.Hotel{}, ctx.Err()
		case <-t.C:
		}
	}
}

func bookingNotFound(id int64) error {
	return domain.NotFoundf("booking with id: %d does not exist", id)
}
