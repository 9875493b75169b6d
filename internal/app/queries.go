package app

import (
	"context"

	"hotel_booking/internal/domain"
)

type customerBookings interface {
	GetByCustomerLastName(ctx context.Context, lastName string) ([]domain.Booking, error)
}

type hotelsByID interface {
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Hotel, error)
}

// QueryService answers questions that span hotels and bookings.
type QueryService struct {
	bookings customerBookings
	hotels   hotelsByID
}

func NewQueryService(b customerBookings, h hotelsByID) *QueryService {
	return &QueryService{bookings: b, hotels: h}
}

// GetHotelsForCustomer returns each hotel the customer has a booking at, once.
func (s *QueryService) GetHotelsForCustomer(ctx context.Context, lastName string) ([]domain.Hotel, error) {
	bs, err := s.bookings.GetByCustomerLastName(ctx, lastName)
	if err != nil {
		return nil, err
	}
	if len(bs) == 0 {
		return []domain.Hotel{}, nil
	}
	return s.hotels.GetByIDs(ctx, distinctHotelIDs(bs))
}

func distinctHotelIDs(bs []domain.Booking) []int64 {
	seen := make(map[int64]struct{}, len(bs))
	ids := make([]int64, 0, len(bs))
	for _, b := range bs {
		id := b.HotelID()
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
