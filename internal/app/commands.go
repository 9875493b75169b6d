package app

import (
	"context"

	"github.com/cockroachdb/errors"

	"hotel_booking/internal/domain"
)

type bookingCreator interface {
	Create(ctx context.Context, b domain.Booking) (domain.Booking, error)
}

// ImportService loads seed records through the booking write path so every
// record gets the same hotel resolution and validation as an API call.
type ImportService struct {
	bookings bookingCreator
}

func NewImportService(b bookingCreator) *ImportService {
	return &ImportService{bookings: b}
}

// ImportBooking maps and creates one record. Safe for concurrent use.
func (s *ImportService) ImportBooking(ctx context.Context, record map[string]any) (domain.Booking, error) {
	b, err := mapSeedBooking(record)
	if err != nil {
		return domain.Booking{}, errors.Wrap(err, "import booking")
	}
	created, err := s.bookings.Create(ctx, b)
	if err != nil {
		return domain.Booking{}, errors.Wrap(err, "import booking")
	}
	return created, nil
}
