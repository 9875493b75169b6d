package app

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"

	"hotel_booking/internal/domain"
)

// HotelService owns hotel identity and name uniqueness.
type HotelService struct {
	repo domain.HotelRepository
	lock domain.NameLock // optional
}

func NewHotelService(r domain.HotelRepository, lock domain.NameLock) *HotelService {
	return &HotelService{repo: r, lock: lock}
}

func (s *HotelService) GetAll(ctx context.Context) ([]domain.Hotel, error) {
	return s.repo.ListHotels(ctx)
}

// GetByIDs returns the hotels that exist among ids. Unknown ids are skipped.
func (s *HotelService) GetByIDs(ctx context.Context, ids []int64) ([]domain.Hotel, error) {
	if len(ids) == 0 {
		return []domain.Hotel{}, nil
	}
	return s.repo.GetHotelsByIDs(ctx, ids)
}

func (s *HotelService) GetByID(ctx context.Context, id int64) (domain.Hotel, error) {
	h, err := s.repo.GetHotel(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Hotel{}, hotelNotFound(id)
	}
	return h, err
}

// Create stores a new hotel. The store assigns the id; any id on the input is
// ignored.
func (s *HotelService) Create(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	h.ID = 0
	if err := h.Validate(); err != nil {
		return domain.Hotel{}, err
	}

	release, err := s.reserveName(ctx, h.Name)
	if err != nil {
		return domain.Hotel{}, err
	}
	defer release()

	if err := s.throwIfExists(ctx, h.Name); err != nil {
		return domain.Hotel{}, err
	}
	return s.repo.SaveHotel(ctx, h)
}

// Update merges the supplied fields of newHotel into hotel id. The name is
// only checked for uniqueness when it actually changes.
func (s *HotelService) Update(ctx context.Context, newHotel domain.Hotel, id int64) (domain.Hotel, error) {
	h, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.Hotel{}, err
	}

	if newHotel.Name != "" && newHotel.Name != h.Name {
		release, err := s.reserveName(ctx, newHotel.Name)
		if err != nil {
			return domain.Hotel{}, err
		}
		defer release()

		if err := s.throwIfExists(ctx, newHotel.Name); err != nil {
			return domain.Hotel{}, err
		}
	}

	if err := h.UpdateNonNullValues(newHotel); err != nil {
		return domain.Hotel{}, err
	}
	return s.repo.SaveHotel(ctx, h)
}

func (s *HotelService) Delete(ctx context.Context, id int64) error {
	ok, err := s.repo.HotelExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return hotelNotFound(id)
	}
	return s.repo.DeleteHotel(ctx, id)
}

// ResolveByIDOrName looks up the stored hotel a descriptor points at. The id
// is used when set, the name otherwise. found is false when the descriptor is
// empty or nothing matches; that is not an error.
func (s *HotelService) ResolveByIDOrName(ctx context.Context, ref domain.HotelRef) (h domain.Hotel, found bool, err error) {
	switch ref.Kind() {
	case domain.RefByID:
		h, err = s.repo.GetHotel(ctx, ref.ID)
	case domain.RefByName:
		h, err = s.repo.FindHotelByName(ctx, ref.Name)
	default:
		return domain.Hotel{}, false, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Hotel{}, false, nil
	}
	if err != nil {
		return domain.Hotel{}, false, err
	}
	return h, true, nil
}

func (s *HotelService) throwIfExists(ctx context.Context, name string) error {
	_, err := s.repo.FindHotelByName(ctx, name)
	switch {
	case err == nil:
		return hotelAlreadyExists(name)
	case errors.Is(err, domain.ErrNotFound):
		return nil
	default:
		return err
	}
}

// reserveName holds the name lock when one is configured. Without it the
// store's unique index is the only guard.
func (s *HotelService) reserveName(ctx context.Context, name string) (func(), error) {
	if s.lock == nil {
		return func() {}, nil
	}
	release, err := s.lock.Acquire(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			log.Debug().Str("name", name).Msg("hotel name reserved by another writer")
		}
		return nil, err
	}
	return release, nil
}

func hotelNotFound(id int64) error {
	return domain.NotFoundf("hotel with id: %d does not exist", id)
}

func hotelAlreadyExists(name string) error {
	return domain.Conflictf("hotel: %s already exists", name)
}
