package domain

const (
	MinRating = 1
	MaxRating = 5
)

// Hotel is a stored hotel. ID is zero until the store assigns one; an empty
// Name means "not supplied" in merge payloads.
type Hotel struct {
	ID      int64
	Name    string
	Address *string
	Rating  *int
}

// NewHotel builds a hotel, rejecting an out-of-range rating.
func NewHotel(name string, address *string, rating *int) (Hotel, error) {
	h := Hotel{Name: name, Address: address}
	if err := h.SetRating(rating); err != nil {
		return Hotel{}, err
	}
	return h, nil
}

func ValidateRating(rating *int) error {
	if rating == nil {
		return nil
	}
	if r := *rating; r < MinRating || r > MaxRating {
		return Validationf("invalid rating value: %d. Use values [%d-%d]", r, MinRating, MaxRating)
	}
	return nil
}

func (h *Hotel) SetRating(rating *int) error {
	if err := ValidateRating(rating); err != nil {
		return err
	}
	h.Rating = rating
	return nil
}

// Validate checks the fields a hotel needs before it is written.
func (h Hotel) Validate() error {
	if h.Name == "" {
		return Validationf("hotel name is required")
	}
	return ValidateRating(h.Rating)
}

// UpdateNonNullValues copies every supplied field of src onto h. Fields left
// unset in src keep their current value. ID is never copied.
func (h *Hotel) UpdateNonNullValues(src Hotel) error {
	if src.Rating != nil {
		if err := h.SetRating(src.Rating); err != nil {
			return err
		}
	}
	if src.Name != "" {
		h.Name = src.Name
	}
	if src.Address != nil {
		h.Address = src.Address
	}
	return nil
}

// Ref returns the descriptor used to resolve h against the store.
func (h Hotel) Ref() HotelRef {
	return HotelRef{ID: h.ID, Name: h.Name}
}

type RefKind int

const (
	RefNone RefKind = iota
	RefByID
	RefByName
)

func (k RefKind) String() string {
	switch k {
	case RefByID:
		return "id"
	case RefByName:
		return "name"
	default:
		return "none"
	}
}

// HotelRef is a caller-supplied hotel descriptor. The identifier wins over the
// name when both are present.
type HotelRef struct {
	ID   int64
	Name string
}

func (r HotelRef) Kind() RefKind {
	switch {
	case r.ID != 0:
		return RefByID
	case r.Name != "":
		return RefByName
	default:
		return RefNone
	}
}
