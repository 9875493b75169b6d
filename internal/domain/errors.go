package domain

import "github.com/cockroachdb/errors"

// Sentinel kinds. Concrete errors carry one of these so callers can branch
// with errors.Is while keeping a specific message.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")

	// ErrNameBusy refines ErrConflict: the hotel name is reserved by a writer
	// that has not committed yet, so the row may appear shortly.
	ErrNameBusy = errors.New("hotel name busy")
)

// kindError attaches a sentinel kind to a cause. It answers Is for both the
// stdlib and cockroachdb matchers, and keeps the cause's message and stack.
type kindError struct {
	cause error
	kind  error
}

func (e *kindError) Error() string        { return e.cause.Error() }
func (e *kindError) Unwrap() error        { return e.cause }
func (e *kindError) Is(target error) bool { return target == e.kind }

// WithKind marks err as one of ErrNotFound, ErrConflict or ErrValidation.
func WithKind(err, kind error) error {
	if err == nil {
		return nil
	}
	return &kindError{cause: err, kind: kind}
}

func NotFoundf(format string, args ...any) error {
	return WithKind(errors.NewWithDepthf(1, format, args...), ErrNotFound)
}

func Conflictf(format string, args ...any) error {
	return WithKind(errors.NewWithDepthf(1, format, args...), ErrConflict)
}

func Validationf(format string, args ...any) error {
	return WithKind(errors.NewWithDepthf(1, format, args...), ErrValidation)
}

// NameBusyf builds an error matching both ErrNameBusy and ErrConflict.
func NameBusyf(format string, args ...any) error {
	return WithKind(WithKind(errors.NewWithDepthf(1, format, args...), ErrConflict), ErrNameBusy)
}
