package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"hotel_booking/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt16(p *int16) any {
	if p == nil {
		return nil
	}
	return *p
}
func valDecimal(p *decimal.Decimal) any {
	if p == nil {
		return nil
	}
	return p.StringFixed(domain.PriceScale)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// -----------------------------------------------------------------------------
// hotels
// -----------------------------------------------------------------------------

func (r *Repo) SaveHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	what := fmt.Sprintf("hotel %s", h.Name)
	if h.ID == 0 {
		res, err := r.db.ExecContext(ctx, insertHotelSQL, h.Name, valStr(h.Address), valInt(h.Rating))
		if err != nil {
			return domain.Hotel{}, classify(err, what)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return domain.Hotel{}, classify(err, what)
		}
		h.ID = id
		return h, nil
	}
	if _, err := r.db.ExecContext(ctx, updateHotelSQL, h.Name, valStr(h.Address), valInt(h.Rating), h.ID); err != nil {
		return domain.Hotel{}, classify(err, what)
	}
	return h, nil
}

func (r *Repo) DeleteHotel(ctx context.Context, id int64) error {
	what := fmt.Sprintf("hotel with id: %d", id)
	res, err := r.db.ExecContext(ctx, deleteHotelSQL, id)
	if err != nil {
		return classify(err, what)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundf("%s does not exist", what)
	}
	return nil
}

func (r *Repo) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	return r.queryHotels(ctx, selectHotelSQL+"ORDER BY id")
}

func (r *Repo) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	row := r.db.QueryRowContext(ctx, selectHotelSQL+"WHERE id = ?", id)
	h, err := scanHotel(row)
	if err != nil {
		return domain.Hotel{}, classify(err, fmt.Sprintf("hotel with id: %d", id))
	}
	return h, nil
}

func (r *Repo) GetHotelsByIDs(ctx context.Context, ids []int64) ([]domain.Hotel, error) {
	if len(ids) == 0 {
		return []domain.Hotel{}, nil
	}
	marks := make([]string, 0, len(ids))
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		marks = append(marks, "?")
		args = append(args, id)
	}
	q := selectHotelSQL + "WHERE id IN (" + strings.Join(marks, ",") + ") ORDER BY id"
	return r.queryHotels(ctx, q, args...)
}

func (r *Repo) FindHotelByName(ctx context.Context, name string) (domain.Hotel, error) {
	row := r.db.QueryRowContext(ctx, selectHotelSQL+"WHERE name = ?", name)
	h, err := scanHotel(row)
	if err != nil {
		return domain.Hotel{}, classify(err, fmt.Sprintf("hotel %s", name))
	}
	return h, nil
}

func (r *Repo) HotelExists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	if err := r.db.QueryRowContext(ctx, existsHotelSQL, id).Scan(&ok); err != nil {
		return false, classify(err, "hotel exists")
	}
	return ok, nil
}

func (r *Repo) queryHotels(ctx context.Context, q string, args ...any) ([]domain.Hotel, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, classify(err, "list hotels")
	}
	defer rows.Close()

	out := []domain.Hotel{}
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, classify(err, "scan hotel")
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "list hotels")
	}
	return out, nil
}

func scanHotel(s rowScanner) (domain.Hotel, error) {
	var h domain.Hotel
	var address sql.NullString
	var rating sql.NullInt64
	if err := s.Scan(&h.ID, &h.Name, &address, &rating); err != nil {
		return domain.Hotel{}, err
	}
	if address.Valid {
		a := address.String
		h.Address = &a
	}
	if rating.Valid {
		rt := int(rating.Int64)
		h.Rating = &rt
	}
	return h, nil
}

// -----------------------------------------------------------------------------
// bookings
// -----------------------------------------------------------------------------

func (r *Repo) SaveBooking(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	args := []any{
		valStr(b.CustomerName),
		valStr(b.CustomerLastName),
		valInt16(b.NumberOfPax),
		valDecimal(b.Price),
		valStr(b.Currency),
		b.HotelID(),
	}
	if b.ID == 0 {
		res, err := r.db.ExecContext(ctx, insertBookingSQL, args...)
		if err != nil {
			return domain.Booking{}, classify(err, "booking")
		}
		id, err := res.LastInsertId()
		if err != nil {
			return domain.Booking{}, classify(err, "booking")
		}
		b.ID = id
	} else if _, err := r.db.ExecContext(ctx, updateBookingSQL, append(args, b.ID)...); err != nil {
		return domain.Booking{}, classify(err, fmt.Sprintf("booking with id: %d", b.ID))
	}
	// re-read so the hotel is the stored row, not the caller's copy
	return r.GetBooking(ctx, b.ID)
}

func (r *Repo) DeleteBooking(ctx context.Context, id int64) error {
	what := fmt.Sprintf("booking with id: %d", id)
	res, err := r.db.ExecContext(ctx, deleteBookingSQL, id)
	if err != nil {
		return classify(err, what)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundf("%s does not exist", what)
	}
	return nil
}

func (r *Repo) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	return r.queryBookings(ctx, selectBookingSQL+"ORDER BY b.id")
}

func (r *Repo) GetBooking(ctx context.Context, id int64) (domain.Booking, error) {
	row := r.db.QueryRowContext(ctx, selectBookingSQL+"WHERE b.id = ?", id)
	b, err := scanBooking(row)
	if err != nil {
		return domain.Booking{}, classify(err, fmt.Sprintf("booking with id: %d", id))
	}
	return b, nil
}

func (r *Repo) BookingExists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	if err := r.db.QueryRowContext(ctx, existsBookingSQL, id).Scan(&ok); err != nil {
		return false, classify(err, "booking exists")
	}
	return ok, nil
}

func (r *Repo) ListBookingsByCustomerLastName(ctx context.Context, lastName string) ([]domain.Booking, error) {
	return r.queryBookings(ctx, selectBookingSQL+"WHERE b.customer_last_name = ? ORDER BY b.id", lastName)
}

func (r *Repo) ListBookingsByHotelID(ctx context.Context, hotelID int64) ([]domain.Booking, error) {
	return r.queryBookings(ctx, selectBookingSQL+"WHERE b.hotel_id = ? ORDER BY b.id", hotelID)
}

func (r *Repo) ListBookingsByHotelName(ctx context.Context, name string) ([]domain.Booking, error) {
	return r.queryBookings(ctx, selectBookingSQL+"WHERE h.name = ? ORDER BY b.id", name)
}

func (r *Repo) SumPriceByCurrency(ctx context.Context, hotelID int64) ([]domain.BookingPriceStatistics, error) {
	rows, err := r.db.QueryContext(ctx, sumPriceByCurrencySQL, hotelID)
	if err != nil {
		return nil, classify(err, "sum booking prices")
	}
	defer rows.Close()

	out := []domain.BookingPriceStatistics{}
	for rows.Next() {
		var st domain.BookingPriceStatistics
		if err := rows.Scan(&st.Currency, &st.SumAmount); err != nil {
			return nil, classify(err, "scan booking price sum")
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "sum booking prices")
	}
	return out, nil
}

func (r *Repo) queryBookings(ctx context.Context, q string, args ...any) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, classify(err, "list bookings")
	}
	defer rows.Close()

	out := []domain.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, classify(err, "scan booking")
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "list bookings")
	}
	return out, nil
}

func scanBooking(s rowScanner) (domain.Booking, error) {
	var (
		b                  domain.Booking
		h                  domain.Hotel
		name, lastName     sql.NullString
		pax                sql.NullInt16
		price              decimal.NullDecimal
		currency, hAddress sql.NullString
		hRating            sql.NullInt64
	)
	if err := s.Scan(
		&b.ID,
		&name,
		&lastName,
		&pax,
		&price,
		&currency,
		&h.ID,
		&h.Name,
		&hAddress,
		&hRating,
	); err != nil {
		return domain.Booking{}, err
	}

	if name.Valid {
		v := name.String
		b.CustomerName = &v
	}
	if lastName.Valid {
		v := lastName.String
		b.CustomerLastName = &v
	}
	if pax.Valid {
		n := pax.Int16
		b.NumberOfPax = &n
	}
	if price.Valid {
		p := price.Decimal
		b.Price = &p
	}
	if currency.Valid {
		c := currency.String
		b.Currency = &c
	}
	if hAddress.Valid {
		a := hAddress.String
		h.Address = &a
	}
	if hRating.Valid {
		rt := int(hRating.Int64)
		h.Rating = &rt
	}
	b.Hotel = &h
	return b, nil
}
