package mysql

const insertHotelSQL = `
INSERT INTO hotels (name, address, rating)
VALUES (?, ?, ?)
`

const updateHotelSQL = `
UPDATE hotels
SET name = ?, address = ?, rating = ?
WHERE id = ?
`

const deleteHotelSQL = `DELETE FROM hotels WHERE id = ?`

const existsHotelSQL = `SELECT EXISTS(SELECT 1 FROM hotels WHERE id = ?)`

const selectHotelSQL = `
SELECT id, name, address, rating
FROM hotels
`

const insertBookingSQL = `
INSERT INTO bookings
  (customer_name, customer_last_name, pax_number, price, currency, hotel_id)
VALUES
  (?, ?, ?, ?, ?, ?)
`

const updateBookingSQL = `
UPDATE bookings
SET customer_name = ?, customer_last_name = ?, pax_number = ?, price = ?, currency = ?, hotel_id = ?
WHERE id = ?
`

const deleteBookingSQL = `DELETE FROM bookings WHERE id = ?`

const existsBookingSQL = `SELECT EXISTS(SELECT 1 FROM bookings WHERE id = ?)`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

// Bookings are always read joined with their hotel; the inner join is safe
// because hotel_id is NOT NULL with a restricting foreign key.
const selectBookingSQL = `
SELECT
  b.id,
  b.customer_name,
  b.customer_last_name,
  b.pax_number,
  b.price,
  b.currency,
  h.id,
  h.name,
  h.address,
  h.rating
FROM bookings b
JOIN hotels h ON h.id = b.hotel_id
`

const sumPriceByCurrencySQL = `
SELECT currency, SUM(price)
FROM bookings
WHERE hotel_id = ? AND currency IS NOT NULL AND price IS NOT NULL
GROUP BY currency
ORDER BY currency
`
