package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
)

type Handlers struct {
	Hotels   *app.HotelService
	Bookings *app.BookingService
	Queries  *app.QueryService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/hotels", func(r chi.Router) {
		r.Get("/", h.listHotels)
		r.Post("/", h.createHotel)
		r.Get("/{id}", h.getHotel)
		r.Put("/{id}", h.updateHotel)
		r.Delete("/{id}", h.deleteHotel)
	})
	s.mux.Route("/bookings", func(r chi.Router) {
		r.Get("/", h.listBookings)
		r.Post("/", h.createBooking)
		r.Get("/stats", h.bookingStats)
		r.Get("/{id}", h.getBooking)
		r.Put("/{id}", h.updateBooking)
		r.Delete("/{id}", h.deleteBooking)
	})
	s.mux.Route("/queries", func(r chi.Router) {
		r.Get("/bookings", h.queryBookings)
		r.Get("/hotels", h.queryHotels)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps service errors onto problem responses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeProblem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, domain.ErrValidation):
		writeProblem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		log.Error().Err(err).
			Str("err_type", observability.LabelErr(err)).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", chimw.GetReqID(r.Context())).
			Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		// Log but don't fail the whole response; return empty ETag and best-effort body.
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCached serves a GET body with a weak ETag, answering 304 when the
// client already holds this version.
func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if etag != "" {
		w.Header().Set("ETag", etag)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write body")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Malformed Body", err.Error())
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	return parseID(w, chi.URLParam(r, "id"), "id")
}

func parseID(w http.ResponseWriter, raw, name string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", name+" must be a number")
		return 0, false
	}
	return id, true
}

// ---- hotels ----

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	hs, err := h.Hotels.GetAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, hotelsOut(hs))
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	hotel, err := h.Hotels.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, hotelOut(hotel))
}

func (h *Handlers) createHotel(w http.ResponseWriter, r *http.Request) {
	var in hotelJSON
	if !decodeBody(w, r, &in) {
		return
	}
	created, err := h.Hotels.Create(r.Context(), in.toDomain())
	observability.ObserveDomain("hotel", "create", observability.Outcome(err))
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/hotels/"+strconv.FormatInt(created.ID, 10))
	writeJSON(w, http.StatusCreated, hotelOut(created))
}

func (h *Handlers) updateHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in hotelJSON
	if !decodeBody(w, r, &in) {
		return
	}
	updated, err := h.Hotels.Update(r.Context(), in.toDomain(), id)
	observability.ObserveDomain("hotel", "update", observability.Outcome(err))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hotelOut(updated))
}

func (h *Handlers) deleteHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	err := h.Hotels.Delete(r.Context(), id)
	observability.ObserveDomain("hotel", "delete", observability.Outcome(err))
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- bookings ----

func (h *Handlers) listBookings(w http.ResponseWriter, r *http.Request) {
	bs, err := h.Bookings.GetAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, bookingsOut(bs))
}

func (h *Handlers) getBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	b, err := h.Bookings.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, bookingToJSON(b))
}

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	var in bookingIn
	if !decodeBody(w, r, &in) {
		return
	}
	created, err := h.Bookings.Create(r.Context(), in.toDomain())
	observability.ObserveDomain("booking", "create", observability.Outcome(err))
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/bookings/"+strconv.FormatInt(created.ID, 10))
	writeJSON(w, http.StatusCreated, bookingToJSON(created))
}

func (h *Handlers) updateBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in bookingIn
	if !decodeBody(w, r, &in) {
		return
	}
	updated, err := h.Bookings.Update(r.Context(), in.toDomain(), id)
	observability.ObserveDomain("booking", "update", observability.Outcome(err))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookingToJSON(updated))
}

func (h *Handlers) deleteBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	err := h.Bookings.Delete(r.Context(), id)
	observability.ObserveDomain("booking", "delete", observability.Outcome(err))
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) bookingStats(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r.URL.Query().Get("hotelId"), "hotelId")
	if !ok {
		return
	}
	st, err := h.Bookings.GetPriceStatistics(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, statsOut(st))
}

// ---- cross-entity queries ----

func (h *Handlers) queryBookings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var (
		bs  []domain.Booking
		err error
	)
	switch {
	case q.Get("hotelId") != "":
		id, ok := parseID(w, q.Get("hotelId"), "hotelId")
		if !ok {
			return
		}
		bs, err = h.Bookings.GetByHotelID(r.Context(), id)
	case q.Get("hotelName") != "":
		bs, err = h.Bookings.GetByHotelName(r.Context(), q.Get("hotelName"))
	default:
		writeProblem(w, http.StatusBadRequest, "Missing Parameter", "hotelId or hotelName is required")
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, bookingsOut(bs))
}

func (h *Handlers) queryHotels(w http.ResponseWriter, r *http.Request) {
	lastName := r.URL.Query().Get("customerLastName")
	if lastName == "" {
		writeProblem(w, http.StatusBadRequest, "Missing Parameter", "customerLastName is required")
		return
	}
	hs, err := h.Queries.GetHotelsForCustomer(r.Context(), lastName)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, hotelsOut(hs))
}
