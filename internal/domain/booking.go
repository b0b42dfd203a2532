package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingPaid      BookingStatus = "paid"
	BookingCancelled BookingStatus = "cancelled"
	BookingExpired   BookingStatus = "expired"
)

// Active reports whether the booking still claims its seat. Cancelled and
// expired bookings are kept as append-only history.
func (s BookingStatus) Active() bool {
	return s == BookingConfirmed || s == BookingPaid
}

// Booking records the purchase of exactly one seat for one showtime. Price
// is captured at booking time and never follows later showtime price
// changes.
type Booking struct {
	ID         int
	UserID     int
	ShowtimeID int
	SeatID     int
	SeatLabel  string
	Price      decimal.Decimal
	Status     BookingStatus
	Reference  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// BookingDetail is the denormalized view used for booking history and
// ticket rendering.
type BookingDetail struct {
	Booking
	MovieTitle   string
	Theater      string
	ShowtimeDate time.Time
	CustomerName string
}

type BookingRepository interface {
	// Create books one seat atomically: the seat's compare-and-set to
	// booked and the booking insert commit together or not at all. A seat
	// that is neither available nor held by the user yields
	// ErrSeatConflict and leaves everything unchanged.
	Create(ctx context.Context, showtimeID, seatID, userID int, price decimal.Decimal, reference string) (*Booking, error)

	GetById(ctx context.Context, id int) (*Booking, error)
	GetDetailById(ctx context.Context, id int) (*BookingDetail, error)
	GetByUser(ctx context.Context, userID int, pagination Pagination) ([]BookingDetail, *Metadata, error)

	// Cancel marks the booking cancelled and frees its seat in one
	// transaction. Cancelling an already-cancelled booking is a no-op.
	Cancel(ctx context.Context, bookingID int) error

	// MarkPaid transitions confirmed to paid; any other current status
	// yields ErrEditConflict.
	MarkPaid(ctx context.Context, bookingID int) error

	// ExpireLapsedBookings flips confirmed bookings whose showtime has
	// started to expired and frees their seats. Returns the number of
	// bookings expired.
	ExpireLapsedBookings(ctx context.Context, now time.Time) (int, error)
}
