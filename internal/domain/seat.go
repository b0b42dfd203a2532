package domain

import (
	"context"
	"fmt"
	"time"
)

type SeatStatus string

const (
	SeatAvailable SeatStatus = "available"
	SeatHeld      SeatStatus = "held"
	SeatBooked    SeatStatus = "booked"
)

// Seat is one unit of a showtime's fixed inventory. HeldBy and HeldUntil
// are both set when Status is SeatHeld and both nil otherwise; NewSeat and
// the repository layer enforce this so callers never have to re-check it.
type Seat struct {
	ID         int
	ShowtimeID int
	Label      string
	Status     SeatStatus
	HeldBy     *int
	HeldUntil  *time.Time
}

func NewSeat(id, showtimeID int, label string, status SeatStatus, heldBy *int, heldUntil *time.Time) (Seat, error) {
	held := status == SeatHeld

	if held != (heldBy != nil && heldUntil != nil) {
		return Seat{}, fmt.Errorf("seat %d: hold fields inconsistent with status %q", id, status)
	}

	if !held && (heldBy != nil || heldUntil != nil) {
		return Seat{}, fmt.Errorf("seat %d: dangling hold fields on status %q", id, status)
	}

	return Seat{
		ID:         id,
		ShowtimeID: showtimeID,
		Label:      label,
		Status:     status,
		HeldBy:     heldBy,
		HeldUntil:  heldUntil,
	}, nil
}

// HeldByUser reports whether the seat is currently held by the given user.
func (s Seat) HeldByUser(userID int) bool {
	return s.Status == SeatHeld && s.HeldBy != nil && *s.HeldBy == userID
}

type SeatRepository interface {
	GetByShowtime(ctx context.Context, showtimeID int) ([]Seat, error)

	// Hold performs the compare-and-set transition to held. The update
	// only matches a seat that is available or already held by the same
	// user; any other state yields ErrSeatConflict, a missing seat yields
	// ErrRecordNotFound.
	Hold(ctx context.Context, showtimeID, seatID, userID int, until time.Time) error

	// Release frees the seat only when the given user is the current
	// holder. A mismatch is not an error.
	Release(ctx context.Context, showtimeID, seatID, userID int) error

	// ReleaseExpiredHolds clears every hold on the showtime whose expiry
	// is at or before now. Returns the number of seats reclaimed.
	ReleaseExpiredHolds(ctx context.Context, showtimeID int, now time.Time) (int, error)
}
