package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Showtime struct {
	ID        int
	MovieID   int
	Theater   string
	StartsAt  time.Time
	Price     decimal.Decimal
	CreatedAt time.Time
}

// Started reports whether the screening has already begun, which closes
// the showtime for holds and bookings.
func (s Showtime) Started(now time.Time) bool {
	return !now.Before(s.StartsAt)
}

// SeatGrid describes the inventory created alongside a showtime. Rows are
// labeled A, B, C... and seats within a row are numbered from 1, so a 5x10
// grid produces labels A1 through E10.
type SeatGrid struct {
	Rows        int
	SeatsPerRow int
}

var DefaultSeatGrid = SeatGrid{Rows: 5, SeatsPerRow: 10}

type ShowtimeRepository interface {
	GetById(ctx context.Context, id int) (*Showtime, error)
	GetByMovie(ctx context.Context, movieID int) ([]Showtime, error)
	GetAll(ctx context.Context) ([]Showtime, error)

	// Create inserts the showtime and its full seat inventory in one
	// transaction. The showtime's ID is populated on success.
	Create(ctx context.Context, showtime *Showtime, grid SeatGrid) error

	Delete(ctx context.Context, id int) error
	UpdatePrice(ctx context.Context, id int, price decimal.Decimal) error
}
