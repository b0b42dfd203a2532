package mocks

import (
	"context"
	"time"

	"github.com/huyng/cinema-reservation/internal/domain"
)

type MockSeatRepo struct {
	domain.SeatRepository
	GetByShowtimeFunc       func(ctx context.Context, showtimeID int) ([]domain.Seat, error)
	HoldFunc                func(ctx context.Context, showtimeID, seatID, userID int, until time.Time) error
	ReleaseFunc             func(ctx context.Context, showtimeID, seatID, userID int) error
	ReleaseExpiredHoldsFunc func(ctx context.Context, showtimeID int, now time.Time) (int, error)
}

func (m *MockSeatRepo) GetByShowtime(ctx context.Context, showtimeID int) ([]domain.Seat, error) {
	return m.GetByShowtimeFunc(ctx, showtimeID)
}

func (m *MockSeatRepo) Hold(ctx context.Context, showtimeID, seatID, userID int, until time.Time) error {
	return m.HoldFunc(ctx, showtimeID, seatID, userID, until)
}

func (m *MockSeatRepo) Release(ctx context.Context, showtimeID, seatID, userID int) error {
	return m.ReleaseFunc(ctx, showtimeID, seatID, userID)
}

func (m *MockSeatRepo) ReleaseExpiredHolds(ctx context.Context, showtimeID int, now time.Time) (int, error) {
	if m.ReleaseExpiredHoldsFunc == nil {
		return 0, nil
	}
	return m.ReleaseExpiredHoldsFunc(ctx, showtimeID, now)
}
