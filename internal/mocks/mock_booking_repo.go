package mocks

import (
	"context"
	"time"

	"github.com/huyng/cinema-reservation/internal/domain"
	"github.com/shopspring/decimal"
)

type MockBookingRepo struct {
	domain.BookingRepository
	CreateFunc               func(ctx context.Context, showtimeID, seatID, userID int, price decimal.Decimal, reference string) (*domain.Booking, error)
	GetByIdFunc              func(ctx context.Context, id int) (*domain.Booking, error)
	GetDetailByIdFunc        func(ctx context.Context, id int) (*domain.BookingDetail, error)
	GetByUserFunc            func(ctx context.Context, userID int, pagination domain.Pagination) ([]domain.BookingDetail, *domain.Metadata, error)
	CancelFunc               func(ctx context.Context, bookingID int) error
	MarkPaidFunc             func(ctx context.Context, bookingID int) error
	ExpireLapsedBookingsFunc func(ctx context.Context, now time.Time) (int, error)
}

func (m *MockBookingRepo) Create(ctx context.Context, showtimeID, seatID, userID int, price decimal.Decimal, reference string) (*domain.Booking, error) {
	return m.CreateFunc(ctx, showtimeID, seatID, userID, price, reference)
}

func (m *MockBookingRepo) GetById(ctx context.Context, id int) (*domain.Booking, error) {
	return m.GetByIdFunc(ctx, id)
}

func (m *MockBookingRepo) GetDetailById(ctx context.Context, id int) (*domain.BookingDetail, error) {
	return m.GetDetailByIdFunc(ctx, id)
}

func (m *MockBookingRepo) GetByUser(ctx context.Context, userID int, pagination domain.Pagination) ([]domain.BookingDetail, *domain.Metadata, error) {
	return m.GetByUserFunc(ctx, userID, pagination)
}

func (m *MockBookingRepo) Cancel(ctx context.Context, bookingID int) error {
	return m.CancelFunc(ctx, bookingID)
}

func (m *MockBookingRepo) MarkPaid(ctx context.Context, bookingID int) error {
	return m.MarkPaidFunc(ctx, bookingID)
}

func (m *MockBookingRepo) ExpireLapsedBookings(ctx context.Context, now time.Time) (int, error) {
	if m.ExpireLapsedBookingsFunc == nil {
		return 0, nil
	}
	return m.ExpireLapsedBookingsFunc(ctx, now)
}
