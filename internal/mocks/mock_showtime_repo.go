package mocks

import (
	"context"

	"github.com/huyng/cinema-reservation/internal/domain"
	"github.com/shopspring/decimal"
)

type MockShowtimeRepo struct {
	domain.ShowtimeRepository
	GetByIdFunc     func(ctx context.Context, id int) (*domain.Showtime, error)
	GetByMovieFunc  func(ctx context.Context, movieID int) ([]domain.Showtime, error)
	GetAllFunc      func(ctx context.Context) ([]domain.Showtime, error)
	CreateFunc      func(ctx context.Context, showtime *domain.Showtime, grid domain.SeatGrid) error
	DeleteFunc      func(ctx context.Context, id int) error
	UpdatePriceFunc func(ctx context.Context, id int, price decimal.Decimal) error
}

func (m *MockShowtimeRepo) GetById(ctx context.Context, id int) (*domain.Showtime, error) {
	return m.GetByIdFunc(ctx, id)
}

func (m *MockShowtimeRepo) GetByMovie(ctx context.Context, movieID int) ([]domain.Showtime, error) {
	return m.GetByMovieFunc(ctx, movieID)
}

func (m *MockShowtimeRepo) GetAll(ctx context.Context) ([]domain.Showtime, error) {
	return m.GetAllFunc(ctx)
}

func (m *MockShowtimeRepo) Create(ctx context.Context, showtime *domain.Showtime, grid domain.SeatGrid) error {
	return m.CreateFunc(ctx, showtime, grid)
}

func (m *MockShowtimeRepo) Delete(ctx context.Context, id int) error {
	return m.DeleteFunc(ctx, id)
}

func (m *MockShowtimeRepo) UpdatePrice(ctx context.Context, id int, price decimal.Decimal) error {
	return m.UpdatePriceFunc(ctx, id, price)
}
