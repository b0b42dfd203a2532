package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/huyng/cinema-reservation/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PostgresShowtimeRepository struct {
	db *pgxpool.Pool
}

func NewPostgresShowtimeRepository(db *pgxpool.Pool) *PostgresShowtimeRepository {
	return &PostgresShowtimeRepository{
		db: db,
	}
}

func (p *PostgresShowtimeRepository) GetById(ctx context.Context, id int) (*domain.Showtime, error) {
	query := `
		SELECT id, movie_id, theater, starts_at, price, created_at
		FROM showtimes
		WHERE id = $1
	`

	var showtime domain.Showtime

	err := p.db.QueryRow(ctx, query, id).Scan(
		&showtime.ID,
		&showtime.MovieID,
		&showtime.Theater,
		&showtime.StartsAt,
		&showtime.Price,
		&showtime.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &showtime, nil
}

func (p *PostgresShowtimeRepository) GetByMovie(ctx context.Context, movieID int) ([]domain.Showtime, error) {
	query := `
		SELECT id, movie_id, theater, starts_at, price, created_at
		FROM showtimes
		WHERE movie_id = $1
		ORDER BY starts_at
	`

	return p.queryShowtimes(ctx, query, movieID)
}

func (p *PostgresShowtimeRepository) GetAll(ctx context.Context) ([]domain.Showtime, error) {
	query := `
		SELECT id, movie_id, theater, starts_at, price, created_at
		FROM showtimes
		ORDER BY starts_at
	`

	return p.queryShowtimes(ctx, query)
}

func (p *PostgresShowtimeRepository) queryShowtimes(ctx context.Context, query string, args ...any) ([]domain.Showtime, error) {
	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	showtimes := make([]domain.Showtime, 0)

	for rows.Next() {
		var showtime domain.Showtime

		err = rows.Scan(
			&showtime.ID,
			&showtime.MovieID,
			&showtime.Theater,
			&showtime.StartsAt,
			&showtime.Price,
			&showtime.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		showtimes = append(showtimes, showtime)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return showtimes, nil
}

// Create inserts the showtime and bulk-loads its seat inventory in one
// transaction, so a showtime is never visible without its seats.
func (p *PostgresShowtimeRepository) Create(ctx context.Context, showtime *domain.Showtime, grid domain.SeatGrid) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO showtimes (movie_id, theater, starts_at, price)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at
		`

		err := tx.QueryRow(
			ctx,
			query,
			showtime.MovieID,
			showtime.Theater,
			showtime.StartsAt,
			showtime.Price).Scan(&showtime.ID, &showtime.CreatedAt)
		if err != nil {
			return err
		}

		rows := make([][]any, 0, grid.Rows*grid.SeatsPerRow)
		for row := 0; row < grid.Rows; row++ {
			for n := 1; n <= grid.SeatsPerRow; n++ {
				label := fmt.Sprintf("%c%d", 'A'+row, n)
				rows = append(rows, []any{showtime.ID, label, domain.SeatAvailable})
			}
		}

		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"seats"},
			[]string{"showtime_id", "label", "status"},
			pgx.CopyFromRows(rows),
		)

		return err
	})
}

func (p *PostgresShowtimeRepository) Delete(ctx context.Context, id int) error {
	query := `
		DELETE FROM showtimes
		WHERE id = $1
	`

	tag, err := p.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

func (p *PostgresShowtimeRepository) UpdatePrice(ctx context.Context, id int, price decimal.Decimal) error {
	query := `
		UPDATE showtimes
		SET price = $2
		WHERE id = $1
	`

	tag, err := p.db.Exec(ctx, query, id, price)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}
