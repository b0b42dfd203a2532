package repository

import (
	"context"
	"time"

	"github.com/huyng/cinema-reservation/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresSeatRepository struct {
	db *pgxpool.Pool
}

func NewPostgresSeatRepository(db *pgxpool.Pool) *PostgresSeatRepository {
	return &PostgresSeatRepository{
		db: db,
	}
}

func (p *PostgresSeatRepository) GetByShowtime(ctx context.Context, showtimeID int) ([]domain.Seat, error) {
	query := `
		SELECT id, showtime_id, label, status, held_by, held_until
		FROM seats
		WHERE showtime_id = $1
		ORDER BY id
	`

	rows, err := p.db.Query(ctx, query, showtimeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]domain.Seat, 0)

	for rows.Next() {
		var (
			id, seatShowtimeID int
			label              string
			status             domain.SeatStatus
			heldBy             *int
			heldUntil          *time.Time
		)

		err = rows.Scan(&id, &seatShowtimeID, &label, &status, &heldBy, &heldUntil)
		if err != nil {
			return nil, err
		}

		seat, err := domain.NewSeat(id, seatShowtimeID, label, status, heldBy, heldUntil)
		if err != nil {
			return nil, err
		}

		seats = append(seats, seat)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return seats, nil
}

// Hold is a single guarded update: it only matches the seat while it is
// available or already held by the same user, so the database serializes
// competing holds on the row and exactly one caller wins.
func (p *PostgresSeatRepository) Hold(ctx context.Context, showtimeID, seatID, userID int, until time.Time) error {
	query := `
		UPDATE seats
		SET status = 'held', held_by = $3, held_until = $4
		WHERE id = $2 AND showtime_id = $1
			AND (status = 'available' OR (status = 'held' AND held_by = $3))
	`

	tag, err := p.db.Exec(ctx, query, showtimeID, seatID, userID, until)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return p.seatMissingOrConflict(ctx, showtimeID, seatID)
	}

	return nil
}

func (p *PostgresSeatRepository) Release(ctx context.Context, showtimeID, seatID, userID int) error {
	query := `
		UPDATE seats
		SET status = 'available', held_by = NULL, held_until = NULL
		WHERE id = $2 AND showtime_id = $1
			AND status = 'held' AND held_by = $3
	`

	// A zero row count means the user no longer holds the seat, which is
	// not an error.
	_, err := p.db.Exec(ctx, query, showtimeID, seatID, userID)
	return err
}

func (p *PostgresSeatRepository) ReleaseExpiredHolds(ctx context.Context, showtimeID int, now time.Time) (int, error) {
	query := `
		UPDATE seats
		SET status = 'available', held_by = NULL, held_until = NULL
		WHERE showtime_id = $1 AND status = 'held' AND held_until <= $2
	`

	tag, err := p.db.Exec(ctx, query, showtimeID, now)
	if err != nil {
		return 0, err
	}

	return int(tag.RowsAffected()), nil
}

// seatMissingOrConflict disambiguates a zero-row guarded update: the seat
// either does not exist or exists in a state the caller may not take.
func (p *PostgresSeatRepository) seatMissingOrConflict(ctx context.Context, showtimeID, seatID int) error {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM seats WHERE id = $2 AND showtime_id = $1
		)
	`

	var exists bool
	if err := p.db.QueryRow(ctx, query, showtimeID, seatID).Scan(&exists); err != nil {
		return err
	}

	if !exists {
		return domain.ErrRecordNotFound
	}

	return domain.ErrSeatConflict
}
