package repository

import (
	"context"
	"errors"
	"time"

	"github.com/huyng/cinema-reservation/internal/domain"
	"github.com/jackc/pgerrcode"
	"github.com/shopspring/decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresBookingRepository struct {
	db *pgxpool.Pool
}

func NewPostgresBookingRepository(db *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{
		db: db,
	}
}

// Create books one seat: the seat's guarded transition to booked and the
// booking insert commit in the same transaction. The partial unique index on
// active bookings backstops the guard, so even under a write skew the second
// booking of a seat fails as a conflict rather than double-selling.
func (p *PostgresBookingRepository) Create(
	ctx context.Context,
	showtimeID, seatID, userID int,
	price decimal.Decimal,
	reference string) (*domain.Booking, error) {

	booking := &domain.Booking{
		UserID:     userID,
		ShowtimeID: showtimeID,
		SeatID:     seatID,
		Price:      price,
		Status:     domain.BookingConfirmed,
		Reference:  reference,
	}

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			UPDATE seats
			SET status = 'booked', held_by = NULL, held_until = NULL
			WHERE id = $2 AND showtime_id = $1
				AND (status = 'available' OR (status = 'held' AND held_by = $3))
			RETURNING label
		`

		err := tx.QueryRow(ctx, query, showtimeID, seatID, userID).Scan(&booking.SeatLabel)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return p.seatMissingOrConflict(ctx, tx, showtimeID, seatID)
			}
			return err
		}

		query = `
			INSERT INTO bookings (user_id, showtime_id, seat_id, price, status, reference)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at, updated_at
		`

		return tx.QueryRow(
			ctx,
			query,
			booking.UserID,
			booking.ShowtimeID,
			booking.SeatID,
			booking.Price,
			booking.Status,
			booking.Reference).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	})

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, domain.ErrSeatConflict
		}

		return nil, err
	}

	return booking, nil
}

func (p *PostgresBookingRepository) GetById(ctx context.Context, id int) (*domain.Booking, error) {
	query := `
		SELECT b.id, b.user_id, b.showtime_id, b.seat_id, s.label, b.price,
			b.status, b.reference, b.created_at, b.updated_at
		FROM bookings b
		JOIN seats s ON b.seat_id = s.id
		WHERE b.id = $1
	`

	var booking domain.Booking

	err := p.db.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.UserID,
		&booking.ShowtimeID,
		&booking.SeatID,
		&booking.SeatLabel,
		&booking.Price,
		&booking.Status,
		&booking.Reference,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &booking, nil
}

func (p *PostgresBookingRepository) GetDetailById(ctx context.Context, id int) (*domain.BookingDetail, error) {
	query := `
		SELECT b.id, b.user_id, b.showtime_id, b.seat_id, s.label, b.price,
			b.status, b.reference, b.created_at, b.updated_at,
			m.title, sh.theater, sh.starts_at, u.full_name
		FROM bookings b
		JOIN seats s ON b.seat_id = s.id
		JOIN showtimes sh ON b.showtime_id = sh.id
		JOIN movies m ON sh.movie_id = m.id
		JOIN users u ON b.user_id = u.id
		WHERE b.id = $1
	`

	var detail domain.BookingDetail

	err := p.db.QueryRow(ctx, query, id).Scan(
		&detail.ID,
		&detail.UserID,
		&detail.ShowtimeID,
		&detail.SeatID,
		&detail.SeatLabel,
		&detail.Price,
		&detail.Status,
		&detail.Reference,
		&detail.CreatedAt,
		&detail.UpdatedAt,
		&detail.MovieTitle,
		&detail.Theater,
		&detail.ShowtimeDate,
		&detail.CustomerName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &detail, nil
}

func (p *PostgresBookingRepository) GetByUser(
	ctx context.Context,
	userID int,
	pagination domain.Pagination) ([]domain.BookingDetail, *domain.Metadata, error) {

	query := `
		SELECT
			COUNT(*) OVER(),
			b.id, b.user_id, b.showtime_id, b.seat_id, s.label, b.price,
			b.status, b.reference, b.created_at, b.updated_at,
			m.title, sh.theater, sh.starts_at, u.full_name
		FROM bookings b
		JOIN seats s ON b.seat_id = s.id
		JOIN showtimes sh ON b.showtime_id = sh.id
		JOIN movies m ON sh.movie_id = m.id
		JOIN users u ON b.user_id = u.id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC, b.id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := p.db.Query(ctx, query, userID, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	details := make([]domain.BookingDetail, 0)
	totalRecords := 0

	for rows.Next() {
		var detail domain.BookingDetail

		err := rows.Scan(
			&totalRecords,
			&detail.ID,
			&detail.UserID,
			&detail.ShowtimeID,
			&detail.SeatID,
			&detail.SeatLabel,
			&detail.Price,
			&detail.Status,
			&detail.Reference,
			&detail.CreatedAt,
			&detail.UpdatedAt,
			&detail.MovieTitle,
			&detail.Theater,
			&detail.ShowtimeDate,
			&detail.CustomerName,
		)
		if err != nil {
			return nil, nil, err
		}

		details = append(details, detail)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, pagination.Page, pagination.PageSize)

	return details, metadata, nil
}

func (p *PostgresBookingRepository) Cancel(ctx context.Context, bookingID int) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			SELECT status, seat_id
			FROM bookings
			WHERE id = $1
			FOR UPDATE
		`

		var status domain.BookingStatus
		var seatID int

		err := tx.QueryRow(ctx, query, bookingID).Scan(&status, &seatID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrRecordNotFound
			}
			return err
		}

		if status == domain.BookingCancelled {
			return nil
		}

		query = `
			UPDATE bookings
			SET status = 'cancelled', updated_at = NOW()
			WHERE id = $1
		`

		if _, err := tx.Exec(ctx, query, bookingID); err != nil {
			return err
		}

		// Only an active booking still owns its seat. An expired booking's
		// seat was already freed and may belong to someone else by now.
		if !status.Active() {
			return nil
		}

		query = `
			UPDATE seats
			SET status = 'available', held_by = NULL, held_until = NULL
			WHERE id = $1 AND status = 'booked'
		`

		_, err = tx.Exec(ctx, query, seatID)
		return err
	})
}

func (p *PostgresBookingRepository) MarkPaid(ctx context.Context, bookingID int) error {
	query := `
		UPDATE bookings
		SET status = 'paid', updated_at = NOW()
		WHERE id = $1 AND status = 'confirmed'
	`

	tag, err := p.db.Exec(ctx, query, bookingID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		var exists bool
		err := p.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE id = $1)`, bookingID).Scan(&exists)
		if err != nil {
			return err
		}

		if !exists {
			return domain.ErrRecordNotFound
		}

		return domain.ErrEditConflict
	}

	return nil
}

func (p *PostgresBookingRepository) ExpireLapsedBookings(ctx context.Context, now time.Time) (int, error) {
	expired := 0

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			UPDATE bookings b
			SET status = 'expired', updated_at = NOW()
			FROM showtimes sh
			WHERE b.showtime_id = sh.id
				AND b.status = 'confirmed'
				AND sh.starts_at <= $1
			RETURNING b.seat_id
		`

		rows, err := tx.Query(ctx, query, now)
		if err != nil {
			return err
		}

		seatIDs := make([]int, 0)
		for rows.Next() {
			var seatID int
			if err := rows.Scan(&seatID); err != nil {
				rows.Close()
				return err
			}
			seatIDs = append(seatIDs, seatID)
		}
		rows.Close()

		if err := rows.Err(); err != nil {
			return err
		}

		if len(seatIDs) == 0 {
			return nil
		}

		query = `
			UPDATE seats
			SET status = 'available', held_by = NULL, held_until = NULL
			WHERE id = ANY($1) AND status = 'booked'
		`

		if _, err := tx.Exec(ctx, query, seatIDs); err != nil {
			return err
		}

		expired = len(seatIDs)
		return nil
	})

	if err != nil {
		return 0, err
	}

	return expired, nil
}

func (p *PostgresBookingRepository) seatMissingOrConflict(ctx context.Context, tx pgx.Tx, showtimeID, seatID int) error {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM seats WHERE id = $2 AND showtime_id = $1
		)
	`

	var exists bool
	if err := tx.QueryRow(ctx, query, showtimeID, seatID).Scan(&exists); err != nil {
		return err
	}

	if !exists {
		return domain.ErrRecordNotFound
	}

	return domain.ErrSeatConflict
}

func runInTx(ctx context.Context, db *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	var txOptions pgx.TxOptions

	tx, err := db.BeginTx(ctx, txOptions)
	if err != nil {
		return err
	}

	err = fn(tx)
	if err == nil {
		return tx.Commit(ctx)
	}

	rollbackErr := tx.Rollback(ctx)
	if rollbackErr != nil {
		return errors.Join(err, rollbackErr)
	}

	return err
}
