package integration_test

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/huyng/cinema-reservation/internal/domain"
	"github.com/huyng/cinema-reservation/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
)

type BaseSuite struct {
	suite.Suite
	dbContainer *PostgresContainer
	db          *pgxpool.Pool

	seatRepo     *repository.PostgresSeatRepository
	bookingRepo  *repository.PostgresBookingRepository
	showtimeRepo *repository.PostgresShowtimeRepository
	movieRepo    *repository.PostgresMovieRepository
	userRepo     *repository.PostgresUserRepository

	userSeq atomic.Int64
}

func (s *BaseSuite) SetupSuite() {
	ctx := context.Background()

	postgresContainer, err := getDbContainer(ctx)
	if err != nil {
		log.Printf("failed to start container: %s", err)
		return
	}

	s.dbContainer = postgresContainer

	db, err := pgxpool.New(ctx, postgresContainer.ConnectionString)
	if err != nil {
		log.Printf("failed to create pool: %s", err)
		return
	}

	s.db = db
	s.seatRepo = repository.NewPostgresSeatRepository(db)
	s.bookingRepo = repository.NewPostgresBookingRepository(db)
	s.showtimeRepo = repository.NewPostgresShowtimeRepository(db)
	s.movieRepo = repository.NewPostgresMovieRepository(db)
	s.userRepo = repository.NewPostgresUserRepository(db)
}

func (s *BaseSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.dbContainer != nil {
		if err := testcontainers.TerminateContainer(s.dbContainer.Container.Container); err != nil {
			log.Printf("failed to terminate container: %s", err)
		}
	}
}

func (s *BaseSuite) TearDownTest() {
	_, err := s.db.Exec(context.Background(),
		`TRUNCATE bookings, seats, showtimes, movies, users RESTART IDENTITY CASCADE`)
	s.Require().NoError(err)
}

func (s *BaseSuite) createUser(admin bool) int {
	n := s.userSeq.Add(1)

	var id int
	err := s.db.QueryRow(context.Background(), `
		INSERT INTO users (username, email, full_name, is_admin)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		fmt.Sprintf("user%d", n),
		fmt.Sprintf("user%d@example.com", n),
		fmt.Sprintf("User %d", n),
		admin,
	).Scan(&id)
	s.Require().NoError(err)

	return id
}

func (s *BaseSuite) createMovie() int {
	var id int
	err := s.db.QueryRow(context.Background(), `
		INSERT INTO movies (title, genre, duration_min)
		VALUES ('Interstellar', 'Sci-Fi', 169)
		RETURNING id`).Scan(&id)
	s.Require().NoError(err)

	return id
}

func (s *BaseSuite) createShowtime(startsAt time.Time, price float64) *domain.Showtime {
	showtime := &domain.Showtime{
		MovieID:  s.createMovie(),
		Theater:  "Room 1",
		StartsAt: startsAt,
		Price:    decimal.NewFromFloat(price),
	}

	err := s.showtimeRepo.Create(context.Background(), showtime, domain.DefaultSeatGrid)
	s.Require().NoError(err)

	return showtime
}

func (s *BaseSuite) firstSeat(showtimeID int) domain.Seat {
	seats, err := s.seatRepo.GetByShowtime(context.Background(), showtimeID)
	s.Require().NoError(err)
	s.Require().NotEmpty(seats)

	return seats[0]
}
