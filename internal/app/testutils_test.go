package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/huyng/cinema-reservation/internal/clock"
	"github.com/huyng/cinema-reservation/internal/domain"
	"github.com/huyng/cinema-reservation/internal/mocks"
	"github.com/huyng/cinema-reservation/internal/queue"
	"github.com/huyng/cinema-reservation/internal/reservation"
	"github.com/huyng/cinema-reservation/internal/validator"
	"github.com/shopspring/decimal"
)

// testNow anchors every handler test at the same instant.
var testNow = time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)

type testRepos struct {
	seats     *mocks.MockSeatRepo
	bookings  *mocks.MockBookingRepo
	showtimes *mocks.MockShowtimeRepo
	users     *mocks.MockUserRepo
	movies    *mocks.MockMovieRepo
}

func newTestApplication(opts ...func(*Application, *testRepos)) (*Application, *testRepos) {
	repos := &testRepos{
		seats:     &mocks.MockSeatRepo{},
		bookings:  &mocks.MockBookingRepo{},
		showtimes: &mocks.MockShowtimeRepo{},
		users:     &mocks.MockUserRepo{},
		movies:    &mocks.MockMovieRepo{},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	app := &Application{
		logger:    logger,
		validator: validator.NewValidator(),
		reservations: reservation.NewService(
			repos.seats,
			repos.bookings,
			repos.showtimes,
			repos.users,
			queue.NoopPublisher{},
			clock.NewFixed(testNow),
			logger,
		),
		movieRepo:    repos.movies,
		showtimeRepo: repos.showtimes,
		userRepo:     repos.users,
	}

	for _, opt := range opts {
		opt(app, repos)
	}

	return app, repos
}

func executeRequest(t *testing.T, app *Application, method, url string, body any, userID int) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(jsonData)
	}

	r := httptest.NewRequest(method, url, reader)
	r.Header.Set("Content-Type", "application/json")
	if userID > 0 {
		r.Header.Set("X-User-Id", strconv.Itoa(userID))
	}

	w := httptest.NewRecorder()
	app.routes().ServeHTTP(w, r)

	return w
}

func decodeResponse[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	return out
}

func testShowtime() *domain.Showtime {
	return &domain.Showtime{
		ID:       1,
		MovieID:  1,
		Theater:  "Room 1",
		StartsAt: testNow.Add(2 * time.Hour),
		Price:    decimal.NewFromFloat(12.50),
	}
}

func showtimeGetter(showtime *domain.Showtime) func(context.Context, int) (*domain.Showtime, error) {
	return func(ctx context.Context, id int) (*domain.Showtime, error) {
		if showtime != nil && id == showtime.ID {
			return showtime, nil
		}
		return nil, domain.ErrRecordNotFound
	}
}

func ptr[T any](v T) *T {
	return &v
}
